package imo

import (
	"sort"

	"github.com/google/uuid"
)

// Document is the root of a model tree. Content and Styles children are
// appended by the reader; page layout and cursor live outside the tree.
type Document struct {
	containerBase
	version    string
	instanceID uuid.UUID
	page       PageLayout
	cursor     CursorState
}

// NewDocument returns an empty document with a fresh instance id.
func NewDocument(version string) *Document {
	d := &Document{
		version:    version,
		instanceID: uuid.New(),
		page:       DefaultPageLayout(),
		cursor:     CursorState{ObjectID: NoID},
	}
	d.initContent(d, KindDocument)
	return d
}

// Version returns the source format version.
func (d *Document) Version() string { return d.version }

// SetVersion sets the source format version.
func (d *Document) SetVersion(v string) { d.version = v }

// InstanceID identifies this in-memory document.
func (d *Document) InstanceID() uuid.UUID { return d.instanceID }

// Content returns the content child or nil.
func (d *Document) Content() *Content {
	c, _ := d.ChildOfType(KindContent).(*Content)
	return c
}

// NumContentItems returns the number of content items.
func (d *Document) NumContentItems() int {
	if c := d.Content(); c != nil {
		return c.NumChildren()
	}
	return 0
}

// ContentItem returns content item i or nil.
func (d *Document) ContentItem(i int) ContentObj {
	c := d.Content()
	if c == nil {
		return nil
	}
	item, _ := c.Child(i).(ContentObj)
	return item
}

// AddPageInfo copies the layout of pi.
func (d *Document) AddPageInfo(pi *PageInfo) { d.page = pi.PageLayout }

// PageLayout returns the page layout.
func (d *Document) PageLayout() PageLayout { return d.page }

// AddCursorInfo copies the cursor state of ci.
func (d *Document) AddCursorInfo(ci *CursorInfo) { d.cursor = ci.CursorState }

// Cursor returns the saved cursor state.
func (d *Document) Cursor() CursorState { return d.cursor }

// Styles returns the styles child or nil.
func (d *Document) Styles() *Styles {
	s, _ := d.ChildOfType(KindStyles).(*Styles)
	return s
}

func (d *Document) ensureStyles() *Styles {
	if s := d.Styles(); s != nil {
		return s
	}
	s := NewStyles()
	d.AppendChild(s)
	return s
}

// AddStyleInfo transfers st to the document styles, creating the Styles
// child if needed.
func (d *Document) AddStyleInfo(st *TextStyleInfo) { d.ensureStyles().AddStyleInfo(st) }

// StyleInfo returns the named document style or nil.
func (d *Document) StyleInfo(name string) *TextStyleInfo {
	if s := d.Styles(); s != nil {
		return s.StyleInfo(name)
	}
	return nil
}

// DefaultStyleInfo returns the document default style.
func (d *Document) DefaultStyleInfo() *TextStyleInfo { return d.ensureStyles().DefaultStyleInfo() }

// StyleInfoOrDefaults returns the named style or the default style.
func (d *Document) StyleInfoOrDefaults(name string) *TextStyleInfo {
	return d.ensureStyles().StyleInfoOrDefaults(name)
}

// Content is the ordered list of document blocks (scores, paragraphs,
// headings...).
type Content struct {
	collection
}

// NewContent returns empty content.
func NewContent() *Content {
	c := &Content{}
	c.init(c, KindContent)
	return c
}

// Styles owns the text styles of a document, by name. The default style
// exists from construction.
type Styles struct {
	collection
	styles map[string]*TextStyleInfo
}

// NewStyles returns a style set holding only the default style.
func NewStyles() *Styles {
	s := &Styles{styles: make(map[string]*TextStyleInfo)}
	s.init(s, KindStyles)
	s.createDefaultStyle()
	return s
}

func (s *Styles) createDefaultStyle() *TextStyleInfo {
	st := NewTextStyleInfo()
	st.Font.Size = 12
	s.styles[st.name] = st
	return st
}

// AddStyleInfo transfers st to the set, replacing any style with the same
// name.
func (s *Styles) AddStyleInfo(st *TextStyleInfo) {
	if old, ok := s.styles[st.name]; ok && old != st && !old.IsDeleted() {
		Delete(old)
	}
	s.styles[st.name] = st
}

// StyleInfo returns the named style or nil.
func (s *Styles) StyleInfo(name string) *TextStyleInfo { return s.styles[name] }

// StyleInfoOrDefaults returns the named style or the default one.
func (s *Styles) StyleInfoOrDefaults(name string) *TextStyleInfo {
	if st := s.StyleInfo(name); st != nil {
		return st
	}
	return s.DefaultStyleInfo()
}

// DefaultStyleInfo returns the default style, creating it if missing.
func (s *Styles) DefaultStyleInfo() *TextStyleInfo {
	if st := s.StyleInfo(DefaultStyleName); st != nil {
		return st
	}
	return s.createDefaultStyle()
}

// Names returns the style names, sorted.
func (s *Styles) Names() []string {
	names := make([]string, 0, len(s.styles))
	for n := range s.styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Styles) beforeDelete() {
	for _, st := range s.styles {
		if !st.IsDeleted() {
			Delete(st)
		}
	}
	s.styles = nil
}

// TextBlock is a block of text items. Paragraphs and headings are text
// blocks.
type TextBlock struct {
	boxBase
}

// NewTextBlock returns an empty text block.
func NewTextBlock() *TextBlock {
	t := &TextBlock{}
	t.initContent(t, KindTextBlock)
	return t
}

// AddItem appends a text item.
func (t *TextBlock) AddItem(item *TextItem) { t.AppendChild(item) }

// Items returns the text items in order.
func (t *TextBlock) Items() []*TextItem {
	res := make([]*TextItem, 0, len(t.children))
	for _, c := range t.children {
		if it, ok := c.(*TextItem); ok {
			res = append(res, it)
		}
	}
	return res
}

// Paragraph is a text block rendered as a paragraph.
type Paragraph struct {
	TextBlock
}

// NewParagraph returns an empty paragraph.
func NewParagraph() *Paragraph {
	p := &Paragraph{}
	p.initContent(p, KindParagraph)
	return p
}

// Heading is a text block rendered as a heading of a given level.
type Heading struct {
	TextBlock
	level int
}

// NewHeading returns an empty heading.
func NewHeading(level int) *Heading {
	h := &Heading{level: level}
	h.initContent(h, KindHeading)
	return h
}

// Level returns the heading level.
func (h *Heading) Level() int { return h.level }

// TextBlockLike is implemented by text blocks, paragraphs and headings.
type TextBlockLike interface {
	ContentObj
	AddItem(item *TextItem)
	Items() []*TextItem
}
