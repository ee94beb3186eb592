// Package linker places freshly parsed objects into an internal model
// tree. Readers build objects bottom up and hand each one to the linker
// together with the object that will become its parent; the linker decides,
// from the pair of kinds, whether the child is appended, merged into the
// parent, registered in a relation or attached.
package linker

import (
	"github.com/FocuswithJustin/JuniperScore/core/imo"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

// ChildRole tells the linker which role the child plays in the source
// element, for children whose placement depends on it.
type ChildRole int

const (
	// RoleNone is used for every child without a specific role.
	RoleNone ChildRole = iota
	// RoleName marks a text that names an instrument or group.
	RoleName
	// RoleAbbrev marks a text that abbreviates an instrument or group name.
	RoleAbbrev
)

func (r ChildRole) String() string {
	switch r {
	case RoleName:
		return "name"
	case RoleAbbrev:
		return "abbrev"
	}
	return "none"
}

// Config contains linker options.
type Config struct {
	// Strict counts children that could not be placed. The children are
	// still returned to the caller unchanged.
	Strict bool
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{Strict: false}
}

// Linker is not safe for concurrent use; a reader owns one linker per
// document.
type Linker struct {
	config   Config
	parent   imo.Obj
	role     ChildRole
	unplaced int
}

// New creates a linker with the given configuration.
func New(config Config) *Linker {
	return &Linker{config: config}
}

// Unplaced returns the number of children left unplaced since the linker
// was created. It is only maintained in strict mode.
func (l *Linker) Unplaced() int { return l.unplaced }

// AddChildToModel links child under parent according to role. It returns
// the object the reader should keep working with: the child itself when it
// became (or stays) an independent node, or nil when it was consumed by
// the parent and must not be used again. A nil parent leaves the child
// untouched.
func (l *Linker) AddChildToModel(parent, child imo.Obj, role ChildRole) imo.Obj {
	if child == nil {
		return nil
	}
	l.parent = parent
	l.role = role

	switch c := child.(type) {
	case *imo.BezierInfo:
		return l.addBezier(c)
	case *imo.Content:
		return l.addChild(imo.KindDocument, c)
	case *imo.CursorInfo:
		return l.addCursor(c)
	case *imo.FontInfo:
		return l.addFontInfo(c)
	case *imo.Instrument:
		return l.addInstrument(c)
	case *imo.InstrGroup:
		return l.addInstrumentsGroup(c)
	case *imo.MidiInfo:
		return l.addMidiInfo(c)
	case *imo.MusicData:
		return l.addChild(imo.KindInstrument, c)
	case *imo.OptionInfo:
		return l.addOption(c)
	case *imo.PageInfo:
		return l.addPageInfo(c)
	case *imo.ScoreText:
		return l.addText(c)
	case *imo.ScoreTitle:
		return l.addTitle(c)
	case *imo.StaffInfo:
		return l.addStaffInfo(c)
	case *imo.Styles:
		return l.addChild(imo.KindDocument, c)
	case *imo.SystemInfo:
		return l.addSystemInfo(c)
	case *imo.TextItem:
		return l.addTextItem(c)
	case *imo.TextStyleInfo:
		return l.addTextStyleInfo(c)
	}

	k := child.Kind()
	switch {
	case k.IsBoxObj():
		return l.addChild(imo.KindContent, child)
	case k.IsStaffObj():
		return l.addStaffObj(child.(imo.StaffObj))
	case k.IsAuxObj():
		return l.addAttachment(child.(imo.AuxObj))
	}
	return l.notPlaced(child)
}

func (l *Linker) parentIs(k imo.Kind) bool {
	return l.parent != nil && l.parent.Kind() == k
}

// notPlaced reports a child the linker had no rule for.
func (l *Linker) notPlaced(child imo.Obj) imo.Obj {
	parentKind := "none"
	if l.parent != nil {
		parentKind = l.parent.TypeName()
	}
	logging.LinkerUnplaced(parentKind, child.TypeName(),
		"child_id", int64(child.ID()), "role", l.role.String())
	if l.config.Strict {
		l.unplaced++
	}
	return child
}

func (l *Linker) addChild(parentKind imo.Kind, child imo.Obj) imo.Obj {
	if !l.parentIs(parentKind) {
		return l.notPlaced(child)
	}
	l.parent.AppendChild(child)
	return child
}

func (l *Linker) addBezier(b *imo.BezierInfo) imo.Obj {
	switch p := l.parent.(type) {
	case *imo.TieDto:
		p.SetBezier(b)
		return nil
	case *imo.SlurDto:
		p.SetBezier(b)
		return nil
	}
	return l.notPlaced(b)
}

func (l *Linker) addCursor(c *imo.CursorInfo) imo.Obj {
	doc, ok := l.parent.(*imo.Document)
	if !ok {
		return l.notPlaced(c)
	}
	doc.AddCursorInfo(c)
	imo.Delete(c)
	return nil
}

func (l *Linker) addFontInfo(f *imo.FontInfo) imo.Obj {
	style, ok := l.parent.(*imo.TextStyleInfo)
	if !ok {
		return l.notPlaced(f)
	}
	style.Font = f.Font
	imo.Delete(f)
	return nil
}

func (l *Linker) addInstrument(in *imo.Instrument) imo.Obj {
	switch p := l.parent.(type) {
	case *imo.InstrGroup:
		p.AddInstrument(in)
	case *imo.Score:
		p.AddInstrument(in)
	default:
		return l.notPlaced(in)
	}
	return in
}

func (l *Linker) addInstrumentsGroup(g *imo.InstrGroup) imo.Obj {
	score, ok := l.parent.(*imo.Score)
	if !ok {
		return l.notPlaced(g)
	}
	score.AddInstrumentsGroup(g)
	return g
}

func (l *Linker) addMidiInfo(m *imo.MidiInfo) imo.Obj {
	in, ok := l.parent.(*imo.Instrument)
	if !ok {
		return l.notPlaced(m)
	}
	in.SetMidiInfo(m)
	return nil
}

func (l *Linker) addOption(o *imo.OptionInfo) imo.Obj {
	score, ok := l.parent.(*imo.Score)
	if !ok {
		return l.notPlaced(o)
	}
	if !score.SetOption(o) {
		logging.Debug("option_not_converted", "name", o.Name(), "type", o.Type.String())
	}
	imo.Delete(o)
	return nil
}

func (l *Linker) addPageInfo(pi *imo.PageInfo) imo.Obj {
	switch p := l.parent.(type) {
	case *imo.Score:
		p.AddPageInfo(pi)
	case *imo.Document:
		p.AddPageInfo(pi)
	default:
		return l.notPlaced(pi)
	}
	imo.Delete(pi)
	return nil
}

func (l *Linker) addStaffInfo(si *imo.StaffInfo) imo.Obj {
	in, ok := l.parent.(*imo.Instrument)
	if !ok {
		return l.notPlaced(si)
	}
	in.ReplaceStaffInfo(si)
	return nil
}

func (l *Linker) addSystemInfo(si *imo.SystemInfo) imo.Obj {
	score, ok := l.parent.(*imo.Score)
	if !ok {
		return l.notPlaced(si)
	}
	score.AddSystemInfo(si)
	imo.Delete(si)
	return nil
}

func (l *Linker) addTextStyleInfo(st *imo.TextStyleInfo) imo.Obj {
	switch p := l.parent.(type) {
	case *imo.Score:
		p.AddStyleInfo(st)
	case *imo.Styles:
		p.AddStyleInfo(st)
	default:
		return l.notPlaced(st)
	}
	return nil
}

// addText places a score text. Texts found directly in music data are
// anchored to a new spacer, as music data only holds staff objects.
func (l *Linker) addText(t *imo.ScoreText) imo.Obj {
	switch p := l.parent.(type) {
	case nil:
		return l.notPlaced(t)
	case *imo.MusicData:
		spacer := imo.NewSpacer()
		spacer.AddAttachment(t)
		p.AppendChild(spacer)
		return t
	case *imo.Instrument:
		if l.role == RoleName {
			p.SetName(t)
		} else {
			p.SetAbbrev(t)
		}
		return nil
	case *imo.InstrGroup:
		if l.role == RoleName {
			p.SetName(t)
		} else {
			p.SetAbbrev(t)
		}
		return nil
	case *imo.Content:
		p.AppendChild(t)
		return t
	}
	return l.addAttachment(t)
}

func (l *Linker) addTextItem(t *imo.TextItem) imo.Obj {
	switch p := l.parent.(type) {
	case imo.TextBlockLike:
		p.AddItem(t)
		return nil
	case *imo.Content:
		p.AppendChild(t)
		return nil
	}
	return l.notPlaced(t)
}

func (l *Linker) addTitle(t *imo.ScoreTitle) imo.Obj {
	score, ok := l.parent.(*imo.Score)
	if !ok {
		return l.notPlaced(t)
	}
	score.AddTitle(t)
	return t
}

// addStaffObj appends so to music data. A note whose parent is a chord is
// made a chord member instead; it stays in the music data it was already
// appended to.
func (l *Linker) addStaffObj(so imo.StaffObj) imo.Obj {
	switch p := l.parent.(type) {
	case *imo.MusicData:
		p.AppendChild(so)
		return so
	case *imo.Chord:
		if note, ok := so.(*imo.Note); ok {
			note.IncludeInRelation(p, nil)
			return nil
		}
	}
	return l.notPlaced(so)
}

func (l *Linker) addAttachment(a imo.AuxObj) imo.Obj {
	co, ok := l.parent.(imo.ContentObj)
	if !ok {
		return l.notPlaced(a)
	}
	co.AddAttachment(a)
	return a
}
