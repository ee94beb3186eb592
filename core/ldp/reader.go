// Package ldp reads and writes LDP, the s-expression source format of
// the score model. The reader analyses each element, builds the matching
// model object and hands it to the linker; relations (ties, slurs, beams,
// tuplets and chords) are collected while reading and built once their
// last note is known.
package ldp

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/core/imo"
	"github.com/FocuswithJustin/JuniperScore/core/linker"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

// Config contains reader options.
type Config struct {
	Linker linker.Config
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{Linker: linker.DefaultConfig()}
}

// Warning is a recoverable problem found while reading.
type Warning struct {
	Line    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// Reader builds model trees from LDP source. A Reader is not safe for
// concurrent use; each Read starts from a clean state.
type Reader struct {
	config   Config
	name     string
	linker   *linker.Linker
	warnings []Warning
	rel      relations
}

// NewReader creates a reader with the given configuration.
func NewReader(config Config) *Reader {
	return &Reader{config: config}
}

// Warnings returns the warnings of the last Read.
func (r *Reader) Warnings() []Warning { return r.warnings }

// Read parses src and returns the document it describes. A bare score is
// wrapped in a new document. name is used in messages only.
func (r *Reader) Read(name string, src []byte) (*imo.Document, error) {
	r.name = name
	r.linker = linker.New(r.config.Linker)
	r.warnings = nil
	r.rel = newRelations()

	root, err := Parse(name, string(src))
	if err != nil {
		return nil, err
	}

	var doc *imo.Document
	switch root.Name {
	case "lenmusdoc":
		doc = r.analyseDocument(root)
	case "score":
		doc = imo.NewDocument("0.0")
		content := imo.NewContent()
		r.link(doc, content)
		r.analyse(root, content)
	default:
		return nil, errors.NewParseAt("ldp", name, root.Line,
			fmt.Sprintf("root element must be lenmusdoc or score, found %q", root.Name))
	}

	if n := r.linker.Unplaced(); n > 0 {
		return doc, errors.NewValidation("ldp", fmt.Sprintf("%d objects could not be placed", n))
	}
	return doc, nil
}

// ReadFrom reads all of rd and parses it.
func (r *Reader) ReadFrom(name string, rd io.Reader) (*imo.Document, error) {
	src, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.NewIO("read", name, err)
	}
	return r.Read(name, src)
}

// ReadString parses src with the default configuration.
func ReadString(src string) (*imo.Document, error) {
	return NewReader(DefaultConfig()).Read("", []byte(src))
}

func (r *Reader) warn(e *Element, format string, args ...any) {
	w := Warning{Line: e.Line, Message: fmt.Sprintf(format, args...)}
	r.warnings = append(r.warnings, w)
	logging.ReaderWarning("ldp", w.Line, w.Message, "source", r.name)
}

func (r *Reader) link(parent, child imo.Obj) imo.Obj {
	return r.linker.AddChildToModel(parent, child, linker.RoleNone)
}

func (r *Reader) linkAs(parent, child imo.Obj, role linker.ChildRole) imo.Obj {
	return r.linker.AddChildToModel(parent, child, role)
}

// analyse builds the object described by e and links it under parent.
// It returns the linked object, or nil when the object was merged into
// its parent or e was skipped.
func (r *Reader) analyse(e *Element, parent imo.Obj) imo.Obj {
	if e.IsLeaf() {
		r.warn(e, "unexpected value %q in %s", e.Value, parent.TypeName())
		return nil
	}
	switch e.Name {
	case "barline":
		return r.analyseBarline(e, parent)
	case "bezier":
		return r.analyseBezier(e, parent)
	case "chord":
		return r.analyseChord(e, parent)
	case "clef":
		return r.analyseClef(e, parent)
	case "content":
		return r.analyseContent(e, parent)
	case "cursor":
		return r.analyseCursor(e, parent)
	case "defineStyle":
		return r.analyseDefineStyle(e, parent)
	case "fermata":
		return r.analyseFermata(e, parent)
	case "font":
		return r.analyseFont(e, parent)
	case "goBack", "goFwd":
		return r.analyseGoBackFwd(e, parent)
	case "group":
		return r.analyseGroup(e, parent)
	case "heading", "para":
		return r.analyseTextBlock(e, parent)
	case "infoMIDI":
		return r.analyseMidi(e, parent)
	case "instrument":
		return r.analyseInstrument(e, parent)
	case "key":
		return r.analyseKey(e, parent)
	case "metronome":
		return r.analyseMetronome(e, parent)
	case "musicData":
		return r.analyseMusicData(e, parent)
	case "n", "r":
		return r.analyseNoteRest(e, parent, false)
	case "opt":
		return r.analyseOption(e, parent)
	case "pageLayout":
		return r.analysePageLayout(e, parent)
	case "score":
		return r.analyseScore(e, parent)
	case "spacer":
		return r.analyseSpacer(e, parent)
	case "staff":
		return r.analyseStaff(e, parent)
	case "styles":
		return r.analyseStyles(e, parent)
	case "systemLayout":
		return r.analyseSystemLayout(e, parent)
	case "text":
		return r.analyseText(e, parent, linker.RoleNone)
	case "time":
		return r.analyseTime(e, parent)
	case "title":
		return r.analyseTitle(e, parent)
	case "txt":
		return r.analyseTextItem(e, parent)
	}
	r.warn(e, "unknown element %q in %s", e.Name, parent.TypeName())
	return nil
}

// -----------------------------------------------------------------------------
// Document level
// -----------------------------------------------------------------------------

func (r *Reader) analyseDocument(e *Element) *imo.Document {
	doc := imo.NewDocument(r.version(e))
	for _, it := range e.Items {
		if it.Name == "vers" {
			continue
		}
		r.analyse(it, doc)
	}
	return doc
}

func (r *Reader) version(e *Element) string {
	if v := e.Child("vers"); v != nil {
		if vals := v.Values(); len(vals) > 0 {
			return vals[0]
		}
		r.warn(v, "vers without value")
	}
	return "0.0"
}

func (r *Reader) analyseContent(e *Element, parent imo.Obj) imo.Obj {
	content := imo.NewContent()
	if r.link(parent, content) == nil {
		return nil
	}
	for _, it := range e.Items {
		r.analyse(it, content)
	}
	return content
}

func (r *Reader) analyseStyles(e *Element, parent imo.Obj) imo.Obj {
	styles := imo.NewStyles()
	for _, it := range e.Items {
		r.analyse(it, styles)
	}
	return r.link(parent, styles)
}

func (r *Reader) analyseCursor(e *Element, parent imo.Obj) imo.Obj {
	ci := imo.NewCursorInfo()
	vals := e.Values()
	if len(vals) != 4 {
		r.warn(e, "cursor needs instrument, staff, time and id")
		return nil
	}
	ci.Instrument = r.atoi(e, vals[0])
	ci.Staff = r.atoi(e, vals[1])
	ci.Time = r.atof(e, vals[2])
	ci.ObjectID = imo.ID(r.atoi(e, vals[3]))
	return r.link(parent, ci)
}

func (r *Reader) analyseDefineStyle(e *Element, parent imo.Obj) imo.Obj {
	name := e.String()
	if name == "" {
		r.warn(e, "defineStyle without name")
		return nil
	}
	st := imo.NewTextStyleInfo()
	st.SetName(name)
	for _, it := range e.Items {
		switch {
		case it.IsLeaf():
		case it.Name == "color":
			st.Color = r.color(it)
		default:
			r.analyse(it, st)
		}
	}
	return r.link(parent, st)
}

// analyseFont reads (font "name" 12pt bold).
func (r *Reader) analyseFont(e *Element, parent imo.Obj) imo.Obj {
	fi := imo.NewFontInfo()
	fi.Name = e.String()
	for _, it := range e.Items {
		if !it.IsLeaf() || it.Quoted {
			continue
		}
		switch v := it.Value; v {
		case "normal":
			fi.Style, fi.Weight = imo.FontStyleNormal, imo.FontWeightNormal
		case "bold":
			fi.Weight = imo.FontWeightBold
		case "italic":
			fi.Style = imo.FontStyleItalic
		case "bold-italic":
			fi.Style, fi.Weight = imo.FontStyleItalic, imo.FontWeightBold
		default:
			fi.Size = r.atof(it, strings.TrimSuffix(v, "pt"))
		}
	}
	return r.link(parent, fi)
}

// analysePageLayout reads (pageLayout (pageSize w h) (pageMargins l t r b binding) portrait).
func (r *Reader) analysePageLayout(e *Element, parent imo.Obj) imo.Obj {
	pi := imo.NewPageInfo()
	for _, it := range e.Items {
		switch {
		case it.IsLeaf() && it.Value == "portrait":
			pi.Portrait = true
		case it.IsLeaf() && it.Value == "landscape":
			pi.Portrait = false
		case it.Name == "pageSize":
			if v := r.units(it, 2); v != nil {
				pi.Width, pi.Height = v[0], v[1]
			}
		case it.Name == "pageMargins":
			if v := r.units(it, 5); v != nil {
				pi.LeftMargin, pi.TopMargin, pi.RightMargin = v[0], v[1], v[2]
				pi.BottomMargin, pi.BindingMargin = v[3], v[4]
			}
		default:
			r.warn(it, "unknown pageLayout item")
		}
	}
	return r.link(parent, pi)
}

func (r *Reader) analyseTextBlock(e *Element, parent imo.Obj) imo.Obj {
	var block imo.TextBlockLike
	items := e.Items
	if e.Name == "heading" {
		level := 1
		if len(items) > 0 && items[0].IsLeaf() {
			level = r.atoi(items[0], items[0].Value)
			items = items[1:]
		}
		block = imo.NewHeading(level)
	} else {
		block = imo.NewParagraph()
	}
	for _, it := range items {
		r.analyse(it, block)
	}
	return r.link(parent, block)
}

// analyseTextItem reads (txt "text") and (txt (style "name") "text").
func (r *Reader) analyseTextItem(e *Element, parent imo.Obj) imo.Obj {
	t := imo.NewTextItem(e.String())
	if st := e.Child("style"); st != nil {
		t.SetStyle(st.String())
	}
	return r.link(parent, t)
}

// -----------------------------------------------------------------------------
// Score level
// -----------------------------------------------------------------------------

func (r *Reader) analyseScore(e *Element, parent imo.Obj) imo.Obj {
	score := imo.NewScore()
	score.SetVersion(r.version(e))
	for _, it := range e.Items {
		if it.Name == "vers" {
			continue
		}
		r.analyse(it, score)
	}
	score.AddRequiredTextStyles()
	return r.link(parent, score)
}

// analyseOption reads (opt Name value). The value type is taken from its
// spelling: true/false, integer, float, anything else is a string.
func (r *Reader) analyseOption(e *Element, parent imo.Obj) imo.Obj {
	if len(e.Items) != 2 || !e.Items[0].IsLeaf() || !e.Items[1].IsLeaf() {
		r.warn(e, "opt needs a name and a value")
		return nil
	}
	name, raw := e.Items[0].Value, e.Items[1]
	var opt *imo.OptionInfo
	switch {
	case raw.Quoted:
		opt = imo.NewOptionInfo(name)
		opt.Text = raw.Value
	case raw.Value == "true" || raw.Value == "yes":
		opt = imo.NewBoolOption(name, true)
	case raw.Value == "false" || raw.Value == "no":
		opt = imo.NewBoolOption(name, false)
	default:
		if n, err := strconv.ParseInt(raw.Value, 10, 64); err == nil {
			opt = imo.NewLongOption(name, n)
		} else if f, err := strconv.ParseFloat(raw.Value, 64); err == nil {
			opt = imo.NewFloatOption(name, f)
		} else {
			opt = imo.NewOptionInfo(name)
			opt.Text = raw.Value
		}
	}
	if score, ok := parent.(*imo.Score); ok {
		if cur := score.Option(name); cur != nil && !cur.CanAssign(opt) {
			r.warn(e, "option %s expects a %s value, found %q", name, cur.Type, raw.Value)
		}
	}
	return r.link(parent, opt)
}

// analyseSystemLayout reads (systemLayout first|other (systemMargins l r d t)).
func (r *Reader) analyseSystemLayout(e *Element, parent imo.Obj) imo.Obj {
	si := imo.NewSystemInfo()
	vals := e.Values()
	if len(vals) == 0 || (vals[0] != "first" && vals[0] != "other") {
		r.warn(e, "systemLayout needs first or other")
		return nil
	}
	si.First = vals[0] == "first"
	if m := e.Child("systemMargins"); m != nil {
		if v := r.units(m, 4); v != nil {
			si.LeftMargin, si.RightMargin = v[0], v[1]
			si.SystemDistance, si.TopSystemDistance = v[2], v[3]
		}
	}
	return r.link(parent, si)
}

// analyseTitle reads (title [left|center|right] "text" [(style "name")]).
func (r *Reader) analyseTitle(e *Element, parent imo.Obj) imo.Obj {
	t := imo.NewScoreTitle(e.String())
	for _, it := range e.Items {
		if it.IsLeaf() && !it.Quoted {
			if a, ok := imo.ParseHAlign(it.Value); ok {
				t.SetHAlign(a)
			} else {
				r.warn(it, "unknown title alignment %q", it.Value)
			}
		}
	}
	if st := e.Child("style"); st != nil {
		t.SetStyle(st.String())
	}
	return r.link(parent, t)
}

func (r *Reader) analyseGroup(e *Element, parent imo.Obj) imo.Obj {
	g := imo.NewInstrGroup()
	for _, it := range e.Items {
		switch it.Name {
		case "name":
			r.analyseText(it, g, linker.RoleName)
		case "abbrev":
			r.analyseText(it, g, linker.RoleAbbrev)
		case "symbol":
			vals := it.Values()
			if len(vals) == 0 {
				r.warn(it, "symbol without value")
				continue
			}
			if s, ok := imo.ParseGroupSymbol(vals[0]); ok {
				g.SetSymbol(s)
			} else {
				r.warn(it, "unknown group symbol %q", vals[0])
			}
		case "joinBarlines":
			g.SetJoinBarlines(r.yesNo(it, true))
		default:
			r.analyse(it, g)
		}
	}
	return r.link(parent, g)
}

func (r *Reader) analyseInstrument(e *Element, parent imo.Obj) imo.Obj {
	in := imo.NewInstrument()
	for _, it := range e.Items {
		switch {
		case it.IsLeaf():
			// part id, ignored
		case it.Name == "name":
			r.analyseText(it, in, linker.RoleName)
		case it.Name == "abbrev":
			r.analyseText(it, in, linker.RoleAbbrev)
		case it.Name == "staves":
			vals := it.Values()
			if len(vals) == 0 {
				r.warn(it, "staves without value")
				continue
			}
			if n := r.atoi(it, vals[0]); n > 0 {
				in.SetNumStaves(n)
			} else {
				r.warn(it, "invalid number of staves %q", vals[0])
			}
		default:
			r.analyse(it, in)
		}
	}
	return r.link(parent, in)
}

func (r *Reader) analyseMidi(e *Element, parent imo.Obj) imo.Obj {
	mi := imo.NewMidiInfo()
	vals := e.Values()
	if len(vals) == 0 {
		r.warn(e, "infoMIDI needs an instrument number")
		return nil
	}
	mi.Instrument = r.atoi(e, vals[0])
	if len(vals) > 1 {
		mi.Channel = r.atoi(e, vals[1])
	}
	return r.link(parent, mi)
}

// analyseStaff reads (staff N (staffLines L) (staffSpacing S)
// (staffDistance D) (lineThickness T)). N is 1-based.
func (r *Reader) analyseStaff(e *Element, parent imo.Obj) imo.Obj {
	vals := e.Values()
	if len(vals) == 0 {
		r.warn(e, "staff without number")
		return nil
	}
	si := imo.NewStaffInfo()
	si.Number = r.atoi(e, vals[0]) - 1
	for _, it := range e.Items {
		if it.IsLeaf() {
			continue
		}
		v := r.units(it, 1)
		if v == nil {
			continue
		}
		switch it.Name {
		case "staffLines":
			si.Lines = int(v[0])
		case "staffSpacing":
			si.LineSpacing = v[0]
		case "staffDistance":
			si.Margin = v[0]
		case "lineThickness":
			si.LineThickness = v[0]
		default:
			r.warn(it, "unknown staff item %q", it.Name)
		}
	}
	return r.link(parent, si)
}

// analyseText reads (text "content" [(style "name")]) and the name and
// abbrev elements, which share its syntax.
func (r *Reader) analyseText(e *Element, parent imo.Obj, role linker.ChildRole) imo.Obj {
	t := imo.NewScoreText(e.String())
	if st := e.Child("style"); st != nil {
		t.SetStyle(st.String())
	}
	r.applyContentItems(e, t, "style")
	return r.linkAs(parent, t, role)
}

// -----------------------------------------------------------------------------
// Music data
// -----------------------------------------------------------------------------

func (r *Reader) analyseMusicData(e *Element, parent imo.Obj) imo.Obj {
	md := imo.NewMusicData()
	for _, it := range e.Items {
		r.analyse(it, md)
	}
	r.rel.closeAll(r)
	return r.link(parent, md)
}

func (r *Reader) analyseClef(e *Element, parent imo.Obj) imo.Obj {
	vals := e.Values()
	if len(vals) == 0 {
		r.warn(e, "clef without type")
		return nil
	}
	t, ok := imo.ParseClef(vals[0])
	if !ok {
		r.warn(e, "unknown clef type %q, G assumed", vals[0])
		t = imo.ClefG2
	}
	c := imo.NewClef(t)
	r.applyStaffObjItems(e, c, vals[1:])
	return r.link(parent, c)
}

func (r *Reader) analyseKey(e *Element, parent imo.Obj) imo.Obj {
	vals := e.Values()
	if len(vals) == 0 {
		r.warn(e, "key without type")
		return nil
	}
	k, ok := imo.ParseKey(vals[0])
	if !ok {
		r.warn(e, "unknown key %q, C assumed", vals[0])
		k = imo.KeyFromFifths(0, true)
	}
	ks := imo.NewKeySignature(k)
	r.applyStaffObjItems(e, ks, vals[1:])
	return r.link(parent, ks)
}

func (r *Reader) analyseTime(e *Element, parent imo.Obj) imo.Obj {
	vals := e.Values()
	if len(vals) < 2 {
		r.warn(e, "time needs beats and beat type")
		return nil
	}
	ts := imo.NewTimeSignature(r.atoi(e, vals[0]), r.atoi(e, vals[1]))
	r.applyStaffObjItems(e, ts, vals[2:])
	return r.link(parent, ts)
}

func (r *Reader) analyseBarline(e *Element, parent imo.Obj) imo.Obj {
	vals := e.Values()
	t := imo.BarlineSimple
	if len(vals) > 0 && !strings.HasPrefix(vals[0], "p") {
		var ok bool
		if t, ok = imo.ParseBarline(vals[0]); !ok {
			r.warn(e, "unknown barline type %q", vals[0])
		}
		vals = vals[1:]
	}
	b := imo.NewBarline(t)
	r.applyStaffObjItems(e, b, vals)
	return r.link(parent, b)
}

func (r *Reader) analyseSpacer(e *Element, parent imo.Obj) imo.Obj {
	s := imo.NewSpacer()
	vals := e.Values()
	if len(vals) > 0 {
		s.SetWidth(imo.Tenths(r.atof(e, vals[0])))
		vals = vals[1:]
	}
	r.applyStaffObjItems(e, s, vals)
	return r.link(parent, s)
}

// analyseGoBackFwd reads (goBack start), (goFwd end) and shifts given as
// a duration letter or a number of 256th units.
func (r *Reader) analyseGoBackFwd(e *Element, parent imo.Obj) imo.Obj {
	forward := e.Name == "goFwd"
	vals := e.Values()
	if len(vals) == 0 {
		r.warn(e, "%s without shift", e.Name)
		return nil
	}
	var g *imo.GoBackFwd
	switch v := vals[0]; {
	case v == "start":
		g = imo.NewGoToStart()
	case v == "end":
		g = imo.NewGoToEnd()
	default:
		var shift float64
		if d := imo.ParseDuration(v); d.NoteType != imo.NoteTypeUnknown {
			shift = imo.ToDuration(d.NoteType, d.Dots)
		} else {
			shift = r.atof(e, v)
		}
		if !forward {
			shift = -shift
		}
		g = imo.NewGoBackFwd(forward, shift)
	}
	r.applyStaffObjItems(e, g, vals[1:])
	return r.link(parent, g)
}

// analyseMetronome reads (metronome 60), (metronome q 60) and
// (metronome q h), each optionally followed by parentheses.
func (r *Reader) analyseMetronome(e *Element, parent imo.Obj) imo.Obj {
	m := imo.NewMetronomeMark(60)
	var rest []string
	for _, v := range e.Values() {
		switch {
		case v == "parentheses":
			m.SetParenthesis(true)
		case !r.applyStaffAtom(e, m, v):
			rest = append(rest, v)
		}
	}
	if len(rest) == 0 {
		r.warn(e, "metronome without value")
		return nil
	}

	left := imo.ParseDuration(rest[0])
	switch {
	case left.NoteType == imo.NoteTypeUnknown:
		m.SetTicksPerMinute(r.atoi(e, rest[0]))
	case len(rest) < 2:
		r.warn(e, "metronome needs a value after the note")
		return nil
	default:
		if right := imo.ParseDuration(rest[1]); right.NoteType != imo.NoteTypeUnknown {
			m.SetNoteNote(left, right)
		} else {
			m.SetNoteValue(left, r.atoi(e, rest[1]))
		}
	}
	r.applyContentItems(e, m)
	return r.link(parent, m)
}

// applyStaffObjItems applies the staff number atom (pN) and the common
// nested items of a staff object. Other atoms are reported.
func (r *Reader) applyStaffObjItems(e *Element, so imo.StaffObj, atoms []string) {
	for _, a := range atoms {
		if !r.applyStaffAtom(e, so, a) {
			r.warn(e, "unknown %s option %q", e.Name, a)
		}
	}
	r.applyContentItems(e, so)
}

func (r *Reader) applyStaffAtom(e *Element, so imo.StaffObj, a string) bool {
	if len(a) > 1 && a[0] == 'p' {
		if n, err := strconv.Atoi(a[1:]); err == nil && n > 0 {
			so.SetStaff(n - 1)
			return true
		}
	}
	return false
}

// colored is implemented by every object with a color.
type colored interface {
	SetColor(c imo.Color)
}

// applyContentItems applies color, visibility and user location, and
// analyses attachments (text, fermata). Items named in handled are read
// by the caller; any other item is reported.
func (r *Reader) applyContentItems(e *Element, obj imo.ContentObj, handled ...string) {
	x, y := obj.UserLocation()
	for _, it := range e.Items {
		if it.IsLeaf() {
			continue
		}
		switch it.Name {
		case "color":
			if c, ok := obj.(colored); ok {
				c.SetColor(r.color(it))
			}
		case "visible":
			obj.SetVisible(r.yesNo(it, true))
		case "dx":
			if v := r.units(it, 1); v != nil {
				x = imo.Tenths(v[0])
			}
		case "dy":
			if v := r.units(it, 1); v != nil {
				y = imo.Tenths(v[0])
			}
		case "text", "fermata":
			r.analyse(it, obj)
		default:
			if !slices.Contains(handled, it.Name) {
				r.warn(it, "unknown element %q in %s", it.Name, obj.TypeName())
			}
		}
	}
	obj.SetUserLocation(x, y)
}

func (r *Reader) analyseFermata(e *Element, parent imo.Obj) imo.Obj {
	p := imo.PlacementDefault
	if vals := e.Values(); len(vals) > 0 {
		var ok bool
		if p, ok = imo.ParsePlacement(vals[0]); !ok {
			r.warn(e, "unknown placement %q", vals[0])
		}
	}
	f := imo.NewFermata(p)
	r.applyContentItems(e, f)
	return r.link(parent, f)
}

func (r *Reader) analyseBezier(e *Element, parent imo.Obj) imo.Obj {
	b := imo.NewBezierInfo()
	for _, it := range e.Items {
		idx, coord, ok := bezierCoord(it.Name)
		if !ok {
			r.warn(it, "unknown bezier item %q", it.Name)
			continue
		}
		v := r.units(it, 1)
		if v == nil {
			continue
		}
		p := b.Point(idx)
		if coord == 'x' {
			p.X = imo.Tenths(v[0])
		} else {
			p.Y = imo.Tenths(v[0])
		}
		b.SetPoint(idx, p)
	}
	return r.link(parent, b)
}

var bezierPointNames = []string{"start", "end", "ctrol1", "ctrol2"}

// bezierCoord maps "start-x" ... "ctrol2-y" to a point index and axis.
func bezierCoord(name string) (int, byte, bool) {
	i := strings.LastIndexByte(name, '-')
	if i < 0 || i != len(name)-2 || (name[i+1] != 'x' && name[i+1] != 'y') {
		return 0, 0, false
	}
	for idx, p := range bezierPointNames {
		if p == name[:i] {
			return idx, name[i+1], true
		}
	}
	return 0, 0, false
}

// -----------------------------------------------------------------------------
// Value helpers
// -----------------------------------------------------------------------------

func (r *Reader) atoi(e *Element, s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		r.warn(e, "invalid integer %q", s)
		return 0
	}
	return n
}

func (r *Reader) atof(e *Element, s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.warn(e, "invalid number %q", s)
		return 0
	}
	return f
}

// units returns the first n values of e as layout units, or nil.
func (r *Reader) units(e *Element, n int) []imo.LUnits {
	vals := e.Values()
	if len(vals) < n {
		r.warn(e, "%s needs %d values", e.Name, n)
		return nil
	}
	res := make([]imo.LUnits, n)
	for i := range res {
		res[i] = imo.LUnits(r.atof(e, vals[i]))
	}
	return res
}

func (r *Reader) yesNo(e *Element, def bool) bool {
	vals := e.Values()
	if len(vals) == 0 {
		return def
	}
	switch vals[0] {
	case "yes", "true":
		return true
	case "no", "false":
		return false
	}
	r.warn(e, "invalid yes/no value %q", vals[0])
	return def
}

func (r *Reader) color(e *Element) imo.Color {
	vals := e.Values()
	if len(vals) == 0 {
		r.warn(e, "color without value")
		return imo.Black
	}
	dto := imo.NewColorDto()
	c := dto.SetFromString(vals[0])
	if !dto.IsOK() {
		r.warn(e, "invalid color %q", vals[0])
	}
	return c
}
