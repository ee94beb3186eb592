package ldp

import (
	"strconv"
	"strings"

	"github.com/FocuswithJustin/JuniperScore/core/imo"
)

const indent = "   "

// Export returns the LDP source of obj and everything below it. Values
// equal to the defaults the reader would apply are omitted, so reading
// the output back gives an equivalent tree. Relation numbers are
// reassigned in order of appearance.
func Export(obj imo.Obj) string {
	x := &exporter{
		nums:   make(map[imo.RelObj]int),
		counts: make(map[imo.Kind]int),
		done:   make(map[imo.Obj]bool),
	}
	x.write(obj)
	return x.b.String()
}

type exporter struct {
	b      strings.Builder
	depth  int
	nums   map[imo.RelObj]int
	counts map[imo.Kind]int
	done   map[imo.Obj]bool
}

// open starts a block element on its own line.
func (x *exporter) open(name string, atoms ...string) {
	if x.b.Len() > 0 {
		x.b.WriteByte('\n')
		x.b.WriteString(strings.Repeat(indent, x.depth))
	}
	x.b.WriteString("(" + name)
	x.atoms(atoms...)
	x.depth++
}

// openInline starts an element on the current line.
func (x *exporter) openInline(name string, atoms ...string) {
	x.b.WriteString(" (" + name)
	x.atoms(atoms...)
	x.depth++
}

func (x *exporter) close() {
	x.depth--
	x.b.WriteByte(')')
}

// leaf writes a complete element on the current line.
func (x *exporter) leaf(name string, atoms ...string) {
	x.openInline(name, atoms...)
	x.close()
}

func (x *exporter) atoms(atoms ...string) {
	for _, a := range atoms {
		x.b.WriteByte(' ')
		x.b.WriteString(a)
	}
}

func (x *exporter) number(r imo.RelObj) int {
	if n, ok := x.nums[r]; ok {
		return n
	}
	x.counts[r.Kind()]++
	x.nums[r] = x.counts[r.Kind()]
	return x.nums[r]
}

func num[T ~float64](v T) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

func quote(s string) string { return strconv.Quote(s) }

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func (x *exporter) write(o imo.Obj) {
	switch v := o.(type) {
	case *imo.Document:
		x.document(v)
	case *imo.Content:
		x.open("content")
		x.children(v)
		x.close()
	case *imo.Score:
		x.score(v)
	case *imo.Instrument:
		x.instrument(v)
	case *imo.InstrGroup:
		x.group(v)
	case *imo.MusicData:
		x.musicData(v)
	case *imo.Paragraph:
		x.open("para")
		x.textItems(v)
		x.close()
	case *imo.Heading:
		x.open("heading", strconv.Itoa(v.Level()))
		x.textItems(v)
		x.close()
	case *imo.TextItem:
		x.open("txt")
		x.textItem(v)
		x.close()
	case *imo.ScoreText:
		x.open("text", quote(v.Text()))
		x.textTail(v)
		x.close()
	case *imo.Fermata:
		x.open("fermata")
		x.fermata(v)
		x.close()
	case *imo.Chord:
		x.chord(v)
	case imo.StaffObj:
		x.staffObj(v)
	}
}

func (x *exporter) children(o imo.Obj) {
	for _, c := range o.Children() {
		x.write(c)
	}
}

// -----------------------------------------------------------------------------
// Document level
// -----------------------------------------------------------------------------

func (x *exporter) document(d *imo.Document) {
	x.open("lenmusdoc")
	x.leaf("vers", d.Version())
	ref := imo.NewDocument("")
	if d.PageLayout() != ref.PageLayout() {
		x.pageLayout(d.PageLayout())
	}
	if c := d.Cursor(); c != ref.Cursor() {
		x.open("cursor", strconv.Itoa(c.Instrument), strconv.Itoa(c.Staff),
			num(c.Time), strconv.FormatInt(int64(c.ObjectID), 10))
		x.close()
	}
	if st := d.Styles(); st != nil {
		x.styles(st)
	}
	if c := d.Content(); c != nil {
		x.write(c)
	}
	x.close()
}

func (x *exporter) styles(st *imo.Styles) {
	defaults := imo.NewStyles()
	var custom []*imo.TextStyleInfo
	for _, name := range st.Names() {
		if s := st.StyleInfo(name); !sameStyle(s, defaults.StyleInfo(name)) {
			custom = append(custom, s)
		}
	}
	if len(custom) == 0 {
		return
	}
	x.open("styles")
	for _, s := range custom {
		x.defineStyle(s)
	}
	x.close()
}

func sameStyle(a, b *imo.TextStyleInfo) bool {
	return a != nil && b != nil && a.Name() == b.Name() && a.Font == b.Font && a.Color == b.Color
}

func (x *exporter) defineStyle(s *imo.TextStyleInfo) {
	x.open("defineStyle", quote(s.Name()))
	f := s.Font
	x.leaf("font", quote(f.Name), num(f.Size)+"pt", fontStyle(f))
	x.leaf("color", s.Color.String())
	x.close()
}

func fontStyle(f imo.Font) string {
	italic := f.Style == imo.FontStyleItalic
	bold := f.Weight == imo.FontWeightBold
	switch {
	case italic && bold:
		return "bold-italic"
	case italic:
		return "italic"
	case bold:
		return "bold"
	}
	return "normal"
}

func (x *exporter) pageLayout(p imo.PageLayout) {
	x.open("pageLayout")
	x.leaf("pageSize", num(p.Width), num(p.Height))
	x.leaf("pageMargins", num(p.LeftMargin), num(p.TopMargin), num(p.RightMargin),
		num(p.BottomMargin), num(p.BindingMargin))
	if p.Portrait {
		x.atoms("portrait")
	} else {
		x.atoms("landscape")
	}
	x.close()
}

func (x *exporter) textItems(b imo.TextBlockLike) {
	for _, it := range b.Items() {
		x.openInline("txt")
		x.textItem(it)
		x.close()
	}
}

func (x *exporter) textItem(t *imo.TextItem) {
	if t.Style() != "" {
		x.leaf("style", quote(t.Style()))
	}
	x.atoms(quote(t.Text()))
}

// -----------------------------------------------------------------------------
// Score level
// -----------------------------------------------------------------------------

func (x *exporter) score(s *imo.Score) {
	x.open("score")
	if s.Version() != "" {
		x.leaf("vers", s.Version())
	}
	ref := imo.NewScore()

	for _, c := range s.Options().Children() {
		o, ok := c.(*imo.OptionInfo)
		if !ok || sameOption(o, ref.Option(o.Name())) {
			continue
		}
		x.open("opt", o.Name(), optionValue(o))
		x.close()
	}
	if s.PageLayout() != ref.PageLayout() {
		x.pageLayout(s.PageLayout())
	}
	for _, sl := range []struct {
		got, want imo.SystemLayout
		name      string
	}{
		{s.FirstSystemLayout(), ref.FirstSystemLayout(), "first"},
		{s.OtherSystemLayout(), ref.OtherSystemLayout(), "other"},
	} {
		if sl.got == sl.want {
			continue
		}
		x.open("systemLayout", sl.name)
		x.leaf("systemMargins", num(sl.got.LeftMargin), num(sl.got.RightMargin),
			num(sl.got.SystemDistance), num(sl.got.TopSystemDistance))
		x.close()
	}

	ref.DefaultStyleInfo()
	ref.AddRequiredTextStyles()
	for _, name := range s.StyleNames() {
		if st := s.StyleInfo(name); !sameStyle(st, ref.StyleInfo(name)) {
			x.defineStyle(st)
		}
	}

	for _, t := range s.Titles() {
		x.open("title", t.HAlign().String(), quote(t.Text()))
		if t.Style() != "" {
			x.leaf("style", quote(t.Style()))
		}
		x.close()
	}

	for i := 0; i < s.NumInstruments(); i++ {
		in := s.Instrument(i)
		if x.done[in] {
			continue
		}
		if g := in.Group(); g != nil {
			x.group(g)
		} else {
			x.instrument(in)
		}
	}
	x.close()
}

func sameOption(a, b *imo.OptionInfo) bool {
	if b == nil || a.Type != b.Type {
		return false
	}
	switch a.Type {
	case imo.OptionBool:
		return a.Bool == b.Bool
	case imo.OptionLong:
		return a.Long == b.Long
	case imo.OptionFloat:
		return a.Float == b.Float
	}
	return a.Text == b.Text
}

// optionValue spells the value so that the reader infers the same type.
func optionValue(o *imo.OptionInfo) string {
	switch o.Type {
	case imo.OptionBool:
		return strconv.FormatBool(o.Bool)
	case imo.OptionLong:
		return strconv.FormatInt(o.Long, 10)
	case imo.OptionFloat:
		s := num(o.Float)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	}
	return quote(o.Text)
}

func (x *exporter) group(g *imo.InstrGroup) {
	x.open("group")
	if g.Name() != "" {
		x.leaf("name", quote(g.Name()))
	}
	if g.Abbrev() != "" {
		x.leaf("abbrev", quote(g.Abbrev()))
	}
	x.leaf("symbol", g.Symbol().String())
	x.leaf("joinBarlines", yesNo(g.JoinBarlines()))
	for _, in := range g.Instruments() {
		x.instrument(in)
	}
	x.close()
}

func (x *exporter) instrument(in *imo.Instrument) {
	x.done[in] = true
	x.open("instrument")
	x.textInfo("name", in.NameInfo())
	x.textInfo("abbrev", in.AbbrevInfo())
	if n := in.NumStaves(); n != 1 {
		x.leaf("staves", strconv.Itoa(n))
	}
	if m := in.Midi(); m != (imo.Midi{}) {
		x.leaf("infoMIDI", strconv.Itoa(m.Instrument), strconv.Itoa(m.Channel))
	}
	for i := 0; i < in.NumStaves(); i++ {
		st := in.Staff(i).StaffLayout
		if st == imo.DefaultStaffLayout(i) {
			continue
		}
		x.openInline("staff", strconv.Itoa(i+1))
		x.leaf("staffLines", strconv.Itoa(st.Lines))
		x.leaf("staffSpacing", num(st.LineSpacing))
		x.leaf("staffDistance", num(st.Margin))
		x.leaf("lineThickness", num(st.LineThickness))
		x.close()
	}
	if md := in.MusicData(); md != nil {
		x.musicData(md)
	}
	x.close()
}

func (x *exporter) textInfo(name string, t imo.TextInfo) {
	if t.Text == "" {
		return
	}
	x.openInline(name, quote(t.Text))
	if t.Style != "" {
		x.leaf("style", quote(t.Style))
	}
	x.close()
}

// -----------------------------------------------------------------------------
// Music data
// -----------------------------------------------------------------------------

func (x *exporter) musicData(md *imo.MusicData) {
	x.open("musicData")
	for _, so := range md.StaffObjs() {
		if x.done[so] {
			continue
		}
		if n, ok := so.(*imo.Note); ok && n.IsInChord() {
			x.chord(n.Chord())
			continue
		}
		x.staffObj(so)
	}
	x.close()
}

func (x *exporter) chord(c *imo.Chord) {
	x.open("chord")
	for _, n := range c.Notes() {
		x.staffObj(n)
	}
	x.close()
}

func (x *exporter) staffObj(so imo.StaffObj) {
	x.done[so] = true
	staff := "p" + strconv.Itoa(so.Staff()+1)

	switch v := so.(type) {
	case *imo.Note:
		pitch := "*"
		if v.IsPitched() {
			pitch = v.Pitch().String()
		}
		x.open("n", pitch, durationOf(v), staff)
		x.noteRest(v)
	case *imo.Rest:
		x.open("r", durationOf(v), staff)
		x.noteRest(v)
	case *imo.Clef:
		x.open("clef", v.ClefType().String(), staff)
	case *imo.KeySignature:
		x.open("key", v.KeyType().String(), staff)
	case *imo.TimeSignature:
		x.open("time", strconv.Itoa(v.Beats()), strconv.Itoa(v.BeatType()), staff)
	case *imo.Barline:
		x.open("barline", v.BarlineType().String(), staff)
	case *imo.Spacer:
		x.open("spacer", num(v.Width()), staff)
	case *imo.GoBackFwd:
		x.open(goBackFwdName(v), goBackFwdShift(v), staff)
	case *imo.MetronomeMark:
		x.open("metronome", metronomeValues(v)...)
		x.atoms(staff)
	default:
		return
	}
	x.contentTail(so)
	x.close()
}

func durationOf(nr imo.NoteRest) string {
	return imo.NoteTypeAndDots{NoteType: nr.NoteType(), Dots: nr.Dots()}.String()
}

func goBackFwdName(g *imo.GoBackFwd) string {
	if g.IsForward() {
		return "goFwd"
	}
	return "goBack"
}

func goBackFwdShift(g *imo.GoBackFwd) string {
	switch {
	case g.IsToStart():
		return "start"
	case g.IsToEnd():
		return "end"
	case g.TimeShift() < 0:
		return num(-g.TimeShift())
	}
	return num(g.TimeShift())
}

func metronomeValues(m *imo.MetronomeMark) []string {
	var vals []string
	switch m.MarkType() {
	case imo.MetronomeValue:
		vals = []string{strconv.Itoa(m.TicksPerMinute())}
	case imo.MetronomeNoteValue:
		vals = []string{m.LeftNote().String(), strconv.Itoa(m.TicksPerMinute())}
	case imo.MetronomeNoteNote:
		vals = []string{m.LeftNote().String(), m.RightNote().String()}
	}
	if m.HasParenthesis() {
		vals = append(vals, "parentheses")
	}
	return vals
}

func (x *exporter) noteRest(nr imo.NoteRest) {
	if nr.Voice() != 1 {
		x.atoms("v" + strconv.Itoa(nr.Voice()))
	}
	if n, ok := nr.(*imo.Note); ok && n.Stem() != imo.StemDefault {
		x.leaf("stem", n.Stem().String())
	}
	for _, r := range nr.Relations() {
		switch rel := r.(type) {
		case *imo.Tie:
			x.tie(rel, nr)
		case *imo.Slur:
			x.slur(rel, nr)
		case *imo.Beam:
			if d, ok := rel.DataFor(nr).(*imo.BeamData); ok {
				x.leaf("beam", strconv.Itoa(x.number(rel)), d.Segments())
			}
		case *imo.Tuplet:
			x.tuplet(rel, nr)
		}
	}
}

func (x *exporter) tie(t *imo.Tie, nr imo.NoteRest) {
	d, ok := t.DataFor(nr).(*imo.TieData)
	if !ok {
		return
	}
	typ := "stop"
	if t.StartObject() == imo.StaffObj(nr) {
		typ = "start"
	}
	x.openInline("tie", strconv.Itoa(x.number(t)), typ)
	x.bezier(d.Bezier())
	x.close()
}

func (x *exporter) slur(s *imo.Slur, nr imo.NoteRest) {
	d, ok := s.DataFor(nr).(*imo.SlurData)
	if !ok {
		return
	}
	typ := "continue"
	switch imo.StaffObj(nr) {
	case s.StartObject():
		typ = "start"
	case s.EndObject():
		typ = "stop"
	}
	x.openInline("slur", strconv.Itoa(x.number(s)), typ)
	if d.Color() != imo.Black {
		x.leaf("color", d.Color().String())
	}
	x.bezier(d.Bezier())
	x.close()
}

func (x *exporter) bezier(b *imo.BezierInfo) {
	if b == nil {
		return
	}
	x.openInline("bezier")
	for i, name := range bezierPointNames {
		p := b.Point(i)
		if p.X != 0 {
			x.leaf(name+"-x", num(p.X))
		}
		if p.Y != 0 {
			x.leaf(name+"-y", num(p.Y))
		}
	}
	x.close()
}

func (x *exporter) tuplet(t *imo.Tuplet, nr imo.NoteRest) {
	switch imo.StaffObj(nr) {
	case t.StartObject():
		vals := []string{"+", strconv.Itoa(t.ActualNumber()), strconv.Itoa(t.NormalNumber())}
		switch t.ShowBracket() {
		case imo.No:
			vals = append(vals, "noBracket")
		case imo.Yes:
			vals = append(vals, "squaredBracket")
		}
		switch t.Placement() {
		case imo.PlacementAbove:
			vals = append(vals, "above")
		case imo.PlacementBelow:
			vals = append(vals, "below")
		}
		switch t.ShowNumber() {
		case imo.NumberBoth:
			vals = append(vals, "displayNormalNum")
		case imo.NumberNone:
			vals = append(vals, "displayNoNumber")
		}
		x.leaf("t", vals...)
	case t.EndObject():
		x.leaf("t", "-")
	}
}

// contentTail writes the items shared by every content object: color,
// visibility, user location and attachments other than relations.
func (x *exporter) contentTail(co imo.ContentObj) {
	if c, ok := co.(interface{ Color() imo.Color }); ok && c.Color() != imo.Black {
		x.leaf("color", c.Color().String())
	}
	if !co.IsVisible() {
		x.leaf("visible", "no")
	}
	dx, dy := co.UserLocation()
	if dx != 0 {
		x.leaf("dx", num(dx))
	}
	if dy != 0 {
		x.leaf("dy", num(dy))
	}
	if co.Attachments() == nil {
		return
	}
	for _, a := range co.Attachments().Items() {
		switch v := a.(type) {
		case *imo.ScoreText:
			x.openInline("text", quote(v.Text()))
			x.textTail(v)
			x.close()
		case *imo.Fermata:
			x.openInline("fermata")
			x.fermata(v)
			x.close()
		}
	}
}

func (x *exporter) textTail(t *imo.ScoreText) {
	if t.Style() != "" {
		x.leaf("style", quote(t.Style()))
	}
	x.contentTail(t)
}

func (x *exporter) fermata(f *imo.Fermata) {
	if f.Placement() != imo.PlacementDefault {
		x.atoms(f.Placement().String())
	}
	x.contentTail(f)
}
