// Package musicxml imports partwise MusicXML scores into the internal
// model. Elements are read in document order and every object is placed
// through the linker, the same way the LDP reader builds its trees.
//
// Supported: part-list with score-part, part-group and midi-instrument;
// measures with attributes, notes, backup, forward, barline and
// direction (metronome and words). Other elements are reported as
// warnings and skipped.
package musicxml

import (
	"fmt"
	"io"
	"math"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/core/imo"
	"github.com/FocuswithJustin/JuniperScore/core/linker"
	"github.com/FocuswithJustin/JuniperScore/core/xml"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

// Config contains importer options.
type Config struct {
	Linker linker.Config
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{Linker: linker.DefaultConfig()}
}

// Warning is a recoverable problem found while importing.
type Warning struct {
	Part    string
	Measure string
	Message string
}

func (w Warning) String() string {
	switch {
	case w.Part == "":
		return w.Message
	case w.Measure == "":
		return fmt.Sprintf("part %s: %s", w.Part, w.Message)
	}
	return fmt.Sprintf("part %s measure %s: %s", w.Part, w.Measure, w.Message)
}

// elements read elsewhere or with no model counterpart.
var ignoredMeasureItems = map[string]bool{
	"print": true, "sound": true, "harmony": true, "figured-bass": true,
	"bookmark": true, "link": true, "grouping": true, "listening": true,
}

// Importer is not safe for concurrent use.
type Importer struct {
	config   Config
	name     string
	linker   *linker.Linker
	warnings []Warning

	part    string
	measure string
	parts   map[string]*imo.Instrument
	state   partState
}

// partState is reset at the start of every part.
type partState struct {
	music     *imo.MusicData
	divisions float64
	lastNote  *imo.Note
	barline   *imo.BarlineType
	ties      map[string]*imo.TieDto
	tieNum    int
	slurs     map[int][]*imo.SlurDto
	beams     map[int][]*imo.BeamDto
	tuplet    []*imo.TupletDto
}

// NewImporter creates an importer with the given configuration.
func NewImporter(config Config) *Importer {
	return &Importer{config: config}
}

// Warnings returns the warnings of the last Import.
func (im *Importer) Warnings() []Warning { return im.warnings }

// Import parses data and returns a document holding the score. name is
// used in messages only.
func (im *Importer) Import(name string, data []byte) (*imo.Document, error) {
	im.name = name
	im.linker = linker.New(im.config.Linker)
	im.warnings = nil
	im.parts = make(map[string]*imo.Instrument)
	im.part, im.measure = "", ""

	if res := xml.Validate(data); !res.Valid {
		e := res.Errors[0]
		return nil, errors.NewParseAt("musicxml", name, e.Line, e.Message)
	}
	xdoc, err := xml.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "import %s", name)
	}

	root := xdoc.Root()
	switch root.Name() {
	case "score-partwise":
	case "score-timewise":
		return nil, errors.NewUnsupported("score-timewise", "only partwise scores can be imported")
	default:
		return nil, errors.NewParse("musicxml", name,
			fmt.Sprintf("root element must be score-partwise, found %q", root.Name()))
	}

	doc := imo.NewDocument("0.0")
	content := imo.NewContent()
	im.link(doc, content)

	score := imo.NewScore()
	if v := root.Attr("version"); v != "" {
		score.SetVersion(v)
	}
	im.link(content, score)

	im.importTitles(root, score)
	if pl := root.Child("part-list"); pl != nil {
		im.importPartList(pl, score)
	} else {
		im.warn("missing part-list")
	}
	for _, p := range root.ChildrenNamed("part") {
		im.importPart(p)
	}
	score.AddRequiredTextStyles()

	if n := im.linker.Unplaced(); n > 0 {
		return doc, errors.NewValidation("musicxml", fmt.Sprintf("%d objects could not be placed", n))
	}
	return doc, nil
}

// ImportFrom reads all of rd and imports it.
func (im *Importer) ImportFrom(name string, rd io.Reader) (*imo.Document, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.NewIO("read", name, err)
	}
	return im.Import(name, data)
}

func (im *Importer) warn(format string, args ...any) {
	w := Warning{Part: im.part, Measure: im.measure, Message: fmt.Sprintf(format, args...)}
	im.warnings = append(im.warnings, w)
	logging.ReaderWarning("musicxml", 0, w.Message,
		"source", im.name, "part", w.Part, "measure", w.Measure)
}

func (im *Importer) link(parent, child imo.Obj) imo.Obj {
	return im.linker.AddChildToModel(parent, child, linker.RoleNone)
}

func (im *Importer) linkAs(parent, child imo.Obj, role linker.ChildRole) imo.Obj {
	return im.linker.AddChildToModel(parent, child, role)
}

// importTitles adds work and movement titles centered and the composer
// right aligned.
func (im *Importer) importTitles(root *xml.Node, score *imo.Score) {
	add := func(text string, align imo.HAlign) {
		if text == "" {
			return
		}
		t := imo.NewScoreTitle(text)
		t.SetHAlign(align)
		im.link(score, t)
	}
	add(root.Child("work").ChildText("work-title"), imo.AlignCenter)
	add(root.ChildText("movement-title"), imo.AlignCenter)
	for _, c := range root.Child("identification").ChildrenNamed("creator") {
		if c.Attr("type") == "composer" {
			add(c.Text(), imo.AlignRight)
		}
	}
}

// importPartList creates one instrument per score-part. Parts inside a
// part-group are added to the outermost open group, which is linked to
// the score when it closes.
func (im *Importer) importPartList(pl *xml.Node, score *imo.Score) {
	type openGroup struct {
		number string
		group  *imo.InstrGroup
	}
	var open []openGroup

	for _, item := range pl.Children() {
		switch item.Name() {
		case "part-group":
			num := item.Attr("number")
			if num == "" {
				num = "1"
			}
			switch item.Attr("type") {
			case "start":
				open = append(open, openGroup{number: num, group: im.newGroup(item)})
			case "stop":
				i := len(open) - 1
				for i >= 0 && open[i].number != num {
					i--
				}
				if i < 0 {
					im.warn("part-group %s stop without start", num)
					continue
				}
				if i == 0 {
					im.link(score, open[0].group)
				} else {
					imo.Delete(open[i].group)
				}
				open = append(open[:i], open[i+1:]...)
			}
		case "score-part":
			in := im.newInstrument(item)
			if len(open) > 0 {
				im.link(open[0].group, in)
			} else {
				im.link(score, in)
			}
		}
	}

	for i, g := range open {
		im.warn("part-group %s not closed", g.number)
		if i == 0 {
			im.link(score, g.group)
		} else {
			imo.Delete(g.group)
		}
	}
}

var groupSymbols = map[string]imo.GroupSymbol{
	"none":    imo.GroupSymbolNone,
	"brace":   imo.GroupSymbolBrace,
	"bracket": imo.GroupSymbolBracket,
	"square":  imo.GroupSymbolBracket,
	"line":    imo.GroupSymbolLine,
}

func (im *Importer) newGroup(n *xml.Node) *imo.InstrGroup {
	g := imo.NewInstrGroup()
	if s := n.ChildText("group-name"); s != "" {
		im.linkAs(g, imo.NewScoreText(s), linker.RoleName)
	}
	if s := n.ChildText("group-abbreviation"); s != "" {
		im.linkAs(g, imo.NewScoreText(s), linker.RoleAbbrev)
	}
	if s := n.ChildText("group-symbol"); s != "" {
		sym, ok := groupSymbols[s]
		if !ok {
			im.warn("unknown group-symbol %q", s)
		}
		g.SetSymbol(sym)
	}
	g.SetJoinBarlines(n.ChildText("group-barline") != "no")
	return g
}

func (im *Importer) newInstrument(n *xml.Node) *imo.Instrument {
	in := imo.NewInstrument()
	id := n.Attr("id")
	if _, dup := im.parts[id]; dup {
		im.warn("duplicate score-part id %q", id)
	}
	im.parts[id] = in

	if s := n.ChildText("part-name"); s != "" {
		im.linkAs(in, imo.NewScoreText(s), linker.RoleName)
	}
	if s := n.ChildText("part-abbreviation"); s != "" {
		im.linkAs(in, imo.NewScoreText(s), linker.RoleAbbrev)
	}
	if mi := n.Child("midi-instrument"); mi != nil {
		midi := imo.NewMidiInfo()
		if ch, ok := mi.ChildInt("midi-channel"); ok && ch > 0 {
			midi.Channel = ch - 1
		}
		if p, ok := mi.ChildInt("midi-program"); ok && p > 0 {
			midi.Instrument = p - 1
		}
		im.link(in, midi)
	}
	im.link(in, imo.NewMusicData())
	return in
}

func (im *Importer) importPart(p *xml.Node) {
	im.part = p.Attr("id")
	im.measure = ""
	in, ok := im.parts[im.part]
	if !ok {
		im.warn("part %q not declared in part-list", im.part)
		return
	}
	im.state = partState{
		music:     in.MusicData(),
		divisions: 1,
		ties:      make(map[string]*imo.TieDto),
		slurs:     make(map[int][]*imo.SlurDto),
		beams:     make(map[int][]*imo.BeamDto),
	}

	for _, m := range p.ChildrenNamed("measure") {
		im.measure = m.Attr("number")
		im.importMeasure(m, in)
	}
	im.flushBarline()
	im.closeAll()
	im.measure = ""
}

func (im *Importer) importMeasure(m *xml.Node, in *imo.Instrument) {
	im.startMeasure(m)
	right := imo.BarlineSimple
	for _, it := range m.Children() {
		switch it.Name() {
		case "attributes":
			im.importAttributes(it, in)
		case "note":
			im.importNote(it)
		case "backup":
			im.link(im.state.music, imo.NewGoBackFwd(false, -im.shift(it)))
		case "forward":
			im.link(im.state.music, imo.NewGoBackFwd(true, im.shift(it)))
		case "barline":
			if it.Attr("location") == "" || it.Attr("location") == "right" {
				right = barlineType(it)
			}
		case "direction":
			im.importDirection(it)
		default:
			if !ignoredMeasureItems[it.Name()] {
				im.warn("unsupported element %q", it.Name())
			}
		}
	}
	im.state.barline = &right
	im.state.lastNote = nil
}

// startMeasure writes the barline closing the previous measure, merged
// with a forward repeat on the left of this one.
func (im *Importer) startMeasure(m *xml.Node) {
	forward := false
	for _, b := range m.ChildrenNamed("barline") {
		if b.Attr("location") == "left" && b.Child("repeat").Attr("direction") == "forward" {
			forward = true
		}
	}
	if !forward {
		im.flushBarline()
		return
	}
	t := imo.BarlineStartRepetition
	if prev := im.state.barline; prev != nil && *prev == imo.BarlineEndRepetition {
		t = imo.BarlineDoubleRepetition
	}
	im.state.barline = &t
	im.flushBarline()
}

func (im *Importer) flushBarline() {
	if im.state.barline == nil {
		return
	}
	im.link(im.state.music, imo.NewBarline(*im.state.barline))
	im.state.barline = nil
}

func barlineType(b *xml.Node) imo.BarlineType {
	if r := b.Child("repeat"); r != nil {
		if r.Attr("direction") == "forward" {
			return imo.BarlineStartRepetition
		}
		return imo.BarlineEndRepetition
	}
	switch b.ChildText("bar-style") {
	case "light-light":
		return imo.BarlineDouble
	case "light-heavy":
		return imo.BarlineEnd
	case "heavy-light":
		return imo.BarlineStart
	}
	return imo.BarlineSimple
}

// shift converts the duration child of n to model time units.
func (im *Importer) shift(n *xml.Node) float64 {
	d, ok := n.ChildFloat("duration")
	if !ok {
		im.warn("%s without duration", n.Name())
		return 0
	}
	return d / im.state.divisions * imo.ToDuration(imo.Quarter, 0)
}

func (im *Importer) importAttributes(a *xml.Node, in *imo.Instrument) {
	if d, ok := a.ChildFloat("divisions"); ok {
		if d > 0 {
			im.state.divisions = d
		} else {
			im.warn("invalid divisions %v", d)
		}
	}
	if n, ok := a.ChildInt("staves"); ok && n > 1 {
		in.SetNumStaves(n)
	}
	for _, c := range a.ChildrenNamed("clef") {
		im.importClef(c)
	}
	if k := a.Child("key"); k != nil {
		fifths, ok := k.ChildInt("fifths")
		if !ok || fifths < -7 || fifths > 7 {
			im.warn("unsupported key")
		} else {
			im.link(im.state.music, imo.NewKeySignature(imo.KeyFromFifths(fifths, k.ChildText("mode") != "minor")))
		}
	}
	if t := a.Child("time"); t != nil {
		beats, ok1 := t.ChildInt("beats")
		beatType, ok2 := t.ChildInt("beat-type")
		if !ok1 || !ok2 {
			im.warn("unsupported time signature")
		} else {
			im.link(im.state.music, imo.NewTimeSignature(beats, beatType))
		}
	}
}

func (im *Importer) importClef(c *xml.Node) {
	sign := c.ChildText("sign")
	line, hasLine := c.ChildInt("line")
	octave, _ := c.ChildInt("clef-octave-change")

	t := imo.ClefUndefined
	switch sign {
	case "G":
		switch {
		case hasLine && line == 1:
			t = imo.ClefG1
		case octave == 1:
			t = imo.ClefG2Up8
		case octave == -1:
			t = imo.ClefG2Down8
		case !hasLine || line == 2:
			t = imo.ClefG2
		}
	case "F":
		switch {
		case hasLine && line == 3:
			t = imo.ClefF3
		case hasLine && line == 5:
			t = imo.ClefF5
		case !hasLine || line == 4:
			t = imo.ClefF4
		}
	case "C":
		if !hasLine {
			line = 3
		}
		if line >= 1 && line <= 5 {
			t = []imo.ClefType{imo.ClefC1, imo.ClefC2, imo.ClefC3, imo.ClefC4, imo.ClefC5}[line-1]
		}
	case "percussion":
		t = imo.ClefPercussion
	}
	if t == imo.ClefUndefined {
		im.warn("unsupported clef %s%d", sign, line)
		return
	}
	clef := imo.NewClef(t)
	clef.SetStaff(c.AttrInt("number", 1) - 1)
	im.link(im.state.music, clef)
}

func (im *Importer) importDirection(d *xml.Node) {
	staff := 0
	if n, ok := d.ChildInt("staff"); ok && n > 0 {
		staff = n - 1
	}
	for _, dt := range d.ChildrenNamed("direction-type") {
		for _, it := range dt.Children() {
			switch it.Name() {
			case "metronome":
				im.importMetronome(it, staff)
			case "words":
				if s := it.Text(); s != "" {
					im.link(im.state.music, imo.NewScoreText(s))
				}
			default:
				im.warn("unsupported direction %q", it.Name())
			}
		}
	}
}

func (im *Importer) importMetronome(m *xml.Node, staff int) {
	unit, known := noteTypes[m.ChildText("beat-unit")]
	pm, ok := m.ChildFloat("per-minute")
	if !known || !ok {
		im.warn("unsupported metronome mark")
		return
	}
	mark := imo.NewMetronomeMark(60)
	left := imo.NoteTypeAndDots{NoteType: unit, Dots: len(m.ChildrenNamed("beat-unit-dot"))}
	mark.SetNoteValue(left, int(math.Round(pm)))
	mark.SetParenthesis(m.Attr("parentheses") == "yes")
	mark.SetStaff(staff)
	im.link(im.state.music, mark)
}
