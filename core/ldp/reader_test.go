package ldp

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/core/imo"
	"github.com/FocuswithJustin/JuniperScore/core/linker"
)

// readScore reads src, which must hold a single score, and returns it
// with the reader used.
func readScore(t *testing.T, src string) (*imo.Score, *Reader) {
	t.Helper()
	r := NewReader(DefaultConfig())
	doc, err := r.Read("test.lms", []byte(src))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	score, ok := doc.ContentItem(0).(*imo.Score)
	if !ok {
		t.Fatalf("first content item = %v, want a score", doc.ContentItem(0))
	}
	return score, r
}

// musicData reads a one-instrument score with the given music data items.
func musicData(t *testing.T, items string) []imo.StaffObj {
	t.Helper()
	score, r := readScore(t, "(score (vers 2.0) (instrument (musicData "+items+")))")
	if w := r.Warnings(); len(w) != 0 {
		t.Fatalf("unexpected warnings: %v", w)
	}
	return score.Instrument(0).MusicData().StaffObjs()
}

func TestReadBareScore(t *testing.T) {
	r := NewReader(DefaultConfig())
	doc, err := r.Read("", []byte(`(score (vers 2.0)
		(instrument (musicData (clef G) (key D) (time 3 4) (n +c4 q.) (r e p1) (barline end))))`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Version() != "0.0" || doc.NumContentItems() != 1 {
		t.Fatalf("document version %q with %d items", doc.Version(), doc.NumContentItems())
	}
	score := doc.ContentItem(0).(*imo.Score)
	if score.Version() != "2.0" {
		t.Errorf("score version = %q", score.Version())
	}
	if score.StyleInfo(imo.StyleTupletNumbers) == nil || score.StyleInfo(imo.StyleInstrumentNames) == nil {
		t.Error("required text styles missing")
	}

	objs := score.Instrument(0).MusicData().StaffObjs()
	var kinds []string
	for _, so := range objs {
		kinds = append(kinds, so.Kind().String())
	}
	if diff := cmp.Diff([]string{"clef", "key", "time", "n", "r", "barline"}, kinds); diff != "" {
		t.Fatalf("staff objects (-want +got):\n%s", diff)
	}
	if objs[0].(*imo.Clef).ClefType() != imo.ClefG2 {
		t.Error("clef type")
	}
	if objs[1].(*imo.KeySignature).KeyType().Fifths() != 2 {
		t.Error("key fifths")
	}
	note := objs[3].(*imo.Note)
	if note.Pitch().String() != "+c4" || note.Duration() != 96 {
		t.Errorf("note = %v %v", note.Pitch(), note.Duration())
	}
	if objs[5].(*imo.Barline).BarlineType() != imo.BarlineEnd {
		t.Error("barline type")
	}
	if errs := imo.Validate(doc); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestReadDocument(t *testing.T) {
	src := `(lenmusdoc (vers 0.0)
		(pageLayout (pageSize 29700 21000) (pageMargins 1000 1500 1100 1600 50) landscape)
		(cursor 1 0 64 12)
		(styles (defineStyle "Big" (font "Arial" 20pt bold) (color #ff0000)))
		(content
			(heading 1 (txt "Title"))
			(para (txt (style "Big") "Hello") (txt "world"))
			(text "Loose")
			(score (vers 2.0))))`

	doc, err := ReadString(src)
	if err != nil {
		t.Fatal(err)
	}

	wantPage := imo.PageLayout{LeftMargin: 1000, TopMargin: 1500, RightMargin: 1100,
		BottomMargin: 1600, BindingMargin: 50, Width: 29700, Height: 21000}
	if diff := cmp.Diff(wantPage, doc.PageLayout()); diff != "" {
		t.Errorf("page layout (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(imo.CursorState{Instrument: 1, Time: 64, ObjectID: 12}, doc.Cursor()); diff != "" {
		t.Errorf("cursor (-want +got):\n%s", diff)
	}

	big := doc.StyleInfo("Big")
	if big == nil {
		t.Fatal("style Big missing")
	}
	wantFont := imo.Font{Name: "Arial", Size: 20, Weight: imo.FontWeightBold}
	if big.Font != wantFont || big.Color != (imo.Color{R: 255, A: 255}) {
		t.Errorf("style Big = %+v %v", big.Font, big.Color)
	}

	if doc.NumContentItems() != 4 {
		t.Fatalf("content items = %d, want 4", doc.NumContentItems())
	}
	h := doc.ContentItem(0).(*imo.Heading)
	if h.Level() != 1 || h.Items()[0].Text() != "Title" {
		t.Error("heading")
	}
	p := doc.ContentItem(1).(*imo.Paragraph)
	if len(p.Items()) != 2 || p.Items()[0].Style() != "Big" || p.Items()[1].Text() != "world" {
		t.Error("paragraph items")
	}
	if txt, ok := doc.ContentItem(2).(*imo.ScoreText); !ok || txt.Text() != "Loose" {
		t.Error("content text")
	}
}

func TestReadScoreSettings(t *testing.T) {
	score, r := readScore(t, `(score (vers 2.0)
		(opt Render.SpacingValue 30)
		(opt StaffLines.Hide true)
		(opt Render.SpacingFactor 0.6)
		(opt Score.Custom "abc")
		(systemLayout other (systemMargins 10 20 2500 1500))
		(defineStyle "Tempo" (font "Serif" 10pt bold-italic))
		(title left "Sonata" (style "Tempo"))
		(title "Op. 1"))`)
	if len(r.Warnings()) != 0 {
		t.Fatalf("warnings: %v", r.Warnings())
	}

	if o := score.Option(imo.OptSpacingValue); o.Type != imo.OptionLong || o.Long != 30 {
		t.Errorf("long option = %+v", o)
	}
	if o := score.Option(imo.OptHideStaffLines); o.Type != imo.OptionBool || !o.Bool {
		t.Errorf("bool option = %+v", o)
	}
	if o := score.Option(imo.OptSpacingFactor); o.Type != imo.OptionFloat || o.Float != 0.6 {
		t.Errorf("float option = %+v", o)
	}
	if o := score.Option("Score.Custom"); o == nil || o.Type != imo.OptionString || o.Text != "abc" {
		t.Errorf("string option = %+v", o)
	}

	wantOther := imo.SystemLayout{LeftMargin: 10, RightMargin: 20, SystemDistance: 2500, TopSystemDistance: 1500}
	if diff := cmp.Diff(wantOther, score.OtherSystemLayout()); diff != "" {
		t.Errorf("other system (-want +got):\n%s", diff)
	}

	st := score.StyleInfo("Tempo")
	if st == nil || st.Font.Style != imo.FontStyleItalic || st.Font.Weight != imo.FontWeightBold {
		t.Errorf("style = %+v", st)
	}

	titles := score.Titles()
	if len(titles) != 2 {
		t.Fatalf("titles = %d", len(titles))
	}
	if titles[0].HAlign() != imo.AlignLeft || titles[0].Style() != "Tempo" {
		t.Error("first title")
	}
	if titles[1].HAlign() != imo.AlignCenter || titles[1].Text() != "Op. 1" {
		t.Error("second title")
	}
}

func TestReadOptionKeepsRegisteredType(t *testing.T) {
	score, r := readScore(t, `(score (vers 2.0)
		(opt Render.SpacingFactor 1)
		(opt StaffLines.Hide 1)
		(opt Render.SpacingValue 20.0)
		(opt Staff.DrawLeftBarline 3))`)

	if o := score.Option(imo.OptSpacingFactor); o.Type != imo.OptionFloat || o.Float != 1 {
		t.Errorf("SpacingFactor = %+v, want float 1", o)
	}
	if o := score.Option(imo.OptHideStaffLines); o.Type != imo.OptionBool || !o.Bool {
		t.Errorf("StaffLines.Hide = %+v, want bool true", o)
	}
	if o := score.Option(imo.OptSpacingValue); o.Type != imo.OptionLong || o.Long != 20 {
		t.Errorf("SpacingValue = %+v, want long 20", o)
	}
	if o := score.Option(imo.OptDrawLeftBarline); o.Type != imo.OptionBool || !o.Bool {
		t.Errorf("DrawLeftBarline = %+v, want unchanged true", o)
	}

	w := r.Warnings()
	if len(w) != 1 || !strings.Contains(w[0].Message, "Staff.DrawLeftBarline expects a bool value") {
		t.Errorf("warnings = %v", w)
	}
}

func TestReadInstruments(t *testing.T) {
	score, r := readScore(t, `(score (vers 2.0)
		(group (name "Strings") (abbrev "Str.") (symbol bracket) (joinBarlines no)
			(instrument (name "Violin" (style "Instrument names")) (abbrev "Vln."))
			(instrument (name "Viola")))
		(instrument (staves 2) (infoMIDI 1 2)
			(staff 2 (staffLines 4) (staffSpacing 200))
			(musicData (clef G p1) (clef F4 p2))))`)
	if len(r.Warnings()) != 0 {
		t.Fatalf("warnings: %v", r.Warnings())
	}

	if score.NumInstruments() != 3 {
		t.Fatalf("instruments = %d, want 3", score.NumInstruments())
	}
	g := score.Instrument(0).Group()
	if g == nil || g.NumInstruments() != 2 || score.Instrument(1).Group() != g {
		t.Fatal("group should hold the first two instruments")
	}
	if g.Name() != "Strings" || g.Abbrev() != "Str." || g.Symbol() != imo.GroupSymbolBracket || g.JoinBarlines() {
		t.Errorf("group = %q %q %v %v", g.Name(), g.Abbrev(), g.Symbol(), g.JoinBarlines())
	}

	vln := score.Instrument(0)
	if vln.Name() != "Violin" || vln.NameInfo().Style != imo.StyleInstrumentNames || vln.Abbrev() != "Vln." {
		t.Errorf("violin names = %+v %+v", vln.NameInfo(), vln.AbbrevInfo())
	}

	piano := score.Instrument(2)
	if piano.Group() != nil || piano.NumStaves() != 2 {
		t.Fatalf("piano staves = %d", piano.NumStaves())
	}
	if piano.Midi() != (imo.Midi{Instrument: 1, Channel: 2}) {
		t.Errorf("midi = %+v", piano.Midi())
	}
	want := imo.DefaultStaffLayout(1)
	want.Lines, want.LineSpacing = 4, 200
	if diff := cmp.Diff(want, piano.Staff(1).StaffLayout); diff != "" {
		t.Errorf("staff 2 (-want +got):\n%s", diff)
	}
	objs := piano.MusicData().StaffObjs()
	if objs[0].Staff() != 0 || objs[1].Staff() != 1 {
		t.Error("pN should select 0-based staves")
	}
}

func TestReadNoteOptions(t *testing.T) {
	objs := musicData(t, `(n * h v2 p2 (stem down) (color #00ff00) (visible no) (dx 5) (fermata below) (text "dolce"))`)
	n := objs[0].(*imo.Note)
	if n.IsPitched() {
		t.Error("* should leave the note unpitched")
	}
	if n.Voice() != 2 || n.Staff() != 1 || n.Stem() != imo.StemDown {
		t.Errorf("voice %d staff %d stem %v", n.Voice(), n.Staff(), n.Stem())
	}
	if n.Color() != (imo.Color{G: 255, A: 255}) || n.IsVisible() {
		t.Error("color or visibility")
	}
	if x, _ := n.UserLocation(); x != 5 {
		t.Errorf("dx = %v", x)
	}
	f, ok := n.FindAttachment(imo.KindFermata).(*imo.Fermata)
	if !ok || f.Placement() != imo.PlacementBelow {
		t.Error("fermata below missing")
	}
	if txt, ok := n.FindAttachment(imo.KindScoreText).(*imo.ScoreText); !ok || txt.Text() != "dolce" {
		t.Error("text attachment missing")
	}
}

func TestReadStaffObjects(t *testing.T) {
	objs := musicData(t, `(goBack start) (goFwd end) (goBack q) (goFwd 32)
		(metronome e. 80 parentheses) (metronome q h) (metronome 100)
		(spacer 40) (text "Allegro")`)
	if len(objs) != 9 {
		t.Fatalf("staff objects = %d, want 9", len(objs))
	}

	moves := objs[:4]
	if !moves[0].(*imo.GoBackFwd).IsToStart() || !moves[1].(*imo.GoBackFwd).IsToEnd() {
		t.Error("start/end moves")
	}
	if s := moves[2].(*imo.GoBackFwd).TimeShift(); s != -64 {
		t.Errorf("goBack q shift = %v, want -64", s)
	}
	if s := moves[3].(*imo.GoBackFwd).TimeShift(); s != 32 {
		t.Errorf("goFwd 32 shift = %v, want 32", s)
	}

	m := objs[4].(*imo.MetronomeMark)
	if m.MarkType() != imo.MetronomeNoteValue || m.TicksPerMinute() != 80 || !m.HasParenthesis() ||
		m.LeftNote().String() != "e." {
		t.Errorf("metronome = %v %d %v %s", m.MarkType(), m.TicksPerMinute(), m.HasParenthesis(), m.LeftNote())
	}
	if objs[5].(*imo.MetronomeMark).MarkType() != imo.MetronomeNoteNote {
		t.Error("note = note metronome")
	}
	if m := objs[6].(*imo.MetronomeMark); m.MarkType() != imo.MetronomeValue || m.TicksPerMinute() != 100 {
		t.Error("value metronome")
	}
	if objs[7].(*imo.Spacer).Width() != 40 {
		t.Error("spacer width")
	}
	anchor, ok := objs[8].(*imo.Spacer)
	if !ok {
		t.Fatalf("text should be anchored to a spacer, got %v", objs[8])
	}
	if txt, ok := anchor.FindAttachment(imo.KindScoreText).(*imo.ScoreText); !ok || txt.Text() != "Allegro" {
		t.Error("anchored text")
	}
}

func TestReadTies(t *testing.T) {
	tests := []struct {
		name  string
		items string
		from  int
		to    int
	}{
		{"numbered", `(n c4 q (tie 1 start)) (n c4 q (tie 1 stop))`, 0, 1},
		{"legacy", `(n c4 q l) (n e4 q) (n c4 q)`, 0, 2},
		{"bezier", `(n c4 q (tie 7 start (bezier (start-x 10) (ctrol1-y -5)))) (n c4 q (tie 7 stop))`, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := musicData(t, tt.items)
			from, to := objs[tt.from].(*imo.Note), objs[tt.to].(*imo.Note)
			tie := from.TieNext()
			if tie == nil || to.TiePrev() != tie {
				t.Fatal("notes not tied")
			}
			if tie.NumObjects() != 2 || tie.StartNote() != from || tie.EndNote() != to {
				t.Error("tie participants")
			}
		})
	}
}

func TestReadTieBezier(t *testing.T) {
	objs := musicData(t, `(n c4 q (tie 1 start (bezier (start-x 10) (ctrol1-y -5)))) (n c4 q (tie 1 stop))`)
	b := objs[0].(*imo.Note).TieNext().StartBezier()
	if b == nil {
		t.Fatal("bezier missing")
	}
	if b.Point(imo.BezierStart).X != 10 || b.Point(imo.BezierCtrol1).Y != -5 {
		t.Errorf("bezier points = %v %v", b.Point(imo.BezierStart), b.Point(imo.BezierCtrol1))
	}
}

func TestReadSlur(t *testing.T) {
	objs := musicData(t, `(n c4 q (slur 2 start)) (n d4 q (slur 2 continue)) (n e4 q (slur 2 stop (color #0000ff)))`)
	s := objs[0].(*imo.Note).Slur()
	if s == nil || s.NumObjects() != 3 {
		t.Fatal("slur with three notes expected")
	}
	if s.StartNote() != objs[0] || s.EndNote() != objs[2] || objs[1].(*imo.Note).Slur() != s {
		t.Error("slur participants")
	}
	if d := s.DataFor(objs[2]).(*imo.SlurData); d.Color() != (imo.Color{B: 255, A: 255}) {
		t.Errorf("stop color = %v", d.Color())
	}
}

func TestReadBeams(t *testing.T) {
	t.Run("legacy", func(t *testing.T) {
		objs := musicData(t, `(n c4 e g+) (r e) (n e4 e g-) (n f4 e)`)
		beam := objs[0].(*imo.Note).Beam()
		if beam == nil || len(beam.NotesRests()) != 3 {
			t.Fatal("beam with three members expected")
		}
		if objs[1].(*imo.Rest).Beam() != beam || objs[3].(*imo.Note).Beam() != nil {
			t.Error("beam membership")
		}
		var segs []string
		for _, d := range beam.Data() {
			segs = append(segs, d.Segments())
		}
		if diff := cmp.Diff([]string{"+", "=", "-"}, segs); diff != "" {
			t.Errorf("segments (-want +got):\n%s", diff)
		}
	})

	t.Run("numbered", func(t *testing.T) {
		objs := musicData(t, `(n c4 s (beam 1 ++)) (n d4 s (beam 1 ==)) (n e4 s (beam 1 -b))`)
		beam := objs[0].(*imo.Note).Beam()
		if beam == nil || len(beam.NotesRests()) != 3 {
			t.Fatal("beam with three members expected")
		}
		if d := beam.DataFor(objs[2]).(*imo.BeamData); d.Segments() != "-b" || d.BeamNumber() != 1 {
			t.Errorf("last segments = %q number %d", d.Segments(), d.BeamNumber())
		}
	})
}

func TestReadTuplets(t *testing.T) {
	tests := []struct {
		name           string
		items          string
		actual, normal int
		members        int
	}{
		{"legacy t3", `(n c4 e t3) (n d4 e) (n e4 e t-)`, 3, 2, 3},
		{"legacy t+", `(n c4 e t+) (n d4 e t-)`, 3, 2, 2},
		{"legacy t5", `(n c4 s t5) (n d4 s) (n e4 s) (n f4 s) (n g4 s t-)`, 5, 4, 5},
		{"numbers", `(r e (t + 5 4)) (n d4 e) (n e4 e (t -))`, 5, 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := musicData(t, tt.items)
			tup := objs[0].(imo.NoteRest).Tuplet()
			if tup == nil {
				t.Fatal("tuplet missing")
			}
			if tup.ActualNumber() != tt.actual || tup.NormalNumber() != tt.normal {
				t.Errorf("tuplet %d:%d, want %d:%d", tup.ActualNumber(), tup.NormalNumber(), tt.actual, tt.normal)
			}
			if n := len(tup.NotesRests()); n != tt.members {
				t.Errorf("members = %d, want %d", n, tt.members)
			}
		})
	}
}

func TestReadTupletOptions(t *testing.T) {
	objs := musicData(t, `(n c4 e (t + 3 2 noBracket below displayNoNumber)) (n d4 e) (n e4 e (t -))`)
	tup := objs[0].(*imo.Note).Tuplet()
	if tup.ShowBracket() != imo.No || tup.Placement() != imo.PlacementBelow || tup.ShowNumber() != imo.NumberNone {
		t.Errorf("options = %v %v %v", tup.ShowBracket(), tup.Placement(), tup.ShowNumber())
	}
}

func TestReadChord(t *testing.T) {
	objs := musicData(t, `(chord (n c4 e g+) (n e4 e) (n g4 e)) (n a4 e g-)`)
	if len(objs) != 4 {
		t.Fatalf("chord notes should stay in music data, got %d objects", len(objs))
	}
	base := objs[0].(*imo.Note)
	chord := base.Chord()
	if chord == nil || len(chord.Notes()) != 3 || !base.IsStartOfChord() {
		t.Fatal("chord with three notes expected")
	}
	if !objs[2].(*imo.Note).IsEndOfChord() {
		t.Error("last chord note")
	}
	beam := base.Beam()
	if beam == nil || len(beam.NotesRests()) != 2 || objs[1].(*imo.Note).Beam() != nil {
		t.Error("only the chord base note should be beamed")
	}
}

func TestReadWarnings(t *testing.T) {
	_, r := readScore(t, `(score (instrument (musicData
		(n c4 q (tie 3 stop))
		(n h9 q)
		(foo)
		(n c4 e (beam 1 +)))))`)

	w := r.Warnings()
	if len(w) != 4 {
		t.Fatalf("warnings = %v, want 4", w)
	}
	wantLines := []int{2, 3, 4, 5}
	for i, line := range wantLines {
		if w[i].Line != line {
			t.Errorf("warning %d at line %d, want %d: %s", i, w[i].Line, line, w[i])
		}
	}
	if !strings.Contains(w[2].Message, `"foo"`) {
		t.Errorf("unknown element warning = %q", w[2].Message)
	}
}

func TestReadSingleNoteChord(t *testing.T) {
	score, r := readScore(t, `(score (instrument (musicData (chord (n c4 q)))))`)
	if len(r.Warnings()) != 1 {
		t.Fatalf("warnings = %v", r.Warnings())
	}
	n := score.Instrument(0).MusicData().StaffObjs()[0].(*imo.Note)
	if n.IsInChord() || n.NumAttachments() != 0 {
		t.Error("a single note chord should dissolve")
	}
}

func TestReadStrict(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Linker = linker.Config{Strict: true}
	r := NewReader(cfg)

	doc, err := r.Read("", []byte(`(score (instrument (musicData (cursor 0 0 0 1))))`))
	if err == nil {
		t.Fatal("strict read should report unplaced objects")
	}
	if !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("error %v should wrap ErrInvalidInput", err)
	}
	if doc == nil {
		t.Error("document should still be returned")
	}
}

func TestReadRootErrors(t *testing.T) {
	for _, src := range []string{"(foo)", "(score", ""} {
		if _, err := ReadString(src); err == nil {
			t.Errorf("ReadString(%q) should fail", src)
		}
	}
}

func TestReadFrom(t *testing.T) {
	doc, err := NewReader(DefaultConfig()).ReadFrom("in", strings.NewReader("(score (vers 1.6))"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.ContentItem(0).(*imo.Score).Version() != "1.6" {
		t.Error("version not read")
	}
}
