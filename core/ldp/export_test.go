package ldp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/FocuswithJustin/JuniperScore/core/imo"
)

func TestExportStaffObjects(t *testing.T) {
	note := func(pitch, dur string) *imo.Note {
		n := imo.NewNote()
		p, err := imo.ParsePitch(pitch)
		if err != nil {
			t.Fatal(err)
		}
		n.SetPitch(p)
		d := imo.ParseDuration(dur)
		n.SetDuration(d.NoteType, d.Dots)
		return n
	}

	coloredClef := imo.NewClef(imo.ClefF4)
	coloredClef.SetColor(imo.Color{R: 0x7f, G: 0x28, B: 0x0c, A: 0x80})

	rest := imo.NewRest()
	rest.SetStaff(1)
	rest.SetVoice(2)

	spacer := imo.NewSpacer()
	spacer.SetWidth(20)
	spacer.AddAttachment(imo.NewScoreText("x"))

	withFermata := note("c4", "q")
	withFermata.AddAttachment(imo.NewFermata(imo.PlacementAbove))

	hidden := note("=g5", "h")
	hidden.SetVisible(false)
	hidden.SetStem(imo.StemUp)

	metronome := imo.NewMetronomeMark(60)
	metronome.SetNoteValue(imo.NoteTypeAndDots{NoteType: imo.Quarter}, 80)
	metronome.SetParenthesis(true)

	tests := []struct {
		name string
		obj  imo.Obj
		want string
	}{
		{"clef", imo.NewClef(imo.ClefF4), "(clef F4 p1)"},
		{"colored clef", coloredClef, "(clef F4 p1 (color #7f280c80))"},
		{"eighth", note("d4", "e"), "(n d4 e p1)"},
		{"double dotted", note("+b7", "w.."), "(n +b7 w.. p1)"},
		{"unpitched", imo.NewNote(), "(n * q p1)"},
		{"rest", rest, "(r q p2 v2)"},
		{"key", imo.NewKeySignature(imo.KeyFromFifths(2, true)), "(key D p1)"},
		{"time", imo.NewTimeSignature(3, 4), "(time 3 4 p1)"},
		{"barline", imo.NewBarline(imo.BarlineEnd), "(barline end p1)"},
		{"go to start", imo.NewGoToStart(), "(goBack start p1)"},
		{"go back", imo.NewGoBackFwd(false, -32), "(goBack 32 p1)"},
		{"go forward", imo.NewGoBackFwd(true, 16), "(goFwd 16 p1)"},
		{"metronome", imo.NewMetronomeMark(60), "(metronome 60 p1)"},
		{"metronome note", metronome, "(metronome q 80 parentheses p1)"},
		{"spacer with text", spacer, `(spacer 20 p1 (text "x"))`},
		{"fermata", withFermata, "(n c4 q p1 (fermata above))"},
		{"stem and visibility", hidden, "(n =g5 h p1 (stem up) (visible no))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Export(tt.obj); got != tt.want {
				t.Errorf("Export() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExportTie(t *testing.T) {
	md := imo.NewMusicData()
	n1, n2 := imo.NewNote(), imo.NewNote()
	p, _ := imo.ParsePitch("c4")
	n1.SetPitch(p)
	n2.SetPitch(p)
	md.AppendChild(n1)
	md.AppendChild(n2)

	start, stop := imo.NewTieDto(), imo.NewTieDto()
	stop.SetStart(false)
	tie := imo.NewTie()
	tie.SetTieNumber(12)
	n1.IncludeInRelation(tie, imo.NewTieData(start))
	n2.IncludeInRelation(tie, imo.NewTieData(stop))

	want := "(musicData\n" +
		"   (n c4 q p1 (tie 1 start))\n" +
		"   (n c4 q p1 (tie 1 stop)))"
	if got := Export(md); got != want {
		t.Errorf("Export() =\n%s\nwant\n%s", got, want)
	}
}

func TestExportDefaultsOmitted(t *testing.T) {
	doc, err := ReadString("(score (vers 2.0) (instrument (musicData)))")
	if err != nil {
		t.Fatal(err)
	}
	want := "(lenmusdoc (vers 0.0)\n" +
		"   (content\n" +
		"      (score (vers 2.0)\n" +
		"         (instrument\n" +
		"            (musicData)))))"
	if got := Export(doc); got != want {
		t.Errorf("Export() =\n%s\nwant\n%s", got, want)
	}
}

// sonata exercises every element the reader knows.
const sonata = `(lenmusdoc (vers 0.0)
   (pageLayout (pageSize 21000 29700) (pageMargins 1000 1500 1000 1500 0) portrait)
   (cursor 0 0 128 7)
   (styles (defineStyle "Lyrics" (font "Serif" 9pt italic) (color #202020)))
   (content
      (heading 1 (txt "Sonata"))
      (para (txt (style "Lyrics") "for piano") (txt "and violin"))
      (score (vers 2.0)
         (opt Render.SpacingValue 30)
         (opt Render.SpacingFactor 1.0)
         (opt Score.Subtitle "draft")
         (pageLayout (pageSize 29700 21000) (pageMargins 1000 1500 1000 1500 0) landscape)
         (systemLayout other (systemMargins 0 0 2500 1500))
         (defineStyle "Tempo" (font "Liberation sans" 12pt bold))
         (title center "Sonata in D" (style "Tempo"))
         (group (name "Duo") (symbol bracket) (joinBarlines no)
            (instrument (name "Violin") (abbrev "Vln.") (infoMIDI 41 1)
               (musicData
                  (clef G) (key D) (time 3 4)
                  (metronome q 96)
                  (n d4 e g+ (slur 1 start)) (n e4 e) (n +f4 e g- (slur 1 stop))
                  (n a4 q l) (n a4 q (fermata above))
                  (barline)
                  (n d5 e t3) (n c5 e) (n b4 e t-)
                  (chord (n d4 h (stem down)) (n +f4 h) (n a4 h))
                  (text "rit.")
                  (barline end))))
         (instrument (name "Piano") (staves 2)
            (staff 2 (staffLines 5) (staffSpacing 200) (staffDistance 1000) (lineThickness 15))
            (musicData
               (clef G p1) (clef F4 p2)
               (n d5 s (beam 1 ++)) (n e5 s (beam 1 ==)) (n f5 s (beam 1 =-)) (n g5 s (beam 1 --))
               (goBack start)
               (n d3 h. p2 (tie 4 start (bezier (start-x 10) (end-y -4)))) (goFwd end)
               (barline)
               (n d3 q p2 (tie 4 stop) (color #ff000080)) (r h p2 v2)
               (barline end))))))`

func TestExportRoundTrip(t *testing.T) {
	r := NewReader(DefaultConfig())
	doc, err := r.Read("sonata.lmd", []byte(sonata))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Warnings()) != 0 {
		t.Fatalf("warnings: %v", r.Warnings())
	}
	if errs := imo.Validate(doc); len(errs) != 0 {
		t.Fatalf("Validate() = %v", errs)
	}

	first := Export(doc)
	again, err := ReadString(first)
	if err != nil {
		t.Fatalf("exported source does not read back: %v\n%s", err, first)
	}
	if diff := cmp.Diff(first, Export(again)); diff != "" {
		t.Errorf("export not stable (-first +second):\n%s", diff)
	}

	for _, want := range []string{
		`(opt Render.SpacingValue 30)`,
		`(opt Render.SpacingFactor 1.0)`,
		`(opt Score.Subtitle "draft")`,
		`(systemLayout other (systemMargins 0 0 2500 1500))`,
		`(cursor 0 0 128 7)`,
		`(defineStyle "Lyrics" (font "Serif" 9pt italic) (color #202020ff))`,
		`(title center "Sonata in D" (style "Tempo"))`,
		`(group (name "Duo") (symbol bracket) (joinBarlines no)`,
		`(instrument (name "Violin") (abbrev "Vln.") (infoMIDI 41 1)`,
		`(n d4 e p1 (beam 1 +) (slur 1 start))`,
		`(n e4 e p1 (beam 1 =))`,
		`(n a4 q p1 (tie 1 start))`,
		`(n a4 q p1 (tie 1 stop) (fermata above))`,
		`(n d5 e p1 (t + 3 2))`,
		`(n b4 e p1 (t -))`,
		`(n d4 h p1 (stem down))`,
		`(spacer 0 p1 (text "rit."))`,
		`(staff 2 (staffLines 5) (staffSpacing 200) (staffDistance 1000) (lineThickness 15))`,
		`(n f5 s p1 (beam 2 =-))`,
		`(n d3 h. p2 (tie 2 start (bezier (start-x 10) (end-y -4))))`,
		`(n d3 q p2 (tie 2 stop) (color #ff000080))`,
		`(r h p2 v2)`,
	} {
		if !strings.Contains(first, want) {
			t.Errorf("export lacks %s", want)
		}
	}

	for _, absent := range []string{"Tuplet numbers", "Instrument names", "(systemLayout first"} {
		if strings.Contains(first, absent) {
			t.Errorf("export should omit default %q", absent)
		}
	}
}

func TestExportChordOrder(t *testing.T) {
	objs := musicData(t, `(chord (n c4 q) (n e4 q)) (n g4 q)`)
	got := Export(objs[0].(*imo.Note).Chord())
	want := "(chord\n   (n c4 q p1)\n   (n e4 q p1))"
	if got != want {
		t.Errorf("Export(chord) =\n%s\nwant\n%s", got, want)
	}
}
