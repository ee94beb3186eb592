package imo

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
)

// Step is the diatonic step of a pitch.
type Step int

// Diatonic steps.
const (
	NoPitch Step = iota - 1
	StepC
	StepD
	StepE
	StepF
	StepG
	StepA
	StepB
)

const stepLetters = "cdefgab"

// String returns the lower case step letter.
func (s Step) String() string {
	if s < StepC || s > StepB {
		return ""
	}
	return stepLetters[s : s+1]
}

// Accidentals is the chromatic alteration written before a note.
type Accidentals int

// Accidental values.
const (
	NoAccidentals Accidentals = iota
	Sharp
	Flat
	Natural
	DoubleSharp
	SharpSharp
	FlatFlat
	NaturalFlat
)

var accidentalSigns = map[string]Accidentals{
	"":   NoAccidentals,
	"+":  Sharp,
	"-":  Flat,
	"=":  Natural,
	"x":  DoubleSharp,
	"++": SharpSharp,
	"--": FlatFlat,
	"=-": NaturalFlat,
}

// String returns the LDP sign of the accidentals.
func (a Accidentals) String() string {
	for sign, v := range accidentalSigns {
		if v == a {
			return sign
		}
	}
	return ""
}

// Pitch is a parsed pitch name.
type Pitch struct {
	Step        Step
	Octave      int
	Accidentals Accidentals
}

// String returns the pitch in LDP notation, e.g. "+c4".
func (p Pitch) String() string {
	return p.Accidentals.String() + p.Step.String() + strconv.Itoa(p.Octave)
}

// pitchGrammar is the participle grammar for LDP pitch names.
// Examples: "c4", "+b7", "--e3", "=-a2"
//
//nolint:govet // participle grammar tags are not standard struct tags
type pitchGrammar struct {
	Accidentals string `@Accidentals?`
	Step        string `@Step`
	Octave      int    `@Octave`
}

// pitchLexer defines the tokens of a pitch name. Two-sign accidentals are
// listed first so they win over their one-sign prefixes.
var pitchLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Accidentals", Pattern: `\+\+|--|=-|[+\-=x]`},
	{Name: "Step", Pattern: `[a-g]`},
	{Name: "Octave", Pattern: `[0-9]`},
})

var pitchParser = participle.MustBuild[pitchGrammar](
	participle.Lexer(pitchLexer),
)

// ParsePitch parses an LDP pitch: optional accidentals, step letter and
// octave digit. The string must be trimmed and lower case.
func ParsePitch(s string) (Pitch, error) {
	if len(s) < 2 {
		return Pitch{Step: NoPitch}, errors.NewParse("pitch", "", "too short: "+quote(s))
	}
	parsed, err := pitchParser.ParseString("", s)
	if err != nil {
		return Pitch{Step: NoPitch}, errors.NewParse("pitch", "", err.Error())
	}
	return Pitch{
		Step:        Step(strings.IndexByte(stepLetters, parsed.Step[0])),
		Octave:      parsed.Octave,
		Accidentals: accidentalSigns[parsed.Accidentals],
	}, nil
}

// NoteType is the written duration of a note or rest.
type NoteType int

// Note types, from longa to 256th.
const (
	NoteTypeUnknown NoteType = iota - 1
	Longa
	Breve
	Whole
	Half
	Quarter
	Eighth
	N16th
	N32nd
	N64th
	N128th
	N256th
)

const noteTypeLetters = "lbwhqestiof"

// String returns the LDP letter of the note type.
func (t NoteType) String() string {
	if t < Longa || t > N256th {
		return ""
	}
	return noteTypeLetters[t : t+1]
}

// NoteTypeAndDots is the result of parsing an LDP duration.
type NoteTypeAndDots struct {
	NoteType NoteType
	Dots     int
}

// String returns the duration in LDP notation, e.g. "q..".
func (d NoteTypeAndDots) String() string {
	return d.NoteType.String() + strings.Repeat(".", d.Dots)
}

// durationGrammar is the participle grammar for LDP durations.
// Examples: "q", "h.", "e.."
//
//nolint:govet // participle grammar tags are not standard struct tags
type durationGrammar struct {
	NoteType string   `@NoteType`
	Dots     []string `@Dot*`
}

var durationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "NoteType", Pattern: `[lbwhqestiof]`},
	{Name: "Dot", Pattern: `\.`},
})

var durationParser = participle.MustBuild[durationGrammar](
	participle.Lexer(durationLexer),
)

// ParseDuration parses an LDP duration. Malformed input yields
// NoteTypeUnknown with zero dots.
func ParseDuration(s string) NoteTypeAndDots {
	unknown := NoteTypeAndDots{NoteType: NoteTypeUnknown}
	if s == "" {
		return unknown
	}
	parsed, err := durationParser.ParseString("", s)
	if err != nil {
		return unknown
	}
	return NoteTypeAndDots{
		NoteType: NoteType(strings.IndexByte(noteTypeLetters, parsed.NoteType[0])),
		Dots:     len(parsed.Dots),
	}
}

var noteTypeDurations = map[NoteType]float64{
	Longa:   1024,
	Breve:   512,
	Whole:   256,
	Half:    128,
	Quarter: 64,
	Eighth:  32,
	N16th:   16,
	N32nd:   8,
	N64th:   4,
	N128th:  2,
	N256th:  1,
}

// dotFactors[n] is the duration multiplier for n dots.
var dotFactors = []float64{1, 1.5, 1.75, 1.875, 1.9375, 1.96875, 1.984375,
	1.9921875, 1.99609375, 1.998046875}

// ToDuration returns the duration of a note type with dots, in 256th
// units (a quarter note is 64). Unknown note types count as quarters and
// more than nine dots are ignored.
func ToDuration(t NoteType, dots int) float64 {
	d, ok := noteTypeDurations[t]
	if !ok {
		d = 64
	}
	if dots > 0 && dots < len(dotFactors) {
		d *= dotFactors[dots]
	}
	return d
}

func quote(s string) string {
	return "\"" + s + "\""
}
