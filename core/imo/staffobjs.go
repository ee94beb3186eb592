package imo

// ClefType identifies a clef sign and its line.
type ClefType int

// Clef types.
const (
	ClefUndefined ClefType = iota - 1
	ClefG2
	ClefF4
	ClefF3
	ClefC1
	ClefC2
	ClefC3
	ClefC4
	ClefPercussion
	ClefC5
	ClefF5
	ClefG1
	ClefG2Up8
	ClefG2Down8
)

var clefNames = []string{"G", "F4", "F3", "C1", "C2", "C3", "C4", "percussion",
	"C5", "F5", "G1", "8_G", "G_8"}

// String returns the LDP name of the clef.
func (c ClefType) String() string {
	if c < 0 || int(c) >= len(clefNames) {
		return "undefined"
	}
	return clefNames[c]
}

// ParseClef maps an LDP clef name to its type. "F" and "C" are accepted
// as aliases of F4 and C3.
func ParseClef(s string) (ClefType, bool) {
	switch s {
	case "F":
		return ClefF4, true
	case "C":
		return ClefC3, true
	case "G2":
		return ClefG2, true
	}
	for i, name := range clefNames {
		if name == s {
			return ClefType(i), true
		}
	}
	return ClefUndefined, false
}

// Clef is a clef change on a staff.
type Clef struct {
	staffBase
	clefType ClefType
}

// NewClef returns a clef of the given type.
func NewClef(t ClefType) *Clef {
	c := &Clef{clefType: t}
	c.initStaffObj(c, KindClef)
	return c
}

// ClefType returns the clef type.
func (c *Clef) ClefType() ClefType { return c.clefType }

// SetClefType sets the clef type.
func (c *Clef) SetClefType(t ClefType) { c.clefType = t }

// KeyType is a key signature identified by its LDP name.
type KeyType int

// KeyUndefined marks an unknown key.
const KeyUndefined KeyType = -1

// keyNames lists major keys (C through C- by fifths) then minor keys.
var keyNames = []string{
	"C", "G", "D", "A", "E", "B", "F+", "C+", "F", "B-", "E-", "A-", "D-", "G-", "C-",
	"a", "e", "b", "f+", "c+", "g+", "d+", "a+", "d", "g", "c", "f", "b-", "e-", "a-",
}

var keyFifths = []int{
	0, 1, 2, 3, 4, 5, 6, 7, -1, -2, -3, -4, -5, -6, -7,
	0, 1, 2, 3, 4, 5, 6, 7, -1, -2, -3, -4, -5, -6, -7,
}

const numMajorKeys = 15

// ParseKey maps an LDP key name to its type.
func ParseKey(s string) (KeyType, bool) {
	for i, name := range keyNames {
		if name == s {
			return KeyType(i), true
		}
	}
	return KeyUndefined, false
}

// KeyFromFifths returns the key with the given number of fifths (positive
// for sharps) and mode.
func KeyFromFifths(fifths int, major bool) KeyType {
	if fifths < -7 || fifths > 7 {
		return KeyUndefined
	}
	first, last := 0, numMajorKeys
	if !major {
		first, last = numMajorKeys, len(keyNames)
	}
	for i := first; i < last; i++ {
		if keyFifths[i] == fifths {
			return KeyType(i)
		}
	}
	return KeyUndefined
}

// String returns the LDP name of the key.
func (k KeyType) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "undefined"
	}
	return keyNames[k]
}

// Fifths returns the number of accidentals, positive for sharps.
func (k KeyType) Fifths() int {
	if k < 0 || int(k) >= len(keyFifths) {
		return 0
	}
	return keyFifths[k]
}

// IsMajor reports whether the key is a major key.
func (k KeyType) IsMajor() bool { return k >= 0 && k < numMajorKeys }

// KeySignature is a key change.
type KeySignature struct {
	staffBase
	keyType KeyType
}

// NewKeySignature returns a key signature.
func NewKeySignature(k KeyType) *KeySignature {
	ks := &KeySignature{keyType: k}
	ks.initStaffObj(ks, KindKeySignature)
	return ks
}

// KeyType returns the key.
func (k *KeySignature) KeyType() KeyType { return k.keyType }

// SetKeyType sets the key.
func (k *KeySignature) SetKeyType(t KeyType) { k.keyType = t }

// TimeSignature is a meter change.
type TimeSignature struct {
	staffBase
	beats    int
	beatType int
}

// NewTimeSignature returns a beats/beatType time signature.
func NewTimeSignature(beats, beatType int) *TimeSignature {
	t := &TimeSignature{beats: beats, beatType: beatType}
	t.initStaffObj(t, KindTimeSignature)
	return t
}

// Beats returns the numerator.
func (t *TimeSignature) Beats() int { return t.beats }

// BeatType returns the denominator.
func (t *TimeSignature) BeatType() int { return t.beatType }

// BarlineType identifies the barline drawing.
type BarlineType int

// Barline types.
const (
	BarlineSimple BarlineType = iota
	BarlineDouble
	BarlineStart
	BarlineEnd
	BarlineEndRepetition
	BarlineStartRepetition
	BarlineDoubleRepetition
)

var barlineNames = []string{"simple", "double", "start", "end", "endRepetition",
	"startRepetition", "doubleRepetition"}

// String returns the LDP name of the barline type.
func (b BarlineType) String() string {
	if b < 0 || int(b) >= len(barlineNames) {
		return "simple"
	}
	return barlineNames[b]
}

// ParseBarline maps an LDP barline name to its type.
func ParseBarline(s string) (BarlineType, bool) {
	for i, name := range barlineNames {
		if name == s {
			return BarlineType(i), true
		}
	}
	return BarlineSimple, false
}

// Barline ends a measure.
type Barline struct {
	staffBase
	barlineType BarlineType
}

// NewBarline returns a barline of the given type.
func NewBarline(t BarlineType) *Barline {
	b := &Barline{barlineType: t}
	b.initStaffObj(b, KindBarline)
	return b
}

// BarlineType returns the barline type.
func (b *Barline) BarlineType() BarlineType { return b.barlineType }

// Spacer is an invisible staff object that occupies horizontal space. It
// also anchors texts placed directly in music data.
type Spacer struct {
	staffBase
	width Tenths
}

// NewSpacer returns a zero width spacer.
func NewSpacer() *Spacer {
	s := &Spacer{}
	s.initStaffObj(s, KindSpacer)
	return s
}

// Width returns the spacer width.
func (s *Spacer) Width() Tenths { return s.width }

// SetWidth sets the spacer width.
func (s *Spacer) SetWidth(w Tenths) { s.width = w }

// shiftStartEnd is the time shift that moves the cursor to the start or
// end of the measure.
const shiftStartEnd = 100000000.0

// GoBackFwd moves the time cursor inside a measure.
type GoBackFwd struct {
	staffBase
	forward   bool
	timeShift float64
}

// NewGoBackFwd returns a cursor move. A positive shift moves forward.
func NewGoBackFwd(forward bool, shift float64) *GoBackFwd {
	g := &GoBackFwd{forward: forward, timeShift: shift}
	g.initStaffObj(g, KindGoBackFwd)
	return g
}

// NewGoToStart returns a move back to the start of the measure.
func NewGoToStart() *GoBackFwd { return NewGoBackFwd(false, -shiftStartEnd) }

// NewGoToEnd returns a move forward to the end of the measure.
func NewGoToEnd() *GoBackFwd { return NewGoBackFwd(true, shiftStartEnd) }

// IsForward reports the direction.
func (g *GoBackFwd) IsForward() bool { return g.forward }

// TimeShift returns the signed shift in 256th units.
func (g *GoBackFwd) TimeShift() float64 { return g.timeShift }

// IsToStart reports whether the move goes to the start of the measure.
func (g *GoBackFwd) IsToStart() bool { return !g.forward && g.timeShift == -shiftStartEnd }

// IsToEnd reports whether the move goes to the end of the measure.
func (g *GoBackFwd) IsToEnd() bool { return g.forward && g.timeShift == shiftStartEnd }

// MetronomeMarkType tells which fields of a metronome mark are meaningful.
type MetronomeMarkType int

// Metronome mark types.
const (
	MetronomeValue MetronomeMarkType = iota
	MetronomeNoteValue
	MetronomeNoteNote
)

// MetronomeMark is a tempo indication.
type MetronomeMark struct {
	staffBase
	markType       MetronomeMarkType
	ticksPerMinute int
	left, right    NoteTypeAndDots
	parenthesis    bool
}

// NewMetronomeMark returns a "ticks per minute" mark.
func NewMetronomeMark(ticksPerMinute int) *MetronomeMark {
	m := &MetronomeMark{
		markType:       MetronomeValue,
		ticksPerMinute: ticksPerMinute,
		left:           NoteTypeAndDots{NoteType: Quarter},
		right:          NoteTypeAndDots{NoteType: Quarter},
	}
	m.initStaffObj(m, KindMetronomeMark)
	return m
}

// MarkType returns the mark type.
func (m *MetronomeMark) MarkType() MetronomeMarkType { return m.markType }

// TicksPerMinute returns the tempo value.
func (m *MetronomeMark) TicksPerMinute() int { return m.ticksPerMinute }

// SetTicksPerMinute sets the tempo value.
func (m *MetronomeMark) SetTicksPerMinute(v int) { m.ticksPerMinute = v }

// LeftNote returns the note on the left side of the mark.
func (m *MetronomeMark) LeftNote() NoteTypeAndDots { return m.left }

// RightNote returns the note on the right side of the mark.
func (m *MetronomeMark) RightNote() NoteTypeAndDots { return m.right }

// HasParenthesis reports whether the mark is parenthesized.
func (m *MetronomeMark) HasParenthesis() bool { return m.parenthesis }

// SetParenthesis sets the parenthesis flag.
func (m *MetronomeMark) SetParenthesis(v bool) { m.parenthesis = v }

// SetNoteValue turns the mark into "note = value".
func (m *MetronomeMark) SetNoteValue(left NoteTypeAndDots, ticksPerMinute int) {
	m.markType = MetronomeNoteValue
	m.left = left
	m.ticksPerMinute = ticksPerMinute
}

// SetNoteNote turns the mark into "note = note".
func (m *MetronomeMark) SetNoteNote(left, right NoteTypeAndDots) {
	m.markType = MetronomeNoteNote
	m.left = left
	m.right = right
}
