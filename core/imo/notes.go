package imo

// StemDirection is the requested stem orientation of a note.
type StemDirection int

// Stem directions.
const (
	StemDefault StemDirection = iota
	StemUp
	StemDown
	StemNone
	StemDouble
)

var stemNames = map[StemDirection]string{
	StemDefault: "default",
	StemUp:      "up",
	StemDown:    "down",
	StemNone:    "none",
	StemDouble:  "double",
}

func (s StemDirection) String() string { return stemNames[s] }

// ParseStem maps an LDP stem value to a direction. Unknown values give
// StemDefault and false.
func ParseStem(s string) (StemDirection, bool) {
	for k, v := range stemNames {
		if v == s {
			return k, true
		}
	}
	return StemDefault, false
}

// NoteRest is implemented by notes and rests. Both carry a written
// duration, a voice and may be beamed or grouped in a tuplet.
type NoteRest interface {
	StaffObj
	NoteType() NoteType
	Dots() int
	Duration() float64
	SetDuration(t NoteType, dots int)
	Voice() int
	SetVoice(v int)
	Beam() *Beam
	Tuplet() *Tuplet
	noteRest() *noteRestBase
}

type noteRestBase struct {
	staffBase
	noteType NoteType
	dots     int
	duration float64
	voice    int
}

func (n *noteRestBase) initNoteRest(self Obj, k Kind) {
	n.initStaffObj(self, k)
	n.voice = 1
	n.SetDuration(Quarter, 0)
}

func (n *noteRestBase) noteRest() *noteRestBase { return n }

// NoteType returns the written note type.
func (n *noteRestBase) NoteType() NoteType { return n.noteType }

// Dots returns the number of dots.
func (n *noteRestBase) Dots() int { return n.dots }

// Duration returns the duration in 256th units.
func (n *noteRestBase) Duration() float64 { return n.duration }

// SetDuration sets note type and dots and recomputes the duration.
func (n *noteRestBase) SetDuration(t NoteType, dots int) {
	n.noteType = t
	n.dots = dots
	n.duration = ToDuration(t, dots)
}

// Voice returns the voice number, 1 by default.
func (n *noteRestBase) Voice() int { return n.voice }

// SetVoice sets the voice number.
func (n *noteRestBase) SetVoice(v int) { n.voice = v }

// Beam returns the beam the note or rest belongs to, or nil.
func (n *noteRestBase) Beam() *Beam {
	b, _ := n.FindAttachment(KindBeam).(*Beam)
	return b
}

// IsBeamed reports whether the note or rest is part of a beam.
func (n *noteRestBase) IsBeamed() bool { return n.Beam() != nil }

// Tuplet returns the tuplet the note or rest belongs to, or nil.
func (n *noteRestBase) Tuplet() *Tuplet {
	t, _ := n.FindAttachment(KindTuplet).(*Tuplet)
	return t
}

// Note is a pitched note.
type Note struct {
	noteRestBase
	pitch Pitch
	stem  StemDirection
}

// NewNote returns a quarter note without pitch.
func NewNote() *Note {
	n := &Note{pitch: Pitch{Step: NoPitch, Octave: 4}}
	n.initNoteRest(n, KindNote)
	return n
}

// Pitch returns the note pitch.
func (n *Note) Pitch() Pitch { return n.pitch }

// SetPitch sets the note pitch.
func (n *Note) SetPitch(p Pitch) { n.pitch = p }

// IsPitched reports whether a step has been set.
func (n *Note) IsPitched() bool { return n.pitch.Step != NoPitch }

// Stem returns the stem direction.
func (n *Note) Stem() StemDirection { return n.stem }

// SetStem sets the stem direction.
func (n *Note) SetStem(s StemDirection) { n.stem = s }

// Chord returns the chord the note belongs to, or nil.
func (n *Note) Chord() *Chord {
	c, _ := n.FindAttachment(KindChord).(*Chord)
	return c
}

// IsInChord reports whether the note is part of a chord.
func (n *Note) IsInChord() bool { return n.Chord() != nil }

// IsStartOfChord reports whether the note is the first note of its chord.
func (n *Note) IsStartOfChord() bool {
	c := n.Chord()
	return c != nil && c.StartObject() == StaffObj(n)
}

// IsEndOfChord reports whether the note is the last note of its chord.
func (n *Note) IsEndOfChord() bool {
	c := n.Chord()
	return c != nil && c.EndObject() == StaffObj(n)
}

func (n *Note) ties() []*Tie {
	var res []*Tie
	for _, r := range n.Relations() {
		if t, ok := r.(*Tie); ok {
			res = append(res, t)
		}
	}
	return res
}

// TieNext returns the tie starting at this note, or nil.
func (n *Note) TieNext() *Tie {
	for _, t := range n.ties() {
		if t.StartNote() == n {
			return t
		}
	}
	return nil
}

// TiePrev returns the tie ending at this note, or nil.
func (n *Note) TiePrev() *Tie {
	for _, t := range n.ties() {
		if t.EndNote() == n {
			return t
		}
	}
	return nil
}

// IsTiedNext reports whether a tie starts at this note.
func (n *Note) IsTiedNext() bool { return n.TieNext() != nil }

// IsTiedPrev reports whether a tie ends at this note.
func (n *Note) IsTiedPrev() bool { return n.TiePrev() != nil }

// Slur returns the first slur the note participates in, or nil.
func (n *Note) Slur() *Slur {
	s, _ := n.FindAttachment(KindSlur).(*Slur)
	return s
}

// Rest is a silence of a given duration.
type Rest struct {
	noteRestBase
}

// NewRest returns a quarter rest.
func NewRest() *Rest {
	r := &Rest{}
	r.initNoteRest(r, KindRest)
	return r
}
