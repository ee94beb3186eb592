package imo

// BezierInfo holds the four control points of a tie or slur curve:
// start, end, first control point, second control point.
type BezierInfo struct {
	simpleBase
	points [4]Point
}

// Bezier point indexes.
const (
	BezierStart = iota
	BezierEnd
	BezierCtrol1
	BezierCtrol2
)

// NewBezierInfo returns a curve with all points at the origin.
func NewBezierInfo() *BezierInfo {
	b := &BezierInfo{}
	b.init(b, KindBezierInfo)
	return b
}

// Point returns control point i.
func (b *BezierInfo) Point(i int) Point { return b.points[i] }

// SetPoint sets control point i.
func (b *BezierInfo) SetPoint(i int, p Point) { b.points[i] = p }

// Clone returns a new node with the same points.
func (b *BezierInfo) Clone() *BezierInfo {
	c := NewBezierInfo()
	c.points = b.points
	return c
}

// -----------------------------------------------------------------------------
// Tie
// -----------------------------------------------------------------------------

// TieDto carries a tie start or stop read from source text until both
// ends are known.
type TieDto struct {
	simpleBase
	start      bool
	tieNum     int
	note       *Note
	bezier     *BezierInfo
	lineNumber int
}

// NewTieDto returns an empty tie dto.
func NewTieDto() *TieDto {
	d := &TieDto{start: true}
	d.init(d, KindTieDto)
	return d
}

// IsStart reports whether the dto is a tie start.
func (d *TieDto) IsStart() bool { return d.start }

// SetStart sets the start flag.
func (d *TieDto) SetStart(v bool) { d.start = v }

// TieNumber returns the tie number used to pair start and stop.
func (d *TieDto) TieNumber() int { return d.tieNum }

// SetTieNumber sets the tie number.
func (d *TieDto) SetTieNumber(n int) { d.tieNum = n }

// Note returns the note that carries the tie mark.
func (d *TieDto) Note() *Note { return d.note }

// SetNote sets the note that carries the tie mark.
func (d *TieDto) SetNote(n *Note) { d.note = n }

// Bezier returns the user curve or nil.
func (d *TieDto) Bezier() *BezierInfo { return d.bezier }

// SetBezier takes ownership of b.
func (d *TieDto) SetBezier(b *BezierInfo) { d.bezier = b }

// LineNumber returns the source line of the tie mark, 0 when unknown.
func (d *TieDto) LineNumber() int { return d.lineNumber }

// SetLineNumber records the source line.
func (d *TieDto) SetLineNumber(n int) { d.lineNumber = n }

// TieData is the per-note side of a tie.
type TieData struct {
	relDataBase
	start  bool
	tieNum int
	bezier *BezierInfo
}

// NewTieData builds the data of one tie end from its dto. The bezier, if
// any, is cloned. A nil dto gives a start with no curve.
func NewTieData(dto *TieDto) *TieData {
	d := &TieData{start: true}
	d.init(d, KindTieData)
	if dto != nil {
		d.start = dto.start
		d.tieNum = dto.tieNum
		if dto.bezier != nil {
			d.bezier = dto.bezier.Clone()
		}
	}
	return d
}

// IsStart reports whether this is the starting end.
func (d *TieData) IsStart() bool { return d.start }

// TieNumber returns the tie number.
func (d *TieData) TieNumber() int { return d.tieNum }

// Bezier returns the user curve or nil.
func (d *TieData) Bezier() *BezierInfo { return d.bezier }

// Tie joins two notes of the same pitch.
type Tie struct {
	relBase
	tieNum int
}

// NewTie returns an empty tie.
func NewTie() *Tie {
	t := &Tie{}
	t.initRel(t, KindTie)
	return t
}

// TieNumber returns the tie number.
func (t *Tie) TieNumber() int { return t.tieNum }

// SetTieNumber sets the tie number.
func (t *Tie) SetTieNumber(n int) { t.tieNum = n }

// StartNote returns the first note or nil.
func (t *Tie) StartNote() *Note {
	n, _ := t.StartObject().(*Note)
	return n
}

// EndNote returns the last note or nil.
func (t *Tie) EndNote() *Note {
	n, _ := t.EndObject().(*Note)
	return n
}

// StartBezier returns the curve stored with the start note, or nil.
func (t *Tie) StartBezier() *BezierInfo {
	if d, ok := t.StartData().(*TieData); ok {
		return d.bezier
	}
	return nil
}

// StopBezier returns the curve stored with the end note, or nil.
func (t *Tie) StopBezier() *BezierInfo {
	if d, ok := t.EndData().(*TieData); ok {
		return d.bezier
	}
	return nil
}

// -----------------------------------------------------------------------------
// Slur
// -----------------------------------------------------------------------------

// SlurType marks the role of a note in a slur.
type SlurType int

// Slur types.
const (
	SlurStart SlurType = iota
	SlurContinue
	SlurStop
)

var slurTypeNames = []string{"start", "continue", "stop"}

func (s SlurType) String() string {
	if s < 0 || int(s) >= len(slurTypeNames) {
		return ""
	}
	return slurTypeNames[s]
}

// ParseSlurType maps "start", "continue" and "stop" to slur types.
func ParseSlurType(s string) (SlurType, bool) {
	for i, name := range slurTypeNames {
		if name == s {
			return SlurType(i), true
		}
	}
	return SlurStart, false
}

// SlurDto carries a slur mark read from source text.
type SlurDto struct {
	simpleBase
	slurType   SlurType
	slurNum    int
	note       *Note
	bezier     *BezierInfo
	color      Color
	lineNumber int
}

// NewSlurDto returns an empty slur start.
func NewSlurDto() *SlurDto {
	d := &SlurDto{color: Black}
	d.init(d, KindSlurDto)
	return d
}

// SlurType returns the slur type.
func (d *SlurDto) SlurType() SlurType { return d.slurType }

// SetSlurType sets the slur type.
func (d *SlurDto) SetSlurType(t SlurType) { d.slurType = t }

// SlurNumber returns the number pairing start and stop.
func (d *SlurDto) SlurNumber() int { return d.slurNum }

// SetSlurNumber sets the slur number.
func (d *SlurDto) SetSlurNumber(n int) { d.slurNum = n }

// Note returns the note that carries the mark.
func (d *SlurDto) Note() *Note { return d.note }

// SetNote sets the note that carries the mark.
func (d *SlurDto) SetNote(n *Note) { d.note = n }

// Bezier returns the user curve or nil.
func (d *SlurDto) Bezier() *BezierInfo { return d.bezier }

// SetBezier takes ownership of b.
func (d *SlurDto) SetBezier(b *BezierInfo) { d.bezier = b }

// Color returns the slur color.
func (d *SlurDto) Color() Color { return d.color }

// SetColor sets the slur color.
func (d *SlurDto) SetColor(c Color) { d.color = c }

// LineNumber returns the source line, 0 when unknown.
func (d *SlurDto) LineNumber() int { return d.lineNumber }

// SetLineNumber records the source line.
func (d *SlurDto) SetLineNumber(n int) { d.lineNumber = n }

// SlurData is the per-note side of a slur.
type SlurData struct {
	relDataBase
	slurType SlurType
	slurNum  int
	bezier   *BezierInfo
	color    Color
}

// NewSlurData copies type, number, curve and color from dto.
func NewSlurData(dto *SlurDto) *SlurData {
	d := &SlurData{color: Black}
	d.init(d, KindSlurData)
	if dto != nil {
		d.slurType = dto.slurType
		d.slurNum = dto.slurNum
		d.color = dto.color
		if dto.bezier != nil {
			d.bezier = dto.bezier.Clone()
		}
	}
	return d
}

// SlurType returns the slur type.
func (d *SlurData) SlurType() SlurType { return d.slurType }

// SlurNumber returns the slur number.
func (d *SlurData) SlurNumber() int { return d.slurNum }

// Bezier returns the user curve or nil.
func (d *SlurData) Bezier() *BezierInfo { return d.bezier }

// Color returns the slur color.
func (d *SlurData) Color() Color { return d.color }

// Slur joins a start and an end note.
type Slur struct {
	relBase
	slurNum int
}

// NewSlur returns an empty slur.
func NewSlur() *Slur {
	s := &Slur{}
	s.initRel(s, KindSlur)
	return s
}

// SlurNumber returns the slur number.
func (s *Slur) SlurNumber() int { return s.slurNum }

// SetSlurNumber sets the slur number.
func (s *Slur) SetSlurNumber(n int) { s.slurNum = n }

// StartNote returns the first note or nil.
func (s *Slur) StartNote() *Note {
	n, _ := s.StartObject().(*Note)
	return n
}

// EndNote returns the last note or nil.
func (s *Slur) EndNote() *Note {
	n, _ := s.EndObject().(*Note)
	return n
}

// -----------------------------------------------------------------------------
// Beam
// -----------------------------------------------------------------------------

// BeamType is the role of a note in one beam level.
type BeamType int

// Beam types.
const (
	BeamNone BeamType = iota
	BeamBegin
	BeamContinue
	BeamEnd
	BeamForward
	BeamBackward
)

// BeamLevels is the number of beam levels tracked per note (eighths to
// 256ths).
const BeamLevels = 6

var beamSegmentSigns = map[byte]BeamType{
	'+': BeamBegin,
	'=': BeamContinue,
	'-': BeamEnd,
	'f': BeamForward,
	'b': BeamBackward,
}

// BeamSign returns the LDP segment sign of t, or 0 for BeamNone.
func BeamSign(t BeamType) byte {
	for sign, v := range beamSegmentSigns {
		if v == t {
			return sign
		}
	}
	return 0
}

type beamLevels struct {
	beamType [BeamLevels]BeamType
	repeat   [BeamLevels]bool
}

// BeamType returns the beam type at level.
func (b *beamLevels) BeamType(level int) BeamType { return b.beamType[level] }

// Repeat returns the repeat flag at level.
func (b *beamLevels) Repeat(level int) bool { return b.repeat[level] }

// IsStartOfBeam reports whether at least one level begins and no level
// continues or ends.
func (b *beamLevels) IsStartOfBeam() bool {
	start := false
	for _, t := range b.beamType {
		if t == BeamEnd || t == BeamContinue {
			return false
		}
		if t != BeamNone {
			start = true
		}
	}
	return start
}

// IsEndOfBeam reports whether no level begins, continues or hooks
// forward.
func (b *beamLevels) IsEndOfBeam() bool {
	for _, t := range b.beamType {
		if t == BeamBegin || t == BeamForward || t == BeamContinue {
			return false
		}
	}
	return true
}

// Segments returns the LDP segment string, e.g. "+=", up to the last
// level that is not BeamNone.
func (b *beamLevels) Segments() string {
	last := -1
	for i, t := range b.beamType {
		if t != BeamNone {
			last = i
		}
	}
	buf := make([]byte, 0, last+1)
	for i := 0; i <= last; i++ {
		buf = append(buf, BeamSign(b.beamType[i]))
	}
	return string(buf)
}

// BeamDto carries the beam marks of one note or rest.
type BeamDto struct {
	simpleBase
	beamLevels
	beamNum    int
	noteRest   NoteRest
	lineNumber int
}

// NewBeamDto returns a dto with no beam at any level.
func NewBeamDto() *BeamDto {
	d := &BeamDto{}
	d.init(d, KindBeamDto)
	return d
}

// SetBeamType sets the beam type at level.
func (d *BeamDto) SetBeamType(level int, t BeamType) { d.beamType[level] = t }

// SetRepeat sets the repeat flag at level.
func (d *BeamDto) SetRepeat(level int, v bool) { d.repeat[level] = v }

// SetBeamTypeFromSegments sets one level per character of segments
// ("+=-fb"). Strings longer than six levels are ignored, and parsing
// stops at the first unknown character, keeping the levels set so far.
func (d *BeamDto) SetBeamTypeFromSegments(segments string) bool {
	if len(segments) > BeamLevels {
		return false
	}
	for i := 0; i < len(segments); i++ {
		t, ok := beamSegmentSigns[segments[i]]
		if !ok {
			return false
		}
		d.beamType[i] = t
	}
	return true
}

// BeamNumber returns the number identifying the beam.
func (d *BeamDto) BeamNumber() int { return d.beamNum }

// SetBeamNumber sets the beam number.
func (d *BeamDto) SetBeamNumber(n int) { d.beamNum = n }

// NoteRest returns the note or rest carrying the marks.
func (d *BeamDto) NoteRest() NoteRest { return d.noteRest }

// SetNoteRest sets the note or rest carrying the marks.
func (d *BeamDto) SetNoteRest(nr NoteRest) { d.noteRest = nr }

// LineNumber returns the source line, 0 when unknown.
func (d *BeamDto) LineNumber() int { return d.lineNumber }

// SetLineNumber records the source line.
func (d *BeamDto) SetLineNumber(n int) { d.lineNumber = n }

// BeamData is the per-note side of a beam.
type BeamData struct {
	relDataBase
	beamLevels
	beamNum int
}

// NewBeamData copies the levels of dto.
func NewBeamData(dto *BeamDto) *BeamData {
	d := &BeamData{}
	d.init(d, KindBeamData)
	if dto != nil {
		d.beamLevels = dto.beamLevels
		d.beamNum = dto.beamNum
	}
	return d
}

// BeamNumber returns the beam number.
func (d *BeamData) BeamNumber() int { return d.beamNum }

// Beam groups notes and rests under common beams.
type Beam struct {
	relBase
}

// NewBeam returns an empty beam.
func NewBeam() *Beam {
	b := &Beam{}
	b.initRel(b, KindBeam)
	return b
}

// NotesRests returns the beamed notes and rests in order.
func (b *Beam) NotesRests() []NoteRest {
	res := make([]NoteRest, 0, len(b.related))
	for _, p := range b.related {
		if nr, ok := p.Object.(NoteRest); ok {
			res = append(res, nr)
		}
	}
	return res
}

// Data returns the beam data of every participant in order.
func (b *Beam) Data() []*BeamData {
	res := make([]*BeamData, 0, len(b.related))
	for _, p := range b.related {
		if d, ok := p.Data.(*BeamData); ok {
			res = append(res, d)
		}
	}
	return res
}

// -----------------------------------------------------------------------------
// Tuplet
// -----------------------------------------------------------------------------

// TupletType marks the role of a note in a tuplet.
type TupletType int

// Tuplet types.
const (
	TupletUnknown TupletType = iota
	TupletStart
	TupletContinue
	TupletStop
)

// YesNo is a three state flag.
type YesNo int

// YesNo values.
const (
	YesNoDefault YesNo = iota
	Yes
	No
)

// TupletNumber tells which numbers a tuplet shows.
type TupletNumber int

// Tuplet number display.
const (
	NumberActual TupletNumber = iota
	NumberBoth
	NumberNone
)

// TupletDto carries a tuplet mark read from source text.
type TupletDto struct {
	simpleBase
	tupletType  TupletType
	actual      int
	normal      int
	showBracket YesNo
	placement   Placement
	showNumber  TupletNumber
	noteRest    NoteRest
	lineNumber  int
}

// NewTupletDto returns a dto of unknown type.
func NewTupletDto() *TupletDto {
	d := &TupletDto{}
	d.init(d, KindTupletDto)
	return d
}

// TupletType returns the tuplet type.
func (d *TupletDto) TupletType() TupletType { return d.tupletType }

// SetTupletType sets the tuplet type.
func (d *TupletDto) SetTupletType(t TupletType) { d.tupletType = t }

// IsStartOfTuplet reports whether the mark opens a tuplet.
func (d *TupletDto) IsStartOfTuplet() bool { return d.tupletType == TupletStart }

// IsEndOfTuplet reports whether the mark closes a tuplet.
func (d *TupletDto) IsEndOfTuplet() bool { return d.tupletType == TupletStop }

// ActualNumber returns the number of notes played.
func (d *TupletDto) ActualNumber() int { return d.actual }

// NormalNumber returns the number of notes replaced.
func (d *TupletDto) NormalNumber() int { return d.normal }

// SetNumbers sets actual and normal numbers.
func (d *TupletDto) SetNumbers(actual, normal int) { d.actual, d.normal = actual, normal }

// ShowBracket returns the bracket flag.
func (d *TupletDto) ShowBracket() YesNo { return d.showBracket }

// SetShowBracket sets the bracket flag.
func (d *TupletDto) SetShowBracket(v YesNo) { d.showBracket = v }

// Placement returns the tuplet placement.
func (d *TupletDto) Placement() Placement { return d.placement }

// SetPlacement sets the tuplet placement.
func (d *TupletDto) SetPlacement(p Placement) { d.placement = p }

// ShowNumber returns the number display.
func (d *TupletDto) ShowNumber() TupletNumber { return d.showNumber }

// SetShowNumber sets the number display.
func (d *TupletDto) SetShowNumber(n TupletNumber) { d.showNumber = n }

// NoteRest returns the note or rest carrying the mark.
func (d *TupletDto) NoteRest() NoteRest { return d.noteRest }

// SetNoteRest sets the note or rest carrying the mark.
func (d *TupletDto) SetNoteRest(nr NoteRest) { d.noteRest = nr }

// LineNumber returns the source line, 0 when unknown.
func (d *TupletDto) LineNumber() int { return d.lineNumber }

// SetLineNumber records the source line.
func (d *TupletDto) SetLineNumber(n int) { d.lineNumber = n }

// TupletData is the per-note side of a tuplet. It carries no state.
type TupletData struct {
	relDataBase
}

// NewTupletData returns tuplet data.
func NewTupletData(*TupletDto) *TupletData {
	d := &TupletData{}
	d.init(d, KindTupletData)
	return d
}

// Tuplet groups notes played in a different ratio.
type Tuplet struct {
	relBase
	actual      int
	normal      int
	showBracket YesNo
	showNumber  TupletNumber
	placement   Placement
}

// NewTuplet builds a tuplet from its starting dto. A nil dto gives a 0:0
// tuplet.
func NewTuplet(dto *TupletDto) *Tuplet {
	t := &Tuplet{}
	t.initRel(t, KindTuplet)
	if dto != nil {
		t.actual = dto.actual
		t.normal = dto.normal
		t.showBracket = dto.showBracket
		t.showNumber = dto.showNumber
		t.placement = dto.placement
	}
	return t
}

// ActualNumber returns the number of notes played.
func (t *Tuplet) ActualNumber() int { return t.actual }

// NormalNumber returns the number of notes replaced.
func (t *Tuplet) NormalNumber() int { return t.normal }

// ShowBracket returns the bracket flag.
func (t *Tuplet) ShowBracket() YesNo { return t.showBracket }

// ShowNumber returns the number display.
func (t *Tuplet) ShowNumber() TupletNumber { return t.showNumber }

// Placement returns the placement.
func (t *Tuplet) Placement() Placement { return t.placement }

// NotesRests returns the tuplet members in order.
func (t *Tuplet) NotesRests() []NoteRest {
	res := make([]NoteRest, 0, len(t.related))
	for _, p := range t.related {
		if nr, ok := p.Object.(NoteRest); ok {
			res = append(res, nr)
		}
	}
	return res
}

// -----------------------------------------------------------------------------
// Chord
// -----------------------------------------------------------------------------

// Chord groups notes sounding together. Chord notes stay in music data;
// the chord only relates them.
type Chord struct {
	relBase
}

// NewChord returns an empty chord.
func NewChord() *Chord {
	c := &Chord{}
	c.initRel(c, KindChord)
	return c
}

// Notes returns the chord notes in insertion order.
func (c *Chord) Notes() []*Note {
	res := make([]*Note, 0, len(c.related))
	for _, p := range c.related {
		if n, ok := p.Object.(*Note); ok {
			res = append(res, n)
		}
	}
	return res
}

// StartNote returns the first note or nil.
func (c *Chord) StartNote() *Note {
	n, _ := c.StartObject().(*Note)
	return n
}

// EndNote returns the last note or nil.
func (c *Chord) EndNote() *Note {
	n, _ := c.EndObject().(*Note)
	return n
}
