package imo

type containerBase struct {
	contentBase
}

// Instrument is one part of a score: its staves, MIDI settings, names
// and the music data child.
type Instrument struct {
	containerBase
	name   TextInfo
	abbrev TextInfo
	midi   Midi
	staves []*StaffInfo
	group  *InstrGroup
}

// NewInstrument returns an instrument with one default staff.
func NewInstrument() *Instrument {
	in := &Instrument{}
	in.initContent(in, KindInstrument)
	in.AddStaff()
	return in
}

// AddStaff appends a default staff.
func (in *Instrument) AddStaff() {
	s := NewStaffInfo()
	s.Number = len(in.staves)
	in.staves = append(in.staves, s)
}

// SetNumStaves adds default staves until the instrument has n.
func (in *Instrument) SetNumStaves(n int) {
	for len(in.staves) < n {
		in.AddStaff()
	}
}

// NumStaves returns the number of staves.
func (in *Instrument) NumStaves() int { return len(in.staves) }

// Staff returns staff i or nil.
func (in *Instrument) Staff(i int) *StaffInfo {
	if i < 0 || i >= len(in.staves) {
		return nil
	}
	return in.staves[i]
}

// LineSpacingForStaff returns the line spacing of staff i, or the default
// spacing when the staff does not exist.
func (in *Instrument) LineSpacingForStaff(i int) LUnits {
	if s := in.Staff(i); s != nil {
		return s.LineSpacing
	}
	return DefaultStaffLayout(i).LineSpacing
}

// ReplaceStaffInfo stores a copy of info in place of the staff with the
// same number and deletes info. Unknown staff numbers leave the staves
// unchanged.
func (in *Instrument) ReplaceStaffInfo(info *StaffInfo) {
	if i := info.Number; i >= 0 && i < len(in.staves) {
		old := in.staves[i]
		in.staves[i] = info.Clone()
		Delete(old)
	}
	Delete(info)
}

// Name returns the instrument name.
func (in *Instrument) Name() string { return in.name.Text }

// NameInfo returns the instrument name with its style.
func (in *Instrument) NameInfo() TextInfo { return in.name }

// SetName copies the text of t and deletes t.
func (in *Instrument) SetName(t *ScoreText) {
	in.name = t.Info()
	Delete(t)
}

// Abbrev returns the instrument abbreviation.
func (in *Instrument) Abbrev() string { return in.abbrev.Text }

// AbbrevInfo returns the abbreviation with its style.
func (in *Instrument) AbbrevInfo() TextInfo { return in.abbrev }

// SetAbbrev copies the text of t and deletes t.
func (in *Instrument) SetAbbrev(t *ScoreText) {
	in.abbrev = t.Info()
	Delete(t)
}

// Midi returns the MIDI settings.
func (in *Instrument) Midi() Midi { return in.midi }

// SetMidiInfo copies the MIDI settings of info and deletes info.
func (in *Instrument) SetMidiInfo(info *MidiInfo) {
	in.midi = info.Midi
	Delete(info)
}

// MusicData returns the music data child or nil.
func (in *Instrument) MusicData() *MusicData {
	m, _ := in.ChildOfType(KindMusicData).(*MusicData)
	return m
}

// Group returns the group the instrument belongs to, or nil.
func (in *Instrument) Group() *InstrGroup { return in.group }

// IsInGroup reports whether the instrument belongs to a group.
func (in *Instrument) IsInGroup() bool { return in.group != nil }

func (in *Instrument) beforeDelete() {
	if in.group != nil {
		in.group.removeInstrument(in)
		in.group = nil
	}
}

// MusicData holds the staff objects of an instrument in source order.
type MusicData struct {
	collection
}

// NewMusicData returns empty music data.
func NewMusicData() *MusicData {
	m := &MusicData{}
	m.init(m, KindMusicData)
	return m
}

// StaffObjs returns the staff objects in order.
func (m *MusicData) StaffObjs() []StaffObj {
	res := make([]StaffObj, 0, len(m.children))
	for _, c := range m.children {
		if so, ok := c.(StaffObj); ok {
			res = append(res, so)
		}
	}
	return res
}

// Instruments is the collection of score instruments.
type Instruments struct {
	collection
}

func newInstruments() *Instruments {
	in := &Instruments{}
	in.init(in, KindInstruments)
	return in
}

// GroupSymbol is the symbol drawn at the left of a group.
type GroupSymbol int

// Group symbols.
const (
	GroupSymbolNone GroupSymbol = iota
	GroupSymbolBrace
	GroupSymbolBracket
	GroupSymbolLine
)

var groupSymbolNames = []string{"none", "brace", "bracket", "line"}

func (g GroupSymbol) String() string {
	if g < 0 || int(g) >= len(groupSymbolNames) {
		return "none"
	}
	return groupSymbolNames[g]
}

// ParseGroupSymbol maps an LDP symbol name to a group symbol.
func ParseGroupSymbol(s string) (GroupSymbol, bool) {
	for i, name := range groupSymbolNames {
		if name == s {
			return GroupSymbol(i), true
		}
	}
	return GroupSymbolNone, false
}

// InstrGroup groups instruments under a common symbol. It references its
// instruments without owning them: they are children of the score
// Instruments collection.
type InstrGroup struct {
	simpleBase
	name         TextInfo
	abbrev       TextInfo
	symbol       GroupSymbol
	joinBarlines bool
	instruments  []*Instrument
}

// NewInstrGroup returns an empty braced group with joined barlines.
func NewInstrGroup() *InstrGroup {
	g := &InstrGroup{symbol: GroupSymbolBrace, joinBarlines: true}
	g.init(g, KindInstrGroup)
	return g
}

// AddInstrument references in from the group.
func (g *InstrGroup) AddInstrument(in *Instrument) {
	g.instruments = append(g.instruments, in)
	in.group = g
}

// Instrument returns instrument i or nil.
func (g *InstrGroup) Instrument(i int) *Instrument {
	if i < 0 || i >= len(g.instruments) {
		return nil
	}
	return g.instruments[i]
}

// NumInstruments returns the number of grouped instruments.
func (g *InstrGroup) NumInstruments() int { return len(g.instruments) }

// Instruments returns a copy of the grouped instruments.
func (g *InstrGroup) Instruments() []*Instrument {
	res := make([]*Instrument, len(g.instruments))
	copy(res, g.instruments)
	return res
}

// Name returns the group name.
func (g *InstrGroup) Name() string { return g.name.Text }

// SetName copies the text of t and deletes t.
func (g *InstrGroup) SetName(t *ScoreText) {
	g.name = t.Info()
	Delete(t)
}

// Abbrev returns the group abbreviation.
func (g *InstrGroup) Abbrev() string { return g.abbrev.Text }

// SetAbbrev copies the text of t and deletes t.
func (g *InstrGroup) SetAbbrev(t *ScoreText) {
	g.abbrev = t.Info()
	Delete(t)
}

// Symbol returns the group symbol.
func (g *InstrGroup) Symbol() GroupSymbol { return g.symbol }

// SetSymbol sets the group symbol.
func (g *InstrGroup) SetSymbol(s GroupSymbol) { g.symbol = s }

// JoinBarlines reports whether barlines cross the whole group.
func (g *InstrGroup) JoinBarlines() bool { return g.joinBarlines }

// SetJoinBarlines sets the join flag.
func (g *InstrGroup) SetJoinBarlines(v bool) { g.joinBarlines = v }

func (g *InstrGroup) removeInstrument(in *Instrument) {
	for i, x := range g.instruments {
		if x == in {
			g.instruments = append(g.instruments[:i], g.instruments[i+1:]...)
			return
		}
	}
}

func (g *InstrGroup) beforeDelete() {
	for _, in := range g.instruments {
		if in.group == g {
			in.group = nil
		}
	}
	g.instruments = nil
}

// InstrGroups is the collection of instrument groups of a score.
type InstrGroups struct {
	collection
}

func newInstrGroups() *InstrGroups {
	g := &InstrGroups{}
	g.init(g, KindInstrGroups)
	return g
}

// Groups returns the groups in order.
func (gs *InstrGroups) Groups() []*InstrGroup {
	res := make([]*InstrGroup, 0, len(gs.children))
	for _, c := range gs.children {
		if g, ok := c.(*InstrGroup); ok {
			res = append(res, g)
		}
	}
	return res
}
