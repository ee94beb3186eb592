package imo

import "sort"

// SpacingMethod selects how notes are spaced horizontally.
type SpacingMethod int64

// Spacing methods.
const (
	SpacingFixed SpacingMethod = iota
	SpacingProportional
)

// Default option names.
const (
	OptFillPageWithEmptyStaves     = "Score.FillPageWithEmptyStaves"
	OptStopStaffLinesAtFinalBar    = "StaffLines.StopAtFinalBarline"
	OptJustifyFinalBarline         = "Score.JustifyFinalBarline"
	OptHideStaffLines              = "StaffLines.Hide"
	OptDrawLeftBarline             = "Staff.DrawLeftBarline"
	OptUpperLegerLinesDisplacement = "Staff.UpperLegerLines.Displacement"
	OptSpacingMethod               = "Render.SpacingMethod"
	OptSpacingValue                = "Render.SpacingValue"
	OptSpacingFactor               = "Render.SpacingFactor"
)

var defaultBoolOptions = []struct {
	name  string
	value bool
}{
	{OptFillPageWithEmptyStaves, false},
	{OptStopStaffLinesAtFinalBar, true},
	{OptJustifyFinalBarline, false},
	{OptHideStaffLines, false},
	{OptDrawLeftBarline, true},
}

var defaultLongOptions = []struct {
	name  string
	value int64
}{
	{OptUpperLegerLinesDisplacement, 0},
	{OptSpacingMethod, int64(SpacingProportional)},
	{OptSpacingValue, 15},
}

// A quarter note (64 duration units) is mapped to 35 tenths.
var defaultFloatOptions = []struct {
	name  string
	value float64
}{
	{OptSpacingFactor, 0.547},
}

// Required text style names.
const (
	StyleTupletNumbers   = "Tuplet numbers"
	StyleInstrumentNames = "Instrument names"
)

type boxBase struct {
	contentBase
}

// Score is a music score. Options and Instruments are created with the
// score; InstrGroups appears with the first group. System and page
// layouts and the style map live outside the tree.
type Score struct {
	boxBase
	version     string
	systemFirst SystemLayout
	systemOther SystemLayout
	page        PageLayout
	titles      []*ScoreTitle
	styles      map[string]*TextStyleInfo
}

// NewScore returns a score with the default options and layouts.
func NewScore() *Score {
	s := &Score{
		page:   DefaultPageLayout(),
		styles: make(map[string]*TextStyleInfo),
	}
	s.initContent(s, KindScore)
	s.AppendChild(newOptions())
	s.AppendChild(newInstruments())
	s.setDefaultSystemLayouts()
	s.setDefaultOptions()
	return s
}

func (s *Score) setDefaultSystemLayouts() {
	s.systemFirst = SystemLayout{First: true, TopSystemDistance: 1000, SystemDistance: 2000}
	s.systemOther = SystemLayout{First: false, TopSystemDistance: 1500, SystemDistance: 2000}
}

func (s *Score) setDefaultOptions() {
	for _, o := range defaultBoolOptions {
		s.AddOption(NewBoolOption(o.name, o.value))
	}
	for _, o := range defaultLongOptions {
		s.AddOption(NewLongOption(o.name, o.value))
	}
	for _, o := range defaultFloatOptions {
		s.AddOption(NewFloatOption(o.name, o.value))
	}
}

// Version returns the source format version.
func (s *Score) Version() string { return s.version }

// SetVersion sets the source format version.
func (s *Score) SetVersion(v string) { s.version = v }

// Options returns the options collection.
func (s *Score) Options() *Options {
	o, _ := s.ChildOfType(KindOptions).(*Options)
	return o
}

// HasOptions reports whether at least one option is defined.
func (s *Score) HasOptions() bool { return s.Options().NumChildren() > 0 }

// AddOption appends opt without checking for duplicates.
func (s *Score) AddOption(opt *OptionInfo) { s.Options().AppendChild(opt) }

// Option returns the option with the given name, or nil.
func (s *Score) Option(name string) *OptionInfo {
	for _, c := range s.Options().children {
		if o, ok := c.(*OptionInfo); ok && o.name == name {
			return o
		}
	}
	return nil
}

// SetOption merges opt into the option table by name. An existing option
// keeps its registered type and takes opt's value converted to it; when
// the value cannot be converted the option is left unchanged and false is
// returned. An unknown name creates a new option of opt's type. opt
// itself is not retained.
func (s *Score) SetOption(opt *OptionInfo) bool {
	if o := s.Option(opt.name); o != nil {
		return o.Assign(opt)
	}
	o := NewOptionInfo(opt.name)
	o.Type = opt.Type
	o.Assign(opt)
	s.AddOption(o)
	return true
}

// SetBoolOption overwrites or creates a boolean option.
func (s *Score) SetBoolOption(name string, v bool) bool {
	return s.SetOption(NewBoolOption(name, v))
}

// SetLongOption overwrites or creates an integer option.
func (s *Score) SetLongOption(name string, v int64) bool {
	return s.SetOption(NewLongOption(name, v))
}

// SetFloatOption overwrites or creates a float option.
func (s *Score) SetFloatOption(name string, v float64) bool {
	return s.SetOption(NewFloatOption(name, v))
}

// SetStringOption overwrites or creates a string option.
func (s *Score) SetStringOption(name, v string) bool {
	o := NewOptionInfo(name)
	o.Text = v
	return s.SetOption(o)
}

// Instruments returns the instruments collection.
func (s *Score) Instruments() *Instruments {
	in, _ := s.ChildOfType(KindInstruments).(*Instruments)
	return in
}

// Instrument returns instrument i or nil.
func (s *Score) Instrument(i int) *Instrument {
	in, _ := s.Instruments().Child(i).(*Instrument)
	return in
}

// NumInstruments returns the number of instruments.
func (s *Score) NumInstruments() int { return s.Instruments().NumChildren() }

// AddInstrument appends in to the instruments collection.
func (s *Score) AddInstrument(in *Instrument) { s.Instruments().AppendChild(in) }

// InstrumentGroups returns the groups collection, or nil when no group
// has been added.
func (s *Score) InstrumentGroups() *InstrGroups {
	g, _ := s.ChildOfType(KindInstrGroups).(*InstrGroups)
	return g
}

// AddInstrumentsGroup registers g and appends each of its instruments to
// the instruments collection.
func (s *Score) AddInstrumentsGroup(g *InstrGroup) {
	groups := s.InstrumentGroups()
	if groups == nil {
		groups = newInstrGroups()
		s.AppendChild(groups)
	}
	groups.AppendChild(g)
	for _, in := range g.instruments {
		s.AddInstrument(in)
	}
}

// AddTitle appends t as a child and records it as a title.
func (s *Score) AddTitle(t *ScoreTitle) {
	s.titles = append(s.titles, t)
	s.AppendChild(t)
}

// Titles returns the titles in order. Deleted titles are skipped.
func (s *Score) Titles() []*ScoreTitle {
	res := make([]*ScoreTitle, 0, len(s.titles))
	for _, t := range s.titles {
		if !t.IsDeleted() {
			res = append(res, t)
		}
	}
	return res
}

// AddSystemInfo copies si into the first or other system layout
// according to its First flag.
func (s *Score) AddSystemInfo(si *SystemInfo) {
	if si.First {
		s.systemFirst = si.SystemLayout
	} else {
		s.systemOther = si.SystemLayout
	}
}

// FirstSystemLayout returns the layout of the first system.
func (s *Score) FirstSystemLayout() SystemLayout { return s.systemFirst }

// OtherSystemLayout returns the layout of the other systems.
func (s *Score) OtherSystemLayout() SystemLayout { return s.systemOther }

// AddPageInfo copies the layout of pi.
func (s *Score) AddPageInfo(pi *PageInfo) { s.page = pi.PageLayout }

// PageLayout returns the page layout.
func (s *Score) PageLayout() PageLayout { return s.page }

// AddStyleInfo transfers st to the style map, replacing any style with
// the same name.
func (s *Score) AddStyleInfo(st *TextStyleInfo) {
	if old, ok := s.styles[st.name]; ok && old != st && !old.IsDeleted() {
		Delete(old)
	}
	s.styles[st.name] = st
}

// StyleInfo returns the style with the given name, or nil.
func (s *Score) StyleInfo(name string) *TextStyleInfo { return s.styles[name] }

// StyleInfoOrDefaults returns the named style or the default style.
func (s *Score) StyleInfoOrDefaults(name string) *TextStyleInfo {
	if st := s.StyleInfo(name); st != nil {
		return st
	}
	return s.DefaultStyleInfo()
}

// DefaultStyleInfo returns the default style, creating it on first use.
func (s *Score) DefaultStyleInfo() *TextStyleInfo {
	if st := s.StyleInfo(DefaultStyleName); st != nil {
		return st
	}
	st := NewTextStyleInfo()
	s.styles[st.name] = st
	return st
}

// StyleNames returns the names in the style map, sorted.
func (s *Score) StyleNames() []string {
	names := make([]string, 0, len(s.styles))
	for n := range s.styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AddRequiredTextStyles defines the styles used by tuplet numbers and
// instrument names unless the source already did.
func (s *Score) AddRequiredTextStyles() {
	if s.StyleInfo(StyleTupletNumbers) == nil {
		s.AddStyleInfo(NewNamedTextStyle(StyleTupletNumbers, "Liberation serif", 11,
			FontStyleItalic, FontWeightNormal))
	}
	if s.StyleInfo(StyleInstrumentNames) == nil {
		s.AddStyleInfo(NewNamedTextStyle(StyleInstrumentNames, "Liberation serif", 14,
			FontStyleNormal, FontWeightNormal))
	}
}

func (s *Score) beforeDelete() {
	for _, st := range s.styles {
		if !st.IsDeleted() {
			Delete(st)
		}
	}
	s.styles = nil
	s.titles = nil
}
