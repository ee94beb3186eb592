package imo

import (
	"math"
	"strconv"
)

// PageLayout is the page geometry in logical units.
type PageLayout struct {
	LeftMargin    LUnits
	RightMargin   LUnits
	TopMargin     LUnits
	BottomMargin  LUnits
	BindingMargin LUnits
	Width         LUnits
	Height        LUnits
	Portrait      bool
}

// DefaultPageLayout returns DIN A4 portrait with the default margins.
func DefaultPageLayout() PageLayout {
	return PageLayout{
		LeftMargin:    1500,
		RightMargin:   1500,
		TopMargin:     2000,
		BottomMargin:  2000,
		BindingMargin: 0,
		Width:         21000,
		Height:        29700,
		Portrait:      true,
	}
}

// PageInfo carries a page layout read from source text. It is copied into
// a score or document by the linker.
type PageInfo struct {
	simpleBase
	PageLayout
}

// NewPageInfo returns a page info with the default layout.
func NewPageInfo() *PageInfo {
	p := &PageInfo{PageLayout: DefaultPageLayout()}
	p.init(p, KindPageInfo)
	return p
}

// SystemLayout holds the margins and distances of a system.
type SystemLayout struct {
	First             bool
	LeftMargin        LUnits
	RightMargin       LUnits
	SystemDistance    LUnits
	TopSystemDistance LUnits
}

// SystemInfo carries a system layout read from source text.
type SystemInfo struct {
	simpleBase
	SystemLayout
}

// NewSystemInfo returns a first-system info with zero distances.
func NewSystemInfo() *SystemInfo {
	s := &SystemInfo{SystemLayout: SystemLayout{First: true}}
	s.init(s, KindSystemInfo)
	return s
}

// Midi holds the MIDI settings of an instrument.
type Midi struct {
	Instrument int
	Channel    int
}

// MidiInfo carries MIDI settings read from source text.
type MidiInfo struct {
	simpleBase
	Midi
}

// NewMidiInfo returns MIDI instrument 0 on channel 0.
func NewMidiInfo() *MidiInfo {
	m := &MidiInfo{}
	m.init(m, KindMidiInfo)
	return m
}

// StaffLayout describes one staff of an instrument.
type StaffLayout struct {
	Number        int
	Lines         int
	LineSpacing   LUnits
	LineThickness LUnits
	Margin        LUnits
}

// DefaultStaffLayout returns a five line staff with the given number.
func DefaultStaffLayout(number int) StaffLayout {
	return StaffLayout{
		Number:        number,
		Lines:         5,
		LineSpacing:   180,
		LineThickness: 15,
		Margin:        1000,
	}
}

// StaffInfo carries a staff layout. Instruments keep their staves as
// StaffInfo values outside the tree.
type StaffInfo struct {
	simpleBase
	StaffLayout
}

// NewStaffInfo returns staff 0 with the default layout.
func NewStaffInfo() *StaffInfo {
	s := &StaffInfo{StaffLayout: DefaultStaffLayout(0)}
	s.init(s, KindStaffInfo)
	return s
}

// Clone returns a new node with the same layout.
func (s *StaffInfo) Clone() *StaffInfo {
	c := NewStaffInfo()
	c.StaffLayout = s.StaffLayout
	return c
}

// CursorState is the saved edition cursor of a document.
type CursorState struct {
	Instrument int
	Staff      int
	Time       float64
	ObjectID   ID
}

// CursorInfo carries a cursor state read from source text.
type CursorInfo struct {
	simpleBase
	CursorState
}

// NewCursorInfo returns a cursor at the start of the first instrument.
func NewCursorInfo() *CursorInfo {
	c := &CursorInfo{CursorState: CursorState{ObjectID: NoID}}
	c.init(c, KindCursorInfo)
	return c
}

// FontStyle is normal or italic.
type FontStyle int

// Font styles.
const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// FontWeight is normal or bold.
type FontWeight int

// Font weights.
const (
	FontWeightNormal FontWeight = iota
	FontWeightBold
)

// Font describes a font.
type Font struct {
	Name   string
	Size   float64
	Style  FontStyle
	Weight FontWeight
}

// FontInfo carries a font read from source text. The linker copies it
// into a text style.
type FontInfo struct {
	simpleBase
	Font
}

// NewFontInfo returns an empty font.
func NewFontInfo() *FontInfo {
	f := &FontInfo{}
	f.init(f, KindFontInfo)
	return f
}

// DefaultStyleName is the name of the fallback text style.
const DefaultStyleName = "Default style"

// TextStyleInfo is a named text style. Styles are owned by the style map
// of a score or of the document Styles node, never by the tree.
type TextStyleInfo struct {
	simpleBase
	name  string
	Font  Font
	Color Color
}

// NewTextStyleInfo returns the default style: Liberation serif 12.
func NewTextStyleInfo() *TextStyleInfo {
	return NewNamedTextStyle(DefaultStyleName, "Liberation serif", 12, FontStyleNormal, FontWeightNormal)
}

// NewNamedTextStyle returns a black style with the given font.
func NewNamedTextStyle(name, font string, size float64, style FontStyle, weight FontWeight) *TextStyleInfo {
	s := &TextStyleInfo{
		name:  name,
		Font:  Font{Name: font, Size: size, Style: style, Weight: weight},
		Color: Black,
	}
	s.init(s, KindTextStyleInfo)
	return s
}

// Name returns the style name.
func (s *TextStyleInfo) Name() string { return s.name }

// SetName renames the style. It must not be called once the style is in a
// style map.
func (s *TextStyleInfo) SetName(name string) { s.name = name }

// OptionType is the value type of an option.
type OptionType int

// Option types.
const (
	OptionBool OptionType = iota
	OptionLong
	OptionFloat
	OptionString
)

func (t OptionType) String() string {
	switch t {
	case OptionBool:
		return "bool"
	case OptionLong:
		return "long"
	case OptionFloat:
		return "float"
	}
	return "string"
}

// OptionInfo is a named score option. Only the field matching Type is
// meaningful.
type OptionInfo struct {
	simpleBase
	name  string
	Type  OptionType
	Bool  bool
	Long  int64
	Float float64
	Text  string
}

// NewOptionInfo returns a string option with an empty value.
func NewOptionInfo(name string) *OptionInfo {
	o := &OptionInfo{name: name, Type: OptionString}
	o.init(o, KindOptionInfo)
	return o
}

// NewBoolOption returns a boolean option.
func NewBoolOption(name string, v bool) *OptionInfo {
	o := NewOptionInfo(name)
	o.Type, o.Bool = OptionBool, v
	return o
}

// NewLongOption returns an integer option.
func NewLongOption(name string, v int64) *OptionInfo {
	o := NewOptionInfo(name)
	o.Type, o.Long = OptionLong, v
	return o
}

// NewFloatOption returns a float option.
func NewFloatOption(name string, v float64) *OptionInfo {
	o := NewOptionInfo(name)
	o.Type, o.Float = OptionFloat, v
	return o
}

// Name returns the option name.
func (o *OptionInfo) Name() string { return o.name }

// CanAssign reports whether src's value converts to o's type.
func (o *OptionInfo) CanAssign(src *OptionInfo) bool {
	_, ok := src.valueAs(o.Type)
	return ok
}

// Assign sets o's value from src, converted to o's type: integers to
// floats, integral floats to integers, 0 and 1 to booleans, and text by
// parsing. It returns false and leaves o unchanged when src does not
// convert.
func (o *OptionInfo) Assign(src *OptionInfo) bool {
	v, ok := src.valueAs(o.Type)
	if !ok {
		return false
	}
	o.Bool, o.Long, o.Float, o.Text = v.Bool, v.Long, v.Float, v.Text
	return true
}

// optionValue holds one converted option value; only the field of the
// target type is set.
type optionValue struct {
	Bool  bool
	Long  int64
	Float float64
	Text  string
}

func (o *OptionInfo) valueAs(t OptionType) (optionValue, bool) {
	switch t {
	case OptionBool:
		switch o.Type {
		case OptionBool:
			return optionValue{Bool: o.Bool}, true
		case OptionLong:
			if o.Long == 0 || o.Long == 1 {
				return optionValue{Bool: o.Long == 1}, true
			}
		case OptionString:
			switch o.Text {
			case "true", "yes":
				return optionValue{Bool: true}, true
			case "false", "no":
				return optionValue{Bool: false}, true
			}
		}
	case OptionLong:
		switch o.Type {
		case OptionLong:
			return optionValue{Long: o.Long}, true
		case OptionFloat:
			if o.Float == math.Trunc(o.Float) && math.Abs(o.Float) < 1<<53 {
				return optionValue{Long: int64(o.Float)}, true
			}
		case OptionString:
			if n, err := strconv.ParseInt(o.Text, 10, 64); err == nil {
				return optionValue{Long: n}, true
			}
		}
	case OptionFloat:
		switch o.Type {
		case OptionFloat:
			return optionValue{Float: o.Float}, true
		case OptionLong:
			return optionValue{Float: float64(o.Long)}, true
		case OptionString:
			if f, err := strconv.ParseFloat(o.Text, 64); err == nil {
				return optionValue{Float: f}, true
			}
		}
	case OptionString:
		switch o.Type {
		case OptionBool:
			return optionValue{Text: strconv.FormatBool(o.Bool)}, true
		case OptionLong:
			return optionValue{Text: strconv.FormatInt(o.Long, 10)}, true
		case OptionFloat:
			return optionValue{Text: strconv.FormatFloat(o.Float, 'g', -1, 64)}, true
		case OptionString:
			return optionValue{Text: o.Text}, true
		}
	}
	return optionValue{}, false
}

// Options is the collection of score options.
type Options struct {
	collection
}

func newOptions() *Options {
	o := &Options{}
	o.init(o, KindOptions)
	return o
}
