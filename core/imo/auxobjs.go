package imo

// Placement is the vertical position of an auxiliary object.
type Placement int

// Placements.
const (
	PlacementDefault Placement = iota
	PlacementAbove
	PlacementBelow
)

var placementNames = map[Placement]string{
	PlacementDefault: "default",
	PlacementAbove:   "above",
	PlacementBelow:   "below",
}

func (p Placement) String() string { return placementNames[p] }

// ParsePlacement maps "above" and "below" to placements.
func ParsePlacement(s string) (Placement, bool) {
	switch s {
	case "above":
		return PlacementAbove, true
	case "below":
		return PlacementBelow, true
	case "default":
		return PlacementDefault, true
	}
	return PlacementDefault, false
}

// FermataSymbol is the shape of a fermata.
type FermataSymbol int

// Fermata symbols.
const (
	FermataNormal FermataSymbol = iota
	FermataAngled
	FermataSquare
)

// Fermata is a pause sign attached to a note, rest or barline.
type Fermata struct {
	auxBase
	placement Placement
	symbol    FermataSymbol
}

// NewFermata returns a normal fermata.
func NewFermata(p Placement) *Fermata {
	f := &Fermata{placement: p}
	f.initScoreObj(f, KindFermata)
	return f
}

// Placement returns the fermata placement.
func (f *Fermata) Placement() Placement { return f.placement }

// Symbol returns the fermata shape.
func (f *Fermata) Symbol() FermataSymbol { return f.symbol }

// SetSymbol sets the fermata shape.
func (f *Fermata) SetSymbol(s FermataSymbol) { f.symbol = s }

// Point is a position in tenths.
type Point struct {
	X, Y Tenths
}

// LineStyle describes a free line.
type LineStyle struct {
	Start, End Point
	Width      Tenths
	Color      Color
}

// Line is a free line attached to a score object.
type Line struct {
	auxBase
	style LineStyle
}

// NewLine returns a line with the given style.
func NewLine(style LineStyle) *Line {
	l := &Line{style: style}
	l.initScoreObj(l, KindLine)
	return l
}

// Style returns the line style.
func (l *Line) Style() LineStyle { return l.style }

// TextInfo is a text value with the name of its style.
type TextInfo struct {
	Text  string
	Style string
}

// HAlign is the horizontal alignment of a title.
type HAlign int

// Alignments.
const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

var hAlignNames = []string{"left", "center", "right"}

func (a HAlign) String() string {
	if a < 0 || int(a) >= len(hAlignNames) {
		return "center"
	}
	return hAlignNames[a]
}

// ParseHAlign maps "left", "center" and "right" to alignments.
func ParseHAlign(s string) (HAlign, bool) {
	for i, name := range hAlignNames {
		if name == s {
			return HAlign(i), true
		}
	}
	return AlignCenter, false
}

// ScoreText is a text attached to a score object. Instrument and group
// names are also read as score texts and then copied.
type ScoreText struct {
	auxBase
	info TextInfo
}

// NewScoreText returns a score text with the given content.
func NewScoreText(text string) *ScoreText {
	t := &ScoreText{info: TextInfo{Text: text}}
	t.initScoreObj(t, KindScoreText)
	return t
}

// Text returns the text content.
func (t *ScoreText) Text() string { return t.info.Text }

// SetText sets the text content.
func (t *ScoreText) SetText(s string) { t.info.Text = s }

// Style returns the style name, empty for the default style.
func (t *ScoreText) Style() string { return t.info.Style }

// SetStyle sets the style name.
func (t *ScoreText) SetStyle(name string) { t.info.Style = name }

// Info returns text and style.
func (t *ScoreText) Info() TextInfo { return t.info }

// ScoreTitle is a score title. It is a tree child of the score.
type ScoreTitle struct {
	auxBase
	info   TextInfo
	hAlign HAlign
}

// NewScoreTitle returns a centered title.
func NewScoreTitle(text string) *ScoreTitle {
	t := &ScoreTitle{info: TextInfo{Text: text}, hAlign: AlignCenter}
	t.initScoreObj(t, KindScoreTitle)
	return t
}

// Text returns the title text.
func (t *ScoreTitle) Text() string { return t.info.Text }

// Style returns the style name.
func (t *ScoreTitle) Style() string { return t.info.Style }

// SetStyle sets the style name.
func (t *ScoreTitle) SetStyle(name string) { t.info.Style = name }

// HAlign returns the horizontal alignment.
func (t *ScoreTitle) HAlign() HAlign { return t.hAlign }

// SetHAlign sets the horizontal alignment.
func (t *ScoreTitle) SetHAlign(a HAlign) { t.hAlign = a }

// TextItem is a run of text inside a paragraph or heading.
type TextItem struct {
	auxBase
	info TextInfo
}

// NewTextItem returns a text item.
func NewTextItem(text string) *TextItem {
	t := &TextItem{info: TextInfo{Text: text}}
	t.initScoreObj(t, KindTextItem)
	return t
}

// Text returns the text.
func (t *TextItem) Text() string { return t.info.Text }

// Style returns the style name.
func (t *TextItem) Style() string { return t.info.Style }

// SetStyle sets the style name.
func (t *TextItem) SetStyle(name string) { t.info.Style = name }
