package imo

import (
	"github.com/FocuswithJustin/JuniperScore/core/errors"
)

var constructors = map[Kind]func() Obj{
	KindAttachments:   func() Obj { return NewAttachments() },
	KindBeamData:      func() Obj { return NewBeamData(nil) },
	KindBeamDto:       func() Obj { return NewBeamDto() },
	KindBezierInfo:    func() Obj { return NewBezierInfo() },
	KindColorDto:      func() Obj { return NewColorDto() },
	KindContent:       func() Obj { return NewContent() },
	KindCursorInfo:    func() Obj { return NewCursorInfo() },
	KindFontInfo:      func() Obj { return NewFontInfo() },
	KindInstrGroup:    func() Obj { return NewInstrGroup() },
	KindInstrGroups:   func() Obj { return newInstrGroups() },
	KindInstruments:   func() Obj { return newInstruments() },
	KindMidiInfo:      func() Obj { return NewMidiInfo() },
	KindMusicData:     func() Obj { return NewMusicData() },
	KindOptionInfo:    func() Obj { return NewOptionInfo("") },
	KindOptions:       func() Obj { return newOptions() },
	KindPageInfo:      func() Obj { return NewPageInfo() },
	KindReldataobjs:   func() Obj { return newReldataobjs() },
	KindSlurData:      func() Obj { return NewSlurData(nil) },
	KindSlurDto:       func() Obj { return NewSlurDto() },
	KindStaffInfo:     func() Obj { return NewStaffInfo() },
	KindStyles:        func() Obj { return NewStyles() },
	KindSystemInfo:    func() Obj { return NewSystemInfo() },
	KindTextStyleInfo: func() Obj { return NewTextStyleInfo() },
	KindTieData:       func() Obj { return NewTieData(nil) },
	KindTieDto:        func() Obj { return NewTieDto() },
	KindTupletData:    func() Obj { return NewTupletData(nil) },
	KindTupletDto:     func() Obj { return NewTupletDto() },
	KindDocument:      func() Obj { return NewDocument("") },
	KindInstrument:    func() Obj { return NewInstrument() },
	KindHeading:       func() Obj { return NewHeading(1) },
	KindParagraph:     func() Obj { return NewParagraph() },
	KindScore:         func() Obj { return NewScore() },
	KindTextBlock:     func() Obj { return NewTextBlock() },
	KindBarline:       func() Obj { return NewBarline(BarlineSimple) },
	KindClef:          func() Obj { return NewClef(ClefG2) },
	KindGoBackFwd:     func() Obj { return NewGoToStart() },
	KindKeySignature:  func() Obj { return NewKeySignature(KeyType(0)) },
	KindMetronomeMark: func() Obj { return NewMetronomeMark(60) },
	KindNote:          func() Obj { return NewNote() },
	KindRest:          func() Obj { return NewRest() },
	KindSpacer:        func() Obj { return NewSpacer() },
	KindTimeSignature: func() Obj { return NewTimeSignature(4, 4) },
	KindFermata:       func() Obj { return NewFermata(PlacementDefault) },
	KindLine:          func() Obj { return NewLine(LineStyle{Width: 1, Color: Black}) },
	KindScoreText:     func() Obj { return NewScoreText("") },
	KindScoreTitle:    func() Obj { return NewScoreTitle("") },
	KindTextItem:      func() Obj { return NewTextItem("") },
	KindBeam:          func() Obj { return NewBeam() },
	KindChord:         func() Obj { return NewChord() },
	KindSlur:          func() Obj { return NewSlur() },
	KindTie:           func() Obj { return NewTie() },
	KindTuplet:        func() Obj { return NewTuplet(nil) },
}

// New constructs a node of kind k with default values.
func New(k Kind) (Obj, error) {
	ctor, ok := constructors[k]
	if !ok {
		return nil, errors.NewUnsupported("node kind", k.String())
	}
	return ctor(), nil
}

// ParseKind returns the kind whose tag name is s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s && k != KindUndefined {
			return k, true
		}
	}
	return KindUndefined, false
}
