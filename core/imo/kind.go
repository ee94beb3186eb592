package imo

// Kind identifies the concrete type of a node. Every dispatch decision in
// the model and in the linker is taken on this tag.
type Kind int

// Node kinds, grouped by category. The category bounds are used by the
// capability predicates below, so new kinds must be added inside the
// right block.
const (
	KindUndefined Kind = iota

	// simple objects: data holders and collections
	kindSimpleFirst
	KindAttachments
	KindBeamData
	KindBeamDto
	KindBezierInfo
	KindColorDto
	KindContent
	KindCursorInfo
	KindFontInfo
	KindInstrGroup
	KindInstrGroups
	KindInstruments
	KindMidiInfo
	KindMusicData
	KindOptionInfo
	KindOptions
	KindPageInfo
	KindReldataobjs
	KindSlurData
	KindSlurDto
	KindStaffInfo
	KindStyles
	KindSystemInfo
	KindTextStyleInfo
	KindTieData
	KindTieDto
	KindTupletData
	KindTupletDto
	kindSimpleLast

	// container objects
	kindContainerFirst
	KindDocument
	KindInstrument
	kindContainerLast

	// box objects: block level content
	kindBoxFirst
	KindHeading
	KindParagraph
	KindScore
	KindTextBlock
	kindBoxLast

	// staff objects
	kindStaffFirst
	KindBarline
	KindClef
	KindGoBackFwd
	KindKeySignature
	KindMetronomeMark
	KindNote
	KindRest
	KindSpacer
	KindTimeSignature
	kindStaffLast

	// auxiliary objects
	kindAuxFirst
	KindFermata
	KindLine
	KindScoreText
	KindScoreTitle
	KindTextItem

	// relation objects, a subset of the auxiliary ones
	kindRelFirst
	KindBeam
	KindChord
	KindSlur
	KindTie
	KindTuplet
	kindRelLast
	kindAuxLast
)

var kindNames = map[Kind]string{
	KindUndefined:     "undefined",
	KindAttachments:   "attachments",
	KindBeamData:      "beam-data",
	KindBeamDto:       "beam-dto",
	KindBezierInfo:    "bezier",
	KindColorDto:      "color",
	KindContent:       "content",
	KindCursorInfo:    "cursor",
	KindFontInfo:      "font",
	KindInstrGroup:    "group",
	KindInstrGroups:   "groups",
	KindInstruments:   "instruments",
	KindMidiInfo:      "infoMIDI",
	KindMusicData:     "musicData",
	KindOptionInfo:    "opt",
	KindOptions:       "options",
	KindPageInfo:      "pageLayout",
	KindReldataobjs:   "reldataobjs",
	KindSlurData:      "slur-data",
	KindSlurDto:       "slur-dto",
	KindStaffInfo:     "staff",
	KindStyles:        "styles",
	KindSystemInfo:    "systemLayout",
	KindTextStyleInfo: "defineStyle",
	KindTieData:       "tie-data",
	KindTieDto:        "tie-dto",
	KindTupletData:    "tuplet-data",
	KindTupletDto:     "tuplet-dto",
	KindDocument:      "lenmusdoc",
	KindInstrument:    "instrument",
	KindHeading:       "heading",
	KindParagraph:     "para",
	KindScore:         "score",
	KindTextBlock:     "textblock",
	KindBarline:       "barline",
	KindClef:          "clef",
	KindGoBackFwd:     "goFwd",
	KindKeySignature:  "key",
	KindMetronomeMark: "metronome",
	KindNote:          "n",
	KindRest:          "r",
	KindSpacer:        "spacer",
	KindTimeSignature: "time",
	KindFermata:       "fermata",
	KindLine:          "line",
	KindScoreText:     "text",
	KindScoreTitle:    "title",
	KindTextItem:      "txt",
	KindBeam:          "beam",
	KindChord:         "chord",
	KindSlur:          "slur",
	KindTie:           "tie",
	KindTuplet:        "tuplet",
}

// String returns the LDP-style tag name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsSimpleObj reports whether k is a plain data holder or collection.
func (k Kind) IsSimpleObj() bool { return k > kindSimpleFirst && k < kindSimpleLast }

// IsContainerObj reports whether k is a document or instrument.
func (k Kind) IsContainerObj() bool { return k > kindContainerFirst && k < kindContainerLast }

// IsBoxObj reports whether k is block level content (score, paragraph...).
func (k Kind) IsBoxObj() bool { return k > kindBoxFirst && k < kindBoxLast }

// IsStaffObj reports whether k is positioned on a staff.
func (k Kind) IsStaffObj() bool { return k > kindStaffFirst && k < kindStaffLast }

// IsAuxObj reports whether k is an auxiliary object, relations included.
func (k Kind) IsAuxObj() bool { return k > kindAuxFirst && k < kindAuxLast }

// IsRelObj reports whether k is a relation spanning several staff objects.
func (k Kind) IsRelObj() bool { return k > kindRelFirst && k < kindRelLast }

// IsContentObj reports whether nodes of kind k can carry attachments.
func (k Kind) IsContentObj() bool {
	return k.IsContainerObj() || k.IsBoxObj() || k.IsStaffObj() || k.IsAuxObj()
}

// IsRelDataObj reports whether k is per-participant relation data.
func (k Kind) IsRelDataObj() bool {
	switch k {
	case KindBeamData, KindSlurData, KindTieData, KindTupletData:
		return true
	}
	return false
}

// IsDto reports whether k is a transfer object used while reading.
func (k Kind) IsDto() bool {
	switch k {
	case KindBeamDto, KindSlurDto, KindTieDto, KindTupletDto, KindColorDto:
		return true
	}
	return false
}

// IsCollection reports whether k only groups other nodes.
func (k Kind) IsCollection() bool {
	switch k {
	case KindAttachments, KindContent, KindInstrGroups, KindInstruments,
		KindMusicData, KindOptions, KindReldataobjs, KindStyles:
		return true
	}
	return false
}
