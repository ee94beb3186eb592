package musicxml

import (
	"fmt"
	"strconv"

	"github.com/FocuswithJustin/JuniperScore/core/imo"
	"github.com/FocuswithJustin/JuniperScore/core/xml"
)

var noteTypes = map[string]imo.NoteType{
	"maxima": imo.Longa, "long": imo.Longa, "breve": imo.Breve,
	"whole": imo.Whole, "half": imo.Half, "quarter": imo.Quarter,
	"eighth": imo.Eighth, "16th": imo.N16th, "32nd": imo.N32nd,
	"64th": imo.N64th, "128th": imo.N128th, "256th": imo.N256th,
}

var steps = map[string]imo.Step{
	"C": imo.StepC, "D": imo.StepD, "E": imo.StepE, "F": imo.StepF,
	"G": imo.StepG, "A": imo.StepA, "B": imo.StepB,
}

var alterations = map[int]imo.Accidentals{
	-2: imo.FlatFlat, -1: imo.Flat, 0: imo.NoAccidentals, 1: imo.Sharp, 2: imo.DoubleSharp,
}

var stems = map[string]imo.StemDirection{
	"up": imo.StemUp, "down": imo.StemDown, "none": imo.StemNone, "double": imo.StemDouble,
}

var beamTypes = map[string]imo.BeamType{
	"begin": imo.BeamBegin, "continue": imo.BeamContinue, "end": imo.BeamEnd,
	"forward hook": imo.BeamForward, "backward hook": imo.BeamBackward,
}

func (im *Importer) importNote(n *xml.Node) {
	if n.HasChild("grace") || n.HasChild("cue") {
		im.warn("grace and cue notes are not supported")
		return
	}

	var nr imo.NoteRest
	var note *imo.Note
	if n.HasChild("rest") {
		nr = imo.NewRest()
	} else {
		note = imo.NewNote()
		note.SetPitch(im.pitch(n))
		if s := n.ChildText("stem"); s != "" {
			if st, ok := stems[s]; ok {
				note.SetStem(st)
			} else {
				im.warn("unknown stem %q", s)
			}
		}
		nr = note
	}

	t, dots := im.duration(n)
	nr.SetDuration(t, dots)
	if s, ok := n.ChildInt("staff"); ok && s > 0 {
		nr.SetStaff(s - 1)
	}
	if v, ok := n.ChildInt("voice"); ok && v > 0 {
		nr.SetVoice(v)
	}

	chordMember := n.HasChild("chord")
	if chordMember && (note == nil || im.state.lastNote == nil) {
		im.warn("chord mark without a previous note")
		chordMember = false
	}

	im.link(im.state.music, nr)
	if chordMember {
		base := im.state.lastNote
		chord := base.Chord()
		if chord == nil {
			chord = imo.NewChord()
			im.link(chord, base)
		}
		im.link(chord, note)
	}

	notations := n.ChildrenNamed("notations")
	if note != nil {
		im.state.lastNote = note
		im.addTies(n, note)
		for _, nt := range notations {
			for _, s := range nt.ChildrenNamed("slur") {
				im.addSlur(s, note)
			}
		}
	}
	if !chordMember {
		im.addBeam(n, nr)
		im.addTuplet(n, nr, notations)
	}
	for _, nt := range notations {
		for _, f := range nt.ChildrenNamed("fermata") {
			p := imo.PlacementAbove
			if f.Attr("type") == "inverted" {
				p = imo.PlacementBelow
			}
			im.link(nr, imo.NewFermata(p))
		}
	}
}

func (im *Importer) pitch(n *xml.Node) imo.Pitch {
	if n.HasChild("unpitched") {
		return imo.Pitch{Step: imo.NoPitch}
	}
	p := n.Child("pitch")
	step, ok := steps[p.ChildText("step")]
	octave, okOct := p.ChildInt("octave")
	if !ok || !okOct {
		im.warn("invalid pitch")
		return imo.Pitch{Step: imo.NoPitch}
	}
	pitch := imo.Pitch{Step: step, Octave: octave}

	alter := 0
	if s := p.ChildText("alter"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != float64(int(f)) {
			im.warn("unsupported alter %q", s)
		} else {
			alter = int(f)
		}
	}
	acc, ok := alterations[alter]
	if !ok {
		im.warn("unsupported alter %d", alter)
	}
	if alter == 0 && n.ChildText("accidental") == "natural" {
		acc = imo.Natural
	}
	pitch.Accidentals = acc
	return pitch
}

// duration returns the note type and dots. Without a type element they
// are derived from the duration in divisions.
func (im *Importer) duration(n *xml.Node) (imo.NoteType, int) {
	dots := len(n.ChildrenNamed("dot"))
	if s := n.ChildText("type"); s != "" {
		if t, ok := noteTypes[s]; ok {
			return t, dots
		}
		im.warn("unknown note type %q", s)
		return imo.Quarter, dots
	}

	d, ok := n.ChildFloat("duration")
	if !ok {
		im.warn("note without type or duration")
		return imo.Quarter, 0
	}
	want := d / im.state.divisions * imo.ToDuration(imo.Quarter, 0)
	for t := imo.Longa; t <= imo.N256th; t++ {
		for dots := 0; dots <= 3; dots++ {
			if imo.ToDuration(t, dots) == want {
				return t, dots
			}
		}
	}
	im.warn("duration %v does not match a note type", d)
	return imo.Quarter, 0
}

func tieKey(note *imo.Note) string {
	return fmt.Sprintf("%s/%d", note.Pitch(), note.Staff())
}

// addTies handles tie elements. A stop is processed before a start so a
// note can end one tie and begin the next.
func (im *Importer) addTies(n *xml.Node, note *imo.Note) {
	var start, stop bool
	for _, t := range n.ChildrenNamed("tie") {
		switch t.Attr("type") {
		case "start":
			start = true
		case "stop":
			stop = true
		}
	}

	key := tieKey(note)
	if stop {
		if open, ok := im.state.ties[key]; ok {
			delete(im.state.ties, key)
			dto := imo.NewTieDto()
			dto.SetStart(false)
			dto.SetTieNumber(open.TieNumber())
			dto.SetNote(note)
			tie := imo.NewTie()
			tie.SetTieNumber(open.TieNumber())
			open.Note().IncludeInRelation(tie, imo.NewTieData(open))
			note.IncludeInRelation(tie, imo.NewTieData(dto))
			imo.Delete(open)
			imo.Delete(dto)
		} else {
			im.warn("tie stop without start on %s", note.Pitch())
		}
	}
	if start {
		if old, ok := im.state.ties[key]; ok {
			im.warn("tie on %s started again before its stop", note.Pitch())
			imo.Delete(old)
		}
		im.state.tieNum++
		dto := imo.NewTieDto()
		dto.SetTieNumber(im.state.tieNum)
		dto.SetNote(note)
		im.state.ties[key] = dto
	}
}

func (im *Importer) addSlur(s *xml.Node, note *imo.Note) {
	num := s.AttrInt("number", 1)
	t, ok := imo.ParseSlurType(s.Attr("type"))
	if !ok {
		im.warn("unknown slur type %q", s.Attr("type"))
		return
	}
	dto := imo.NewSlurDto()
	dto.SetSlurType(t)
	dto.SetSlurNumber(num)
	dto.SetNote(note)
	if c := s.Attr("color"); c != "" {
		cd := imo.NewColorDto()
		color := cd.SetFromString(c)
		if cd.IsOK() {
			dto.SetColor(color)
		} else {
			im.warn("invalid color %q", c)
		}
	}

	pending, open := im.state.slurs[num]
	switch t {
	case imo.SlurStart:
		if open {
			im.warn("slur %d started again before its stop", num)
			deleteAll(pending)
		}
		im.state.slurs[num] = []*imo.SlurDto{dto}
		return
	case imo.SlurContinue:
		if !open {
			im.warn("slur %d continued without start", num)
			imo.Delete(dto)
			return
		}
		im.state.slurs[num] = append(pending, dto)
		return
	}
	if !open {
		im.warn("slur %d stop without start", num)
		imo.Delete(dto)
		return
	}
	delete(im.state.slurs, num)
	slur := imo.NewSlur()
	slur.SetSlurNumber(num)
	for _, d := range append(pending, dto) {
		d.Note().IncludeInRelation(slur, imo.NewSlurData(d))
		imo.Delete(d)
	}
}

// addBeam collects beam marks per voice. Level 1 decides where the beam
// starts and ends.
func (im *Importer) addBeam(n *xml.Node, nr imo.NoteRest) {
	marks := n.ChildrenNamed("beam")
	if len(marks) == 0 {
		return
	}
	dto := imo.NewBeamDto()
	dto.SetNoteRest(nr)
	for _, b := range marks {
		level := b.AttrInt("number", 1)
		t, ok := beamTypes[b.Text()]
		if !ok || level < 1 || level > imo.BeamLevels {
			im.warn("invalid beam %q at level %d", b.Text(), level)
			continue
		}
		dto.SetBeamType(level-1, t)
	}

	voice := nr.Voice()
	pending, open := im.state.beams[voice]
	switch {
	case dto.IsStartOfBeam():
		if open {
			im.warn("beam started inside an open beam")
			deleteAll(pending)
		}
		im.state.beams[voice] = []*imo.BeamDto{dto}
		return
	case !open:
		im.warn("beam continued without begin")
		imo.Delete(dto)
		return
	}
	pending = append(pending, dto)
	if !dto.IsEndOfBeam() {
		im.state.beams[voice] = pending
		return
	}
	delete(im.state.beams, voice)
	beam := imo.NewBeam()
	for _, d := range pending {
		d.NoteRest().IncludeInRelation(beam, imo.NewBeamData(d))
		imo.Delete(d)
	}
}

// addTuplet reads tuplet notations. Notes between the start and stop
// marks become tuplet members.
func (im *Importer) addTuplet(n *xml.Node, nr imo.NoteRest, notations []*xml.Node) {
	var mark *xml.Node
	for _, nt := range notations {
		if t := nt.Child("tuplet"); t != nil {
			mark = t
		}
	}
	open := len(im.state.tuplet) > 0

	if mark != nil && mark.Attr("type") == "start" {
		if open {
			im.warn("tuplet started inside an open tuplet")
			return
		}
		dto := imo.NewTupletDto()
		dto.SetTupletType(imo.TupletStart)
		tm := n.Child("time-modification")
		actual, _ := tm.ChildInt("actual-notes")
		normal, _ := tm.ChildInt("normal-notes")
		if actual == 0 || normal == 0 {
			im.warn("tuplet without time-modification, assuming 3:2")
			actual, normal = 3, 2
		}
		dto.SetNumbers(actual, normal)
		switch mark.Attr("bracket") {
		case "yes":
			dto.SetShowBracket(imo.Yes)
		case "no":
			dto.SetShowBracket(imo.No)
		}
		if p, ok := imo.ParsePlacement(mark.Attr("placement")); ok {
			dto.SetPlacement(p)
		}
		switch mark.Attr("show-number") {
		case "both":
			dto.SetShowNumber(imo.NumberBoth)
		case "none":
			dto.SetShowNumber(imo.NumberNone)
		}
		dto.SetNoteRest(nr)
		im.state.tuplet = []*imo.TupletDto{dto}
		return
	}

	stop := mark != nil && mark.Attr("type") == "stop"
	if !open {
		if stop {
			im.warn("tuplet stop without start")
		}
		return
	}

	dto := imo.NewTupletDto()
	dto.SetTupletType(imo.TupletContinue)
	if stop {
		dto.SetTupletType(imo.TupletStop)
	}
	dto.SetNoteRest(nr)
	im.state.tuplet = append(im.state.tuplet, dto)
	if !stop {
		return
	}

	pending := im.state.tuplet
	im.state.tuplet = nil
	tuplet := imo.NewTuplet(pending[0])
	for _, d := range pending {
		d.NoteRest().IncludeInRelation(tuplet, imo.NewTupletData(d))
		imo.Delete(d)
	}
}

// closeAll drops relations left open at the end of a part.
func (im *Importer) closeAll() {
	for _, d := range im.state.ties {
		im.warn("tie on %s not closed", d.Note().Pitch())
		imo.Delete(d)
	}
	for num, pending := range im.state.slurs {
		im.warn("slur %d not closed", num)
		deleteAll(pending)
	}
	for _, pending := range im.state.beams {
		im.warn("beam not closed")
		deleteAll(pending)
	}
	if len(im.state.tuplet) > 0 {
		im.warn("tuplet not closed")
		deleteAll(im.state.tuplet)
	}
	im.state.ties, im.state.slurs, im.state.beams, im.state.tuplet = nil, nil, nil, nil
}

func deleteAll[D imo.Obj](dtos []D) {
	for _, d := range dtos {
		imo.Delete(d)
	}
}
