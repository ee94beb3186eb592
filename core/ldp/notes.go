package ldp

import (
	"math/bits"
	"strconv"

	"github.com/FocuswithJustin/JuniperScore/core/imo"
)

// relations holds the relation marks read so far whose relation is not
// complete yet. Numbered relations are keyed by their number.
type relations struct {
	ties       map[int]*imo.TieDto
	legacyTies []*imo.TieDto
	slurs      map[int][]*imo.SlurDto
	beams      map[int][]*imo.BeamDto
	legacyBeam []*imo.BeamDto
	tuplet     []*imo.TupletDto
}

// legacyBeamNumber is the beam number given to g+ ... g- beams.
const legacyBeamNumber = -1

func newRelations() relations {
	return relations{
		ties:  make(map[int]*imo.TieDto),
		slurs: make(map[int][]*imo.SlurDto),
		beams: make(map[int][]*imo.BeamDto),
	}
}

// closeAll reports and discards the relations still open at the end of
// music data.
func (rel *relations) closeAll(r *Reader) {
	for num, dto := range rel.ties {
		r.warnLine(dto.LineNumber(), "tie %d has no stop", num)
		imo.Delete(dto)
	}
	for _, dto := range rel.legacyTies {
		r.warnLine(dto.LineNumber(), "tie from %s has no matching note", dto.Note().Pitch())
		imo.Delete(dto)
	}
	for num, dtos := range rel.slurs {
		r.warnLine(dtos[0].LineNumber(), "slur %d has no stop", num)
		deleteAll(dtos)
	}
	for num, dtos := range rel.beams {
		r.warnLine(dtos[0].LineNumber(), "beam %d is not closed", num)
		deleteAll(dtos)
	}
	if len(rel.legacyBeam) > 0 {
		r.warnLine(rel.legacyBeam[0].LineNumber(), "beam g+ is not closed")
		deleteAll(rel.legacyBeam)
	}
	if len(rel.tuplet) > 0 {
		r.warnLine(rel.tuplet[0].LineNumber(), "tuplet is not closed")
		deleteAll(rel.tuplet)
	}
	*rel = newRelations()
}

func deleteAll[D imo.Obj](dtos []D) {
	for _, d := range dtos {
		imo.Delete(d)
	}
}

func (r *Reader) warnLine(line int, format string, args ...any) {
	r.warn(&Element{Line: line}, format, args...)
}

// noteMarks collects the relation marks found in one note element.
type noteMarks struct {
	tie         *imo.TieDto
	legacyTie   bool
	slur        *imo.SlurDto
	beam        *imo.BeamDto
	legacyBeam  imo.BeamType
	tuplet      *imo.TupletDto
	tupletClose bool
}

// analyseNoteRest reads (n pitch duration ...) and (r duration ...).
// chordMember is set for the second and following notes of a chord,
// which do not take part in beams and tuplets.
func (r *Reader) analyseNoteRest(e *Element, parent imo.Obj, chordMember bool) imo.Obj {
	vals := e.Values()
	var nr imo.NoteRest
	var note *imo.Note
	if e.Name == "n" {
		note = imo.NewNote()
		nr = note
		if len(vals) == 0 {
			r.warn(e, "note without pitch")
			return nil
		}
		if vals[0] != "*" {
			p, err := imo.ParsePitch(vals[0])
			if err != nil {
				r.warn(e, "invalid pitch %q", vals[0])
			} else {
				note.SetPitch(p)
			}
		}
		vals = vals[1:]
	} else {
		nr = imo.NewRest()
	}

	if len(vals) == 0 {
		r.warn(e, "%s without duration", e.Name)
		return nil
	}
	d := imo.ParseDuration(vals[0])
	if d.NoteType == imo.NoteTypeUnknown {
		r.warn(e, "invalid duration %q, quarter assumed", vals[0])
		d = imo.NoteTypeAndDots{NoteType: imo.Quarter}
	}
	nr.SetDuration(d.NoteType, d.Dots)

	var marks noteMarks
	for _, a := range vals[1:] {
		if !r.applyNoteAtom(e, nr, a, &marks) {
			r.warn(e, "unknown %s option %q", e.Name, a)
		}
	}
	for _, it := range e.Items {
		if !it.IsLeaf() {
			r.analyseNoteItem(it, nr, &marks)
		}
	}
	r.applyContentItems(e, nr, noteItems...)

	if r.link(parent, nr) == nil {
		return nil
	}
	r.closeLegacyTie(note)
	r.addRelationMarks(e, nr, &marks, chordMember)
	return nr
}

// noteItems are the nested elements read by analyseNoteItem.
var noteItems = []string{"stem", "tie", "slur", "beam", "t"}

func (r *Reader) applyNoteAtom(e *Element, nr imo.NoteRest, a string, m *noteMarks) bool {
	if r.applyStaffAtom(e, nr, a) {
		return true
	}
	switch {
	case a == "l":
		m.legacyTie = true
		return true
	case a == "g+":
		m.legacyBeam = imo.BeamBegin
		return true
	case a == "g=":
		m.legacyBeam = imo.BeamContinue
		return true
	case a == "g-":
		m.legacyBeam = imo.BeamEnd
		return true
	case a == "t-":
		m.tupletClose = true
		return true
	case a == "t+":
		m.tuplet = newTupletStart(e, 3, 2)
		return true
	case len(a) > 1 && a[0] == 'v':
		if v, err := strconv.Atoi(a[1:]); err == nil && v > 0 {
			nr.SetVoice(v)
			return true
		}
	case len(a) > 1 && a[0] == 't':
		if n, err := strconv.Atoi(a[1:]); err == nil && n > 1 {
			m.tuplet = newTupletStart(e, n, normalNumber(n))
			return true
		}
	}
	return false
}

// normalNumber returns the largest power of two below actual, the usual
// normal number of a tuplet written with its actual number only.
func normalNumber(actual int) int {
	return 1 << (bits.Len(uint(actual-1)) - 1)
}

func newTupletStart(e *Element, actual, normal int) *imo.TupletDto {
	dto := imo.NewTupletDto()
	dto.SetTupletType(imo.TupletStart)
	dto.SetNumbers(actual, normal)
	dto.SetLineNumber(e.Line)
	return dto
}

func (r *Reader) analyseNoteItem(it *Element, nr imo.NoteRest, m *noteMarks) {
	note, isNote := nr.(*imo.Note)
	vals := it.Values()
	switch it.Name {
	case "stem":
		if !isNote || len(vals) == 0 {
			r.warn(it, "stem only applies to notes")
			return
		}
		s, ok := imo.ParseStem(vals[0])
		if !ok {
			r.warn(it, "unknown stem %q", vals[0])
		}
		note.SetStem(s)
	case "tie":
		if !isNote || len(vals) < 2 {
			r.warn(it, "tie needs a note, a number and start or stop")
			return
		}
		dto := imo.NewTieDto()
		dto.SetTieNumber(r.atoi(it, vals[0]))
		switch vals[1] {
		case "start":
		case "stop":
			dto.SetStart(false)
		default:
			r.warn(it, "tie type must be start or stop, found %q", vals[1])
			imo.Delete(dto)
			return
		}
		dto.SetNote(note)
		dto.SetLineNumber(it.Line)
		if b := it.Child("bezier"); b != nil {
			r.analyse(b, dto)
		}
		m.tie = dto
	case "slur":
		if !isNote || len(vals) < 2 {
			r.warn(it, "slur needs a note, a number and a type")
			return
		}
		t, ok := imo.ParseSlurType(vals[1])
		if !ok {
			r.warn(it, "unknown slur type %q", vals[1])
			return
		}
		dto := imo.NewSlurDto()
		dto.SetSlurNumber(r.atoi(it, vals[0]))
		dto.SetSlurType(t)
		dto.SetNote(note)
		dto.SetLineNumber(it.Line)
		if c := it.Child("color"); c != nil {
			dto.SetColor(r.color(c))
		}
		if b := it.Child("bezier"); b != nil {
			r.analyse(b, dto)
		}
		m.slur = dto
	case "beam":
		if len(vals) < 2 {
			r.warn(it, "beam needs a number and segments")
			return
		}
		dto := imo.NewBeamDto()
		dto.SetBeamNumber(r.atoi(it, vals[0]))
		if !dto.SetBeamTypeFromSegments(vals[1]) {
			r.warn(it, "invalid beam segments %q", vals[1])
			imo.Delete(dto)
			return
		}
		dto.SetNoteRest(nr)
		dto.SetLineNumber(it.Line)
		m.beam = dto
	case "t":
		switch {
		case len(vals) == 1 && vals[0] == "-":
			m.tupletClose = true
		case len(vals) >= 3 && vals[0] == "+":
			m.tuplet = newTupletStart(it, r.atoi(it, vals[1]), r.atoi(it, vals[2]))
			for _, opt := range vals[3:] {
				r.applyTupletOption(it, m.tuplet, opt)
			}
		default:
			r.warn(it, "tuplet must be (t + actual normal) or (t -)")
		}
	}
}

func (r *Reader) applyTupletOption(e *Element, dto *imo.TupletDto, opt string) {
	switch opt {
	case "noBracket":
		dto.SetShowBracket(imo.No)
	case "squaredBracket":
		dto.SetShowBracket(imo.Yes)
	case "above":
		dto.SetPlacement(imo.PlacementAbove)
	case "below":
		dto.SetPlacement(imo.PlacementBelow)
	case "displayNormalNum":
		dto.SetShowNumber(imo.NumberBoth)
	case "displayNoNumber":
		dto.SetShowNumber(imo.NumberNone)
	default:
		r.warn(e, "unknown tuplet option %q", opt)
	}
}

// closeLegacyTie ends a pending "l" tie whose start note has the pitch of
// note.
func (r *Reader) closeLegacyTie(note *imo.Note) {
	if note == nil || !note.IsPitched() {
		return
	}
	for i, start := range r.rel.legacyTies {
		if start.Note().Pitch() != note.Pitch() || start.Note().Staff() != note.Staff() {
			continue
		}
		stop := imo.NewTieDto()
		stop.SetStart(false)
		stop.SetNote(note)
		r.buildTie(start, stop)
		r.rel.legacyTies = append(r.rel.legacyTies[:i], r.rel.legacyTies[i+1:]...)
		return
	}
}

func (r *Reader) addRelationMarks(e *Element, nr imo.NoteRest, m *noteMarks, chordMember bool) {
	if m.legacyTie {
		if note, ok := nr.(*imo.Note); ok && note.IsPitched() {
			dto := imo.NewTieDto()
			dto.SetNote(note)
			dto.SetLineNumber(e.Line)
			r.rel.legacyTies = append(r.rel.legacyTies, dto)
		} else {
			r.warn(e, "tie requires a pitched note")
		}
	}
	if m.tie != nil {
		r.addTie(m.tie)
	}
	if m.slur != nil {
		r.addSlur(m.slur)
	}
	if chordMember {
		if m.beam != nil || m.legacyBeam != imo.BeamNone || m.tuplet != nil || m.tupletClose {
			r.warn(e, "beams and tuplets go on the first note of a chord")
		}
		return
	}
	r.addBeam(e, nr, m)
	r.addTuplet(e, nr, m)
}

func (r *Reader) addTie(dto *imo.TieDto) {
	num := dto.TieNumber()
	if dto.IsStart() {
		if prev, open := r.rel.ties[num]; open {
			r.warnLine(dto.LineNumber(), "tie %d started again before its stop", num)
			imo.Delete(prev)
		}
		r.rel.ties[num] = dto
		return
	}
	start, open := r.rel.ties[num]
	if !open {
		r.warnLine(dto.LineNumber(), "tie %d stop without start", num)
		imo.Delete(dto)
		return
	}
	delete(r.rel.ties, num)
	r.buildTie(start, dto)
}

func (r *Reader) buildTie(start, stop *imo.TieDto) {
	tie := imo.NewTie()
	tie.SetTieNumber(start.TieNumber())
	start.Note().IncludeInRelation(tie, imo.NewTieData(start))
	stop.Note().IncludeInRelation(tie, imo.NewTieData(stop))
	imo.Delete(start)
	imo.Delete(stop)
}

func (r *Reader) addSlur(dto *imo.SlurDto) {
	num := dto.SlurNumber()
	pending, open := r.rel.slurs[num]
	switch dto.SlurType() {
	case imo.SlurStart:
		if open {
			r.warnLine(dto.LineNumber(), "slur %d started again before its stop", num)
			deleteAll(pending)
		}
		r.rel.slurs[num] = []*imo.SlurDto{dto}
		return
	case imo.SlurContinue:
		if !open {
			r.warnLine(dto.LineNumber(), "slur %d continued without start", num)
			imo.Delete(dto)
			return
		}
		r.rel.slurs[num] = append(pending, dto)
		return
	}
	if !open {
		r.warnLine(dto.LineNumber(), "slur %d stop without start", num)
		imo.Delete(dto)
		return
	}
	delete(r.rel.slurs, num)
	slur := imo.NewSlur()
	slur.SetSlurNumber(num)
	for _, d := range append(pending, dto) {
		d.Note().IncludeInRelation(slur, imo.NewSlurData(d))
		imo.Delete(d)
	}
}

// addBeam handles both beam syntaxes. While a g+ beam is open every note
// or rest without a mark joins it.
func (r *Reader) addBeam(e *Element, nr imo.NoteRest, m *noteMarks) {
	if m.beam != nil {
		num := m.beam.BeamNumber()
		pending := append(r.rel.beams[num], m.beam)
		if !m.beam.IsEndOfBeam() {
			r.rel.beams[num] = pending
			return
		}
		delete(r.rel.beams, num)
		r.buildBeam(e, pending)
		return
	}

	open := len(r.rel.legacyBeam) > 0
	t := m.legacyBeam
	switch {
	case t == imo.BeamNone && !open:
		return
	case t == imo.BeamNone || (t == imo.BeamContinue && open):
		t = imo.BeamContinue
	case t == imo.BeamBegin && open:
		r.warn(e, "g+ inside an open beam")
		t = imo.BeamContinue
	case t != imo.BeamBegin && !open:
		r.warn(e, "g%c without g+", imo.BeamSign(t))
		return
	}
	dto := imo.NewBeamDto()
	dto.SetBeamNumber(legacyBeamNumber)
	dto.SetBeamType(0, t)
	dto.SetNoteRest(nr)
	dto.SetLineNumber(e.Line)
	r.rel.legacyBeam = append(r.rel.legacyBeam, dto)
	if t == imo.BeamEnd {
		pending := r.rel.legacyBeam
		r.rel.legacyBeam = nil
		r.buildBeam(e, pending)
	}
}

func (r *Reader) buildBeam(e *Element, dtos []*imo.BeamDto) {
	if len(dtos) < 2 {
		r.warn(e, "beam with a single note ignored")
		deleteAll(dtos)
		return
	}
	beam := imo.NewBeam()
	for _, d := range dtos {
		d.NoteRest().IncludeInRelation(beam, imo.NewBeamData(d))
		imo.Delete(d)
	}
}

// addTuplet opens, extends or closes the current tuplet. Notes between
// the start and stop marks join it.
func (r *Reader) addTuplet(e *Element, nr imo.NoteRest, m *noteMarks) {
	open := len(r.rel.tuplet) > 0
	switch {
	case m.tuplet != nil:
		if open {
			r.warn(e, "tuplet started inside an open tuplet")
			imo.Delete(m.tuplet)
			return
		}
		m.tuplet.SetNoteRest(nr)
		r.rel.tuplet = []*imo.TupletDto{m.tuplet}
		return
	case !open:
		if m.tupletClose {
			r.warn(e, "tuplet end without start")
		}
		return
	}

	dto := imo.NewTupletDto()
	dto.SetTupletType(imo.TupletContinue)
	if m.tupletClose {
		dto.SetTupletType(imo.TupletStop)
	}
	dto.SetNoteRest(nr)
	dto.SetLineNumber(e.Line)
	r.rel.tuplet = append(r.rel.tuplet, dto)
	if !m.tupletClose {
		return
	}

	pending := r.rel.tuplet
	r.rel.tuplet = nil
	tuplet := imo.NewTuplet(pending[0])
	for _, d := range pending {
		d.NoteRest().IncludeInRelation(tuplet, imo.NewTupletData(d))
		imo.Delete(d)
	}
}

// analyseChord reads (chord (n ...) (n ...)). Notes are appended to the
// music data and then related through the chord.
func (r *Reader) analyseChord(e *Element, parent imo.Obj) imo.Obj {
	if _, ok := parent.(*imo.MusicData); !ok {
		r.warn(e, "chord outside music data")
		return nil
	}
	chord := imo.NewChord()
	var notes []*imo.Note
	for _, it := range e.Items {
		if it.Name != "n" {
			r.warn(it, "only notes are allowed in a chord")
			continue
		}
		if note, ok := r.analyseNoteRest(it, parent, len(notes) > 0).(*imo.Note); ok {
			notes = append(notes, note)
		}
	}
	for _, n := range notes {
		r.link(chord, n)
	}
	if len(notes) == 1 {
		r.warn(e, "chord with a single note")
		notes[0].RemoveFromRelation(chord)
		return nil
	}
	if len(notes) == 0 {
		imo.Delete(chord)
		return nil
	}
	return chord
}
