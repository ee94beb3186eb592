package imo

// Participant is one member of a relation with its per-member data.
// Data may be nil (chord members carry none).
type Participant struct {
	Object StaffObj
	Data   RelDataObj
}

// RelObj is a relation spanning several staff objects: tie, slur, beam,
// tuplet or chord. It is attached to every participant and keeps the
// participants in insertion order.
type RelObj interface {
	AuxObj
	PushBack(so StaffObj, data RelDataObj)
	Remove(so StaffObj)
	RemoveAll()
	DataFor(so StaffObj) RelDataObj
	NumObjects() int
	MinNumberForAutodelete() int
	Participants() []Participant
	StartObject() StaffObj
	EndObject() StaffObj
	StartData() RelDataObj
	EndData() RelDataObj
	isParticipant(so StaffObj) bool
	rel() *relBase
}

// minParticipants holds the kind specific dissolve threshold.
var minParticipants = map[Kind]int{
	KindTie:    2,
	KindSlur:   2,
	KindBeam:   2,
	KindTuplet: 2,
	KindChord:  2,
}

type relBase struct {
	auxBase
	related []Participant
}

func (r *relBase) initRel(self Obj, k Kind) {
	r.initScoreObj(self, k)
}

func (r *relBase) rel() *relBase { return r }

// PushBack appends a participant. Registering the same staff object twice
// is a caller error and is not checked.
func (r *relBase) PushBack(so StaffObj, data RelDataObj) {
	r.related = append(r.related, Participant{Object: so, Data: data})
}

// Remove erases the first entry for so. No-op when so is absent.
func (r *relBase) Remove(so StaffObj) {
	for i, p := range r.related {
		if p.Object == so {
			r.related = append(r.related[:i], r.related[i+1:]...)
			return
		}
	}
}

// RemoveAll detaches every participant. Each participant removes itself
// through its own protocol, which calls back into Remove, until the list
// is empty. The relation itself is not deleted.
func (r *relBase) RemoveAll() {
	self := r.self.(RelObj)
	for len(r.related) > 0 {
		n := len(r.related)
		r.related[0].Object.removeButNotDeleteRelation(self)
		if len(r.related) >= n {
			invariant("participant %s #%d did not leave relation %s #%d",
				r.related[0].Object.Kind(), r.related[0].Object.ID(), r.kind, r.id)
		}
	}
}

// DataFor returns the data registered for so, or nil.
func (r *relBase) DataFor(so StaffObj) RelDataObj {
	for _, p := range r.related {
		if p.Object == so {
			return p.Data
		}
	}
	return nil
}

func (r *relBase) isParticipant(so StaffObj) bool {
	for _, p := range r.related {
		if p.Object == so {
			return true
		}
	}
	return false
}

// NumObjects returns the number of participants.
func (r *relBase) NumObjects() int { return len(r.related) }

// MinNumberForAutodelete returns the participant count below which the
// relation dissolves.
func (r *relBase) MinNumberForAutodelete() int {
	if n, ok := minParticipants[r.kind]; ok {
		return n
	}
	return 2
}

// Participants returns a copy of the participant list.
func (r *relBase) Participants() []Participant {
	res := make([]Participant, len(r.related))
	copy(res, r.related)
	return res
}

// StartObject returns the first participant or nil.
func (r *relBase) StartObject() StaffObj {
	if len(r.related) == 0 {
		return nil
	}
	return r.related[0].Object
}

// EndObject returns the last participant or nil.
func (r *relBase) EndObject() StaffObj {
	if len(r.related) == 0 {
		return nil
	}
	return r.related[len(r.related)-1].Object
}

// StartData returns the data of the first participant or nil.
func (r *relBase) StartData() RelDataObj {
	if len(r.related) == 0 {
		return nil
	}
	return r.related[0].Data
}

// EndData returns the data of the last participant or nil.
func (r *relBase) EndData() RelDataObj {
	if len(r.related) == 0 {
		return nil
	}
	return r.related[len(r.related)-1].Data
}

func (r *relBase) beforeDelete() {
	if len(r.related) > 0 {
		invariant("relation %s #%d deleted with %d participants", r.kind, r.id, len(r.related))
	}
}

// RelDataObj is the per-participant side data of a relation. It is owned
// by the participant's Reldataobjs collection.
type RelDataObj interface {
	Obj
	relData() *relDataBase
}

type relDataBase struct {
	simpleBase
}

func (d *relDataBase) relData() *relDataBase { return d }
