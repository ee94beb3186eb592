package imo

// StaffObj is a notated element positioned on a staff. Relation
// membership is changed only through IncludeInRelation and
// RemoveFromRelation, which keep the relation participant list, the
// attachments and the reldataobjs collection in lockstep.
type StaffObj interface {
	ContentObj
	Color() Color
	SetColor(c Color)
	Staff() int
	SetStaff(staff int)
	IncludeInRelation(r RelObj, data RelDataObj)
	RemoveFromRelation(r RelObj)
	Relations() []RelObj
	Reldataobjs() *Reldataobjs
	HasReldataobjs() bool
	NumReldataobjs() int
	Reldataobj(i int) RelDataObj
	FindReldataobj(k Kind) RelDataObj
	removeButNotDeleteRelation(r RelObj)
	staffObj() *staffBase
}

type staffBase struct {
	scoreObjBase
	staff int
}

func (s *staffBase) initStaffObj(self Obj, k Kind) {
	s.initScoreObj(self, k)
}

func (s *staffBase) staffObj() *staffBase { return s }

// Staff returns the 0-based staff index within the instrument.
func (s *staffBase) Staff() int { return s.staff }

// SetStaff sets the staff index.
func (s *staffBase) SetStaff(staff int) { s.staff = staff }

func (s *staffBase) asStaffObj() StaffObj {
	return s.self.(StaffObj)
}

// IncludeInRelation makes the staff object a participant of r: r is
// attached, the pair is registered in r and data, when not nil, is added
// to the reldataobjs collection.
func (s *staffBase) IncludeInRelation(r RelObj, data RelDataObj) {
	if s.deleted {
		invariant("%s #%d included in a relation after deletion", s.kind, s.id)
	}
	if r.IsDeleted() {
		invariant("deleted relation %s #%d reused", r.Kind(), r.ID())
	}
	s.AddAttachment(r)
	r.PushBack(s.asStaffObj(), data)
	if data != nil {
		s.addReldataobj(data)
	}
}

// RemoveFromRelation detaches the staff object from r. When r is left
// with fewer participants than its kind requires it dissolves, and once
// it has no participant at all it is deleted.
func (s *staffBase) RemoveFromRelation(r RelObj) {
	s.removeButNotDeleteRelation(r)

	if r.NumObjects() < r.MinNumberForAutodelete() {
		r.RemoveAll()
	}
	if r.NumObjects() == 0 && !r.IsDeleted() {
		Delete(r)
	}
}

func (s *staffBase) removeButNotDeleteRelation(r RelObj) {
	so := s.asStaffObj()
	if data := r.DataFor(so); data != nil {
		s.removeReldataobj(data)
	}
	r.Remove(so)
	if col := s.Attachments(); col != nil {
		col.Remove(r)
	}
}

// Relations returns the relations the staff object participates in, in
// attachment order.
func (s *staffBase) Relations() []RelObj {
	col := s.Attachments()
	if col == nil {
		return nil
	}
	var res []RelObj
	for _, it := range col.items {
		if r, ok := it.(RelObj); ok {
			res = append(res, r)
		}
	}
	return res
}

// Reldataobjs returns the relation data collection or nil.
func (s *staffBase) Reldataobjs() *Reldataobjs {
	if r, ok := s.ChildOfType(KindReldataobjs).(*Reldataobjs); ok {
		return r
	}
	return nil
}

// HasReldataobjs reports whether any relation data is held.
func (s *staffBase) HasReldataobjs() bool { return s.NumReldataobjs() > 0 }

// NumReldataobjs returns the number of relation data items.
func (s *staffBase) NumReldataobjs() int {
	if col := s.Reldataobjs(); col != nil {
		return col.NumChildren()
	}
	return 0
}

// Reldataobj returns the i-th relation data item or nil.
func (s *staffBase) Reldataobj(i int) RelDataObj {
	col := s.Reldataobjs()
	if col == nil {
		return nil
	}
	if d, ok := col.Child(i).(RelDataObj); ok {
		return d
	}
	return nil
}

// FindReldataobj returns the first relation data item of kind k, or nil.
func (s *staffBase) FindReldataobj(k Kind) RelDataObj {
	col := s.Reldataobjs()
	if col == nil {
		return nil
	}
	if d, ok := col.ChildOfType(k).(RelDataObj); ok {
		return d
	}
	return nil
}

func (s *staffBase) addReldataobj(d RelDataObj) {
	col := s.Reldataobjs()
	if col == nil {
		col = newReldataobjs()
		s.AppendChild(col)
	}
	col.AppendChild(d)
}

func (s *staffBase) removeReldataobj(d RelDataObj) {
	col := s.Reldataobjs()
	if col == nil {
		return
	}
	col.RemoveChild(d)
	if !d.IsDeleted() {
		Delete(d)
	}
	if col.NumChildren() == 0 {
		s.RemoveChild(col)
		Delete(col)
	}
}

func (s *staffBase) beforeDelete() {
	col := s.Attachments()
	if col == nil {
		return
	}
	col.RemoveFromAllRelations(s.asStaffObj())
	s.RemoveChild(col)
	Delete(col)
}

// Reldataobjs holds the relation data of one staff object. Its children
// are RelDataObj nodes.
type Reldataobjs struct {
	collection
}

func newReldataobjs() *Reldataobjs {
	r := &Reldataobjs{}
	r.init(r, KindReldataobjs)
	return r
}
