package imo

// attachmentPriority orders attachments for rendering. Kinds not listed
// get lowPriority and keep their insertion order at the tail.
var attachmentPriority = map[Kind]int{
	KindTie:     0,
	KindBeam:    1,
	KindChord:   2,
	KindTuplet:  3,
	KindSlur:    4,
	KindFermata: 5,
}

const lowPriority = 5000

// AttachmentPriority returns the rendering priority of kind k.
func AttachmentPriority(k Kind) int {
	if p, ok := attachmentPriority[k]; ok {
		return p
	}
	return lowPriority
}

// Attachments is the ordered set of auxiliary objects of a content node.
// It is a tree child of its owner; the items themselves are owned by the
// collection, except relations, which are shared by all participants.
type Attachments struct {
	node
	items []AuxObj
}

// NewAttachments returns an empty collection.
func NewAttachments() *Attachments {
	a := &Attachments{}
	a.init(a, KindAttachments)
	return a
}

// Add inserts item before the first item with a greater priority.
func (a *Attachments) Add(item AuxObj) {
	if item == nil {
		return
	}
	p := AttachmentPriority(item.Kind())
	if p >= lowPriority {
		a.items = append(a.items, item)
		return
	}
	for i, it := range a.items {
		if AttachmentPriority(it.Kind()) > p {
			a.items = append(a.items, nil)
			copy(a.items[i+1:], a.items[i:])
			a.items[i] = item
			return
		}
	}
	a.items = append(a.items, item)
}

// Remove drops item from the collection without deleting it. No-op when
// item is not present.
func (a *Attachments) Remove(item AuxObj) {
	for i, it := range a.items {
		if it == item {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return
		}
	}
}

func (a *Attachments) contains(item AuxObj) bool {
	for _, it := range a.items {
		if it == item {
			return true
		}
	}
	return false
}

// Item returns the i-th item or nil when i is out of range.
func (a *Attachments) Item(i int) AuxObj {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Items returns a copy of the items in rendering order.
func (a *Attachments) Items() []AuxObj {
	res := make([]AuxObj, len(a.items))
	copy(res, a.items)
	return res
}

// NumItems returns the number of items.
func (a *Attachments) NumItems() int { return len(a.items) }

// FindItemOfType returns the first item of kind k, or nil.
func (a *Attachments) FindItemOfType(k Kind) AuxObj {
	for _, it := range a.items {
		if it.Kind() == k {
			return it
		}
	}
	return nil
}

// RemoveFromAllRelations empties the collection on behalf of so, which is
// about to be deleted. Relations go through the staff object removal
// protocol and may dissolve; other items are deleted. Calling it on an
// empty collection does nothing.
func (a *Attachments) RemoveFromAllRelations(so StaffObj) {
	for _, it := range a.Items() {
		if r, ok := it.(RelObj); ok {
			if r.isParticipant(so) {
				so.RemoveFromRelation(r)
			} else {
				a.Remove(r)
			}
			continue
		}
		a.Remove(it)
		Delete(it)
	}
	a.items = nil
}

func (a *Attachments) beforeDelete() {
	for _, it := range a.Items() {
		a.Remove(it)
		if it.IsDeleted() {
			continue
		}
		if r, ok := it.(RelObj); ok && r.NumObjects() > 0 {
			invariant("relation %s #%d released while %d participants reference it",
				r.Kind(), r.ID(), r.NumObjects())
		}
		Delete(it)
	}
}
