package imo

import (
	"fmt"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
)

// relationChecker collects relation consistency problems while walking a
// tree.
type relationChecker struct {
	errs  []error
	seen  map[RelObj]bool
	order []RelObj
}

func (c *relationChecker) VisitsKind(k Kind) bool { return k.IsStaffObj() }

func (c *relationChecker) StartVisit(o Obj) {
	so, ok := o.(StaffObj)
	if !ok {
		return
	}
	where := Obj(so)

	for _, r := range so.Relations() {
		if !c.seen[r] {
			c.seen[r] = true
			c.order = append(c.order, r)
		}
		if r.IsDeleted() {
			c.fail(where, "attached %s #%d is deleted", r.Kind(), r.ID())
			continue
		}
		if !r.isParticipant(so) {
			c.fail(where, "attached %s #%d does not list it as participant", r.Kind(), r.ID())
		}
	}

	if col := so.Reldataobjs(); col != nil {
		for _, child := range col.children {
			d, ok := child.(RelDataObj)
			if !ok {
				c.fail(where, "reldataobjs holds %s", child.Kind())
				continue
			}
			if !c.dataOwned(so, d) {
				c.fail(where, "%s #%d belongs to no relation of the object", d.Kind(), d.ID())
			}
		}
	}
}

func (c *relationChecker) EndVisit(Obj) {}

func (c *relationChecker) dataOwned(so StaffObj, d RelDataObj) bool {
	for _, r := range so.Relations() {
		if r.DataFor(so) == d {
			return true
		}
	}
	return false
}

func (c *relationChecker) checkRelation(r RelObj) {
	where := Obj(r)
	if n, least := r.NumObjects(), r.MinNumberForAutodelete(); n < least {
		c.fail(where, "%d participants, minimum is %d", n, least)
	}
	for _, p := range r.Participants() {
		if p.Object.IsDeleted() {
			c.fail(where, "participant %s #%d is deleted", p.Object.Kind(), p.Object.ID())
			continue
		}
		attached := false
		for _, other := range p.Object.Relations() {
			if other == r {
				attached = true
				break
			}
		}
		if !attached {
			c.fail(where, "participant %s #%d does not attach it", p.Object.Kind(), p.Object.ID())
		}
		if p.Data != nil && p.Data.Parent() != Obj(p.Object.Reldataobjs()) {
			c.fail(where, "data of %s #%d is not held by its reldataobjs", p.Object.Kind(), p.Object.ID())
		}
	}
}

func (c *relationChecker) fail(where Obj, format string, args ...any) {
	c.errs = append(c.errs, errors.NewModel(where.Kind().String(), int64(where.ID()), fmt.Sprintf(format, args...)))
}

// Validate checks relation consistency for every staff object under root:
// each attached relation lists the object as participant and the reverse,
// each relation data item is registered in one of the object's relations,
// and every reachable relation has at least its minimum number of
// participants. It returns one *errors.ModelError per problem.
func Validate(root Obj) []error {
	c := &relationChecker{seen: make(map[RelObj]bool)}
	Walk(root, c)
	for _, r := range c.order {
		if !r.IsDeleted() {
			c.checkRelation(r)
		}
	}
	return c.errs
}
