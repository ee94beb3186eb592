package imo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChildAccess(t *testing.T) {
	s := NewScore()
	if s.NumChildren() != 2 {
		t.Fatalf("NumChildren() = %d, want 2", s.NumChildren())
	}
	if s.Child(-1) != nil || s.Child(2) != nil {
		t.Error("Child out of range should be nil")
	}
	if s.ChildOfType(KindOptions) != Obj(s.Options()) {
		t.Error("ChildOfType(options) mismatch")
	}
	if s.ChildOfType(KindInstrGroups) != nil {
		t.Error("ChildOfType(absent) should be nil")
	}
}

func TestAppendChildMoves(t *testing.T) {
	a, b := NewMusicData(), NewMusicData()
	n := NewNote()
	a.AppendChild(n)
	b.AppendChild(n)

	if a.NumChildren() != 0 {
		t.Errorf("old parent keeps %d children", a.NumChildren())
	}
	if n.Parent() != Obj(b) || b.Child(0) != Obj(n) {
		t.Error("child should be owned by the new parent")
	}

	b.RemoveChild(NewNote())
	if b.NumChildren() != 1 {
		t.Error("RemoveChild of a stranger must not change children")
	}
}

func TestAppendChildToSelfPanics(t *testing.T) {
	md := NewMusicData()
	defer func() {
		if recover() == nil {
			t.Error("appending a node to itself should panic")
		}
	}()
	md.AppendChild(md)
}

func TestIDs(t *testing.T) {
	a, b := NewNote(), NewNote()
	if a.ID() == b.ID() {
		t.Error("ids must be unique")
	}
	a.SetID(NoID)
	if a.ID() != NoID {
		t.Errorf("ID() = %d, want NoID", a.ID())
	}
}

func TestDeleteRecursive(t *testing.T) {
	in := NewInstrument()
	md := NewMusicData()
	in.AppendChild(md)
	n := NewNote()
	md.AppendChild(n)
	n.AddAttachment(NewFermata(PlacementAbove))

	Delete(in)
	for _, o := range []Obj{in, md, n} {
		if !o.IsDeleted() {
			t.Errorf("%s not deleted", o.TypeName())
		}
	}
	if md.Parent() != nil {
		t.Error("deleted child still has a parent")
	}
}

type recorder struct {
	events []string
}

func (r *recorder) StartVisit(o Obj) { r.events = append(r.events, "+"+o.TypeName()) }
func (r *recorder) EndVisit(o Obj)   { r.events = append(r.events, "-"+o.TypeName()) }

type noteRecorder struct {
	recorder
}

func (r *noteRecorder) VisitsKind(k Kind) bool { return k == KindNote }

func buildInstrument() *Instrument {
	in := NewInstrument()
	md := NewMusicData()
	in.AppendChild(md)
	md.AppendChild(NewClef(ClefG2))
	md.AppendChild(NewNote())
	md.AppendChild(NewRest())
	return in
}

func TestWalkOrder(t *testing.T) {
	r := &recorder{}
	Walk(buildInstrument(), r)
	want := []string{
		"+instrument", "+musicData",
		"+clef", "-clef", "+n", "-n", "+r", "-r",
		"-musicData", "-instrument",
	}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("visit order (-want +got):\n%s", diff)
	}
}

func TestWalkKindVisitorFilters(t *testing.T) {
	r := &noteRecorder{}
	Walk(buildInstrument(), r)
	if diff := cmp.Diff([]string{"+n", "-n"}, r.events); diff != "" {
		t.Errorf("filtered visit (-want +got):\n%s", diff)
	}
}

func TestWalkNonVisitor(t *testing.T) {
	in := buildInstrument()
	Walk(in, 42)
	Walk(nil, &recorder{})
	in.AcceptIn("not a visitor")
	in.AcceptOut(struct{}{})
}

func TestKindCategories(t *testing.T) {
	tests := []struct {
		kind                                   Kind
		simple, container, box, staff, aux     bool
		rel, content, relData, dto, collection bool
	}{
		{kind: KindAttachments, simple: true, collection: true},
		{kind: KindTieData, simple: true, relData: true},
		{kind: KindBeamDto, simple: true, dto: true},
		{kind: KindDocument, container: true, content: true},
		{kind: KindScore, box: true, content: true},
		{kind: KindNote, staff: true, content: true},
		{kind: KindFermata, aux: true, content: true},
		{kind: KindTie, aux: true, rel: true, content: true},
		{kind: KindChord, aux: true, rel: true, content: true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			k := tt.kind
			got := []bool{k.IsSimpleObj(), k.IsContainerObj(), k.IsBoxObj(), k.IsStaffObj(),
				k.IsAuxObj(), k.IsRelObj(), k.IsContentObj(), k.IsRelDataObj(), k.IsDto(), k.IsCollection()}
			want := []bool{tt.simple, tt.container, tt.box, tt.staff,
				tt.aux, tt.rel, tt.content, tt.relData, tt.dto, tt.collection}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("predicates (-want +got):\n%s", diff)
			}
		})
	}
}
