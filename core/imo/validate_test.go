package imo

import (
	"errors"
	"testing"

	scoreerrors "github.com/FocuswithJustin/JuniperScore/core/errors"
)

func TestValidateCleanTree(t *testing.T) {
	md := NewMusicData()
	beam := NewBeam()
	for i, seg := range []string{"+", "-"} {
		n := NewNote()
		md.AppendChild(n)
		dto := NewBeamDto()
		dto.SetBeamTypeFromSegments(seg)
		n.IncludeInRelation(beam, NewBeamData(dto))
		if i == 0 {
			n.AddAttachment(NewFermata(PlacementAbove))
		}
	}
	if errs := Validate(md); len(errs) != 0 {
		t.Errorf("Validate() = %v", errs)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(a, b *Note, tie *Tie)
	}{
		{
			name:    "relation forgets a participant",
			corrupt: func(a, _ *Note, tie *Tie) { tie.Remove(a) },
		},
		{
			name:    "participant forgets the relation",
			corrupt: func(_, b *Note, tie *Tie) { b.Attachments().Remove(tie) },
		},
		{
			name: "orphan relation data",
			corrupt: func(a, _ *Note, _ *Tie) {
				a.addReldataobj(NewSlurData(nil))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, a, b, tie := tiedPair(t)
			tt.corrupt(a, b, tie)

			errs := Validate(md)
			if len(errs) == 0 {
				t.Fatal("Validate() found nothing")
			}
			for _, err := range errs {
				var merr *scoreerrors.ModelError
				if !errors.As(err, &merr) {
					t.Errorf("error %T, want *ModelError", err)
				} else if merr.ID == 0 || merr.Kind == "" {
					t.Errorf("error %v does not locate the object", err)
				}
				if !errors.Is(err, scoreerrors.ErrInconsistent) {
					t.Errorf("error %v should wrap ErrInconsistent", err)
				}
			}
		})
	}
}
