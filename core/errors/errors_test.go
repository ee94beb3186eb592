package errors

import (
	"errors"
	"io/fs"
	"testing"
)

func TestTypedErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantBase error
	}{
		{
			name:     "score not found",
			err:      NewNotFound("score", "7f3c"),
			wantMsg:  "score not found: 7f3c",
			wantBase: ErrNotFound,
		},
		{
			name:     "blob not found without id",
			err:      &NotFoundError{Resource: "blob"},
			wantMsg:  "blob not found",
			wantBase: ErrNotFound,
		},
		{
			name:     "validation with field",
			err:      NewValidation("ref", "prefix too short"),
			wantMsg:  "validation failed for ref: prefix too short",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "validation without field",
			err:      &ValidationError{Message: "empty catalog path"},
			wantMsg:  "validation failed: empty catalog path",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "read-only store",
			err:      NewReadOnly("store", "blob ab12"),
			wantMsg:  "cannot store blob ab12: read-only",
			wantBase: ErrReadOnly,
		},
		{
			name:     "read-only without resource",
			err:      NewReadOnly("remove", ""),
			wantMsg:  "cannot remove: read-only",
			wantBase: ErrReadOnly,
		},
		{
			name:     "io",
			err:      NewIO("read", "minuet.lms", fs.ErrNotExist),
			wantMsg:  "failed to read minuet.lms: file does not exist",
			wantBase: fs.ErrNotExist,
		},
		{
			name:     "io without path",
			err:      NewIO("begin migration", "", fs.ErrClosed),
			wantMsg:  "failed to begin migration: file already closed",
			wantBase: fs.ErrClosed,
		},
		{
			name:     "parse with path and line",
			err:      NewParseAt("ldp", "sonata.lms", 12, "unexpected EOF"),
			wantMsg:  "failed to parse ldp at sonata.lms:12: unexpected EOF",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "parse with path",
			err:      NewParse("musicxml", "duet.xml", "root element must be score-partwise"),
			wantMsg:  "failed to parse musicxml at duet.xml: root element must be score-partwise",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "parse with line only",
			err:      NewParseAt("xml", "", 3, "unexpected end element"),
			wantMsg:  "failed to parse xml at line 3: unexpected end element",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "parse without position",
			err:      NewParse("pitch", "", "too short"),
			wantMsg:  "failed to parse pitch: too short",
			wantBase: ErrInvalidInput,
		},
		{
			name:     "unsupported with reason",
			err:      NewUnsupported("score-timewise", "only partwise scores can be imported"),
			wantMsg:  "unsupported score-timewise: only partwise scores can be imported",
			wantBase: ErrUnsupported,
		},
		{
			name:     "unsupported",
			err:      &UnsupportedError{Feature: "mxl"},
			wantMsg:  "unsupported mxl",
			wantBase: ErrUnsupported,
		},
		{
			name:     "model",
			err:      NewModel("tie", 42, "1 participants, minimum is 2"),
			wantMsg:  "tie#42: 1 participants, minimum is 2",
			wantBase: ErrInconsistent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, tt.wantBase) {
				t.Errorf("%v should wrap %v", tt.err, tt.wantBase)
			}
		})
	}
}

func TestUnderlyingErrorWins(t *testing.T) {
	cause := errors.New("participle: unexpected token")
	pe := &ParseError{Format: "ldp", Message: "bad", Err: cause}
	if !errors.Is(pe, cause) || errors.Is(pe, ErrInvalidInput) {
		t.Error("ParseError should unwrap to its cause only")
	}

	ve := &ValidationError{Field: "hash", Message: "bad", Err: ErrNotFound}
	if !errors.Is(ve, ErrNotFound) {
		t.Error("ValidationError should unwrap to its cause")
	}

	nf := &NotFoundError{Resource: "blob", ID: "ab", Err: fs.ErrNotExist}
	if !errors.Is(nf, fs.ErrNotExist) {
		t.Error("NotFoundError should unwrap to its cause")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "store %s", "x") != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	err := Wrap(NewNotFound("score", "ab12"), "show")
	if err.Error() != "show: score not found: ab12" {
		t.Errorf("Wrap() = %q", err)
	}
	var nf *NotFoundError
	if !As(err, &nf) || nf.ID != "ab12" {
		t.Error("As should find the wrapped NotFoundError")
	}

	err = Wrapf(ErrAlreadyExists, "score %s", "ab12")
	if err.Error() != "score ab12: already exists" || !Is(err, ErrAlreadyExists) {
		t.Errorf("Wrapf() = %q", err)
	}
}
