// Package validation checks user-supplied paths and score sources before
// they reach the readers, to guard against oversized input (CWE-400),
// control characters in paths and binary files passed as scores.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	scoreerrors "github.com/FocuswithJustin/JuniperScore/core/errors"
)

// Security limits to prevent DoS attacks (CWE-400).
const (
	// MaxSourceSize is the maximum accepted score source size (64 MB).
	MaxSourceSize = 64 << 20
	// MaxFilenameLength is the maximum allowed filename length.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrSourceTooLarge   = errors.New("source too large")
	ErrBinarySource     = errors.New("source is not text")
)

// ValidateFilename checks that a filename has no path separators, control
// characters or leading hyphen.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrInvalidFilename
	}
	if len(filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}
	if filename == "." || filename == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}
	if strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}
	// can be confused with command flags
	if strings.HasPrefix(filename, "-") {
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}
	return nil
}

// ValidatePath checks a path for length limits and control characters,
// null bytes included.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateOutputPath checks a path the tool will write to. Its last
// element must also be a valid filename.
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	return ValidateFilename(filepath.Base(path))
}

// magic byte signatures of files that are commonly mistaken for scores.
var magicBytes = []struct {
	what  string
	magic []byte
}{
	{"compressed MusicXML (.mxl) or zip archive", []byte{0x50, 0x4b, 0x03, 0x04}},
	{"gzip data", []byte{0x1f, 0x8b}},
	{"xz data", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{"SQLite database", []byte("SQLite format 3")},
	{"MIDI file", []byte("MThd")},
	{"PDF document", []byte("%PDF")},
}

// CheckSource verifies that data can be a textual score source: it must
// be within MaxSourceSize, must not carry a known binary signature and
// must look like text.
func CheckSource(name string, data []byte) error {
	if len(data) > MaxSourceSize {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrSourceTooLarge, name, len(data), MaxSourceSize)
	}
	for _, sig := range magicBytes {
		if bytes.HasPrefix(data, sig.magic) {
			return scoreerrors.NewUnsupported(sig.what, name+" is not an LDP or MusicXML text file")
		}
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	if len(head) > 0 && !isLikelyText(head) {
		return fmt.Errorf("%w: %s", ErrBinarySource, name)
	}
	return nil
}

// isLikelyText reports whether buf looks like UTF-8 or ASCII text.
func isLikelyText(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
		// UTF-8 continuation bytes (0x80-0xBF) and start bytes (0xC0-0xFD) are neutral
	}
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
