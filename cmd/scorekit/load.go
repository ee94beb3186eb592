package main

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/core/imo"
	"github.com/FocuswithJustin/JuniperScore/core/ldp"
	"github.com/FocuswithJustin/JuniperScore/core/linker"
	"github.com/FocuswithJustin/JuniperScore/core/musicxml"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

// Source formats.
const (
	formatLDP      = "ldp"
	formatMusicXML = "musicxml"
)

var extFormats = map[string]string{
	".lms":      formatLDP,
	".ldp":      formatLDP,
	".xml":      formatMusicXML,
	".musicxml": formatMusicXML,
}

// detectFormat picks the reader from the file extension, falling back to
// the first significant byte of the source.
func detectFormat(name string, data []byte) (string, error) {
	if f, ok := extFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return f, nil
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	switch {
	case len(trimmed) == 0:
		return "", errors.NewParse("score", name, "empty source")
	case trimmed[0] == '(':
		return formatLDP, nil
	case trimmed[0] == '<':
		return formatMusicXML, nil
	}
	return "", errors.NewUnsupported("format of "+name, "not LDP or MusicXML")
}

// loaded is a parsed score with what the reader reported about it.
type loaded struct {
	Format   string
	Doc      *imo.Document
	Warnings []string
}

// readDocument parses data with the reader for format. A strict linker
// turns unplaced objects into an error.
func readDocument(name, format string, data []byte, strict bool) (*loaded, error) {
	lc := linker.Config{Strict: strict}
	res := &loaded{Format: format}
	var err error

	switch format {
	case formatLDP:
		r := ldp.NewReader(ldp.Config{Linker: lc})
		res.Doc, err = r.Read(name, data)
		for _, w := range r.Warnings() {
			res.Warnings = append(res.Warnings, w.String())
		}
	case formatMusicXML:
		im := musicxml.NewImporter(musicxml.Config{Linker: lc})
		res.Doc, err = im.Import(name, data)
		for _, w := range im.Warnings() {
			res.Warnings = append(res.Warnings, w.String())
		}
	default:
		return nil, errors.NewUnsupported("format "+format, "use ldp or musicxml")
	}
	if err != nil {
		return nil, err
	}

	logging.ScoreLoaded(name, format, count(res.Doc).Instruments, "warnings", len(res.Warnings))
	return res, nil
}

// summary holds the facts recorded in the catalog and printed by parse.
type summary struct {
	Title       string
	Scores      int
	Instruments int
	StaffObjs   int
	Errors      []error
}

// validateDoc checks the model once per command, from summarize.
var validateDoc = imo.Validate

// summarize counts the content of doc and validates it.
func summarize(doc *imo.Document) summary {
	s := count(doc)
	s.Errors = validateDoc(doc)
	return s
}

func count(doc *imo.Document) summary {
	var s summary
	for i := 0; i < doc.NumContentItems(); i++ {
		score, ok := doc.ContentItem(i).(*imo.Score)
		if !ok {
			continue
		}
		s.Scores++
		if s.Title == "" && len(score.Titles()) > 0 {
			s.Title = score.Titles()[0].Text()
		}
		s.Instruments += score.NumInstruments()
		for j := 0; j < score.NumInstruments(); j++ {
			if md := score.Instrument(j).MusicData(); md != nil {
				s.StaffObjs += len(md.StaffObjs())
			}
		}
	}
	return s
}
