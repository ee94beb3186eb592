package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/FocuswithJustin/JuniperScore/core/cas"
	"github.com/FocuswithJustin/JuniperScore/core/errors"
	"github.com/FocuswithJustin/JuniperScore/core/imo"
	"github.com/FocuswithJustin/JuniperScore/core/ldp"
	"github.com/FocuswithJustin/JuniperScore/core/sqlite"
	"github.com/FocuswithJustin/JuniperScore/internal/catalog"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
	"github.com/FocuswithJustin/JuniperScore/internal/validation"
)

// SourceFlags are shared by commands reading a score file.
type SourceFlags struct {
	Format string `help:"Source format (ldp, musicxml); detected when empty" enum:",ldp,musicxml" default:""`
	Strict bool   `help:"Fail when the linker cannot place an object"`
}

func (f SourceFlags) load(a *app, path string) (*loaded, []byte, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, nil, errors.NewValidation("path", err.Error())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.NewIO("read", path, err)
	}
	if err := validation.CheckSource(path, data); err != nil {
		return nil, nil, err
	}
	format := f.Format
	if format == "" {
		if format, err = detectFormat(path, data); err != nil {
			return nil, nil, err
		}
	}
	res, err := readDocument(filepath.Base(path), format, data, f.Strict || a.cfg.Linker.Strict)
	if err != nil {
		return nil, nil, err
	}
	return res, data, nil
}

func printSummary(a *app, s summary, warnings []string) {
	if s.Title != "" {
		fmt.Fprintf(a.out, "  Title: %s\n", s.Title)
	}
	fmt.Fprintf(a.out, "  Scores: %d\n", s.Scores)
	fmt.Fprintf(a.out, "  Instruments: %d\n", s.Instruments)
	fmt.Fprintf(a.out, "  Staff objects: %d\n", s.StaffObjs)
	for _, w := range warnings {
		fmt.Fprintf(a.out, "  warning: %s\n", w)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(a.out, "  invalid: %v\n", e)
	}
}

// ParseCmd parses a score and prints a summary.
type ParseCmd struct {
	SourceFlags `embed:""`
	Path        string `arg:"" help:"Score file (LDP or MusicXML)" type:"existingfile"`
}

func (c *ParseCmd) Run(a *app) error {
	res, _, err := c.load(a, c.Path)
	if err != nil {
		return err
	}
	s := summarize(res.Doc)
	fmt.Fprintf(a.out, "Parsed: %s (%s)\n", c.Path, res.Format)
	printSummary(a, s, res.Warnings)
	if len(s.Errors) > 0 {
		return errors.Wrapf(errors.ErrInconsistent, "%d model errors", len(s.Errors))
	}
	return nil
}

// ExportCmd converts a score to LDP.
type ExportCmd struct {
	SourceFlags `embed:""`
	Path        string `arg:"" help:"Score file (LDP or MusicXML)" type:"existingfile"`
	Out         string `short:"o" help:"Output file (default: stdout)" type:"path"`
}

func (c *ExportCmd) Run(a *app) error {
	res, _, err := c.load(a, c.Path)
	if err != nil {
		return err
	}
	out := ldp.Export(res.Doc) + "\n"
	if c.Out == "" {
		_, err := fmt.Fprint(a.out, out)
		return err
	}
	if err := validation.ValidateOutputPath(c.Out); err != nil {
		return errors.NewValidation("out", err.Error())
	}
	if err := os.WriteFile(c.Out, []byte(out), 0o644); err != nil {
		return errors.NewIO("write", c.Out, err)
	}
	fmt.Fprintf(a.out, "Exported: %s\n", c.Out)
	return nil
}

// StoreCmd adds a score to the content store and the catalog.
type StoreCmd struct {
	SourceFlags `embed:""`
	Path        string `arg:"" help:"Score file (LDP or MusicXML)" type:"existingfile"`
}

func (c *StoreCmd) Run(a *app) error {
	res, data, err := c.load(a, c.Path)
	if err != nil {
		return err
	}
	s := summarize(res.Doc)
	if len(s.Errors) > 0 {
		return errors.Wrapf(errors.ErrInconsistent, "refusing to store a score with %d model errors", len(s.Errors))
	}

	store, err := a.openStore(true)
	if err != nil {
		return err
	}
	hashes, err := store.StoreWithBlake3(data)
	if err != nil {
		return err
	}
	cat, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	entry, err := cat.Add(a.ctx, catalog.Entry{
		Hash:        hashes.SHA256,
		Blake3:      hashes.BLAKE3,
		Name:        filepath.Base(c.Path),
		Format:      res.Format,
		Title:       s.Title,
		Instruments: s.Instruments,
		Size:        int64(len(data)),
	})
	switch {
	case errors.Is(err, errors.ErrAlreadyExists):
		fmt.Fprintf(a.out, "Already stored: %s\n", entry.ID)
		return nil
	case err != nil:
		return err
	}
	logging.InfoContext(logging.WithScoreID(a.ctx, entry.ID), "score_stored",
		"hash", hashes.SHA256, "format", res.Format)

	fmt.Fprintf(a.out, "Stored: %s\n", c.Path)
	fmt.Fprintf(a.out, "  ID: %s\n", entry.ID)
	fmt.Fprintf(a.out, "  SHA-256: %s\n", hashes.SHA256)
	fmt.Fprintf(a.out, "  BLAKE3: %s\n", hashes.BLAKE3)
	return nil
}

// ListCmd lists cataloged scores.
type ListCmd struct {
	Format string `help:"Only list scores of this source format" enum:",ldp,musicxml" default:""`
	Limit  int    `help:"Maximum number of entries (0 = all)" default:"0"`
	JSON   bool   `name:"json" help:"Print entries as JSON"`
}

func (c *ListCmd) Run(a *app) error {
	cat, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(a.ctx, catalog.ListOptions{Format: c.Format, Limit: c.Limit})
	if err != nil {
		return err
	}
	if c.JSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []catalog.Entry{}
		}
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No scores stored.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFORMAT\tINSTR\tTITLE\tNAME\tADDED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", e.ID[:8], e.Format, e.Instruments,
			e.Title, e.Name, e.CreatedAt.Format(time.DateOnly))
	}
	return w.Flush()
}

// ShowCmd prints a cataloged score.
type ShowCmd struct {
	Ref    string `arg:"" help:"Catalog id or id prefix, or a BLAKE3 hash with --blake3"`
	Blake3 bool   `name:"blake3" help:"Treat the reference as a BLAKE3 hash"`
	Export bool   `help:"Print the score as LDP"`
}

func (c *ShowCmd) Run(a *app) error {
	store, err := a.openStore(false)
	if err != nil {
		return err
	}
	cat, err := a.openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	var entry catalog.Entry
	if c.Blake3 {
		sha, lerr := store.LookupBlake3(c.Ref)
		if lerr != nil {
			return lerr
		}
		entry, err = cat.FindByHash(a.ctx, sha)
	} else {
		entry, err = cat.Resolve(a.ctx, c.Ref)
	}
	if err != nil {
		return err
	}
	ctx := logging.WithScoreID(a.ctx, entry.ID)

	doc, err := a.docs.GetOrLoad(entry.Hash, func() (*imo.Document, error) {
		logging.DebugContext(ctx, "score_cache_miss", "hash", entry.Hash)
		data, err := a.source(store, entry.Hash)
		if err != nil {
			return nil, err
		}
		res, err := readDocument(entry.Name, entry.Format, data, false)
		if err != nil {
			return nil, err
		}
		return res.Doc, nil
	})
	if err != nil {
		return err
	}

	if c.Export {
		_, err := fmt.Fprintln(a.out, ldp.Export(doc))
		return err
	}
	fmt.Fprintf(a.out, "Score: %s\n", entry.ID)
	fmt.Fprintf(a.out, "  Name: %s (%s, %d bytes)\n", entry.Name, entry.Format, entry.Size)
	fmt.Fprintf(a.out, "  SHA-256: %s\n", entry.Hash)
	fmt.Fprintf(a.out, "  BLAKE3: %s\n", entry.Blake3)
	fmt.Fprintf(a.out, "  Added: %s\n", entry.CreatedAt.Format(time.RFC3339))
	printSummary(a, summarize(doc), nil)
	return nil
}

// source returns the blob for hash, through the source cache.
func (a *app) source(store *cas.Store, hash string) ([]byte, error) {
	if data, ok := a.sources.Get(hash); ok {
		return data, nil
	}
	data, err := store.Retrieve(hash)
	if err != nil {
		return nil, err
	}
	a.sources.Put(hash, data)
	return data, nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(a *app) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(a.out, "scorekit %s\n", version)
	fmt.Fprintf(a.out, "  Go: %s\n", runtime.Version())
	fmt.Fprintf(a.out, "  SQLite driver: %s (%s)\n", info.Package, info.DriverType)
	return nil
}
