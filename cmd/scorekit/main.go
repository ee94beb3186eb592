// Command scorekit reads LDP and MusicXML scores into the internal model,
// writes them back as LDP, and keeps a content-addressed store of score
// sources indexed by a SQLite catalog.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/JuniperScore/core/cache"
	"github.com/FocuswithJustin/JuniperScore/core/cas"
	"github.com/FocuswithJustin/JuniperScore/internal/catalog"
	"github.com/FocuswithJustin/JuniperScore/internal/config"
	"github.com/FocuswithJustin/JuniperScore/internal/logging"
)

const version = "0.1.0"

// sourceCacheBytes bounds the raw sources kept in memory by show.
const sourceCacheBytes = 64 << 20

// CLI defines the command-line interface for scorekit.
type CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"Configuration file (default: ~/.scorekit/config.toml)" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" enum:",debug,info,warn,error" default:""`
	LogFormat string `name:"log-format" help:"Log format (json, text)" enum:",json,text" default:""`

	Parse   ParseCmd   `cmd:"" help:"Parse a score and print a summary"`
	Export  ExportCmd  `cmd:"" help:"Convert a score to LDP"`
	Store   StoreCmd   `cmd:"" help:"Add a score to the store and catalog"`
	List    ListCmd    `cmd:"" help:"List cataloged scores"`
	Show    ShowCmd    `cmd:"" help:"Show a cataloged score"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// app carries the state shared by commands.
type app struct {
	cfg     *config.Config
	out     io.Writer
	ctx     context.Context
	docs    *cache.DocumentCache
	sources *cache.BoundedCache[string, []byte]
}

func newApp(cli *CLI, out io.Writer) (*app, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Logging.Format = cli.LogFormat
	}
	logging.InitLogger(cfg.LogLevel(), cfg.LogFormat())

	cacheCfg := cache.DefaultConfig()
	cacheCfg.MaxSize = cfg.Store.CacheSize
	return &app{
		cfg:     cfg,
		out:     out,
		ctx:     context.Background(),
		docs:    cache.NewDocumentCache(cacheCfg),
		sources: cache.NewSourceCache(cacheCfg, sourceCacheBytes),
	}, nil
}

func (a *app) openStore(write bool) (*cas.Store, error) {
	return cas.NewStore(a.cfg.Store.Dir, cas.Options{
		Compress: a.cfg.Store.Compress,
		ReadOnly: a.cfg.Store.ReadOnly || !write,
	})
}

func (a *app) openCatalog() (*catalog.Catalog, error) {
	return catalog.Open(a.ctx, a.cfg.Catalog.Path)
}

func run(args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("scorekit"),
		kong.Description("Score model toolkit - read, convert and catalog music scores"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	a, err := newApp(&cli, out)
	if err != nil {
		return err
	}
	return ctx.Run(a)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "scorekit: %v\n", err)
		os.Exit(1)
	}
}
