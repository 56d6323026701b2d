// Command staticpress builds, previews and scaffolds staticpress sites.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/eringen/staticpress"
)

// version is set at build time via ldflags.
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config  string           `short:"c" help:"Site configuration file" default:"site.yaml" type:"path"`
	EnvFile string           `name:"env-file" help:"Dotenv file loaded before the configuration" default:".env" type:"path"`
	Verbose bool             `short:"v" help:"Enable debug logging"`

	logger *slog.Logger `kong:"-"`
}

// CLI is the command-line interface definition.
type CLI struct {
	Globals

	Build   BuildCmd   `cmd:"" help:"Export the site as static HTML"`
	Serve   ServeCmd   `cmd:"" help:"Serve a live preview that rebuilds on change"`
	New     NewCmd     `cmd:"" help:"Create a new site from the starter templates"`
	Version VersionCmd `cmd:"" help:"Print the version"`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("staticpress %s\n", version)
	return nil
}

// AfterApply runs after flag parsing; it sets up logging and loads the
// dotenv file so the environment can override site.yaml.
func (g *Globals) AfterApply() error {
	level := slog.LevelInfo
	if g.Verbose {
		level = slog.LevelDebug
	}
	g.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.logger)

	if err := godotenv.Load(g.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", g.EnvFile, err)
	}
	return nil
}

// app loads the configuration and creates an App with the shared options.
func (g *Globals) app(opts ...staticpress.Option) (*staticpress.App, error) {
	cfg, err := staticpress.LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}
	opts = append([]staticpress.Option{staticpress.WithLogger(g.logger)}, opts...)
	return staticpress.New(cfg, staticpress.ViewFuncs{}, opts...), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("staticpress"),
		kong.Description("A static blog generator for Markdown posts."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	err := kctx.Run(&cli.Globals)
	stop()
	if err != nil {
		slog.Error("Command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
