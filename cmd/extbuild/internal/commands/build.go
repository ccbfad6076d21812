package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"extbuild/internal/assemble"
	"extbuild/internal/buildcfg"
	"extbuild/internal/bundle"
	"extbuild/internal/logger"
	"extbuild/internal/watch"
)

type BuildCmd struct {
	Production  bool `help:"Production build: minified output, no source maps."`
	Development bool `help:"Development build: source maps enabled."`
	Watch       bool `help:"Rebuild on source change (development builds only)."`
	Test        bool `help:"Test build: compiled output only, no manifest or copied assets."`
	Clean       bool `help:"Remove target output directories before building."`

	Config string `help:"Build configuration file" default:"extbuild.yaml" type:"path"`
	Src    string `help:"Extension source root" default:"src"`
	Out    string `help:"Build output root" default:"build"`
}

func (b *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	log.Logger = logger.Setup(globals.Debug)

	cfg, err := buildcfg.Load(b.Config)
	if err != nil {
		return err
	}

	flags := buildcfg.Flags{
		Development: b.Development,
		Production:  b.Production,
		Watch:       b.Watch,
		Test:        b.Test,
	}
	mode := buildcfg.ResolveMode(flags)

	secrets, err := cfg.Profile(mode, b.Test)
	if err != nil {
		return err
	}

	bcfg := b.pipelineConfig(cfg, flags, secrets)

	log.Info().
		Str("mode", string(mode)).
		Bool("watch", bcfg.Watch != nil).
		Bool("test", b.Test).
		Msg("Build starting")

	if b.Clean {
		for _, target := range bcfg.Targets {
			if err := os.RemoveAll(filepath.Join(b.Out, target.String())); err != nil {
				return fmt.Errorf("failed to clean %s output: %w", target, err)
			}
		}
	}

	pipeline := bundle.New(bcfg)
	if err := pipeline.Build(); err != nil {
		return err
	}

	if bcfg.Watch == nil {
		return nil
	}

	log.Info().Str("src", b.Src).Msg("Watching for changes")

	watcher := watch.New(watch.Options{
		Paths:            []string{b.Src},
		Ignored:          bcfg.Watch.Ignored,
		PollInterval:     bcfg.Watch.PollInterval,
		AggregateTimeout: bcfg.Watch.AggregateTimeout,
	})

	return watcher.Run(ctx, func() {
		if err := pipeline.Build(); err != nil {
			log.Error().Err(err).Msg("Rebuild failed")
		}
	})
}

// pipelineConfig assembles the compiler configuration, including the
// post-build stage list. Test builds get no post-build stages at all.
func (b *BuildCmd) pipelineConfig(cfg *buildcfg.Config, flags buildcfg.Flags, secrets buildcfg.Secrets) bundle.Config {
	bcfg := bundle.Configure(flags, secrets, b.Src, b.Out)

	if flags.Test {
		return bcfg
	}

	asm := assemble.Config{
		OutRoot: b.Out,
		Targets: bcfg.Targets,
		Copies:  assemble.DefaultCopySpecs(b.Src),
		Meta:    cfg.Meta,
		Secrets: secrets,
	}
	bcfg.PostBuild = []bundle.Stage{
		{Name: "assemble", Run: func() error { return assemble.Run(asm) }},
	}

	return bcfg
}
