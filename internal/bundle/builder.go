// Package bundle drives esbuild over the extension entry points and
// runs the post-build stages.
package bundle

import (
	"errors"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"

	"extbuild/internal/manifest"
)

// Pipeline compiles the extension entry points into every target's
// output tree and then runs the configured post-build stages.
type Pipeline struct {
	config Config
}

// New creates a pipeline with the given configuration.
func New(config Config) *Pipeline {
	return &Pipeline{config: config}
}

// Build runs one full pass: compile each target, then run post-build
// stages in order. Safe to call again on watch-mode rebuilds.
func (p *Pipeline) Build() error {
	for _, target := range p.config.Targets {
		if err := p.compile(target); err != nil {
			return err
		}
	}

	for _, stage := range p.config.PostBuild {
		log.Debug().Str("stage", stage.Name).Msg("Running post-build stage")
		if err := stage.Run(); err != nil {
			return fmt.Errorf("post-build stage %s: %w", stage.Name, err)
		}
	}

	return nil
}

func (p *Pipeline) compile(target manifest.Target) error {
	entryPoints := make([]api.EntryPoint, 0, len(p.config.Entries))
	for _, e := range p.config.Entries {
		entryPoints = append(entryPoints, api.EntryPoint{
			InputPath:  e.Path,
			OutputPath: e.Name,
		})
	}

	if len(entryPoints) == 0 {
		return errors.New("no entry points configured")
	}

	outDir := p.config.OutDirFor(target)

	log.Info().
		Str("target", target.String()).
		Str("outdir", outDir).
		Msg("Compiling scripts")

	var plugins []api.Plugin
	if p.config.SecretsModule != "" {
		plugins = append(plugins, secretsPlugin(p.config.SecretsModule, p.config.Secrets))
	}

	result := api.Build(api.BuildOptions{
		EntryPointsAdvanced: entryPoints,
		Bundle:              true,
		Write:               true,
		Outdir:              outDir,
		Format:              api.FormatIIFE,
		MinifyWhitespace:    p.config.Minify,
		MinifyIdentifiers:   p.config.Minify,
		MinifySyntax:        p.config.Minify,
		TreeShaking:         api.TreeShakingTrue,
		Sourcemap:           cond(p.config.SourceMap, api.SourceMapLinked, api.SourceMapNone),
		Plugins:             plugins,
		LogLevel:            api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		for _, msg := range result.Errors {
			log.Error().Str("error", msg.Text).Msg("Build error")
		}
		return errors.New("esbuild failed with errors")
	}

	for _, file := range result.OutputFiles {
		log.Debug().Str("file", file.Path).Msg("Built file")
	}

	return nil
}

func cond[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}
