package bundle

import (
	"path/filepath"
	"time"

	"extbuild/internal/buildcfg"
	"extbuild/internal/manifest"
)

// Entry maps a source module onto its compiled output name under each
// target's js/ directory.
type Entry struct {
	// Name is the output basename, e.g. "background" -> js/background.js
	Name string
	// Path is the source module path
	Path string
}

// WatchOptions configures continuous rebuild mode.
type WatchOptions struct {
	// AggregateTimeout is how long to collect further changes before
	// triggering a rebuild.
	AggregateTimeout time.Duration
	// PollInterval is how often the source tree is scanned.
	PollInterval time.Duration
	// Ignored path segments are never scanned.
	Ignored []string
}

// Stage is a named post-build step. Stages run in order after every
// successful compile pass.
type Stage struct {
	Name string
	Run  func() error
}

// Config is the full compiler configuration for one build invocation.
type Config struct {
	Mode      buildcfg.Mode
	Minify    bool
	SourceMap bool
	// Watch is nil for single-pass builds.
	Watch *WatchOptions

	Entries []Entry
	// SecretsModule is the one source file whose placeholder tokens are
	// substituted with profile values during compilation.
	SecretsModule string
	Secrets       buildcfg.Secrets

	SrcRoot string
	OutRoot string
	Targets []manifest.Target

	PostBuild []Stage
}

// OutDirFor returns the compiled-script directory for a target.
func (c Config) OutDirFor(target manifest.Target) string {
	return filepath.Join(c.OutRoot, target.String(), "js")
}

// Configure derives the compiler configuration from the invocation
// flags and the already-resolved profile. Post-build stages are wired
// by the caller; test builds must leave PostBuild empty.
func Configure(flags buildcfg.Flags, secrets buildcfg.Secrets, srcRoot, outRoot string) Config {
	mode := buildcfg.ResolveMode(flags)

	cfg := Config{
		Mode:      mode,
		Minify:    mode == buildcfg.ModeProduction,
		SourceMap: mode == buildcfg.ModeDevelopment,
		Entries: []Entry{
			{Name: "background", Path: filepath.Join(srcRoot, "background.ts")},
			{Name: "content", Path: filepath.Join(srcRoot, "content.ts")},
			{Name: "popup", Path: filepath.Join(srcRoot, "popup.ts")},
		},
		SecretsModule: filepath.Join(srcRoot, "secrets.ts"),
		Secrets:       secrets,
		SrcRoot:       srcRoot,
		OutRoot:       outRoot,
		Targets:       manifest.Targets(),
	}

	if flags.Watch && mode == buildcfg.ModeDevelopment {
		cfg.Watch = &WatchOptions{
			AggregateTimeout: 1000 * time.Millisecond,
			PollInterval:     1000 * time.Millisecond,
			Ignored:          []string{"node_modules"},
		}
	}

	return cfg
}
