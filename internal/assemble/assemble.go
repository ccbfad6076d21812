// Package assemble populates each target's output tree with static
// assets and the generated manifest after the compiler has run.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"extbuild/internal/buildcfg"
	"extbuild/internal/manifest"
)

// CopySpec pairs a source path with a destination path relative to a
// target's output root. A file source lands inside Dst (flattened); a
// directory source is copied recursively onto Dst.
type CopySpec struct {
	Src string
	Dst string
}

// DefaultCopySpecs is the ordered list of static assets every full
// build ships: the WebExtension polyfill plus the html, _locales,
// fonts, and images subtrees.
func DefaultCopySpecs(srcRoot string) []CopySpec {
	return []CopySpec{
		{Src: filepath.Join("node_modules", "webextension-polyfill", "dist", "browser-polyfill.js"), Dst: filepath.Join("js", "lib")},
		{Src: filepath.Join(srcRoot, "html"), Dst: "html"},
		{Src: filepath.Join(srcRoot, "_locales"), Dst: "_locales"},
		{Src: filepath.Join(srcRoot, "fonts"), Dst: "fonts"},
		{Src: filepath.Join(srcRoot, "images"), Dst: "images"},
	}
}

// Config is the resolved input of one assembly pass. Immutable; watch
// mode re-runs the pass with the same value.
type Config struct {
	OutRoot string
	Targets []manifest.Target
	Copies  []CopySpec
	Meta    buildcfg.Meta
	Secrets buildcfg.Secrets
}

// Run populates every target's output tree: ensure js/lib exists, copy
// the static assets, then write manifest.json last so it never lands in
// a half-assembled tree. Re-runnable; copies overwrite.
func Run(cfg Config) error {
	for _, target := range cfg.Targets {
		root := filepath.Join(cfg.OutRoot, target.String())

		if err := os.MkdirAll(filepath.Join(root, "js", "lib"), 0755); err != nil {
			return fmt.Errorf("failed to prepare output directory for %s: %w", target, err)
		}

		for _, spec := range cfg.Copies {
			if err := copyPath(spec.Src, filepath.Join(root, spec.Dst)); err != nil {
				return err
			}
		}

		doc, err := manifest.Build(cfg.Meta, cfg.Secrets, target)
		if err != nil {
			return err
		}
		if err := doc.WriteFile(root); err != nil {
			return fmt.Errorf("failed to write %s manifest: %w", target, err)
		}

		log.Info().Str("target", target.String()).Str("dir", root).Msg("Assembled extension")
	}

	return nil
}

// copyPath copies src into dst. Files are flattened into the dst
// directory; directories are copied recursively. A missing source
// propagates the filesystem error unmodified.
func copyPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(src, filepath.Join(dst, filepath.Base(src)))
	}

	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}
