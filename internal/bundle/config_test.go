package bundle

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"extbuild/internal/buildcfg"
	"extbuild/internal/manifest"
)

func TestConfigureProduction(t *testing.T) {
	cfg := Configure(buildcfg.Flags{Production: true}, buildcfg.Secrets{}, "src", "build")

	require.Equal(t, buildcfg.ModeProduction, cfg.Mode)
	require.True(t, cfg.Minify)
	require.False(t, cfg.SourceMap)
	require.Nil(t, cfg.Watch)
}

func TestConfigureDevelopment(t *testing.T) {
	cfg := Configure(buildcfg.Flags{Development: true}, buildcfg.Secrets{}, "src", "build")

	require.Equal(t, buildcfg.ModeDevelopment, cfg.Mode)
	require.False(t, cfg.Minify)
	require.True(t, cfg.SourceMap)
	require.Nil(t, cfg.Watch)
}

func TestConfigureDevelopmentWatch(t *testing.T) {
	cfg := Configure(buildcfg.Flags{Development: true, Watch: true}, buildcfg.Secrets{}, "src", "build")

	require.NotNil(t, cfg.Watch)
	require.Equal(t, 1000*time.Millisecond, cfg.Watch.AggregateTimeout)
	require.Equal(t, 1000*time.Millisecond, cfg.Watch.PollInterval)
	require.Equal(t, []string{"node_modules"}, cfg.Watch.Ignored)
}

func TestConfigureWatchIgnoredOutsideDevelopment(t *testing.T) {
	cfg := Configure(buildcfg.Flags{Production: true, Watch: true}, buildcfg.Secrets{}, "src", "build")
	require.Nil(t, cfg.Watch)

	cfg = Configure(buildcfg.Flags{Watch: true}, buildcfg.Secrets{}, "src", "build")
	require.Nil(t, cfg.Watch)
}

func TestConfigureNone(t *testing.T) {
	cfg := Configure(buildcfg.Flags{}, buildcfg.Secrets{}, "src", "build")

	require.Equal(t, buildcfg.ModeNone, cfg.Mode)
	require.False(t, cfg.Minify)
	require.False(t, cfg.SourceMap)
}

func TestConfigureLayout(t *testing.T) {
	secrets := buildcfg.Secrets{ClientID: "client"}
	cfg := Configure(buildcfg.Flags{Development: true}, secrets, "src", "build")

	require.Equal(t, secrets, cfg.Secrets)
	require.Equal(t, filepath.Join("src", "secrets.ts"), cfg.SecretsModule)
	require.Equal(t, manifest.Targets(), cfg.Targets)
	require.Empty(t, cfg.PostBuild)

	names := make([]string, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		names = append(names, e.Name)
	}
	require.Equal(t, []string{"background", "content", "popup"}, names)

	require.Equal(t, filepath.Join("build", "chrome", "js"), cfg.OutDirFor(manifest.TargetChrome))
	require.Equal(t, filepath.Join("build", "firefox", "js"), cfg.OutDirFor(manifest.TargetFirefox))
}
