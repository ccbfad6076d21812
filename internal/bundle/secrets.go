package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"extbuild/internal/buildcfg"
)

// SubstituteSecrets replaces the placeholder tokens in src with the
// resolved profile values. Exact string replacement, order-independent
// across the four tokens.
func SubstituteSecrets(src string, secrets buildcfg.Secrets) string {
	return strings.NewReplacer(
		"@@clientId", secrets.ClientID,
		"@@clientSecret", secrets.ClientSecret,
		"@@rollbarToken", secrets.RollbarToken,
		"@@tmdbApiKey", secrets.TMDBAPIKey,
	).Replace(src)
}

// secretsPlugin substitutes placeholder tokens while compiling exactly
// one module; every other file loads untouched.
func secretsPlugin(module string, secrets buildcfg.Secrets) api.Plugin {
	abs, err := filepath.Abs(module)
	if err != nil {
		abs = module
	}

	return api.Plugin{
		Name: "secrets",
		Setup: func(build api.PluginBuild) {
			filter := regexp.QuoteMeta(filepath.Base(module)) + "$"
			build.OnLoad(api.OnLoadOptions{Filter: filter},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					if args.Path != abs {
						return api.OnLoadResult{}, nil
					}

					data, err := os.ReadFile(args.Path)
					if err != nil {
						return api.OnLoadResult{}, fmt.Errorf("failed to read secrets module: %w", err)
					}

					contents := SubstituteSecrets(string(data), secrets)
					return api.OnLoadResult{
						Contents: &contents,
						Loader:   loaderFor(args.Path),
					}, nil
				})
		},
	}
}

func loaderFor(path string) api.Loader {
	switch filepath.Ext(path) {
	case ".ts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	case ".jsx":
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}
