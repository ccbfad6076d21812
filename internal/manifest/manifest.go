// Package manifest derives the per-target extension manifest from the
// build configuration.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"extbuild/internal/buildcfg"
)

// Target is a browser platform the extension is built for.
type Target string

const (
	TargetChrome  Target = "chrome"
	TargetFirefox Target = "firefox"
)

// Targets returns the platforms a full build populates, in output order.
func Targets() []Target {
	return []Target{TargetChrome, TargetFirefox}
}

// ParseTarget validates a target name supplied on the command line.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetChrome, TargetFirefox:
		return Target(s), nil
	}
	return "", fmt.Errorf("unknown target %q", s)
}

func (t Target) String() string {
	return string(t)
}

// Document is a manifest v2 document. One instance per (config, target)
// pair, never mutated after Build returns.
type Document struct {
	ManifestVersion     int               `json:"manifest_version"`
	Name                string            `json:"name"`
	Version             string            `json:"version"`
	Description         string            `json:"description"`
	Icons               map[string]string `json:"icons"`
	Background          Background        `json:"background"`
	ContentScripts      []ContentScript   `json:"content_scripts"`
	Permissions         []string          `json:"permissions"`
	OptionalPermissions []string          `json:"optional_permissions"`
	PageAction          PageAction        `json:"page_action"`
	WebAccessible       []string          `json:"web_accessible_resources"`

	// Key pins the extension ID for Chrome builds. Omitted unless
	// configured.
	Key string `json:"key,omitempty"`
	// BrowserSpecific carries the gecko add-on ID for Firefox builds.
	// Omitted unless configured.
	BrowserSpecific *BrowserSpecificSettings `json:"browser_specific_settings,omitempty"`
}

type Background struct {
	Scripts []string `json:"scripts"`
}

type ContentScript struct {
	Matches []string `json:"matches"`
	JS      []string `json:"js"`
	RunAt   string   `json:"run_at"`
}

type PageAction struct {
	DefaultIcon  map[string]string `json:"default_icon"`
	DefaultPopup string            `json:"default_popup"`
	DefaultTitle string            `json:"default_title"`
}

type BrowserSpecificSettings struct {
	Gecko GeckoSettings `json:"gecko"`
}

type GeckoSettings struct {
	ID string `json:"id"`
}

// Build derives the manifest for one target. Pure: the same meta,
// secrets, and target always produce the same document.
func Build(meta buildcfg.Meta, secrets buildcfg.Secrets, target Target) (*Document, error) {
	if meta.Name == "" {
		return nil, errors.New("manifest requires a product name")
	}
	if meta.Version == "" {
		return nil, errors.New("manifest requires a product version")
	}

	doc := &Document{
		ManifestVersion: 2,
		Name:            meta.Name,
		Version:         meta.Version,
		Description:     meta.Description,
		Icons: map[string]string{
			"16":  "images/icon-16.png",
			"48":  "images/icon-48.png",
			"128": "images/icon-128.png",
		},
		Background: Background{
			Scripts: []string{
				"js/lib/browser-polyfill.js",
				"js/background.js",
			},
		},
		ContentScripts: []ContentScript{
			{
				Matches: []string{
					"*://*.netflix.com/*",
					"*://*.primevideo.com/*",
				},
				JS: []string{
					"js/lib/browser-polyfill.js",
					"js/content.js",
				},
				RunAt: "document_idle",
			},
		},
		Permissions: []string{
			"storage",
			"tabs",
			"unlimitedStorage",
			"*://api.trakt.tv/*",
			"*://api.themoviedb.org/*",
		},
		OptionalPermissions: []string{
			"notifications",
			"*://*.netflix.com/*",
			"*://*.primevideo.com/*",
		},
		PageAction: PageAction{
			DefaultIcon: map[string]string{
				"19": "images/icon-19.png",
				"38": "images/icon-38.png",
			},
			DefaultPopup: "html/popup.html",
			DefaultTitle: meta.Name,
		},
		WebAccessible: []string{"images/*"},
	}

	switch target {
	case TargetChrome:
		doc.Permissions = append(doc.Permissions, "declarativeContent")
		if secrets.ChromeExtensionKey != "" {
			doc.Key = secrets.ChromeExtensionKey
		}
	case TargetFirefox:
		doc.OptionalPermissions = append(doc.OptionalPermissions, "cookies")
		if secrets.FirefoxExtensionID != "" {
			doc.BrowserSpecific = &BrowserSpecificSettings{
				Gecko: GeckoSettings{ID: secrets.FirefoxExtensionID},
			}
		}
	}

	return doc, nil
}

// Encode serializes the manifest as pretty-printed JSON with 2-space
// indentation so builds diff cleanly.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile emits manifest.json into the target's output root.
func (d *Document) WriteFile(dir string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "manifest.json"), data, 0600)
}
