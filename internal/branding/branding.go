// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Forks that point the tool at a different template
// edit that file and rebuild.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName            string `yaml:"cli_name"`
	DisplayName        string `yaml:"display_name"`
	Description        string `yaml:"description"`
	HomeDir            string `yaml:"home_dir"`
	EnvPrefix          string `yaml:"env_prefix"`
	TemplateSource     string `yaml:"template_source"`
	DefaultProjectName string `yaml:"default_project_name"`
	ReleaseRepo        string `yaml:"release_repo"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:            "create-mvp-surf",
			DisplayName:        "create-mvp-surf",
			Description:        "Scaffold a new MVP project from the mvp-surf template",
			HomeDir:            ".create-mvp-surf",
			EnvPrefix:          "CREATE_MVP_SURF",
			TemplateSource:     "coldsurfers/create-mvp-surf#main",
			DefaultProjectName: "mvp-surf-app",
			ReleaseRepo:        "coldsurfers/create-mvp-surf",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "create-mvp-surf").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".create-mvp-surf").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "CREATE_MVP_SURF").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// TemplateSource returns the default template reference, "owner/repo#branch".
func TemplateSource() string { load(); return defaults.TemplateSource }

// DefaultProjectName returns the initial value offered by the name prompt.
func DefaultProjectName() string { load(); return defaults.DefaultProjectName }

// ReleaseRepo returns the GitHub "owner/repo" whose releases carry new CLI versions.
func ReleaseRepo() string { load(); return defaults.ReleaseRepo }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("template") → "CREATE_MVP_SURF_TEMPLATE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
