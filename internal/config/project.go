package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectConfigFileName is the per-project settings file the client tooling
// looks for in the working directory.
const ProjectConfigFileName = ".review-mate.yml"

// ProjectConfig holds per-project defaults for the CLI and terminal client:
// which language to declare, which file a pull request should target, and
// which repository to open it against.
type ProjectConfig struct {
	Language string `yaml:"language"`
	FilePath string `yaml:"file_path"`
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
}

// LoadProjectConfig reads .review-mate.yml from dir. A missing file is not an
// error; it yields an empty config so flags and prompts take over.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, ProjectConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ProjectConfigFileName, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectConfigFileName, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectConfigFileName, err)
	}
	return &cfg, nil
}

func (c *ProjectConfig) validate() error {
	if c.FilePath != "" {
		clean := filepath.ToSlash(filepath.Clean(c.FilePath))
		if strings.HasPrefix(clean, "../") || filepath.IsAbs(c.FilePath) {
			return fmt.Errorf("file_path must be relative to the repository root: %q", c.FilePath)
		}
	}
	if strings.Contains(c.Owner, "/") {
		return fmt.Errorf("owner must not contain a slash: %q", c.Owner)
	}
	if strings.Contains(c.Repo, "/") {
		return fmt.Errorf("repo must be a bare repository name: %q", c.Repo)
	}
	return nil
}
