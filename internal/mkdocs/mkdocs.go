// Package mkdocs builds the mkdocs command lines and reads the few mkdocs.yml settings doctool
// reports on.
package mkdocs

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/doctool/internal/process"
)

// DefaultDevAddr is where `mkdocs serve` listens when neither doctool nor mkdocs.yml set it.
const DefaultDevAddr = "127.0.0.1:8000"

// Tool describes how to invoke mkdocs for one configuration file.
type Tool struct {
	Binary     string
	ConfigFile string
	// Dir is the working directory, normally the repository root.
	Dir string
	// DevAddr overrides dev_addr from mkdocs.yml when non-empty.
	DevAddr string
}

// BuildCommand returns `mkdocs build --config-file <ConfigFile>`.
func (t Tool) BuildCommand() process.Command {
	return process.Command{
		Name: t.Binary,
		Args: []string{"build", "--config-file", t.ConfigFile},
		Dir:  t.Dir,
	}
}

// ServeCommand returns `mkdocs serve --config-file <ConfigFile> [--dev-addr <DevAddr>]`.
func (t Tool) ServeCommand() process.Command {
	args := []string{"serve", "--config-file", t.ConfigFile}
	if t.DevAddr != "" {
		args = append(args, "--dev-addr", t.DevAddr)
	}
	return process.Command{Name: t.Binary, Args: args, Dir: t.Dir}
}

// Site holds the mkdocs.yml settings doctool cares about, with mkdocs defaults applied and
// directories made absolute.
type Site struct {
	Name    string
	DocsDir string
	SiteDir string
	DevAddr string
}

type siteFile struct {
	SiteName string `yaml:"site_name"`
	DocsDir  string `yaml:"docs_dir"`
	SiteDir  string `yaml:"site_dir"`
	DevAddr  string `yaml:"dev_addr"`
}

// Inspect reads configPath. Unknown keys are ignored. mkdocs.yml often carries Python-specific
// tags (!ENV, !!python/name); when the file cannot be decoded the defaults are returned
// together with the decode error so callers can log it and carry on.
func Inspect(configPath string) (Site, error) {
	base := filepath.Dir(configPath)
	site := Site{
		DocsDir: filepath.Join(base, "docs"),
		SiteDir: filepath.Join(base, "site"),
		DevAddr: DefaultDevAddr,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return site, err
	}
	var f siteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return site, err
	}

	site.Name = f.SiteName
	if f.DocsDir != "" {
		site.DocsDir = absUnder(base, f.DocsDir)
	}
	if f.SiteDir != "" {
		site.SiteDir = absUnder(base, f.SiteDir)
	}
	if f.DevAddr != "" {
		site.DevAddr = f.DevAddr
	}
	return site, nil
}

func absUnder(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
