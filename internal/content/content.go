// Package content loads the marketing copy of the public pages.
package content

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaults embed.FS

const (
	siteFile     = "site.yaml"
	servicesFile = "services.yaml"
)

type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

type Card struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Brand struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	City    string `yaml:"city"`
}

type Hero struct {
	Badge       string `yaml:"badge"`
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
	Stats       []Stat `yaml:"stats"`
}

type About struct {
	Title     string `yaml:"title"`
	Body      string `yaml:"body"` // markdown
	Highlight Stat   `yaml:"highlight"`
	Values    []Card `yaml:"values"`
}

type Learn struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Features []Card `yaml:"features"`
}

type Member struct {
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	Description string `yaml:"description"`
	Email       string `yaml:"email"`
}

type Team struct {
	Title   string   `yaml:"title"`
	Members []Member `yaml:"members"`
	Hiring  Card     `yaml:"hiring"`
}

type Site struct {
	Brand Brand `yaml:"brand"`
	Hero  Hero  `yaml:"hero"`
	About About `yaml:"about"`
	Learn Learn `yaml:"learn"`
	Team  Team  `yaml:"team"`
}

type Service struct {
	Title       string   `yaml:"title"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
}

type Catalog struct {
	Site     Site
	Services []Service
}

// Defaults is the copy compiled into the binary.
func Defaults() fs.FS {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// Load reads site.yaml and services.yaml from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	var cat Catalog
	if err := decode(fsys, siteFile, &cat.Site); err != nil {
		return nil, err
	}
	if err := decode(fsys, servicesFile, &cat.Services); err != nil {
		return nil, err
	}
	if cat.Site.Brand.Name == "" {
		return nil, fmt.Errorf("%s: brand.name is required", siteFile)
	}
	return &cat, nil
}

func decode(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
