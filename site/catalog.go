package site

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

//go:embed content/site.yaml
var contentFS embed.FS

const catalogFile = "content/site.yaml"

var (
	ErrDuplicateSlug = errors.New("duplicate project slug")
	ErrInvalidSlug   = errors.New("invalid project slug")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// rich text in the catalog may use inline markup only
var inlinePolicy = bluemonday.NewPolicy().AllowElements("strong", "em", "b", "i", "br", "a").
	AllowAttrs("href").OnElements("a")

type Image struct {
	Src    string `yaml:"src"`
	Alt    string `yaml:"alt"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Owner struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Favicon     string `yaml:"favicon"`
	Hero        Image  `yaml:"hero"`
}

type About struct {
	Image      Image    `yaml:"image"`
	Paragraphs []string `yaml:"paragraphs"`
}

// ContactLine is one "Label: value" line of the contact page
type ContactLine struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type Project struct {
	Slug    string `yaml:"slug"`
	Title   string `yaml:"title"`
	Heading string `yaml:"heading"`
	Cover   string `yaml:"cover"`
	// Nav lists the project in the Works submenu
	Nav bool `yaml:"nav"`
	// FullReload links the project with a plain anchor, skipping the client transition
	FullReload bool `yaml:"fullReload"`
	// Columns lays the text out in viewport high columns
	Columns    bool     `yaml:"columns"`
	Paragraphs []string `yaml:"paragraphs"`
	Footer     string   `yaml:"footer"`
	Images     []Image  `yaml:"images"`
}

func (p *Project) Href() string { return "/works/" + p.Slug }

// DisplayTitle is the heading of the project page.
func (p *Project) DisplayTitle() string {
	if p.Heading != "" {
		return p.Heading
	}
	return p.Title
}

// Blocks is the text laid out into columns.
func (p *Project) Blocks() []string {
	if p.Footer == "" {
		return p.Paragraphs
	}
	return append(append([]string(nil), p.Paragraphs...), p.Footer)
}

type Catalog struct {
	Owner    Owner         `yaml:"owner"`
	About    About         `yaml:"about"`
	Contact  []ContactLine `yaml:"contact"`
	Projects []*Project    `yaml:"projects"`

	bySlug map[string]*Project
}

// LoadCatalog reads the embedded site content.
func LoadCatalog() (*Catalog, error) {
	return LoadCatalogFS(contentFS, catalogFile)
}

func LoadCatalogFS(fsys fs.FS, name string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c.bySlug = make(map[string]*Project, len(c.Projects))
	for _, p := range c.Projects {
		if !slugPattern.MatchString(p.Slug) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, p.Slug)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, p.Slug)
		}
		c.bySlug[p.Slug] = p
	}
	return &c, nil
}

func (c *Catalog) Project(slug string) (*Project, bool) {
	p, ok := c.bySlug[slug]
	return p, ok
}

// NavProjects are the projects listed in the Works submenu, in catalog order.
func (c *Catalog) NavProjects() (projects []*Project) {
	for _, p := range c.Projects {
		if p.Nav {
			projects = append(projects, p)
		}
	}
	return projects
}

// AboutHTML returns the about paragraphs with markup limited to inline tags.
func (c *Catalog) AboutHTML() []template.HTML {
	out := make([]template.HTML, len(c.About.Paragraphs))
	for i, p := range c.About.Paragraphs {
		out[i] = template.HTML(inlinePolicy.Sanitize(p))
	}
	return out
}
