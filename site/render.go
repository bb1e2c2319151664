package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Masterminds/sprig/v3"
	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/layout"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	PageHome     = "home"
	PageAbout    = "about"
	PageContact  = "contact"
	PageWorks    = "works"
	PageProject  = "project"
	PageNotFound = "notfound"
)

var pageNames = []string{PageHome, PageAbout, PageContact, PageWorks, PageProject, PageNotFound}

// Page is the data every page template receives.
type Page struct {
	Title      string
	Path       string
	Transition string
	Owner      Owner
	Nav        Nav
	Catalog    *Catalog
	Project    *Project
}

// Columns is the data of the columns fragment.
type Columns struct {
	layout.Result
	Slug string
}

type Site struct {
	Catalog *Catalog
	// Layout holds the column width, gap and the viewport height used when the
	// client does not send one
	Layout layout.Options

	columns  *layout.Cache
	pages    map[string]*template.Template
	fragment *template.Template
}

func New(catalog *Catalog, opts layout.Options) (*Site, error) {
	s := &Site{Catalog: catalog, Layout: opts, columns: layout.NewCache(), pages: map[string]*template.Template{}}
	base, err := template.New("site").Funcs(sprig.HtmlFuncMap()).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, err
	}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if s.pages[name], err = t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	if s.fragment, err = template.New("columns").Funcs(sprig.HtmlFuncMap()).ParseFS(templateFS, "templates/columns.html"); err != nil {
		return nil, err
	}
	return s, nil
}

// Static serves the embedded css and js.
func (s *Site) Static() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	return http.FileServer(http.FS(sub))
}

func (s *Site) page(r *http.Request, title string) *Page {
	return &Page{
		Title:      title,
		Path:       r.URL.Path,
		Transition: TransitionClass(r),
		Owner:      s.Catalog.Owner,
		Nav:        BuildNav(s.Catalog, r.URL.Path),
		Catalog:    s.Catalog,
	}
}

// render writes the page only once it executed completely.
func (s *Site) render(w http.ResponseWriter, status int, name string, data *Page) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "base", data); err != nil {
		dlog.Error().Err(err).Str("page", name).Str("path", data.Path).Msg("render page failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Vary", TransitionHeader)
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// ColumnLayout returns the cached column layout of a project for a viewport height.
func (s *Site) ColumnLayout(p *Project, viewportHeight int) layout.Result {
	opts := s.Layout
	if viewportHeight > 0 {
		opts.ViewportHeight = viewportHeight
	}
	return s.columns.Columnize(p.Slug, p.Blocks(), opts)
}

func (s *Site) renderColumns(w http.ResponseWriter, p *Project, viewportHeight int) {
	var buf bytes.Buffer
	data := Columns{Result: s.ColumnLayout(p, viewportHeight), Slug: p.Slug}
	if err := s.fragment.ExecuteTemplate(&buf, "columns", data); err != nil {
		dlog.Error().Err(err).Str("project", p.Slug).Msg("render columns failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
