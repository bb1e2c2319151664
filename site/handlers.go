package site

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxViewportHeight bounds the vh query so a client can not grow the layout cache
// with arbitrary heights.
const maxViewportHeight = 4320

// Mount registers the pages on r. Paths not handled here fall through to
// r's NotFound handler, set it to s.NotFound.
func (s *Site) Mount(r chi.Router) {
	r.Get("/", s.Home)
	r.Get("/about", s.About)
	r.Get("/contact", s.Contact)
	r.Get("/works", s.Works)
	r.Get("/works/{slug}", s.Project)
	r.Get("/works/{slug}/columns", s.Columns)
	r.Handle("/static/*", http.StripPrefix("/static/", s.Static()))
}

func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, PageHome, s.page(r, s.Catalog.Owner.Name))
}

func (s *Site) About(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, PageAbout, s.page(r, "About"))
}

func (s *Site) Contact(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, PageContact, s.page(r, "Contact"))
}

func (s *Site) Works(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, PageWorks, s.page(r, "Works"))
}

func (s *Site) Project(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Catalog.Project(chi.URLParam(r, "slug"))
	if !ok {
		s.NotFound(w, r)
		return
	}
	data := s.page(r, p.Title)
	data.Project = p
	s.render(w, http.StatusOK, PageProject, data)
}

// Columns serves the column fragment of a project for the client viewport
// height given as ?vh=.
func (s *Site) Columns(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Catalog.Project(chi.URLParam(r, "slug"))
	if !ok || !p.Columns {
		http.NotFound(w, r)
		return
	}
	vh, err := strconv.Atoi(r.URL.Query().Get("vh"))
	if err != nil || vh <= 0 {
		vh = 0
	} else if vh > maxViewportHeight {
		vh = maxViewportHeight
	}
	s.renderColumns(w, p, vh)
}

func (s *Site) NotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, PageNotFound, s.page(r, "Page not found"))
}
