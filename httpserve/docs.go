package httpserve

import (
	"net/http"

	"github.com/aandrx/portfolio/api"
)

type ApiDocs struct {
	Apis []*api.DocsOfApi `json:"apis" msgpack:"apis"`
}

// docsHandler lists the registered apis with their params.
func (s *Server) docsHandler(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, http.StatusOK, ApiDocs{Apis: s.registry.Docs()})
}
