package api

import (
	"errors"
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	ErrApiNameEmpty  = errors.New("api name empty")
	ErrApiNotFound   = errors.New("no such api")
	ErrInvalidParam  = errors.New("invalid param")
	ErrParamDecoding = errors.New("param decoding")
)

// Registry holds apis by name
type Registry struct {
	cmap.ConcurrentMap[string, ApiInterface]
	docs cmap.ConcurrentMap[string, *DocsOfApi]
}

func NewRegistry() *Registry {
	return &Registry{
		ConcurrentMap: cmap.New[ApiInterface](),
		docs:          cmap.New[*DocsOfApi](),
	}
}

var DefaultRegistry = NewRegistry()

func (r *Registry) GetApiByName(serviceName string) (apiInfo ApiInterface, ok bool) {
	return r.Get(serviceName)
}

func (r *Registry) ApiNames() (serviceNames []string) {
	serviceNames = r.Keys()
	sort.Strings(serviceNames)
	return serviceNames
}
