package api

import (
	"reflect"
	"sort"
	"strings"
	"time"
)

type DocsOfApi struct {
	Name     string
	ParamIn  map[string]string
	ParamOut string
	UpdateAt int64
}

func newDocs[i any, o any](name string) *DocsOfApi {
	return &DocsOfApi{
		Name:     name,
		ParamIn:  fieldKinds(reflect.TypeOf((*i)(nil)).Elem()),
		ParamOut: reflect.TypeOf((*o)(nil)).Elem().String(),
		UpdateAt: time.Now().Unix(),
	}
}

// fieldKinds lists json field names with their validate tags, header and jwt
// fields excluded
func fieldKinds(t reflect.Type) map[string]string {
	for ; t.Kind() == reflect.Ptr; t = t.Elem() {
	}
	out := map[string]string{}
	if t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" || strings.HasPrefix(name, "Header") || strings.HasPrefix(f.Name, "Header") || strings.HasPrefix(name, "Jwt") {
			continue
		}
		desc := f.Type.String()
		if v := f.Tag.Get("validate"); v != "" {
			desc += " " + v
		}
		out[name] = desc
	}
	return out
}

// Docs returns the docs of every registered api, sorted by name
func (r *Registry) Docs() []*DocsOfApi {
	docs := make([]*DocsOfApi, 0, r.docs.Count())
	for _, d := range r.docs.Items() {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(a, b int) bool { return docs[a].Name < docs[b].Name })
	return docs
}
