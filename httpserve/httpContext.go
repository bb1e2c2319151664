package httpserve

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vmihailenco/msgpack/v5"
)

type ReqCtx struct {
	Req    *http.Request
	Claims jwt.MapClaims
}

// Params merges query and form values, the json or msgpack body, then the route
// params of the request. Later sources win.
func (svc *ReqCtx) Params() (paramIn map[string]interface{}, err error) {
	paramIn = map[string]interface{}{}
	if err = svc.Req.ParseForm(); err != nil {
		return nil, err
	}
	svc.MergeFormParam(svc.Req.Form, paramIn)
	if err = svc.mergeBody(paramIn); err != nil {
		return nil, err
	}
	if rctx := chi.RouteContext(svc.Req.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key != "*" && i < len(rctx.URLParams.Values) {
				paramIn[key] = rctx.URLParams.Values[i]
			}
		}
	}
	return paramIn, nil
}

func (svc *ReqCtx) MergeFormParam(Form url.Values, paramIn map[string]interface{}) {
	for key, value := range Form {
		if paramIn[key] = value[0]; len(value) > 1 {
			paramIn[key] = value
		}
	}
}

func (svc *ReqCtx) mergeBody(paramIn map[string]interface{}) (err error) {
	mediaType, _, _ := mime.ParseMediaType(svc.Req.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		return nil
	}
	body, err := io.ReadAll(svc.Req.Body)
	if err != nil || len(body) == 0 {
		return err
	}
	switch {
	case mediaType == "application/msgpack" || mediaType == "application/x-msgpack" || mediaType == "application/octet-stream":
		if err = msgpack.Unmarshal(body, &paramIn); err != nil {
			return fmt.Errorf("msgpack body: %w", err)
		}
	case mediaType == "application/json" || mediaType == "" || strings.HasSuffix(mediaType, "+json"):
		if err = json.Unmarshal(body, &paramIn); err != nil {
			return fmt.Errorf("json body: %w", err)
		}
	default:
		return ErrUnsupportedBody
	}
	return nil
}

// MergeJwtParam copies the claims named in fields, "*" for all, into paramIn as
// "Jwt"+Name. Jwt keys sent by the client are dropped first.
func (svc *ReqCtx) MergeJwtParam(paramIn map[string]interface{}, fields string) {
	for k := range paramIn {
		if strings.HasPrefix(k, "Jwt") {
			delete(paramIn, k)
		}
	}
	if fields == "" {
		return
	}
	allowed := map[string]bool{}
	for _, f := range strings.Split(fields, ",") {
		allowed[strings.ToLower(strings.TrimSpace(f))] = true
	}
	for k, v := range svc.Claims {
		if k == "" || (!allowed["*"] && !allowed[strings.ToLower(k)]) {
			continue
		}
		//convert first letter of k to upper case
		paramIn["Jwt"+strings.ToUpper(k[:1])+k[1:]] = v
	}
}
