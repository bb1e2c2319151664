package httpserve

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aandrx/portfolio/api"
	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/forms"
	"github.com/aandrx/portfolio/permission"
	"github.com/aandrx/portfolio/store"
	"github.com/vmihailenco/msgpack/v5"
)

// errorBody is the only shape of a failed reply. Field errors go to the log.
type errorBody struct {
	Error string `json:"error" msgpack:"error"`
}

// apiHandler serves one form route: admin check, params, call, then the reply
// in json or msgpack.
func (s *Server) apiHandler(route forms.Route) http.HandlerFunc {
	name := route.Api.GetName()
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			result  interface{}
			paramIn map[string]interface{}
			err     error
			svcCtx  = &ReqCtx{Req: r}
		)
		cfg := s.conf()
		if route.Permission != "" {
			if svcCtx.Claims, err = s.claims.ParseJwtClaim(r, cfg.Jwt.Secret); err != nil {
				dlog.Warn().Err(err).Str("form", name).Str("path", r.URL.Path).Msg("admin request rejected")
				writeResult(w, r, http.StatusUnauthorized, errorBody{Error: msgUnauthorized})
				return
			}
			if !permission.IsPermitted(svcCtx.Claims, route.Permission) {
				dlog.Warn().Err(ErrOperationNotPermited).Str("form", name).Str("permission", route.Permission).Send()
				writeResult(w, r, http.StatusForbidden, errorBody{Error: msgForbidden})
				return
			}
		}
		if paramIn, err = svcCtx.Params(); err != nil {
			dlog.Warn().Err(err).Str("form", name).Msg("bad request body")
			writeResult(w, r, http.StatusBadRequest, errorBody{Error: route.Invalid})
			return
		}
		route.Api.MergeHeader(r, paramIn)
		svcCtx.MergeJwtParam(paramIn, cfg.Jwt.Fields)

		if result, err = route.Api.CallByMap(r.Context(), paramIn); err != nil {
			status, body := routeError(route, err)
			event := dlog.Error()
			if status < http.StatusInternalServerError {
				event = dlog.Warn()
			}
			event.Err(err).Str("form", name).Str("status", "error").Int("httpStatus", status).Msg(body.Error)
			writeResult(w, r, status, body)
			return
		}
		writeResult(w, r, route.Status, result)
	}
}

// routeError maps an api error to the status and message of route.
func routeError(route forms.Route, err error) (int, errorBody) {
	switch {
	case errors.Is(err, api.ErrInvalidParam), errors.Is(err, api.ErrParamDecoding):
		return http.StatusBadRequest, errorBody{Error: route.Invalid}
	case errors.Is(err, store.ErrNotFound) && route.NotFound != "":
		return http.StatusNotFound, errorBody{Error: route.NotFound}
	}
	return http.StatusInternalServerError, errorBody{Error: route.Failed}
}

// wantsMsgpack follows the rt query param, then the Accept header.
func wantsMsgpack(r *http.Request) bool {
	if rt := r.URL.Query().Get("rt"); rt != "" {
		return rt == "application/msgpack"
	}
	return strings.Contains(r.Header.Get("Accept"), "application/msgpack")
}

func writeResult(w http.ResponseWriter, r *http.Request, status int, result interface{}) {
	var (
		bs          []byte
		err         error
		contentType = "application/json"
	)
	if wantsMsgpack(r) {
		contentType = "application/msgpack"
		bs, err = msgpack.Marshal(result)
	} else {
		bs, err = json.Marshal(result)
	}
	if err != nil {
		dlog.Error().Err(err).Str("path", r.URL.Path).Msg("encode response failed")
		status, contentType, bs = http.StatusInternalServerError, "application/json", []byte(`{"error":"Internal Server Error"}`)
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write(bs)
}
