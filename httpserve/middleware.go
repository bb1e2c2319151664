package httpserve

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/forms"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs one line per request. Static assets log at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		event := dlog.Info()
		if ww.Status() >= http.StatusInternalServerError {
			event = dlog.Error()
		} else if strings.HasPrefix(r.URL.Path, "/static/") {
			event = dlog.Debug()
		}
		event.Str("method", r.Method).Str("path", r.URL.Path).Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).Dur("duration", time.Since(start)).
			Str("ip", forms.ClientIPOf(r.Header)).Str("reqId", middleware.GetReqID(r.Context())).Send()
	})
}

// limitBody caps request bodies at max bytes.
func limitBody(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if max > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// rateLimited rejects form posts over the per ip limit. Redis failures let the
// request through.
func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := s.limitKey(r)
		ok, err := s.limiter.Allow(r.Context(), ip)
		if err != nil {
			dlog.Warn().Err(err).Str("ip", ip).Msg("rate limit check failed")
		} else if !ok {
			dlog.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rate limited")
			writeResult(w, r, http.StatusTooManyRequests, errorBody{Error: msgRateLimited})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitKey is the remote host of r. The forwarded client ip is used only when
// the server runs behind a trusted proxy.
func (s *Server) limitKey(r *http.Request) string {
	if s.conf().Http.TrustProxy {
		if ip := forms.ClientIPOf(r.Header); ip != forms.UnknownIP {
			return ip
		}
	}
	return remoteHost(r.RemoteAddr)
}

func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
