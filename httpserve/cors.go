package httpserve

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// allowedOrigin returns the Access-Control-Allow-Origin value for origin, empty
// when the origin is not allowed. cores is "*" or origins separated by commas
// or spaces.
func allowedOrigin(cores, origin string) string {
	if cores == "*" {
		return "*"
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range strings.FieldsFunc(cores, func(r rune) bool { return r == ',' || r == ' ' }) {
		if allowed == origin {
			return origin
		}
	}
	return ""
}

// originAllowed admits requests without an Origin, from the site's own host, or
// from a cors origin.
func originAllowed(cores string, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return allowedOrigin(cores, origin) != ""
}

func CorsChecked(r *http.Request, w http.ResponseWriter, cores string) bool {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, PATCH, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Accept-Language, X-CSRF-Token, Authorization, Rt, Origin, Refer, User-Agent, X-Page-Transition")
		if allow := allowedOrigin(cores, r.Header.Get("Origin")); allow != "" {
			w.Header().Set("Access-Control-Allow-Origin", allow)
		}
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(30*86400)) // 30 days
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

func cors(cores string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CorsChecked(r, w, cores) {
				return
			}
			if allow := allowedOrigin(cores, r.Header.Get("Origin")); allow != "" {
				w.Header().Set("Access-Control-Allow-Origin", allow)
			}
			next.ServeHTTP(w, r)
		})
	}
}
