package site

import "net/http"

// TransitionHeader marks requests made by the client side navigation.
const TransitionHeader = "X-Page-Transition"

// TransitionClass is the class of the page wrapper. The first load of a page is
// shown without transition, later navigations fade in.
func TransitionClass(r *http.Request) string {
	if r.Header.Get(TransitionHeader) == "1" {
		return "page-transition fade-in"
	}
	return "fade-in"
}
