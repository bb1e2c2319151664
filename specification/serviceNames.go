package specification

import (
	"reflect"
	"strings"
	"unicode"
)

var DisAllowedServiceNames = map[string]bool{
	"":        true,
	"string":  true,
	"int":     true,
	"int32":   true,
	"int64":   true,
	"float32": true,
	"float64": true,
	"bool":    true,
	"byte":    true,
	"rune":    true,
	"map":     true,
}

var nameSuffixes = []string{"output", "input", "param", "query", "form", "data", "arg", "req"}
var namePrefixes = []string{"input", "param", "api:", "data", "arg", "req"}

// ApiName returns the api name of the service. Type names like "ContactForm" or
// "RSVPCountQuery" become "contact" and "rsvp-count". An empty string is returned
// for names that can not name a service; callers decide how to fail, do not panic
// because the name may come from a web client.
func ApiName(ServiceNameOriginal string) (ServiceName string) {
	ServiceName = ServiceNameOriginal
	lower := strings.ToLower(ServiceName)
	for _, s := range nameSuffixes {
		if len(lower) > len(s) && strings.HasSuffix(lower, s) {
			ServiceName = ServiceName[:len(ServiceName)-len(s)]
			break
		}
	}
	lower = strings.ToLower(ServiceName)
	for _, p := range namePrefixes {
		if len(lower) > len(p) && strings.HasPrefix(lower, p) {
			ServiceName = ServiceName[len(p):]
			break
		}
	}
	ServiceName = kebab(ServiceName)
	if DisAllowedServiceNames[ServiceName] {
		return ""
	}
	return ServiceName
}

// kebab lower-cases a CamelCase name, keeping acronyms together: RSVPCount -> rsvp-count
func kebab(s string) string {
	rs := []rune(s)
	var sb strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) && i > 0 {
			prevLower := unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1])
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if prevLower || (nextLower && unicode.IsUpper(rs[i-1])) {
				sb.WriteByte('-')
			}
		}
		if r == '_' || r == ' ' {
			sb.WriteByte('-')
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return strings.Trim(sb.String(), "-")
}

func ApiNameByType(i interface{}) (name string) {
	var _type reflect.Type
	//take name of type v as key
	for _type = reflect.TypeOf(i); _type.Kind() == reflect.Ptr || _type.Kind() == reflect.Array || _type.Kind() == reflect.Slice; _type = _type.Elem() {
	}
	return ApiName(_type.Name())
}
