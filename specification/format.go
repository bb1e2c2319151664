package specification

import (
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// MarshalApiOutput encodes an api result as msgpack. Only maps and structs are
// accepted so that the client side always decodes an object.
func MarshalApiOutput(out interface{}) (output []byte, err error) {
	t := reflect.TypeOf(out)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || (t.Kind() != reflect.Struct && t.Kind() != reflect.Map) {
		return nil, fmt.Errorf("api output should be a map or struct, got %v", t)
	}
	return msgpack.Marshal(out)
}
