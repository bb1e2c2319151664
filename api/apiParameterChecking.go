package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func needValidate(v reflect.Type) func(s interface{}) (err error) {
	var isStruct, hasValidTag bool
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if isStruct = v.Kind() == reflect.Struct; isStruct {
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).Tag.Get("validate") != "" {
				hasValidTag = true
				break
			}
		}
	}
	if isStruct && hasValidTag {
		return validate.Struct
	}
	return func(s interface{}) (err error) {
		return nil
	}
}

// HeaderFieldsUsed reports whether the input struct has a field named Header* or
// a json tag starting with Header, in which case request headers are merged in.
func HeaderFieldsUsed(vType reflect.Type) bool {
	for ; vType.Kind() == reflect.Ptr; vType = vType.Elem() {
	}
	if vType.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < vType.NumField(); i++ {
		fieldName, tag := vType.Field(i).Name, vType.Field(i).Tag.Get("json")
		if strings.HasPrefix(fieldName, "Header") || strings.HasPrefix(tag, "Header") {
			return true
		}
	}
	return false
}
