package api

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

func mapToStructDecodHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	switch {
	case f.Kind() == reflect.String && t.Kind() == reflect.Int64:
		return strconv.ParseInt(strings.TrimSpace(data.(string)), 10, 64)
	case f.Kind() == reflect.String && t.Kind() == reflect.Int:
		return strconv.Atoi(strings.TrimSpace(data.(string)))
	case f.Kind() == reflect.String && t.Kind() == reflect.Float64:
		return strconv.ParseFloat(strings.TrimSpace(data.(string)), 64)
	case f.Kind() == reflect.String && t.Kind() == reflect.Bool:
		return strconv.ParseBool(strings.TrimSpace(data.(string)))

	case f.Kind() == reflect.Int64 && t.Kind() == reflect.String:
		return strconv.FormatInt(data.(int64), 10), nil
	case f.Kind() == reflect.Int && t.Kind() == reflect.String:
		return strconv.Itoa(data.(int)), nil
	case f.Kind() == reflect.Float64 && t.Kind() == reflect.String:
		return strconv.FormatFloat(data.(float64), 'f', -1, 64), nil
	case f.Kind() == reflect.Bool && t.Kind() == reflect.String:
		return strconv.FormatBool(data.(bool)), nil

	//a single form value for a list field
	case f.Kind() == reflect.String && t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String:
		return []string{data.(string)}, nil
	//a repeated header or form value for a plain field
	case f.Kind() == reflect.Slice && t.Kind() == reflect.String:
		if ss, ok := data.([]string); ok {
			return strings.Join(ss, ", "), nil
		}
		return data, nil
	default:
		return data, nil
	}
}
func mapToStructDecoder(pIn interface{}) (decoder *mapstructure.Decoder, err error) {
	config := &mapstructure.DecoderConfig{
		Metadata:   nil,
		Result:     pIn,
		TagName:    "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(mapToStructDecodHook),
	}
	if decoder, err = mapstructure.NewDecoder(config); err != nil {
		return nil, err
	}
	return decoder, nil
}
