package rdsdb

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrInvalidField = errors.New("invalid field")

func (ctx *Ctx[k, v]) toKeyStr(key k) (keyStr string, err error) {
	if vv := reflect.ValueOf(key); !vv.IsValid() || (vv.Kind() == reflect.Ptr && vv.IsNil()) {
		return keyStr, ErrInvalidField
	}
	//if key is a string, use it directly
	if strkey, ok := interface{}(key).(string); ok {
		return strkey, nil
	}
	keyBytes, err := json.Marshal(key)
	if err != nil {
		return keyStr, err
	}
	return string(keyBytes), nil
}

func (ctx *Ctx[k, v]) toKeyStrs(keys ...k) (KeyStrs []string, err error) {
	var keyStr string
	for _, key := range keys {
		if keyStr, err = ctx.toKeyStr(key); err != nil {
			return nil, err
		}
		KeyStrs = append(KeyStrs, keyStr)
	}
	return KeyStrs, nil
}

func (ctx *Ctx[k, v]) toKeys(keyStrs []string) (keys []k, err error) {
	keys = make([]k, 0, len(keyStrs))
	for _, keyStr := range keyStrs {
		var key k
		if p, ok := interface{}(&key).(*string); ok {
			*p = keyStr
		} else if err = json.Unmarshal([]byte(keyStr), &key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// toValueStr keeps scalars readable in redis-cli, everything else is msgpack
func (ctx *Ctx[k, v]) toValueStr(value v) (valueStr string, err error) {
	switch val := interface{}(value).(type) {
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	}
	bytes, err := msgpack.Marshal(value)
	if err != nil {
		return valueStr, err
	}
	return string(bytes), nil
}

func (ctx *Ctx[k, v]) toValue(data []byte) (value v, err error) {
	switch p := interface{}(&value).(type) {
	case *string:
		*p = string(data)
		return value, nil
	case *int:
		*p, err = strconv.Atoi(string(data))
		return value, err
	case *int64:
		*p, err = strconv.ParseInt(string(data), 10, 64)
		return value, err
	case *float64:
		*p, err = strconv.ParseFloat(string(data), 64)
		return value, err
	case *bool:
		*p, err = strconv.ParseBool(string(data))
		return value, err
	}
	//value is a pointer type, allocate the element before decoding
	if vType := reflect.TypeOf((*v)(nil)).Elem(); vType.Kind() == reflect.Ptr {
		pv := reflect.New(vType.Elem())
		if err = msgpack.Unmarshal(data, pv.Interface()); err != nil {
			return value, err
		}
		return pv.Interface().(v), nil
	}
	err = msgpack.Unmarshal(data, &value)
	return value, err
}
