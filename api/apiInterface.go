package api

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
)

type ApiInterface interface {
	GetName() string
	CallByMap(ctx context.Context, _map map[string]interface{}) (ret interface{}, err error)
	MergeHeader(req *http.Request, paramIn map[string]interface{})
}

// Normalizer is implemented by inputs that clean themselves before validation
type Normalizer interface {
	Normalize()
}

func (a *Context[i, o]) GetName() string {
	return a.Name
}

// MergeHeader copies request headers into paramIn as "Header"+CanonicalName.
// Header keys sent by the client in the body are dropped first.
func (a *Context[i, o]) MergeHeader(req *http.Request, paramIn map[string]interface{}) {
	if !a.WithHeader {
		return
	}
	for k := range paramIn {
		if strings.HasPrefix(k, "Header") {
			delete(paramIn, k)
		}
	}
	for key, value := range req.Header {
		if len(value) > 1 {
			paramIn["Header"+key] = value
		} else {
			paramIn["Header"+key] = value[0]
		}
	}
	paramIn["Header"+"RemoteAddr"] = req.RemoteAddr
	paramIn["Header"+"Host"] = req.Host
	paramIn["Header"+"Method"] = req.Method
	paramIn["Header"+"Path"] = req.URL.Path
}

func (a *Context[i, o]) CallByMap(ctx context.Context, _map map[string]interface{}) (ret interface{}, err error) {
	var (
		in  i
		pIn interface{}
	)
	// case double pointer decoding
	if vType := reflect.TypeOf((*i)(nil)).Elem(); vType.Kind() == reflect.Ptr {
		pIn = reflect.New(vType.Elem()).Interface()
		in = pIn.(i)
	} else {
		pIn = reflect.New(vType).Interface()
	}

	if decoder, errMapTostruct := mapToStructDecoder(pIn); errMapTostruct != nil {
		return nil, errMapTostruct
	} else if err = decoder.Decode(_map); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParamDecoding, err)
	}
	if n, ok := pIn.(Normalizer); ok {
		n.Normalize()
	}
	//validate the input if it is struct and has tag "validate"
	if err = a.Validate(pIn); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}
	if reflect.TypeOf((*i)(nil)).Elem().Kind() != reflect.Ptr {
		in = *pIn.(*i)
	}
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	return a.Func(ctx, in)
}
