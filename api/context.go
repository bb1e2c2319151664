package api

import (
	"context"
	"time"
)

// Context is a registered api. Func is the typed function, so callers inside the
// process can skip the map decoding.
type Context[i any, o any] struct {
	Name       string
	Timeout    time.Duration
	WithHeader bool
	Func       func(ctx context.Context, InParameter i) (ret o, err error)
	Validate   func(pIn interface{}) error
}
