package api

import (
	"context"
	"reflect"

	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/specification"
)

// Api creates an api from f and registers it. The name is infered from the input
// type, i.g. *ContactForm registers "contact".
func Api[i any, o any](f func(ctx context.Context, InParameter i) (ret o, err error), options ...OptionSetter) (out *Context[i, o]) {
	option := buildOptions(options...)
	iType := reflect.TypeOf((*i)(nil)).Elem()

	out = &Context[i, o]{Name: option.Name, Timeout: option.Timeout,
		WithHeader: HeaderFieldsUsed(iType),
		Validate:   needValidate(iType),
		Func:       f,
	}
	if len(out.Name) == 0 {
		out.Name = specification.ApiNameByType((*i)(nil))
	}
	if len(out.Name) == 0 {
		dlog.Warn().Str("type", iType.String()).Msg("api created failed, unable to name it")
		out.Func = func(ctx context.Context, InParameter i) (ret o, err error) {
			return ret, ErrApiNameEmpty
		}
		return out
	}

	if _, exists := option.Registry.Get(out.Name); exists {
		dlog.Panic().Str("same api not allowed to defined twice!", out.Name).Send()
		return out
	}
	option.Registry.Set(out.Name, out)
	option.Registry.docs.Set(out.Name, newDocs[i, o](out.Name))

	dlog.Debug().Str("api created", out.Name).Send()
	return out
}
