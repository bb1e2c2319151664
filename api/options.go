package api

import "time"

// Option is parameter to create an API
type Option struct {
	Name     string
	Timeout  time.Duration
	Registry *Registry
}

type OptionSetter func(o *Option)

// WithName overrides the name infered from the input type.
func WithName(name string) OptionSetter {
	return func(o *Option) { o.Name = name }
}

// WithTimeout bounds each call of the api.
func WithTimeout(d time.Duration) OptionSetter {
	return func(o *Option) { o.Timeout = d }
}

// WithRegistry registers the api into r instead of DefaultRegistry.
func WithRegistry(r *Registry) OptionSetter {
	return func(o *Option) { o.Registry = r }
}

func buildOptions(options ...OptionSetter) *Option {
	o := &Option{Registry: DefaultRegistry, Timeout: 30 * time.Second}
	for _, set := range options {
		set(o)
	}
	return o
}
