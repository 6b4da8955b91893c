package auth

import "strings"

// BoundValues exposes named values bound to the current action.
type BoundValues interface {
	Lookup(name string) (string, bool)
}

// MapValues is a BoundValues backed by a plain map. Blank values count as absent.
type MapValues map[string]string

func (m MapValues) Lookup(name string) (string, bool) {
	v, ok := m[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// OrderedValues consults the action arguments first, then the route parameters.
type OrderedValues struct {
	Args  BoundValues
	Route BoundValues
}

func (o OrderedValues) Lookup(name string) (string, bool) {
	if o.Args != nil {
		if v, ok := o.Args.Lookup(name); ok {
			return v, true
		}
	}
	if o.Route != nil {
		if v, ok := o.Route.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}
