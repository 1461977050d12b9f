// Package config provides the immutable configuration mapping a source node
// receives at construction. Values come from the flow file's arguments
// block, already evaluated to cty values; accessors convert them to Go
// types and classify every miss or mismatch as a configuration error so
// factories can validate eagerly.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/flowgridgo/internal/source"
)

var errMissing = errors.New("required key missing")

// Map is a read-only view over a node's configuration. The runtime owns the
// underlying values; nodes only read through the accessors for the lifetime
// of the instance.
type Map struct {
	values map[string]cty.Value
}

// New wraps the given values. The caller must not mutate the map afterwards.
func New(values map[string]cty.Value) *Map {
	if values == nil {
		values = map[string]cty.Value{}
	}
	return &Map{values: values}
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the configured key names.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}

// String returns the string value for key.
func (m *Map) String(key string) (string, error) {
	var s string
	if err := m.decode(key, &s); err != nil {
		return "", err
	}
	return s, nil
}

// Int returns the integer value for key.
func (m *Map) Int(key string) (int, error) {
	var n int
	if err := m.decode(key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// Float returns the float value for key.
func (m *Map) Float(key string) (float64, error) {
	var f float64
	if err := m.decode(key, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// Bool returns the boolean value for key.
func (m *Map) Bool(key string) (bool, error) {
	var b bool
	if err := m.decode(key, &b); err != nil {
		return false, err
	}
	return b, nil
}

// Duration returns the value for key parsed as a Go duration string,
// e.g. "250ms" or "1m30s".
func (m *Map) Duration(key string) (time.Duration, error) {
	s, err := m.String(key)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &source.ConfigurationError{Key: key, Err: err}
	}
	return d, nil
}

// OptionalString returns the string value for key, or def when absent.
func (m *Map) OptionalString(key, def string) (string, error) {
	if !m.Has(key) {
		return def, nil
	}
	return m.String(key)
}

// OptionalInt returns the integer value for key, or def when absent.
func (m *Map) OptionalInt(key string, def int) (int, error) {
	if !m.Has(key) {
		return def, nil
	}
	return m.Int(key)
}

// OptionalBool returns the boolean value for key, or def when absent.
func (m *Map) OptionalBool(key string, def bool) (bool, error) {
	if !m.Has(key) {
		return def, nil
	}
	return m.Bool(key)
}

// OptionalDuration returns the duration value for key, or def when absent.
func (m *Map) OptionalDuration(key string, def time.Duration) (time.Duration, error) {
	if !m.Has(key) {
		return def, nil
	}
	return m.Duration(key)
}

// Object returns the nested mapping under key as its own Map.
func (m *Map) Object(key string) (*Map, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, &source.ConfigurationError{Key: key, Err: errMissing}
	}
	if v.IsNull() {
		return nil, &source.ConfigurationError{Key: key, Err: errors.New("value is null")}
	}
	if !v.Type().IsObjectType() && !v.Type().IsMapType() {
		return nil, &source.ConfigurationError{
			Key: key,
			Err: fmt.Errorf("expected object, got %s", v.Type().FriendlyName()),
		}
	}
	nested := make(map[string]cty.Value)
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		nested[k.AsString()] = ev
	}
	return New(nested), nil
}

func (m *Map) decode(key string, target any) error {
	v, ok := m.values[key]
	if !ok {
		return &source.ConfigurationError{Key: key, Err: errMissing}
	}
	if v.IsNull() {
		return &source.ConfigurationError{Key: key, Err: errors.New("value is null")}
	}
	if err := gocty.FromCtyValue(v, target); err != nil {
		return &source.ConfigurationError{Key: key, Err: err}
	}
	return nil
}
