// Package transform is the catalog of pure scalar value rewriters applied by
// field mappings. Every transform is a pure function: same value and param in,
// same value out.
package transform

import (
	"fmt"
	"github.com/bridgeflow/gateway/errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Func rewrites one scalar value. The param carries the transform's single
// optional argument (precision, layout, affix).
type Func func(value any, param string) (any, error)

var catalog = map[string]Func{
	"uppercase":   uppercase,
	"lowercase":   lowercase,
	"trim":        trim,
	"round":       round,
	"date_format": dateFormat,
	"prefix":      prefix,
	"suffix":      suffix,
}

// Lookup returns the named transform. An unknown name is a configuration
// error, surfaced at compile time rather than per record.
func Lookup(name string) (Func, error) {
	fn, ok := catalog[name]
	if !ok {
		return nil, errors.NewConfigError(errors.ReasonUnknownTransform, "unknown transform type %q", name)
	}
	return fn, nil
}

// Known reports whether name resolves to a catalog entry.
func Known(name string) bool {
	_, ok := catalog[name]
	return ok
}

func asString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func uppercase(value any, _ string) (any, error) {
	return strings.ToUpper(asString(value)), nil
}

func lowercase(value any, _ string) (any, error) {
	return strings.ToLower(asString(value)), nil
}

func trim(value any, _ string) (any, error) {
	return strings.TrimSpace(asString(value)), nil
}

// round rounds a numeric value to the precision given in the param
// (default 0, i.e. nearest integer).
func round(value any, param string) (any, error) {
	f, err := toFloat(value)
	if err != nil {
		return nil, err
	}
	precision := 0
	if param != "" {
		precision, err = strconv.Atoi(param)
		if err != nil {
			return nil, fmt.Errorf("invalid round precision %q: %v", param, err)
		}
	}
	factor := math.Pow10(precision)
	return math.Round(f*factor) / factor, nil
}

// dateFormat re-renders a timestamp using the Go layout in the param.
// Accepts time.Time values and RFC3339 strings; defaults to RFC3339 output.
func dateFormat(value any, param string) (any, error) {
	layout := param
	if layout == "" {
		layout = time.RFC3339
	}
	switch v := value.(type) {
	case time.Time:
		return v.Format(layout), nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as a timestamp: %v", v, err)
		}
		return t.Format(layout), nil
	}
	return nil, fmt.Errorf("cannot format %T as a date", value)
}

func prefix(value any, param string) (any, error) {
	return param + asString(value), nil
}

func suffix(value any, param string) (any, error) {
	return asString(value) + param, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot round non-numeric value %q", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("cannot round value of type %T", value)
}
