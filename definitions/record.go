package definitions

import (
	"github.com/mitchellh/mapstructure"
	"strings"
)

// Record is one inbound payload, flat or nested. Nested values are addressed
// with dotted paths, e.g. "device.location.lat".
type Record map[string]any

// Lookup resolves a possibly-dotted field path. The second return is false
// when the path does not exist; a present-but-nil value returns (nil, true).
func (r Record) Lookup(path string) (any, bool) {
	if v, ok := r[path]; ok {
		return v, true
	}
	parts := strings.Split(path, ".")
	var current any = map[string]any(r)
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// DecodeStepConfig decodes a step's raw config block into a typed config
// struct.
func DecodeStepConfig(input map[string]any, output any) error {
	return mapstructure.Decode(input, output)
}
