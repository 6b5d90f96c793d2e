// Package mapping resolves inbound records against a pipeline's field mapping
// list, applying transforms, null handling and data type coercion.
package mapping

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/errors"
	"github.com/bridgeflow/gateway/transform"
)

// ResolvedColumn is one (destination column, value) pair of the outgoing
// write, in mapping order.
type ResolvedColumn struct {
	Column string
	Value  any
}

// Resolve walks the mapping list in order and produces the outgoing column
// list. A missing value under nullHandling=skip omits the column entirely; a
// missing value under required aborts with a MappingError; coercion and
// transform failures abort with a MappingError as well.
func Resolve(record definitions.Record, mappings []definitions.FieldMapping) ([]ResolvedColumn, error) {
	resolved := make([]ResolvedColumn, 0, len(mappings))
	seen := make(map[string]struct{}, len(mappings))

	for _, m := range mappings {
		if _, dup := seen[m.DestinationColumn]; dup {
			// The compiler rejects duplicate destination columns; hitting one
			// here means the IR was tampered with after compilation.
			return nil, errors.NewValidationError("duplicate destination column %q in compiled mappings", m.DestinationColumn)
		}

		value, present := record.Lookup(m.SourceField)
		if !present || value == nil {
			switch m.NullHandling {
			case definitions.NullRequired:
				return nil, errors.NewMappingError(errors.ReasonMissingRequiredField, m.SourceField, nil)
			case definitions.NullUseDefault:
				def, err := coerce(m.DefaultValue, m.DataType)
				if err != nil {
					return nil, errors.NewMappingError(errors.ReasonTypeCoercion, m.SourceField, err)
				}
				seen[m.DestinationColumn] = struct{}{}
				resolved = append(resolved, ResolvedColumn{Column: m.DestinationColumn, Value: def})
			default:
				// skip: the column stays out of the write.
			}
			continue
		}

		if m.TransformType != "" {
			fn, err := transform.Lookup(m.TransformType)
			if err != nil {
				return nil, err
			}
			value, err = fn(value, m.TransformParam)
			if err != nil {
				return nil, errors.NewMappingError(errors.ReasonTypeCoercion, m.SourceField, err)
			}
		}

		value, err := coerce(value, m.DataType)
		if err != nil {
			return nil, errors.NewMappingError(errors.ReasonTypeCoercion, m.SourceField, err)
		}

		seen[m.DestinationColumn] = struct{}{}
		resolved = append(resolved, ResolvedColumn{Column: m.DestinationColumn, Value: value})
	}

	return resolved, nil
}
