package mapping

import (
	"github.com/bridgeflow/gateway/definitions"
	"strings"
)

// AutoMap produces one mapping per source field whose name equals, case
// insensitively, an unmapped destination column. Existing mappings are never
// overwritten, so running AutoMap twice over unchanged inputs yields nothing
// new. Authoring-time convenience only; never on the runtime path.
func AutoMap(sourceFields, destColumns []string, existing []definitions.FieldMapping) []definitions.FieldMapping {
	mappedColumns := make(map[string]struct{}, len(existing))
	mappedSources := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		mappedColumns[strings.ToLower(m.DestinationColumn)] = struct{}{}
		mappedSources[strings.ToLower(m.SourceField)] = struct{}{}
	}

	columnsByName := make(map[string]string, len(destColumns))
	for _, col := range destColumns {
		lower := strings.ToLower(col)
		if _, taken := mappedColumns[lower]; taken {
			continue
		}
		if _, ok := columnsByName[lower]; !ok {
			columnsByName[lower] = col
		}
	}

	var added []definitions.FieldMapping
	for _, field := range sourceFields {
		lower := strings.ToLower(field)
		if _, taken := mappedSources[lower]; taken {
			continue
		}
		col, ok := columnsByName[lower]
		if !ok {
			continue
		}
		delete(columnsByName, lower)
		mappedSources[lower] = struct{}{}
		added = append(added, definitions.FieldMapping{
			SourceField:       field,
			DestinationColumn: col,
			NullHandling:      definitions.NullSkip,
		})
	}
	return added
}
