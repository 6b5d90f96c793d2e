package mapping

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestAutoMap_CaseInsensitiveMatch(t *testing.T) {
	added := AutoMap(
		[]string{"temperature", "device_id"},
		[]string{"Temperature", "humidity"},
		nil,
	)

	require.Len(t, added, 1)
	assert.Equal(t, "temperature", added[0].SourceField)
	assert.Equal(t, "Temperature", added[0].DestinationColumn)
}

func TestAutoMap_NeverOverwritesManualMappings(t *testing.T) {
	existing := []definitions.FieldMapping{
		{SourceField: "temp", DestinationColumn: "temperature"},
	}

	added := AutoMap(
		[]string{"temperature", "device_id"},
		[]string{"temperature", "device_id"},
		existing,
	)

	require.Len(t, added, 1)
	assert.Equal(t, "device_id", added[0].SourceField)
}

func TestAutoMap_Idempotent(t *testing.T) {
	sourceFields := []string{"temperature", "device_id"}
	destColumns := []string{"temperature", "humidity"}

	first := AutoMap(sourceFields, destColumns, nil)
	require.Len(t, first, 1)

	second := AutoMap(sourceFields, destColumns, first)
	assert.Empty(t, second)
}

func TestAutoMap_Deterministic(t *testing.T) {
	sourceFields := []string{"b", "a", "c"}
	destColumns := []string{"A", "B"}

	first := AutoMap(sourceFields, destColumns, nil)
	second := AutoMap(sourceFields, destColumns, nil)
	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, "b", first[0].SourceField)
	assert.Equal(t, "a", first[1].SourceField)
}
