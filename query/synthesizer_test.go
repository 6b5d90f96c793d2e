package query

import (
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/errors"
	"github.com/bridgeflow/gateway/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestBuild_Insert(t *testing.T) {
	columns := []mapping.ResolvedColumn{
		{Column: "temp_c", Value: 25.5},
		{Column: "device", Value: "sensor-001"},
	}

	stmt, err := Build(DialectSAP, "", "readings", columns, definitions.OpInsert, "")
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO readings ("temp_c","device") VALUES (?,?)`, stmt.SQL)
	assert.Equal(t, []any{25.5, "sensor-001"}, stmt.Args)
}

func TestBuild_InsertMySQLQuoting(t *testing.T) {
	columns := []mapping.ResolvedColumn{
		{Column: "temp_c", Value: 25.5},
	}

	stmt, err := Build(DialectMySQL, "", "readings", columns, definitions.OpInsert, "")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO readings (`temp_c`) VALUES (?)", stmt.SQL)
}

func TestBuild_UpdateExcludesPrimaryKeyFromSet(t *testing.T) {
	columns := []mapping.ResolvedColumn{
		{Column: "id", Value: 7},
		{Column: "name", Value: "n"},
	}

	stmt, err := Build(DialectSAP, "", "t", columns, definitions.OpUpdate, "id")
	require.NoError(t, err)
	assert.Equal(t, `UPDATE t SET "name" = ? WHERE "id" = ?`, stmt.SQL)
	assert.Equal(t, []any{"n", 7}, stmt.Args)
}

func TestBuild_UpdateMissingPrimaryKey(t *testing.T) {
	columns := []mapping.ResolvedColumn{{Column: "name", Value: "n"}}

	_, err := Build(DialectSAP, "", "t", columns, definitions.OpUpdate, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfig)
}

func TestBuild_Delete(t *testing.T) {
	columns := []mapping.ResolvedColumn{
		{Column: "id", Value: 7},
		{Column: "name", Value: "n"},
	}

	stmt, err := Build(DialectMySQL, "", "t", columns, definitions.OpDelete, "id")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t WHERE `id` = ?", stmt.SQL)
	assert.Equal(t, []any{7}, stmt.Args)
}

func TestBuild_SchemaQualifiedSAPTable(t *testing.T) {
	columns := []mapping.ResolvedColumn{{Column: "v", Value: 1}}

	stmt, err := Build(DialectSAP, "IOT", "READINGS", columns, definitions.OpInsert, "")
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "IOT"."READINGS" ("v") VALUES (?)`, stmt.SQL)
}

func TestBuild_Upsert(t *testing.T) {
	columns := []mapping.ResolvedColumn{
		{Column: "id", Value: 1},
		{Column: "name", Value: "n"},
	}

	stmt, err := Build(DialectMySQL, "", "t", columns, definitions.OpUpsert, "")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t (`id`,`name`) VALUES (?,?) ON DUPLICATE KEY UPDATE `id` = VALUES(`id`),`name` = VALUES(`name`)", stmt.SQL)

	stmt, err = Build(DialectSAP, "", "t", columns, definitions.OpUpsert, "")
	require.NoError(t, err)
	assert.Equal(t, `UPSERT t ("id","name") VALUES (?,?) WITH PRIMARY KEY`, stmt.SQL)
}

func TestBuild_Pure(t *testing.T) {
	columns := []mapping.ResolvedColumn{
		{Column: "id", Value: 1},
		{Column: "name", Value: "n"},
	}

	first, err := Build(DialectSAP, "S", "t", columns, definitions.OpUpdate, "id")
	require.NoError(t, err)
	second, err := Build(DialectSAP, "S", "t", columns, definitions.OpUpdate, "id")
	require.NoError(t, err)
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, first.Args, second.Args)
}

func TestBuildSelect(t *testing.T) {
	stmt := BuildSelect(DialectMySQL, "", "readings", "")
	assert.Equal(t, "SELECT * FROM readings", stmt.SQL)

	custom := "SELECT id FROM readings WHERE temp_c > 30"
	stmt = BuildSelect(DialectMySQL, "", "readings", custom)
	assert.Equal(t, custom, stmt.SQL)
}

func TestBuild_SkippedColumnLeavesNoDanglingPlaceholder(t *testing.T) {
	// A mapping under nullHandling=skip simply never reaches the synthesizer,
	// so column and placeholder counts always agree.
	record := definitions.Record{"device_id": "sensor-001"}
	mappings := []definitions.FieldMapping{
		{SourceField: "temperature", DestinationColumn: "temp_c", NullHandling: definitions.NullSkip},
		{SourceField: "device_id", DestinationColumn: "device", NullHandling: definitions.NullRequired},
	}
	columns, err := mapping.Resolve(record, mappings)
	require.NoError(t, err)

	stmt, err := Build(DialectSAP, "", "readings", columns, definitions.OpInsert, "")
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO readings ("device") VALUES (?)`, stmt.SQL)
	assert.Len(t, stmt.Args, 1)
}
