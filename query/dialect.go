package query

// Dialect selects the identifier quoting convention of a destination.
type Dialect string

const (
	// DialectMySQL quotes identifiers with backticks.
	DialectMySQL Dialect = "mysql"
	// DialectSAP quotes identifiers with double quotes and supports
	// schema-qualified tables.
	DialectSAP Dialect = "sap"
)

func (d Dialect) quote(ident string) string {
	if d == DialectMySQL {
		return "`" + ident + "`"
	}
	return `"` + ident + `"`
}

// qualifiedTable renders the statement's table reference. An unqualified
// table is emitted as authored; with a schema both parts are quoted, which is
// the SAP HANA convention for schema-qualified access.
func (d Dialect) qualifiedTable(schema, table string) string {
	if schema == "" {
		return table
	}
	return d.quote(schema) + "." + d.quote(table)
}
