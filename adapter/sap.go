package adapter

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/query"
	"sync"
	"time"
)

// SAPAdapter executes statements against SAP HANA destinations through a
// database/sql driver, typically an ODBC bridge registered by the embedding
// binary. Statement text arrives already synthesized with the SAP dialect's
// double-quote convention.
type SAPAdapter struct {
	configs map[string]config.SAPDestinationConfig
	mu      sync.Mutex
	conns   map[string]*sql.DB
}

func NewSAPAdapter(configs []config.SAPDestinationConfig) *SAPAdapter {
	byID := make(map[string]config.SAPDestinationConfig, len(configs))
	for _, c := range configs {
		byID[c.ID] = c
	}
	return &SAPAdapter{
		configs: byID,
		conns:   make(map[string]*sql.DB),
	}
}

func (a *SAPAdapter) connection(id string) (*sql.DB, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if db, ok := a.conns[id]; ok {
		return db, nil
	}
	cfg, ok := a.configs[id]
	if !ok {
		return nil, fmt.Errorf("%w: sap destination %q", ErrUnknownDestination, id)
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}
	a.conns[id] = db
	return db, nil
}

func (a *SAPAdapter) Execute(ctx context.Context, id string, payload any) (*definitions.ExecutionResult, error) {
	stmt, ok := payload.(*query.Statement)
	if !ok {
		return nil, fmt.Errorf("sap destination %q expects a statement, got %T", id, payload)
	}
	db, err := a.connection(id)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	if isSelect(stmt.SQL) {
		rows, err := db.QueryContext(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		collected, err := scanRows(rows)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(collected)
		if err != nil {
			return nil, err
		}
		return &definitions.ExecutionResult{
			Success:      true,
			RowsAffected: int64(len(collected)),
			Latency:      time.Since(started),
			Body:         body,
		}, nil
	}

	result, err := db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		affected = 0
	}
	return &definitions.ExecutionResult{
		Success:      true,
		RowsAffected: affected,
		Latency:      time.Since(started),
	}, nil
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var collected []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		collected = append(collected, row)
	}
	return collected, rows.Err()
}
