package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/bridgeflow/gateway/config"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/query"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"strings"
	"sync"
	"time"
)

// SQLAdapter executes synthesized statements against MySQL-compatible
// database destinations. Connections are opened lazily and reused; gorm owns
// the underlying pool.
type SQLAdapter struct {
	configs map[string]config.SQLDestinationConfig
	mu      sync.Mutex
	conns   map[string]*gorm.DB
}

func NewSQLAdapter(configs []config.SQLDestinationConfig) *SQLAdapter {
	byID := make(map[string]config.SQLDestinationConfig, len(configs))
	for _, c := range configs {
		byID[c.ID] = c
	}
	return &SQLAdapter{
		configs: byID,
		conns:   make(map[string]*gorm.DB),
	}
}

func (a *SQLAdapter) connection(id string) (*gorm.DB, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if db, ok := a.conns[id]; ok {
		return db, nil
	}
	cfg, ok := a.configs[id]
	if !ok {
		return nil, fmt.Errorf("%w: database %q", ErrUnknownDestination, id)
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	a.conns[id] = db
	return db, nil
}

func (a *SQLAdapter) Execute(ctx context.Context, id string, payload any) (*definitions.ExecutionResult, error) {
	stmt, ok := payload.(*query.Statement)
	if !ok {
		return nil, fmt.Errorf("database destination %q expects a statement, got %T", id, payload)
	}
	db, err := a.connection(id)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	if isSelect(stmt.SQL) {
		var rows []map[string]any
		err = db.WithContext(ctx).Raw(stmt.SQL, stmt.Args...).Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(rows)
		if err != nil {
			return nil, err
		}
		return &definitions.ExecutionResult{
			Success:      true,
			RowsAffected: int64(len(rows)),
			Latency:      time.Since(started),
			Body:         body,
		}, nil
	}

	result := db.WithContext(ctx).Exec(stmt.SQL, stmt.Args...)
	if result.Error != nil {
		return nil, result.Error
	}
	return &definitions.ExecutionResult{
		Success:      true,
		RowsAffected: result.RowsAffected,
		Latency:      time.Since(started),
	}, nil
}

func isSelect(sql string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sql)), "SELECT")
}
