package repo

import (
	"fmt"
	"github.com/bridgeflow/gateway/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"os"
	"path"
)

var ErrCouldNotGetDBConnection = fmt.Errorf("could not get db connection")
var ErrCouldNotRunMigrations = fmt.Errorf("could not run migrations")

// OpenDB opens the gateway's own sqlite store under workDir.
func OpenDB(workDir string) (*gorm.DB, error) {
	if err := os.MkdirAll(path.Join(workDir, "db"), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotGetDBConnection, err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(workDir, "db", "gateway.db")), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotGetDBConnection, err)
	}
	return db, nil
}

// Migrate creates or updates the gateway's own tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.WorkflowRecord{},
		&models.PipelineRecord{},
		&models.ExecutionLogEntry{},
		&models.SenderApp{},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCouldNotRunMigrations, err)
	}
	return nil
}
