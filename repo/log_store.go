package repo

import (
	"fmt"
	"github.com/bridgeflow/gateway/definitions"
	"github.com/bridgeflow/gateway/models"
	"gorm.io/gorm"
	"time"
)

var ErrCouldNotAppendLogEntry = fmt.Errorf("could not append execution log entry")

const defaultPageSize = 50

// DefaultLogStore is the gorm-backed execution log.
type DefaultLogStore struct {
	db *gorm.DB
}

func NewLogStore(db *gorm.DB) definitions.LogStore {
	return &DefaultLogStore{db: db}
}

func (s *DefaultLogStore) Append(entry *models.ExecutionLogEntry) error {
	if entry.Status == "" {
		entry.Status = models.StatusPending
	}
	err := s.db.Create(entry).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCouldNotAppendLogEntry, err)
	}
	return nil
}

// MarkRetry records one intermediate retry state. Terminal entries are never
// touched.
func (s *DefaultLogStore) MarkRetry(id uint, retryCount int, message string) error {
	return s.db.Model(&models.ExecutionLogEntry{}).
		Where("id = ? AND status NOT IN ?", id, terminalStatuses()).
		Updates(map[string]any{
			"status":      models.StatusRetry,
			"retry_count": retryCount,
			"message":     message,
		}).Error
}

// Finalize moves an entry to its terminal status. A second finalize on the
// same entry is a no-op.
func (s *DefaultLogStore) Finalize(id uint, status models.LogStatus, message, dataReceived string) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot finalize entry %d to non-terminal status %s", id, status)
	}
	return s.db.Model(&models.ExecutionLogEntry{}).
		Where("id = ? AND status NOT IN ?", id, terminalStatuses()).
		Updates(map[string]any{
			"status":        status,
			"message":       message,
			"data_received": dataReceived,
		}).Error
}

func (s *DefaultLogStore) Delete(id uint) error {
	return s.db.Delete(&models.ExecutionLogEntry{}, id).Error
}

func (s *DefaultLogStore) Query(filter definitions.LogFilter) ([]models.ExecutionLogEntry, int64, error) {
	q := s.db.Model(&models.ExecutionLogEntry{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Source != "" {
		q = q.Where("source = ?", filter.Source)
	}
	if filter.Destination != "" {
		q = q.Where("destination = ?", filter.Destination)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var entries []models.ExecutionLogEntry
	err := q.Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

type countRow struct {
	Key   string
	Count int64
}

func (s *DefaultLogStore) Stats() (*definitions.LogStats, error) {
	stats := &definitions.LogStats{
		ByStatus:      map[string]int64{},
		BySource:      map[string]int64{},
		ByDestination: map[string]int64{},
	}

	for column, target := range map[string]map[string]int64{
		"status":      stats.ByStatus,
		"source":      stats.BySource,
		"destination": stats.ByDestination,
	} {
		var rows []countRow
		err := s.db.Model(&models.ExecutionLogEntry{}).
			Select(column + " AS key, COUNT(*) AS count").
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			target[row.Key] = row.Count
		}
	}

	err := s.db.Model(&models.ExecutionLogEntry{}).
		Where("created_at >= ?", time.Now().Add(-24*time.Hour)).
		Count(&stats.Last24h).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// PurgeExpired deletes terminal entries past their workflow's retention
// window. Workflows without a retention window keep their entries.
func (s *DefaultLogStore) PurgeExpired(now time.Time) (int64, error) {
	var workflows []models.WorkflowRecord
	err := s.db.Where("retention_hours > 0").Find(&workflows).Error
	if err != nil {
		return 0, err
	}

	var purged int64
	for _, wf := range workflows {
		cutoff := now.Add(-time.Duration(wf.RetentionHours * float64(time.Hour)))
		result := s.db.Where("workflow_id = ? AND status IN ? AND created_at < ?",
			wf.ID, terminalStatuses(), cutoff).
			Delete(&models.ExecutionLogEntry{})
		if result.Error != nil {
			return purged, result.Error
		}
		purged += result.RowsAffected
	}
	return purged, nil
}

func terminalStatuses() []models.LogStatus {
	return []models.LogStatus{models.StatusSuccess, models.StatusFailed, models.StatusDropped}
}
