package database

import (
	"time"

	"github.com/pomoblock/pomoblock/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
)

// Repository handles all journal operations
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// CreateKill inserts a kill event
func (r *Repository) CreateKill(event *models.KillEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert kill event")
	}
	return nil
}

// CreateTransition inserts a session transition
func (r *Repository) CreateTransition(tr *models.Transition) error {
	result := r.db.Create(tr)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert transition")
	}
	return nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetKillSummary returns kill counts per window class in [since, until),
// most killed first
func (r *Repository) GetKillSummary(since, until time.Time) ([]models.KillSummary, error) {
	var summaries []models.KillSummary

	result := r.db.Model(&models.KillEvent{}).
		Select("class, COUNT(*) as kill_count").
		Where("timestamp >= ? AND timestamp < ?", since, until).
		Group("class").
		Order("kill_count DESC, class ASC").
		Scan(&summaries)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query kill summary")
	}

	return summaries, nil
}

// GetTransitions returns transitions in [since, until) in chronological order
func (r *Repository) GetTransitions(since, until time.Time) ([]*models.Transition, error) {
	var transitions []*models.Transition
	result := r.db.Where("timestamp >= ? AND timestamp < ?", since, until).
		Order("timestamp ASC").
		Find(&transitions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query transitions")
	}

	return transitions, nil
}

// GetLatestTransition retrieves the most recent transition, or nil if there is none
func (r *Repository) GetLatestTransition() (*models.Transition, error) {
	var tr models.Transition
	result := r.db.Order("timestamp DESC").First(&tr)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest transition")
	}
	return &tr, nil
}

// CountErrorsSince returns the number of host errors logged since a given time
func (r *Repository) CountErrorsSince(since time.Time) (int64, error) {
	var count int64
	result := r.db.Model(&models.ErrorLog{}).Where("timestamp >= ?", since).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to count error logs")
	}
	return count, nil
}

// DeleteOldEvents deletes journal rows older than a specified date (soft delete)
func (r *Repository) DeleteOldEvents(before time.Time) (int64, error) {
	var total int64
	for _, model := range []any{&models.KillEvent{}, &models.Transition{}, &models.ErrorLog{}} {
		result := r.db.Where("timestamp < ?", before).Delete(model)
		if result.Error != nil {
			return total, errors.Wrap(result.Error, "failed to delete old events")
		}
		total += result.RowsAffected
	}
	return total, nil
}

// Clear removes all journal rows from the database
func (r *Repository) Clear() error {
	for _, table := range []string{"kill_events", "transitions", "error_logs"} {
		if result := r.db.Exec("DELETE FROM " + table); result.Error != nil {
			return errors.Wrapf(result.Error, "failed to clear %s", table)
		}
	}
	return nil
}
