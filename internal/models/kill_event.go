package models

import (
	"time"

	"gorm.io/gorm"
)

// KillEvent records a blacklisted window terminated during a work period
type KillEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Timestamp     time.Time      `gorm:"not null;index" json:"timestamp"`
	WindowID      uint32         `gorm:"not null" json:"window_id"`
	Class         string         `gorm:"not null;index" json:"class"`
	Title         string         `gorm:"not null" json:"title"`
	MatchedEntry  string         `gorm:"not null" json:"matched_entry"`
	DisplayServer string         `gorm:"not null" json:"display_server"` // "x11"
	CreatedAt     time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Transition records a session state change
type Transition struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Active    bool           `gorm:"not null" json:"active"`
	Reason    string         `gorm:"not null" json:"reason"`
	Elapsed   int64          `gorm:"not null;default:0" json:"elapsed"` // Length of the period that ended, in seconds
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type KillSummary struct {
	Class      string  `json:"class" yaml:"class"`
	KillCount  int     `json:"kill_count" yaml:"kill_count"`
	Percentage float64 `json:"percentage,omitempty" yaml:"percentage,omitempty"`
}

type ReportPeriod struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
	Type  string    `json:"type" yaml:"type"` // "day", "week", "month"
}

type Report struct {
	Period       ReportPeriod  `json:"period" yaml:"period"`
	Kills        []KillSummary `json:"kills" yaml:"kills"`
	TotalKills   int           `json:"total_kills" yaml:"total_kills"`
	WorkPeriods  int           `json:"work_periods" yaml:"work_periods"`
	BreakPeriods int           `json:"break_periods" yaml:"break_periods"`
	WorkSeconds  int64         `json:"work_seconds" yaml:"work_seconds"`
	WorkHours    float64       `json:"work_hours" yaml:"work_hours"`
	GeneratedAt  time.Time     `json:"generated_at" yaml:"generated_at"`
}
