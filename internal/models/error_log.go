package models

import (
	"time"

	"gorm.io/gorm"
)

// ErrorLog records a failure reported back to the host, e.g. a kill request
// for a window that had already closed
type ErrorLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Source    string         `gorm:"not null;index" json:"source"` // "hook", "x11"
	WindowID  uint32         `gorm:"not null;default:0" json:"window_id"`
	ErrorMsg  string         `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
