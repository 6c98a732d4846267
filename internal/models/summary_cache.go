package models

import "time"

// SummaryCache stores a completed AI settlement summary keyed by the
// SHA-256 hash of the settlement-state payload it was generated from, so
// identical settlement states are served from cache instead of hitting the
// upstream model again.
type SummaryCache struct {
	PayloadHash string    `gorm:"primaryKey;size:64" json:"payload_hash"`
	Model       string    `json:"model"`
	Content     string    `gorm:"type:text" json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
