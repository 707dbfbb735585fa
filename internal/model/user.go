package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User stores system users with role-based access.
// Role: "cashier" | "manager" | "admin"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SQLite has no server-side uuid default, so IDs are assigned on create.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TimeClockEntry is one shift punch. ClockOut is nil while the shift is open.
type TimeClockEntry struct {
	ID       int64      `gorm:"primaryKey;autoIncrement"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_timeclock_user_in,priority:1"`
	ClockIn  time.Time  `gorm:"not null;index:idx_timeclock_user_in,priority:2"`
	ClockOut *time.Time
}

func (TimeClockEntry) TableName() string { return "time_clock_entries" }
