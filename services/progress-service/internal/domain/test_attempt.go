package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

type TestAttempt struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID    uuid.UUID `gorm:"type:uuid;index"`
	CourseID     uuid.UUID `gorm:"type:uuid;index"`
	CourseTestID uuid.UUID `gorm:"type:uuid;index"`
	Status       string    `gorm:"type:varchar(16);index"`
	Score        float64
	CompletedAt  *time.Time
	CreatedAt    time.Time
}
