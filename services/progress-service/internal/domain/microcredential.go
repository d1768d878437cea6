package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MicrocredentialInProgress = "in_progress"
	MicrocredentialCompleted  = "completed"
)

// Microcredential - связка из двух курсов: уровень 1 и уровень 2.
type Microcredential struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title          string
	Description    string
	CourseLevel1ID uuid.UUID `gorm:"type:uuid;index"`
	CourseLevel2ID uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt time.Time
}

type MicrocredentialEnrollment struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey"`
	MicrocredentialID uuid.UUID        `gorm:"type:uuid;index"`
	Microcredential   *Microcredential `gorm:"foreignKey:MicrocredentialID;references:ID"`
	StudentID         uuid.UUID        `gorm:"type:uuid;index"`

	Level1Completed bool
	Level2Unlocked  bool
	BadgeUnlocked   bool
	Status          string `gorm:"type:varchar(16)"`

	EnrolledAt time.Time
	UpdatedAt  time.Time
}
