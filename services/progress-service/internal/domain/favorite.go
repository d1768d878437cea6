package domain

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}
