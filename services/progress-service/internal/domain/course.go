package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title           string    `gorm:"index"`
	Description     string
	Category        string `gorm:"index"`
	CoverURL        string
	DurationMinutes int
	IsActive        bool `gorm:"index"`

	// Связь один-ко-многим: у курса много уроков (сессий)
	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LessonType string

const (
	LessonVideo      LessonType = "video"
	LessonLivestream LessonType = "livestream"
	LessonHybrid     LessonType = "hybrid"
)

// Lesson - одна сессия курса. Content хранит произвольный JSON,
// из которого достаются подразделы (subsections).
type Lesson struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID        uuid.UUID `gorm:"type:uuid;index"`
	Title           string
	DurationMinutes int
	ScheduledAt     *time.Time
	Type            LessonType `gorm:"type:varchar(16)"`
	IsActive        bool       `gorm:"index"`
	Position        int        // Для сортировки (1, 2, 3...)
	Content         datatypes.JSON

	CreatedAt time.Time
}

type CourseSection struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID uuid.UUID `gorm:"type:uuid;index"`
	Title    string
	Position int
}

// CourseTest связывает курс с тестом (квизом).
type CourseTest struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourseID uuid.UUID `gorm:"type:uuid;index"`
	TestID   uuid.UUID `gorm:"type:uuid;index"`
	Position int
}
