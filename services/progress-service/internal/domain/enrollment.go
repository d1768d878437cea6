package domain

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Enrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StudentID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_student_course"`
	CourseID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_student_course"`
	Course    *Course   `gorm:"foreignKey:CourseID;references:ID"`

	EnrolledAt time.Time
	// Progress хранится отдельно (0-100) и считается источником правды для "курс пройден"
	Progress int

	CompletedLessonIDs datatypes.JSONSlice[uuid.UUID]
	// lessonId -> самый дальний индекс подраздела (-1 = ничего)
	SubsectionProgress   datatypes.JSON
	LastAccessedLessonID *uuid.UUID `gorm:"type:uuid"`

	UpdatedAt time.Time
}

func (e Enrollment) CompletedSet() map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(e.CompletedLessonIDs))
	for _, id := range e.CompletedLessonIDs {
		set[id] = struct{}{}
	}
	return set
}

// SubsectionIndexes разбирает SubsectionProgress. Битый JSON или ключи,
// которые не являются uuid, просто пропускаются. Огромные индексы обрезаются.
func (e Enrollment) SubsectionIndexes() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int)
	if len(e.SubsectionProgress) == 0 {
		return out
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.SubsectionProgress, &raw); err != nil {
		return out
	}
	for key, val := range raw {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		var idx float64
		if err := json.Unmarshal(val, &idx); err != nil || math.IsNaN(idx) {
			continue
		}
		out[id] = clampIndex(idx)
	}
	return out
}

// clampIndex приводит индекс к [-1, MaxInt32], иначе 1e20 при int() уходит в минус.
func clampIndex(v float64) int {
	switch {
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v < -1:
		return -1
	}
	return int(v)
}
