package progress

import (
	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
)

type ResumePoint struct {
	LessonID        *uuid.UUID `json:"lesson_id,omitempty"`
	SubsectionIndex int        `json:"subsection_index"`
	// Review - студент уже на последнем подразделе урока
	Review bool `json:"review"`
}

// ResumeIndex возвращает подраздел, с которого продолжать урок lastAccessed:
// следующий после самого дальнего, если он есть, иначе сам самый дальний.
func ResumeIndex(lastAccessed *uuid.UUID, highest map[uuid.UUID]int, lessons []domain.Lesson) int {
	return Resume(lastAccessed, highest, lessons).SubsectionIndex
}

func Resume(lastAccessed *uuid.UUID, highest map[uuid.UUID]int, lessons []domain.Lesson) ResumePoint {
	if lastAccessed == nil {
		return ResumePoint{}
	}
	id := *lastAccessed
	point := ResumePoint{LessonID: &id}

	idx, ok := highest[id]
	if !ok {
		return point
	}

	subCount := 1
	for _, lesson := range lessons {
		if lesson.ID == id {
			subCount = SubsectionCount(lesson.Content)
			break
		}
	}

	if subCount > idx+1 {
		point.SubsectionIndex = idx + 1
	} else {
		point.SubsectionIndex = idx
		point.Review = true
	}
	if point.SubsectionIndex < 0 {
		point.SubsectionIndex = 0
	}
	return point
}
