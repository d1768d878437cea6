package progress

import (
	"sort"

	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
)

type LessonCounts struct {
	TotalSessions        int
	CompletedSessions    int
	TotalSubsections     int
	CompletedSubsections int
}

// ComputeCourseProgress считает сессии и подразделы курса. Порядок уроков не важен.
// Урок из completed засчитывается целиком; иначе засчитывается highest+1 подразделов,
// и если это все подразделы - сессия тоже считается пройденной.
func ComputeCourseProgress(courseID uuid.UUID, completed map[uuid.UUID]struct{}, highest map[uuid.UUID]int, lessons []domain.Lesson) LessonCounts {
	var counts LessonCounts

	for _, lesson := range lessons {
		if lesson.CourseID != courseID {
			continue
		}
		counts.TotalSessions++

		subCount := SubsectionCount(lesson.Content)
		counts.TotalSubsections += subCount

		done, full := lessonCompletion(lesson.ID, subCount, completed, highest)
		counts.CompletedSubsections += done
		if full {
			counts.CompletedSessions++
		}
	}

	return counts
}

func lessonCompletion(lessonID uuid.UUID, subCount int, completed map[uuid.UUID]struct{}, highest map[uuid.UUID]int) (int, bool) {
	if _, ok := completed[lessonID]; ok {
		return subCount, true
	}

	idx, ok := highest[lessonID]
	if !ok || idx < 0 {
		return 0, false
	}
	done := min(idx+1, subCount)
	return done, done == subCount
}

// LessonBreakdown - прогресс по одному уроку (сессии).
type LessonBreakdown struct {
	LessonID             uuid.UUID         `json:"lesson_id"`
	Title                string            `json:"title"`
	Type                 domain.LessonType `json:"type"`
	Position             int               `json:"position"`
	DurationMinutes      int               `json:"duration_minutes"`
	TotalSubsections     int               `json:"total_subsections"`
	CompletedSubsections int               `json:"completed_subsections"`
	Completed            bool              `json:"completed"`
	Subsections          []Subsection      `json:"subsections,omitempty"`
}

// BreakdownLessons возвращает уроки курса по порядку Position.
func BreakdownLessons(courseID uuid.UUID, completed map[uuid.UUID]struct{}, highest map[uuid.UUID]int, lessons []domain.Lesson) []LessonBreakdown {
	out := make([]LessonBreakdown, 0)
	for _, lesson := range lessons {
		if lesson.CourseID != courseID {
			continue
		}
		content := ParseContent(lesson.Content)
		subCount := content.SubsectionCount()
		done, full := lessonCompletion(lesson.ID, subCount, completed, highest)

		out = append(out, LessonBreakdown{
			LessonID:             lesson.ID,
			Title:                lesson.Title,
			Type:                 lesson.Type,
			Position:             lesson.Position,
			DurationMinutes:      lesson.DurationMinutes,
			TotalSubsections:     subCount,
			CompletedSubsections: done,
			Completed:            full,
			Subsections:          content.Subsections,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}
