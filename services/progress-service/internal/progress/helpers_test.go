package progress

import (
	"fmt"
	"strings"

	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func contentWith(n int) datatypes.JSON {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"title": "part %d"}`, i+1)
	}
	return datatypes.JSON(`{"subsections": [` + strings.Join(items, ",") + `]}`)
}

func newLesson(courseID uuid.UUID, subsections int, minutes int) domain.Lesson {
	l := domain.Lesson{
		ID:              uuid.New(),
		CourseID:        courseID,
		Title:           "lesson",
		DurationMinutes: minutes,
		Type:            domain.LessonVideo,
		IsActive:        true,
	}
	if subsections > 0 {
		l.Content = contentWith(subsections)
	}
	return l
}

func progressJSON(m map[uuid.UUID]int) datatypes.JSON {
	parts := make([]string, 0, len(m))
	for id, idx := range m {
		parts = append(parts, fmt.Sprintf(`"%s": %d`, id, idx))
	}
	return datatypes.JSON("{" + strings.Join(parts, ",") + "}")
}

func newEnrollment(course *domain.Course, percent int, completed ...uuid.UUID) domain.Enrollment {
	e := domain.Enrollment{
		ID:                 uuid.New(),
		StudentID:          uuid.New(),
		Progress:           percent,
		CompletedLessonIDs: datatypes.JSONSlice[uuid.UUID](completed),
		Course:             course,
	}
	if course != nil {
		e.CourseID = course.ID
	} else {
		e.CourseID = uuid.New()
	}
	return e
}

func newCourse(title string) *domain.Course {
	return &domain.Course{ID: uuid.New(), Title: title, IsActive: true}
}

func newMicrocredential(title string, level1, level2 *domain.Course) *domain.Microcredential {
	return &domain.Microcredential{
		ID:             uuid.New(),
		Title:          title,
		CourseLevel1ID: level1.ID,
		CourseLevel2ID: level2.ID,
	}
}

func enrollIn(mc *domain.Microcredential, level1Completed bool) domain.MicrocredentialEnrollment {
	return domain.MicrocredentialEnrollment{
		ID:                uuid.New(),
		MicrocredentialID: mc.ID,
		Microcredential:   mc,
		Level1Completed:   level1Completed,
		Status:            domain.MicrocredentialInProgress,
	}
}
