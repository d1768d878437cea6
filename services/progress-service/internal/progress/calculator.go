package progress

import (
	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
)

// Calculator индексирует снимок данных студента по курсам,
// чтобы считать прогресс каждого курса без повторных проходов по всем записям.
type Calculator struct {
	lessonsByCourse  map[uuid.UUID][]domain.Lesson
	testsByCourse    map[uuid.UUID][]uuid.UUID
	sectionsByCourse map[uuid.UUID]int
	attemptsByCourse map[uuid.UUID]int
}

func NewCalculator(lessons []domain.Lesson, sections []domain.CourseSection, tests []domain.CourseTest, attempts []domain.TestAttempt) *Calculator {
	c := &Calculator{
		lessonsByCourse:  make(map[uuid.UUID][]domain.Lesson),
		testsByCourse:    GroupCourseTests(tests),
		sectionsByCourse: make(map[uuid.UUID]int),
		attemptsByCourse: CountCompletedAttempts(attempts),
	}
	for _, l := range lessons {
		c.lessonsByCourse[l.CourseID] = append(c.lessonsByCourse[l.CourseID], l)
	}
	for _, s := range sections {
		c.sectionsByCourse[s.CourseID]++
	}
	return c
}

func (c *Calculator) Summarize(e domain.Enrollment) CourseProgressSummary {
	lessons := c.lessonsByCourse[e.CourseID]
	completed := e.CompletedSet()
	highest := e.SubsectionIndexes()

	counts := ComputeCourseProgress(e.CourseID, completed, highest, lessons)
	quizzes := CountQuizzes(e.CourseID, c.testsByCourse, c.attemptsByCourse)

	s := CourseProgressSummary{
		CourseID:          e.CourseID,
		ProgressPercent:   clampPercent(e.Progress),
		TotalSessions:     counts.TotalSessions,
		CompletedSessions: counts.CompletedSessions,
		TotalLessons:      counts.TotalSubsections,
		CompletedLessons:  counts.CompletedSubsections,
		TotalQuizzes:      quizzes.TotalQuizzes,
		CompletedQuizzes:  quizzes.CompletedQuizzes,
		TotalSections:     c.sectionsByCourse[e.CourseID],
		SessionPercent:    Percent(counts.CompletedSessions, counts.TotalSessions),
		LessonPercent:     Percent(counts.CompletedSubsections, counts.TotalSubsections),
		Resume:            Resume(e.LastAccessedLessonID, highest, lessons),
	}
	if e.Course != nil {
		s.Title = e.Course.Title
		s.CoverURL = e.Course.CoverURL
		s.Category = e.Course.Category
	}
	return s
}

func (c *Calculator) Detail(e domain.Enrollment) CourseDetail {
	return CourseDetail{
		CourseProgressSummary: c.Summarize(e),
		Lessons:               BreakdownLessons(e.CourseID, e.CompletedSet(), e.SubsectionIndexes(), c.lessonsByCourse[e.CourseID]),
	}
}

func clampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
