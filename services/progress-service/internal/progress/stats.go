package progress

import (
	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
)

// DefaultLessonMinutes засчитывается за пройденный урок без длительности.
const DefaultLessonMinutes = 15

func Summarize(enrolled []CourseProgressSummary, mcEnrollments []domain.MicrocredentialEnrollment) DashboardStats {
	var stats DashboardStats

	percentByCourse := make(map[uuid.UUID]int, len(enrolled))
	for _, c := range enrolled {
		percentByCourse[c.CourseID] = c.ProgressPercent
		if c.IsCompleted() {
			stats.CompletedCourses++
		}
	}
	stats.CoursesInProgress = len(enrolled) - stats.CompletedCourses

	for _, mce := range mcEnrollments {
		if mce.BadgeUnlocked {
			stats.CompletedMicrocredentials++
		} else if mce.Status == domain.MicrocredentialInProgress {
			stats.MicrocredentialsInProgress++
		}
	}

	switch {
	case len(mcEnrollments) > 0:
		var sum float64
		for _, mce := range mcEnrollments {
			var p1, p2 int
			if mc := mce.Microcredential; mc != nil {
				p1 = percentByCourse[mc.CourseLevel1ID]
				p2 = percentByCourse[mc.CourseLevel2ID]
			}
			sum += float64(p1+p2) / 2
		}
		stats.ProgressPercentage = roundHalfUp(sum / float64(len(mcEnrollments)))
	case len(enrolled) > 0:
		var sum int
		for _, c := range enrolled {
			sum += c.ProgressPercent
		}
		stats.ProgressPercentage = roundHalfUp(float64(sum) / float64(len(enrolled)))
	}

	return stats
}

// StudyMinutes суммирует длительность пройденных уроков по всем курсам студента.
func StudyMinutes(enrollments []domain.Enrollment, lessons []domain.Lesson) int {
	duration := make(map[uuid.UUID]int, len(lessons))
	for _, l := range lessons {
		duration[l.ID] = l.DurationMinutes
	}

	total := 0
	seen := make(map[uuid.UUID]struct{})
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		if _, ok := seen[e.CourseID]; ok {
			continue
		}
		seen[e.CourseID] = struct{}{}
		for id := range e.CompletedSet() {
			if d := duration[id]; d > 0 {
				total += d
			} else {
				total += DefaultLessonMinutes
			}
		}
	}
	return total
}
