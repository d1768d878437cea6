package progress

import (
	"log"

	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
)

// Snapshot - всё, что прочитано из хранилища для одного студента за один запрос.
type Snapshot struct {
	StudentID                  uuid.UUID
	Enrollments                []domain.Enrollment
	Lessons                    []domain.Lesson
	Sections                   []domain.CourseSection
	CourseTests                []domain.CourseTest
	CompletedAttempts          []domain.TestAttempt
	MicrocredentialEnrollments []domain.MicrocredentialEnrollment
	Favorites                  []uuid.UUID
	Recommended                []domain.Course
}

// CourseIDs - курсы, для которых нужны уроки, секции и тесты:
// зачисленные и оба уровня каждого микросертификата.
func (s Snapshot) CourseIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, e := range s.Enrollments {
		add(e.CourseID)
	}
	for _, mce := range s.MicrocredentialEnrollments {
		if mc := mce.Microcredential; mc != nil {
			add(mc.CourseLevel1ID)
			add(mc.CourseLevel2ID)
		}
	}
	return ids
}

func (s Snapshot) MicrocredentialIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.MicrocredentialEnrollments))
	for _, mce := range s.MicrocredentialEnrollments {
		ids = append(ids, mce.MicrocredentialID)
	}
	return ids
}

func (s Snapshot) Calculator() *Calculator {
	return NewCalculator(s.Lessons, s.Sections, s.CourseTests, s.CompletedAttempts)
}

func BuildDashboard(snap Snapshot, titles map[uuid.UUID]string) DashboardPayload {
	calc := snap.Calculator()

	favorites := make(map[uuid.UUID]struct{}, len(snap.Favorites))
	favList := make([]uuid.UUID, 0, len(snap.Favorites))
	for _, id := range snap.Favorites {
		if _, ok := favorites[id]; ok {
			continue
		}
		favorites[id] = struct{}{}
		favList = append(favList, id)
	}

	enrolled := make([]CourseProgressSummary, 0, len(snap.Enrollments))
	seen := make(map[uuid.UUID]struct{})
	for _, e := range snap.Enrollments {
		if e.Course == nil {
			log.Printf("enrollment %s references missing course %s, skipping", e.ID, e.CourseID)
			continue
		}
		if _, ok := seen[e.CourseID]; ok {
			continue
		}
		seen[e.CourseID] = struct{}{}
		enrolled = append(enrolled, calc.Summarize(e))
	}

	stats := Summarize(enrolled, snap.MicrocredentialEnrollments)
	stats.TotalStudyMinutes = StudyMinutes(snap.Enrollments, snap.Lessons)

	recommended := make([]CourseCard, 0, len(snap.Recommended))
	for _, c := range snap.Recommended {
		_, fav := favorites[c.ID]
		recommended = append(recommended, CourseCard{
			ID:              c.ID,
			Title:           c.Title,
			Description:     c.Description,
			Category:        c.Category,
			CoverURL:        c.CoverURL,
			DurationMinutes: c.DurationMinutes,
			IsFavorite:      fav,
		})
	}

	return DashboardPayload{
		EnrolledCourses:    enrolled,
		MyCourses:          BuildMyCourses(calc, snap.Enrollments, snap.MicrocredentialEnrollments, titles, favorites),
		Stats:              stats,
		Favorites:          favList,
		RecommendedCourses: recommended,
	}
}
