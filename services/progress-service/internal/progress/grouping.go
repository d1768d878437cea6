package progress

import (
	"log"

	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
)

type LevelState string

const (
	StateLocked     LevelState = "locked"
	StateUnlocked   LevelState = "unlocked"
	StateInProgress LevelState = "in_progress"
	StateCompleted  LevelState = "completed"
)

func levelState(locked, completed bool, s CourseProgressSummary) LevelState {
	switch {
	case locked:
		return StateLocked
	case completed:
		return StateCompleted
	case s.ProgressPercent > 0 || s.CompletedLessons > 0 || s.CompletedQuizzes > 0:
		return StateInProgress
	}
	return StateUnlocked
}

// BuildMyCourses делит курсы студента на пары микросертификатов и отдельные курсы.
// Уровень 2 заблокирован, пока не пройден уровень 1 (флаг Level2Unlocked здесь не участвует).
// Группа выводится, только если по обоим курсам есть зачисление; курсы неполной пары
// всё равно считаются занятыми и не попадают в отдельные курсы.
func BuildMyCourses(calc *Calculator, enrollments []domain.Enrollment, mcEnrollments []domain.MicrocredentialEnrollment, titles map[uuid.UUID]string, favorites map[uuid.UUID]struct{}) MyCourses {
	byCourse := make(map[uuid.UUID]domain.Enrollment, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		if _, dup := byCourse[e.CourseID]; !dup {
			byCourse[e.CourseID] = e
		}
	}

	result := MyCourses{
		Microcredentials:  make([]MicrocredentialGroup, 0),
		StandaloneCourses: make([]StandaloneCourseSummary, 0),
	}
	claimed := make(map[uuid.UUID]struct{})

	for _, mce := range mcEnrollments {
		mc := mce.Microcredential
		if mc == nil {
			log.Printf("microcredential %s not found for enrollment %s, skipping", mce.MicrocredentialID, mce.ID)
			continue
		}
		claimed[mc.CourseLevel1ID] = struct{}{}
		claimed[mc.CourseLevel2ID] = struct{}{}

		e1, ok1 := byCourse[mc.CourseLevel1ID]
		e2, ok2 := byCourse[mc.CourseLevel2ID]
		if !ok1 || !ok2 {
			log.Printf("microcredential %s: missing course enrollment (level1=%t, level2=%t), skipping", mc.ID, ok1, ok2)
			continue
		}

		level1 := calc.Summarize(e1)
		level1.Level = 1
		level1.State = levelState(false, mce.Level1Completed, level1)

		level2 := calc.Summarize(e2)
		level2.Level = 2
		level2.IsLocked = !mce.Level1Completed
		level2.State = levelState(level2.IsLocked, level2.IsCompleted(), level2)

		title, ok := titles[mc.ID]
		if !ok {
			title = mc.Title
		}

		result.Microcredentials = append(result.Microcredentials, MicrocredentialGroup{
			MicrocredentialID: mc.ID,
			Title:             title,
			Status:            mce.Status,
			Courses:           [2]CourseProgressSummary{level1, level2},
			IsLevel2Locked:    level2.IsLocked,
			BadgeUnlocked:     mce.BadgeUnlocked,
			OverallProgress:   roundHalfUp(float64(level1.ProgressPercent+level2.ProgressPercent) / 2),
		})
	}

	seen := make(map[uuid.UUID]struct{})
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		if _, ok := claimed[e.CourseID]; ok {
			continue
		}
		if _, ok := seen[e.CourseID]; ok {
			continue
		}
		seen[e.CourseID] = struct{}{}

		_, fav := favorites[e.CourseID]
		result.StandaloneCourses = append(result.StandaloneCourses, StandaloneCourseSummary{
			CourseProgressSummary: calc.Summarize(e),
			IsFavorite:            fav,
		})
	}

	return result
}
