package progress

import (
	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
)

type QuizCounts struct {
	TotalQuizzes     int
	CompletedQuizzes int
}

// CountQuizzes не даёт completed превысить total: по одному тесту
// может быть несколько завершённых попыток.
func CountQuizzes(courseID uuid.UUID, courseTestIDs map[uuid.UUID][]uuid.UUID, completedByCourse map[uuid.UUID]int) QuizCounts {
	total := len(courseTestIDs[courseID])
	done := completedByCourse[courseID]
	if done > total {
		done = total
	}
	if done < 0 {
		done = 0
	}
	return QuizCounts{TotalQuizzes: total, CompletedQuizzes: done}
}

func GroupCourseTests(tests []domain.CourseTest) map[uuid.UUID][]uuid.UUID {
	out := make(map[uuid.UUID][]uuid.UUID)
	for _, t := range tests {
		out[t.CourseID] = append(out[t.CourseID], t.TestID)
	}
	return out
}

// CountCompletedAttempts учитывает только попытки со статусом completed.
func CountCompletedAttempts(attempts []domain.TestAttempt) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int)
	for _, a := range attempts {
		if a.Status != domain.AttemptCompleted {
			continue
		}
		out[a.CourseID]++
	}
	return out
}
