package progress

import (
	"github.com/google/uuid"
)

// CourseProgressSummary - прогресс студента по одному курсу.
// ProgressPercent - сохранённое значение из записи о зачислении,
// остальные счётчики пересчитываются из уроков и попыток.
type CourseProgressSummary struct {
	CourseID        uuid.UUID `json:"course_id"`
	Title           string    `json:"title"`
	CoverURL        string    `json:"cover_url"`
	Category        string    `json:"category"`
	ProgressPercent int       `json:"progress_percent"`

	TotalSessions     int `json:"total_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	// Lessons здесь - подразделы уроков (мелкие "лекции")
	TotalLessons     int `json:"total_lessons"`
	CompletedLessons int `json:"completed_lessons"`
	TotalQuizzes     int `json:"total_quizzes"`
	CompletedQuizzes int `json:"completed_quizzes"`
	TotalSections    int `json:"total_sections"`

	SessionPercent int `json:"session_percent"`
	LessonPercent  int `json:"lesson_percent"`

	Resume ResumePoint `json:"resume"`

	Level    int        `json:"level,omitempty"`
	IsLocked bool       `json:"is_locked"`
	State    LevelState `json:"state,omitempty"`
}

func (s CourseProgressSummary) IsCompleted() bool {
	return s.ProgressPercent >= 100
}

type MicrocredentialGroup struct {
	MicrocredentialID uuid.UUID `json:"microcredential_id"`
	Title             string    `json:"title"`
	Status            string    `json:"status"`

	Courses        [2]CourseProgressSummary `json:"courses"`
	IsLevel2Locked bool                     `json:"is_level2_locked"`
	BadgeUnlocked  bool                     `json:"badge_unlocked"`

	OverallProgress int `json:"overall_progress"`
}

type StandaloneCourseSummary struct {
	CourseProgressSummary
	IsFavorite bool `json:"is_favorite"`
}

type MyCourses struct {
	Microcredentials  []MicrocredentialGroup    `json:"microcredentials"`
	StandaloneCourses []StandaloneCourseSummary `json:"standalone_courses"`
}

type DashboardStats struct {
	CompletedCourses           int `json:"completed_courses"`
	CoursesInProgress          int `json:"courses_in_progress"`
	TotalStudyMinutes          int `json:"total_study_minutes"`
	CompletedMicrocredentials  int `json:"completed_microcredentials"`
	MicrocredentialsInProgress int `json:"microcredentials_in_progress"`
	ProgressPercentage         int `json:"progress_percentage"`
}

type CourseCard struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	CoverURL        string    `json:"cover_url"`
	DurationMinutes int       `json:"duration_minutes"`
	IsFavorite      bool      `json:"is_favorite"`
}

type DashboardPayload struct {
	EnrolledCourses    []CourseProgressSummary `json:"enrolled_courses"`
	MyCourses          MyCourses               `json:"my_courses"`
	Stats              DashboardStats          `json:"stats"`
	Favorites          []uuid.UUID             `json:"favorites"`
	RecommendedCourses []CourseCard            `json:"recommended_courses"`
}

// CourseDetail - прогресс по курсу с разбивкой по урокам.
type CourseDetail struct {
	CourseProgressSummary
	Lessons []LessonBreakdown `json:"lessons"`
}
