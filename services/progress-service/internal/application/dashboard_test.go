package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeReader struct {
	mu sync.Mutex

	enrollments []domain.Enrollment
	lessons     []domain.Lesson
	sections    []domain.CourseSection
	tests       []domain.CourseTest
	attempts    []domain.TestAttempt
	mcs         []domain.MicrocredentialEnrollment
	favorites   []uuid.UUID
	catalog     []domain.Course

	failOn        string
	lessonCalls   [][]uuid.UUID
	excludeCalled []uuid.UUID
}

func (f *fakeReader) fail(what string) error {
	if f.failOn == what {
		return errors.New("connection refused")
	}
	return nil
}

func (f *fakeReader) GetEnrollments(ctx context.Context, studentID uuid.UUID) ([]domain.Enrollment, error) {
	return f.enrollments, f.fail("enrollments")
}

func (f *fakeReader) GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (*domain.Enrollment, error) {
	if err := f.fail("enrollment"); err != nil {
		return nil, err
	}
	for i := range f.enrollments {
		if f.enrollments[i].CourseID == courseID {
			return &f.enrollments[i], nil
		}
	}
	return nil, nil
}

func (f *fakeReader) GetActiveLessons(ctx context.Context, courseIDs []uuid.UUID) ([]domain.Lesson, error) {
	f.mu.Lock()
	f.lessonCalls = append(f.lessonCalls, courseIDs)
	f.mu.Unlock()
	return f.lessons, f.fail("lessons")
}

func (f *fakeReader) GetCourseSections(ctx context.Context, courseIDs []uuid.UUID) ([]domain.CourseSection, error) {
	return f.sections, f.fail("sections")
}

func (f *fakeReader) GetCourseTests(ctx context.Context, courseIDs []uuid.UUID) ([]domain.CourseTest, error) {
	return f.tests, f.fail("tests")
}

func (f *fakeReader) GetCompletedTestAttempts(ctx context.Context, studentID uuid.UUID) ([]domain.TestAttempt, error) {
	return f.attempts, f.fail("attempts")
}

func (f *fakeReader) GetMicrocredentialEnrollments(ctx context.Context, studentID uuid.UUID) ([]domain.MicrocredentialEnrollment, error) {
	return f.mcs, f.fail("mcs")
}

func (f *fakeReader) GetFavorites(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	return f.favorites, f.fail("favorites")
}

func (f *fakeReader) GetRecommendedCourses(ctx context.Context, exclude []uuid.UUID, limit int) ([]domain.Course, error) {
	f.mu.Lock()
	f.excludeCalled = exclude
	f.mu.Unlock()

	out := make([]domain.Course, 0, limit)
	for _, c := range f.catalog {
		if len(out) == limit {
			break
		}
		out = append(out, c)
	}
	return out, f.fail("recommended")
}

type fakeTitles struct {
	titles map[uuid.UUID]string
	asked  []uuid.UUID
	err    error
}

func (f *fakeTitles) ResolveMicrocredentialTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.asked = append(f.asked, ids...)
	return f.titles, f.err
}

func course(title string) *domain.Course {
	return &domain.Course{ID: uuid.New(), Title: title, IsActive: true}
}

func enrollment(c *domain.Course, percent int) domain.Enrollment {
	return domain.Enrollment{ID: uuid.New(), CourseID: c.ID, Course: c, Progress: percent}
}

func TestDashboardEmptyStudent(t *testing.T) {
	reader := &fakeReader{catalog: []domain.Course{*course("a"), *course("b"), *course("c"), *course("d"), *course("e")}}
	uc := NewDashboardUseCase(reader, nil, time.Second, 4)

	got, err := uc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Empty(t, got.EnrolledCourses)
	assert.Len(t, got.RecommendedCourses, 4)
	assert.Zero(t, got.Stats.ProgressPercentage)
	assert.Zero(t, got.Stats.CompletedCourses)
	assert.Empty(t, reader.lessonCalls, "no course ids, no lesson query")
}

func TestDashboardBackfillsMissingTitles(t *testing.T) {
	c1, c2 := course("l1"), course("l2")
	mc := &domain.Microcredential{ID: uuid.New(), CourseLevel1ID: c1.ID, CourseLevel2ID: c2.ID}

	reader := &fakeReader{
		enrollments: []domain.Enrollment{enrollment(c1, 100), enrollment(c2, 0)},
		mcs: []domain.MicrocredentialEnrollment{{
			ID: uuid.New(), MicrocredentialID: mc.ID, Microcredential: mc,
			Level1Completed: true, Status: domain.MicrocredentialInProgress,
		}},
	}
	titles := &fakeTitles{titles: map[uuid.UUID]string{mc.ID: "Data Analyst"}}
	uc := NewDashboardUseCase(reader, titles, time.Second, 4)

	got, err := uc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, got.MyCourses.Microcredentials, 1)
	assert.Equal(t, "Data Analyst", got.MyCourses.Microcredentials[0].Title)
	assert.False(t, got.MyCourses.Microcredentials[0].IsLevel2Locked)
	assert.Equal(t, []uuid.UUID{mc.ID}, titles.asked)
	assert.Equal(t, 50, got.Stats.ProgressPercentage)
	assert.ElementsMatch(t, []uuid.UUID{c1.ID, c2.ID}, reader.excludeCalled)
}

func TestDashboardTitleFailureIsNotFatal(t *testing.T) {
	c1, c2 := course("l1"), course("l2")
	mc := &domain.Microcredential{ID: uuid.New(), Title: "", CourseLevel1ID: c1.ID, CourseLevel2ID: c2.ID}

	reader := &fakeReader{
		enrollments: []domain.Enrollment{enrollment(c1, 0), enrollment(c2, 0)},
		mcs:         []domain.MicrocredentialEnrollment{{ID: uuid.New(), MicrocredentialID: mc.ID, Microcredential: mc}},
	}
	uc := NewDashboardUseCase(reader, &fakeTitles{err: errors.New("redis down")}, time.Second, 0)

	got, err := uc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, got.MyCourses.Microcredentials, 1)
	assert.True(t, got.MyCourses.Microcredentials[0].IsLevel2Locked)
}

func TestDashboardUpstreamFailure(t *testing.T) {
	for _, what := range []string{"enrollments", "attempts", "mcs", "favorites", "lessons", "sections", "tests", "recommended"} {
		t.Run(what, func(t *testing.T) {
			c := course("c")
			reader := &fakeReader{enrollments: []domain.Enrollment{enrollment(c, 10)}, failOn: what}
			uc := NewDashboardUseCase(reader, nil, time.Second, 4)

			_, err := uc.Dashboard(context.Background(), uuid.New())
			assert.ErrorIs(t, err, ErrSnapshotUnavailable)
		})
	}
}

func TestMyCourses(t *testing.T) {
	c1, c2 := course("a"), course("b")
	reader := &fakeReader{
		enrollments: []domain.Enrollment{enrollment(c1, 10), enrollment(c2, 20)},
		favorites:   []uuid.UUID{c2.ID},
	}
	uc := NewDashboardUseCase(reader, nil, 0, 4)

	got, err := uc.MyCourses(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, got.StandaloneCourses, 2)
	assert.False(t, got.StandaloneCourses[0].IsFavorite)
	assert.True(t, got.StandaloneCourses[1].IsFavorite)
	assert.Nil(t, reader.excludeCalled, "my-courses does not load recommendations")
}

func TestCourseProgress(t *testing.T) {
	c := course("Go")
	l1 := domain.Lesson{ID: uuid.New(), CourseID: c.ID, Position: 1, IsActive: true,
		Content: datatypes.JSON(`{"subsections": [{"title": "a"}, {"title": "b"}, {"title": "c"}]}`)}
	l2 := domain.Lesson{ID: uuid.New(), CourseID: c.ID, Position: 2, IsActive: true}

	e := enrollment(c, 40)
	e.SubsectionProgress = datatypes.JSON(`{"` + l1.ID.String() + `": 0}`)
	e.LastAccessedLessonID = &l1.ID

	reader := &fakeReader{enrollments: []domain.Enrollment{e}, lessons: []domain.Lesson{l2, l1}}
	uc := NewDashboardUseCase(reader, nil, time.Second, 4)

	got, err := uc.CourseProgress(context.Background(), uuid.New(), c.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, got.TotalSessions)
	assert.Equal(t, 4, got.TotalLessons)
	assert.Equal(t, 1, got.CompletedLessons)
	assert.Equal(t, 1, got.Resume.SubsectionIndex)
	require.Len(t, got.Lessons, 2)
	assert.Equal(t, l1.ID, got.Lessons[0].LessonID)
}

func TestCourseProgressNotEnrolled(t *testing.T) {
	uc := NewDashboardUseCase(&fakeReader{}, nil, time.Second, 4)

	_, err := uc.CourseProgress(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestCourseProgressUpstreamFailure(t *testing.T) {
	uc := NewDashboardUseCase(&fakeReader{failOn: "enrollment"}, nil, time.Second, 4)

	_, err := uc.CourseProgress(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrSnapshotUnavailable)
}
