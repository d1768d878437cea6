package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"learnplatform/services/progress-service/internal/domain"
	"learnplatform/services/progress-service/internal/progress"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSnapshotUnavailable = errors.New("progress snapshot unavailable")
	ErrNotEnrolled         = errors.New("student is not enrolled in course")
)

// SnapshotReader - все чтения, нужные для дашборда студента.
type SnapshotReader interface {
	GetEnrollments(ctx context.Context, studentID uuid.UUID) ([]domain.Enrollment, error)
	GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (*domain.Enrollment, error)
	GetActiveLessons(ctx context.Context, courseIDs []uuid.UUID) ([]domain.Lesson, error)
	GetCourseSections(ctx context.Context, courseIDs []uuid.UUID) ([]domain.CourseSection, error)
	GetCourseTests(ctx context.Context, courseIDs []uuid.UUID) ([]domain.CourseTest, error)
	GetCompletedTestAttempts(ctx context.Context, studentID uuid.UUID) ([]domain.TestAttempt, error)
	GetMicrocredentialEnrollments(ctx context.Context, studentID uuid.UUID) ([]domain.MicrocredentialEnrollment, error)
	GetFavorites(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error)
	GetRecommendedCourses(ctx context.Context, exclude []uuid.UUID, limit int) ([]domain.Course, error)
}

type TitleResolver interface {
	ResolveMicrocredentialTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type DashboardUseCase struct {
	reader           SnapshotReader
	titles           TitleResolver
	timeout          time.Duration
	recommendedLimit int
}

func NewDashboardUseCase(reader SnapshotReader, titles TitleResolver, timeout time.Duration, recommendedLimit int) *DashboardUseCase {
	return &DashboardUseCase{
		reader:           reader,
		titles:           titles,
		timeout:          timeout,
		recommendedLimit: recommendedLimit,
	}
}

func (uc *DashboardUseCase) Dashboard(ctx context.Context, studentID uuid.UUID) (progress.DashboardPayload, error) {
	snap, titles, err := uc.load(ctx, studentID, true)
	if err != nil {
		return progress.DashboardPayload{}, err
	}
	return progress.BuildDashboard(snap, titles), nil
}

func (uc *DashboardUseCase) MyCourses(ctx context.Context, studentID uuid.UUID) (progress.MyCourses, error) {
	snap, titles, err := uc.load(ctx, studentID, false)
	if err != nil {
		return progress.MyCourses{}, err
	}

	favorites := make(map[uuid.UUID]struct{}, len(snap.Favorites))
	for _, id := range snap.Favorites {
		favorites[id] = struct{}{}
	}
	return progress.BuildMyCourses(snap.Calculator(), snap.Enrollments, snap.MicrocredentialEnrollments, titles, favorites), nil
}

func (uc *DashboardUseCase) CourseProgress(ctx context.Context, studentID, courseID uuid.UUID) (progress.CourseDetail, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	enrollment, err := uc.reader.GetEnrollment(ctx, studentID, courseID)
	if err != nil {
		return progress.CourseDetail{}, fmt.Errorf("%w: enrollment: %v", ErrSnapshotUnavailable, err)
	}
	if enrollment == nil || enrollment.Course == nil {
		return progress.CourseDetail{}, ErrNotEnrolled
	}

	var snap progress.Snapshot
	ids := []uuid.UUID{courseID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Lessons, err = uc.reader.GetActiveLessons(gctx, ids)
		return wrap("lessons", err)
	})
	g.Go(func() (err error) {
		snap.Sections, err = uc.reader.GetCourseSections(gctx, ids)
		return wrap("sections", err)
	})
	g.Go(func() (err error) {
		snap.CourseTests, err = uc.reader.GetCourseTests(gctx, ids)
		return wrap("course tests", err)
	})
	g.Go(func() (err error) {
		snap.CompletedAttempts, err = uc.reader.GetCompletedTestAttempts(gctx, studentID)
		return wrap("test attempts", err)
	})
	if err := g.Wait(); err != nil {
		return progress.CourseDetail{}, err
	}

	return snap.Calculator().Detail(*enrollment), nil
}

// load читает снимок в две волны: сначала всё, что зависит только от студента,
// затем уроки/секции/тесты по собранным id курсов. Внутри волны запросы идут параллельно.
func (uc *DashboardUseCase) load(ctx context.Context, studentID uuid.UUID, withRecommended bool) (progress.Snapshot, map[uuid.UUID]string, error) {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	snap := progress.Snapshot{StudentID: studentID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Enrollments, err = uc.reader.GetEnrollments(gctx, studentID)
		return wrap("enrollments", err)
	})
	g.Go(func() (err error) {
		snap.CompletedAttempts, err = uc.reader.GetCompletedTestAttempts(gctx, studentID)
		return wrap("test attempts", err)
	})
	g.Go(func() (err error) {
		snap.MicrocredentialEnrollments, err = uc.reader.GetMicrocredentialEnrollments(gctx, studentID)
		return wrap("microcredential enrollments", err)
	})
	g.Go(func() (err error) {
		snap.Favorites, err = uc.reader.GetFavorites(gctx, studentID)
		return wrap("favorites", err)
	})
	if err := g.Wait(); err != nil {
		return snap, nil, err
	}

	courseIDs := snap.CourseIDs()
	enrolledIDs := make([]uuid.UUID, 0, len(snap.Enrollments))
	for _, e := range snap.Enrollments {
		enrolledIDs = append(enrolledIDs, e.CourseID)
	}

	g, gctx = errgroup.WithContext(ctx)
	if len(courseIDs) > 0 {
		g.Go(func() (err error) {
			snap.Lessons, err = uc.reader.GetActiveLessons(gctx, courseIDs)
			return wrap("lessons", err)
		})
		g.Go(func() (err error) {
			snap.Sections, err = uc.reader.GetCourseSections(gctx, courseIDs)
			return wrap("sections", err)
		})
		g.Go(func() (err error) {
			snap.CourseTests, err = uc.reader.GetCourseTests(gctx, courseIDs)
			return wrap("course tests", err)
		})
	}
	if withRecommended && uc.recommendedLimit > 0 {
		g.Go(func() (err error) {
			snap.Recommended, err = uc.reader.GetRecommendedCourses(gctx, enrolledIDs, uc.recommendedLimit)
			return wrap("recommended courses", err)
		})
	}
	if err := g.Wait(); err != nil {
		return snap, nil, err
	}

	titles, err := progress.ResolveTitles(ctx, progress.KnownTitles(snap.MicrocredentialEnrollments), snap.MicrocredentialIDs(), uc.backfill())
	if err != nil {
		// Без названий дашборд всё равно строится
		log.Printf("Error resolving microcredential titles: %v", err)
	}

	return snap, titles, nil
}

func (uc *DashboardUseCase) backfill() progress.TitleBackfill {
	if uc.titles == nil {
		return nil
	}
	return uc.titles.ResolveMicrocredentialTitles
}

func (uc *DashboardUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrSnapshotUnavailable, what, err)
}
