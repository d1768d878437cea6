package repository

import (
	"context"
	"encoding/json"
	"time"

	"learnplatform/services/progress-service/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const catalogKey = "courses:catalog:active"

type ProgressRepository struct {
	db         *gorm.DB
	rdb        *redis.Client
	catalogTTL time.Duration
}

func NewProgressRepository(db *gorm.DB, rdb *redis.Client, catalogTTL time.Duration) *ProgressRepository {
	return &ProgressRepository{db: db, rdb: rdb, catalogTTL: catalogTTL}
}

func (r *ProgressRepository) GetEnrollments(ctx context.Context, studentID uuid.UUID) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at asc").
		Find(&enrollments).Error
	return enrollments, err
}

// GetEnrollment возвращает nil без ошибки, если студент не записан на курс.
func (r *ProgressRepository) GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (*domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Limit(1).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, nil
	}
	return &enrollments[0], nil
}

func (r *ProgressRepository) GetActiveLessons(ctx context.Context, courseIDs []uuid.UUID) ([]domain.Lesson, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var lessons []domain.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id IN ? AND is_active = ?", courseIDs, true).
		Order("course_id, position asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *ProgressRepository) GetCourseSections(ctx context.Context, courseIDs []uuid.UUID) ([]domain.CourseSection, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var sections []domain.CourseSection
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("position asc").
		Find(&sections).Error
	return sections, err
}

func (r *ProgressRepository) GetCourseTests(ctx context.Context, courseIDs []uuid.UUID) ([]domain.CourseTest, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	var tests []domain.CourseTest
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("position asc").
		Find(&tests).Error
	return tests, err
}

// Незавершённые попытки в прогрессе не участвуют, поэтому режем их ещё в запросе
func (r *ProgressRepository) GetCompletedTestAttempts(ctx context.Context, studentID uuid.UUID) ([]domain.TestAttempt, error) {
	var attempts []domain.TestAttempt
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, domain.AttemptCompleted).
		Find(&attempts).Error
	return attempts, err
}

func (r *ProgressRepository) GetMicrocredentialEnrollments(ctx context.Context, studentID uuid.UUID) ([]domain.MicrocredentialEnrollment, error) {
	// Названия не грузим: их отдаёт TitleCache, а БД добирает только промахи
	var enrollments []domain.MicrocredentialEnrollment
	err := r.db.WithContext(ctx).
		Preload("Microcredential", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "course_level1_id", "course_level2_id", "created_at")
		}).
		Where("student_id = ?", studentID).
		Order("enrolled_at asc").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *ProgressRepository) GetFavorites(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("user_id = ?", studentID).
		Order("created_at desc").
		Pluck("course_id", &ids).Error
	return ids, err
}

// === КЕШИРУЕМ КАТАЛОГ АКТИВНЫХ КУРСОВ ===
// Рекомендации - это первые limit курсов каталога, на которые студент ещё не записан.
func (r *ProgressRepository) GetRecommendedCourses(ctx context.Context, exclude []uuid.UUID, limit int) ([]domain.Course, error) {
	if limit <= 0 {
		return []domain.Course{}, nil
	}

	catalog, err := r.activeCatalog(ctx)
	if err != nil {
		return nil, err
	}

	skip := make(map[uuid.UUID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	out := make([]domain.Course, 0, limit)
	for _, c := range catalog {
		if _, ok := skip[c.ID]; ok {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *ProgressRepository) activeCatalog(ctx context.Context) ([]domain.Course, error) {
	// 1. Кеш
	if r.rdb != nil {
		val, err := r.rdb.Get(ctx, catalogKey).Result()
		if err == nil {
			var courses []domain.Course
			if json.Unmarshal([]byte(val), &courses) == nil {
				return courses, nil
			}
		}
	}

	// 2. БД
	var courses []domain.Course
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	// 3. Пишем в кеш, ошибку записи игнорируем
	if r.rdb != nil {
		if data, err := json.Marshal(courses); err == nil {
			r.rdb.Set(ctx, catalogKey, data, r.catalogTTL)
		}
	}
	return courses, nil
}

// InvalidateCatalog сбрасывает кеш каталога после изменения курсов.
func (r *ProgressRepository) InvalidateCatalog(ctx context.Context) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(ctx, catalogKey).Err()
}

// ResolveMicrocredentialTitles - источник названий для TitleCache.
func (r *ProgressRepository) ResolveMicrocredentialTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var mcs []domain.Microcredential
	err := r.db.WithContext(ctx).
		Select("id", "title").
		Where("id IN ?", ids).
		Find(&mcs).Error
	if err != nil {
		return nil, err
	}
	for _, mc := range mcs {
		out[mc.ID] = mc.Title
	}
	return out, nil
}
