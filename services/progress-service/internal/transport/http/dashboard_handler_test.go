package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnplatform/services/progress-service/internal/application"
	"learnplatform/services/progress-service/internal/progress"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string]string

func (s stubTokens) ValidateAccessToken(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

type stubService struct {
	err      error
	student  uuid.UUID
	courseID uuid.UUID
}

func (s *stubService) Dashboard(ctx context.Context, studentID uuid.UUID) (progress.DashboardPayload, error) {
	s.student = studentID
	if s.err != nil {
		return progress.DashboardPayload{}, s.err
	}
	return progress.DashboardPayload{
		EnrolledCourses:    []progress.CourseProgressSummary{},
		Stats:              progress.DashboardStats{CompletedCourses: 2, ProgressPercentage: 67},
		Favorites:          []uuid.UUID{},
		RecommendedCourses: []progress.CourseCard{},
	}, nil
}

func (s *stubService) MyCourses(ctx context.Context, studentID uuid.UUID) (progress.MyCourses, error) {
	s.student = studentID
	return progress.MyCourses{
		Microcredentials:  []progress.MicrocredentialGroup{},
		StandaloneCourses: []progress.StandaloneCourseSummary{},
	}, s.err
}

func (s *stubService) CourseProgress(ctx context.Context, studentID, courseID uuid.UUID) (progress.CourseDetail, error) {
	s.student, s.courseID = studentID, courseID
	if s.err != nil {
		return progress.CourseDetail{}, s.err
	}
	return progress.CourseDetail{CourseProgressSummary: progress.CourseProgressSummary{CourseID: courseID, TotalSessions: 3}}, nil
}

var student = uuid.MustParse("6f1b7c7e-4c1e-4bb4-8f49-4a6c2b1f0e11")

func setup(svc DashboardService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Dashboard: NewDashboardHandler(svc),
		Tokens:    stubTokens{"good": student.String(), "odd": "not-a-uuid"},
	})
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDashboard(t *testing.T) {
	svc := &stubService{}
	w := get(setup(svc), "/api/v1/dashboard", "good")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, student, svc.student)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `[]`, string(body["enrolled_courses"]))

	var stats progress.DashboardStats
	require.NoError(t, json.Unmarshal(body["stats"], &stats))
	assert.Equal(t, 2, stats.CompletedCourses)
	assert.Equal(t, 67, stats.ProgressPercentage)
}

func TestMyCourses(t *testing.T) {
	w := get(setup(&stubService{}), "/api/v1/my-courses", "good")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"microcredentials": [], "standalone_courses": []}`, w.Body.String())
}

func TestCourseProgress(t *testing.T) {
	svc := &stubService{}
	courseID := uuid.New()

	w := get(setup(svc), fmt.Sprintf("/api/v1/courses/%s/progress", courseID), "good")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, courseID, svc.courseID)
}

func TestErrors(t *testing.T) {
	courseID := uuid.New()
	path := fmt.Sprintf("/api/v1/courses/%s/progress", courseID)

	tests := []struct {
		name  string
		path  string
		token string
		err   error
		code  int
	}{
		{"no token", "/api/v1/dashboard", "", nil, http.StatusUnauthorized},
		{"bad token", "/api/v1/dashboard", "bad", nil, http.StatusUnauthorized},
		{"subject not uuid", "/api/v1/dashboard", "odd", nil, http.StatusUnauthorized},
		{"bad course id", "/api/v1/courses/42/progress", "good", nil, http.StatusBadRequest},
		{"not enrolled", path, "good", application.ErrNotEnrolled, http.StatusNotFound},
		{"snapshot unavailable", "/api/v1/dashboard", "good",
			fmt.Errorf("%w: enrollments: timeout", application.ErrSnapshotUnavailable), http.StatusServiceUnavailable},
		{"unexpected", "/api/v1/my-courses", "good", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(setup(&stubService{err: tt.err}), tt.path, tt.token)
			assert.Equal(t, tt.code, w.Code)
			assert.NotContains(t, w.Body.String(), "timeout")
		})
	}
}

func TestHealthz(t *testing.T) {
	w := get(setup(&stubService{}), "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
