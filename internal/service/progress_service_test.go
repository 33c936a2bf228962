package service

import (
	"testing"

	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type progressServiceMocks struct {
	enrollmentRepo *MockEnrollmentRepository
	lessonRepo     *MockLessonRepository
	quizRepo       *MockQuizRepository
	attemptRepo    *MockAttemptRepository
	events         *MockEventPublisher
}

func newProgressService(t *testing.T) (ProgressService, *progressServiceMocks) {
	t.Helper()
	m := &progressServiceMocks{
		enrollmentRepo: new(MockEnrollmentRepository),
		lessonRepo:     new(MockLessonRepository),
		quizRepo:       new(MockQuizRepository),
		attemptRepo:    new(MockAttemptRepository),
		events:         new(MockEventPublisher),
	}
	svc := NewProgressService(m.enrollmentRepo, m.lessonRepo, m.quizRepo, m.attemptRepo, m.events)
	return svc, m
}

func enrollmentWithCourse(status string, requirePassing bool) *model.Enrollment {
	return &model.Enrollment{
		ID: 7, CourseID: 3, StudentID: 42, Status: status,
		Course: model.Course{ID: 3, Title: "Intro Course", RequirePassingGrades: requirePassing},
	}
}

func TestRecomputeProgress_UpdatesAggregate(t *testing.T) {
	svc, m := newProgressService(t)
	m.enrollmentRepo.On("FindByIDWithCourse", uint(7)).Return(enrollmentWithCourse(model.EnrollmentStatusActive, false), nil)
	m.lessonRepo.On("CountByCourseID", uint(3)).Return(int64(3), nil)
	m.lessonRepo.On("CountCompletions", uint(7)).Return(int64(1), nil)
	m.enrollmentRepo.On("UpdateProgress", uint(7), 1, 3, 33.33).Return(nil)

	snapshot, err := svc.RecomputeProgress(7)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.CompletedLessonsCount)
	assert.Equal(t, 3, snapshot.TotalLessonsCount)
	assert.Equal(t, 33.33, snapshot.ProgressPercentage)
	assert.Equal(t, model.EnrollmentStatusActive, snapshot.Status)
	m.enrollmentRepo.AssertExpectations(t)
	m.events.AssertNotCalled(t, "PublishCourseCompleted", mock.Anything)
}

func TestRecomputeProgress_CompletesAndPublishesOnce(t *testing.T) {
	svc, m := newProgressService(t)
	m.enrollmentRepo.On("FindByIDWithCourse", uint(7)).Return(enrollmentWithCourse(model.EnrollmentStatusActive, false), nil)
	m.lessonRepo.On("CountByCourseID", uint(3)).Return(int64(2), nil)
	m.lessonRepo.On("CountCompletions", uint(7)).Return(int64(2), nil)
	m.enrollmentRepo.On("UpdateProgress", uint(7), 2, 2, 100.0).Return(nil)
	m.enrollmentRepo.On("TransitionToCompleted", uint(7), mock.AnythingOfType("time.Time")).Return(true, nil)
	m.events.On("PublishCourseCompleted", mock.MatchedBy(func(e CourseCompletedEvent) bool {
		return e.EnrollmentID == 7 && e.StudentID == 42 && e.CourseID == 3
	})).Return()

	snapshot, err := svc.RecomputeProgress(7)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusCompleted, snapshot.Status)
	require.NotNil(t, snapshot.CompletedAt)
	m.events.AssertNumberOfCalls(t, "PublishCourseCompleted", 1)
}

func TestRecomputeProgress_NoEventWhenTransitionLost(t *testing.T) {
	svc, m := newProgressService(t)
	m.enrollmentRepo.On("FindByIDWithCourse", uint(7)).Return(enrollmentWithCourse(model.EnrollmentStatusActive, false), nil)
	m.lessonRepo.On("CountByCourseID", uint(3)).Return(int64(2), nil)
	m.lessonRepo.On("CountCompletions", uint(7)).Return(int64(2), nil)
	m.enrollmentRepo.On("UpdateProgress", uint(7), 2, 2, 100.0).Return(nil)
	// Another trigger already flipped the enrollment to completed.
	m.enrollmentRepo.On("TransitionToCompleted", uint(7), mock.AnythingOfType("time.Time")).Return(false, nil)

	_, err := svc.RecomputeProgress(7)
	require.NoError(t, err)
	m.events.AssertNotCalled(t, "PublishCourseCompleted", mock.Anything)
}

func TestRecomputeProgress_CompletedEnrollmentIsNeverReverted(t *testing.T) {
	svc, m := newProgressService(t)
	m.enrollmentRepo.On("FindByIDWithCourse", uint(7)).Return(enrollmentWithCourse(model.EnrollmentStatusCompleted, false), nil)
	// A lesson was added to the course after completion.
	m.lessonRepo.On("CountByCourseID", uint(3)).Return(int64(3), nil)
	m.lessonRepo.On("CountCompletions", uint(7)).Return(int64(2), nil)
	m.enrollmentRepo.On("UpdateProgress", uint(7), 2, 3, 66.67).Return(nil)

	snapshot, err := svc.RecomputeProgress(7)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusCompleted, snapshot.Status)
	m.enrollmentRepo.AssertNotCalled(t, "TransitionToCompleted", mock.Anything, mock.Anything)
}

func TestRecomputeProgress_ZeroLessonCourseNeverCompletes(t *testing.T) {
	svc, m := newProgressService(t)
	m.enrollmentRepo.On("FindByIDWithCourse", uint(7)).Return(enrollmentWithCourse(model.EnrollmentStatusActive, false), nil)
	m.lessonRepo.On("CountByCourseID", uint(3)).Return(int64(0), nil)
	m.lessonRepo.On("CountCompletions", uint(7)).Return(int64(0), nil)
	m.enrollmentRepo.On("UpdateProgress", uint(7), 0, 0, 0.0).Return(nil)

	snapshot, err := svc.RecomputeProgress(7)
	require.NoError(t, err)
	assert.Equal(t, 0.0, snapshot.ProgressPercentage)
	assert.Equal(t, model.EnrollmentStatusActive, snapshot.Status)
	m.enrollmentRepo.AssertNotCalled(t, "TransitionToCompleted", mock.Anything, mock.Anything)
}

func TestRecomputeProgress_RequiresQuizPasses(t *testing.T) {
	svc, m := newProgressService(t)
	m.enrollmentRepo.On("FindByIDWithCourse", uint(7)).Return(enrollmentWithCourse(model.EnrollmentStatusActive, true), nil)
	m.lessonRepo.On("CountByCourseID", uint(3)).Return(int64(1), nil)
	m.lessonRepo.On("CountCompletions", uint(7)).Return(int64(1), nil)
	m.enrollmentRepo.On("UpdateProgress", uint(7), 1, 1, 100.0).Return(nil)
	m.quizRepo.On("FindPublishedIDsByCourse", uint(3)).Return([]uint{10, 11}, nil)
	// Quiz 11 has no passing attempt yet.
	m.attemptRepo.On("FindPassedQuizIDs", uint(7)).Return([]uint{10}, nil)

	snapshot, err := svc.RecomputeProgress(7)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusActive, snapshot.Status)
	m.enrollmentRepo.AssertNotCalled(t, "TransitionToCompleted", mock.Anything, mock.Anything)
}

func TestRecomputeProgress_BestAttemptPassCounts(t *testing.T) {
	svc, m := newProgressService(t)
	m.enrollmentRepo.On("FindByIDWithCourse", uint(7)).Return(enrollmentWithCourse(model.EnrollmentStatusActive, true), nil)
	m.lessonRepo.On("CountByCourseID", uint(3)).Return(int64(1), nil)
	m.lessonRepo.On("CountCompletions", uint(7)).Return(int64(1), nil)
	m.enrollmentRepo.On("UpdateProgress", uint(7), 1, 1, 100.0).Return(nil)
	m.quizRepo.On("FindPublishedIDsByCourse", uint(3)).Return([]uint{10}, nil)
	// One pass exists even though later attempts failed; that is enough.
	m.attemptRepo.On("FindPassedQuizIDs", uint(7)).Return([]uint{10}, nil)
	m.enrollmentRepo.On("TransitionToCompleted", uint(7), mock.AnythingOfType("time.Time")).Return(true, nil)
	m.events.On("PublishCourseCompleted", mock.AnythingOfType("CourseCompletedEvent")).Return()

	snapshot, err := svc.RecomputeProgress(7)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusCompleted, snapshot.Status)
}

func TestCompleteLesson_IsIdempotent(t *testing.T) {
	svc, m := newProgressService(t)
	enrollment := &model.Enrollment{ID: 7, CourseID: 3, Status: model.EnrollmentStatusActive}
	lesson := &model.Lesson{ID: 20, CourseID: 3}

	m.enrollmentRepo.On("FindByID", uint(7)).Return(enrollment, nil)
	m.lessonRepo.On("FindByID", uint(20)).Return(lesson, nil)
	m.lessonRepo.On("CreateCompletion", mock.AnythingOfType("*model.LessonCompletion")).Return(nil)
	m.enrollmentRepo.On("FindByIDWithCourse", uint(7)).Return(enrollmentWithCourse(model.EnrollmentStatusActive, false), nil)
	m.lessonRepo.On("CountByCourseID", uint(3)).Return(int64(2), nil)
	m.lessonRepo.On("CountCompletions", uint(7)).Return(int64(1), nil)
	m.enrollmentRepo.On("UpdateProgress", uint(7), 1, 2, 50.0).Return(nil)

	first, err := svc.CompleteLesson(7, 20)
	require.NoError(t, err)
	second, err := svc.CompleteLesson(7, 20)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompleteLesson_RejectsLessonFromAnotherCourse(t *testing.T) {
	svc, m := newProgressService(t)
	enrollment := &model.Enrollment{ID: 7, CourseID: 3, Status: model.EnrollmentStatusActive}
	lesson := &model.Lesson{ID: 20, CourseID: 99}

	m.enrollmentRepo.On("FindByID", uint(7)).Return(enrollment, nil)
	m.lessonRepo.On("FindByID", uint(20)).Return(lesson, nil)

	_, err := svc.CompleteLesson(7, 20)
	assert.ErrorIs(t, err, apperr.ErrLessonNotFound)
	m.lessonRepo.AssertNotCalled(t, "CreateCompletion", mock.Anything)
}

func TestCompleteLesson_EnrollmentNotFound(t *testing.T) {
	svc, m := newProgressService(t)
	m.enrollmentRepo.On("FindByID", uint(7)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.CompleteLesson(7, 20)
	assert.ErrorIs(t, err, apperr.ErrEnrollmentNotFound)
}
