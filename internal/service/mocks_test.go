package service

import (
	"time"

	"github.com/lshigami/Petrels/internal/dto"
	"github.com/lshigami/Petrels/internal/model"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(quiz *model.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) FindByID(id uint) (*model.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quiz), args.Error(1)
}

func (m *MockQuizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Update(quiz *model.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) FindPublishedIDsByCourse(courseID uint) ([]uint, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(question *model.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) FindByID(id uint) (*model.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindByQuizID(quizID uint) ([]model.Question, error) {
	args := m.Called(quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionRepository) Update(question *model.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(attempt *model.QuizAttempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) FindByIDWithDetails(id uint) (*model.QuizAttempt, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) FindAllByEnrollmentAndQuiz(enrollmentID, quizID uint) ([]model.QuizAttempt, error) {
	args := m.Called(enrollmentID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuizAttempt), args.Error(1)
}

func (m *MockAttemptRepository) CountByEnrollmentAndQuiz(enrollmentID, quizID uint) (int64, error) {
	args := m.Called(enrollmentID, quizID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) CountByQuiz(quizID uint) (int64, error) {
	args := m.Called(quizID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAttemptRepository) UpsertAnswer(answer *model.AttemptAnswer) error {
	args := m.Called(answer)
	return args.Error(0)
}

func (m *MockAttemptRepository) UpsertAnswerInTx(tx *gorm.DB, answer *model.AttemptAnswer) error {
	args := m.Called(tx, answer)
	return args.Error(0)
}

func (m *MockAttemptRepository) MarkSubmitted(tx *gorm.DB, attemptID uint, submittedAt time.Time, timeTakenSeconds int, isLate bool) (bool, error) {
	args := m.Called(tx, attemptID, submittedAt, timeTakenSeconds, isLate)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptRepository) SaveGradingResult(tx *gorm.DB, attempt *model.QuizAttempt) error {
	args := m.Called(tx, attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) FindPassedQuizIDs(enrollmentID uint) ([]uint, error) {
	args := m.Called(enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindByIDWithCourse(id uint) (*model.Enrollment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) UpdateProgress(id uint, completedLessons, totalLessons int, progressPercentage float64) error {
	args := m.Called(id, completedLessons, totalLessons, progressPercentage)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) TransitionToCompleted(id uint, completedAt time.Time) (bool, error) {
	args := m.Called(id, completedAt)
	return args.Bool(0), args.Error(1)
}

type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) FindByID(id uint) (*model.Lesson, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Lesson), args.Error(1)
}

func (m *MockLessonRepository) CountByCourseID(courseID uint) (int64, error) {
	args := m.Called(courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLessonRepository) CreateCompletion(completion *model.LessonCompletion) error {
	args := m.Called(completion)
	return args.Error(0)
}

func (m *MockLessonRepository) CountCompletions(enrollmentID uint) (int64, error) {
	args := m.Called(enrollmentID)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishCourseCompleted(event CourseCompletedEvent) {
	m.Called(event)
}

func (m *MockEventPublisher) PublishQuizGraded(event QuizGradedEvent) {
	m.Called(event)
}

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) CompleteLesson(enrollmentID, lessonID uint) (*dto.ProgressSnapshotDTO, error) {
	args := m.Called(enrollmentID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProgressSnapshotDTO), args.Error(1)
}

func (m *MockProgressService) RecomputeProgress(enrollmentID uint) (*dto.ProgressSnapshotDTO, error) {
	args := m.Called(enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProgressSnapshotDTO), args.Error(1)
}
