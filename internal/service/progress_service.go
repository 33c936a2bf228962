package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Petrels/internal/apperr"
	"github.com/lshigami/Petrels/internal/dto"
	"github.com/lshigami/Petrels/internal/model"
	"github.com/lshigami/Petrels/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProgressService owns the enrollment progress aggregate. Every recompute is
// a full recount from completion facts, so replaying any trigger converges on
// the same state.
type ProgressService interface {
	CompleteLesson(enrollmentID, lessonID uint) (*dto.ProgressSnapshotDTO, error)
	RecomputeProgress(enrollmentID uint) (*dto.ProgressSnapshotDTO, error)
}

type progressService struct {
	enrollmentRepo repository.EnrollmentRepository
	lessonRepo     repository.LessonRepository
	quizRepo       repository.QuizRepository
	attemptRepo    repository.AttemptRepository
	events         EventPublisher
}

func NewProgressService(
	enrollmentRepo repository.EnrollmentRepository,
	lessonRepo repository.LessonRepository,
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	events EventPublisher,
) ProgressService {
	return &progressService{
		enrollmentRepo: enrollmentRepo,
		lessonRepo:     lessonRepo,
		quizRepo:       quizRepo,
		attemptRepo:    attemptRepo,
		events:         events,
	}
}

// CompleteLesson records a lesson completion fact and folds it into the
// aggregate. Completing the same lesson twice is a no-op.
func (s *progressService) CompleteLesson(enrollmentID, lessonID uint) (*dto.ProgressSnapshotDTO, error) {
	enrollment, err := s.enrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to load enrollment %d: %w", enrollmentID, err)
	}
	if !enrollment.IsActive() && !enrollment.IsCompleted() {
		return nil, apperr.ErrEnrollmentNotActive
	}

	lesson, err := s.lessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to load lesson %d: %w", lessonID, err)
	}
	if lesson.CourseID != enrollment.CourseID {
		return nil, apperr.ErrLessonNotFound
	}

	completion := &model.LessonCompletion{
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		CompletedAt:  time.Now(),
	}
	if err := s.lessonRepo.CreateCompletion(completion); err != nil {
		return nil, fmt.Errorf("failed to record lesson completion: %w", err)
	}

	return s.RecomputeProgress(enrollmentID)
}

// RecomputeProgress recounts completed lessons, rewrites the aggregate and
// checks the completion condition. The active -> completed transition is
// guarded by a conditional update, so the course_completed event fires at
// most once no matter how many triggers race. A completed enrollment is
// never reverted, even if lessons are added to the course afterwards.
func (s *progressService) RecomputeProgress(enrollmentID uint) (*dto.ProgressSnapshotDTO, error) {
	enrollment, err := s.enrollmentRepo.FindByIDWithCourse(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to load enrollment %d: %w", enrollmentID, err)
	}

	totalLessons, err := s.lessonRepo.CountByCourseID(enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons for course %d: %w", enrollment.CourseID, err)
	}
	completedLessons, err := s.lessonRepo.CountCompletions(enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completions for enrollment %d: %w", enrollmentID, err)
	}
	// Lessons removed from the course can leave orphaned completion facts.
	if completedLessons > totalLessons {
		completedLessons = totalLessons
	}

	percentage := 0.0
	if totalLessons > 0 {
		percentage = math.Round(float64(completedLessons)/float64(totalLessons)*100*100) / 100
	}

	if err := s.enrollmentRepo.UpdateProgress(enrollmentID, int(completedLessons), int(totalLessons), percentage); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	enrollment.CompletedLessonsCount = int(completedLessons)
	enrollment.TotalLessonsCount = int(totalLessons)
	enrollment.ProgressPercentage = percentage

	if enrollment.IsActive() {
		done, err := s.completionConditionMet(enrollment, completedLessons, totalLessons)
		if err != nil {
			return nil, err
		}
		if done {
			completedAt := time.Now()
			transitioned, err := s.enrollmentRepo.TransitionToCompleted(enrollmentID, completedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to complete enrollment %d: %w", enrollmentID, err)
			}
			if transitioned {
				enrollment.Status = model.EnrollmentStatusCompleted
				enrollment.CompletedAt = &completedAt
				log.Info().Uint("enrollmentID", enrollmentID).Uint("courseID", enrollment.CourseID).
					Msg("Enrollment completed")
				s.events.PublishCourseCompleted(CourseCompletedEvent{
					EventID:      uuid.New(),
					EnrollmentID: enrollmentID,
					StudentID:    enrollment.StudentID,
					CourseID:     enrollment.CourseID,
					CompletedAt:  completedAt,
				})
			}
		}
	}

	return snapshotFromEnrollment(enrollment), nil
}

// completionConditionMet: every lesson is completed, and when the course
// requires passing grades, every published quiz in the course has at least
// one passing attempt. A quiz passed once stays passed regardless of later
// failing attempts. A course with zero lessons never auto-completes.
func (s *progressService) completionConditionMet(enrollment *model.Enrollment, completedLessons, totalLessons int64) (bool, error) {
	if totalLessons == 0 || completedLessons < totalLessons {
		return false, nil
	}
	if !enrollment.Course.RequirePassingGrades {
		return true, nil
	}

	requiredQuizIDs, err := s.quizRepo.FindPublishedIDsByCourse(enrollment.CourseID)
	if err != nil {
		return false, fmt.Errorf("failed to list required quizzes: %w", err)
	}
	if len(requiredQuizIDs) == 0 {
		return true, nil
	}
	passedQuizIDs, err := s.attemptRepo.FindPassedQuizIDs(enrollment.ID)
	if err != nil {
		return false, fmt.Errorf("failed to list passed quizzes: %w", err)
	}
	passed := make(map[uint]bool, len(passedQuizIDs))
	for _, id := range passedQuizIDs {
		passed[id] = true
	}
	for _, id := range requiredQuizIDs {
		if !passed[id] {
			return false, nil
		}
	}
	return true, nil
}

func snapshotFromEnrollment(e *model.Enrollment) *dto.ProgressSnapshotDTO {
	return &dto.ProgressSnapshotDTO{
		EnrollmentID:          e.ID,
		CourseID:              e.CourseID,
		Status:                e.Status,
		CompletedLessonsCount: e.CompletedLessonsCount,
		TotalLessonsCount:     e.TotalLessonsCount,
		ProgressPercentage:    e.ProgressPercentage,
		CompletedAt:           e.CompletedAt,
	}
}
