package service

import (
	"alcyxob/workout-log/internal/domain"
	"alcyxob/workout-log/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrValidationFailed = errors.New("workout validation failed")
)

// ValidationError carries the reason a workout payload was rejected.
// It matches ErrValidationFailed under errors.Is.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error() + ": " + e.Reason.Error()
}

func (e *ValidationError) Unwrap() error { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// NewValidationError wraps reason as a *ValidationError.
func NewValidationError(reason error) error {
	return &ValidationError{Reason: reason}
}

// --- Service Interface ---
type WorkoutService interface {
	CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	GetWorkout(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, id primitive.ObjectID, update domain.WorkoutUpdate) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id primitive.ObjectID) error
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
	}
}

// CreateWorkout validates and stores a new workout. The returned workout is
// the one that was written, with its assigned ID.
func (s *workoutService) CreateWorkout(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	if err := workout.Validate(); err != nil {
		return nil, NewValidationError(err)
	}

	id, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = id
	return workout, nil
}

// ListWorkouts returns every workout. An empty store yields an empty, non-nil slice.
func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return workouts, nil
}

// GetWorkout retrieves a single workout.
func (s *workoutService) GetWorkout(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// UpdateWorkout changes the given fields of an existing workout and returns
// it as stored afterwards. Validation runs before the store is touched, so an
// invalid payload never reports not-found.
func (s *workoutService) UpdateWorkout(ctx context.Context, id primitive.ObjectID, update domain.WorkoutUpdate) (*domain.Workout, error) {
	if err := update.Validate(); err != nil {
		return nil, NewValidationError(err)
	}

	updated, err := s.workoutRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return updated, nil
}

// DeleteWorkout permanently removes a workout.
func (s *workoutService) DeleteWorkout(ctx context.Context, id primitive.ObjectID) error {
	err := s.workoutRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}
