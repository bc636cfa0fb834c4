package api

import (
	"alcyxob/workout-log/internal/domain"
	"alcyxob/workout-log/internal/service"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Response messages that are part of the public contract.
const (
	msgWorkoutNotFound = "Workout not found"
	msgWorkoutDeleted  = "Workout deleted successfully"
	msgInvalidID       = "Invalid workout ID"
	msgInternal        = "Something went wrong"
	msgValidationFail  = "Validation failed: "
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	logger         hclog.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, logger hclog.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		logger:         logger.Named("workouts"),
	}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest is one entry of a workout's exercise list as sent by clients.
type ExerciseRequest struct {
	Name   *string  `json:"name"`
	Reps   *float64 `json:"reps"`
	Sets   *float64 `json:"sets"`
	Weight *float64 `json:"weight"`
}

// Validate implements validation.Validatable. A blank name is rejected by
// domain.Exercise.
func (r ExerciseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NotNil),
	)
}

// WorkoutRequest is the body of both create and update. The request layer
// owns presence and type checks; rules on the values themselves belong to
// domain.Workout and domain.WorkoutUpdate.
type WorkoutRequest struct {
	User           *string           `json:"user"`
	Date           json.RawMessage   `json:"date"` // Date string in any common layout, or epoch milliseconds
	Duration       *float64          `json:"duration"`
	CaloriesBurned *float64          `json:"caloriesBurned"`
	Exercises      []ExerciseRequest `json:"exercises"`

	fields map[string]json.RawMessage // Top-level keys as sent, null included
}

// sent reports whether key appeared in the body.
func (r WorkoutRequest) sent(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// sentNull reports whether key appeared in the body with an explicit null.
func (r WorkoutRequest) sentNull(key string) bool {
	raw, ok := r.fields[key]
	return ok && isJSONNull(raw)
}

// Validate checks a create body: user, date and duration must all be there.
func (r WorkoutRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.User, validation.NotNil),
		validation.Field(&r.Date, validation.NotNil, validation.By(isDate)),
		validation.Field(&r.Duration, validation.NotNil),
		validation.Field(&r.Exercises),
	)
}

// ValidatePartial checks an update body. Absent fields are fine; a required
// field sent as null is not.
func (r WorkoutRequest) ValidatePartial() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.User, validation.When(r.sentNull("user"), validation.NotNil)),
		validation.Field(&r.Date, validation.When(r.sentNull("date"), validation.NotNil), validation.By(isDate)),
		validation.Field(&r.Duration, validation.When(r.sentNull("duration"), validation.NotNil)),
		validation.Field(&r.Exercises),
	)
}

func isJSONNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func isDate(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	if len(raw) == 0 {
		return nil
	}
	if _, err := parseDateValue(raw); err != nil {
		return errors.New("must be a valid date")
	}
	return nil
}

// parseDateValue reads a JSON date: a string, or a number of milliseconds
// since the Unix epoch.
func parseDateValue(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseDate(s)
	}
	var millis float64
	if err := json.Unmarshal(raw, &millis); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(int64(millis)).UTC(), nil
}

// parseDate accepts any layout dateparse understands. Dates without a zone
// are UTC, and precision is cut to what MongoDB stores.
func parseDate(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Millisecond), nil
}

func toDomainExercises(reqs []ExerciseRequest) []domain.Exercise {
	exercises := make([]domain.Exercise, 0, len(reqs))
	for _, ex := range reqs {
		exercises = append(exercises, domain.Exercise{
			Name:   *ex.Name,
			Reps:   ex.Reps,
			Sets:   ex.Sets,
			Weight: ex.Weight,
		})
	}
	return exercises
}

// toDomain converts a create request that passed Validate.
func (r WorkoutRequest) toDomain() (*domain.Workout, error) {
	date, err := parseDateValue(r.Date)
	if err != nil {
		return nil, err
	}
	return &domain.Workout{
		User:           *r.User,
		Date:           date,
		Duration:       *r.Duration,
		CaloriesBurned: r.CaloriesBurned,
		Exercises:      toDomainExercises(r.Exercises),
	}, nil
}

// toUpdate converts an update request that passed ValidatePartial.
// caloriesBurned sent as null clears the stored value; exercises sent as null
// empties the list.
func (r WorkoutRequest) toUpdate() (domain.WorkoutUpdate, error) {
	update := domain.WorkoutUpdate{
		User:           r.User,
		Duration:       r.Duration,
		CaloriesBurned: r.CaloriesBurned,
	}
	if len(r.Date) > 0 {
		date, err := parseDateValue(r.Date)
		if err != nil {
			return domain.WorkoutUpdate{}, err
		}
		update.Date = &date
	}
	if r.sentNull("caloriesBurned") {
		update.ClearCaloriesBurned = true
	}
	if r.sent("exercises") {
		exercises := toDomainExercises(r.Exercises)
		update.Exercises = &exercises
	}
	return update, nil
}

// ExerciseResponse is the DTO for one exercise inside a workout.
type ExerciseResponse struct {
	Name   string   `json:"name"`
	Reps   *float64 `json:"reps,omitempty"`
	Sets   *float64 `json:"sets,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// WorkoutResponse is the DTO for returning workout details.
type WorkoutResponse struct {
	ID             string             `json:"id"`
	User           string             `json:"user"`
	Date           time.Time          `json:"date"`
	Duration       float64            `json:"duration"`
	CaloriesBurned *float64           `json:"caloriesBurned,omitempty"`
	Exercises      []ExerciseResponse `json:"exercises"`
}

// MapWorkoutToResponse converts a domain.Workout to WorkoutResponse DTO.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	exercises := make([]ExerciseResponse, len(w.Exercises))
	for i, ex := range w.Exercises {
		exercises[i] = ExerciseResponse{
			Name:   ex.Name,
			Reps:   ex.Reps,
			Sets:   ex.Sets,
			Weight: ex.Weight,
		}
	}
	return WorkoutResponse{
		ID:             w.ID.Hex(),
		User:           w.User,
		Date:           w.Date,
		Duration:       w.Duration,
		CaloriesBurned: w.CaloriesBurned,
		Exercises:      exercises,
	}
}

// MapWorkoutsToResponse converts a slice of domain.Workout to a slice of WorkoutResponse DTO.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// --- Handler Methods ---

// CreateWorkout handles POST /workouts.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	workout, ok := h.bindWorkout(c)
	if !ok {
		return
	}

	created, err := h.workoutService.CreateWorkout(c.Request.Context(), workout)
	if err != nil {
		h.handleServiceError(c, "create", err)
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutToResponse(created))
}

// GetWorkouts handles GET /workouts. The list is neither filtered nor paginated.
func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, "list", err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkout handles GET /workouts/:id.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := parseWorkoutID(c)
	if !ok {
		return
	}

	workout, err := h.workoutService.GetWorkout(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, "get", err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// UpdateWorkout handles PUT /workouts/:id. Only the fields present in the
// body change; a sent exercise list replaces the stored one.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := parseWorkoutID(c)
	if !ok {
		return
	}
	update, ok := h.bindWorkoutUpdate(c)
	if !ok {
		return
	}

	updated, err := h.workoutService.UpdateWorkout(c.Request.Context(), id, update)
	if err != nil {
		h.handleServiceError(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutToResponse(updated))
}

// DeleteWorkout handles DELETE /workouts/:id.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := parseWorkoutID(c)
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, "delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgWorkoutDeleted})
}

// --- Helpers ---

// decodeWorkoutRequest binds the body and records which top-level keys it
// carried, so an absent field can be told from an explicit null.
func decodeWorkoutRequest(c *gin.Context) (WorkoutRequest, error) {
	var req WorkoutRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		return req, err
	}
	var fields map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&fields, binding.JSON); err != nil {
		return req, err
	}
	req.fields = fields
	if isJSONNull(req.Date) {
		req.Date = nil
	}
	return req, nil
}

// bindWorkout decodes and validates a create body. On failure the response
// has already been written.
func (h *WorkoutHandler) bindWorkout(c *gin.Context) (*domain.Workout, bool) {
	req, err := decodeWorkoutRequest(c)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgValidationFail+err.Error())
		return nil, false
	}
	workout, err := req.toDomain()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgValidationFail+err.Error())
		return nil, false
	}
	return workout, true
}

// bindWorkoutUpdate decodes and validates an update body.
func (h *WorkoutHandler) bindWorkoutUpdate(c *gin.Context) (domain.WorkoutUpdate, bool) {
	req, err := decodeWorkoutRequest(c)
	if err == nil {
		err = req.ValidatePartial()
	}
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgValidationFail+err.Error())
		return domain.WorkoutUpdate{}, false
	}
	update, err := req.toUpdate()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgValidationFail+err.Error())
		return domain.WorkoutUpdate{}, false
	}
	return update, true
}

// parseWorkoutID reads the :id path parameter. A value that is not an
// ObjectID is a client error, not a missing workout.
func parseWorkoutID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidID)
		return primitive.NilObjectID, false
	}
	return id, true
}

// handleServiceError maps a service error to exactly one response.
// Unexpected errors are logged but never echoed to the client.
func (h *WorkoutHandler) handleServiceError(c *gin.Context, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, msgValidationFail+verr.Reason.Error())
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, msgWorkoutNotFound)
	default:
		h.logger.Error("workout operation failed", "op", op, "error", err, "request_id", requestIDFromContext(c))
		abortWithError(c, http.StatusInternalServerError, msgInternal)
	}
}
