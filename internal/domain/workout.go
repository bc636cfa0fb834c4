package domain

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a single logged training session owned by a user.
type Workout struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User           string             `bson:"user" json:"user"`         // Free-form owner reference, not checked against any users collection
	Date           time.Time          `bson:"date" json:"date"`
	Duration       float64            `bson:"duration" json:"duration"` // Minutes
	CaloriesBurned *float64           `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	Exercises      []Exercise         `bson:"exercises" json:"exercises"` // Order is preserved as submitted
}

// Validate checks the values of a decoded workout: user is not blank, date
// is set, every exercise is named. Whether a field was sent at all, and with
// the right JSON type, is the request decoder's job; that is also where the
// duration check lives, since zero is a legal duration here.
func (w Workout) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.User, validation.Required),
		validation.Field(&w.Date, validation.Required),
		validation.Field(&w.Exercises),
	)
}

// WorkoutUpdate is a partial change to a stored workout. A nil field keeps the
// stored value. Exercises, when set, replaces the whole list.
type WorkoutUpdate struct {
	User                *string
	Date                *time.Time
	Duration            *float64
	CaloriesBurned      *float64
	ClearCaloriesBurned bool
	Exercises           *[]Exercise
}

// Validate applies the Workout rules to the fields being changed only.
func (u WorkoutUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.User, validation.NilOrNotEmpty),
		validation.Field(&u.Date, validation.NilOrNotEmpty),
		validation.Field(&u.Exercises),
	)
}

// IsEmpty reports whether the update changes nothing.
func (u WorkoutUpdate) IsEmpty() bool {
	return u.User == nil && u.Date == nil && u.Duration == nil &&
		u.CaloriesBurned == nil && !u.ClearCaloriesBurned && u.Exercises == nil
}
