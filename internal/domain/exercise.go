// internal/domain/exercise.go
package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Exercise is one movement performed during a Workout. It has no identity of
// its own and is only ever stored inside its parent's exercise list.
type Exercise struct {
	Name   string   `bson:"name" json:"name"`
	Reps   *float64 `bson:"reps,omitempty" json:"reps,omitempty"`
	Sets   *float64 `bson:"sets,omitempty" json:"sets,omitempty"`
	Weight *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
}

// Validate implements validation.Validatable so that a Workout's exercise list
// is checked element by element.
func (e Exercise) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
	)
}
