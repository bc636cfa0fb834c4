// internal/repository/mongo/workout_repo.go
package mongo

import (
	"alcyxob/workout-log/internal/domain"
	"alcyxob/workout-log/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout and assigns its ID.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	if workout.Exercises == nil {
		workout.Exercises = []domain.Exercise{}
	}

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetAll retrieves every stored workout in natural collection order.
func (r *mongoWorkoutRepository) GetAll(ctx context.Context) ([]domain.Workout, error) {
	workouts := []domain.Workout{}

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// Update applies a partial change with a single findOneAndUpdate and returns
// the post-image. Fields not named in update keep their stored values; a set
// exercise list replaces the stored one wholesale.
func (r *mongoWorkoutRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.WorkoutUpdate) (*domain.Workout, error) {
	if update.IsEmpty() {
		// An empty $set is rejected by the server; nothing to write anyway.
		return r.GetByID(ctx, id)
	}

	filter := bson.M{"_id": id}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated domain.Workout
	err := r.collection.FindOneAndUpdate(ctx, filter, updateDocument(update), opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound // Workout with that ID didn't exist
		}
		return nil, err
	}
	return &updated, nil
}

// updateDocument builds the $set/$unset operators for a WorkoutUpdate.
func updateDocument(update domain.WorkoutUpdate) bson.M {
	set := bson.M{}
	if update.User != nil {
		set["user"] = *update.User
	}
	if update.Date != nil {
		set["date"] = *update.Date
	}
	if update.Duration != nil {
		set["duration"] = *update.Duration
	}
	if update.CaloriesBurned != nil {
		set["caloriesBurned"] = *update.CaloriesBurned
	}
	if update.Exercises != nil {
		exercises := *update.Exercises
		if exercises == nil {
			exercises = []domain.Exercise{}
		}
		set["exercises"] = exercises
	}

	doc := bson.M{}
	if len(set) > 0 {
		doc["$set"] = set
	}
	if update.ClearCaloriesBurned && update.CaloriesBurned == nil {
		doc["$unset"] = bson.M{"caloriesBurned": ""}
	}
	return doc
}

// Delete removes a workout permanently.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
