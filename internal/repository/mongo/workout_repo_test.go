package mongo

import (
	"alcyxob/workout-log/internal/domain"
	"alcyxob/workout-log/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func ptr(v float64) *float64 { return &v }

func workoutDoc(id primitive.ObjectID, user string, date time.Time, duration float64, exercises ...bson.D) bson.D {
	list := bson.A{}
	for _, e := range exercises {
		list = append(list, e)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user", Value: user},
		{Key: "date", Value: primitive.NewDateTimeFromTime(date)},
		{Key: "duration", Value: duration},
		{Key: "exercises", Value: list},
	}
}

func TestMongoWorkoutRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "test." + workoutCollectionName
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	mt.Run("create assigns a fresh id", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		w := &domain.Workout{User: "alice", Date: date, Duration: 30}
		id, err := repo.Create(ctx, w)
		require.NoError(mt, err)
		assert.False(mt, id.IsZero())
		assert.Equal(mt, id, w.ID)
		assert.NotNil(mt, w.Exercises)
	})

	mt.Run("create surfaces write errors", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Create(ctx, &domain.Workout{User: "alice", Date: date, Duration: 30})
		assert.Error(mt, err)
	})

	mt.Run("get all decodes every document", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			workoutDoc(first, "alice", date, 30, bson.D{{Key: "name", Value: "pushup"}, {Key: "reps", Value: 10.0}}),
			workoutDoc(second, "bob", date, 45),
		))

		workouts, err := repo.GetAll(ctx)
		require.NoError(mt, err)
		require.Len(mt, workouts, 2)
		assert.Equal(mt, first, workouts[0].ID)
		assert.Equal(mt, "alice", workouts[0].User)
		assert.Equal(mt, date, workouts[0].Date)
		assert.Equal(mt, []domain.Exercise{{Name: "pushup", Reps: ptr(10)}}, workouts[0].Exercises)
		assert.Equal(mt, "bob", workouts[1].User)
	})

	mt.Run("get all on an empty collection", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		workouts, err := repo.GetAll(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, workouts)
		assert.Empty(mt, workouts)
	})

	mt.Run("get all surfaces command errors", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		_, err := repo.GetAll(ctx)
		assert.Error(mt, err)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, workoutDoc(id, "alice", date, 30)))

		w, err := repo.GetByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, id, w.ID)
		assert.Equal(mt, 30.0, w.Duration)
		assert.Nil(mt, w.CaloriesBurned)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("update returns the post-image", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: workoutDoc(id, "alice", date, 60, bson.D{{Key: "name", Value: "pushup"}}),
		}))

		duration := 60.0
		updated, err := repo.Update(ctx, id, domain.WorkoutUpdate{Duration: &duration})
		require.NoError(mt, err)
		assert.Equal(mt, id, updated.ID)
		assert.Equal(mt, 60.0, updated.Duration)
		assert.Equal(mt, "alice", updated.User)
		assert.Equal(mt, []domain.Exercise{{Name: "pushup"}}, updated.Exercises)
	})

	mt.Run("update not found", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		user := "bob"
		_, err := repo.Update(ctx, primitive.NewObjectID(), domain.WorkoutUpdate{User: &user})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("empty update reads the stored document", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, workoutDoc(id, "alice", date, 30)))

		w, err := repo.Update(ctx, id, domain.WorkoutUpdate{})
		require.NoError(mt, err)
		assert.Equal(mt, id, w.ID)
		assert.Equal(mt, 30.0, w.Duration)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		assert.NoError(mt, repo.Delete(ctx, primitive.NewObjectID()))
	})

	mt.Run("delete not found", func(mt *mtest.T) {
		repo := NewMongoWorkoutRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		assert.ErrorIs(mt, repo.Delete(ctx, primitive.NewObjectID()), repository.ErrNotFound)
	})
}

func TestUpdateDocument(t *testing.T) {
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	user := "alice"
	duration := 45.0
	calories := 120.0

	t.Run("only sent fields are set", func(t *testing.T) {
		doc := updateDocument(domain.WorkoutUpdate{User: &user, Date: &date, Duration: &duration, CaloriesBurned: &calories})
		assert.Equal(t, bson.M{"$set": bson.M{
			"user":           "alice",
			"date":           date,
			"duration":       45.0,
			"caloriesBurned": 120.0,
		}}, doc)
	})

	t.Run("exercise list is replaced whole", func(t *testing.T) {
		doc := updateDocument(domain.WorkoutUpdate{Exercises: &[]domain.Exercise{{Name: "C"}}})
		assert.Equal(t, bson.M{"$set": bson.M{"exercises": []domain.Exercise{{Name: "C"}}}}, doc)
	})

	t.Run("nil exercise list is stored empty", func(t *testing.T) {
		var none []domain.Exercise
		doc := updateDocument(domain.WorkoutUpdate{Exercises: &none})
		assert.Equal(t, bson.M{"$set": bson.M{"exercises": []domain.Exercise{}}}, doc)
	})

	t.Run("cleared calories are unset", func(t *testing.T) {
		doc := updateDocument(domain.WorkoutUpdate{Duration: &duration, ClearCaloriesBurned: true})
		assert.Equal(t, bson.M{
			"$set":   bson.M{"duration": 45.0},
			"$unset": bson.M{"caloriesBurned": ""},
		}, doc)
	})
}

func TestDatabaseName(t *testing.T) {
	assert.Equal(t, "fitness", DatabaseName("mongodb://localhost:27017/other", "fitness"))
	assert.Equal(t, "other", DatabaseName("mongodb://localhost:27017/other", ""))
	assert.Equal(t, "test", DatabaseName("mongodb://localhost:27017", ""))
	assert.Equal(t, "test", DatabaseName("not a uri", ""))
}
