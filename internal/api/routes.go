package api

import (
	"alcyxob/workout-log/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// SetupRoutes registers middleware and every route on router. The service is
// passed in explicitly; handlers hold no other state.
func SetupRoutes(
	router *gin.Engine,
	logger hclog.Logger,
	corsAllowOrigin string,
	workoutService service.WorkoutService,
) {
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		LoggerMiddleware(logger.Named("http")),
		CORSMiddleware(corsAllowOrigin),
	)

	workoutHandler := NewWorkoutHandler(workoutService, logger)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	workoutGroup := router.Group("/workouts")
	{
		workoutGroup.POST("", workoutHandler.CreateWorkout)
		workoutGroup.GET("", workoutHandler.GetWorkouts)
		workoutGroup.GET("/:id", workoutHandler.GetWorkout)
		workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
		workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
	}
}
