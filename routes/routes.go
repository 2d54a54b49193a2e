package routes

import (
	"net/http"

	"github.com/Uzzzi-bit/DX-Ontime-Project/controllers"
	"github.com/Uzzzi-bit/DX-Ontime-Project/middlewares"
	"github.com/Uzzzi-bit/DX-Ontime-Project/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the HTTP layer exposes.
type Deps struct {
	Foods   *services.FoodService
	Meals   *services.MealService
	Targets *services.TargetService
	Log     *zap.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Log.Named("http")), cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	food := controllers.NewFoodController(d.Foods)
	meal := controllers.NewMealController(d.Meals)
	nutrition := controllers.NewNutritionController(d.Meals, d.Targets)

	api := r.Group("/api")
	{
		api.POST("/foods/resolve", food.Resolve)
		api.POST("/foods/detect", food.Detect)

		api.POST("/meals", meal.SaveMeal)
		api.GET("/meals/:member_id/:date", meal.ListMeals)
		api.GET("/meals/:member_id/:date/:slot", meal.GetMeal)
		api.PUT("/meals/:member_id/:date/:slot", meal.UpdateMealFoods)
		api.DELETE("/meals/:member_id/:date/:slot", meal.DeleteMeal)

		api.GET("/nutrition/daily/:member_id/:date", nutrition.DailyTotal)
		api.GET("/nutrition/progress/:member_id/:date", nutrition.DailyProgress)
	}
	return r
}
