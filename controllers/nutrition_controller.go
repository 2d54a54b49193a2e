package controllers

import (
	"net/http"

	"github.com/Uzzzi-bit/DX-Ontime-Project/services"

	"github.com/gin-gonic/gin"
)

type NutritionController struct {
	meals   *services.MealService
	targets *services.TargetService
}

func NewNutritionController(meals *services.MealService, targets *services.TargetService) *NutritionController {
	return &NutritionController{meals: meals, targets: targets}
}

// GET /api/nutrition/daily/:member_id/:date
func (nc *NutritionController) DailyTotal(c *gin.Context) {
	sum, err := nc.meals.GetDailyTotal(c.Request.Context(), c.Param("member_id"), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "daily": sum})
}

// GET /api/nutrition/progress/:member_id/:date
func (nc *NutritionController) DailyProgress(c *gin.Context) {
	progress, err := nc.targets.GetDailyProgress(c.Request.Context(), c.Param("member_id"), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "progress": progress})
}
