package controllers

import (
	"net/http"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"
	"github.com/Uzzzi-bit/DX-Ontime-Project/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	meals *services.MealService
}

func NewMealController(meals *services.MealService) *MealController {
	return &MealController{meals: meals}
}

// POST /api/meals
func (mc *MealController) SaveMeal(c *gin.Context) {
	var body struct {
		MemberID string            `json:"member_id" binding:"required"`
		MealTime string            `json:"meal_time" binding:"required"`
		MealDate string            `json:"meal_date" binding:"required"`
		Foods    []models.FoodItem `json:"foods"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	meal, err := mc.meals.SaveMeal(c.Request.Context(), body.MemberID, body.MealDate, models.MealSlot(body.MealTime), body.Foods)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "meal": meal})
}

// GET /api/meals/:member_id/:date
func (mc *MealController) ListMeals(c *gin.Context) {
	meals, err := mc.meals.ListMeals(c.Request.Context(), c.Param("member_id"), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "date": c.Param("date"), "meals": meals, "count": len(meals)})
}

// GET /api/meals/:member_id/:date/:slot
func (mc *MealController) GetMeal(c *gin.Context) {
	meal, err := mc.meals.GetMeal(c.Request.Context(), c.Param("member_id"), c.Param("date"), models.MealSlot(c.Param("slot")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "meal": meal})
}

// PUT /api/meals/:member_id/:date/:slot  { "foods": ["apple", "banana"] }
func (mc *MealController) UpdateMealFoods(c *gin.Context) {
	var body struct {
		Foods []string `json:"foods"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	meal, err := mc.meals.UpdateMealFoods(c.Request.Context(),
		c.Param("member_id"), c.Param("date"), models.MealSlot(c.Param("slot")), body.Foods)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "meal": meal})
}

// DELETE /api/meals/:member_id/:date/:slot
func (mc *MealController) DeleteMeal(c *gin.Context) {
	err := mc.meals.DeleteMeal(c.Request.Context(), c.Param("member_id"), c.Param("date"), models.MealSlot(c.Param("slot")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
