package controllers

import (
	"net/http"

	"github.com/Uzzzi-bit/DX-Ontime-Project/models"
	"github.com/Uzzzi-bit/DX-Ontime-Project/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	foods *services.FoodService
}

func NewFoodController(foods *services.FoodService) *FoodController {
	return &FoodController{foods: foods}
}

// POST /api/foods/resolve  { "foods": [{"name": "apple", "confidence": 0.9}] }
func (fc *FoodController) Resolve(c *gin.Context) {
	var body struct {
		Foods []models.FoodItem `json:"foods" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	results, err := fc.foods.Resolve(c.Request.Context(), body.Foods)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "nutrition_results": results})
}

// POST /api/foods/detect  { "image_base64": "data:…" }
func (fc *FoodController) Detect(c *gin.Context) {
	var body struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image_base64 is required"})
		return
	}
	foods, err := fc.foods.Recognize(c.Request.Context(), body.ImageBase64)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "foods": foods, "count": len(foods)})
}
