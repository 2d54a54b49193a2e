package controllers

import (
	"errors"
	"net/http"

	"github.com/Uzzzi-bit/DX-Ontime-Project/services"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConsistency):
		status = http.StatusConflict
	case errors.Is(err, services.ErrDetectorUnavailable):
		status = http.StatusServiceUnavailable
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
