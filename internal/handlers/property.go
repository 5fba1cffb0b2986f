package handlers

import (
	"net/http"
	"strconv"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
	"brightnest-properties/internal/services"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
}

func NewPropertyHandler(propertyService *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

func respondError(c *gin.Context, err error) {
	appErr := apperrors.MapError(err)
	c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.UserMessage, "code": appErr.Code})
}

// requesterID returns the authenticated user id set by the auth middleware.
func requesterID(c *gin.Context) string {
	if id, exists := c.Get("user_id"); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}

// GetProperties serves one page of a filtered listing query.
func (h *PropertyHandler) GetProperties(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filters := models.PropertyFilters{
		PropertyType: c.Query("type"),
		City:         c.Query("city"),
		MinPrice:     c.Query("minPrice"),
		MaxPrice:     c.Query("maxPrice"),
		Status:       c.Query("status"),
		OwnerID:      c.Query("ownerId"),
	}

	response, err := h.propertyService.GetProperties(c.Request.Context(), filters, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (h *PropertyHandler) GetPropertyByID(c *gin.Context) {
	id := c.Param("id")
	property, err := h.propertyService.GetPropertyByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Views are telemetry; recording happens regardless of outcome and
	// never blocks the response path.
	h.propertyService.RecordPropertyView(c.Request.Context(), id)

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var input models.CreatePropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.propertyService.CreateProperty(c.Request.Context(), &input, requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": property})
}

func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	var patch models.UpdatePropertyInput
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.propertyService.UpdateProperty(c.Request.Context(), c.Param("id"), &patch, requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	if err := h.propertyService.DeleteProperty(c.Request.Context(), c.Param("id"), requesterID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
