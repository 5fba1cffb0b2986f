package handlers

import (
	"net/http"

	"brightnest-properties/internal/models"
	"brightnest-properties/internal/services"

	"github.com/gin-gonic/gin"
)

type PhotoHandler struct {
	photoService *services.PhotoService
	reconciler   *services.PhotoReconciler
}

func NewPhotoHandler(photoService *services.PhotoService, reconciler *services.PhotoReconciler) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		reconciler:   reconciler,
	}
}

// RegisterPhoto records an object already uploaded to storage as an
// orphan photo row.
func (h *PhotoHandler) RegisterPhoto(c *gin.Context) {
	var input models.CreatePhotoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := h.photoService.RegisterPhoto(c.Request.Context(), &input, requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": photo})
}

func (h *PhotoHandler) ListPropertyPhotos(c *gin.Context) {
	photos, err := h.photoService.ListPropertyPhotos(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": photos})
}

// ReconcilePhotos triggers one orphan-photo sweep on demand; the same
// sweep also runs on the cron schedule.
func (h *PhotoHandler) ReconcilePhotos(c *gin.Context) {
	associations, err := h.reconciler.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"associations": associations, "count": len(associations)})
}
