package services

import (
	"context"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
	"brightnest-properties/internal/repositories"
	"brightnest-properties/pkg/logger"
	"brightnest-properties/pkg/metrics"
)

// ReconcileBatchCap bounds how many orphans one sweep examines.
const ReconcileBatchCap = 200

// PhotoReconciler re-links orphan photo uploads to properties by matching
// recorded image URLs. It runs out of band against the store, never
// touches the read cache, and is idempotent: an assigned row drops out of
// the orphan filter, so re-running produces no duplicate associations.
type PhotoReconciler struct {
	photos     repositories.PhotoRepository
	properties repositories.PropertyRepository
	batchSize  int
}

func NewPhotoReconciler(photos repositories.PhotoRepository, properties repositories.PropertyRepository, batchSize int) *PhotoReconciler {
	if batchSize <= 0 || batchSize > ReconcileBatchCap {
		batchSize = ReconcileBatchCap
	}
	return &PhotoReconciler{
		photos:     photos,
		properties: properties,
		batchSize:  batchSize,
	}
}

// Reconcile processes one bounded batch of orphans sequentially. A
// single-row failure is logged and skipped; the operation as a whole
// fails only when the initial orphan fetch fails.
func (r *PhotoReconciler) Reconcile(ctx context.Context) ([]models.PhotoAssociation, error) {
	orphans, err := r.photos.FindOrphans(ctx, r.batchSize)
	if err != nil {
		return nil, apperrors.NewStoreError("find_orphan_photos", err)
	}
	metrics.ReconcilerRunsTotal.Inc()

	associations := []models.PhotoAssociation{}
	for _, orphan := range orphans {
		property, err := r.properties.FindByImageURL(ctx, orphan.URL)
		if err != nil {
			logger.GlobalLogger.Errorf("Reconciler: property lookup failed for photo %s (%s): %v", orphan.PhotoID, orphan.URL, err)
			continue
		}
		if property == nil {
			continue
		}
		if err := r.photos.AssignProperty(ctx, orphan.PhotoID, property.PropertyID, models.PhotoSourceReconciliation); err != nil {
			logger.GlobalLogger.Errorf("Reconciler: failed to assign photo %s to property %s: %v", orphan.PhotoID, property.PropertyID, err)
			continue
		}
		associations = append(associations, models.PhotoAssociation{
			PhotoID:    orphan.PhotoID,
			PropertyID: property.PropertyID,
		})
	}

	if len(associations) > 0 {
		logger.GlobalLogger.Printf("Reconciler: associated %d of %d orphan photos", len(associations), len(orphans))
	}
	return associations, nil
}
