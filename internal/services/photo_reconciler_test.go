package services_test

import (
	"context"
	"testing"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
	"brightnest-properties/internal/services"

	"github.com/stretchr/testify/require"
)

func newReconcilerFixture(t *testing.T) (*services.PhotoReconciler, *serviceFixture) {
	t.Helper()
	fix := newServiceFixture(t)
	reconciler := services.NewPhotoReconciler(fix.photos, fix.repo, 50)
	return reconciler, fix
}

func TestReconcileAssociatesOrphans(t *testing.T) {
	reconciler, fix := newReconcilerFixture(t)
	ctx := context.Background()

	input := validCreateInput()
	input.Images = []string{"https://cdn/3.jpg"}
	created, err := fix.service.CreateProperty(ctx, input, "owner_1")
	require.NoError(t, err)

	// The create path already made a photo row for the URL, so clear it to
	// model a property whose image was uploaded through the storage path
	// before the property existed.
	fix.photos.photos = map[string]*models.Photo{}
	orphan := fix.photos.addOrphan("https://cdn/3.jpg")
	unmatched := fix.photos.addOrphan("https://cdn/unmatched.jpg")

	associations, err := reconciler.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.PhotoAssociation{
		{PhotoID: orphan.PhotoID, PropertyID: created.PropertyID},
	}, associations)

	assigned := fix.photos.photos[orphan.PhotoID]
	require.NotNil(t, assigned.PropertyID)
	require.Equal(t, created.PropertyID, *assigned.PropertyID)
	require.Equal(t, models.PhotoSourceReconciliation, assigned.Metadata["source"])

	// The unmatched orphan stays an orphan.
	require.Nil(t, fix.photos.photos[unmatched.PhotoID].PropertyID)
}

func TestReconcileIsIdempotent(t *testing.T) {
	reconciler, fix := newReconcilerFixture(t)
	ctx := context.Background()

	input := validCreateInput()
	input.Images = []string{"https://cdn/3.jpg"}
	_, err := fix.service.CreateProperty(ctx, input, "owner_1")
	require.NoError(t, err)

	fix.photos.photos = map[string]*models.Photo{}
	fix.photos.addOrphan("https://cdn/3.jpg")

	first, err := reconciler.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// With no new orphans between runs, the second sweep associates nothing.
	second, err := reconciler.Reconcile(ctx)
	require.NoError(t, err)
	require.Empty(t, second)
}

func TestReconcilePerRowFailureIsolation(t *testing.T) {
	reconciler, fix := newReconcilerFixture(t)
	ctx := context.Background()

	for _, url := range []string{"https://cdn/a.jpg", "https://cdn/b.jpg", "https://cdn/c.jpg"} {
		input := validCreateInput()
		input.Images = []string{url}
		_, err := fix.service.CreateProperty(ctx, input, "owner_1")
		require.NoError(t, err)
	}
	fix.photos.photos = map[string]*models.Photo{}
	orphanA := fix.photos.addOrphan("https://cdn/a.jpg")
	orphanB := fix.photos.addOrphan("https://cdn/b.jpg")
	orphanC := fix.photos.addOrphan("https://cdn/c.jpg")

	// One row's update fails; the sweep must still process the rest.
	fix.photos.assignErrs[orphanB.PhotoID] = fakeError("write conflict")

	associations, err := reconciler.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, associations, 2)
	photoIDs := map[string]bool{}
	for _, association := range associations {
		photoIDs[association.PhotoID] = true
	}
	require.True(t, photoIDs[orphanA.PhotoID])
	require.True(t, photoIDs[orphanC.PhotoID])
	require.False(t, photoIDs[orphanB.PhotoID])
}

func TestReconcileFailsOnlyWhenOrphanFetchFails(t *testing.T) {
	reconciler, fix := newReconcilerFixture(t)

	fix.photos.orphanFetch = fakeError("cursor timeout")
	_, err := reconciler.Reconcile(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsStoreFailure(err))
}

func TestReconcileBatchSizeIsCapped(t *testing.T) {
	fix := newServiceFixture(t)

	reconciler := services.NewPhotoReconciler(fix.photos, fix.repo, 0)
	_, err := reconciler.Reconcile(context.Background())
	require.NoError(t, err)
	require.Equal(t, services.ReconcileBatchCap, fix.photos.lastOrphanLimit)

	reconciler = services.NewPhotoReconciler(fix.photos, fix.repo, 10_000)
	_, err = reconciler.Reconcile(context.Background())
	require.NoError(t, err)
	require.Equal(t, services.ReconcileBatchCap, fix.photos.lastOrphanLimit)
}
