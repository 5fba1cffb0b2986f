package services_test

import (
	"context"
	"testing"
	"time"

	apperrors "brightnest-properties/internal/errors"
	"brightnest-properties/internal/models"
	"brightnest-properties/internal/services"
	"brightnest-properties/internal/validators"
	"brightnest-properties/pkg/cache"

	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service   *services.PropertyService
	repo      *fakePropertyRepo
	photos    *fakePhotoRepo
	cache     *cache.TTLCache
	ownership *fakeOwnershipCache
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	photos := newFakePhotoRepo()
	repo := newFakePropertyRepo(photos)
	ttlCache := cache.NewTTLCache()
	ownership := newFakeOwnershipCache()
	service := services.NewPropertyService(
		repo, photos, ttlCache, ownership,
		validators.NewPropertyValidator(),
		5*time.Minute, 2*time.Minute,
	)
	return &serviceFixture{
		service:   service,
		repo:      repo,
		photos:    photos,
		cache:     ttlCache,
		ownership: ownership,
	}
}

func validCreateInput(images ...string) *models.CreatePropertyInput {
	return &models.CreatePropertyInput{
		Title:   "Test Property",
		Address: "123 Test Lane",
		City:    "Testville",
		Price:   1000.00,
		Images:  images,
	}
}

func TestCreatePropertyImageValidation(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	tooMany := make([]string, 26)
	for i := range tooMany {
		tooMany[i] = "https://cdn.example.com/img.jpg"
	}

	cases := []struct {
		name   string
		images []string
	}{
		{"too many images", tooMany},
		{"data URI", []string{"data:image/png;base64,iVBORw0KGgo="}},
		{"non-http scheme", []string{"ftp://x"}},
		{"relative URL", []string{"/images/1.jpg"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fix.service.CreateProperty(ctx, validCreateInput(tc.images...), "user_abc")
			require.Error(t, err)
			require.True(t, apperrors.IsValidation(err))
		})
	}

	// No store access may happen for rejected input.
	require.Empty(t, fix.repo.properties)
	require.Empty(t, fix.photos.photos)

	_, err := fix.service.CreateProperty(ctx, validCreateInput("https://cdn/x.jpg"), "user_abc")
	require.NoError(t, err)
}

func TestCreatePropertyRequiredFields(t *testing.T) {
	fix := newServiceFixture(t)

	input := validCreateInput()
	input.Title = ""
	_, err := fix.service.CreateProperty(context.Background(), input, "user_abc")
	require.True(t, apperrors.IsValidation(err))
}

func TestCreatePropertyAssociationCompleteness(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx,
		validCreateInput("https://cdn.example.com/prop/1.jpg", "https://cdn.example.com/prop/2.jpg"),
		"user_abc")
	require.NoError(t, err)
	require.NotEmpty(t, created.PropertyID)
	require.Equal(t, "user_abc", created.OwnerID)
	require.Equal(t, models.PropertyStatusActive, created.Status)

	photos, err := fix.photos.FindByPropertyID(ctx, created.PropertyID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	urls := map[string]bool{}
	for _, photo := range photos {
		urls[photo.URL] = true
		require.Equal(t, models.PhotoSourceCreation, photo.Metadata["source"])
	}
	require.True(t, urls["https://cdn.example.com/prop/1.jpg"])
	require.True(t, urls["https://cdn.example.com/prop/2.jpg"])
}

func TestCreatePropertyAtomicFailureLeavesNoPartialState(t *testing.T) {
	fix := newServiceFixture(t)
	fix.repo.failPhotoInsert = fakeError("photo insert failed: connection reset")

	_, err := fix.service.CreateProperty(context.Background(),
		validCreateInput("https://cdn/1.jpg", "https://cdn/2.jpg"), "user_abc")
	require.Error(t, err)
	require.True(t, apperrors.IsStoreFailure(err))

	require.Empty(t, fix.repo.properties)
	require.Empty(t, fix.photos.photos)
}

func TestCreatePropertyInvalidatesListingNamespace(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	// Warm a listing entry, then create; the cached page must be gone.
	_, err := fix.service.GetProperties(ctx, models.PropertyFilters{City: "Testville"}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, fix.repo.listCalls)

	_, err = fix.service.CreateProperty(ctx, validCreateInput(), "user_abc")
	require.NoError(t, err)

	_, err = fix.service.GetProperties(ctx, models.PropertyFilters{City: "Testville"}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, fix.repo.listCalls)
}

func TestGetPropertyByIDCacheThrough(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx, validCreateInput(), "user_abc")
	require.NoError(t, err)

	first, err := fix.service.GetPropertyByID(ctx, created.PropertyID)
	require.NoError(t, err)
	second, err := fix.service.GetPropertyByID(ctx, created.PropertyID)
	require.NoError(t, err)
	require.Equal(t, first.PropertyID, second.PropertyID)

	// Two reads within the TTL hit the store exactly once.
	require.Equal(t, 1, fix.repo.findByIDCalls)

	// A write drops the detail entry; the next read goes to the store.
	title := "Renamed"
	_, err = fix.service.UpdateProperty(ctx, created.PropertyID, &models.UpdatePropertyInput{Title: &title}, "user_abc")
	require.NoError(t, err)
	callsAfterUpdate := fix.repo.findByIDCalls

	got, err := fix.service.GetPropertyByID(ctx, created.PropertyID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Title)
	require.Equal(t, callsAfterUpdate+1, fix.repo.findByIDCalls)
}

func TestGetPropertyByIDNotFound(t *testing.T) {
	fix := newServiceFixture(t)

	_, err := fix.service.GetPropertyByID(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err))
}

func TestGetPropertiesCacheKeyIsolation(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	_, err := fix.service.CreateProperty(ctx, validCreateInput(), "user_abc")
	require.NoError(t, err)
	fix.repo.listCalls = 0

	cityA, err := fix.service.GetProperties(ctx, models.PropertyFilters{City: "Testville"}, 1, 10)
	require.NoError(t, err)
	cityB, err := fix.service.GetProperties(ctx, models.PropertyFilters{City: "Elsewhere"}, 1, 10)
	require.NoError(t, err)

	// Distinct filter tuples never share an entry.
	require.Equal(t, 2, fix.repo.listCalls)
	require.Len(t, cityA.Properties, 1)
	require.Len(t, cityB.Properties, 0)

	// Repeating either tuple is served from the cache.
	_, err = fix.service.GetProperties(ctx, models.PropertyFilters{City: "Testville"}, 1, 10)
	require.NoError(t, err)
	_, err = fix.service.GetProperties(ctx, models.PropertyFilters{City: "Elsewhere"}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, fix.repo.listCalls)
}

func TestGetPropertiesPaginationAndClamping(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := fix.service.CreateProperty(ctx, validCreateInput(), "user_abc")
		require.NoError(t, err)
	}

	response, err := fix.service.GetProperties(ctx, models.PropertyFilters{}, 2, 10)
	require.NoError(t, err)
	require.Equal(t, int64(25), response.Pagination.Total)
	require.Equal(t, 3, response.Pagination.TotalPages)
	require.True(t, response.Pagination.HasNext)
	require.True(t, response.Pagination.HasPrev)
	require.Len(t, response.Properties, 10)

	// page and limit are clamped, not rejected.
	response, err = fix.service.GetProperties(ctx, models.PropertyFilters{}, 0, 1000)
	require.NoError(t, err)
	require.Equal(t, 1, response.Pagination.Page)
	require.Equal(t, 100, response.Pagination.Limit)
	require.False(t, response.Pagination.HasPrev)
}

func TestUpdatePropertyUnauthorized(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx, validCreateInput(), "owner_1")
	require.NoError(t, err)
	fix.repo.updateCalls = 0

	title := "Hijacked"
	_, err = fix.service.UpdateProperty(ctx, created.PropertyID, &models.UpdatePropertyInput{Title: &title}, "intruder")
	require.Error(t, err)
	require.True(t, apperrors.IsUnauthorized(err))
	require.Equal(t, 0, fix.repo.updateCalls)
}

func TestUpdatePropertyOwnershipDecidedFromStore(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx, validCreateInput(), "owner_1")
	require.NoError(t, err)

	// Poison the read cache with a copy claiming a different owner. The
	// ownership check must still pass because it reads the store.
	stale := *created
	stale.OwnerID = "someone_else"
	fix.cache.Set(cache.PropertyKey(created.PropertyID), &stale, time.Hour)

	title := "Renamed"
	updated, err := fix.service.UpdateProperty(ctx, created.PropertyID, &models.UpdatePropertyInput{Title: &title}, "owner_1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
}

func TestUpdatePropertyAssociatesImages(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx, validCreateInput(), "owner_1")
	require.NoError(t, err)

	// One URL already exists as an orphan upload; the other is brand new.
	orphan := fix.photos.addOrphan("https://cdn/orphan.jpg")

	patch := &models.UpdatePropertyInput{Images: []string{"https://cdn/orphan.jpg", "https://cdn/new.jpg"}}
	_, err = fix.service.UpdateProperty(ctx, created.PropertyID, patch, "owner_1")
	require.NoError(t, err)

	photos, err := fix.photos.FindByPropertyID(ctx, created.PropertyID)
	require.NoError(t, err)
	require.Len(t, photos, 2)

	bySource := map[string]string{}
	for _, photo := range photos {
		bySource[photo.URL], _ = photo.Metadata["source"].(string)
	}
	// The orphan was re-pointed, not duplicated.
	require.Equal(t, models.PhotoSourceUpdate, bySource["https://cdn/orphan.jpg"])
	require.Equal(t, models.PhotoSourceUpdate, bySource["https://cdn/new.jpg"])

	reloaded, err := fix.photos.FindOrphanByURL(ctx, orphan.URL)
	require.NoError(t, err)
	require.Nil(t, reloaded)
}

func TestUpdatePropertyPhotoInsertFailureIsNonFatal(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx, validCreateInput(), "owner_1")
	require.NoError(t, err)

	fix.photos.insertManyErr = fakeError("insert failed")
	patch := &models.UpdatePropertyInput{Images: []string{"https://cdn/new.jpg"}}
	updated, err := fix.service.UpdateProperty(ctx, created.PropertyID, patch, "owner_1")

	// The property mutation already committed; photo failure must not undo it.
	require.NoError(t, err)
	require.Equal(t, []string{"https://cdn/new.jpg"}, updated.Images)
}

func TestUpdatePropertyInvalidatesOwnershipCache(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx, validCreateInput(), "owner_1")
	require.NoError(t, err)
	require.NoError(t, fix.ownership.Set(ctx, services.OwnershipResource, created.PropertyID, "owner_1", time.Hour))

	title := "Renamed"
	_, err = fix.service.UpdateProperty(ctx, created.PropertyID, &models.UpdatePropertyInput{Title: &title}, "owner_1")
	require.NoError(t, err)
	require.Contains(t, fix.ownership.invalidated, services.OwnershipResource+":"+created.PropertyID)
}

func TestDeleteProperty(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx, validCreateInput(), "owner_1")
	require.NoError(t, err)

	err = fix.service.DeleteProperty(ctx, created.PropertyID, "intruder")
	require.True(t, apperrors.IsUnauthorized(err))
	require.Equal(t, 0, fix.repo.deleteCalls)

	err = fix.service.DeleteProperty(ctx, created.PropertyID, "owner_1")
	require.NoError(t, err)
	require.Contains(t, fix.ownership.invalidated, services.OwnershipResource+":"+created.PropertyID)

	_, err = fix.service.GetPropertyByID(ctx, created.PropertyID)
	require.True(t, apperrors.IsNotFound(err))

	err = fix.service.DeleteProperty(ctx, created.PropertyID, "owner_1")
	require.True(t, apperrors.IsNotFound(err))
}

func TestRecordPropertyViewSwallowsFailures(t *testing.T) {
	fix := newServiceFixture(t)
	ctx := context.Background()

	created, err := fix.service.CreateProperty(ctx, validCreateInput(), "owner_1")
	require.NoError(t, err)

	fix.service.RecordPropertyView(ctx, created.PropertyID)
	require.Equal(t, int64(1), fix.repo.properties[created.PropertyID].ViewCount)

	fix.repo.viewErr = fakeError("store down")
	fix.service.RecordPropertyView(ctx, created.PropertyID)
	require.Equal(t, 2, fix.repo.viewCalls)
}
