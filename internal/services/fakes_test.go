package services_test

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"brightnest-properties/internal/models"
	"brightnest-properties/pkg/logger"

	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	logger.InitLogger(io.Discard, "ERROR")
	os.Exit(m.Run())
}

// fakePhotoRepo is an in-memory PhotoRepository with per-method error
// injection and call counting.
type fakePhotoRepo struct {
	mu              sync.Mutex
	photos          map[string]*models.Photo
	orphanLookup    error
	orphanFetch     error
	assignErrs      map[string]error
	insertManyErr   error
	lastOrphanLimit int
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{
		photos:     make(map[string]*models.Photo),
		assignErrs: make(map[string]error),
	}
}

func (f *fakePhotoRepo) Create(ctx context.Context, photo *models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *photo
	f.photos[photo.PhotoID] = &copied
	return nil
}

func (f *fakePhotoRepo) InsertMany(ctx context.Context, photos []models.Photo) error {
	if f.insertManyErr != nil {
		return f.insertManyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range photos {
		copied := photos[i]
		f.photos[copied.PhotoID] = &copied
	}
	return nil
}

func (f *fakePhotoRepo) FindOrphanByURL(ctx context.Context, url string) (*models.Photo, error) {
	if f.orphanLookup != nil {
		return nil, f.orphanLookup
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, photo := range f.photos {
		if photo.URL == url && photo.PropertyID == nil {
			copied := *photo
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePhotoRepo) FindOrphans(ctx context.Context, limit int) ([]models.Photo, error) {
	f.lastOrphanLimit = limit
	if f.orphanFetch != nil {
		return nil, f.orphanFetch
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	orphans := []models.Photo{}
	for _, photo := range f.photos {
		if photo.PropertyID == nil {
			orphans = append(orphans, *photo)
			if len(orphans) == limit {
				break
			}
		}
	}
	return orphans, nil
}

func (f *fakePhotoRepo) AssignProperty(ctx context.Context, photoID, propertyID, source string) error {
	if err := f.assignErrs[photoID]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	photo, ok := f.photos[photoID]
	if !ok {
		return errNotFound
	}
	photo.PropertyID = &propertyID
	if photo.Metadata == nil {
		photo.Metadata = map[string]interface{}{}
	}
	photo.Metadata["source"] = source
	return nil
}

func (f *fakePhotoRepo) FindByPropertyID(ctx context.Context, propertyID string) ([]models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	photos := []models.Photo{}
	for _, photo := range f.photos {
		if photo.PropertyID != nil && *photo.PropertyID == propertyID {
			photos = append(photos, *photo)
		}
	}
	return photos, nil
}

func (f *fakePhotoRepo) addOrphan(url string) *models.Photo {
	photo := &models.Photo{
		PhotoID:   uuid.New().String(),
		URL:       url,
		CreatedAt: time.Now(),
	}
	f.mu.Lock()
	f.photos[photo.PhotoID] = photo
	f.mu.Unlock()
	return photo
}

// fakePropertyRepo is an in-memory PropertyRepository. Its atomic create
// behaves like the store-side procedure: when photo insertion is made to
// fail, nothing is committed.
type fakePropertyRepo struct {
	mu              sync.Mutex
	properties      map[string]*models.Property
	photoRepo       *fakePhotoRepo
	failPhotoInsert error
	findErr         error
	listErr         error
	updateErr       error
	findByIDCalls   int
	listCalls       int
	updateCalls     int
	deleteCalls     int
	viewCalls       int
	viewErr         error
}

func newFakePropertyRepo(photoRepo *fakePhotoRepo) *fakePropertyRepo {
	return &fakePropertyRepo{
		properties: make(map[string]*models.Property),
		photoRepo:  photoRepo,
	}
}

func (f *fakePropertyRepo) FindByID(ctx context.Context, id string) (*models.Property, error) {
	f.mu.Lock()
	f.findByIDCalls++
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	property, ok := f.properties[id]
	if !ok {
		return nil, nil
	}
	copied := *property
	return &copied, nil
}

func (f *fakePropertyRepo) FindWithFilters(ctx context.Context, filters models.PropertyFilters, page, limit int) ([]models.Property, int64, error) {
	f.mu.Lock()
	f.listCalls++
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	matches := []models.Property{}
	for _, property := range f.properties {
		if filters.City != "" && property.City != filters.City {
			continue
		}
		if filters.OwnerID != "" && property.OwnerID != filters.OwnerID {
			continue
		}
		if filters.Status != "" && property.Status != filters.Status {
			continue
		}
		matches = append(matches, *property)
	}
	total := int64(len(matches))
	start := (page - 1) * limit
	if start >= len(matches) {
		return []models.Property{}, total, nil
	}
	end := start + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[start:end], total, nil
}

func (f *fakePropertyRepo) FindByImageURL(ctx context.Context, url string) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, property := range f.properties {
		for _, image := range property.Images {
			if image == url {
				copied := *property
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (f *fakePropertyRepo) CreateWithPhotos(ctx context.Context, property *models.Property, imageURLs []string) error {
	if f.failPhotoInsert != nil {
		// Transaction aborts: neither the property row nor any photo row lands.
		return f.failPhotoInsert
	}
	f.mu.Lock()
	copied := *property
	f.properties[property.PropertyID] = &copied
	f.mu.Unlock()
	for _, imageURL := range imageURLs {
		propertyID := property.PropertyID
		_ = f.photoRepo.Create(ctx, &models.Photo{
			PhotoID:    uuid.New().String(),
			URL:        imageURL,
			UploaderID: property.OwnerID,
			PropertyID: &propertyID,
			Metadata:   map[string]interface{}{"source": models.PhotoSourceCreation},
		})
	}
	return nil
}

func (f *fakePropertyRepo) Update(ctx context.Context, id string, patch *models.UpdatePropertyInput) (*models.Property, error) {
	f.mu.Lock()
	f.updateCalls++
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	property, ok := f.properties[id]
	if !ok {
		return nil, errNotFound
	}
	if patch.Title != nil {
		property.Title = *patch.Title
	}
	if patch.City != nil {
		property.City = *patch.City
	}
	if patch.Price != nil {
		property.Price = *patch.Price
	}
	if patch.Images != nil {
		property.Images = patch.Images
	}
	if patch.Status != nil {
		property.Status = *patch.Status
	}
	property.UpdatedAt = time.Now()
	copied := *property
	return &copied, nil
}

func (f *fakePropertyRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	f.deleteCalls++
	defer f.mu.Unlock()
	if _, ok := f.properties[id]; !ok {
		return errNotFound
	}
	delete(f.properties, id)
	return nil
}

func (f *fakePropertyRepo) IncrementViewCount(ctx context.Context, id string) error {
	f.mu.Lock()
	f.viewCalls++
	defer f.mu.Unlock()
	if f.viewErr != nil {
		return f.viewErr
	}
	if property, ok := f.properties[id]; ok {
		property.ViewCount++
	}
	return nil
}

// fakeOwnershipCache records invalidations issued by the coordinator.
type fakeOwnershipCache struct {
	mu            sync.Mutex
	entries       map[string]string
	invalidated   []string
	invalidateErr error
}

func newFakeOwnershipCache() *fakeOwnershipCache {
	return &fakeOwnershipCache{entries: make(map[string]string)}
}

func (f *fakeOwnershipCache) Get(ctx context.Context, resourceType, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[resourceType+":"+id], nil
}

func (f *fakeOwnershipCache) Set(ctx context.Context, resourceType, id, ownerID string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[resourceType+":"+id] = ownerID
	return nil
}

func (f *fakeOwnershipCache) Invalidate(ctx context.Context, resourceType, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.invalidateErr != nil {
		return f.invalidateErr
	}
	delete(f.entries, resourceType+":"+id)
	f.invalidated = append(f.invalidated, resourceType+":"+id)
	return nil
}

type fakeError string

func (e fakeError) Error() string { return string(e) }

const errNotFound = fakeError("property not found")
