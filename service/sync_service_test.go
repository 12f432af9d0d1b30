package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modiv-eventcraft/models"
)

// fakeDrive serves a canned folder listing and never talks to Google
type fakeDrive struct {
	photos  []ItemPhoto
	listErr error
}

func (f *fakeDrive) ListItemPhotos(folderID string) ([]ItemPhoto, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.photos, nil
}

func (f *fakeDrive) DownloadImage(fileID string) ([]byte, error) {
	// Fail the cache pre-warm; sync must still link the item
	return nil, fmt.Errorf("download disabled in tests")
}

// fakeItemRepo resolves slugs from a fixed map and records URL updates
type fakeItemRepo struct {
	bySlug  map[string]*models.CatalogItem
	updated map[string]string
}

func (f *fakeItemRepo) FindBySlug(ctx context.Context, slug string) (*models.CatalogItem, error) {
	return f.bySlug[slug], nil
}

func (f *fakeItemRepo) UpdateImageURL(ctx context.Context, id string, imageURL string) error {
	if f.updated == nil {
		f.updated = make(map[string]string)
	}
	f.updated[id] = imageURL
	return nil
}

func (f *fakeItemRepo) ListActive(ctx context.Context) ([]models.CatalogItem, error) { return nil, nil }
func (f *fakeItemRepo) ListAll(ctx context.Context) ([]models.CatalogItem, error)    { return nil, nil }
func (f *fakeItemRepo) GetByID(ctx context.Context, id string) (*models.CatalogItem, error) {
	return nil, fmt.Errorf("not found")
}
func (f *fakeItemRepo) Create(ctx context.Context, req *models.CreateItemRequest) (*models.CatalogItem, error) {
	return nil, nil
}
func (f *fakeItemRepo) Update(ctx context.Context, id string, req *models.UpdateItemRequest, changedBy string) (*models.CatalogItem, error) {
	return nil, nil
}
func (f *fakeItemRepo) Deactivate(ctx context.Context, id string) error { return nil }
func (f *fakeItemRepo) PriceHistory(ctx context.Context, itemID string) ([]models.PriceHistoryEntry, error) {
	return nil, nil
}

func TestSyncItemPhotosLinksBySlug(t *testing.T) {
	drive := &fakeDrive{photos: []ItemPhoto{
		{DriveFileID: "f1", FileName: "Sound-System-5000-Watt.jpg", Slug: "sound-system-5000-watt", ImageURL: "https://drive.google.com/uc?id=f1"},
		{DriveFileID: "f2", FileName: "Unknown-Gear.png", Slug: "unknown-gear", ImageURL: "https://drive.google.com/uc?id=f2"},
	}}
	repo := &fakeItemRepo{bySlug: map[string]*models.CatalogItem{
		"sound-system-5000-watt": {ID: "item-1", Name: "Sound System 5000 Watt"},
	}}

	sync := NewSyncService(drive, repo)
	linked, skipped, total, errs, err := sync.SyncItemPhotos(context.Background(), "folder-x")

	require.NoError(t, err)
	assert.Equal(t, 1, linked)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 2, total)
	assert.Empty(t, errs)
	assert.Equal(t, "https://drive.google.com/uc?id=f1", repo.updated["item-1"])
}

func TestSyncItemPhotosSkipsAlreadyLinked(t *testing.T) {
	drive := &fakeDrive{photos: []ItemPhoto{
		{DriveFileID: "f1", FileName: "Genset-60-KVA.jpg", Slug: "genset-60-kva", ImageURL: "https://drive.google.com/uc?id=f1"},
	}}
	repo := &fakeItemRepo{bySlug: map[string]*models.CatalogItem{
		"genset-60-kva": {ID: "item-2", ImageURL: "https://drive.google.com/uc?id=f1"},
	}}

	sync := NewSyncService(drive, repo)
	linked, skipped, _, _, err := sync.SyncItemPhotos(context.Background(), "folder-x")

	require.NoError(t, err)
	assert.Equal(t, 0, linked)
	assert.Equal(t, 1, skipped)
	assert.Empty(t, repo.updated)
}

func TestSyncItemPhotosListFailure(t *testing.T) {
	drive := &fakeDrive{listErr: fmt.Errorf("folder not shared with service account")}
	sync := NewSyncService(drive, &fakeItemRepo{})

	_, _, _, _, err := sync.SyncItemPhotos(context.Background(), "folder-x")
	assert.Error(t, err)
}

func TestDriveFileIDFromURL(t *testing.T) {
	assert.Equal(t, "abc123", driveFileIDFromURL("https://drive.google.com/uc?id=abc123"))
	assert.Equal(t, "abc123", driveFileIDFromURL("https://drive.google.com/uc?id=abc123&export=download"))
	assert.Equal(t, "", driveFileIDFromURL("https://example.com/photo.jpg"))
}

func TestPhotoSlug(t *testing.T) {
	assert.Equal(t, "sound-system-5000-watt", photoSlug("Sound-System-5000-Watt.jpg"))
	assert.Equal(t, "led-screen-4x3m", photoSlug("LED-Screen-4x3m.PNG"))
	assert.Equal(t, "genset-60-kva", photoSlug("Genset-60-KVA.jpeg"))
}
