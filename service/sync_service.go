package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"modiv-eventcraft/repository"
)

// SyncService mirrors item photos from a shared Google Drive folder into
// the catalog: each photo whose filename slug matches an item name gets its
// URL stored on the item and a thumb/medium rendition pre-warmed in the
// image cache
type SyncService struct {
	driveService DriveServiceInterface
	itemRepo     repository.ItemRepositoryInterface
}

// NewSyncService creates a new SyncService
func NewSyncService(driveService DriveServiceInterface, itemRepo repository.ItemRepositoryInterface) *SyncService {
	return &SyncService{
		driveService: driveService,
		itemRepo:     itemRepo,
	}
}

// SyncItemPhotos walks the Drive folder and attaches matching photos to
// catalog items.
// linked = items that got a photo URL, skipped = photos without a matching
// item or already linked, total = image files seen in the folder.
func (s *SyncService) SyncItemPhotos(ctx context.Context, folderID string) (linked int, skipped int, total int, errs []string, err error) {
	log.Printf("🔄 Starting photo sync for folder: %s", folderID)

	photos, err := s.driveService.ListItemPhotos(folderID)
	if err != nil {
		return 0, 0, 0, nil, fmt.Errorf("failed to list photos from Drive: %w", err)
	}

	total = len(photos)
	log.Printf("📦 Found %d photos in Drive folder", total)

	for _, photo := range photos {
		item, lookupErr := s.itemRepo.FindBySlug(ctx, photo.Slug)
		if lookupErr != nil {
			msg := fmt.Sprintf("lookup failed for %s: %v", photo.FileName, lookupErr)
			log.Printf("❌ %s", msg)
			errs = append(errs, msg)
			continue
		}
		if item == nil {
			log.Printf("⏭️  Skipping %s (no item matches slug %q)", photo.FileName, photo.Slug)
			skipped++
			continue
		}

		if item.ImageURL == photo.ImageURL {
			log.Printf("⏭️  Skipping %s (already linked to item %s)", photo.FileName, item.ID)
			skipped++
			continue
		}

		if updateErr := s.itemRepo.UpdateImageURL(ctx, item.ID, photo.ImageURL); updateErr != nil {
			msg := fmt.Sprintf("failed to link %s to item %s: %v", photo.FileName, item.ID, updateErr)
			log.Printf("❌ %s", msg)
			errs = append(errs, msg)
			continue
		}

		// Pre-warm the optimized renditions so the first catalog view never
		// waits on a Drive download
		if warmErr := s.warmCache(item.ID, photo.DriveFileID); warmErr != nil {
			log.Printf("⚠️  Cache warm failed for item %s: %v", item.ID, warmErr)
		}

		log.Printf("✅ Linked %s to item %s (%s)", photo.FileName, item.ID, item.Name)
		linked++
	}

	log.Printf("🎉 Photo sync completed: %d linked, %d skipped, %d failed out of %d photos", linked, skipped, len(errs), total)
	return linked, skipped, total, errs, nil
}

// ItemImage returns the optimized JPEG for an item at the given size,
// serving from the disk cache and falling back to a Drive download on a
// cold cache
func (s *SyncService) ItemImage(ctx context.Context, itemID string, size string) ([]byte, error) {
	cachePath := CachePath(itemID, size)
	if CacheExists(cachePath) {
		return ReadFromCache(cachePath)
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ImageURL == "" {
		return nil, fmt.Errorf("item %s has no image", itemID)
	}

	fileID := driveFileIDFromURL(item.ImageURL)
	if fileID == "" {
		return nil, fmt.Errorf("item %s image url is not a Drive link", itemID)
	}

	data, err := s.driveService.DownloadImage(fileID)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(data, size)
	if err != nil {
		return nil, err
	}
	if err := SaveToCache(cachePath, optimized); err != nil {
		log.Printf("⚠️  Failed to cache image for item %s: %v", itemID, err)
	}
	return optimized, nil
}

// driveFileIDFromURL extracts the file id from a drive.google.com/uc?id=
// style URL, or returns ""
func driveFileIDFromURL(url string) string {
	const marker = "uc?id="
	idx := strings.Index(url, marker)
	if idx < 0 {
		return ""
	}
	id := url[idx+len(marker):]
	if amp := strings.IndexByte(id, '&'); amp >= 0 {
		id = id[:amp]
	}
	return id
}

func (s *SyncService) warmCache(itemID string, driveFileID string) error {
	data, err := s.driveService.DownloadImage(driveFileID)
	if err != nil {
		return err
	}

	for _, size := range []string{"thumb", "medium"} {
		optimized, err := OptimizeImage(data, size)
		if err != nil {
			return err
		}
		if err := SaveToCache(CachePath(itemID, size), optimized); err != nil {
			return err
		}
	}
	return nil
}
