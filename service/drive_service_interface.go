package service

// DriveServiceInterface defines the contract for the item photo source
type DriveServiceInterface interface {
	ListItemPhotos(folderID string) ([]ItemPhoto, error)
	DownloadImage(fileID string) ([]byte, error)
}
