package storage

import (
	"context"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService stores dossier documents on Cloudinary. All uploads are
// encrypted at rest; download URLs are signed and short-lived.
type StorageService interface {
	UploadDocument(ctx context.Context, localFilePath, cabinetID, dossierID, encryptionKey string) (string, error)
	DeleteDocument(ctx context.Context, publicID string) error
	GetSecureDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error)
}

// StorageServiceImpl is the Cloudinary-backed implementation.
type StorageServiceImpl struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiSecret string
}
