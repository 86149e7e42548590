package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AllowedImageContentTypes is the whitelist for variant images.
// SVG is excluded because it can carry scripts.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStorageService defines the interface for object storage operations.
// The storage package provides the S3 implementation.
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// VariantImageConfig holds configuration for variant image uploads
type VariantImageConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
	MaxFileSize       int64
}

// DefaultVariantImageConfig returns the default configuration
func DefaultVariantImageConfig() VariantImageConfig {
	return VariantImageConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
		MaxFileSize:       10 << 20,
	}
}

// VariantImageService uploads variant images straight to object storage
// with presigned URLs. Upload is two-step: Initiate hands out a URL, the
// client PUTs the file, Confirm attaches the object to the variant.
type VariantImageService struct {
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
	config      VariantImageConfig
	logger      *zap.Logger
}

// NewVariantImageService creates a new VariantImageService
func NewVariantImageService(productRepo catalog.ProductRepository, storage ObjectStorageService, logger *zap.Logger) *VariantImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VariantImageService{
		productRepo: productRepo,
		storage:     storage,
		config:      DefaultVariantImageConfig(),
		logger:      logger,
	}
}

// SetConfig sets the service configuration
func (s *VariantImageService) SetConfig(config VariantImageConfig) {
	s.config = config
}

// Initiate validates the upload and returns a presigned upload URL
func (s *VariantImageService) Initiate(ctx context.Context, variantID uuid.UUID, req InitiateImageUploadRequest) (*InitiateImageUploadResponse, error) {
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if !AllowedImageContentTypes[contentType] {
		return nil, shared.NewValidationError(fmt.Sprintf("Content type '%s' is not allowed. Use JPEG, PNG, GIF or WebP.", req.ContentType))
	}
	if s.config.MaxFileSize > 0 && req.FileSize > s.config.MaxFileSize {
		return nil, shared.NewValidationError(fmt.Sprintf("Image cannot exceed %d bytes", s.config.MaxFileSize))
	}
	if _, _, err := s.productRepo.FindVariantByID(ctx, variantID); err != nil {
		return nil, err
	}

	key := variantImageKey(variantID, req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.String("storage_key", key), zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}
	return &InitiateImageUploadResponse{StorageKey: key, UploadURL: url, ExpiresAt: expiresAt}, nil
}

// Confirm attaches an uploaded object to the variant and removes the image
// it replaces
func (s *VariantImageService) Confirm(ctx context.Context, variantID uuid.UUID, req ConfirmImageUploadRequest) (*VariantResponse, error) {
	if !strings.HasPrefix(req.StorageKey, variantImagePrefix(variantID)) {
		return nil, shared.NewValidationError("Storage key does not belong to this variant")
	}
	product, variant, err := s.productRepo.FindVariantByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if variant, err = product.Variant(variant.ID); err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "File not found in storage. Please upload the file first.")
	}

	previous := variant.ImageKey
	variant.SetImage(req.StorageKey)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if previous != "" && previous != req.StorageKey {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("Failed to delete replaced variant image",
				zap.String("storage_key", previous),
				zap.Error(err),
			)
		}
	}

	resp := VariantResponse{
		ID:              variant.ID,
		Size:            string(variant.Size),
		Color:           string(variant.Color),
		Label:           variant.Label(product.Name),
		Stock:           variant.Stock,
		PriceAdjustment: variant.PriceAdjustment,
	}
	if url, err := s.DownloadURL(ctx, variant.ImageKey); err == nil {
		resp.ImageURL = url
	}
	return &resp, nil
}

// DownloadURL returns a presigned URL for a stored image
func (s *VariantImageService) DownloadURL(ctx context.Context, storageKey string) (string, error) {
	url, _, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	return url, err
}

func variantImagePrefix(variantID uuid.UUID) string {
	return "variants/" + variantID.String() + "/"
}

func variantImageKey(variantID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(fileName)))
	return variantImagePrefix(variantID) + uuid.NewString() + ext
}

var _ ImageURLResolver = (*VariantImageService)(nil)
