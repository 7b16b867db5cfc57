package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/dmoralesv/floreria-backend/internal/products"
	"github.com/dmoralesv/floreria-backend/pkg/db"
	"github.com/dmoralesv/floreria-backend/pkg/enums"
	pkgerrors "github.com/dmoralesv/floreria-backend/pkg/errors"
	"github.com/dmoralesv/floreria-backend/pkg/outbox"
)

const maxUploadBytes = 10 * 1024 * 1024

var allowedImageMimes = []string{"image/png", "image/jpeg", "image/webp"}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service hands out signed upload URLs for product images and attaches the
// uploaded objects to their products.
type Service interface {
	PresignUpload(ctx context.Context, productID uuid.UUID, input PresignInput) (*PresignOutput, error)
	AttachImage(ctx context.Context, productID uuid.UUID, objectKey string) error
	RemoveImage(ctx context.Context, productID uuid.UUID) error
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	MimeType  string
	FileName  string
	SizeBytes int64
}

// PresignOutput contains the signed PUT URL plus the object key the client
// must echo back on attach.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	PublicURL    string    `json:"public_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type service struct {
	products  *product.Repository
	dbClient  *db.Client
	gcs       gcsClient
	events    eventEmitter
	bucket    string
	uploadTTL time.Duration
}

// NewService constructs a media service backed by the product repository and
// GCS signer.
func NewService(products *product.Repository, dbClient *db.Client, gcsClient gcsClient, events eventEmitter, bucket string, uploadTTL time.Duration) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if gcsClient == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	return &service{
		products:  products,
		dbClient:  dbClient,
		gcs:       gcsClient,
		events:    events,
		bucket:    bucket,
		uploadTTL: uploadTTL,
	}, nil
}

func (s *service) PresignUpload(ctx context.Context, productID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product identity missing")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be ≤ %d bytes", maxUploadBytes))
	}

	mimeType := strings.ToLower(strings.TrimSpace(input.MimeType))
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type must be a png, jpeg or webp image")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	objectKey := buildObjectKey(productID, fileName)
	signedURL, err := s.gcs.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		PublicURL:    s.publicURL(objectKey),
		ContentType:  mimeType,
		ExpiresAt:    time.Now().Add(s.uploadTTL),
	}, nil
}

func (s *service) AttachImage(ctx context.Context, productID uuid.UUID, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if !strings.HasPrefix(objectKey, objectKeyPrefix(productID)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "object_key does not belong to this product")
	}

	row, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	previous := row.ImageObject
	publicURL := s.publicURL(objectKey)
	row.ImageObject = &objectKey
	row.ImageURL = &publicURL
	row.Category = nil

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, txErr := s.products.WithTx(tx).Update(ctx, row); txErr != nil {
			return txErr
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventProductImageUploaded,
			AggregateType: enums.AggregateProduct,
			AggregateID:   productID,
			Data: map[string]string{
				"object_key": objectKey,
				"public_url": publicURL,
			},
		})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attaching product image")
	}

	// Best-effort cleanup of the replaced object.
	if previous != nil && *previous != objectKey {
		_ = s.gcs.DeleteObject(ctx, s.bucket, *previous)
	}
	return nil
}

func (s *service) RemoveImage(ctx context.Context, productID uuid.UUID) error {
	row, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if row.ImageObject == nil {
		return nil
	}

	objectKey := *row.ImageObject
	row.ImageObject = nil
	row.ImageURL = nil
	row.Category = nil

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, txErr := s.products.WithTx(tx).Update(ctx, row)
		return txErr
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "detaching product image")
	}

	if err := s.gcs.DeleteObject(ctx, s.bucket, objectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting image object")
	}
	return nil
}

func (s *service) publicURL(objectKey string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectKey)
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedImageMimes {
		if candidate == mimeType {
			return true
		}
	}
	return false
}

func objectKeyPrefix(productID uuid.UUID) string {
	return fmt.Sprintf("products/%s/", productID)
}

func buildObjectKey(productID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = "image"
	}
	return fmt.Sprintf("%s%s-%s", objectKeyPrefix(productID), uuid.NewString(), cleanName)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
