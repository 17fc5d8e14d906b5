package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
)

// MaxImageSize caps uploaded pictures.
const MaxImageSize = 10 << 20

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ObjectStore is the part of storage.Bucket the image service needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	PathFromURL(raw string) (string, error)
}

// ImageService stores pictures under a per-user prefix and cleans up
// replaced ones.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	log         logging.Logger
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore, log logging.Logger) *ImageService {
	return &ImageService{db: db, repomanager: m, store: store, log: log.With("module", "images")}
}

func objectKey(userID, ext string) string {
	return userID + "/" + uuid.NewString() + ext
}

// Upload stores an image for userID and returns its public URL. The content
// type is sniffed from the data; anything but JPEG, PNG, WebP or GIF is
// rejected.
func (s *ImageService) Upload(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", validationError("file is empty")
	}
	if len(data) > MaxImageSize {
		return "", validationError("file is larger than %d bytes", MaxImageSize)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", validationError("unsupported content type %q", contentType)
	}
	if e := strings.ToLower(path.Ext(filename)); imageExtensions[e] == contentType {
		ext = e
	}

	url, err := s.store.Upload(ctx, objectKey(userID, ext), contentType, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	s.log.Info(ctx, "image uploaded", "user_id", userID, "url", url, "size", len(data))
	return url, nil
}

// PresignedUpload describes a direct PUT the client may perform.
type PresignedUpload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

// PresignUpload reserves a key for userID and signs a PUT to it.
func (s *ImageService) PresignUpload(ctx context.Context, userID, ext string) (*PresignedUpload, error) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	contentType, ok := imageExtensions[ext]
	if !ok {
		return nil, validationError("unsupported extension %q", ext)
	}

	key := objectKey(userID, ext)
	url, err := s.store.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, err
	}
	return &PresignedUpload{Key: key, URL: url, ContentType: contentType}, nil
}

// DeleteOldImageRequest names a picture that a record no longer uses.
type DeleteOldImageRequest struct {
	ImageURL   string `json:"imageUrl"`
	TableName  string `json:"tableName"`
	RecordID   string `json:"recordId"`
	BanknoteID string `json:"banknoteId,omitempty"`
}

type DeleteOldImageResult struct {
	Skipped bool   `json:"skipped,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
	Path    string `json:"path,omitempty"`
}

// DeleteOldImage removes a replaced picture from storage. Collection items
// may point at the catalog pictures of their banknote; those are never
// deleted. URLs outside the bucket are skipped as well.
func (s *ImageService) DeleteOldImage(ctx context.Context, req DeleteOldImageRequest) (DeleteOldImageResult, error) {
	if blank(req.ImageURL) || blank(req.TableName) {
		return DeleteOldImageResult{}, validationError("imageUrl and tableName are required")
	}

	if req.TableName == "collection_items" && req.BanknoteID != "" {
		images, err := s.repomanager.Banknotes(s.db).ImageFields(ctx, req.BanknoteID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return DeleteOldImageResult{}, err
		}
		if err == nil && images.Contains(req.ImageURL) {
			s.log.Debug(ctx, "image belongs to the catalog, keeping it", "url", req.ImageURL)
			return DeleteOldImageResult{Skipped: true}, nil
		}
	}

	key, err := s.store.PathFromURL(req.ImageURL)
	if err != nil {
		if errors.Is(err, common.ErrOutsideStorage) {
			return DeleteOldImageResult{Skipped: true}, nil
		}
		return DeleteOldImageResult{}, err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return DeleteOldImageResult{}, err
	}
	s.log.Info(ctx, "old image deleted", "path", key, "table", req.TableName, "record_id", req.RecordID)
	return DeleteOldImageResult{Deleted: true, Path: key}, nil
}
