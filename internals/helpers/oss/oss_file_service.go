package helper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/helpers/apperror"
)

/*
BlobService is the upload/delete facade controllers talk to. The
implementation is OSS (images re-encoded to WebP) when ALI_OSS_* is
configured, local disk otherwise.
*/
type BlobService interface {
	UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (publicURL string, err error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
	DeleteManyByPublicURL(ctx context.Context, publicURLs []string) (deleted []string, failed map[string]error, err error)
}

// NewBlobService picks the implementation from config.
func NewBlobService(cfg configs.StorageConfig, log *slog.Logger) (BlobService, error) {
	if cfg.UseOSS() {
		svc, err := NewOSSService(cfg, log)
		if err != nil {
			return nil, err
		}
		return &OSSBlobService{svc: svc}, nil
	}
	log.Info("ALI_OSS_* not set, storing uploads on local disk", "dir", cfg.UploadDir)
	return NewLocalBlobService(cfg.UploadDir, cfg.UploadPublicBase)
}

// --------------------------------------------------
// Aliyun OSS
// --------------------------------------------------

type OSSBlobService struct {
	svc *OSSService
}

func (b *OSSBlobService) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if err := checkImageHeader(fh); err != nil {
		return "", err
	}
	url, err := b.svc.UploadAsWebP(ctx, dir, fh)
	if err != nil {
		if errors.Is(err, errUnsupportedFormat) {
			return "", apperror.BadRequest("Unsupported image format (use jpg/png/webp)")
		}
		return "", apperror.Internal("Failed to upload image", err)
	}
	return url, nil
}

func (b *OSSBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	return b.svc.DeleteByPublicURL(ctx, publicURL)
}

func (b *OSSBlobService) DeleteManyByPublicURL(ctx context.Context, publicURLs []string) ([]string, map[string]error, error) {
	deleted, failed := b.svc.DeleteManyByPublicURL(ctx, publicURLs)
	return deleted, failed, nil
}

// --------------------------------------------------
// Local disk, served by fiber static under PublicBase
// --------------------------------------------------

type LocalBlobService struct {
	Root       string
	PublicBase string
}

func NewLocalBlobService(root, publicBase string) (*LocalBlobService, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalBlobService{Root: root, PublicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (b *LocalBlobService) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if err := checkImageHeader(fh); err != nil {
		return "", err
	}
	key := joinKey(dir, objectName(fh.Filename))
	dst := filepath.Join(b.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", apperror.Internal("Failed to upload image", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperror.Internal("Failed to upload image", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", apperror.Internal("Failed to upload image", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return "", apperror.Internal("Failed to upload image", err)
	}
	return b.PublicBase + "/" + key, nil
}

func (b *LocalBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, ok := strings.CutPrefix(publicURL, b.PublicBase+"/")
	if !ok || key == "" || strings.Contains(key, "..") {
		return fmt.Errorf("not a local upload url: %s", publicURL)
	}
	return os.Remove(filepath.Join(b.Root, filepath.FromSlash(key)))
}

func (b *LocalBlobService) DeleteManyByPublicURL(ctx context.Context, publicURLs []string) ([]string, map[string]error, error) {
	var deleted []string
	failed := map[string]error{}
	for _, u := range publicURLs {
		if err := b.DeleteByPublicURL(ctx, u); err != nil {
			failed[u] = err
			continue
		}
		deleted = append(deleted, u)
	}
	return deleted, failed, nil
}

func checkImageHeader(fh *multipart.FileHeader) error {
	if fh == nil {
		return apperror.BadRequest("File not found")
	}
	if fh.Size > maxUploadSize {
		return apperror.BadRequestf("File too large (max %d MB)", maxUploadSize/(1024*1024))
	}
	if !IsImageFile(fh.Filename) {
		return apperror.BadRequest("Unsupported image format (use jpg/png/webp)")
	}
	return nil
}

// --------------------------------------------------
// Request helpers for controllers
// --------------------------------------------------

// LocUploadedURLs holds every URL uploaded while serving the request; the
// error handler deletes them when the request fails.
const LocUploadedURLs = "uploaded_urls"

// IsMultipart reports a multipart/form-data request.
func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

// UploadFormImages uploads every file under the given form fields and
// records the URLs for cleanup. Non-multipart requests yield nothing.
func UploadFormImages(c *fiber.Ctx, blob BlobService, dir string, fields ...string) ([]string, error) {
	if !IsMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperror.BadRequest("Invalid multipart form")
	}
	files, _ := CollectUploadFiles(form, &CollectOptions{FileFieldCandidates: fields, Strict: true})

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := blob.UploadImage(c.UserContext(), dir, fh)
		if err != nil {
			return nil, err
		}
		TrackUploaded(c, url)
		urls = append(urls, url)
	}
	return urls, nil
}

func TrackUploaded(c *fiber.Ctx, url string) {
	prev, _ := c.Locals(LocUploadedURLs).([]string)
	c.Locals(LocUploadedURLs, append(prev, url))
}

func UploadedURLs(c *fiber.Ctx) []string {
	urls, _ := c.Locals(LocUploadedURLs).([]string)
	return urls
}

// DeleteBestEffort removes urls and only logs failures.
func DeleteBestEffort(ctx context.Context, blob BlobService, log *slog.Logger, urls []string) {
	if blob == nil || len(urls) == 0 {
		return
	}
	_, failed, err := blob.DeleteManyByPublicURL(ctx, urls)
	if err != nil {
		log.Warn("blob delete failed", "err", err, "urls", urls)
		return
	}
	for u, ferr := range failed {
		log.Warn("blob delete failed", "url", u, "err", ferr)
	}
}
