package helper

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/helpers/apperror"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, files map[string]string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

func TestLocalBlobServiceRoundTrip(t *testing.T) {
	root := t.TempDir()
	blob, err := NewLocalBlobService(root, "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	var urls []string
	app.Post("/", func(c *fiber.Ctx) error {
		var err error
		urls, err = UploadFormImages(c, blob, "events/test", "files")
		if err != nil {
			return err
		}
		if len(UploadedURLs(c)) != len(urls) {
			t.Errorf("tracked %d urls, uploaded %d", len(UploadedURLs(c)), len(urls))
		}
		return nil
	})

	body, ct := multipartBody(t, map[string]string{"files": "cover.png"}, pngBytes(t, 4, 4))
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", ct)
	if _, err := app.Test(req, -1); err != nil {
		t.Fatal(err)
	}

	if len(urls) != 1 || !strings.HasPrefix(urls[0], "/uploads/events/test/cover_") {
		t.Fatalf("unexpected urls %v", urls)
	}
	onDisk := filepath.Join(root, strings.TrimPrefix(urls[0], "/uploads/"))
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	deleted, failed, err := blob.DeleteManyByPublicURL(context.Background(), urls)
	if err != nil || len(failed) != 0 || len(deleted) != 1 {
		t.Fatalf("delete: deleted=%v failed=%v err=%v", deleted, failed, err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatal("file still on disk after delete")
	}
}

func TestLocalBlobServiceRejectsTraversalAndForeignURLs(t *testing.T) {
	blob, err := NewLocalBlobService(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range []string{"/uploads/../secret", "https://elsewhere/x.png", "/uploads/"} {
		if err := blob.DeleteByPublicURL(context.Background(), u); err == nil {
			t.Fatalf("expected error for %q", u)
		}
	}
}

func TestUploadRejectsNonImages(t *testing.T) {
	blob, err := NewLocalBlobService(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	app := fiber.New()
	var gotErr error
	app.Post("/", func(c *fiber.Ctx) error {
		_, gotErr = UploadFormImages(c, blob, "events", "files")
		return nil
	})

	body, ct := multipartBody(t, map[string]string{"files": "notes.txt"}, []byte("hello"))
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", ct)
	if _, err := app.Test(req, -1); err != nil {
		t.Fatal(err)
	}
	if !apperror.IsKind(gotErr, apperror.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", gotErr)
	}
}

func TestConvertToWebPDownscales(t *testing.T) {
	data, err := ConvertToWebP(bytes.NewReader(pngBytes(t, 64, 32)), "a.png", WebPOptions{MaxW: 16, MaxH: 16, Quality: 70})
	if err != nil {
		t.Fatalf("ConvertToWebP: %v", err)
	}
	img, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil && (img.Width > 16 || img.Height > 16) {
		t.Fatalf("image not downscaled: %dx%d", img.Width, img.Height)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
}

func TestConvertToWebPUnsupported(t *testing.T) {
	if _, err := ConvertToWebP(strings.NewReader("plain text"), "a.txt", DefaultWebPOptions); err == nil {
		t.Fatal("expected error for non-image input")
	}
}

func TestObjectKeyFromPublicURL(t *testing.T) {
	s := &OSSService{Endpoint: "oss-ap-southeast-5.aliyuncs.com", BucketName: "eventhub"}
	url := s.PublicURL("events/a.webp")
	if url != "https://eventhub.oss-ap-southeast-5.aliyuncs.com/events/a.webp" {
		t.Fatalf("PublicURL = %q", url)
	}
	key, err := s.KeyFromPublicURL(url)
	if err != nil || key != "events/a.webp" {
		t.Fatalf("KeyFromPublicURL = %q, %v", key, err)
	}

	s.PublicBase = "https://cdn.example.com"
	key, err = s.KeyFromPublicURL("https://cdn.example.com/x/y.webp")
	if err != nil || key != "x/y.webp" {
		t.Fatalf("with public base: %q, %v", key, err)
	}
}
