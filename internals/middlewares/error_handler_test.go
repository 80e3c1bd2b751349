package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/configs"
	"eventhub_backend/internals/helpers/apperror"
	helperOSS "eventhub_backend/internals/helpers/oss"
)

type fakeBlob struct {
	deleted []string
}

func (f *fakeBlob) UploadImage(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	return "/uploads/" + dir + "/" + fh.Filename, nil
}

func (f *fakeBlob) DeleteByPublicURL(ctx context.Context, u string) error {
	f.deleted = append(f.deleted, u)
	return nil
}

func (f *fakeBlob) DeleteManyByPublicURL(ctx context.Context, urls []string) ([]string, map[string]error, error) {
	f.deleted = append(f.deleted, urls...)
	return urls, nil, nil
}

type errorBody struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Error   []apperror.FieldError `json:"error"`
	Stack   *string               `json:"stack"`
}

func newTestApp(env string, blob helperOSS.BlobService) *fiber.App {
	cfg := &configs.Config{Env: env}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(cfg, blob, log)})
}

func do(t *testing.T, app *fiber.App, path string) (int, errorBody) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, body
}

func TestErrorHandlerRendersTaxonomy(t *testing.T) {
	app := newTestApp(configs.EnvProduction, &fakeBlob{})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return apperror.Validation([]apperror.FieldError{{Path: "title", Message: "title is required"}})
	})
	app.Get("/missing", func(c *fiber.Ctx) error { return apperror.NotFound("Event not found") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrMethodNotAllowed })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })

	tests := []struct {
		path    string
		status  int
		message string
		path0   string
	}{
		{"/validation", 422, "Validation failed", "title"},
		{"/missing", 404, "Event not found", ""},
		{"/fiber", 405, "Method Not Allowed", ""},
		{"/boom", 500, genericMessage, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := do(t, app, tt.path)
			if status != tt.status || body.Message != tt.message || body.Success {
				t.Fatalf("got %d %+v", status, body)
			}
			if tt.path0 != "" && (len(body.Error) != 1 || body.Error[0].Path != tt.path0) {
				t.Fatalf("error sources = %+v", body.Error)
			}
			if body.Stack != nil {
				t.Fatal("stack leaked in production")
			}
		})
	}
}

func TestErrorHandlerDevelopmentShowsDetail(t *testing.T) {
	app := newTestApp(configs.EnvDevelopment, &fakeBlob{})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })

	status, body := do(t, app, "/boom")
	if status != 500 || body.Message != "pq: connection refused" || body.Stack == nil {
		t.Fatalf("got %d %+v", status, body)
	}
}

func TestErrorHandlerDeletesUploadedFiles(t *testing.T) {
	blob := &fakeBlob{}
	app := newTestApp(configs.EnvProduction, blob)
	app.Get("/", func(c *fiber.Ctx) error {
		helperOSS.TrackUploaded(c, "/uploads/events/a.png")
		helperOSS.TrackUploaded(c, "/uploads/events/b.png")
		return apperror.BadRequest("Event is already full")
	})

	status, _ := do(t, app, "/")
	if status != 400 {
		t.Fatalf("status = %d", status)
	}
	if len(blob.deleted) != 2 {
		t.Fatalf("deleted = %v", blob.deleted)
	}
}

func TestRequestContextSetsIDAndDeadline(t *testing.T) {
	app := fiber.New()
	app.Use(RequestContext(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil))))
	app.Get("/", func(c *fiber.Ctx) error {
		if _, ok := c.UserContext().Deadline(); !ok {
			t.Error("no deadline on user context")
		}
		if id, _ := c.Locals(LocRequestID).(string); id == "" {
			t.Error("request id not stored")
		}
		return c.SendStatus(204)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id header = %q", got)
	}
}
