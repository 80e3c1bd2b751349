// file: internals/helpers/oss/multipartx.go
package helper

import (
	"mime/multipart"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"eventhub_backend/internals/helpers/apperror"
)

// ==============================
// File collector
// ==============================

type CollectOptions struct {
	// preferred multipart field names, in order (empty -> defaults)
	FileFieldCandidates []string
	// only read the candidate fields, ignore every other file field
	Strict bool
}

var defaultFileFieldCandidates = []string{
	"files[]", "files", "file",
}

// CollectUploadFiles gathers every *FileHeader from the form, candidate
// fields first. Returns the files and the field names they came from.
func CollectUploadFiles(form *multipart.Form, opt *CollectOptions) (out []*multipart.FileHeader, usedKeys []string) {
	if form == nil || form.File == nil {
		return nil, nil
	}
	candidates := defaultFileFieldCandidates
	strict := false
	if opt != nil {
		if len(opt.FileFieldCandidates) > 0 {
			candidates = opt.FileFieldCandidates
		}
		strict = opt.Strict
	}

	seen := map[string]bool{}
	for _, key := range candidates {
		if fhs, ok := form.File[key]; ok && len(fhs) > 0 {
			usedKeys = append(usedKeys, key)
			for _, fh := range fhs {
				if fh != nil && fh.Filename != "" {
					out = append(out, fh)
				}
			}
			seen[key] = true
		}
	}
	if strict {
		return out, usedKeys
	}
	for key, fhs := range form.File {
		if seen[key] || len(fhs) == 0 {
			continue
		}
		hasFile := false
		for _, fh := range fhs {
			if fh != nil && fh.Filename != "" {
				out = append(out, fh)
				hasFile = true
			}
		}
		if hasFile {
			usedKeys = append(usedKeys, key)
		}
	}
	return out, usedKeys
}

// FormJSONField returns the raw JSON carried in a text field of a multipart
// form ("data" by convention), or the request body for JSON requests.
func FormJSONField(c *fiber.Ctx, field string) []byte {
	if IsMultipart(c) {
		return []byte(strings.TrimSpace(c.FormValue(field)))
	}
	return c.Body()
}

// BindFormJSON decodes FormJSONField into dst. An absent field leaves dst
// untouched.
func BindFormJSON(c *fiber.Ctx, field string, dst any) error {
	raw := FormJSONField(c, field)
	if len(raw) == 0 {
		return nil
	}
	// fiber buffers are reused after the handler returns
	if err := sonic.Unmarshal(append([]byte(nil), raw...), dst); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return nil
}

// UploadDir builds "<feature>/<owner id>" object directories.
func UploadDir(feature string, owner uuid.UUID) string {
	return feature + "/" + owner.String()
}
