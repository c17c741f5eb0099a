package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/consultancy/staffing/pkg/candidate"
)

// readAtMost reads the upload into memory, rejecting anything over max bytes.
func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}

func uploadFromHeader(fh *multipart.FileHeader, maxBytes int64) (candidate.Upload, error) {
	file, err := fh.Open()
	if err != nil {
		return candidate.Upload{}, fmt.Errorf("failed to open uploaded file")
	}
	defer file.Close()
	data, err := readAtMost(file, maxBytes)
	if err != nil {
		return candidate.Upload{}, err
	}
	return candidate.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// optionalFormFile returns the named upload, or nil when the field is absent.
func optionalFormFile(c *fiber.Ctx, field string, maxBytes int64) (*candidate.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil
	}
	up, err := uploadFromHeader(fh, maxBytes)
	if err != nil {
		return nil, err
	}
	return &up, nil
}

// formFiles collects every file submitted under the named multipart field.
func formFiles(c *fiber.Ctx, field string, maxBytes int64) ([]candidate.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	var out []candidate.Upload
	for _, fh := range form.File[field] {
		up, err := uploadFromHeader(fh, maxBytes)
		if err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, nil
}

// currentUserID reads the authenticated user id set by the JWT middleware.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	s, _ := c.Locals("userId").(string)
	id, _ := uuid.Parse(s)
	return id
}
