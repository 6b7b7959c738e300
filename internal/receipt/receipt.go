// Package receipt serves the bill-splitting HTTP API.
package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/bill-splitter/internal/split"
)

// MaxImageSize is the largest receipt image accepted, in bytes
const MaxImageSize = 10 << 20

// maxFormOverhead leaves room for the group field and multipart framing
const maxFormOverhead = 1 << 20

// Splitter splits a receipt image across a roster
type Splitter interface {
	SplitReceipt(ctx context.Context, imageData []byte, contentType string, roster []string) (*split.BillSplitResult, error)
}

// Upload is a validated split request
type Upload struct {
	Filename    string
	ContentType string
	Image       []byte
	Group       []string
}

// inputError is a problem with the request that maps to 400
type inputError struct {
	message string
}

func (e *inputError) Error() string {
	return e.message
}

func badRequest(format string, args ...interface{}) error {
	return &inputError{message: fmt.Sprintf(format, args...)}
}

// readUpload parses the multipart form of a split request
func readUpload(w http.ResponseWriter, r *http.Request) (*Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxImageSize+maxFormOverhead)
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, badRequest("Image file too large. Maximum size is 10MB.")
		}
		return nil, badRequest("Error parsing form: %v", err)
	}

	f, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, badRequest("No image was provided. Send the receipt in the 'image' field.")
		}
		return nil, badRequest("Error reading image: %v", err)
	}
	defer f.Close()

	contentType := imageContentType(header.Header.Get("Content-Type"), header.Filename)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, badRequest("File must be an image (PNG, JPG, JPEG)")
	}

	group, err := parseGroup(r.FormValue("group"))
	if err != nil {
		return nil, badRequest("Invalid group format: %v. Expected JSON array of strings.", err)
	}

	if header.Size > MaxImageSize {
		return nil, badRequest("Image file too large. Maximum size is 10MB.")
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) == 0 {
		return nil, badRequest("Empty image file")
	}
	if len(data) > MaxImageSize {
		return nil, badRequest("Image file too large. Maximum size is 10MB.")
	}

	return &Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Image:       data,
		Group:       group,
	}, nil
}

// imageContentType normalizes the part's Content-Type, guessing from the
// file extension when the client sent none
func imageContentType(contentType, filename string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType != "" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// parseGroup reads the roster from the group form field
func parseGroup(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("group is required")
	}

	var group []string
	if err := json.Unmarshal([]byte(raw), &group); err != nil {
		return nil, errors.New("group must be a list of strings")
	}
	if group == nil {
		return nil, errors.New("group must be a list of strings")
	}
	if len(group) == 0 {
		return nil, errors.New("group must contain at least one member")
	}
	for i, member := range group {
		if strings.TrimSpace(member) == "" {
			return nil, fmt.Errorf("group member %d is blank", i+1)
		}
	}
	return group, nil
}
