package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/config"

	"github.com/gin-gonic/gin"
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formFiles reads the files uploaded under field. Requests that are not
// multipart carry no files.
func formFiles(c *gin.Context, field string) ([]blob.File, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	headers := form.File[field]
	files := make([]blob.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readFile(fh *multipart.FileHeader) (blob.File, error) {
	if fh.Size > config.MaxUploadFileBytes {
		return blob.File{}, fmt.Errorf("file %s is larger than %d bytes", fh.Filename, config.MaxUploadFileBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return blob.File{}, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, config.MaxUploadFileBytes+1))
	if err != nil {
		return blob.File{}, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	if len(data) > config.MaxUploadFileBytes {
		return blob.File{}, fmt.Errorf("file %s is larger than %d bytes", fh.Filename, config.MaxUploadFileBytes)
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = blob.ContentTypeFor(fh.Filename)
	}
	return blob.File{Name: fh.Filename, ContentType: contentType, Data: data}, nil
}

// formList returns the values posted under key, or nil when the key was
// not sent at all. Sending the key with only blank values yields an empty,
// non-nil list.
func formList(c *gin.Context, key string) []string {
	values, ok := c.GetPostFormArray(key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// formString returns a pointer to the posted value of key, or nil when the
// key was not sent.
func formString(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}
