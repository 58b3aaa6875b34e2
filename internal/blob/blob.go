// Package blob is the object storage collaborator for evidence images.
//
// A Store uploads bytes under a filename and returns the public URL, and
// deletes objects by that URL. Deleting a URL the store does not own, or an
// object that is already gone, is a logged no-op rather than an error.
package blob

import (
	"context"
	"path/filepath"
	"strings"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store uploads and deletes evidence images.
type Store interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	Delete(ctx context.Context, url string) error
}

// File is an uploaded evidence image that has not been stored yet.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewFilename returns a collision-resistant object name for an upload:
// "<prefix>-<uuid><ext>", keeping the extension of original or defaulting to .jpg.
func NewFilename(prefix, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" || ext == "." {
		ext = config.DefaultImageExt
	}
	return prefix + "-" + uuid.NewString() + ext
}

// ContentTypeFor guesses the image content type from a filename.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return "image/jpeg"
	}
}

// Outcome is the result of deleting one URL in a cleanup batch.
type Outcome struct {
	URL string
	Err error
}

// Failed reports whether the deletion failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// DeleteAll deletes every URL, logging failures and never stopping early.
// One outcome per URL is returned in input order.
func DeleteAll(ctx context.Context, s Store, urls []string, log logrus.FieldLogger) []Outcome {
	outcomes := make([]Outcome, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		err := s.Delete(ctx, u)
		if err != nil {
			metrics.CleanupFailures.Inc()
			log.WithError(err).WithField("url", u).Warn("failed to delete image from storage")
		}
		outcomes = append(outcomes, Outcome{URL: u, Err: err})
	}
	return outcomes
}

// Failures returns the failed outcomes of a cleanup batch.
func Failures(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	return failed
}
