package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStore keeps evidence images in a public Supabase Storage bucket.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
	prefix string
	log    logrus.FieldLogger

	// the client sets per-upload headers on a shared transport
	mu sync.Mutex
}

// NewSupabaseStore creates a store for bucket on the Supabase project at baseURL.
func NewSupabaseStore(baseURL, key, bucket string, log logrus.FieldLogger) *SupabaseStore {
	endpoint := strings.TrimRight(baseURL, "/") + "/storage/v1"
	return &SupabaseStore{
		client: storage_go.NewClient(endpoint, key, map[string]string{"apikey": key}),
		bucket: bucket,
		prefix: fmt.Sprintf("%s/object/public/%s/", endpoint, bucket),
		log:    log,
	}
}

// Upload stores data under filename, overwriting any object with the same name.
func (s *SupabaseStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	contentType := ContentTypeFor(filename)
	upsert := true

	s.mu.Lock()
	_, err := s.client.UploadFile(s.bucket, filename, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	return s.client.GetPublicUrl(s.bucket, filename).SignedURL, nil
}

// Delete removes the object behind a public URL of this bucket.
func (s *SupabaseStore) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.prefix) {
		s.log.WithField("url", url).Warn("invalid public URL, skip deleting")
		return nil
	}
	path := strings.SplitN(strings.TrimPrefix(url, s.prefix), "?", 2)[0]
	if path == "" {
		s.log.WithField("url", url).Warn("URL has no object path, skip deleting")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	_, err := s.client.RemoveFile(s.bucket, []string{path})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}
