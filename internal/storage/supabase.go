package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// supabaseStorage implements ObjectStore on top of the Supabase Storage HTTP API
type supabaseStorage struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

// NewSupabaseStorage creates a store for the Supabase project at baseURL.
// serviceKey must be a service role key since uploads bypass row level security.
func NewSupabaseStorage(baseURL, serviceKey string, client *http.Client) *supabaseStorage {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &supabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     client,
	}
}

func (s *supabaseStorage) objectURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, strings.TrimLeft(objectPath, "/"))
}

// Put uploads r with a PUT request. Existing objects are not overwritten.
func (s *supabaseStorage) Put(ctx context.Context, bucket, objectPath string, r io.Reader, contentType string) (int64, error) {
	body := &countingReader{r: r}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(bucket, objectPath), body)
	if err != nil {
		return 0, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return body.n, nil
}

// PublicURL returns the public object URL of a public bucket
func (s *supabaseStorage) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, strings.TrimLeft(objectPath, "/"))
}

// Delete removes an object
func (s *supabaseStorage) Delete(ctx context.Context, bucket, objectPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(bucket, objectPath), nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send delete request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
