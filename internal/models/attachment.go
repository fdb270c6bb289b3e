package models

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"
)

// Attachment is a stored file belonging to a resource
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Size *int64 `json:"size"`
	Type string `json:"type,omitempty"`
}

// FlexibleSize accepts a JSON number or a numeric string.
// Anything else decodes to an unknown (nil) size instead of failing the request.
type FlexibleSize struct {
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexibleSize) UnmarshalJSON(data []byte) error {
	s.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
	} else {
		raw = string(data)
	}

	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
		s.Value = &n
		return nil
	}
	// float64(math.MaxInt64) is 2^63, outside int64; NaN fails both bounds
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f >= 0 && f < math.MaxInt64 {
		n := int64(f)
		s.Value = &n
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (s FlexibleSize) MarshalJSON() ([]byte, error) {
	if s.Value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(*s.Value, 10)), nil
}

// AttachmentInput is an attachment record sent by a client, usually one kept from a previous save
type AttachmentInput struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	URL  string       `json:"url" validate:"omitempty,url"`
	Size FlexibleSize `json:"size"`
	Type string       `json:"type"`
}

// UploadFile is a file received from a client and waiting to be stored.
// Open may be called more than once; every call must return a fresh reader.
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadResult is returned by the single file upload endpoint
type UploadResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Path    string `json:"path"`
}
