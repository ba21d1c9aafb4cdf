package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
)

// UploadSink PUTs each artifact as JSON to <BaseURL>/<processID>/<name>.json.
// It suits object stores that accept pre-signed or token-authenticated
// uploads under a common prefix.
type UploadSink struct {
	BaseURL string
	Client  *http.Client
	// Header is added to every request, e.g. an Authorization token.
	Header http.Header
}

// NewUploadSink creates an UploadSink with a default HTTP client.
func NewUploadSink(baseURL string) *UploadSink {
	return &UploadSink{BaseURL: baseURL, Client: &http.Client{}}
}

// Put implements Sink.
func (s *UploadSink) Put(ctx context.Context, processID, name string, v any) error {
	if processID == "" || name == "" {
		return errors.New("sink: process id and artifact name are required")
	}
	target, err := url.JoinPath(s.BaseURL, processID, name+".json")
	if err != nil {
		return fmt.Errorf("failed to build upload url for '%s': %w", name, err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode artifact '%s': %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	for k, vals := range s.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload artifact '%s': %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload of artifact '%s' failed with status: %s", name, resp.Status)
	}
	ctxlog.FromContext(ctx).Debug("Artifact uploaded.", "artifact", name, "size", len(data), "status", resp.Status)
	return nil
}

// Tee writes every artifact to each of its sinks in order. All sinks are
// tried; their errors are joined.
type Tee []Sink

// Put implements Sink.
func (t Tee) Put(ctx context.Context, processID, name string, v any) error {
	var errs []error
	for _, s := range t {
		if err := s.Put(ctx, processID, name, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
