package openapi

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// Loader resolves Sources into parsed OpenAPI documents. HTTP is off by
// default so record extraction stays offline-first; enable it with
// WithHTTPClient or WithHTTPFallback.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem serves SourceFromFS loads from the given filesystem.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(l *Loader) { l.fs = files }
}

// WithHTTPClient enables URL sources through the given client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client == nil {
			return
		}
		l.http = client
		l.allowHTTP = true
	}
}

// WithHTTPFallback enables URL sources through a default client capped at
// timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(l *Loader) {
		l.http = &http.Client{Timeout: timeout}
		l.allowHTTP = true
	}
}

// NewLoader builds a Loader from options.
func NewLoader(options ...LoaderOption) *Loader {
	loader := &Loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(loader)
	}
	return loader
}

// Load fetches the source payload and parses it into an OpenAPI document.
func (l *Loader) Load(ctx context.Context, src Source) (*openapi3.T, error) {
	if src == nil {
		return nil, fmt.Errorf("openapi: source is required")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = readFile(ctx, src.Location())
	case SourceKindFS:
		data, err = readFS(ctx, l.fs, src.Location())
	case SourceKindURL:
		if !l.allowHTTP {
			return nil, fmt.Errorf("openapi: http loading is disabled")
		}
		data, err = readURL(ctx, l.http, src.Location())
	default:
		err = fmt.Errorf("openapi: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return nil, err
	}

	return LoadDocument(ctx, data)
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("openapi: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return data, nil
}

func readFS(ctx context.Context, filesystem fs.FS, name string) ([]byte, error) {
	if filesystem == nil {
		return nil, fmt.Errorf("openapi: loader has no filesystem configured")
	}
	if name == "" {
		return nil, fmt.Errorf("openapi: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := fs.ReadFile(filesystem, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return data, nil
}

func readURL(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openapi: fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openapi: read response: %w", err)
	}
	return data, nil
}
