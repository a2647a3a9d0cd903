package openapi

import (
	"net/url"
	"path/filepath"
)

// Source identifies where an OpenAPI document lives, so record extraction and
// write-back can work against disk, embedded bundles, or HTTP endpoints
// through one loader.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

// SourceFromFile returns a Source pointing at an on-disk document.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Kind() SourceKind { return SourceKindFS }
func (s fsSource) Location() string { return s.name }

// SourceFromFS returns a Source naming an entry inside the loader's
// configured filesystem.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Kind() SourceKind { return SourceKindURL }
func (s urlSource) Location() string { return s.raw }

// SourceFromURL returns a Source for a remote document. Invalid URLs surface
// at load time, not here.
func SourceFromURL(raw string) Source {
	if parsed, err := url.Parse(raw); err == nil {
		raw = parsed.String()
	}
	return urlSource{raw: raw}
}
