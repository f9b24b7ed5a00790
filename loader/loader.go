// Package loader reads signature text and WASM modules from strings, files and readers.
package loader

import (
	"fmt"
	"io"
	"net/url"
)

// Loader provides the content of one source. GetReader may be called more than once.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

// ReadBytes reads the whole content of l.
func ReadBytes(l Loader) ([]byte, error) {
	reader, err := l.GetReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", l.GetSourceURL(), err)
	}
	return content, nil
}

// ReadString reads the whole content of l as text.
func ReadString(l Loader) (string, error) {
	content, err := ReadBytes(l)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
