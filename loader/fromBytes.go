package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"

	"github.com/robbyt/go-sigil/internal/helpers"
)

// FromBytes implements the Loader interface for binary content such as a WASM module.
type FromBytes struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromBytes creates a loader from a copy of content, which must be non-empty.
func NewFromBytes(content []byte) (*FromBytes, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: content is empty", ErrSourceUnavailable)
	}

	u, err := url.Parse("bytes://inline/" + helpers.DigestBytes(content)[:8])
	if err != nil {
		return nil, fmt.Errorf("failed to create source URL: %w", err)
	}
	return &FromBytes{content: bytes.Clone(content), sourceURL: u}, nil
}

func (l *FromBytes) String() string {
	return fmt.Sprintf("loader.FromBytes{Bytes: %d}", len(l.content))
}

func (l *FromBytes) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

func (l *FromBytes) GetSourceURL() *url.URL {
	return l.sourceURL
}
