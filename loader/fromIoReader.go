package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"

	"github.com/robbyt/go-sigil/internal/helpers"
)

// FromIoReader implements the Loader interface for content from an io.Reader.
type FromIoReader struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromIoReader reads reader to the end and keeps the content, so GetReader can be called
// more than once. sourceName labels the source URL.
func NewFromIoReader(reader io.Reader, sourceName string) (*FromIoReader, error) {
	if reader == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrSourceUnavailable)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: content is empty or contains only whitespace", ErrSourceUnavailable)
	}

	if sourceName == "" {
		sourceName = "unnamed"
	}
	u := &url.URL{
		Scheme: "reader",
		Host:   sourceName,
		Path:   "/" + helpers.DigestBytes(content)[:8],
	}
	return &FromIoReader{content: content, sourceURL: u}, nil
}

func (l *FromIoReader) String() string {
	return fmt.Sprintf("loader.FromIoReader{Bytes: %d, Source: %s}", len(l.content), l.sourceURL)
}

func (l *FromIoReader) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

func (l *FromIoReader) GetSourceURL() *url.URL {
	return l.sourceURL
}
