package loader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/robbyt/go-sigil/internal/helpers"
)

// FromDisk implements the Loader interface for a file. The file is opened on every
// GetReader, so later edits are seen.
type FromDisk struct {
	path      string
	sourceURL *url.URL
}

// NewFromDisk creates a loader for path, which may carry a file:// scheme. Relative paths
// are resolved against the working directory.
func NewFromDisk(path string) (*FromDisk, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}
	path = strings.TrimPrefix(path, "file://")
	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path is empty", ErrSourceUnavailable)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if abs == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: path is a root directory", ErrSourceUnavailable)
	}

	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return &FromDisk{path: abs, sourceURL: u}, nil
}

func (l *FromDisk) String() string {
	noChkSum := fmt.Sprintf("loader.FromDisk{Path: %s}", l.path)

	reader, err := l.GetReader()
	if err != nil {
		return noChkSum
	}
	defer func() { _ = reader.Close() }()

	chksum, err := helpers.DigestReader(reader)
	if err != nil {
		return noChkSum
	}
	return fmt.Sprintf("loader.FromDisk{Path: %s, BLAKE2b: %s}", l.path, chksum[:8])
}

func (l *FromDisk) GetReader() (io.ReadCloser, error) {
	return os.Open(l.path)
}

func (l *FromDisk) GetSourceURL() *url.URL {
	return l.sourceURL
}
