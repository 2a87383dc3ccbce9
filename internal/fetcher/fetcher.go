// Package fetcher acquires input files from local paths, HTTP(S) and FTP
// URLs, and provides the archive, XML and JSON decoding primitives the
// extractors build on.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultMaxBytes caps the size of a single fetched input.
const DefaultMaxBytes int64 = 64 << 20

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}

// Source is a fetched input file.
type Source struct {
	Name string
	Data []byte
}

// Opener resolves an input location to its bytes. Locations are local paths
// or http, https and ftp URLs.
type Opener struct {
	HTTP     Fetcher
	FTP      Fetcher
	MaxBytes int64
}

// NewOpener creates an Opener backed by the given HTTP and FTP fetchers.
func NewOpener(httpFetcher, ftpFetcher Fetcher) *Opener {
	return &Opener{HTTP: httpFetcher, FTP: ftpFetcher, MaxBytes: DefaultMaxBytes}
}

// Open reads the input at location. The returned Source is named after the
// last path element, which is what downstream naming rules key off.
func (o *Opener) Open(ctx context.Context, location string) (*Source, error) {
	u, err := url.Parse(location)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return o.openRemote(ctx, o.HTTP, location, path.Base(u.Path))
		case "ftp":
			return o.openRemote(ctx, o.FTP, location, path.Base(u.Path))
		}
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", location)
	}
	return &Source{Name: filepath.Base(location), Data: data}, nil
}

func (o *Opener) openRemote(ctx context.Context, f Fetcher, location, name string) (*Source, error) {
	if f == nil {
		return nil, eris.Errorf("fetcher: no fetcher configured for %s", location)
	}

	zap.L().Debug("fetcher: downloading input", zap.String("url", location))

	body, err := f.Download(ctx, location)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: download %s", location)
	}
	defer body.Close() //nolint:errcheck

	data, err := readLimited(body, o.maxBytes())
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", location)
	}
	return &Source{Name: name, Data: data}, nil
}

func (o *Opener) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// readLimited reads r fully, failing if it holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, eris.Errorf("input exceeds %d bytes", limit)
	}
	return data, nil
}
