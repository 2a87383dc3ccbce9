package fetcher

import (
	"archive/zip"
	"bytes"

	"github.com/rotisserie/eris"
)

// maxEntryBytes caps the decompressed size of a single archive entry.
const maxEntryBytes int64 = 256 << 20

// ZIPEntry is one member of an in-memory archive. Its content is only
// decompressed when ReadText is called.
type ZIPEntry struct {
	file *zip.File
}

// Name returns the entry path inside the archive.
func (e ZIPEntry) Name() string { return e.file.Name }

// IsDir reports whether the entry is a directory marker.
func (e ZIPEntry) IsDir() bool { return e.file.FileInfo().IsDir() }

// ReadText decompresses the entry and returns its content.
func (e ZIPEntry) ReadText() (string, error) {
	rc, err := e.file.Open()
	if err != nil {
		return "", eris.Wrapf(err, "zip: open entry %q", e.file.Name)
	}
	defer rc.Close() //nolint:errcheck

	data, err := readLimited(rc, maxEntryBytes)
	if err != nil {
		return "", eris.Wrapf(err, "zip: read entry %q", e.file.Name)
	}
	return string(data), nil
}

// ReadZIP lists the entries of an archive held in memory, in the archive's
// own order.
func ReadZIP(data []byte) ([]ZIPEntry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}

	entries := make([]ZIPEntry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, ZIPEntry{file: f})
	}
	return entries, nil
}
