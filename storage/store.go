package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when a server filename does not exist in the store.
var ErrNotFound = errors.New("file not found")

// listedExtensions are the extensions List reports, compared lower-cased.
var listedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// File is a stored image as seen on disk.
type File struct {
	Name       StoredName
	ServerName string
	Size       int64
	ModTime    time.Time
}

// Ext returns the extension without the leading dot, case preserved.
func (f File) Ext() string {
	return strings.TrimPrefix(filepath.Ext(f.ServerName), ".")
}

// Store keeps uploaded images as plain files in a single directory. The
// directory is the only source of truth: nothing is cached between calls and
// no locking is done, so concurrent save/list/remove calls may race.
type Store struct {
	dir       string
	urlPrefix string

	now    func() time.Time
	random func() int64
}

// NewStore creates dir if needed and returns a store serving files under
// urlPrefix.
func NewStore(dir, urlPrefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		now:       time.Now,
		random:    func() int64 { return rand.Int64N(randomSpan + 1) },
	}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// URL returns the public path of a server filename.
func (s *Store) URL(serverName string) string {
	return s.urlPrefix + "/" + serverName
}

// Save writes r under a freshly generated name. Files are created
// exclusively, so a name collision is an error rather than an overwrite.
func (s *Store) Save(original string, r io.Reader) (File, error) {
	name := NewStoredName(s.now(), s.random(), original)
	serverName := name.String()
	fullPath := filepath.Join(s.dir, serverName)

	out, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return File{}, fmt.Errorf("failed to create file: %w", err)
	}
	written, err := io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return File{}, fmt.Errorf("failed to write file: %w", err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat file: %w", err)
	}
	return File{Name: name, ServerName: serverName, Size: written, ModTime: info.ModTime()}, nil
}

// List scans the directory and returns every image file, sorted by server
// filename. Any stat failure fails the whole listing.
func (s *Store) List() ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !listedExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		info, err := os.Stat(filepath.Join(s.dir, name))
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		files = append(files, File{
			Name:       ParseStoredName(name),
			ServerName: name,
			Size:       info.Size(),
			ModTime:    info.ModTime(),
		})
	}
	return files, nil
}

// Remove deletes a file by server filename. The name is joined onto the
// directory as given; it is not checked to stay inside the directory.
func (s *Store) Remove(serverName string) error {
	fullPath := filepath.Join(s.dir, serverName)
	if _, err := os.Stat(fullPath); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, serverName)
	}
	return os.Remove(fullPath)
}

// Discard removes files written earlier in a request that is being rejected.
// Failures are ignored; the caller already has an error to report.
func (s *Store) Discard(files []File) {
	for _, f := range files {
		_ = os.Remove(filepath.Join(s.dir, f.ServerName))
	}
}
