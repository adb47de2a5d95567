// file: internal/covers/localizer.go
// version: 1.2.0
// guid: 2d4f6a8c-0e3b-4b5d-9f1a-3c5e7a9b1d42

package covers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jdfalk/bookfeed/internal/models"
)

// maxCoverBytes caps a single cover download
const maxCoverBytes = 10 * 1024 * 1024

// DiskLocalizer rewrites cover references to locally servable URLs and
// lazily caches remote images under its directory. A failed download never
// fails resolution; the rewritten URL simply 404s until the image can be
// fetched on a later request.
type DiskLocalizer struct {
	dir    string
	client *http.Client
}

// NewDiskLocalizer creates a localizer caching covers under dir
func NewDiskLocalizer(dir string) *DiskLocalizer {
	return &DiskLocalizer{
		dir: dir,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Resolve rewrites each cover URL to /covers/{entity}/{bookID}/{type}{ext}
// and caches remote sources on first sight. Safe to call with an empty list.
func (l *DiskLocalizer) Resolve(bookID, entity string, coverList []models.MediaCover) []models.MediaCover {
	out := make([]models.MediaCover, len(coverList))
	for i, cover := range coverList {
		ext := coverExtension(cover)
		filename := cover.CoverType + ext

		if isRemote(cover.URL) {
			dest := l.CachePath(entity, bookID, filename)
			if _, err := os.Stat(dest); os.IsNotExist(err) {
				if err := l.download(cover.URL, dest); err != nil {
					log.Printf("[WARN] failed to cache cover %s for %s %s: %v", cover.CoverType, entity, bookID, err)
				}
			}
		}

		cover.Extension = ext
		cover.URL = fmt.Sprintf("/covers/%s/%s/%s", entity, bookID, filename)
		out[i] = cover
	}
	return out
}

// CachePath returns the on-disk location of a cached cover image
func (l *DiskLocalizer) CachePath(entity, bookID, filename string) string {
	return filepath.Join(l.dir, entity, bookID, filename)
}

func isRemote(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

// coverExtension picks the cached file extension: the descriptor's own
// extension, else the URL path's, else .jpg
func coverExtension(cover models.MediaCover) string {
	if cover.Extension != "" {
		return normalizeExt(cover.Extension)
	}
	if parsed, err := url.Parse(cover.URL); err == nil {
		if ext := path.Ext(parsed.Path); ext != "" {
			return normalizeExt(ext)
		}
	}
	return ".jpg"
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return ext
	}
	return ".jpg"
}

// download fetches a remote cover into dest. Only image/* content is
// accepted and the body is size-capped.
func (l *DiskLocalizer) download(coverURL, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create covers directory: %w", err)
	}

	resp, err := l.client.Get(coverURL)
	if err != nil {
		return fmt.Errorf("failed to download cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cover download returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("unexpected content type: %s", contentType)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create cover file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(resp.Body, maxCoverBytes)); err != nil {
		os.Remove(dest)
		return fmt.Errorf("failed to write cover file: %w", err)
	}

	return nil
}
