// Package assets downloads images referenced by exported pages into a local
// images directory so the generated markdown keeps working after the signed
// provider URLs expire.
package assets

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dotneet/notion-exporter/internal/storage"
)

const (
	dirName        = "images"
	requestTimeout = 30 * time.Second

	defaultExtension = ".jpg"
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".svg":  {},
}

// Downloader fetches remote images into the images directory under the
// export destination. Local names are derived from the URL alone, so the
// same image referenced from several pages is stored once.
type Downloader struct {
	files  storage.Provider
	client *http.Client
	logger logrus.FieldLogger
}

// NewDownloader creates a Downloader writing through the given provider.
func NewDownloader(files storage.Provider, log logrus.FieldLogger) *Downloader {
	return &Downloader{
		files:  files,
		client: &http.Client{Timeout: requestTimeout},
		logger: log,
	}
}

// Filename derives the stable local name for url: image_<md5>.<ext>. The
// digest covers the URL with its query stripped, because file hosts rotate
// signature parameters on every API response and the query must not change
// the identity of the image. Extensions outside the known image set fall
// back to .jpg.
func Filename(url string) string {
	base, _, _ := strings.Cut(url, "?")
	sum := md5.Sum([]byte(base))

	ext := strings.ToLower(path.Ext(base))
	if _, ok := allowedExtensions[ext]; !ok {
		ext = defaultExtension
	}
	return "image_" + hex.EncodeToString(sum[:]) + ext
}

// Fetch downloads url and returns the local filename, relative to the
// images directory. A file that already exists is reused without a request.
func (d *Downloader) Fetch(ctx context.Context, url string) (string, error) {
	name := Filename(url)
	rel := path.Join(dirName, name)

	if d.files.Exists(rel) {
		d.logger.WithField("file", name).Debug("Image already downloaded, skipping")
		return name, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request for %s: %w", url, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to download image %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", url, err)
	}
	if err := d.files.Write(rel, data); err != nil {
		return "", fmt.Errorf("failed to store image %s: %w", name, err)
	}

	d.logger.WithFields(logrus.Fields{
		"file":  name,
		"bytes": len(data),
	}).Debug("Downloaded image")
	return name, nil
}
