// Package delivery fetches exported course artifacts from the course
// service and optionally forwards them to an SFTP drop.
package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"course-studio/internal/httpx"
	"course-studio/internal/logger"
	"course-studio/internal/sftpclient"
)

// URLResolver turns server-relative download links into absolute URLs.
// *gateway.Client satisfies it.
type URLResolver interface {
	ResolveURL(ref string) (string, error)
}

// Artifact describes one delivered export.
type Artifact struct {
	URL        string
	LocalPath  string
	RemotePath string
	Size       int
}

type Downloader struct {
	Resolver URLResolver
	HTTP     *http.Client
	Dir      string
	Retry    httpx.RetryConfig

	// Upload, when set, pushes every downloaded artifact over SFTP.
	Upload *sftpclient.Config

	Log *logger.Logger

	// OnDelivered is called after each successful delivery.
	OnDelivered func(Artifact)
}

func NewDownloader(resolver URLResolver, dir string, log *logger.Logger) *Downloader {
	if log == nil {
		log = logger.Nop()
	}
	retry := httpx.DefaultRetryConfig()
	retry.MaxAttempts = 3
	return &Downloader{
		Resolver: resolver,
		HTTP:     &http.Client{Timeout: 2 * time.Minute},
		Dir:      dir,
		Retry:    retry,
		Log:      log.With("component", "delivery"),
	}
}

// Open delivers the artifact behind downloadURL. It is the CLI's stand-in
// for handing a link to a browser.
func (d *Downloader) Open(ctx context.Context, downloadURL string) error {
	_, err := d.Fetch(ctx, downloadURL)
	return err
}

func (d *Downloader) Fetch(ctx context.Context, downloadURL string) (Artifact, error) {
	if strings.TrimSpace(downloadURL) == "" {
		return Artifact{}, errors.New("delivery: empty download url")
	}
	abs := downloadURL
	if d.Resolver != nil {
		var err error
		if abs, err = d.Resolver.ResolveURL(downloadURL); err != nil {
			return Artifact{}, fmt.Errorf("delivery: %w", err)
		}
	}
	name, err := fileName(abs)
	if err != nil {
		return Artifact{}, err
	}

	_, body, err := httpx.DoWithRetry(ctx, d.HTTP, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, abs, nil)
	}, d.Retry)
	if err != nil {
		return Artifact{}, fmt.Errorf("delivery: download %s: %w", abs, err)
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("delivery: mkdir %s: %w", d.Dir, err)
	}
	local := filepath.Join(d.Dir, name)
	if err := os.WriteFile(local, body, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("delivery: write %s: %w", local, err)
	}
	art := Artifact{URL: abs, LocalPath: local, Size: len(body)}
	d.Log.Info("export downloaded", "url", abs, "path", local, "bytes", len(body))

	if d.Upload != nil {
		remote, err := sftpclient.Upload(ctx, *d.Upload, bytes.NewReader(body), name)
		if err != nil {
			return art, fmt.Errorf("delivery: upload %s: %w", name, err)
		}
		art.RemotePath = remote
		d.Log.Info("export uploaded", "remote_path", remote)
	}

	if d.OnDelivered != nil {
		d.OnDelivered(art)
	}
	return art, nil
}

// fileName takes the last path segment of the URL, rejecting anything that
// would escape the target directory.
func fileName(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("delivery: invalid url %q: %w", raw, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", fmt.Errorf("delivery: no file name in %q", raw)
	}
	return name, nil
}
