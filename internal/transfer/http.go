package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultDownloadName is used when the URL path has no last segment.
const DefaultDownloadName = "download.file"

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", err.Method, err.URL, err.StatusCode, http.StatusText(err.StatusCode))
}

// HTTPUploader PUTs every file of a local tree below a base URL.
type HTTPUploader struct {
	FS      afero.Fs
	Pool    *Pool
	Client  *http.Client
	Headers http.Header
}

// Upload sends the file or directory at from. A directory maps onto
// rawURL/<relative path>. A single file goes to rawURL itself, or to
// rawURL/<name> when rawURL ends with "/".
func (u *HTTPUploader) Upload(ctx context.Context, from, rawURL string) (int, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}

	info, err := u.FS.Stat(from)
	if err != nil {
		return 0, err
	}

	return uploadTree(ctx, u.FS, u.Pool, from, "", func(ctx context.Context, obj Object) error {
		target := base.String()
		if info.IsDir() || strings.HasSuffix(base.Path, "/") {
			target = joinURL(base, obj.Key)
		}
		return u.put(ctx, target, obj)
	})
}

func (u *HTTPUploader) put(ctx context.Context, target string, obj Object) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, obj.Body)
	if err != nil {
		return err
	}
	req.ContentLength = obj.Size
	if obj.Size == 0 {
		req.Body = http.NoBody
	}
	req.Header = u.Headers.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	if req.Header.Get("Content-Type") == "" && obj.Headers.ContentType != "" {
		req.Header.Set("Content-Type", obj.Headers.ContentType)
	}
	if req.Header.Get("Cache-Control") == "" && obj.Headers.CacheControl != "" {
		req.Header.Set("Cache-Control", obj.Headers.CacheControl)
	}

	return do(u.Client, req, io.Discard)
}

// joinURL appends a relative slash path to base, escaping each segment.
func joinURL(base *url.URL, rel string) string {
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(base.String(), "/") + "/" + strings.Join(segments, "/")
}

// do sends req and copies a 2xx body into w.
func do(c *http.Client, req *http.Request, w io.Writer) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.WithField("status", resp.Status).Debugf("Response body: %s", body)
		return &StatusError{Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	_, err = io.Copy(w, resp.Body)
	return err
}

// HTTPDownloader GETs a URL into a local file.
type HTTPDownloader struct {
	FS      afero.Fs
	Client  *http.Client
	Headers http.Header
}

// DownloadTarget is where a download from u is saved given the optional
// destination to.
func DownloadTarget(u *url.URL, to string) string {
	segments := strings.Split(u.Path, "/")
	return targetPath(segments[len(segments)-1], to)
}

// Download fetches rawURL and returns the path of the saved file.
func (d *HTTPDownloader) Download(ctx context.Context, rawURL, to string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}
	target := DownloadTarget(u, to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header = d.Headers.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(do(d.Client, req, pw))
	}()
	if err := save(d.FS, target, pr); err != nil {
		pr.CloseWithError(err)
		return "", err
	}
	return target, nil
}

// save writes r to target, creating parent directories. A partial file is
// removed on error.
func save(fs afero.Fs, target string, r io.Reader) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	f, err := fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		fs.Remove(target)
		return err
	}
	return f.Close()
}
