// Package upload pushes media files to the Telegraph file store and
// returns the URLs they are served from.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultHost is the upload endpoint used when Request.Host is empty.
	DefaultHost = "https://telegra.ph/upload"

	// MaxFileSize is the largest file the endpoint accepts.
	MaxFileSize = 50 * 1024 * 1024
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".mp4":  true,
}

// Request is a single file upload.
type Request struct {
	// Host is the upload endpoint. Empty means DefaultHost.
	Host string

	// File is the file content to upload.
	File io.Reader

	// Filename is the name sent with the form field, e.g. image.png.
	Filename string

	// ContentType is the mime type such as "image/png". Optional; the
	// server sniffs the content anyway.
	ContentType string

	// HTTPClient is an option to provide your own HTTP client.
	HTTPClient *http.Client
}

func (r *Request) Validate() error {
	if r.File == nil {
		return fmt.Errorf("File must be set")
	}
	return nil
}

// Result describes one uploaded file. Path and Err are only used by
// UploadAll.
type Result struct {
	Path string
	URL  string
	Err  error
}

// Upload sends one file to the Telegraph file store and returns the URL
// it is served from.
func Upload(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	host := req.Host
	if host == "" {
		host = DefaultHost
	}
	client := http.DefaultClient
	if req.HTTPClient != nil {
		client = req.HTTPClient
	}

	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)
	fileWriter, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("multipartWriter.CreateFormFile: %w", err)
	}
	if _, err := io.Copy(fileWriter, req.File); err != nil {
		return nil, fmt.Errorf("io.Copy: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("multipartWriter.Close: %w", err)
	}

	uploadReq, err := http.NewRequestWithContext(ctx, "POST", host, &requestBody)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequest: %w", err)
	}
	uploadReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(uploadReq)
	if err != nil {
		return nil, fmt.Errorf("httpclient.Do: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusRequestEntityTooLarge:
		return nil, fmt.Errorf("file is too large")

	case http.StatusOK:
		var files []struct {
			Src string `json:"src"`
		}
		if err := jsoniter.NewDecoder(resp.Body).Decode(&files); err != nil {
			return nil, fmt.Errorf("error decoding JSON: %w", err)
		}
		if len(files) == 0 || files[0].Src == "" {
			return nil, fmt.Errorf("empty upload response")
		}
		return &Result{URL: absoluteURL(host, files[0].Src)}, nil

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upload failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
}

// absoluteURL resolves the "/file/..." src returned by the endpoint
// against the upload host.
func absoluteURL(host, src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	u, err := url.Parse(host)
	if err != nil {
		return src
	}
	return u.Scheme + "://" + u.Host + src
}

// UploadFile validates and uploads a file from disk. Only jpg, jpeg, png,
// gif and mp4 files up to MaxFileSize are accepted.
func UploadFile(ctx context.Context, path string, opts ...func(*Request)) (*Result, error) {
	if !allowedExtensions[strings.ToLower(filepath.Ext(path))] {
		return nil, fmt.Errorf("invalid file type %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file size %d exceeds limit", info.Size())
	}

	req := Request{File: f, Filename: filepath.Base(path)}
	for _, opt := range opts {
		opt(&req)
	}
	return Upload(ctx, req)
}

// Progress is called after each file of a batch finishes, successfully or
// not. It may be called from multiple goroutines.
type Progress func(done, total int, r Result)

// UploadAll uploads files concurrently, at most maxConcurrent at a time,
// and returns one Result per path in input order. Individual failures are
// recorded in Result.Err and do not abort the batch.
func UploadAll(ctx context.Context, paths []string, maxConcurrent int, progress Progress, opts ...func(*Request)) []Result {
	if maxConcurrent < 1 {
		maxConcurrent = 5
	}

	results := make([]Result, len(paths))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			r, err := UploadFile(ctx, path, opts...)
			if err != nil {
				results[i] = Result{Path: path, Err: err}
			} else {
				results[i] = Result{Path: path, URL: r.URL}
			}
			if progress != nil {
				progress(int(done.Add(1)), len(paths), results[i])
			}
			return nil
		})
	}
	g.Wait()

	return results
}
