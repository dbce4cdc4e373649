package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "pic.png", header.Filename)

		w.Write([]byte(`[{"src":"/file/abc123.png"}]`))
	}))
	defer srv.Close()

	res, err := Upload(context.Background(), Request{
		Host:     srv.URL,
		File:     strings.NewReader("not really a png"),
		Filename: "pic.png",
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/file/abc123.png", res.URL)
}

func TestUploadRequiresFile(t *testing.T) {
	_, err := Upload(context.Background(), Request{Host: "https://telegra.ph/upload"})
	require.Error(t, err)
}

func TestUploadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad file", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := Upload(context.Background(), Request{
		Host:     srv.URL,
		File:     strings.NewReader("x"),
		Filename: "pic.png",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad file")
}

func writeTempFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestUploadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"src":"/file/x.png"}]`))
	}))
	defer srv.Close()

	path := writeTempFile(t, "image.png", "data")
	res, err := UploadFile(context.Background(), path, func(r *Request) { r.Host = srv.URL })
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/file/x.png", res.URL)
}

func TestUploadFileRejectsUnknownExtension(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "hello")
	_, err := UploadFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file type")
}

func TestUploadFileMissing(t *testing.T) {
	_, err := UploadFile(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestUploadAll(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[{"src":"/file/n.png"}]`))
	}))
	defer srv.Close()

	paths := []string{
		writeTempFile(t, "a.png", "a"),
		writeTempFile(t, "b.jpg", "b"),
		"not-an-image.txt",
		writeTempFile(t, "c.gif", "c"),
	}

	var progressed atomic.Int32
	results := UploadAll(context.Background(), paths, 2,
		func(done, total int, r Result) {
			progressed.Add(1)
			assert.Equal(t, 4, total)
		},
		func(r *Request) { r.Host = srv.URL })

	require.Len(t, results, 4)
	// results stay in input order and one bad file doesn't sink the batch
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[2].Err)
	assert.Equal(t, srv.URL+"/file/n.png", results[3].URL)
	assert.EqualValues(t, 3, hits.Load())
	assert.EqualValues(t, 4, progressed.Load())
}
