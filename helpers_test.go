package main

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
)

const testAdminPass = "hunter2-test"

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &Config{
		UploadDir:     filepath.Join(dir, "uploads"),
		PublicDir:     filepath.Join(dir, "public"),
		AdminUser:     "admin",
		AdminPass:     testAdminPass,
		MaxTranscodes: 2,
		EncodeTimeout: time.Minute,
		TokenLifetime: time.Hour,
		ChatLogPath:   filepath.Join(dir, "chat.jsonl"),
	}
	require.NoError(t, os.MkdirAll(cfg.UploadDir, 0755))
	return cfg
}

func newTestServer(t *testing.T, enc Encoder) (*server, *fiber.App) {
	t.Helper()
	srv := newServer(newTestConfig(t), enc)
	app := fiber.New()
	srv.setupRoutes(app)
	return srv, app
}

// fakeEncoder stands in for ffmpeg: it records calls, optionally fails, and
// writes a marker output file on success the way a real encode would.
type fakeEncoder struct {
	mu    sync.Mutex
	calls []string // input paths, in call order
	fail  error
}

func (f *fakeEncoder) Encode(_ context.Context, inputPath, outputPath string) error {
	f.mu.Lock()
	f.calls = append(f.calls, inputPath)
	f.mu.Unlock()

	if f.fail != nil {
		return f.fail
	}
	return os.WriteFile(outputPath, []byte("transcoded"), 0644)
}

func (f *fakeEncoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func multipartUpload(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func uploadRequest(t *testing.T, field, filename, contentType string, authed bool) *http.Request {
	t.Helper()
	body, bodyType := multipartUpload(t, field, filename, contentType, []byte("payload"))
	req, err := http.NewRequest(http.MethodPost, "/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", bodyType)
	if authed {
		req.SetBasicAuth("admin", testAdminPass)
	}
	return req
}

func jsonRequest(t *testing.T, method, path, body string, authed bool) *http.Request {
	t.Helper()
	req, err := http.NewRequest(method, path, bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.SetBasicAuth("admin", testAdminPass)
	}
	return req
}

func uploadDirNames(t *testing.T, srv *server) []string {
	t.Helper()
	entries, err := os.ReadDir(srv.cfg.UploadDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
