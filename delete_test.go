package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFile(t *testing.T, srv *server, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(srv.cfg.UploadDir, name), []byte("data"), 0644))
}

func TestDeleteRemovesFileOnceThenFails(t *testing.T) {
	srv, app := newTestServer(t, &fakeEncoder{})
	seedFile(t, srv, "123-photo.png")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/delete", `{"filename":"123-photo.png"}`, true))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.NoFileExists(t, filepath.Join(srv.cfg.UploadDir, "123-photo.png"))

	// second delete of the same name is an error, not a silent success
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/delete", `{"filename":"123-photo.png"}`, true))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestDeleteRejectsTraversal(t *testing.T) {
	_, app := newTestServer(t, &fakeEncoder{})

	for _, name := range []string{
		"../../etc/passwd",
		"..",
		"a/b.png",
		`a\\b.png`, // JSON-escaped backslash
	} {
		req := jsonRequest(t, http.MethodPost, "/delete", `{"filename":"`+name+`"}`, true)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "filename %q", name)
	}
}

func TestDeleteRejectsMissingFilename(t *testing.T) {
	_, app := newTestServer(t, &fakeEncoder{})

	for _, body := range []string{"", "{}", `{"filename":""}`} {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/delete", body, true))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", body)
	}
}

func TestDeleteUnauthorizedLeavesFile(t *testing.T) {
	srv, app := newTestServer(t, &fakeEncoder{})
	seedFile(t, srv, "123-keep.png")

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/delete", `{"filename":"123-keep.png"}`, false))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.FileExists(t, filepath.Join(srv.cfg.UploadDir, "123-keep.png"))
}
