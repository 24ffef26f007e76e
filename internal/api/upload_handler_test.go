package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, token, field, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	body, formType := newMultipartUpload(t, field, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", formType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestUploadStoresFile(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.adminToken(t)

	w := srv.do(uploadRequest(t, token, "file", "avatar.png", "image/png", []byte("png-bytes")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		URL      string `json:"url"`
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
		Bytes    int64  `json:"bytes"`
	}
	decodeJSON(t, w, &res)
	assert.Equal(t, "https://media.example.invalid/avatar.png", res.URL)
	assert.Equal(t, "avatar.png", res.FileName)
	assert.Equal(t, "image/png", res.FileType)
	assert.EqualValues(t, len("png-bytes"), res.Bytes)

	require.Len(t, srv.uploader.files, 1)
	assert.Equal(t, []byte("png-bytes"), srv.uploader.files[0].Data)
}

func TestUploadWithoutFile(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.adminToken(t)

	w := srv.do(uploadRequest(t, token, "attachment", "a.png", "image/png", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No file provided"}`, w.Body.String())

	w = srv.request(http.MethodPost, "/api/upload", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadFailure(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.adminToken(t)
	srv.uploader.err = errors.New("media host down")

	w := srv.do(uploadRequest(t, token, "file", "cv.pdf", "application/pdf", []byte("%PDF")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Upload failed"}`, w.Body.String())
}

func TestUploadRequiresSession(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(uploadRequest(t, "", "file", "avatar.png", "image/png", []byte("x")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, srv.uploader.files)
}

func TestUploadEmptyFile(t *testing.T) {
	srv := newTestServer(t, nil)
	token := srv.adminToken(t)

	w := srv.do(uploadRequest(t, token, "file", "empty.png", "image/png", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No file provided"}`, w.Body.String())
	assert.Empty(t, srv.uploader.files)
}
