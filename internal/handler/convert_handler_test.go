package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/rotehq/notebridge/internal/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	converts := service.NewConvertService(time.Second)
	convertHandler := NewConvertHandler(converts, service.NewPreviewRenderer(), 1<<20, t.TempDir())

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), RouterDeps{Convert: convertHandler})
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestConvert_JSONPayload(t *testing.T) {
	router := setupRouter(t)
	body := `{"data":{"memos":[{"creator":"users/1","content":"hi","visibility":"PUBLIC","state":"NORMAL","tags":[],"pinned":false,"attachments":[]}],"nextPageToken":""}}`

	recorder := postJSON(t, router, "/api/v1/convert", body)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"success":true`)
	require.Contains(t, recorder.Body.String(), `"converted":1`)
}

func TestConvert_MissingData(t *testing.T) {
	router := setupRouter(t)
	recorder := postJSON(t, router, "/api/v1/convert", `{}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "data payload is required")
}

func TestConvert_InvalidShape(t *testing.T) {
	router := setupRouter(t)
	recorder := postJSON(t, router, "/api/v1/convert", `{"data":{"invalid":"data"}}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"success":false`)
	require.Contains(t, recorder.Body.String(), "Invalid data format")
}

func TestUpload_RejectsWrongExtension(t *testing.T) {
	router := setupRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "export.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("nope"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(recorder, req)
	require.Contains(t, recorder.Body.String(), "database file required")
}

func TestUpload_RejectsNonDatabaseContent(t *testing.T) {
	router := setupRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "export.db")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not sqlite"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(recorder, req)
	require.Contains(t, recorder.Body.String(), "not a readable database")
}

func TestExport_StreamsDownload(t *testing.T) {
	router := setupRouter(t)
	recorder := postJSON(t, router, "/api/v1/export", `{"notes":[]}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Header().Get("Content-Disposition"), "attachment; filename=")
	require.Contains(t, recorder.Header().Get("Content-Disposition"), ".json")
	require.Contains(t, recorder.Body.String(), `"notes": []`)
}

func TestExport_RequiresNotes(t *testing.T) {
	router := setupRouter(t)
	recorder := postJSON(t, router, "/api/v1/export", `{}`)
	require.Contains(t, recorder.Body.String(), "notes are required")
}

func TestPlatforms(t *testing.T) {
	router := setupRouter(t)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/platforms", nil)
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"memos"`)
}

func TestUpload_StagingDirStaysClean(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	converts := service.NewConvertService(time.Second)
	convertHandler := NewConvertHandler(converts, service.NewPreviewRenderer(), 1<<20, dir)
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), RouterDeps{Convert: convertHandler})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "export.db")
	require.NoError(t, err)
	_, err = part.Write([]byte("junk"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/convert/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(recorder, req)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		require.False(t, filepath.Ext(entry.Name()) == ".db", "staged file %s not cleaned up", entry.Name())
	}
}
