package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/rotehq/notebridge/internal/memosapi"
	"github.com/rotehq/notebridge/internal/model"
	"github.com/rotehq/notebridge/internal/pkg/errcode"
	"github.com/rotehq/notebridge/internal/pkg/response"
	"github.com/rotehq/notebridge/internal/service"
)

var allowedDBExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

type ConvertHandler struct {
	converts      *service.ConvertService
	preview       *service.PreviewRenderer
	maxUploadSize int64
	uploadDir     string
}

func NewConvertHandler(converts *service.ConvertService, preview *service.PreviewRenderer, maxUploadSize int64, uploadDir string) *ConvertHandler {
	return &ConvertHandler{
		converts:      converts,
		preview:       preview,
		maxUploadSize: maxUploadSize,
		uploadDir:     uploadDir,
	}
}

type convertRequest struct {
	Data           json.RawMessage `json:"data"`
	SelectedUserID *int64          `json:"selected_user_id"`
}

type fetchRequest struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
}

// Convert runs the engine over a payload the client already holds.
func (h *ConvertHandler) Convert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Data) == 0 {
		response.Error(c, errcode.ErrInvalid, "data payload is required")
		return
	}
	report := h.converts.ConvertPayload(c.Request.Context(), req.Data, req.SelectedUserID)
	response.Success(c, report)
}

// Upload converts an uploaded SQLite database export.
func (h *ConvertHandler) Upload(c *gin.Context) {
	path, ok := h.stageUpload(c)
	if !ok {
		return
	}
	defer func() {
		_ = os.Remove(path)
	}()

	selectedUserID, err := parseSelectedUser(c.PostForm("selected_user_id"))
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "selected_user_id must be an integer")
		return
	}
	report, err := h.converts.ConvertDBFile(c.Request.Context(), path, selectedUserID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, report)
}

// Users lists the disambiguation candidates of an uploaded database,
// so the operator can pick an author before converting.
func (h *ConvertHandler) Users(c *gin.Context) {
	path, ok := h.stageUpload(c)
	if !ok {
		return
	}
	defer func() {
		_ = os.Remove(path)
	}()

	users, err := h.converts.ListDBUsers(c.Request.Context(), path)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"users": users})
}

// Fetch pulls every page from a live Memos instance and converts the
// result. Page progress is logged; the client gets the final report.
func (h *ConvertHandler) Fetch(c *gin.Context) {
	var req fetchRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.BaseURL == "" || req.Token == "" {
		response.Error(c, errcode.ErrInvalid, "base_url and token are required")
		return
	}
	ctx := c.Request.Context()
	report, err := h.converts.ConvertFromAPI(ctx, req.BaseURL, req.Token, func(p memosapi.Progress) {
		logutil.GetLogger(ctx).Info("fetch progress", zap.Int("current", p.Current), zap.String("message", p.Message))
	})
	if err != nil {
		h.handleFetchError(c, err)
		return
	}
	response.Success(c, report)
}

// Preview converts a payload and returns rendered samples alongside
// the report, for the confirmation step before download.
func (h *ConvertHandler) Preview(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Data) == 0 {
		response.Error(c, errcode.ErrInvalid, "data payload is required")
		return
	}
	report := h.converts.ConvertPayload(c.Request.Context(), req.Data, req.SelectedUserID)
	response.Success(c, gin.H{
		"report":  report,
		"preview": h.preview.BuildPreview(report),
	})
}

// Export streams converted notes back as the downloadable document.
func (h *ConvertHandler) Export(c *gin.Context) {
	var export model.RoteExport
	if err := c.ShouldBindJSON(&export); err != nil || export.Notes == nil {
		response.Error(c, errcode.ErrInvalid, "notes are required")
		return
	}
	fileName, content, err := service.ExportDocument(&export)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(200, "application/json", content)
}

// Platforms lists the supported source platforms and intake modes.
func (h *ConvertHandler) Platforms(c *gin.Context) {
	response.Success(c, gin.H{"platforms": service.Platforms()})
}

// stageUpload validates the multipart database upload and copies it to
// the staging dir. On failure the response is already written.
func (h *ConvertHandler) stageUpload(c *gin.Context) (string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "file is required")
		return "", false
	}
	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		response.Error(c, errcode.ErrInvalidFile, "file too large (max "+formatUploadLimit(h.maxUploadSize)+")")
		return "", false
	}
	if !allowedDBExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		response.Error(c, errcode.ErrInvalidFile, "database file required (.db, .sqlite, .sqlite3)")
		return "", false
	}
	opened, err := file.Open()
	if err != nil {
		response.Error(c, errcode.ErrInvalidFile, "failed to open file")
		return "", false
	}
	defer func(opened multipart.File) {
		_ = opened.Close()
	}(opened)

	path, err := service.SaveTempFile(h.uploadDir, opened)
	if err != nil {
		response.Error(c, errcode.ErrInternal, "failed to stage file")
		return "", false
	}
	return path, true
}

func (h *ConvertHandler) handleFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, memosapi.ErrAuthFailed),
		errors.Is(err, memosapi.ErrForbidden),
		errors.Is(err, memosapi.ErrNotFound):
		handleError(c, err)
	default:
		logutil.GetLogger(c.Request.Context()).Warn("fetch failed", zap.Error(err))
		response.Error(c, errcode.ErrFetchFailed, err.Error())
	}
}

func parseSelectedUser(value string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
