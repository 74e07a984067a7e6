package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/rotehq/notebridge/internal/memosapi"
	"github.com/rotehq/notebridge/internal/pkg/errcode"
	appErr "github.com/rotehq/notebridge/internal/pkg/errors"
	"github.com/rotehq/notebridge/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Warn("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrInvalidFile):
		response.Error(c, errcode.ErrInvalidFile, "file is not a readable database")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, memosapi.ErrAuthFailed):
		response.Error(c, errcode.ErrFetchAuthFailed, err.Error())
	case errors.Is(err, memosapi.ErrForbidden):
		response.Error(c, errcode.ErrFetchForbidden, err.Error())
	case errors.Is(err, memosapi.ErrNotFound):
		response.Error(c, errcode.ErrFetchNotFound, err.Error())
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}

func formatUploadLimit(size int64) string {
	const mb = 1 << 20
	if size >= mb {
		return fmt.Sprintf("%dMB", size/mb)
	}
	return fmt.Sprintf("%dB", size)
}
