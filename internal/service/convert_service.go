package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/rotehq/notebridge/internal/converter"
	"github.com/rotehq/notebridge/internal/dbfile"
	"github.com/rotehq/notebridge/internal/memosapi"
	"github.com/rotehq/notebridge/internal/model"
	appErr "github.com/rotehq/notebridge/internal/pkg/errors"
)

// ConvertService orchestrates the three intake paths around the
// conversion engine. It keeps no state between calls.
type ConvertService struct {
	apiTimeout time.Duration
}

func NewConvertService(apiTimeout time.Duration) *ConvertService {
	return &ConvertService{apiTimeout: apiTimeout}
}

// ConvertPayload converts an already-decoded export payload of either
// schema.
func (s *ConvertService) ConvertPayload(ctx context.Context, raw []byte, selectedUserID *int64) *converter.Report {
	report := converter.Convert(raw, selectedUserID)
	logReport(ctx, "payload", report)
	return report
}

// ConvertDBFile reads a staged SQLite upload and converts it. A file
// that cannot be read as a database is an invalid-file error, not a
// conversion report.
func (s *ConvertService) ConvertDBFile(ctx context.Context, path string, selectedUserID *int64) (*converter.Report, error) {
	src, err := dbfile.Read(path)
	if err != nil {
		logutil.GetLogger(ctx).Warn("read uploaded database failed", zap.Error(err))
		return nil, appErr.ErrInvalidFile
	}
	report := converter.ConvertDB(src, selectedUserID)
	logReport(ctx, "file", report)
	return report, nil
}

// ConvertFromAPI fetches every memo page from a live instance and
// converts the accumulated payload. Fetch failures abort before any
// conversion happens.
func (s *ConvertService) ConvertFromAPI(ctx context.Context, baseURL, token string, onProgress memosapi.ProgressFunc) (*converter.Report, error) {
	client := memosapi.New(baseURL, token, s.apiTimeout)
	src, err := client.FetchAll(ctx, onProgress)
	if err != nil {
		return nil, err
	}
	report := converter.ConvertJSON(src)
	logReport(ctx, "api", report)
	return report, nil
}

// ListDBUsers extracts the disambiguation candidates from a staged
// SQLite upload, for the operator-facing user selector.
func (s *ConvertService) ListDBUsers(ctx context.Context, path string) ([]model.UserRow, error) {
	src, err := dbfile.Read(path)
	if err != nil {
		logutil.GetLogger(ctx).Warn("read uploaded database failed", zap.Error(err))
		return nil, appErr.ErrInvalidFile
	}
	return converter.CandidateUsers(src), nil
}

func logReport(ctx context.Context, source string, report *converter.Report) {
	logutil.GetLogger(ctx).Info("conversion finished",
		zap.String("source", source),
		zap.Bool("success", report.Success),
		zap.Int("total", report.Stats.Total),
		zap.Int("converted", report.Stats.Converted),
		zap.Int("failed", report.Stats.Failed),
		zap.Int("local_attachments_skipped", report.Stats.LocalAttachmentsSkipped),
		zap.Int("warnings", len(report.Warnings)),
	)
}
