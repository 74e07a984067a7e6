package job

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// UploadCleanupJob sweeps staged upload files that a crashed or
// abandoned request left behind. Normal requests remove their own
// staging file; this only catches orphans.
type UploadCleanupJob struct {
	dir    string
	prefix string
	maxAge time.Duration
}

func NewUploadCleanupJob(dir, prefix string, maxAge time.Duration) *UploadCleanupJob {
	return &UploadCleanupJob{dir: dir, prefix: prefix, maxAge: maxAge}
}

func (j *UploadCleanupJob) Name() string {
	return "upload_cleanup"
}

func (j *UploadCleanupJob) Run(ctx context.Context) error {
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	cutoff := time.Now().Add(-maxAge)

	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return err
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), j.prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(j.dir, entry.Name())); err != nil {
			logutil.GetLogger(ctx).Warn("remove stale upload failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		logutil.GetLogger(ctx).Info("stale uploads removed", zap.Int("count", removed))
	}
	return nil
}
