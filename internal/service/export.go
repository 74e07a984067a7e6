package service

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rotehq/notebridge/internal/model"
)

// ExportDocument serializes converted notes into the downloadable
// document: pretty-printed JSON named export-<date>.json.
func ExportDocument(export *model.RoteExport) (fileName string, content []byte, err error) {
	content, err = json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("encode export: %w", err)
	}
	fileName = fmt.Sprintf("export-%s.json", time.Now().UTC().Format("2006-01-02"))
	return fileName, content, nil
}

const UploadPrefix = "notebridge-upload-"

// SaveTempFile stages an uploaded database under dir so the reader can
// open it by path. The caller removes it when done; the cleanup job
// catches anything left behind.
func SaveTempFile(dir string, reader io.Reader) (string, error) {
	tmp, err := os.CreateTemp(dir, UploadPrefix+"*.db")
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := io.Copy(tmp, reader); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
