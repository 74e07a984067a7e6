package service

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/rotehq/notebridge/internal/model"
)

func TestExportDocument(t *testing.T) {
	export := &model.RoteExport{Notes: []model.RoteNote{{
		ID:          "abc",
		Type:        model.NoteType,
		Tags:        []string{"a"},
		Content:     "hello",
		State:       model.StatePrivate,
		Editor:      model.NoteEditor,
		Attachments: []model.RoteAttachment{},
		Reactions:   []interface{}{},
	}}}

	name, content, err := ExportDocument(export)
	if err != nil {
		t.Fatalf("ExportDocument() error = %v", err)
	}
	if ok, _ := regexp.MatchString(`^export-\d{4}-\d{2}-\d{2}\.json$`, name); !ok {
		t.Errorf("unexpected file name %q", name)
	}
	if !bytes.Contains(content, []byte("\n  ")) {
		t.Error("export content is not pretty-printed")
	}

	var decoded model.RoteExport
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("export content is not valid JSON: %v", err)
	}
	if len(decoded.Notes) != 1 || decoded.Notes[0].Content != "hello" {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
}

func TestSaveTempFile(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveTempFile(dir, strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("SaveTempFile() error = %v", err)
	}
	if !strings.Contains(path, UploadPrefix) {
		t.Errorf("staged file %q missing upload prefix", path)
	}
	if !strings.HasSuffix(path, ".db") {
		t.Errorf("staged file %q missing .db suffix", path)
	}
}
