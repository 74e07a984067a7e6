package service

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/rotehq/notebridge/internal/converter"
)

const previewSampleLimit = 3

// Preview summarizes a conversion result for the confirmation screen
// before the operator downloads the export.
type Preview struct {
	NotesCount int             `json:"notes_count"`
	Tags       []string        `json:"tags"`
	TagsCount  int             `json:"tags_count"`
	Samples    []PreviewSample `json:"samples"`
}

type PreviewSample struct {
	State       string   `json:"state"`
	Tags        []string `json:"tags"`
	ContentHTML string   `json:"content_html"`
	Attachments int      `json:"attachments"`
}

// PreviewRenderer renders note bodies, which are Memos-flavored
// markdown, to HTML snippets.
type PreviewRenderer struct {
	md goldmark.Markdown
}

func NewPreviewRenderer() *PreviewRenderer {
	return &PreviewRenderer{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)}
}

func (r *PreviewRenderer) Render(markdown string) (string, error) {
	var out bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// BuildPreview collects tag statistics and renders the first few notes
// of a successful report. Render failures degrade to the raw text.
func (r *PreviewRenderer) BuildPreview(report *converter.Report) *Preview {
	preview := &Preview{Tags: []string{}, Samples: []PreviewSample{}}
	if report.Data == nil {
		return preview
	}
	preview.NotesCount = len(report.Data.Notes)

	seen := make(map[string]bool)
	for _, note := range report.Data.Notes {
		for _, tag := range note.Tags {
			key := strings.ToLower(tag)
			if seen[key] {
				continue
			}
			seen[key] = true
			preview.Tags = append(preview.Tags, tag)
		}
	}
	preview.TagsCount = len(preview.Tags)

	for _, note := range report.Data.Notes {
		if len(preview.Samples) >= previewSampleLimit {
			break
		}
		html, err := r.Render(note.Content)
		if err != nil {
			html = note.Content
		}
		preview.Samples = append(preview.Samples, PreviewSample{
			State:       note.State,
			Tags:        note.Tags,
			ContentHTML: html,
			Attachments: len(note.Attachments),
		})
	}
	return preview
}
