// Package converter maps Memos export records, in either of the two
// supported source shapes, into the Rote note schema. Conversion is a
// pure in-memory function of its input: nothing persists between
// invocations except the fresh ids handed out per record.
package converter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotehq/notebridge/internal/model"
)

const rowStatusNormal = "NORMAL"

// Structural failure and warning texts. These are user-facing; callers
// that need to branch use Report.Kind instead.
const (
	msgInvalidFormat   = "Invalid data format"
	msgNoMemoData      = "No memo data found in database"
	msgNoUserData      = "No user data found in database"
	msgNoMemosToConv   = "No memo data to convert found"
	msgMultipleUsers   = "Multiple users found in database, select one user to convert"
	fmtMissingField    = "Memo %d missing required field: content or visibility"
	fmtRecordFailed    = "Memo %d conversion failed: %v"
	fmtWarnLocalSkip   = "Detected %d locally stored attachments skipped because Rote does not support local storage."
	fmtWarnEmptyNote   = "Detected %d records with no attachments and empty content, their content has been discarded."
	fmtWarnSynthAuthor = "Detected %d records whose creator reference could not be parsed; a synthetic author id was generated."
)

// Convert dispatches an arbitrary payload to the matching pipeline.
// selectedUserID only applies to the relational shape; pass nil to let
// the multi-user gate decide.
func Convert(raw []byte, selectedUserID *int64) *Report {
	switch DetectSchema(raw) {
	case SchemaDB:
		var src model.DBSource
		if err := json.Unmarshal(raw, &src); err != nil {
			return structuralFailure(KindInvalidSchema, msgInvalidFormat, 1)
		}
		return ConvertDB(&src, selectedUserID)
	case SchemaJSON:
		var src model.MemoSource
		if err := json.Unmarshal(raw, &src); err != nil {
			return structuralFailure(KindInvalidSchema, msgInvalidFormat, 1)
		}
		return ConvertJSON(&src)
	default:
		return structuralFailure(KindInvalidSchema, msgInvalidFormat, 1)
	}
}

// ConvertJSON converts a JSON-export payload. One bad record never
// aborts the batch: its error is recorded and the rest continue.
func ConvertJSON(src *model.MemoSource) *Report {
	errs := make([]string, 0)
	notes := make([]model.RoteNote, 0, len(src.Memos))
	localSkipped := 0
	emptyCleared := 0
	synthAuthors := 0

	for i, memo := range src.Memos {
		note, skipped, authorParsed, err := safeMapJSON(memo)
		if err != nil {
			errs = append(errs, fmt.Sprintf(fmtRecordFailed, i+1, err))
			continue
		}
		if !authorParsed {
			synthAuthors++
		}
		if clearEmptyContent(&note) {
			emptyCleared++
		}
		notes = append(notes, note)
		localSkipped += skipped
	}

	warnings := aggregateWarnings(localSkipped, emptyCleared, synthAuthors)
	return &Report{
		Success:  len(errs) == 0,
		Data:     &model.RoteExport{Notes: notes},
		Errors:   errs,
		Warnings: warnings,
		Stats: Stats{
			Total:                   len(src.Memos),
			Converted:               len(notes),
			Failed:                  len(errs),
			LocalAttachmentsSkipped: localSkipped,
		},
	}
}

// ConvertDB converts a relational-export payload. Validation order:
// memos collection, users collection, then attachments (which degrade
// to empty), then the multi-user gate, then the candidate filter.
func ConvertDB(src *model.DBSource, selectedUserID *int64) *Report {
	if src.Memos == nil {
		return structuralFailure(KindMissingCollection, msgNoMemoData, 0)
	}
	if src.Users == nil {
		return structuralFailure(KindMissingCollection, msgNoUserData, 0)
	}
	if src.Attachments == nil {
		src.Attachments = []model.AttachmentRow{}
	}

	if selectedUserID == nil {
		if candidates := CandidateUsers(src); len(candidates) > 1 {
			report := structuralFailure(KindMultipleUsers, msgMultipleUsers, 0)
			report.Users = candidates
			return report
		}
	}

	filtered := src.Memos
	if selectedUserID != nil {
		filtered = make([]model.MemoRow, 0, len(src.Memos))
		for _, memo := range src.Memos {
			if memo.CreatorID == *selectedUserID {
				filtered = append(filtered, memo)
			}
		}
	}
	if len(filtered) == 0 {
		return structuralFailure(KindNoCandidateRecords, msgNoMemosToConv, 0)
	}

	errs := make([]string, 0)
	notes := make([]model.RoteNote, 0, len(filtered))
	localSkipped := 0
	emptyCleared := 0

	for i, memo := range filtered {
		if memo.Content == "" || memo.Visibility == "" {
			errs = append(errs, fmt.Sprintf(fmtMissingField, i+1))
			continue
		}
		note, skipped, err := safeMapDB(memo, src.Users, src.Attachments)
		if err != nil {
			errs = append(errs, fmt.Sprintf(fmtRecordFailed, i+1, err))
			continue
		}
		localSkipped += skipped
		if clearEmptyContent(&note) {
			emptyCleared++
		}
		notes = append(notes, note)
	}

	warnings := aggregateWarnings(localSkipped, emptyCleared, 0)
	return &Report{
		Success:  len(errs) == 0,
		Data:     &model.RoteExport{Notes: notes},
		Errors:   errs,
		Warnings: warnings,
		Stats: Stats{
			Total:                   len(filtered),
			Converted:               len(notes),
			Failed:                  len(errs),
			LocalAttachmentsSkipped: localSkipped,
		},
	}
}

// The record mappers never fail today, but the batch contract is that
// one bad record must not abort the rest, so mapping runs behind a
// recover that turns a panic into that record's error.

func safeMapJSON(memo model.Memo) (note model.RoteNote, skipped int, authorParsed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	note, skipped, authorParsed = mapJSONMemo(memo)
	return note, skipped, authorParsed, nil
}

func safeMapDB(memo model.MemoRow, users []model.UserRow, attachments []model.AttachmentRow) (note model.RoteNote, skipped int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	note, skipped = mapDBMemo(memo, users, attachments)
	return note, skipped, nil
}

// clearEmptyContent discards whitespace-only content when no
// attachments survived, reporting whether it did. The target format
// rejects notes that are empty in both respects; the aggregate warning
// is the operator's signal that content was dropped.
func clearEmptyContent(note *model.RoteNote) bool {
	if len(note.Attachments) == 0 && strings.TrimSpace(note.Content) == "" {
		note.Content = ""
		return true
	}
	return false
}

func aggregateWarnings(localSkipped, emptyCleared, synthAuthors int) []string {
	warnings := make([]string, 0, 3)
	if localSkipped > 0 {
		warnings = append(warnings, fmt.Sprintf(fmtWarnLocalSkip, localSkipped))
	}
	if emptyCleared > 0 {
		warnings = append(warnings, fmt.Sprintf(fmtWarnEmptyNote, emptyCleared))
	}
	if synthAuthors > 0 {
		warnings = append(warnings, fmt.Sprintf(fmtWarnSynthAuthor, synthAuthors))
	}
	return warnings
}

func mapVisibility(visibility string) string {
	switch strings.ToUpper(visibility) {
	case "PUBLIC":
		return model.StatePublic
	case "PRIVATE":
		return model.StatePrivate
	case "PROTECTED":
		return model.StateProtected
	default:
		return model.StatePrivate
	}
}

// ensureTags keeps the output schema's tags field a list even when the
// source omitted it.
func ensureTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
