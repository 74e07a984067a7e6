package converter

import (
	"github.com/rotehq/notebridge/internal/model"
)

// ErrorKind classifies why a conversion stopped or why a record was
// dropped, so callers can branch without matching message strings.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidSchema
	KindMissingCollection
	KindNoCandidateRecords
	KindMultipleUsers
	KindRecordFieldMissing
	KindRecordMappingFailed
)

// Stats summarizes one batch conversion. Total counts records that
// entered per-record processing; structural failures keep it at zero.
type Stats struct {
	Total                   int `json:"total"`
	Converted               int `json:"converted"`
	Failed                  int `json:"failed"`
	LocalAttachmentsSkipped int `json:"localAttachmentsSkipped"`
}

// Report is the complete result of one conversion invocation and the
// only artifact handed onward. Warnings are non-fatal aggregate
// notices and never affect Success; only per-record errors do.
type Report struct {
	Success  bool              `json:"success"`
	Data     *model.RoteExport `json:"data,omitempty"`
	Errors   []string          `json:"errors"`
	Warnings []string          `json:"warnings"`
	Stats    Stats             `json:"stats"`

	// Kind is set for structural failures, KindNone otherwise.
	Kind ErrorKind `json:"-"`
	// Users carries the disambiguation candidates when Kind is
	// KindMultipleUsers.
	Users []model.UserRow `json:"users,omitempty"`
}

func structuralFailure(kind ErrorKind, msg string, failed int) *Report {
	return &Report{
		Success:  false,
		Kind:     kind,
		Errors:   []string{msg},
		Warnings: []string{},
		Stats:    Stats{Failed: failed},
	}
}
