package converter

import (
	"bytes"
	"encoding/json"
)

// Schema identifies which source shape a payload conforms to.
type Schema int

const (
	SchemaUnknown Schema = iota
	// SchemaJSON is the flat JSON export: self-contained memo records.
	SchemaJSON
	// SchemaDB is the relational export: user/memo/attachment tables.
	SchemaDB
)

type schemaProbe struct {
	Users json.RawMessage `json:"users"`
	Memos json.RawMessage `json:"memos"`
}

// DetectSchema classifies a raw payload. The relational check runs
// first: a relational payload also satisfies the looser JSON-export
// predicate, so the order must not be swapped.
func DetectSchema(raw []byte) Schema {
	var probe schemaProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return SchemaUnknown
	}
	switch {
	case isJSONArray(probe.Users) && isJSONArray(probe.Memos):
		return SchemaDB
	case isJSONArray(probe.Memos):
		return SchemaJSON
	default:
		return SchemaUnknown
	}
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
