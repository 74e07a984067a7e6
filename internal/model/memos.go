package model

// Memo is a single record from a Memos JSON export, as returned by
// GET /api/v1/memos. Fields the conversion does not carry over
// (relations, reactions, property flags) are not decoded.
type Memo struct {
	Name        string           `json:"name"`
	State       string           `json:"state"`
	Creator     string           `json:"creator"`
	CreateTime  string           `json:"createTime"`
	UpdateTime  string           `json:"updateTime"`
	DisplayTime string           `json:"displayTime"`
	Content     string           `json:"content"`
	Visibility  string           `json:"visibility"`
	Tags        []string         `json:"tags"`
	Pinned      bool             `json:"pinned"`
	Attachments []MemoAttachment `json:"attachments"`
	Snippet     string           `json:"snippet"`
}

// MemoAttachment is an attachment descriptor from the JSON export.
// Memos has shipped several shapes over time, so every field is
// optional; defaults are applied once during normalization.
type MemoAttachment struct {
	Name         string `json:"name"`
	Filename     string `json:"filename"`
	ExternalLink string `json:"externalLink"`
	URL          string `json:"url"`
	Type         string `json:"type"`
	MimeType     string `json:"mimetype"`
	Size         int64  `json:"size"`
}

// RemoteURL returns the first usable remote reference, or "" when the
// attachment only exists on the source instance's own storage.
func (a MemoAttachment) RemoteURL() string {
	if a.ExternalLink != "" {
		return a.ExternalLink
	}
	return a.URL
}

// MemoSource is the JSON-export payload shape: one page of the memos
// API, or all pages concatenated with an empty nextPageToken.
type MemoSource struct {
	Memos         []Memo `json:"memos"`
	NextPageToken string `json:"nextPageToken"`
}
