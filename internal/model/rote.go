package model

// RoteNote is one normalized note in the target schema. Field names
// and casing follow the Rote import format exactly.
type RoteNote struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Type        string           `json:"type"`
	Tags        []string         `json:"tags"`
	Content     string           `json:"content"`
	State       string           `json:"state"`
	Archived    bool             `json:"archived"`
	AuthorID    string           `json:"authorid"`
	ArticleID   *string          `json:"articleId"`
	Pin         bool             `json:"pin"`
	Editor      string           `json:"editor"`
	CreatedAt   string           `json:"createdAt"`
	UpdatedAt   string           `json:"updatedAt"`
	Author      RoteAuthor       `json:"author"`
	Attachments []RoteAttachment `json:"attachments"`
	Reactions   []interface{}    `json:"reactions"`
}

const (
	NoteType   = "Rote"
	NoteEditor = "normal"
)

// Note visibility states in the target schema.
const (
	StatePublic    = "public"
	StatePrivate   = "private"
	StateProtected = "protected"
)

type RoteAuthor struct {
	Username string  `json:"username"`
	Nickname string  `json:"nickname"`
	Avatar   *string `json:"avatar"`
}

// RoteAttachment references a remotely stored file. The owner and note
// back-references are left empty for the destination system to fill in
// on import. No compression is performed: the compress URL and key
// mirror the primary reference.
type RoteAttachment struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	CompressURL string            `json:"compressUrl"`
	UserID      string            `json:"userid"`
	RoteID      string            `json:"roteid"`
	Storage     string            `json:"storage"`
	Details     AttachmentDetails `json:"details"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
	SortIndex   int               `json:"sortIndex"`
}

const StorageRemote = "REMOTE"

type AttachmentDetails struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	MTime       string `json:"mtime"`
	MimeType    string `json:"mimetype"`
	CompressKey string `json:"compressKey"`
}

const DefaultMimeType = "application/octet-stream"

// RoteExport is the downloadable output document.
type RoteExport struct {
	Notes []RoteNote `json:"notes"`
}
