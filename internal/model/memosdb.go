package model

// Row types for the Memos SQLite export. Timestamps are epoch seconds,
// matching the upstream schema. The attachment blob column is never
// read: local binaries cannot be carried into the output anyway.

type UserRow struct {
	ID          int64  `db:"id" json:"id"`
	CreatedTs   int64  `db:"created_ts" json:"created_ts"`
	UpdatedTs   int64  `db:"updated_ts" json:"updated_ts"`
	RowStatus   string `db:"row_status" json:"row_status"`
	Username    string `db:"username" json:"username"`
	Role        string `db:"role" json:"role"`
	Email       string `db:"email" json:"email"`
	Nickname    string `db:"nickname" json:"nickname"`
	AvatarURL   string `db:"avatar_url" json:"avatar_url"`
	Description string `db:"description" json:"description"`
}

type MemoRow struct {
	ID         int64       `json:"id"`
	UID        string      `json:"uid"`
	CreatorID  int64       `json:"creator_id"`
	CreatedTs  int64       `json:"created_ts"`
	UpdatedTs  int64       `json:"updated_ts"`
	RowStatus  string      `json:"row_status"`
	Content    string      `json:"content"`
	Visibility string      `json:"visibility"`
	Pinned     bool        `json:"pinned"`
	Payload    MemoPayload `json:"payload"`
}

// MemoPayload is the memo row's auxiliary payload object. Only the
// tags list matters for conversion.
type MemoPayload struct {
	Tags []string `json:"tags"`
}

type AttachmentRow struct {
	ID          int64  `json:"id"`
	UID         string `json:"uid"`
	CreatorID   int64  `json:"creator_id"`
	CreatedTs   int64  `json:"created_ts"`
	UpdatedTs   int64  `json:"updated_ts"`
	Filename    string `json:"filename"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	MemoID      int64  `json:"memo_id"`
	StorageType string `json:"storage_type"`
	Reference   string `json:"reference"`
}

// DBSource is the relational-export payload shape. An AttachmentRow
// belongs to exactly one MemoRow via MemoID; a MemoRow belongs to
// exactly one UserRow via CreatorID.
type DBSource struct {
	Users       []UserRow       `json:"users"`
	Memos       []MemoRow       `json:"memos"`
	Attachments []AttachmentRow `json:"attachments"`
}
