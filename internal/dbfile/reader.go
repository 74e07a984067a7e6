// Package dbfile reads an uploaded Memos SQLite database into the
// relational payload shape. The file is opened read-only and treated
// as untrusted input: a missing table degrades to an empty collection
// instead of failing the whole read.
package dbfile

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/rotehq/notebridge/internal/model"
)

func Read(path string) (*model.DBSource, error) {
	db, err := sqlx.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro&immutable=1", path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	users, err := readUsers(db)
	if err != nil {
		return nil, err
	}
	memos, err := readMemos(db)
	if err != nil {
		return nil, err
	}
	attachments, err := readAttachments(db)
	if err != nil {
		return nil, err
	}
	return &model.DBSource{Users: users, Memos: memos, Attachments: attachments}, nil
}

type userScan struct {
	ID          int64          `db:"id"`
	CreatedTs   int64          `db:"created_ts"`
	UpdatedTs   int64          `db:"updated_ts"`
	RowStatus   sql.NullString `db:"row_status"`
	Username    sql.NullString `db:"username"`
	Role        sql.NullString `db:"role"`
	Email       sql.NullString `db:"email"`
	Nickname    sql.NullString `db:"nickname"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	Description sql.NullString `db:"description"`
}

func readUsers(db *sqlx.DB) ([]model.UserRow, error) {
	cols := []string{"id", "created_ts", "updated_ts", "row_status", "username", "role", "email", "nickname", "avatar_url", "description"}
	query, args, err := builder.BuildSelect("user", nil, cols)
	if err != nil {
		return nil, err
	}
	rows := make([]userScan, 0)
	if err := db.Select(&rows, query, args...); err != nil {
		if isMissingTable(err) {
			return []model.UserRow{}, nil
		}
		return nil, fmt.Errorf("read user table: %w", err)
	}
	users := make([]model.UserRow, 0, len(rows))
	for _, row := range rows {
		users = append(users, model.UserRow{
			ID:          row.ID,
			CreatedTs:   row.CreatedTs,
			UpdatedTs:   row.UpdatedTs,
			RowStatus:   row.RowStatus.String,
			Username:    row.Username.String,
			Role:        row.Role.String,
			Email:       row.Email.String,
			Nickname:    row.Nickname.String,
			AvatarURL:   row.AvatarURL.String,
			Description: row.Description.String,
		})
	}
	return users, nil
}

type memoScan struct {
	ID         int64          `db:"id"`
	UID        sql.NullString `db:"uid"`
	CreatorID  int64          `db:"creator_id"`
	CreatedTs  int64          `db:"created_ts"`
	UpdatedTs  int64          `db:"updated_ts"`
	RowStatus  sql.NullString `db:"row_status"`
	Content    sql.NullString `db:"content"`
	Visibility sql.NullString `db:"visibility"`
	Pinned     int64          `db:"pinned"`
	Payload    sql.NullString `db:"payload"`
}

func readMemos(db *sqlx.DB) ([]model.MemoRow, error) {
	cols := []string{"id", "uid", "creator_id", "created_ts", "updated_ts", "row_status", "content", "visibility", "pinned", "payload"}
	query, args, err := builder.BuildSelect("memo", nil, cols)
	if err != nil {
		return nil, err
	}
	rows := make([]memoScan, 0)
	if err := db.Select(&rows, query, args...); err != nil {
		if isMissingTable(err) {
			return []model.MemoRow{}, nil
		}
		return nil, fmt.Errorf("read memo table: %w", err)
	}
	memos := make([]model.MemoRow, 0, len(rows))
	for _, row := range rows {
		memos = append(memos, model.MemoRow{
			ID:         row.ID,
			UID:        row.UID.String,
			CreatorID:  row.CreatorID,
			CreatedTs:  row.CreatedTs,
			UpdatedTs:  row.UpdatedTs,
			RowStatus:  row.RowStatus.String,
			Content:    row.Content.String,
			Visibility: row.Visibility.String,
			Pinned:     row.Pinned != 0,
			Payload:    parsePayload(row.Payload),
		})
	}
	return memos, nil
}

// parsePayload extracts the tags list from the memo payload JSON
// column. Unparseable payloads yield no tags rather than an error.
func parsePayload(raw sql.NullString) model.MemoPayload {
	if !raw.Valid || raw.String == "" {
		return model.MemoPayload{}
	}
	var payload model.MemoPayload
	if err := json.Unmarshal([]byte(raw.String), &payload); err != nil {
		return model.MemoPayload{}
	}
	return payload
}

type attachmentScan struct {
	ID          int64          `db:"id"`
	UID         sql.NullString `db:"uid"`
	CreatorID   int64          `db:"creator_id"`
	CreatedTs   int64          `db:"created_ts"`
	UpdatedTs   int64          `db:"updated_ts"`
	Filename    sql.NullString `db:"filename"`
	Type        sql.NullString `db:"type"`
	Size        int64          `db:"size"`
	MemoID      sql.NullInt64  `db:"memo_id"`
	StorageType sql.NullString `db:"storage_type"`
	Reference   sql.NullString `db:"reference"`
}

func readAttachments(db *sqlx.DB) ([]model.AttachmentRow, error) {
	// blob column deliberately not selected; local binaries never
	// make it into the output.
	cols := []string{"id", "uid", "creator_id", "created_ts", "updated_ts", "filename", "type", "size", "memo_id", "storage_type", "reference"}
	query, args, err := builder.BuildSelect("attachment", nil, cols)
	if err != nil {
		return nil, err
	}
	rows := make([]attachmentScan, 0)
	if err := db.Select(&rows, query, args...); err != nil {
		if isMissingTable(err) {
			return []model.AttachmentRow{}, nil
		}
		return nil, fmt.Errorf("read attachment table: %w", err)
	}
	attachments := make([]model.AttachmentRow, 0, len(rows))
	for _, row := range rows {
		attachments = append(attachments, model.AttachmentRow{
			ID:          row.ID,
			UID:         row.UID.String,
			CreatorID:   row.CreatorID,
			CreatedTs:   row.CreatedTs,
			UpdatedTs:   row.UpdatedTs,
			Filename:    row.Filename.String,
			Type:        row.Type.String,
			Size:        row.Size,
			MemoID:      row.MemoID.Int64,
			StorageType: row.StorageType.String,
			Reference:   row.Reference.String,
		})
	}
	return attachments, nil
}

func isMissingTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}
