package dbfile

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func createExportDB(t *testing.T, withAttachmentTable bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memos.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	statements := []string{
		`CREATE TABLE user (
			id INTEGER PRIMARY KEY,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL,
			row_status TEXT NOT NULL,
			username TEXT NOT NULL,
			role TEXT NOT NULL,
			email TEXT,
			nickname TEXT,
			avatar_url TEXT,
			description TEXT
		)`,
		`CREATE TABLE memo (
			id INTEGER PRIMARY KEY,
			uid TEXT,
			creator_id INTEGER NOT NULL,
			created_ts BIGINT NOT NULL,
			updated_ts BIGINT NOT NULL,
			row_status TEXT NOT NULL,
			content TEXT NOT NULL,
			visibility TEXT NOT NULL,
			pinned INTEGER NOT NULL DEFAULT 0,
			payload TEXT
		)`,
		`INSERT INTO user VALUES (1, 1700000000, 1700000000, 'NORMAL', 'alice', 'HOST', 'a@example.com', 'Alice', NULL, NULL)`,
		`INSERT INTO memo VALUES (10, 'uid-10', 1, 1700000000, 1700000001, 'NORMAL', 'hello', 'PUBLIC', 1, '{"tags":["t1","t2"]}')`,
		`INSERT INTO memo VALUES (11, 'uid-11', 1, 1700000002, 1700000003, 'ARCHIVED', 'bye', 'PRIVATE', 0, NULL)`,
	}
	if withAttachmentTable {
		statements = append(statements,
			`CREATE TABLE attachment (
				id INTEGER PRIMARY KEY,
				uid TEXT,
				creator_id INTEGER NOT NULL,
				created_ts BIGINT NOT NULL,
				updated_ts BIGINT NOT NULL,
				filename TEXT NOT NULL,
				blob BLOB,
				type TEXT NOT NULL,
				size INTEGER NOT NULL,
				memo_id INTEGER,
				storage_type TEXT,
				reference TEXT,
				payload TEXT
			)`,
			`INSERT INTO attachment VALUES (1, 'att-1', 1, 1700000000, 1700000000, 'pic.png', NULL, 'image/png', 123, 10, 'S3', 'https://s.example.com/pic.png', NULL)`,
			`INSERT INTO attachment VALUES (2, 'att-2', 1, 1700000000, 1700000000, 'local.png', x'00', 'image/png', 5, 10, 'LOCAL', '', NULL)`,
		)
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func TestRead(t *testing.T) {
	src, err := Read(createExportDB(t, true))
	require.NoError(t, err)

	require.Len(t, src.Users, 1)
	require.Equal(t, "alice", src.Users[0].Username)
	require.Equal(t, "Alice", src.Users[0].Nickname)
	require.Empty(t, src.Users[0].AvatarURL)

	require.Len(t, src.Memos, 2)
	first := src.Memos[0]
	require.Equal(t, int64(10), first.ID)
	require.Equal(t, int64(1), first.CreatorID)
	require.True(t, first.Pinned)
	require.Equal(t, []string{"t1", "t2"}, first.Payload.Tags)
	require.Equal(t, "NORMAL", first.RowStatus)
	require.Empty(t, src.Memos[1].Payload.Tags)
	require.False(t, src.Memos[1].Pinned)

	require.Len(t, src.Attachments, 2)
	require.Equal(t, int64(10), src.Attachments[0].MemoID)
	require.Equal(t, "https://s.example.com/pic.png", src.Attachments[0].Reference)
	require.Equal(t, "LOCAL", src.Attachments[1].StorageType)
}

func TestRead_MissingTableDegradesToEmpty(t *testing.T) {
	src, err := Read(createExportDB(t, false))
	require.NoError(t, err)
	require.Len(t, src.Memos, 2)
	require.NotNil(t, src.Attachments)
	require.Empty(t, src.Attachments)
}

func TestRead_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not sqlite"), 0o600))
	_, err := Read(path)
	require.Error(t, err)
}
