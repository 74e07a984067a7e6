package converter

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/rotehq/notebridge/internal/model"
)

// CandidateUsers returns the users that authored at least one memo row
// in the payload, in users-collection order. This is the set the
// operator picks from when the export contains several authors. A
// creator id with no matching user row yields a synthesized entry so
// its memos stay selectable.
func CandidateUsers(src *model.DBSource) []model.UserRow {
	creators := make(map[int64]bool, len(src.Memos))
	for _, memo := range src.Memos {
		creators[memo.CreatorID] = true
	}
	candidates := make([]model.UserRow, 0, len(creators))
	for _, user := range src.Users {
		if creators[user.ID] {
			candidates = append(candidates, user)
			delete(creators, user.ID)
		}
	}
	for _, memo := range src.Memos {
		if !creators[memo.CreatorID] {
			continue
		}
		delete(creators, memo.CreatorID)
		candidates = append(candidates, synthesizeUser(memo.CreatorID))
	}
	return candidates
}

func synthesizeUser(id int64) model.UserRow {
	return model.UserRow{
		ID:       id,
		Username: "user_" + strconv.FormatInt(id, 10),
		Nickname: "User " + strconv.FormatInt(id, 10),
	}
}

// lookupAuthor resolves a memo's creator against the users collection,
// falling back to a synthesized snapshot when the row is absent.
func lookupAuthor(users []model.UserRow, creatorID int64) model.RoteAuthor {
	for _, user := range users {
		if user.ID != creatorID {
			continue
		}
		author := model.RoteAuthor{Username: user.Username, Nickname: user.Nickname}
		if author.Username == "" {
			author.Username = "user_" + strconv.FormatInt(creatorID, 10)
		}
		if author.Nickname == "" {
			author.Nickname = "User " + strconv.FormatInt(creatorID, 10)
		}
		if user.AvatarURL != "" {
			avatar := user.AvatarURL
			author.Avatar = &avatar
		}
		return author
	}
	return model.RoteAuthor{
		Username: "user_" + strconv.FormatInt(creatorID, 10),
		Nickname: "User " + strconv.FormatInt(creatorID, 10),
	}
}

// mapDBMemo converts one relational memo row together with its
// attachment rows. Content and visibility presence is checked by the
// batch loop before this runs.
func mapDBMemo(memo model.MemoRow, users []model.UserRow, attachments []model.AttachmentRow) (model.RoteNote, int) {
	memoAttachments := make([]model.AttachmentRow, 0)
	for _, att := range attachments {
		if att.MemoID == memo.ID {
			memoAttachments = append(memoAttachments, att)
		}
	}
	converted, skipped := normalizeDBAttachments(memoAttachments)
	note := model.RoteNote{
		ID:          uuid.NewString(),
		Title:       "",
		Type:        model.NoteType,
		Tags:        ensureTags(memo.Payload.Tags),
		Content:     memo.Content,
		State:       mapVisibility(memo.Visibility),
		Archived:    memo.RowStatus != rowStatusNormal,
		AuthorID:    strconv.FormatInt(memo.CreatorID, 10),
		ArticleID:   nil,
		Pin:         memo.Pinned,
		Editor:      model.NoteEditor,
		CreatedAt:   formatEpochSeconds(memo.CreatedTs),
		UpdatedAt:   formatEpochSeconds(memo.UpdatedTs),
		Author:      lookupAuthor(users, memo.CreatorID),
		Attachments: converted,
		Reactions:   []interface{}{},
	}
	return note, skipped
}
