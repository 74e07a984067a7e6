package converter

import (
	"regexp"

	"github.com/google/uuid"

	"github.com/rotehq/notebridge/internal/model"
)

var creatorIDPattern = regexp.MustCompile(`users/(\d+)`)

// extractAuthorID pulls the numeric id out of a "users/<id>" creator
// reference. When the reference does not match, a fresh random id is
// used as a last-resort placeholder; it correlates with no real user,
// so the caller surfaces a warning for that record.
func extractAuthorID(creator string) (id string, parsed bool) {
	match := creatorIDPattern.FindStringSubmatch(creator)
	if match == nil {
		return uuid.NewString(), false
	}
	return match[1], true
}

// mapJSONMemo converts one JSON-export record. The JSON export has no
// user registry, so the author snapshot is synthesized from the id.
func mapJSONMemo(memo model.Memo) (note model.RoteNote, skippedLocal int, authorParsed bool) {
	attachments, skippedLocal := normalizeJSONAttachments(memo.Attachments)
	authorID, authorParsed := extractAuthorID(memo.Creator)
	note = model.RoteNote{
		ID:        uuid.NewString(),
		Title:     "",
		Type:      model.NoteType,
		Tags:      ensureTags(memo.Tags),
		Content:   memo.Content,
		State:     mapVisibility(memo.Visibility),
		Archived:  memo.State != rowStatusNormal,
		AuthorID:  authorID,
		ArticleID: nil,
		Pin:       memo.Pinned,
		Editor:    model.NoteEditor,
		CreatedAt: memo.CreateTime,
		UpdatedAt: memo.UpdateTime,
		Author: model.RoteAuthor{
			Username: "user_" + authorID,
			Nickname: "User " + authorID,
			Avatar:   nil,
		},
		Attachments: attachments,
		Reactions:   []interface{}{},
	}
	return note, skippedLocal, authorParsed
}
