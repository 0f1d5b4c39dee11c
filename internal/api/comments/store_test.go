package comments

import (
	"errors"
	"testing"

	"cutroom/internal/domain/comments"
	"cutroom/internal/domain/tracks"
	"cutroom/internal/testutil"

	"gorm.io/gorm"
)

func seedRound(t *testing.T, tx *gorm.DB, projectID, decision string) *tracks.Track {
	t.Helper()
	round := tracks.Track{
		ProjectID:      projectID,
		RoundNumber:    1,
		Steps:          tracks.DefaultSteps(),
		ClientDecision: decision,
	}
	if err := tx.Create(&round).Error; err != nil {
		t.Fatalf("seed round: %v", err)
	}
	return &round
}

func TestAddCommentRejectsDecidedRound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "comments-decided@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)
	round := seedRound(t, tx, p.ID, tracks.DecisionApproved)

	_, err := addComment(tx, u.ID, AddCommentRequest{TrackID: round.ID, Body: "too late"})
	if !errors.Is(err, tracks.ErrRoundClosed) {
		t.Fatalf("err = %v, want ErrRoundClosed", err)
	}

	var count int64
	if err := tx.Model(&comments.Comment{}).Where("track_id = ?", round.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("comment rows = %d after rejection, want 0", count)
	}
}

func TestAddCommentOnOpenRound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "comments-open@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)
	round := seedRound(t, tx, p.ID, tracks.DecisionPending)

	ts := 3.5
	cm, err := addComment(tx, u.ID, AddCommentRequest{
		TrackID:        round.ID,
		Body:           "tighten the intro, see https://example.com/ref",
		MediaTimestamp: &ts,
	})
	if err != nil {
		t.Fatalf("addComment: %v", err)
	}
	if cm.AuthorUserID == nil || *cm.AuthorUserID != u.ID {
		t.Fatalf("comment should carry the author id, got %+v", cm)
	}
	if len(cm.Links) != 1 {
		t.Fatalf("body link should be extracted, got %v", cm.Links)
	}
}

func TestAddCommentRejectsForeignProject(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	owner := testutil.SeedUser(t, tx, "comments-owner@example.com")
	stranger := testutil.SeedUser(t, tx, "comments-stranger@example.com")
	p := testutil.SeedProject(t, tx, owner.ID, 1<<30)
	round := seedRound(t, tx, p.ID, tracks.DecisionPending)

	_, err := addComment(tx, stranger.ID, AddCommentRequest{TrackID: round.ID, Body: "hi"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want ErrRecordNotFound", err)
	}
}

func TestEditAndDeleteGateOnDecidedRound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "comments-edit@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)
	round := seedRound(t, tx, p.ID, tracks.DecisionPending)

	cm, err := addComment(tx, u.ID, AddCommentRequest{TrackID: round.ID, Body: "v1"})
	if err != nil {
		t.Fatalf("addComment: %v", err)
	}

	if _, err := editComment(tx, cm.ID, u.ID, EditCommentRequest{Body: "v2"}); err != nil {
		t.Fatalf("edit while open: %v", err)
	}

	if err := tx.Model(&tracks.Track{}).Where("id = ?", round.ID).
		Update("client_decision", tracks.DecisionApproved).Error; err != nil {
		t.Fatalf("decide round: %v", err)
	}

	if _, err := editComment(tx, cm.ID, u.ID, EditCommentRequest{Body: "v3"}); !errors.Is(err, tracks.ErrRoundClosed) {
		t.Fatalf("edit after decision err = %v, want ErrRoundClosed", err)
	}
	if err := deleteComment(tx, cm.ID, u.ID, ""); !errors.Is(err, tracks.ErrRoundClosed) {
		t.Fatalf("delete after decision err = %v, want ErrRoundClosed", err)
	}

	var got comments.Comment
	if err := tx.First(&got, "id = ?", cm.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Body != "v2" {
		t.Fatalf("body = %q, want the pre-decision edit to stand", got.Body)
	}
}

func TestEditRejectsNonAuthor(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "comments-author@example.com")
	other := testutil.SeedUser(t, tx, "comments-other@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)
	round := seedRound(t, tx, p.ID, tracks.DecisionPending)

	cm, err := addComment(tx, u.ID, AddCommentRequest{TrackID: round.ID, Body: "mine"})
	if err != nil {
		t.Fatalf("addComment: %v", err)
	}
	if _, err := editComment(tx, cm.ID, other.ID, EditCommentRequest{Body: "theirs"}); !errors.Is(err, errNotAuthor) {
		t.Fatalf("err = %v, want errNotAuthor", err)
	}
}
