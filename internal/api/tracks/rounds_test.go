package tracks

import (
	"errors"
	"testing"

	"cutroom/internal/domain/comments"
	"cutroom/internal/domain/tracks"
	"cutroom/internal/testutil"

	"gorm.io/gorm"
)

func seedRound(t *testing.T, tx *gorm.DB, projectID string, roundNumber int, steps []tracks.Step) *tracks.Track {
	t.Helper()
	round := &tracks.Track{
		ProjectID:   projectID,
		RoundNumber: roundNumber,
		Steps:       steps,
	}
	if err := tx.Create(round).Error; err != nil {
		t.Fatalf("seed round: %v", err)
	}
	return round
}

func seedComment(t *testing.T, tx *gorm.DB, trackID, projectID, body string, ts *float64) *comments.Comment {
	t.Helper()
	cm := &comments.Comment{
		TrackID:        trackID,
		ProjectID:      projectID,
		AnonName:       "Client",
		AnonKey:        "key",
		Body:           body,
		MediaTimestamp: ts,
	}
	if err := tx.Create(cm).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}
	return cm
}

func TestRoundOneEndToEnd(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "round-e2e@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)
	round := seedRound(t, tx, p.ID, 1, tracks.DefaultSteps())

	// steps must fall left to right
	if _, err := completeStep(tx, u.ID, round.ID, 1, ""); !errors.Is(err, tracks.ErrOutOfOrder) {
		t.Fatalf("out-of-order err = %v, want ErrOutOfOrder", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := completeStep(tx, u.ID, round.ID, i, ""); err != nil {
			t.Fatalf("complete step %d: %v", i, err)
		}
	}

	// Finish refuses without a deliverable
	if _, err := completeStep(tx, u.ID, round.ID, 3, ""); !errors.Is(err, tracks.ErrMissingDeliverable) {
		t.Fatalf("finish without link err = %v, want ErrMissingDeliverable", err)
	}
	if _, err := decide(tx, u.ID, round.ID, tracks.DecisionApproved); !errors.Is(err, tracks.ErrFinishIncomplete) {
		t.Fatalf("decide before finish err = %v, want ErrFinishIncomplete", err)
	}

	if _, err := completeStep(tx, u.ID, round.ID, 3, "https://wetransfer.example/final"); err != nil {
		t.Fatalf("complete finish: %v", err)
	}
	if _, err := decide(tx, u.ID, round.ID, tracks.DecisionApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// terminal: no edits, no second decision
	if _, err := completeStep(tx, u.ID, round.ID, 2, ""); !errors.Is(err, tracks.ErrRoundClosed) {
		t.Fatalf("complete after decision err = %v, want ErrRoundClosed", err)
	}
	if _, err := decide(tx, u.ID, round.ID, tracks.DecisionRevisionsRequested); !errors.Is(err, tracks.ErrAlreadyDecided) {
		t.Fatalf("second decision err = %v, want ErrAlreadyDecided", err)
	}
}

func TestRevertClearsFinishLink(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "round-revert@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)
	round := seedRound(t, tx, p.ID, 1, tracks.NewSteps([]string{"Edit"}))

	if _, err := completeStep(tx, u.ID, round.ID, 0, ""); err != nil {
		t.Fatalf("complete manual: %v", err)
	}
	if _, err := completeStep(tx, u.ID, round.ID, 1, "https://x/final"); err != nil {
		t.Fatalf("complete finish: %v", err)
	}

	// cannot revert the manual step while Finish is completed
	if _, err := revertStep(tx, u.ID, round.ID, 0); !errors.Is(err, tracks.ErrLaterStepsIncomplete) {
		t.Fatalf("revert under completed finish err = %v, want ErrLaterStepsIncomplete", err)
	}

	got, err := revertStep(tx, u.ID, round.ID, 1)
	if err != nil {
		t.Fatalf("revert finish: %v", err)
	}
	steps := []tracks.Step(got.Steps)
	if steps[1].Status != tracks.StepPending || steps[1].DeliverableLink != "" {
		t.Fatalf("finish should be pending with cleared link, got %+v", steps[1])
	}
}

func TestRevisionsRequestedSpawnsSeededRound(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	u := testutil.SeedUser(t, tx, "round-spawn@example.com")
	p := testutil.SeedProject(t, tx, u.ID, 1<<30)
	round := seedRound(t, tx, p.ID, 1, tracks.NewSteps([]string{"Edit"}))

	t5, t2 := 5.0, 2.0
	c1 := seedComment(t, tx, round.ID, p.ID, "Logo is too small", &t5)
	c2 := seedComment(t, tx, round.ID, p.ID, "Cut this scene", &t2)
	c3 := seedComment(t, tx, round.ID, p.ID, "Overall color feels cold", nil)

	if _, err := completeStep(tx, u.ID, round.ID, 0, ""); err != nil {
		t.Fatalf("complete manual: %v", err)
	}
	if _, err := completeStep(tx, u.ID, round.ID, 1, "https://x/v1"); err != nil {
		t.Fatalf("complete finish: %v", err)
	}

	next, err := decide(tx, u.ID, round.ID, tracks.DecisionRevisionsRequested)
	if err != nil {
		t.Fatalf("request revisions: %v", err)
	}
	if next.RoundNumber != 2 {
		t.Fatalf("next round number = %d, want 2", next.RoundNumber)
	}

	steps := []tracks.Step(next.Steps)
	if len(steps) != 4 {
		t.Fatalf("seeded steps = %d, want 3 comment steps + Finish", len(steps))
	}
	wantOrder := []string{c2.ID, c1.ID, c3.ID}
	for i, want := range wantOrder {
		if steps[i].Kind != tracks.KindComment || steps[i].CommentID != want {
			t.Fatalf("step %d = %+v, want comment %s", i, steps[i], want)
		}
	}
	if steps[3].Kind != tracks.KindFinish {
		t.Fatalf("last step should be Finish, got %+v", steps[3])
	}

	// seeding consumed the comments, but they stay on the old round as history
	var resolved int64
	if err := tx.Model(&comments.Comment{}).
		Where("track_id = ? AND resolved = ?", round.ID, true).
		Count(&resolved).Error; err != nil {
		t.Fatalf("count resolved: %v", err)
	}
	if resolved != 3 {
		t.Fatalf("resolved comments = %d, want 3", resolved)
	}
}
