package tracks

import (
	"errors"
	"strings"
	"testing"
	"time"

	"cutroom/internal/domain/comments"
)

func TestNewSteps_AppendsFinish(t *testing.T) {
	steps := NewSteps([]string{"Get Clips", " ", "Color"})
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps (blank skipped), got %d", len(steps))
	}
	last := steps[len(steps)-1]
	if last.Kind != KindFinish || last.Name != "Finish" || last.Status != StepPending {
		t.Fatalf("expected terminal Finish step, got %+v", last)
	}
}

func TestCanComplete_Ordering(t *testing.T) {
	steps := DefaultSteps()

	if err := CanComplete(steps, 1, ""); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
	if err := CanComplete(steps, 0, ""); err != nil {
		t.Fatalf("first step should be completable: %v", err)
	}

	steps[0].Status = StepCompleted
	if err := CanComplete(steps, 1, ""); err != nil {
		t.Fatalf("second step should be completable after first: %v", err)
	}

	if err := CanComplete(steps, 9, ""); !errors.Is(err, ErrStepNotFound) {
		t.Fatalf("expected ErrStepNotFound, got %v", err)
	}
}

func TestCanComplete_FinishRequiresDeliverable(t *testing.T) {
	steps := DefaultSteps()
	for i := range steps[:len(steps)-1] {
		steps[i].Status = StepCompleted
	}
	finish := len(steps) - 1

	if err := CanComplete(steps, finish, "  "); !errors.Is(err, ErrMissingDeliverable) {
		t.Fatalf("expected ErrMissingDeliverable, got %v", err)
	}
	if err := CanComplete(steps, finish, "https://example.com/v1"); err != nil {
		t.Fatalf("finish with link should pass: %v", err)
	}
}

func TestCanRevert(t *testing.T) {
	steps := DefaultSteps()
	steps[0].Status = StepCompleted
	steps[1].Status = StepCompleted

	if err := CanRevert(steps, 0); !errors.Is(err, ErrLaterStepsIncomplete) {
		t.Fatalf("expected ErrLaterStepsIncomplete, got %v", err)
	}
	if err := CanRevert(steps, 1); err != nil {
		t.Fatalf("last completed step should be revertible: %v", err)
	}
}

func TestFinished(t *testing.T) {
	steps := DefaultSteps()
	if Finished(steps) {
		t.Fatalf("fresh round must not be finished")
	}
	steps[len(steps)-1].Status = StepCompleted
	if !Finished(steps) {
		t.Fatalf("expected finished after Finish completed")
	}
}

func TestSeedFromComments_Ordering(t *testing.T) {
	t5, t2 := 5.0, 2.0
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	comms := []comments.Comment{
		{ID: "c1", Body: "tighten the intro", MediaTimestamp: &t5, CreatedAt: base},
		{ID: "c2", Body: "fix color on the wide shot", MediaTimestamp: &t2, CreatedAt: base.Add(time.Minute)},
		{ID: "c3", Body: "general pacing note", CreatedAt: base.Add(2 * time.Minute)},
	}

	steps := SeedFromComments(comms)
	if len(steps) != 4 {
		t.Fatalf("expected 3 comment steps + Finish, got %d", len(steps))
	}
	wantOrder := []string{"c2", "c1", "c3"}
	for i, want := range wantOrder {
		if steps[i].Kind != KindComment || steps[i].CommentID != want {
			t.Fatalf("step %d: expected comment %s, got %+v", i, want, steps[i])
		}
		if steps[i].Status != StepPending {
			t.Fatalf("seeded steps must be pending")
		}
	}
	if steps[3].Kind != KindFinish {
		t.Fatalf("expected terminal Finish step")
	}
}

func TestSeedFromComments_TruncatesNames(t *testing.T) {
	long := strings.Repeat("a", 200)
	steps := SeedFromComments([]comments.Comment{{ID: "c1", Body: long}})
	name := steps[0].Name
	if len([]rune(name)) > stepNameLimit+1 {
		t.Fatalf("name not truncated: %d runes", len([]rune(name)))
	}
	if !strings.HasSuffix(name, "…") {
		t.Fatalf("expected ellipsis suffix, got %q", name)
	}
}
