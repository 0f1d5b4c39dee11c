package tracks

import (
	"errors"
	"sort"
	"strings"

	"cutroom/internal/domain/comments"
)

const (
	StepPending   = "pending"
	StepCompleted = "completed"

	// Step kinds form a closed set; every switch over Kind handles all
	// three and treats anything else as data corruption.
	KindManual  = "manual"
	KindComment = "comment"
	KindFinish  = "finish"
)

const stepNameLimit = 60

var (
	ErrStepNotFound         = errors.New("step does not exist")
	ErrOutOfOrder           = errors.New("complete previous steps first")
	ErrLaterStepsIncomplete = errors.New("revert later steps first")
	ErrMissingDeliverable   = errors.New("the Finish step requires a deliverable link")
	ErrRoundClosed          = errors.New("client has already decided this round")
	ErrAlreadyDecided       = errors.New("client has already decided this round")
	ErrFinishIncomplete     = errors.New("complete the Finish step before requesting a decision")
)

// Step is one named unit of work inside a round. DeliverableLink is only
// meaningful on the finish step; CommentID only on comment-derived steps.
type Step struct {
	Kind            string `json:"kind"`
	Name            string `json:"name"`
	Status          string `json:"status"`
	DeliverableLink string `json:"deliverable_link,omitempty"`
	CommentID       string `json:"comment_id,omitempty"`
}

// NewSteps builds a round from manual step names plus the terminal Finish
// step. Empty names are skipped.
func NewSteps(names []string) []Step {
	steps := make([]Step, 0, len(names)+1)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		steps = append(steps, Step{Kind: KindManual, Name: name, Status: StepPending})
	}
	steps = append(steps, Step{Kind: KindFinish, Name: "Finish", Status: StepPending})
	return steps
}

func DefaultSteps() []Step {
	return NewSteps([]string{"Get Clips", "Edit/Cut", "Color"})
}

// CanComplete enforces strict left-to-right completion and the Finish
// deliverable requirement.
func CanComplete(steps []Step, idx int, deliverableLink string) error {
	if idx < 0 || idx >= len(steps) {
		return ErrStepNotFound
	}
	for j := 0; j < idx; j++ {
		if steps[j].Status != StepCompleted {
			return ErrOutOfOrder
		}
	}
	if steps[idx].Kind == KindFinish && strings.TrimSpace(deliverableLink) == "" {
		return ErrMissingDeliverable
	}
	return nil
}

// CanRevert rejects reverting a step while any later step is completed.
func CanRevert(steps []Step, idx int) error {
	if idx < 0 || idx >= len(steps) {
		return ErrStepNotFound
	}
	for j := idx + 1; j < len(steps); j++ {
		if steps[j].Status == StepCompleted {
			return ErrLaterStepsIncomplete
		}
	}
	return nil
}

// Finished reports whether the terminal Finish step has been completed,
// which is the precondition for a client decision.
func Finished(steps []Step) bool {
	for _, s := range steps {
		if s.Kind == KindFinish {
			return s.Status == StepCompleted
		}
	}
	return false
}

// SeedFromComments derives the next round's steps from the unresolved
// feedback of the closed round: one step per comment ordered by media
// timestamp ascending, comments without a timestamp last in creation
// order, plus the appended Finish step.
func SeedFromComments(comms []comments.Comment) []Step {
	ordered := make([]comments.Comment, len(comms))
	copy(ordered, comms)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].MediaTimestamp, ordered[j].MediaTimestamp
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
	})

	steps := make([]Step, 0, len(ordered)+1)
	for _, cm := range ordered {
		steps = append(steps, Step{
			Kind:      KindComment,
			Name:      truncateName(cm.Body),
			Status:    StepPending,
			CommentID: cm.ID,
		})
	}
	steps = append(steps, Step{Kind: KindFinish, Name: "Finish", Status: StepPending})
	return steps
}

func truncateName(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return "Revision"
	}
	runes := []rune(body)
	if len(runes) <= stepNameLimit {
		return body
	}
	return string(runes[:stepNameLimit]) + "…"
}
