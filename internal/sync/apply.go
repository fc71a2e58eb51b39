package sync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/store"
)

var (
	// ErrMissingBase means a patch targeted an id the store does not hold.
	ErrMissingBase = errors.New("patch base missing from store")

	// ErrFingerprintMismatch means a patched result did not match the
	// fingerprint of the remote content it should reproduce.
	ErrFingerprintMismatch = errors.New("patched content fingerprint mismatch")
)

// FetchFunc re-requests the full message for id from the remote side.
type FetchFunc func(id int) (model.Message, bool)

// ApplyOptions configures plan application.
type ApplyOptions struct {
	// Fetch is used to recover when a patch cannot be applied. When nil,
	// failed patches are reported as errors.
	Fetch FetchFunc

	// Progress is called after each change with the number processed so far.
	Progress func(done, total int)
}

// Outcome records what happened to one change.
type Outcome struct {
	ID     int    `json:"id" yaml:"id"`
	Action Action `json:"action" yaml:"action"`

	// Refetched is true when a failed patch was replaced by full content.
	Refetched bool `json:"refetched,omitempty" yaml:"refetched,omitempty"`

	Error error `json:"-" yaml:"-"`
}

// Success returns true if the change was applied.
func (o Outcome) Success() bool {
	return o.Error == nil
}

// ApplyResult collects the outcomes of applying a plan.
type ApplyResult struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Apply executes the plan against target, typically a copy of the local
// store. Changes that fail are recorded and the rest still run.
func (p *Plan) Apply(target *store.Store, opts ApplyOptions) *ApplyResult {
	defer logging.Timer("apply")()

	result := &ApplyResult{
		RunID:    p.RunID,
		Outcomes: make([]Outcome, 0, len(p.Changes)),
	}

	for i, change := range p.Changes {
		outcome := applyChange(target, change, opts.Fetch)
		if outcome.Error != nil {
			logging.Warn("failed to apply change",
				logging.MessageID(change.ID),
				logging.Operation(string(change.Action)),
				logging.Err(outcome.Error),
			)
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if opts.Progress != nil {
			opts.Progress(i+1, len(p.Changes))
		}
	}

	return result
}

func applyChange(target *store.Store, change Change, fetch FetchFunc) Outcome {
	outcome := Outcome{ID: change.ID, Action: change.Action}

	switch change.Action {
	case ActionPull:
		target.Put(change.ID, change.Content, change.Timestamp)

	case ActionPatch:
		err := patch(target, change)
		if err == nil {
			break
		}
		if fetch == nil {
			outcome.Error = err
			break
		}
		msg, ok := fetch(change.ID)
		if !ok {
			outcome.Error = fmt.Errorf("%w; refetch found no message", err)
			break
		}
		logging.Debug("patch failed, using full content",
			logging.MessageID(change.ID),
			logging.Err(err),
		)
		target.Put(msg.ID, msg.Content(), msg.Timestamp)
		outcome.Refetched = true

	case ActionDelete:
		target.Remove(change.ID)

	case ActionKeep:
		// nothing to do

	default:
		outcome.Error = fmt.Errorf("unknown action %q", change.Action)
	}

	return outcome
}

func patch(target *store.Store, change Change) error {
	base, ok := target.Get(change.ID)
	if !ok {
		return fmt.Errorf("message %d: %w", change.ID, ErrMissingBase)
	}

	patched, err := ApplyDeltaStrict(base.Content(), change.Delta)
	if err != nil {
		return fmt.Errorf("message %d: %w", change.ID, err)
	}
	if model.FingerprintOf(patched) != change.Fingerprint {
		return fmt.Errorf("message %d: %w", change.ID, ErrFingerprintMismatch)
	}

	target.Put(change.ID, patched, change.Timestamp)
	return nil
}

// Failed returns outcomes that carry an error.
func (r *ApplyResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Success() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Refetched returns outcomes recovered by fetching full content.
func (r *ApplyResult) Refetched() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Refetched {
			out = append(out, o)
		}
	}
	return out
}

// Success returns true if every change was applied.
func (r *ApplyResult) Success() bool {
	return len(r.Failed()) == 0
}

// Summary returns a human-readable summary of the application.
func (r *ApplyResult) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Applied %d change(s)\n", len(r.Outcomes)-len(r.Failed())))
	if n := len(r.Refetched()); n > 0 {
		sb.WriteString(fmt.Sprintf("  Refetched: %d\n", n))
	}

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, f := range r.Failed() {
			sb.WriteString(fmt.Sprintf("  - %d (%s): %v\n", f.ID, f.Action, f.Error))
		}
	}

	return sb.String()
}
