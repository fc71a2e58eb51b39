package sync

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/similarity"
)

// Action is what a plan does to the local store for one id.
type Action string

const (
	// ActionPull copies the full remote message into the local store.
	ActionPull Action = "pull"

	// ActionPatch applies a delta because the remote version won.
	ActionPatch Action = "patch"

	// ActionKeep leaves the local version in place.
	ActionKeep Action = "keep"

	// ActionDelete removes an id that no longer exists remotely.
	ActionDelete Action = "delete"
)

// Change is one planned step.
type Change struct {
	ID     int        `json:"id" yaml:"id"`
	Kind   ChangeKind `json:"kind" yaml:"kind"`
	Action Action     `json:"action" yaml:"action"`

	// Content is the full remote content for pulls.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// Delta is the encoded edit for patches.
	Delta string `json:"delta,omitempty" yaml:"delta,omitempty"`

	// Timestamp is stored with the result of a pull or patch.
	Timestamp int64 `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	// Fingerprint is the expected fingerprint after a pull or patch.
	Fingerprint model.Fingerprint `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`

	// Resolution is set for modified ids.
	Resolution *Resolution `json:"resolution,omitempty" yaml:"resolution,omitempty"`

	// Comparison measures how far apart the two versions of a modified id are.
	Comparison *similarity.Comparison `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// PlanOptions configures plan building.
type PlanOptions struct {
	// KeepLocalOnly turns deletions into keeps, for hosts that treat
	// local-only ids as unsent rather than removed.
	KeepLocalOnly bool
}

// Plan lists the steps that converge the local store toward remote.
type Plan struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Changes   []Change  `json:"changes" yaml:"changes"`
}

// BuildPlan computes the diff and turns it into ordered changes. Neither
// store is modified.
func (e *Engine) BuildPlan(opts PlanOptions) *Plan {
	defer logging.Timer("plan")()

	diff := e.ComputeDiff().Sorted()
	plan := &Plan{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now(),
		Changes:   make([]Change, 0, diff.Total()),
	}

	for _, id := range diff.Added {
		remoteMsg, _ := e.remote.Get(id)
		plan.Changes = append(plan.Changes, Change{
			ID:          id,
			Kind:        ChangeAdded,
			Action:      ActionPull,
			Content:     remoteMsg.Content(),
			Timestamp:   remoteMsg.Timestamp,
			Fingerprint: remoteMsg.Fingerprint(),
		})
	}

	for _, id := range diff.Modified {
		localMsg, _ := e.local.Get(id)
		remoteMsg, _ := e.remote.Get(id)
		res := ResolveLWW(localMsg, remoteMsg)
		cmp := similarity.Compare(localMsg.Content(), remoteMsg.Content())

		change := Change{
			ID:         id,
			Kind:       ChangeModified,
			Action:     ActionKeep,
			Resolution: &res,
			Comparison: &cmp,
		}
		if res.UseRemote {
			change.Action = ActionPatch
			change.Delta = GenerateDelta(localMsg.Content(), remoteMsg.Content())
			change.Timestamp = remoteMsg.Timestamp
			change.Fingerprint = remoteMsg.Fingerprint()
		}
		plan.Changes = append(plan.Changes, change)
	}

	for _, id := range diff.Deleted {
		action := ActionDelete
		if opts.KeepLocalOnly {
			action = ActionKeep
		}
		plan.Changes = append(plan.Changes, Change{
			ID:     id,
			Kind:   ChangeDeleted,
			Action: action,
		})
	}

	logging.Debug("built sync plan",
		slog.String("run_id", plan.RunID),
		logging.Count(len(plan.Changes)),
	)

	return plan
}

// IsEmpty reports whether the plan has no changes.
func (p *Plan) IsEmpty() bool {
	return len(p.Changes) == 0
}

// ChangesLocal reports whether applying the plan would modify the local
// store. A plan of only keeps leaves it untouched.
func (p *Plan) ChangesLocal() bool {
	for _, c := range p.Changes {
		if c.Action != ActionKeep {
			return true
		}
	}
	return false
}

// Pulls returns changes that copy full remote content.
func (p *Plan) Pulls() []Change {
	return p.filterByAction(ActionPull)
}

// Patches returns changes that apply a delta.
func (p *Plan) Patches() []Change {
	return p.filterByAction(ActionPatch)
}

// Keeps returns changes that leave the local version in place.
func (p *Plan) Keeps() []Change {
	return p.filterByAction(ActionKeep)
}

// Deletes returns changes that remove a local id.
func (p *Plan) Deletes() []Change {
	return p.filterByAction(ActionDelete)
}

// Conflicts returns changes for ids modified on both sides.
func (p *Plan) Conflicts() []Change {
	var filtered []Change
	for _, c := range p.Changes {
		if c.Kind == ChangeModified {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func (p *Plan) filterByAction(action Action) []Change {
	var filtered []Change
	for _, c := range p.Changes {
		if c.Action == action {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Summary returns a human-readable summary of the plan.
func (p *Plan) Summary() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Sync plan %s\n", p.RunID))
	sb.WriteString(fmt.Sprintf("  Pull:      %d\n", len(p.Pulls())))
	sb.WriteString(fmt.Sprintf("  Patch:     %d\n", len(p.Patches())))
	sb.WriteString(fmt.Sprintf("  Keep:      %d\n", len(p.Keeps())))
	sb.WriteString(fmt.Sprintf("  Delete:    %d\n", len(p.Deletes())))
	sb.WriteString(fmt.Sprintf("  Conflicts: %d\n", len(p.Conflicts())))

	if conflicts := p.Conflicts(); len(conflicts) > 0 {
		sb.WriteString("\nConflicts (last write wins):\n")
		for _, c := range conflicts {
			sb.WriteString(fmt.Sprintf("  - %d: %s wins", c.ID, c.Resolution.WinningSide()))
			if c.Comparison != nil {
				sb.WriteString(fmt.Sprintf(" (%d edits)", c.Comparison.Distance))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
