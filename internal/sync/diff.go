package sync

import (
	"log/slog"
	"slices"

	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
)

// ChangeKind classifies how an id differs between the two stores.
type ChangeKind string

const (
	// ChangeAdded means the id exists only in the remote store.
	ChangeAdded ChangeKind = "added"

	// ChangeModified means the id exists on both sides with different content.
	ChangeModified ChangeKind = "modified"

	// ChangeDeleted means the id exists only in the local store.
	ChangeDeleted ChangeKind = "deleted"
)

// Diff partitions the ids that differ between local and remote.
// The three sets are disjoint; order within each set is unspecified.
type Diff struct {
	Added    []int `json:"added" yaml:"added"`
	Modified []int `json:"modified" yaml:"modified"`
	Deleted  []int `json:"deleted" yaml:"deleted"`
}

// ComputeDiff compares the two stores. Ids present on both sides with equal
// fingerprints are left out of every set.
func (e *Engine) ComputeDiff() Diff {
	defer logging.Timer("diff")()

	diff := Diff{
		Added:    []int{},
		Modified: []int{},
		Deleted:  []int{},
	}

	e.remote.Each(func(remoteMsg model.Message) bool {
		localMsg, ok := e.local.Get(remoteMsg.ID)
		switch {
		case !ok:
			diff.Added = append(diff.Added, remoteMsg.ID)
		case !localMsg.SameContent(remoteMsg):
			diff.Modified = append(diff.Modified, remoteMsg.ID)
		}
		return true
	})

	e.local.Each(func(localMsg model.Message) bool {
		if !e.remote.Has(localMsg.ID) {
			diff.Deleted = append(diff.Deleted, localMsg.ID)
		}
		return true
	})

	logging.Debug("computed diff",
		logging.Operation("diff"),
		slog.Int("added", len(diff.Added)),
		slog.Int("modified", len(diff.Modified)),
		slog.Int("deleted", len(diff.Deleted)),
	)

	return diff
}

// IsEmpty reports whether the stores are already in sync.
func (d Diff) IsEmpty() bool {
	return d.Total() == 0
}

// Total returns the number of ids across all three sets.
func (d Diff) Total() int {
	return len(d.Added) + len(d.Modified) + len(d.Deleted)
}

// Sorted returns a copy of d with every set in ascending id order.
func (d Diff) Sorted() Diff {
	return Diff{
		Added:    sortedCopy(d.Added),
		Modified: sortedCopy(d.Modified),
		Deleted:  sortedCopy(d.Deleted),
	}
}

// Kind returns which set id belongs to, or "" when it is unchanged.
func (d Diff) Kind(id int) ChangeKind {
	switch {
	case slices.Contains(d.Added, id):
		return ChangeAdded
	case slices.Contains(d.Modified, id):
		return ChangeModified
	case slices.Contains(d.Deleted, id):
		return ChangeDeleted
	default:
		return ""
	}
}

func sortedCopy(ids []int) []int {
	out := slices.Clone(ids)
	if out == nil {
		out = []int{}
	}
	slices.Sort(out)
	return out
}
