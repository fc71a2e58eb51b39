package sync

import (
	"fmt"

	"github.com/klauern/msgsync/internal/model"
)

// Stats reports store sizes and how many shared ids differ.
type Stats struct {
	LocalCount  int `json:"local_count" yaml:"local_count"`
	RemoteCount int `json:"remote_count" yaml:"remote_count"`

	// Conflicts counts ids present on both sides with different fingerprints.
	// It always equals len(ComputeDiff().Modified) for the same stores.
	Conflicts int `json:"conflicts" yaml:"conflicts"`
}

// Stats computes counts for the current stores.
func (e *Engine) Stats() Stats {
	stats := Stats{
		LocalCount:  e.local.Size(),
		RemoteCount: e.remote.Size(),
	}

	e.local.Each(func(localMsg model.Message) bool {
		if remoteMsg, ok := e.remote.Get(localMsg.ID); ok && !localMsg.SameContent(remoteMsg) {
			stats.Conflicts++
		}
		return true
	})

	return stats
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("local=%d remote=%d conflicts=%d", s.LocalCount, s.RemoteCount, s.Conflicts)
}
