// Package sync reconciles a local and a remote message store.
//
// # Workflow
//
// Callers populate both sides, ask for the diff, then converge:
//
//	engine := sync.NewEngine()
//	engine.AddLocal(1, "hello", 100)
//	engine.AddRemote(1, "hallo", 200)
//
//	diff := engine.ComputeDiff()
//	for _, id := range diff.Modified {
//	    delta := engine.GenerateDelta(id) // "1:1:a"
//	    ...
//	}
//
// Ids in Added need their full content pulled; ids in Modified can be
// patched with a delta; ids in Deleted exist only locally. When both sides
// touched an id, ResolveConflict picks a winner by timestamp.
//
// BuildPlan wraps the whole workflow into a list of changes that can be
// applied to a local store.
//
// # Deltas
//
// A delta describes one contiguous edit as "prefix:deleteCount:inserted".
// The inserted text is the last field and may itself contain ':'.
// Applying a delta that cannot be parsed returns the content unchanged;
// use ParseDelta or ApplyDeltaStrict to detect malformed input.
//
// # Conflicts
//
// Resolution is last-write-wins: remote wins only when its timestamp is
// strictly greater than the local one, so ties keep the local content.
//
// # Concurrency
//
// Engine does no locking. Hosts that share an engine across goroutines must
// guard it with a single lock covering both stores.
package sync
