package sync

import (
	"github.com/klauern/msgsync/internal/logging"
	"github.com/klauern/msgsync/internal/model"
	"github.com/klauern/msgsync/internal/store"
)

// Engine owns the local and remote stores and computes how they differ.
type Engine struct {
	local  *store.Store
	remote *store.Store
}

// NewEngine creates an engine with two empty stores.
func NewEngine() *Engine {
	return &Engine{
		local:  store.New(model.Local),
		remote: store.New(model.Remote),
	}
}

// Local returns the local store for read access.
func (e *Engine) Local() *store.Store {
	return e.local
}

// Remote returns the remote store for read access.
func (e *Engine) Remote() *store.Store {
	return e.remote
}

// Store returns the store for side.
func (e *Engine) Store(side model.Side) *store.Store {
	if side == model.Remote {
		return e.remote
	}
	return e.local
}

// AddLocal inserts or replaces a message in the local store.
func (e *Engine) AddLocal(id int, content string, timestamp int64) {
	e.local.Put(id, content, timestamp)
}

// AddRemote inserts or replaces a message in the remote store.
func (e *Engine) AddRemote(id int, content string, timestamp int64) {
	e.remote.Put(id, content, timestamp)
}

// Add inserts or replaces a message on the given side.
func (e *Engine) Add(side model.Side, id int, content string, timestamp int64) {
	e.Store(side).Put(id, content, timestamp)
}

// Clear empties both stores.
func (e *Engine) Clear() {
	logging.Debug("clearing stores",
		logging.Operation("clear"),
		logging.Count(e.local.Size()+e.remote.Size()),
	)
	e.local.Clear()
	e.remote.Clear()
}

// GenerateDelta encodes the edit that turns the local content of id into
// its remote content. It returns "" when id is missing from either store.
func (e *Engine) GenerateDelta(id int) string {
	localMsg, ok := e.local.Get(id)
	if !ok {
		return ""
	}
	remoteMsg, ok := e.remote.Get(id)
	if !ok {
		return ""
	}

	delta := GenerateDelta(localMsg.Content(), remoteMsg.Content())
	logging.Debug("generated delta",
		logging.MessageID(id),
		logging.Count(len(delta)),
	)
	return delta
}

// ApplyDelta applies delta to content. Malformed deltas leave content unchanged.
func (e *Engine) ApplyDelta(content, delta string) string {
	return ApplyDelta(content, delta)
}
