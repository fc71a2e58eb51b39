// Package store holds one side's keyed collection of messages.
package store

import (
	"sort"

	"github.com/klauern/msgsync/internal/model"
)

// Store maps message ids to messages. Iteration order carries no meaning.
//
// A Store is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
type Store struct {
	side     model.Side
	messages map[int]model.Message
}

// New creates an empty store for the given side.
func New(side model.Side) *Store {
	return &Store{
		side:     side,
		messages: make(map[int]model.Message),
	}
}

// Side returns which side this store holds.
func (s *Store) Side() model.Side {
	return s.side
}

// Put inserts or wholesale replaces the message for id.
func (s *Store) Put(id int, content string, timestamp int64) {
	s.messages[id] = model.NewMessage(id, content, timestamp)
}

// Get returns the message for id and whether it exists.
func (s *Store) Get(id int) (model.Message, bool) {
	msg, ok := s.messages[id]
	return msg, ok
}

// Has reports whether id is present.
func (s *Store) Has(id int) bool {
	_, ok := s.messages[id]
	return ok
}

// Remove deletes id from the store. Removing a missing id is a no-op.
func (s *Store) Remove(id int) {
	delete(s.messages, id)
}

// Clear removes every message.
func (s *Store) Clear() {
	clear(s.messages)
}

// Size returns the number of messages.
func (s *Store) Size() int {
	return len(s.messages)
}

// Each calls fn for every message until fn returns false.
func (s *Store) Each(fn func(model.Message) bool) {
	for _, msg := range s.messages {
		if !fn(msg) {
			return
		}
	}
}

// IDs returns every id in ascending order.
func (s *Store) IDs() []int {
	ids := make([]int, 0, len(s.messages))
	for id := range s.messages {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Messages returns every message ordered by id.
func (s *Store) Messages() []model.Message {
	msgs := make([]model.Message, 0, len(s.messages))
	for _, id := range s.IDs() {
		msgs = append(msgs, s.messages[id])
	}
	return msgs
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	c := New(s.side)
	for id, msg := range s.messages {
		c.messages[id] = msg
	}
	return c
}
