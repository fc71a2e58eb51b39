// Package model defines the records exchanged between the local and remote
// message stores.
package model

// Message is one keyed record in a store.
//
// Content and its fingerprint are kept behind accessors so the fingerprint
// can never drift from the content it was derived from.
type Message struct {
	ID        int
	Timestamp int64

	content     string
	fingerprint Fingerprint
}

// NewMessage creates a message and derives its fingerprint from content.
func NewMessage(id int, content string, timestamp int64) Message {
	return Message{
		ID:          id,
		Timestamp:   timestamp,
		content:     content,
		fingerprint: FingerprintOf(content),
	}
}

// Content returns the message payload.
func (m Message) Content() string {
	return m.content
}

// Fingerprint returns the fingerprint of the current content.
func (m Message) Fingerprint() Fingerprint {
	return m.fingerprint
}

// WithContent returns a copy of m carrying new content and a recomputed fingerprint.
func (m Message) WithContent(content string) Message {
	m.content = content
	m.fingerprint = FingerprintOf(content)
	return m
}

// SameContent reports whether m and other have equal fingerprints.
func (m Message) SameContent(other Message) bool {
	return m.fingerprint == other.fingerprint
}
