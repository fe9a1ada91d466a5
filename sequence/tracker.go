// Copyright 2025 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sequence tracks per-edge-node birth/death and message sequence
// state, and buffers out-of-order messages for in-order delivery.
package sequence

import (
	"sync"
	"time"

	"github.com/dickcha/tahu/sperr"
)

// nodeState is the mutable sequencing state for one edge node, guarded by
// its own lock so distinct nodes never contend with each other.
type nodeState struct {
	mu sync.Mutex

	online bool
	hasSeq bool

	birthBdSeqNum uint8
	lastSeqNum    uint8

	lastBirthAt time.Time
	lastDeathAt time.Time
}

// Tracker holds one nodeState per edge node, keyed by "group/edge".
type Tracker struct {
	mu    sync.RWMutex
	nodes map[string]*nodeState
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{nodes: make(map[string]*nodeState)}
}

func (t *Tracker) node(key string) *nodeState {
	t.mu.RLock()
	n, ok := t.nodes[key]
	t.mu.RUnlock()
	if ok {
		return n
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok = t.nodes[key]; ok {
		return n
	}
	n = &nodeState{}
	t.nodes[key] = n
	return n
}

// SetOnline records an NBIRTH: the node transitions Offline -> Online,
// latching birthBdSeqNum and lastSeqNum from the birth message's bdSeq/seq.
func (t *Tracker) SetOnline(key string, ts time.Time, bdSeq, seq uint8) {
	n := t.node(key)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.online = true
	n.hasSeq = true
	n.birthBdSeqNum = bdSeq
	n.lastSeqNum = seq
	n.lastBirthAt = ts
}

// SetOffline records an NDEATH. A bdSeq that does not match the value
// latched at birth is a silent no-op, per the Sparkplug B rule that a stale
// DEATH referencing an earlier BIRTH must not affect current online state.
func (t *Tracker) SetOffline(key string, ts time.Time, bdSeq uint8) {
	n := t.node(key)
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.online || bdSeq != n.birthBdSeqNum {
		return
	}
	n.online = false
	n.lastDeathAt = ts
}

// Advance increments the node's expected sequence number and checks it
// against seq. Once an NBIRTH has set the sequence, lastSeqNum always
// becomes the incremented value, whether or
// not it matches seq — a gap does not freeze the tracker at the last
// known-good value or jump to whatever the stream claims, it holds the
// expected baseline so the next message is checked against where the
// sequence should be. A mismatch — including a message arriving before any
// NBIRTH has been seen — returns SequenceGap; the caller is expected to mark
// the node offline and request a rebirth, but processing of the message
// itself is not blocked by this call.
func (t *Tracker) Advance(key string, seq uint8) error {
	n := t.node(key)
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.hasSeq {
		return sperr.New(sperr.SequenceGap, "node %q: no sequence established (NBIRTH not yet seen)", key)
	}
	want := n.lastSeqNum + 1 // uint8 wraps mod 256
	n.lastSeqNum = want
	if want != seq {
		return sperr.New(sperr.SequenceGap, "node %q: expected seq %d, got %d", key, want, seq)
	}
	return nil
}

// Snapshot is a read-only copy of a node's current sequencing state.
type Snapshot struct {
	Online        bool
	BirthBdSeqNum uint8
	LastSeqNum    uint8
	LastBirthAt   time.Time
	LastDeathAt   time.Time
}

// Snapshot returns the current state of the node identified by key. The
// zero Snapshot is returned for an unknown key.
func (t *Tracker) Snapshot(key string) Snapshot {
	t.mu.RLock()
	n, ok := t.nodes[key]
	t.mu.RUnlock()
	if !ok {
		return Snapshot{}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return Snapshot{
		Online:        n.online,
		BirthBdSeqNum: n.birthBdSeqNum,
		LastSeqNum:    n.lastSeqNum,
		LastBirthAt:   n.lastBirthAt,
		LastDeathAt:   n.lastDeathAt,
	}
}

// Forget drops all state for key, e.g. once a host decides an edge node has
// been permanently retired.
func (t *Tracker) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.nodes, key)
}
