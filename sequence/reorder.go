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

package sequence

import (
	"sort"
	"sync"
	"time"

	"github.com/dickcha/tahu/sperr"
)

// ReorderConfig controls how far ahead a buffered sequence number may sit
// and how long an unresolved gap is tolerated before it is reported.
type ReorderConfig struct {
	WindowSize int           `yaml:"windowSize"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DefaultReorderConfig returns conservative defaults: a handful of messages
// of slack, and a few seconds before giving up on a gap.
func DefaultReorderConfig() ReorderConfig {
	return ReorderConfig{WindowSize: 16, Timeout: 5 * time.Second}
}

type bufferedEntry struct {
	seq       uint8
	payload   any
	arrivedAt time.Time
}

// streamEntry is one (server, edge) sequence stream.
type streamEntry struct {
	mu           sync.Mutex
	hasExpected  bool
	nextExpected uint8
	buffer       map[uint8]bufferedEntry
}

// ReorderManager buffers out-of-order Sparkplug messages per (server, edge)
// stream and releases them once a contiguous run becomes available.
type ReorderManager struct {
	cfg ReorderConfig

	mu      sync.Mutex
	streams map[string]*streamEntry
}

// NewReorderManager returns a manager using cfg for every stream it creates.
func NewReorderManager(cfg ReorderConfig) *ReorderManager {
	return &ReorderManager{cfg: cfg, streams: make(map[string]*streamEntry)}
}

func (m *ReorderManager) stream(key string) *streamEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.streams[key]
	if !ok {
		s = &streamEntry{buffer: make(map[uint8]bufferedEntry)}
		m.streams[key] = s
	}
	return s
}

// Ingest admits one message with sequence number seq on stream key.
//
// If seq is the next expected value, it and any now-contiguous buffered
// entries are returned for immediate dispatch, in seq order. If seq is
// within the configured window ahead of the next expected value, it is
// buffered and nil is returned with a nil error. Otherwise — too far ahead,
// or a duplicate/stale value behind the window — Ingest returns a
// SequenceGap error; the message is not buffered and the caller decides
// whether to dispatch it anyway.
func (m *ReorderManager) Ingest(key string, seq uint8, payload any, now time.Time) ([]any, error) {
	s := m.stream(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasExpected {
		s.hasExpected = true
		s.nextExpected = seq
	}

	if seq == s.nextExpected {
		released := []any{payload}
		s.nextExpected++
		released = append(released, drainContiguous(s)...)
		return released, nil
	}

	diff := seq - s.nextExpected // uint8 wraparound distance, "ahead" if small
	if int(diff) <= m.cfg.WindowSize {
		if _, dup := s.buffer[seq]; dup {
			return nil, sperr.New(sperr.SequenceGap, "stream %q: duplicate seq %d", key, seq)
		}
		s.buffer[seq] = bufferedEntry{seq: seq, payload: payload, arrivedAt: now}
		return nil, nil
	}
	return nil, sperr.New(sperr.SequenceGap, "stream %q: seq %d is outside the reorder window (expected %d)", key, seq, s.nextExpected)
}

// drainContiguous removes and returns, in order, every buffered entry whose
// seq picks up immediately where s.nextExpected now stands.
func drainContiguous(s *streamEntry) []any {
	var out []any
	for {
		e, ok := s.buffer[s.nextExpected]
		if !ok {
			break
		}
		delete(s.buffer, s.nextExpected)
		out = append(out, e.payload)
		s.nextExpected++
	}
	return out
}

// Birth resets stream key's expectation to (seq+1) mod 256 on receipt of an
// NBIRTH, discarding any buffered entries that precede the new expectation —
// they belonged to a sequence context the birth has superseded.
func (m *ReorderManager) Birth(key string, seq uint8) {
	s := m.stream(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasExpected = true
	s.nextExpected = seq + 1
	for bseq := range s.buffer {
		if int(bseq-s.nextExpected) > m.cfg.WindowSize { // behind, mod 256
			delete(s.buffer, bseq)
		}
	}
}

// GapEntry describes one buffered message that has sat unresolved longer
// than the configured timeout.
type GapEntry struct {
	Key     string
	Seq     uint8
	Payload any
}

// CheckTimeouts scans every stream for buffered entries older than the
// configured timeout and reports them as gaps, removing them from the
// buffer so they are not reported twice.
func (m *ReorderManager) CheckTimeouts(now time.Time) []GapEntry {
	m.mu.Lock()
	keys := make([]string, 0, len(m.streams))
	streams := make([]*streamEntry, 0, len(m.streams))
	for k, s := range m.streams {
		keys = append(keys, k)
		streams = append(streams, s)
	}
	m.mu.Unlock()

	var gaps []GapEntry
	for i, s := range streams {
		s.mu.Lock()
		var stale []uint8
		for seq, e := range s.buffer {
			if now.Sub(e.arrivedAt) >= m.cfg.Timeout {
				stale = append(stale, seq)
			}
		}
		sort.Slice(stale, func(a, b int) bool { return stale[a] < stale[b] })
		for _, seq := range stale {
			gaps = append(gaps, GapEntry{Key: keys[i], Seq: seq, Payload: s.buffer[seq].payload})
			delete(s.buffer, seq)
		}
		s.mu.Unlock()
	}
	return gaps
}

// Forget drops all buffered state for key.
func (m *ReorderManager) Forget(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.streams, key)
}
