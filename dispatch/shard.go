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

// Package dispatch fans incoming Sparkplug messages out across a fixed
// number of single-worker shards, keyed by edge node, so distinct edges
// proceed in parallel while a single edge is strictly serialized.
package dispatch

import "sync"

// shardExecutor is a single-worker queue with no bound on its backlog.
// Arrival order of Submit calls is the processing order of their tasks.
type shardExecutor struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
}

func newShardExecutor() *shardExecutor {
	s := &shardExecutor{}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Submit enqueues task for execution by this shard's single worker.
func (s *shardExecutor) Submit(task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, task)
	s.cond.Signal()
}

func (s *shardExecutor) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed && len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		task := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		task()
	}
}

// Close stops the worker once its current backlog has drained. Tasks
// submitted after Close are silently dropped.
func (s *shardExecutor) Close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Signal()
	s.mu.Unlock()
}
