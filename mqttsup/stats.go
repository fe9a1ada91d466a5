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

package mqttsup

import (
	"sync/atomic"
	"time"
)

// statCounters holds the raw atomic counters backing Stats. uptimeNanos and
// downtimeNanos accumulate time spent in Connected and not-Connected states
// respectively, closed out on every state transition.
type statCounters struct {
	connectionCount int64
	numMesgsArrived int64
	lastQueried     int64

	uptimeNanos   int64
	downtimeNanos int64

	lastTransitionNanos int64
	connectedAtSample   int32 // 0 or 1, stored atomically on each transition
}

func (s *statCounters) recordConnected(now time.Time) {
	s.closeInterval(now)
	atomic.AddInt64(&s.connectionCount, 1)
	atomic.StoreInt32(&s.connectedAtSample, 1)
}

func (s *statCounters) recordDisconnected(now time.Time) {
	s.closeInterval(now)
	atomic.StoreInt32(&s.connectedAtSample, 0)
}

func (s *statCounters) closeInterval(now time.Time) {
	last := atomic.SwapInt64(&s.lastTransitionNanos, now.UnixNano())
	if last == 0 {
		return
	}
	elapsed := now.UnixNano() - last
	if elapsed <= 0 {
		return
	}
	if atomic.LoadInt32(&s.connectedAtSample) == 1 {
		atomic.AddInt64(&s.uptimeNanos, elapsed)
	} else {
		atomic.AddInt64(&s.downtimeNanos, elapsed)
	}
}

func (s *statCounters) recordMessageArrived() {
	atomic.AddInt64(&s.numMesgsArrived, 1)
}

// Stats is a point-in-time snapshot of a TahuClient's connection accounting.
type Stats struct {
	ConnectionCount int64
	NumMesgsArrived int64
	DeltaSinceLast  int64
	Uptime          time.Duration
	Downtime        time.Duration
	Availability    float64 // percentage, uptime/(uptime+downtime)*100
}

func (s *statCounters) snapshot(now time.Time) Stats {
	s.closeInterval(now)
	// closeInterval above both flushes the open interval into uptime/downtime
	// and restarts it from now, so the next sample starts clean.
	atomic.StoreInt64(&s.lastTransitionNanos, now.UnixNano())

	arrived := atomic.LoadInt64(&s.numMesgsArrived)
	lastQueried := atomic.SwapInt64(&s.lastQueried, arrived)
	up := time.Duration(atomic.LoadInt64(&s.uptimeNanos))
	down := time.Duration(atomic.LoadInt64(&s.downtimeNanos))

	var availability float64
	if total := up + down; total > 0 {
		availability = float64(up) / float64(total) * 100
	}

	return Stats{
		ConnectionCount: atomic.LoadInt64(&s.connectionCount),
		NumMesgsArrived: arrived,
		DeltaSinceLast:  arrived - lastQueried,
		Uptime:          up,
		Downtime:        down,
		Availability:    availability,
	}
}
