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

// MetricsSink receives a TahuClient's connection-accounting events as they
// happen, so a host application can forward them to Prometheus, a log line,
// or nowhere. A nil sink (the default) is valid: statCounters keeps counting
// regardless, and Stats() always works whether or not a sink is wired.
type MetricsSink interface {
	IncCounter(name string, delta int64)
	SetGauge(name string, value float64)
}

func (c *TahuClient) emitConnectionMetrics(connected bool) {
	if c.sink == nil {
		return
	}
	if connected {
		c.sink.IncCounter("mqtt_connect_total", 1)
	} else {
		c.sink.IncCounter("mqtt_disconnect_total", 1)
	}
}

func (c *TahuClient) emitMessageArrivedMetric() {
	if c.sink == nil {
		return
	}
	c.sink.IncCounter("mqtt_messages_arrived_total", 1)
}

func (c *TahuClient) emitStatsSnapshotMetrics(s Stats) {
	if c.sink == nil {
		return
	}
	c.sink.SetGauge("mqtt_availability_percent", s.Availability)
	c.sink.SetGauge("mqtt_uptime_seconds", s.Uptime.Seconds())
	c.sink.SetGauge("mqtt_downtime_seconds", s.Downtime.Seconds())
}
