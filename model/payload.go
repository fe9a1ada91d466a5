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

package model

import "github.com/google/uuid"

// BdSeqMetricName is the well-known metric name carrying the birth/death
// sequence number in every NBIRTH and NDEATH payload.
const BdSeqMetricName = "bdSeq"

// SparkplugBPayload is the top-level Sparkplug B message.
type SparkplugBPayload struct {
	Timestamp *uint64
	Seq       *uint8
	UUID      *string
	Metrics   []*Metric
	Body      []byte
}

// Metric returns the first metric with the given name, or nil.
func (p *SparkplugBPayload) Metric(name string) *Metric {
	for _, m := range p.Metrics {
		if m.Name != nil && *m.Name == name {
			return m
		}
	}
	return nil
}

// BdSeq extracts the bdSeq metric's UInt64 value from an NBIRTH/NDEATH
// payload, as required to pair a DEATH with the BIRTH that registered it.
func (p *SparkplugBPayload) BdSeq() (uint64, bool) {
	m := p.Metric(BdSeqMetricName)
	if m == nil {
		return 0, false
	}
	v, ok := m.Value.Raw.(uint64)
	return v, ok
}

// StampUUID assigns a fresh RFC 4122 UUID to the payload's optional uuid
// field, overwriting any existing value. Sparkplug B hosts use this field to
// correlate a command payload with the reply it produced.
func (p *SparkplugBPayload) StampUUID() string {
	id := uuid.NewString()
	p.UUID = &id
	return id
}
