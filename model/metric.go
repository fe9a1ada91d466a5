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

import "github.com/dickcha/tahu/sperr"

// Metric is one named or aliased data point of a SparkplugBPayload.
type Metric struct {
	// Name is absent when the metric is referenced by Alias alone, e.g. in a
	// DATA message that relies on the vocabulary established by a prior BIRTH.
	Name *string

	Alias     *uint64
	Timestamp *uint64

	DataType MetricDataType

	IsHistorical bool
	IsTransient  bool
	IsNull       bool

	MetaData    *MetaData
	Properties  *PropertySet
	Value       Value
}

// Validate checks the metric's own invariants and recurses into composite values.
func (m *Metric) Validate() error {
	if m.Name == nil && m.Alias == nil {
		return sperr.New(sperr.InvalidArgument, "metric must carry a name, an alias, or both")
	}
	if m.DataType == Unknown {
		return sperr.New(sperr.UnknownType, "metric has no declared datatype")
	}
	if m.IsNull != m.Value.IsNull() {
		return sperr.New(sperr.InvalidArgument, "metric IsNull flag disagrees with value nullness")
	}
	if m.Value.Type != Unknown && m.Value.Type != m.DataType {
		return sperr.New(sperr.InvalidType, "metric value type %s does not match declared datatype %s", m.Value.Type, m.DataType)
	}
	if err := m.Value.Validate(); err != nil {
		return err
	}
	if ds, ok := m.Value.Raw.(*DataSet); ok {
		if err := ds.Validate(); err != nil {
			return err
		}
	}
	if tmpl, ok := m.Value.Raw.(*Template); ok {
		if err := tmpl.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NameOrEmpty returns the metric's name, or "" when it is alias-only.
func (m *Metric) NameOrEmpty() string {
	if m.Name == nil {
		return ""
	}
	return *m.Name
}
