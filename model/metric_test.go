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

package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sperr"
)

func strPtr(s string) *string { return &s }
func u64Ptr(v uint64) *uint64 { return &v }

var _ = Describe("Metric", func() {
	It("rejects a metric with neither name nor alias", func() {
		m := &model.Metric{DataType: model.Int32, Value: model.VInt32(1)}
		err := m.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.InvalidArgument))
	})

	It("accepts a named metric with a matching value", func() {
		m := &model.Metric{Name: strPtr("temp"), DataType: model.Int32, Value: model.VInt32(42)}
		Expect(m.Validate()).To(Succeed())
	})

	It("accepts an alias-only metric", func() {
		alias := uint64(7)
		m := &model.Metric{Alias: &alias, DataType: model.Int32, Value: model.VInt32(42)}
		Expect(m.Validate()).To(Succeed())
	})

	It("rejects an undeclared datatype", func() {
		m := &model.Metric{Name: strPtr("temp"), DataType: model.Unknown, Value: model.None(model.Unknown)}
		err := m.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.UnknownType))
	})

	It("rejects IsNull disagreeing with the value's own nullness", func() {
		m := &model.Metric{Name: strPtr("temp"), DataType: model.Int32, Value: model.VInt32(1), IsNull: true}
		err := m.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.InvalidArgument))
	})

	It("rejects a value type that disagrees with the declared datatype", func() {
		m := &model.Metric{Name: strPtr("temp"), DataType: model.Int32, Value: model.VInt64(1)}
		err := m.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.InvalidType))
	})

	It("recurses into a DataSet value", func() {
		ds := &model.DataSet{
			NumOfColumns: 1,
			ColumnNames:  []string{"a"},
			ColumnTypes:  []model.DataSetDataType{model.Int32},
			Rows:         []model.Row{{Values: []model.Value{model.VInt64(1)}}},
		}
		m := &model.Metric{Name: strPtr("ds"), DataType: model.DataSetType, Value: model.VDataSet(ds)}
		err := m.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.InvalidType))
	})

	It("returns NameOrEmpty for alias-only metrics", func() {
		alias := uint64(1)
		m := &model.Metric{Alias: &alias, DataType: model.Int32, Value: model.VInt32(1)}
		Expect(m.NameOrEmpty()).To(Equal(""))
	})
})

var _ = Describe("SparkplugBPayload", func() {
	It("finds a metric by name", func() {
		m := &model.Metric{Name: strPtr("temp"), DataType: model.Int32, Value: model.VInt32(1)}
		p := &model.SparkplugBPayload{Metrics: []*model.Metric{m}}
		Expect(p.Metric("temp")).To(Equal(m))
		Expect(p.Metric("missing")).To(BeNil())
	})

	It("extracts bdSeq from a birth/death payload", func() {
		bdSeq := &model.Metric{
			Name:     strPtr(model.BdSeqMetricName),
			DataType: model.UInt64,
			Value:    model.VUInt64(7),
		}
		p := &model.SparkplugBPayload{Metrics: []*model.Metric{bdSeq}}
		v, ok := p.BdSeq()
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(uint64(7)))
	})

	It("reports missing bdSeq", func() {
		p := &model.SparkplugBPayload{}
		_, ok := p.BdSeq()
		Expect(ok).To(BeFalse())
	})

	It("stamps a fresh RFC 4122 UUID and returns the same value it stored", func() {
		p := &model.SparkplugBPayload{}
		id := p.StampUUID()
		Expect(p.UUID).NotTo(BeNil())
		Expect(*p.UUID).To(Equal(id))
		Expect(id).To(MatchRegexp(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`))
	})

	It("overwrites an existing UUID on restamp", func() {
		p := &model.SparkplugBPayload{}
		first := p.StampUUID()
		second := p.StampUUID()
		Expect(second).NotTo(Equal(first))
		Expect(*p.UUID).To(Equal(second))
	})
})
