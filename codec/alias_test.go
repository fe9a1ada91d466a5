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

package codec_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dickcha/tahu/codec"
	"github.com/dickcha/tahu/model"
)

func strPtr(s string) *string { return &s }
func u64Ptr(v uint64) *uint64 { return &v }

func aliasedMetric(alias uint64) *model.Metric {
	return &model.Metric{Alias: u64Ptr(alias), DataType: model.Int32, Value: model.VInt32(1)}
}

var _ = Describe("AliasCache", func() {
	It("resolves a DATA metric's name from the vocabulary its BIRTH established", func() {
		cache := codec.NewAliasCache()
		birth := &model.SparkplugBPayload{Metrics: []*model.Metric{
			{Name: strPtr("temp"), Alias: u64Ptr(1), DataType: model.Int32, Value: model.VInt32(0)},
			{Name: strPtr("pressure"), Alias: u64Ptr(2), DataType: model.Int32, Value: model.VInt32(0)},
		}}
		cache.LearnBirth("plant1/edge1", birth)

		data := &model.SparkplugBPayload{Metrics: []*model.Metric{aliasedMetric(2)}}
		cache.Resolve("plant1/edge1", data)

		Expect(data.Metrics[0].Name).NotTo(BeNil())
		Expect(*data.Metrics[0].Name).To(Equal("pressure"))
	})

	It("leaves an unknown alias unresolved", func() {
		cache := codec.NewAliasCache()
		cache.LearnBirth("plant1/edge1", &model.SparkplugBPayload{Metrics: []*model.Metric{
			{Name: strPtr("temp"), Alias: u64Ptr(1), DataType: model.Int32, Value: model.VInt32(0)},
		}})

		data := &model.SparkplugBPayload{Metrics: []*model.Metric{aliasedMetric(99)}}
		cache.Resolve("plant1/edge1", data)

		Expect(data.Metrics[0].Name).To(BeNil())
	})

	It("does not overwrite a metric that already carries its own name", func() {
		cache := codec.NewAliasCache()
		cache.LearnBirth("plant1/edge1", &model.SparkplugBPayload{Metrics: []*model.Metric{
			{Name: strPtr("temp"), Alias: u64Ptr(1), DataType: model.Int32, Value: model.VInt32(0)},
		}})

		named := &model.Metric{Name: strPtr("already-named"), Alias: u64Ptr(1), DataType: model.Int32, Value: model.VInt32(1)}
		data := &model.SparkplugBPayload{Metrics: []*model.Metric{named}}
		cache.Resolve("plant1/edge1", data)

		Expect(*data.Metrics[0].Name).To(Equal("already-named"))
	})

	It("replaces its vocabulary on a later BIRTH and forgets it on demand", func() {
		cache := codec.NewAliasCache()
		cache.LearnBirth("plant1/edge1", &model.SparkplugBPayload{Metrics: []*model.Metric{
			{Name: strPtr("v1"), Alias: u64Ptr(1), DataType: model.Int32, Value: model.VInt32(0)},
		}})
		cache.LearnBirth("plant1/edge1", &model.SparkplugBPayload{Metrics: []*model.Metric{
			{Name: strPtr("v2"), Alias: u64Ptr(1), DataType: model.Int32, Value: model.VInt32(0)},
		}})

		data := &model.SparkplugBPayload{Metrics: []*model.Metric{aliasedMetric(1)}}
		cache.Resolve("plant1/edge1", data)
		Expect(*data.Metrics[0].Name).To(Equal("v2"))

		cache.Forget("plant1/edge1")
		data2 := &model.SparkplugBPayload{Metrics: []*model.Metric{aliasedMetric(1)}}
		cache.Resolve("plant1/edge1", data2)
		Expect(data2.Metrics[0].Name).To(BeNil())
	})
})
