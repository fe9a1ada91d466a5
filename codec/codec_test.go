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

var _ = Describe("Payload round trips", func() {
	It("round trips a payload carrying timestamp, seq, and multiple metrics", func() {
		ts := uint64(1700000000000)
		seq := uint8(5)
		p := &model.SparkplugBPayload{
			Timestamp: &ts,
			Seq:       &seq,
			Metrics: []*model.Metric{
				namedMetric("temp", model.Double, model.VDouble(21.5)),
				namedMetric("running", model.Boolean, model.VBoolean(true)),
			},
		}

		wire, err := codec.Encoder{}.Encode(p)
		Expect(err).NotTo(HaveOccurred())

		back, err := codec.Decoder{}.Decode(wire)
		Expect(err).NotTo(HaveOccurred())
		Expect(*back.Timestamp).To(Equal(ts))
		Expect(*back.Seq).To(Equal(seq))
		Expect(back.Metrics).To(HaveLen(2))
		Expect(back.Metric("temp").Value.Raw).To(Equal(21.5))
		Expect(back.Metric("running").Value.Raw).To(Equal(true))
	})

	It("round trips the maximum legal seq, 255", func() {
		// A seq above 255 cannot be expressed through the model (Seq is a
		// uint8), so this checks the upper boundary by round tripping the
		// maximum legal value.
		ts := uint64(1)
		seq := uint8(255)
		p := &model.SparkplugBPayload{Timestamp: &ts, Seq: &seq}
		wire, err := codec.Encoder{}.Encode(p)
		Expect(err).NotTo(HaveOccurred())

		back, err := codec.Decoder{}.Decode(wire)
		Expect(err).NotTo(HaveOccurred())
		Expect(*back.Seq).To(Equal(uint8(255)))
	})

	It("propagates an encode error from an invalid metric", func() {
		bad := &model.Metric{DataType: model.Int32, Value: model.VInt32(1)} // no name/alias
		p := &model.SparkplugBPayload{Metrics: []*model.Metric{bad}}
		_, err := codec.Encoder{}.Encode(p)
		Expect(err).To(HaveOccurred())
	})

	It("rejects garbage bytes on decode", func() {
		_, err := codec.Decoder{}.Decode([]byte{0xFF, 0xFF, 0xFF})
		Expect(err).To(HaveOccurred())
	})
})
