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

package dispatch_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/dickcha/tahu/codec"
	"github.com/dickcha/tahu/dispatch"
	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sequence"
)

func encodedNBirth(bdSeq uint8, seq uint8) []byte {
	name := model.BdSeqMetricName
	p := &model.SparkplugBPayload{
		Seq: &seq,
		Metrics: []*model.Metric{
			{Name: &name, DataType: model.UInt64, Value: model.VUInt64(uint64(bdSeq))},
		},
	}
	wire, err := codec.Encoder{}.Encode(p)
	Expect(err).NotTo(HaveOccurred())
	return wire
}

func encodedNData(seq uint8) []byte {
	name := "value"
	p := &model.SparkplugBPayload{
		Seq:     &seq,
		Metrics: []*model.Metric{{Name: &name, DataType: model.Int32, Value: model.VInt32(1)}},
	}
	wire, err := codec.Encoder{}.Encode(p)
	Expect(err).NotTo(HaveOccurred())
	return wire
}

func encodedNBirthWithAliasedMetric(aliasedName string, alias uint64) []byte {
	bdSeq := model.BdSeqMetricName
	seq := uint8(0)
	p := &model.SparkplugBPayload{
		Seq: &seq,
		Metrics: []*model.Metric{
			{Name: &bdSeq, DataType: model.UInt64, Value: model.VUInt64(1)},
			{Name: &aliasedName, Alias: &alias, DataType: model.Int32, Value: model.VInt32(0)},
		},
	}
	wire, err := codec.Encoder{}.Encode(p)
	Expect(err).NotTo(HaveOccurred())
	return wire
}

func encodedNDataAliasOnly(seq uint8, alias uint64) []byte {
	p := &model.SparkplugBPayload{
		Seq:     &seq,
		Metrics: []*model.Metric{{Alias: &alias, DataType: model.Int32, Value: model.VInt32(1)}},
	}
	wire, err := codec.Encoder{}.Encode(p)
	Expect(err).NotTo(HaveOccurred())
	return wire
}

var _ = Describe("Dispatcher", func() {
	var (
		tracker *sequence.Tracker
		events  []dispatch.Event
		mu      sync.Mutex
		d       *dispatch.Dispatcher
	)

	record := func(e dispatch.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}

	collected := func() []dispatch.Event {
		mu.Lock()
		defer mu.Unlock()
		out := make([]dispatch.Event, len(events))
		copy(out, events)
		return out
	}

	BeforeEach(func() {
		tracker = sequence.NewTracker()
		events = nil
		d = dispatch.New(4, tracker, nil, codec.Decoder{}, record, nil, zerolog.Nop())
	})

	AfterEach(func() {
		d.Close()
	})

	It("processes NBIRTH then in-order NDATA without error", func() {
		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NBIRTH/edge1", encodedNBirth(1, 0))
		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NDATA/edge1", encodedNData(1))

		Eventually(func() int { return len(collected()) }).Should(Equal(2))
		for _, e := range collected() {
			Expect(e.Err).NotTo(HaveOccurred())
		}
	})

	It("forwards a sequence-gap event rather than dropping the message", func() {
		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NBIRTH/edge1", encodedNBirth(1, 0))
		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NDATA/edge1", encodedNData(5))

		Eventually(func() int { return len(collected()) }).Should(Equal(2))
		last := collected()[1]
		Expect(last.Err).To(HaveOccurred())
		Expect(last.Payload).NotTo(BeNil())
	})

	It("routes STATE topics directly without going through a shard", func() {
		d.MessageArrived("server1", "", "", "STATE/scada-host", nil)
		Eventually(func() int { return len(collected()) }).Should(Equal(1))
		Expect(collected()[0].Topic.MsgType.IsBirth()).To(BeFalse())
	})

	It("drops non-sparkplug topics silently", func() {
		d.MessageArrived("server1", "", "", "not/a/sparkplug/topic/at/all", []byte("x"))
		Consistently(func() int { return len(collected()) }, 100*time.Millisecond).Should(Equal(0))
	})

	It("delivers every message submitted for one edge node", func() {
		for i := 0; i < 5; i++ {
			d.MessageArrived("server1", "", "", "spBv1.0/plant1/NBIRTH/edgeA", encodedNBirth(1, 0))
		}
		Eventually(func() int { return len(collected()) }).Should(Equal(5))
	})
})

var _ = Describe("Dispatcher alias resolution", func() {
	It("fills in a DATA metric's name from the vocabulary its BIRTH taught the cache, when enabled", func() {
		tracker := sequence.NewTracker()
		var events []dispatch.Event
		var mu sync.Mutex
		record := func(e dispatch.Event) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}
		collected := func() []dispatch.Event {
			mu.Lock()
			defer mu.Unlock()
			out := make([]dispatch.Event, len(events))
			copy(out, events)
			return out
		}

		d := dispatch.New(4, tracker, nil, codec.Decoder{}, record, nil, zerolog.Nop()).
			WithAliasCache(codec.NewAliasCache())
		defer d.Close()

		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NBIRTH/edge1", encodedNBirthWithAliasedMetric("temp", 7))
		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NDATA/edge1", encodedNDataAliasOnly(1, 7))

		Eventually(func() int { return len(collected()) }).Should(Equal(2))
		data := collected()[1]
		Expect(data.Payload.Metrics).To(HaveLen(1))
		Expect(data.Payload.Metrics[0].Name).NotTo(BeNil())
		Expect(*data.Payload.Metrics[0].Name).To(Equal("temp"))
	})

	It("leaves alias-only metrics unresolved when no cache is configured", func() {
		tracker := sequence.NewTracker()
		var events []dispatch.Event
		var mu sync.Mutex
		record := func(e dispatch.Event) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}
		collected := func() []dispatch.Event {
			mu.Lock()
			defer mu.Unlock()
			out := make([]dispatch.Event, len(events))
			copy(out, events)
			return out
		}

		d := dispatch.New(4, tracker, nil, codec.Decoder{}, record, nil, zerolog.Nop())
		defer d.Close()

		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NBIRTH/edge1", encodedNBirthWithAliasedMetric("temp", 7))
		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NDATA/edge1", encodedNDataAliasOnly(1, 7))

		Eventually(func() int { return len(collected()) }).Should(Equal(2))
		Expect(collected()[1].Payload.Metrics[0].Name).To(BeNil())
	})
})

var _ = Describe("NewFromConfig", func() {
	It("builds a working dispatcher from a declarative Config", func() {
		var mu sync.Mutex
		var events []dispatch.Event
		record := func(e dispatch.Event) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		}

		cfg := dispatch.DefaultConfig()
		cfg.Reorder = &sequence.ReorderConfig{WindowSize: 4, Timeout: time.Second}
		tracker := sequence.NewTracker()
		d := dispatch.NewFromConfig(cfg, tracker, codec.Decoder{}, record, nil, zerolog.Nop())
		defer d.Close()

		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NBIRTH/edge1", encodedNBirth(1, 0))
		d.MessageArrived("server1", "", "", "spBv1.0/plant1/NDATA/edge1", encodedNData(1))

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()
			return len(events)
		}).Should(Equal(2))
	})
})

var _ = Describe("RebirthCommand", func() {
	It("builds an NCMD topic carrying a Node Control/Rebirth boolean metric", func() {
		desc := model.EdgeNodeDescriptor{GroupID: "plant1", EdgeNodeID: "edge1"}
		topicStr, payload := dispatch.RebirthCommand(desc)
		Expect(topicStr).To(Equal("spBv1.0/plant1/NCMD/edge1"))
		Expect(payload.Metrics).To(HaveLen(1))
		Expect(*payload.Metrics[0].Name).To(Equal("Node Control/Rebirth"))
		Expect(payload.Metrics[0].Value.Raw).To(Equal(true))
		Expect(payload.UUID).NotTo(BeNil())
		Expect(*payload.UUID).NotTo(BeEmpty())
	})
})
