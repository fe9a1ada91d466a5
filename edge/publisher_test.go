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

package edge_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/dickcha/tahu/edge"
	"github.com/dickcha/tahu/model"
)

type fakeSimulator struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (s *fakeSimulator) NextPayload(device model.DeviceDescriptor) (*model.SparkplugBPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	name := "value"
	return &model.SparkplugBPayload{
		Metrics: []*model.Metric{{Name: &name, DataType: model.Int32, Value: model.VInt32(int32(s.calls))}},
	}, nil
}

func (s *fakeSimulator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type publishedMessage struct {
	topic   string
	payload []byte
}

var _ = Describe("Publisher", func() {
	It("publishes one DDATA per device per tick until stopped", func() {
		descriptor := model.EdgeNodeDescriptor{GroupID: "plant1", EdgeNodeID: "edge1"}
		devices := []model.DeviceDescriptor{
			{EdgeNodeDescriptor: descriptor, DeviceID: "device1"},
			{EdgeNodeDescriptor: descriptor, DeviceID: "device2"},
		}
		sim := &fakeSimulator{}

		var mu sync.Mutex
		var published []publishedMessage
		publish := func(topic string, payload []byte) error {
			mu.Lock()
			defer mu.Unlock()
			published = append(published, publishedMessage{topic: topic, payload: payload})
			return nil
		}

		p := edge.New(descriptor, devices, 10*time.Millisecond, sim, publish, zerolog.Nop())
		p.Start()

		Eventually(sim.Calls, time.Second).Should(BeNumerically(">=", 4))
		p.Stop()

		mu.Lock()
		defer mu.Unlock()
		Expect(published).NotTo(BeEmpty())
		Expect(published[0].topic).To(Equal("spBv1.0/plant1/DDATA/edge1/device1"))
		Expect(published[1].topic).To(Equal("spBv1.0/plant1/DDATA/edge1/device2"))
	})

	It("stops cleanly without publishing further ticks", func() {
		descriptor := model.EdgeNodeDescriptor{GroupID: "plant1", EdgeNodeID: "edge1"}
		devices := []model.DeviceDescriptor{{EdgeNodeDescriptor: descriptor, DeviceID: "device1"}}
		sim := &fakeSimulator{}

		publish := func(topic string, payload []byte) error { return nil }
		p := edge.New(descriptor, devices, 10*time.Millisecond, sim, publish, zerolog.Nop())
		p.Start()
		Eventually(sim.Calls, time.Second).Should(BeNumerically(">=", 1))
		p.Stop()

		callsAtStop := sim.Calls()
		time.Sleep(50 * time.Millisecond)
		Expect(sim.Calls()).To(Equal(callsAtStop))
	})
})
