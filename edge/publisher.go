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

// Package edge implements the edge-side periodic publisher: every period,
// ask a DataSimulator for fresh device data and publish it as DDATA.
package edge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dickcha/tahu/codec"
	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/topic"
)

// DataSimulator produces a data payload for one device on demand. Real
// edge applications back this with sensor reads; tests back it with
// canned sequences.
type DataSimulator interface {
	NextPayload(device model.DeviceDescriptor) (*model.SparkplugBPayload, error)
}

// Publisher is the collaborator a TahuClient-backed edge process uses to
// publish a DataSimulator's output on a fixed schedule, one DDATA per
// DeviceDescriptor per tick, until cooperatively stopped.
type Publisher struct {
	descriptor model.EdgeNodeDescriptor
	devices    []model.DeviceDescriptor
	period     time.Duration
	simulator  DataSimulator
	publish    func(topic string, payload []byte) error
	encoder    codec.Encoder
	logger     zerolog.Logger

	stopped atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New returns a Publisher that is not yet running; call Start to begin the
// periodic loop.
func New(descriptor model.EdgeNodeDescriptor, devices []model.DeviceDescriptor, period time.Duration, simulator DataSimulator, publish func(topic string, payload []byte) error, logger zerolog.Logger) *Publisher {
	return &Publisher{
		descriptor: descriptor,
		devices:    devices,
		period:     period,
		simulator:  simulator,
		publish:    publish,
		logger:     logger.With().Str("component", "edge.publisher").Str("edge", descriptor.Key()).Logger(),
		stopCh:     make(chan struct{}),
	}
}

// Start launches the periodic loop in a background goroutine.
func (p *Publisher) Start() {
	p.wg.Add(1)
	go p.run()
}

// Stop raises the cooperative shutdown flag and waits for the loop to exit.
func (p *Publisher) Stop() {
	if p.stopped.CompareAndSwap(false, true) {
		close(p.stopCh)
	}
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *Publisher) tick() {
	for _, device := range p.devices {
		if p.stopped.Load() {
			return
		}
		payload, err := p.simulator.NextPayload(device)
		if err != nil {
			p.logger.Error().Err(err).Str("device", device.Key()).Msg("data simulator failed")
			continue
		}
		wire, err := p.encoder.Encode(payload)
		if err != nil {
			p.logger.Error().Err(err).Str("device", device.Key()).Msg("ddata encode failed")
			continue
		}
		deviceTopic := topic.Build(device.GroupID, topic.DDATA, device.EdgeNodeID, device.DeviceID)
		if err := p.publish(deviceTopic, wire); err != nil {
			p.logger.Error().Err(err).Str("device", device.Key()).Msg("ddata publish failed")
		}
	}
}
