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

package mqttsup_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/dickcha/tahu/mqttsup"
	"github.com/dickcha/tahu/sperr"
)

var _ = Describe("TahuClient", func() {
	var (
		cfg mqttsup.Config
		c   *mqttsup.TahuClient
	)

	BeforeEach(func() {
		cfg = mqttsup.DefaultConfig()
		cfg.ServerName = "test-server"
		cfg.ServerURL = "tcp://127.0.0.1:1"
		cfg.ClientID = "test-client"
		cfg.AutoReconnect = false
		c = mqttsup.NewTahuClient(cfg, zerolog.Nop())
	})

	It("starts Idle", func() {
		Expect(c.State()).To(Equal(mqttsup.Idle))
	})

	It("returns zero stats before any connection activity", func() {
		stats := c.Stats()
		Expect(stats.ConnectionCount).To(Equal(int64(0)))
		Expect(stats.NumMesgsArrived).To(Equal(int64(0)))
	})

	It("fails Publish with NotConnected while Idle", func() {
		err := c.Publish("spBv1.0/plant1/NDATA/edge1", []byte("x"), 0, false)
		Expect(sperr.KindOf(err)).To(Equal(sperr.NotConnected))
	})

	It("registers a subscription without a live connection and returns nil", func() {
		Expect(c.Subscribe("spBv1.0/plant1/NCMD/edge1", 1)).To(Succeed())
	})

	It("unsubscribes an unregistered topic without error while Idle", func() {
		Expect(c.Unsubscribe("spBv1.0/plant1/NCMD/edge1")).To(Succeed())
	})

	It("treats Disconnect on an Idle client as a no-op", func() {
		Expect(c.Disconnect(0, 0, false, false, false)).To(Succeed())
		Expect(c.State()).To(Equal(mqttsup.Idle))
	})

	It("skips PublishState entirely when no HostID is configured", func() {
		Expect(c.PublishState(true)).To(Succeed())
	})

	It("fails PublishState with NotConnected when a HostID is configured but disconnected", func() {
		cfg.HostID = "host1"
		hostClient := mqttsup.NewTahuClient(cfg, zerolog.Nop())
		err := hostClient.PublishState(true)
		Expect(sperr.KindOf(err)).To(Equal(sperr.NotConnected))
	})
})

var _ = Describe("State", func() {
	It("stringifies every defined state", func() {
		Expect(mqttsup.Idle.String()).To(Equal("Idle"))
		Expect(mqttsup.Connecting.String()).To(Equal("Connecting"))
		Expect(mqttsup.Connected.String()).To(Equal("Connected"))
		Expect(mqttsup.Disconnecting.String()).To(Equal("Disconnecting"))
	})
})
