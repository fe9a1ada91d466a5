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

import (
	"context"
	"math/rand"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/dickcha/tahu/sperr"
	"github.com/dickcha/tahu/topic"
)

// State is a TahuClient's position in the Idle/Connecting/Connected/
// Disconnecting state machine.
type State int32

const (
	Idle State = iota
	Connecting
	Connected
	Disconnecting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Disconnecting:
		return "Disconnecting"
	default:
		return "Unknown"
	}
}

// TahuClient supervises a single logical MQTT connection: connect retry with
// jitter, LWT/BIRTH publication on connect, subscription replay, a
// connection-health monitor, and automatic reconnect on loss.
//
// The client handle, the subscription registry, and the connect-in-progress
// flag are all guarded by mu.
type TahuClient struct {
	cfg    Config
	logger zerolog.Logger

	onConnectionLost func(error)
	onMessage        func(topic string, payload []byte)

	mu      sync.Mutex
	state   State
	client  mqtt.Client
	stopCh  chan struct{}
	subs    []string
	subQoS  map[string]byte

	onlineDate     time.Time
	connectTime    time.Time
	disconnectTime time.Time
	offlineDate    time.Time

	monitorStopCh chan struct{}

	stats statCounters
	sink  MetricsSink
}

// NewTahuClient returns a new supervisor in the Idle state.
func NewTahuClient(cfg Config, logger zerolog.Logger) *TahuClient {
	return &TahuClient{
		cfg:    cfg,
		logger: logger.With().Str("component", "mqttsup").Str("server", cfg.ServerName).Logger(),
		subQoS: make(map[string]byte),
	}
}

// OnConnectionLost registers the callback invoked whenever the client
// transitions Connected -> Connecting due to an unsolicited disconnect.
func (c *TahuClient) OnConnectionLost(fn func(error)) { c.onConnectionLost = fn }

// OnMessage registers the callback invoked for every message delivered on a
// subscribed topic.
func (c *TahuClient) OnMessage(fn func(topic string, payload []byte)) { c.onMessage = fn }

// SetMetricsSink wires sink to receive this client's connection-accounting
// events. Pass nil to stop forwarding; the client's own Stats() is never
// affected either way.
func (c *TahuClient) SetMetricsSink(sink MetricsSink) { c.sink = sink }

// State returns the client's current state.
func (c *TahuClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns a point-in-time accounting snapshot, also forwarding the
// sampled gauges to the configured MetricsSink, if any.
func (c *TahuClient) Stats() Stats {
	s := c.stats.snapshot(time.Now())
	c.emitStatsSnapshotMetrics(s)
	return s
}

// Connect transitions Idle -> Connecting and starts the connect loop. It is
// idempotent: calling it while already Connecting or Connected is a no-op.
func (c *TahuClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return nil
	}
	c.state = Connecting
	c.stopCh = make(chan struct{})
	stopCh := c.stopCh
	c.mu.Unlock()

	go c.connectLoop(ctx, stopCh)
	return nil
}

func (c *TahuClient) connectLoop(ctx context.Context, stopCh chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		if c.cfg.RandomStartupDelay > 0 {
			jitter := time.Duration(rand.Int63n(int64(c.cfg.RandomStartupDelay)))
			select {
			case <-stopCh:
				return
			case <-time.After(jitter):
			}
		}

		client := mqtt.NewClient(c.buildOptions())
		token := client.Connect()
		ok := token.WaitTimeout(c.cfg.ConnectTimeout)

		if ok && token.Error() == nil {
			c.mu.Lock()
			c.client = client
			c.mu.Unlock()
			c.onConnected()
			return
		}

		err := token.Error()
		if err == nil {
			err = sperr.New(sperr.Timeout, "mqtt connect timed out after %s", c.cfg.ConnectTimeout)
		}
		c.logger.Warn().Err(err).Msg("mqtt connect attempt failed")

		if !c.cfg.AutoReconnect {
			c.mu.Lock()
			c.state = Idle
			c.mu.Unlock()
			return
		}

		select {
		case <-stopCh:
			return
		case <-time.After(c.cfg.ConnectRetryInterval):
		}
	}
}

func (c *TahuClient) buildOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(c.cfg.ServerURL)
	opts.SetClientID(c.cfg.ClientID)
	opts.SetKeepAlive(c.cfg.KeepAlive)
	opts.SetCleanSession(c.cfg.CleanSession)
	opts.SetConnectTimeout(c.cfg.ConnectTimeout)
	opts.SetAutoReconnect(false) // TahuClient supervises reconnection itself
	opts.SetOrderMatters(true)

	if c.cfg.MaxInflight > 0 {
		opts.SetMessageChannelDepth(uint(c.cfg.MaxInflight))
	}
	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}
	if c.cfg.LWT != nil {
		opts.SetWill(c.cfg.LWT.Topic, string(c.cfg.LWT.Payload), c.cfg.LWT.QoS, c.cfg.LWT.Retain)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.forceDisconnect(err)
	})
	return opts
}

// onConnected runs the Connecting -> Connected transition: start the
// monitor, replay subscriptions, and publish BIRTH. A failure at either step
// forces a disconnect rather than leaving the client half-initialized.
func (c *TahuClient) onConnected() {
	now := time.Now()
	c.mu.Lock()
	c.state = Connected
	c.onlineDate = now
	c.connectTime = now
	c.disconnectTime = time.Time{}
	c.mu.Unlock()
	c.stats.recordConnected(now)
	c.emitConnectionMetrics(true)

	c.startMonitor()

	if err := c.replaySubscriptions(); err != nil {
		c.logger.Error().Err(err).Msg("subscription replay failed, forcing disconnect")
		c.forceDisconnect(err)
		return
	}

	if c.cfg.Birth != nil {
		if err := c.Publish(c.cfg.Birth.Topic, c.cfg.Birth.Payload, 1, c.cfg.Birth.Retain); err != nil {
			c.logger.Error().Err(err).Msg("birth publish failed, forcing disconnect")
			c.forceDisconnect(err)
			return
		}
	}
}

// replaySubscriptions resends every registered subscription in a single
// SUBSCRIBE packet via SubscribeMultiple, so a reconnecting client is never
// left with only some of its topics live between connect and subscribe.
func (c *TahuClient) replaySubscriptions() error {
	c.mu.Lock()
	topics := append([]string(nil), c.subs...)
	filters := make(map[string]byte, len(topics))
	for _, t := range topics {
		filters[t] = c.subQoS[t]
	}
	client := c.client
	c.mu.Unlock()

	if len(filters) == 0 {
		return nil
	}

	token := client.SubscribeMultiple(filters, c.messageHandler)
	if !token.WaitTimeout(c.cfg.ConnectTimeout) {
		return sperr.New(sperr.Timeout, "subscription replay timed out for %d topics", len(filters))
	}
	if err := token.Error(); err != nil {
		return sperr.Wrap(sperr.NotAuthorized, err, "subscription replay failed for %d topics", len(filters))
	}
	return nil
}

func (c *TahuClient) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	c.stats.recordMessageArrived()
	c.emitMessageArrivedMetric()
	if c.onMessage != nil {
		c.onMessage(msg.Topic(), msg.Payload())
	}
}

// startMonitor launches the 10s-tick connection monitor. Five consecutive
// ticks observing a disconnected client are treated as an unsolicited
// disconnect, mirroring the underlying-callback path in forceDisconnect.
func (c *TahuClient) startMonitor() {
	c.mu.Lock()
	c.monitorStopCh = make(chan struct{})
	stopCh := c.monitorStopCh
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(monitorTick)
		defer ticker.Stop()
		missed := 0
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				c.mu.Lock()
				connected := c.client != nil && c.client.IsConnected()
				c.mu.Unlock()
				if connected {
					missed = 0
					continue
				}
				missed++
				if missed >= monitorMissedTicksBeforeUnsolicitedDisconnect {
					c.forceDisconnect(sperr.New(sperr.NotConnected, "connection monitor observed %d consecutive disconnected ticks", missed))
					return
				}
			}
		}
	}()
}

func (c *TahuClient) stopMonitor() {
	c.mu.Lock()
	stopCh := c.monitorStopCh
	c.monitorStopCh = nil
	c.mu.Unlock()
	if stopCh != nil {
		close(stopCh)
	}
}

// forceDisconnect handles every unsolicited-disconnect path: the connection
// monitor giving up, the underlying client's lost-connection callback, or a
// failed post-connect step (subscription replay, BIRTH publish). It
// transitions Connected -> Connecting and, if autoReconnect is set, starts a
// fresh connect loop.
func (c *TahuClient) forceDisconnect(cause error) {
	c.mu.Lock()
	if c.state != Connected {
		c.mu.Unlock()
		return
	}
	c.state = Connecting
	client := c.client
	c.client = nil
	now := time.Now()
	c.disconnectTime = now
	c.offlineDate = now
	c.mu.Unlock()

	c.stats.recordDisconnected(now)
	c.emitConnectionMetrics(false)
	c.stopMonitor()

	if client != nil {
		client.Disconnect(250)
	}
	if c.onConnectionLost != nil {
		c.onConnectionLost(cause)
	}

	if !c.cfg.AutoReconnect {
		c.mu.Lock()
		c.state = Idle
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.stopCh = make(chan struct{})
	stopCh := c.stopCh
	c.mu.Unlock()
	go c.connectLoop(context.Background(), stopCh)
}

// Disconnect performs a cooperative shutdown: cancel the connect loop and
// monitor, optionally publish and wait for the configured LWT, then forcibly
// disconnect the underlying client. Subsequent callbacks are ignored once
// the client handle is nulled.
func (c *TahuClient) Disconnect(quiesce, waitTimeout time.Duration, sendDisconnect, publishLwt, waitForLwt bool) error {
	c.mu.Lock()
	if c.state == Idle {
		c.mu.Unlock()
		return nil
	}
	c.state = Disconnecting
	client := c.client
	wasConnected := client != nil && client.IsConnected()
	stopCh := c.stopCh
	c.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}
	c.stopMonitor()

	if wasConnected && publishLwt && c.cfg.LWT != nil {
		token := client.Publish(c.cfg.LWT.Topic, c.cfg.LWT.QoS, c.cfg.LWT.Retain, c.cfg.LWT.Payload)
		if waitForLwt {
			c.waitLwtDelivery(token)
		}
	}

	if client != nil {
		if sendDisconnect {
			client.Disconnect(uint(quiesce.Milliseconds()))
		} else {
			client.Disconnect(0)
		}
	}

	now := time.Now()
	c.mu.Lock()
	c.client = nil
	c.disconnectTime = now
	c.offlineDate = now
	c.state = Idle
	c.mu.Unlock()
	c.stats.recordDisconnected(now)
	c.emitConnectionMetrics(false)
	return nil
}

// waitLwtDelivery polls the LWT publish token every 250ms for up to
// keepAlive*4 iterations, returning whether delivery was confirmed within
// that budget.
func (c *TahuClient) waitLwtDelivery(token mqtt.Token) bool {
	maxIterations := int(c.cfg.KeepAlive/time.Second) * 4
	for i := 0; i < maxIterations; i++ {
		if token.WaitTimeout(lwtDeliveryPollInterval) {
			return token.Error() == nil
		}
	}
	return false
}

// Subscribe registers topic at qos in the subscription registry regardless
// of connection state, and additionally sends the subscription to the
// broker (blocking until the token completes) if currently connected.
func (c *TahuClient) Subscribe(topic string, qos byte) error {
	c.mu.Lock()
	if _, exists := c.subQoS[topic]; !exists {
		c.subs = append(c.subs, topic)
	}
	c.subQoS[topic] = qos
	client := c.client
	connected := client != nil && client.IsConnected()
	c.mu.Unlock()

	if !connected {
		return nil
	}
	token := client.Subscribe(topic, qos, c.messageHandler)
	token.Wait()
	if err := token.Error(); err != nil {
		return sperr.Wrap(sperr.NotAuthorized, err, "subscribe %q failed", topic)
	}
	return nil
}

// Unsubscribe removes topic from the registry and, if connected, sends the
// unsubscribe to the broker.
func (c *TahuClient) Unsubscribe(topic string) error {
	c.mu.Lock()
	delete(c.subQoS, topic)
	for i, t := range c.subs {
		if t == topic {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	client := c.client
	connected := client != nil && client.IsConnected()
	c.mu.Unlock()

	if !connected {
		return nil
	}
	token := client.Unsubscribe(topic)
	token.Wait()
	if err := token.Error(); err != nil {
		return sperr.Wrap(sperr.Internal, err, "unsubscribe %q failed", topic)
	}
	return nil
}

// Publish synchronously publishes payload, failing with NotConnected if
// there is no live client.
func (c *TahuClient) Publish(topic string, payload []byte, qos byte, retained bool) error {
	c.mu.Lock()
	client := c.client
	connected := client != nil && client.IsConnected()
	c.mu.Unlock()

	if !connected {
		return sperr.New(sperr.NotConnected, "publish to %q: client not connected", topic)
	}
	token := client.Publish(topic, qos, retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return sperr.Wrap(sperr.Internal, err, "publish to %q failed", topic)
	}
	return nil
}

// PublishState publishes the primary host's retained birth/death certificate
// on "STATE/{hostId}": "ONLINE" once the host has finished its own startup,
// "OFFLINE" as part of an orderly shutdown. It is a no-op if cfg.HostID is
// empty, since a client not acting as a primary host has no STATE topic to
// publish on.
func (c *TahuClient) PublishState(online bool) error {
	if c.cfg.HostID == "" {
		return nil
	}
	payload := []byte("OFFLINE")
	if online {
		payload = []byte("ONLINE")
	}
	return c.Publish(topic.BuildState(c.cfg.HostID), payload, 1, true)
}

// AsyncPublish retries a publish up to numAttempts times, sleeping
// retryDelay whenever the client is not currently connected, and failing
// once attempts are exhausted.
func (c *TahuClient) AsyncPublish(ctx context.Context, topic string, payload []byte, qos byte, retained bool, retry bool, retryDelay time.Duration, numAttempts int) error {
	var lastErr error
	for attempt := 0; attempt < numAttempts; attempt++ {
		c.mu.Lock()
		client := c.client
		connected := client != nil && client.IsConnected()
		c.mu.Unlock()

		if !connected {
			lastErr = sperr.New(sperr.NotConnected, "publish to %q: client not connected", topic)
			if !retry {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
				continue
			}
		}

		token := client.Publish(topic, qos, retained, payload)
		token.Wait()
		if err := token.Error(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if !retry {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return sperr.Wrap(sperr.Internal, lastErr, "publish to %q failed after %d attempts", topic, numAttempts)
}
