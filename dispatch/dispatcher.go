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

package dispatch

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/dickcha/tahu/codec"
	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sequence"
	"github.com/dickcha/tahu/topic"
)

// DefaultShardCount is N in |hash(group+'/'+edge)| mod N.
const DefaultShardCount = 100

// Config groups the declarative half of a Dispatcher's setup — the part
// that varies by deployment rather than by wiring — so a host application's
// YAML config loader can bind to it the same way it binds to
// mqttsup.Config and sequence.ReorderConfig. Reorder is nil to disable
// out-of-order reassembly, matching New's reorder parameter.
type Config struct {
	ShardCount int                     `yaml:"shardCount"`
	Reorder    *sequence.ReorderConfig `yaml:"reorder"`
}

// DefaultConfig returns DefaultShardCount shards and reordering disabled.
func DefaultConfig() Config {
	return Config{ShardCount: DefaultShardCount}
}

// Event is what Handler receives for every message the dispatcher admits,
// including ones that failed to decode or that tripped a sequence gap —
// library policy is to surface those rather than drop them silently.
type Event struct {
	Server  string
	Topic   *topic.Info
	Payload *model.SparkplugBPayload
	Err     error
}

// Handler processes one dispatched event. Events for Sparkplug node and
// device topics run on the shard worker for Event.Topic's edge node, so it
// must not block waiting on another shard; STATE events run inline on the
// goroutine that called MessageArrived.
type Handler func(Event)

// Dispatcher routes messageArrived callbacks to per-edge-node shards,
// updates sequence state, and forwards the result to Handler.
type Dispatcher struct {
	shards  []*shardExecutor
	tracker *sequence.Tracker
	reorder *sequence.ReorderManager
	decoder codec.Decoder
	handler Handler
	rebirth func(model.EdgeNodeDescriptor)
	aliases *codec.AliasCache
	logger  zerolog.Logger
}

// New returns a Dispatcher with n shards. reorder may be nil to disable
// sequence reordering (gaps are then reported directly from Tracker.Advance).
// rebirth may be nil if the host does not want automatic rebirth requests.
// Alias resolution is off by default; call WithAliasCache to enable it.
func New(n int, tracker *sequence.Tracker, reorder *sequence.ReorderManager, decoder codec.Decoder, handler Handler, rebirth func(model.EdgeNodeDescriptor), logger zerolog.Logger) *Dispatcher {
	if n <= 0 {
		n = DefaultShardCount
	}
	shards := make([]*shardExecutor, n)
	for i := range shards {
		shards[i] = newShardExecutor()
	}
	return &Dispatcher{
		shards:  shards,
		tracker: tracker,
		reorder: reorder,
		decoder: decoder,
		handler: handler,
		rebirth: rebirth,
		logger:  logger.With().Str("component", "dispatch").Logger(),
	}
}

// NewFromConfig is New with the shard count and reorder window taken from
// cfg instead of passed positionally, for hosts that assemble their
// dispatcher from a YAML-loaded Config alongside mqttsup.Config.
func NewFromConfig(cfg Config, tracker *sequence.Tracker, decoder codec.Decoder, handler Handler, rebirth func(model.EdgeNodeDescriptor), logger zerolog.Logger) *Dispatcher {
	var reorder *sequence.ReorderManager
	if cfg.Reorder != nil {
		reorder = sequence.NewReorderManager(*cfg.Reorder)
	}
	return New(cfg.ShardCount, tracker, reorder, decoder, handler, rebirth, logger)
}

// WithAliasCache enables alias -> name resolution: DATA metrics that carry
// only an alias have Name filled in from the vocabulary their edge node's
// last BIRTH established, before Handler sees them.
func (d *Dispatcher) WithAliasCache(cache *codec.AliasCache) *Dispatcher {
	d.aliases = cache
	return d
}

func (d *Dispatcher) shardIndex(key string) int {
	return int(xxhash.Sum64String(key) % uint64(len(d.shards)))
}

// MessageArrived classifies a raw MQTT delivery by topic and, if it is a
// Sparkplug B topic, submits its decode/handle task to the shard owning its
// edge node. Non-Sparkplug topics are logged and dropped.
func (d *Dispatcher) MessageArrived(server, _ /* url */, _ /* clientID */ string, rawTopic string, payload []byte) {
	info, err := topic.Parse(rawTopic)
	if err != nil {
		d.logger.Debug().Str("topic", rawTopic).Err(err).Msg("dropping non-sparkplug topic")
		return
	}

	if info.MsgType == topic.STATE {
		d.handler(Event{Server: server, Topic: info})
		return
	}

	key := info.NodeKey()
	idx := d.shardIndex(key)
	d.shards[idx].Submit(func() {
		d.process(server, info, payload)
	})
}

func (d *Dispatcher) process(server string, info *topic.Info, raw []byte) {
	decoded, err := d.decoder.Decode(raw)
	if err != nil {
		d.logger.Error().Err(err).Str("topic", info.String()).Msg("decode failed, dropping message")
		d.handler(Event{Server: server, Topic: info, Err: err})
		return
	}

	key := info.NodeKey()
	now := time.Now()

	switch info.MsgType {
	case topic.NBIRTH:
		seq := seqOf(decoded)
		bdSeq, _ := decoded.BdSeq()
		d.tracker.SetOnline(key, now, uint8(bdSeq), seq)
		if d.reorder != nil {
			d.reorder.Birth(key, seq)
		}
		if d.aliases != nil {
			d.aliases.LearnBirth(key, decoded)
		}
		d.handler(Event{Server: server, Topic: info, Payload: decoded})
		return
	case topic.NDEATH:
		bdSeq, _ := decoded.BdSeq()
		d.tracker.SetOffline(key, now, uint8(bdSeq))
		if d.aliases != nil {
			d.aliases.Forget(key)
		}
		d.handler(Event{Server: server, Topic: info, Payload: decoded})
		return
	}

	if d.aliases != nil {
		d.aliases.Resolve(key, decoded)
	}

	if decoded.Seq == nil {
		d.handler(Event{Server: server, Topic: info, Payload: decoded})
		return
	}
	seq := *decoded.Seq

	if d.reorder != nil {
		released, gapErr := d.reorder.Ingest(key, seq, decoded, now)
		if gapErr != nil {
			d.onSequenceGap(key, info, gapErr)
			d.handler(Event{Server: server, Topic: info, Payload: decoded, Err: gapErr})
			return
		}
		for _, r := range released {
			d.handler(Event{Server: server, Topic: info, Payload: r.(*model.SparkplugBPayload)})
		}
		return
	}

	if err := d.tracker.Advance(key, seq); err != nil {
		d.onSequenceGap(key, info, err)
		d.handler(Event{Server: server, Topic: info, Payload: decoded, Err: err})
		return
	}
	d.handler(Event{Server: server, Topic: info, Payload: decoded})
}

func seqOf(p *model.SparkplugBPayload) uint8 {
	if p.Seq == nil {
		return 0
	}
	return *p.Seq
}

// onSequenceGap logs the gap and, if a rebirth callback is registered,
// requests rebirth for the offending edge node. It does not mutate tracker
// state itself — a sequence mismatch does not drop the message that
// triggered it, it only invalidates the node's "known good" sequence.
func (d *Dispatcher) onSequenceGap(key string, info *topic.Info, err error) {
	d.logger.Warn().Str("node", key).Err(err).Msg("sequence gap")
	if d.rebirth != nil {
		d.rebirth(info.EdgeNodeDescriptor())
	}
}

// Close stops every shard worker once its current backlog drains.
func (d *Dispatcher) Close() {
	for _, s := range d.shards {
		s.Close()
	}
}

// RebirthCommand builds the NCMD topic and payload a host publishes to ask
// an edge node to re-issue its BIRTH certificates.
func RebirthCommand(desc model.EdgeNodeDescriptor) (string, *model.SparkplugBPayload) {
	name := "Node Control/Rebirth"
	m := &model.Metric{
		Name:     &name,
		DataType: model.Boolean,
		Value:    model.VBoolean(true),
	}
	payload := &model.SparkplugBPayload{
		Metrics: []*model.Metric{m},
	}
	payload.StampUUID()
	return topic.Build(desc.GroupID, topic.NCMD, desc.EdgeNodeID, ""), payload
}
