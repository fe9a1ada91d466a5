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

package codec

import (
	"sync"

	"github.com/dickcha/tahu/model"
)

// AliasCache resolves the alias -> name vocabulary a BIRTH message
// establishes for its edge node, so that later DATA metrics carrying only an
// alias can be looked up by name too. It is a decode-time convenience, not
// something a Decoder does on its own: callers that don't need name
// resolution simply never construct one.
type AliasCache struct {
	mu    sync.RWMutex
	nodes map[string]map[uint64]string
}

// NewAliasCache returns an empty cache.
func NewAliasCache() *AliasCache {
	return &AliasCache{nodes: make(map[string]map[uint64]string)}
}

// LearnBirth records the alias -> name pairs carried by a BIRTH payload's
// metrics, replacing whatever vocabulary was previously known for key. A
// metric with no name has nothing to teach the cache and is skipped.
func (c *AliasCache) LearnBirth(key string, payload *model.SparkplugBPayload) {
	vocab := make(map[uint64]string)
	for _, m := range payload.Metrics {
		if m.Alias == nil || m.Name == nil {
			continue
		}
		vocab[*m.Alias] = *m.Name
	}
	c.mu.Lock()
	c.nodes[key] = vocab
	c.mu.Unlock()
}

// Resolve fills in Name on every metric of payload that carries an Alias but
// no Name, using the vocabulary key's last BIRTH established. Metrics whose
// alias is unknown to the cache are left untouched.
func (c *AliasCache) Resolve(key string, payload *model.SparkplugBPayload) {
	c.mu.RLock()
	vocab := c.nodes[key]
	c.mu.RUnlock()
	if vocab == nil {
		return
	}
	for _, m := range payload.Metrics {
		if m.Name != nil || m.Alias == nil {
			continue
		}
		if name, ok := vocab[*m.Alias]; ok {
			n := name
			m.Name = &n
		}
	}
}

// Forget discards the vocabulary known for key, e.g. once its edge node goes
// offline.
func (c *AliasCache) Forget(key string) {
	c.mu.Lock()
	delete(c.nodes, key)
	c.mu.Unlock()
}
