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

// Package mqttsup supervises one MQTT client's full connection lifecycle:
// connect retry with jitter, LWT/BIRTH publication, subscription replay, a
// connection-health monitor, and reconnect-on-loss. It wraps
// github.com/eclipse/paho.mqtt.golang rather than replacing it.
package mqttsup

import "time"

// BirthConfig describes the message published once a client reaches
// Connected, after subscriptions have been replayed.
type BirthConfig struct {
	Topic   string `yaml:"topic"`
	Payload []byte `yaml:"-"`
	Retain  bool   `yaml:"retain"`
}

// LWTConfig describes the broker-held Last Will and Testament message.
type LWTConfig struct {
	Topic   string `yaml:"topic"`
	Payload []byte `yaml:"-"`
	QoS     byte   `yaml:"qos"`
	Retain  bool   `yaml:"retain"`
}

// Config parametrizes one TahuClient. ServerName is the local identifier
// used for lookups (e.g. by the host dispatcher); ServerURL is the broker
// address handed to the underlying MQTT client.
type Config struct {
	ServerName string `yaml:"serverName"`
	ServerURL  string `yaml:"serverUrl"`
	ClientID   string `yaml:"clientId"`

	Username string `yaml:"username"`
	Password string `yaml:"password"`

	CleanSession bool          `yaml:"cleanSession"`
	KeepAlive    time.Duration `yaml:"keepAlive"`
	MaxInflight  int           `yaml:"maxInflight"`

	RandomStartupDelay time.Duration `yaml:"randomStartupDelay"`

	AutoReconnect        bool          `yaml:"autoReconnect"`
	ConnectTimeout       time.Duration `yaml:"connectTimeout"`
	ConnectRetryInterval time.Duration `yaml:"connectRetryInterval"`

	Birth *BirthConfig `yaml:"birth"`
	LWT   *LWTConfig   `yaml:"lwt"`

	// HostID is the primary host application id used to build the
	// "STATE/{hostId}" topic for PublishState. Empty if this client is not
	// acting as a Sparkplug B primary host.
	HostID string `yaml:"hostId"`
}

// DefaultConfig returns a Config with reasonable defaults for everything the
// caller does not need to override.
func DefaultConfig() Config {
	return Config{
		CleanSession:         true,
		KeepAlive:            30 * time.Second,
		MaxInflight:          10,
		AutoReconnect:        true,
		ConnectTimeout:       30 * time.Second,
		ConnectRetryInterval: 5 * time.Second,
	}
}

// monitorTick is the ConnectionMonitor's polling interval.
const monitorTick = 10 * time.Second

// monitorMissedTicksBeforeUnsolicitedDisconnect is how many consecutive
// !isConnected observations the monitor tolerates before treating the
// connection as lost.
const monitorMissedTicksBeforeUnsolicitedDisconnect = 5

// lwtDeliveryPollInterval is how often waitLwtDelivery polls while
// waiting for the LWT publish token.
const lwtDeliveryPollInterval = 250 * time.Millisecond
