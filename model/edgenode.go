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

package model

import (
	"sync"
	"time"
)

// SparkplugDeviceSnapshot is a read-only, point-in-time copy of one device's
// state — a value, not a pointer into live state, so it is safe to read
// after the device it was taken from has moved on.
type SparkplugDeviceSnapshot struct {
	Descriptor  DeviceDescriptor
	Online      bool
	LastBirthAt time.Time
	LastDeathAt time.Time
}

// SparkplugDevice is the host application's live view of one device under
// an edge node. Every field is guarded by its own lock so a renderer can
// call Snapshot concurrently with whatever goroutine is updating state off
// DBIRTH/DDEATH.
type SparkplugDevice struct {
	mu sync.Mutex

	descriptor  DeviceDescriptor
	online      bool
	lastBirthAt time.Time
	lastDeathAt time.Time
}

// NewSparkplugDevice returns an offline device ready to receive its first
// DBIRTH.
func NewSparkplugDevice(d DeviceDescriptor) *SparkplugDevice {
	return &SparkplugDevice{descriptor: d}
}

// SetOnline records a DBIRTH.
func (d *SparkplugDevice) SetOnline(ts time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.online = true
	d.lastBirthAt = ts
}

// SetOffline records a DDEATH.
func (d *SparkplugDevice) SetOffline(ts time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.online = false
	d.lastDeathAt = ts
}

// Snapshot returns a value copy of the device's current state, safe to read
// without taking the device's internal lock.
func (d *SparkplugDevice) Snapshot() SparkplugDeviceSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return SparkplugDeviceSnapshot{
		Descriptor:  d.descriptor,
		Online:      d.online,
		LastBirthAt: d.lastBirthAt,
		LastDeathAt: d.lastDeathAt,
	}
}

// SparkplugEdgeNodeSnapshot is a read-only, point-in-time copy of one edge
// node's state, including a value-copy snapshot of every device announced
// under it.
type SparkplugEdgeNodeSnapshot struct {
	Descriptor     EdgeNodeDescriptor
	MqttServerName string
	MqttClientID   string

	Online      bool
	LastBirthAt time.Time
	LastDeathAt time.Time

	BirthBdSeqNum uint8
	LastSeqNum    uint8

	Devices map[string]SparkplugDeviceSnapshot
}

// SparkplugEdgeNode is the host application's live view of one edge node:
// its MQTT identity, online state, and the devices announced under it.
//
// BirthBdSeqNum and LastSeqNum mirror what package sequence's Tracker
// already tracks authoritatively elsewhere; this struct is the rendering
// surface a host application keeps per node, updated from the same events.
// Every field is guarded by mu so Snapshot can be called concurrently with
// the goroutine feeding it BIRTH/DEATH/DATA events.
type SparkplugEdgeNode struct {
	mu sync.Mutex

	descriptor     EdgeNodeDescriptor
	mqttServerName string
	mqttClientID   string

	online      bool
	lastBirthAt time.Time
	lastDeathAt time.Time

	birthBdSeqNum uint8
	lastSeqNum    uint8

	devices map[string]*SparkplugDevice
}

// NewSparkplugEdgeNode returns an offline edge node ready to receive its
// first NBIRTH.
func NewSparkplugEdgeNode(d EdgeNodeDescriptor, serverName, clientID string) *SparkplugEdgeNode {
	return &SparkplugEdgeNode{
		descriptor:     d,
		mqttServerName: serverName,
		mqttClientID:   clientID,
		devices:        make(map[string]*SparkplugDevice),
	}
}

// SetOnline records an NBIRTH, latching the birth's bdSeq/seq.
func (n *SparkplugEdgeNode) SetOnline(ts time.Time, bdSeq, seq uint8) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.online = true
	n.lastBirthAt = ts
	n.birthBdSeqNum = bdSeq
	n.lastSeqNum = seq
}

// SetOffline records an NDEATH.
func (n *SparkplugEdgeNode) SetOffline(ts time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.online = false
	n.lastDeathAt = ts
}

// Device returns the device identified by id under this edge node, creating
// it offline on first reference.
func (n *SparkplugEdgeNode) Device(id string) *SparkplugDevice {
	n.mu.Lock()
	defer n.mu.Unlock()
	dev, ok := n.devices[id]
	if !ok {
		dev = NewSparkplugDevice(DeviceDescriptor{EdgeNodeDescriptor: n.descriptor, DeviceID: id})
		n.devices[id] = dev
	}
	return dev
}

// RemoveDevice drops id from the edge node's device set, e.g. once a DDEATH
// is known to be permanent rather than a reconnect-in-progress.
func (n *SparkplugEdgeNode) RemoveDevice(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.devices, id)
}

// Snapshot returns a value copy of the edge node's current state and every
// device beneath it, safe to read without taking the node's internal lock
// or any device's.
func (n *SparkplugEdgeNode) Snapshot() SparkplugEdgeNodeSnapshot {
	n.mu.Lock()
	devices := make(map[string]*SparkplugDevice, len(n.devices))
	for id, dev := range n.devices {
		devices[id] = dev
	}
	snap := SparkplugEdgeNodeSnapshot{
		Descriptor:     n.descriptor,
		MqttServerName: n.mqttServerName,
		MqttClientID:   n.mqttClientID,
		Online:         n.online,
		LastBirthAt:    n.lastBirthAt,
		LastDeathAt:    n.lastDeathAt,
		BirthBdSeqNum:  n.birthBdSeqNum,
		LastSeqNum:     n.lastSeqNum,
		Devices:        make(map[string]SparkplugDeviceSnapshot, len(n.devices)),
	}
	n.mu.Unlock()

	for id, dev := range devices {
		snap.Devices[id] = dev.Snapshot()
	}
	return snap
}
