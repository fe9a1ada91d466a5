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

// EdgeNodeDescriptor uniquely identifies an edge node within a Sparkplug
// environment. No two edge nodes may share a (GroupID, EdgeNodeID) pair.
type EdgeNodeDescriptor struct {
	GroupID    string
	EdgeNodeID string
}

// Key returns the "group/edge" string used for sequence tracking and shard
// placement.
func (d EdgeNodeDescriptor) Key() string {
	return d.GroupID + "/" + d.EdgeNodeID
}

func (d EdgeNodeDescriptor) String() string { return d.Key() }

// DeviceDescriptor extends EdgeNodeDescriptor with a device ID.
type DeviceDescriptor struct {
	EdgeNodeDescriptor
	DeviceID string
}

// Key returns the "group/edge/device" string identifying this device.
func (d DeviceDescriptor) Key() string {
	return d.EdgeNodeDescriptor.Key() + "/" + d.DeviceID
}

func (d DeviceDescriptor) String() string { return d.Key() }
