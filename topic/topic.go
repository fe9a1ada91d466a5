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

// Package topic parses and builds Sparkplug B MQTT topics and classifies
// message kinds.
package topic

import (
	"strings"

	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sperr"
)

// Namespace is the fixed Sparkplug B topic namespace.
const Namespace = "spBv1.0"

// MessageType enumerates the Sparkplug B message kinds.
type MessageType string

const (
	NBIRTH MessageType = "NBIRTH"
	NDEATH MessageType = "NDEATH"
	NDATA  MessageType = "NDATA"
	NCMD   MessageType = "NCMD"
	DBIRTH MessageType = "DBIRTH"
	DDEATH MessageType = "DDEATH"
	DDATA  MessageType = "DDATA"
	DCMD   MessageType = "DCMD"
	STATE  MessageType = "STATE"
)

func (t MessageType) IsBirth() bool  { return t == NBIRTH || t == DBIRTH }
func (t MessageType) IsDeath() bool  { return t == NDEATH || t == DDEATH }
func (t MessageType) IsData() bool   { return t == NDATA || t == DDATA }
func (t MessageType) IsCommand() bool { return t == NCMD || t == DCMD }
func (t MessageType) IsNode() bool   { return t == NBIRTH || t == NDEATH || t == NDATA || t == NCMD }
func (t MessageType) IsDevice() bool { return t == DBIRTH || t == DDEATH || t == DDATA || t == DCMD }

func validMessageType(s string) (MessageType, bool) {
	switch MessageType(s) {
	case NBIRTH, NDEATH, NDATA, NCMD, DBIRTH, DDEATH, DDATA, DCMD:
		return MessageType(s), true
	default:
		return "", false
	}
}

// Info is the parsed form of a Sparkplug B topic.
type Info struct {
	Namespace  string
	Group      string
	MsgType    MessageType
	EdgeNode   string
	Device     string // empty for node-level messages
}

// NodeKey returns the "group/edge" sequence-tracking key.
func (ti *Info) NodeKey() string {
	if ti == nil || ti.Group == "" || ti.EdgeNode == "" {
		return ""
	}
	return ti.Group + "/" + ti.EdgeNode
}

// EdgeNodeDescriptor returns the model.EdgeNodeDescriptor for this topic.
func (ti *Info) EdgeNodeDescriptor() model.EdgeNodeDescriptor {
	return model.EdgeNodeDescriptor{GroupID: ti.Group, EdgeNodeID: ti.EdgeNode}
}

// DeviceDescriptor returns the model.DeviceDescriptor for this topic, valid
// only when ti.Device is non-empty.
func (ti *Info) DeviceDescriptor() model.DeviceDescriptor {
	return model.DeviceDescriptor{EdgeNodeDescriptor: ti.EdgeNodeDescriptor(), DeviceID: ti.Device}
}

// Parse splits a Sparkplug B topic of the form
// "spBv1.0/{group}/{msgType}/{edge}[/{device}]" into its components. STATE
// topics ("STATE/{hostId}") are parsed into Info{MsgType: STATE, Group: "",
// EdgeNode: hostId}.
func Parse(raw string) (*Info, error) {
	parts := strings.Split(raw, "/")

	if len(parts) == 2 && parts[0] == "STATE" {
		return &Info{MsgType: STATE, EdgeNode: parts[1]}, nil
	}

	if len(parts) < 4 || len(parts) > 5 {
		return nil, sperr.New(sperr.InvalidArgument, "malformed sparkplug topic %q", raw)
	}
	if parts[0] != Namespace {
		return nil, sperr.New(sperr.InvalidArgument, "topic %q is not in namespace %s", raw, Namespace)
	}
	mt, ok := validMessageType(parts[2])
	if !ok {
		return nil, sperr.New(sperr.InvalidArgument, "topic %q has unknown message type %q", raw, parts[2])
	}

	info := &Info{
		Namespace: parts[0],
		Group:     parts[1],
		MsgType:   mt,
		EdgeNode:  parts[3],
	}
	if len(parts) == 5 {
		info.Device = parts[4]
	}
	if mt.IsDevice() && info.Device == "" {
		return nil, sperr.New(sperr.InvalidArgument, "topic %q is a device message but carries no device id", raw)
	}
	if !mt.IsDevice() && info.Device != "" {
		return nil, sperr.New(sperr.InvalidArgument, "topic %q is a node message but carries a device id", raw)
	}
	return info, nil
}

// Build constructs a Sparkplug B topic string. deviceID may be empty for
// node-level message types.
func Build(group string, msgType MessageType, edgeNode string, deviceID string) string {
	t := Namespace + "/" + group + "/" + string(msgType) + "/" + edgeNode
	if deviceID != "" {
		t += "/" + deviceID
	}
	return t
}

// BuildState constructs the "STATE/{hostId}" topic for the given primary host id.
func BuildState(hostID string) string {
	return "STATE/" + hostID
}

// ParseState parses a "STATE/{hostId}" topic and returns the host id.
func ParseState(raw string) (string, bool) {
	const prefix = "STATE/"
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	return strings.TrimPrefix(raw, prefix), true
}
