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

// Package codec bridges the model package to the Sparkplug B protobuf wire
// schema generated by github.com/weekaung/sparkplugb-client/sproto, applying
// the per-type wire rules of the Sparkplug B specification: zero-extended
// unsigned ingress, two's-complement signed ingress, little-endian packed
// arrays, and merge-not-replace MetaData for File metrics.
//
// Encoder and Decoder are stateless and safe for concurrent use; all state
// lives in the arguments and return values of Encode/Decode.
package codec

import (
	"google.golang.org/protobuf/proto"

	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sperr"
	"github.com/weekaung/sparkplugb-client/sproto"
)

// Encoder turns a model.SparkplugBPayload into wire bytes.
type Encoder struct{}

// Decoder turns wire bytes into a model.SparkplugBPayload.
type Decoder struct{}

// Encode serializes payload to its protobuf wire form.
func (Encoder) Encode(payload *model.SparkplugBPayload) ([]byte, error) {
	wire, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}
	b, err := proto.Marshal(wire)
	if err != nil {
		return nil, sperr.Wrap(sperr.Internal, err, "protobuf marshal failed")
	}
	return b, nil
}

// Decode parses wire bytes into a model.SparkplugBPayload. Unknown protobuf
// fields are tolerated (forward compatibility); internally inconsistent
// typed values (e.g. datatype=Int32 with only DoubleValue set) are rejected.
func (Decoder) Decode(data []byte) (*model.SparkplugBPayload, error) {
	var wire sproto.Payload
	if err := proto.Unmarshal(data, &wire); err != nil {
		return nil, sperr.Wrap(sperr.InvalidArgument, err, "protobuf unmarshal failed")
	}
	return decodePayload(&wire)
}

func encodePayload(p *model.SparkplugBPayload) (*sproto.Payload, error) {
	wire := &sproto.Payload{
		Timestamp: p.Timestamp,
		UUID:      p.UUID,
		Body:      p.Body,
	}
	if p.Seq != nil {
		seq := uint64(*p.Seq)
		wire.Seq = &seq
	}
	for i, m := range p.Metrics {
		wm, err := encodeMetric(m)
		if err != nil {
			return nil, sperr.Wrap(sperr.KindOf(err), err, "metric %d (%s)", i, m.NameOrEmpty())
		}
		wire.Metrics = append(wire.Metrics, wm)
	}
	return wire, nil
}

func decodePayload(wire *sproto.Payload) (*model.SparkplugBPayload, error) {
	p := &model.SparkplugBPayload{
		Timestamp: wire.Timestamp,
		UUID:      wire.UUID,
		Body:      wire.Body,
	}
	if wire.Seq != nil {
		if *wire.Seq > 255 {
			return nil, sperr.New(sperr.OutOfRange, "seq %d out of range [0,255]", *wire.Seq)
		}
		seq := uint8(*wire.Seq)
		p.Seq = &seq
	}
	for i, wm := range wire.Metrics {
		m, err := decodeMetric(wm)
		if err != nil {
			return nil, sperr.Wrap(sperr.KindOf(err), err, "metric %d", i)
		}
		p.Metrics = append(p.Metrics, m)
	}
	return p, nil
}

// EncodeMetric converts a single model.Metric to its wire representation.
// Exported for the Template recursion and for unit tests.
func EncodeMetric(m *model.Metric) (*sproto.Payload_Metric, error) {
	return encodeMetric(m)
}

// DecodeMetric converts a single wire metric back to the model. Exported for
// the Template recursion and for unit tests.
func DecodeMetric(wm *sproto.Payload_Metric) (*model.Metric, error) {
	return decodeMetric(wm)
}

func encodeMetric(m *model.Metric) (*sproto.Payload_Metric, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	dt := uint32(m.DataType)
	wm := &sproto.Payload_Metric{
		Name:         m.Name,
		Alias:        m.Alias,
		Timestamp:    m.Timestamp,
		Datatype:     &dt,
		IsHistorical: optBool(m.IsHistorical),
		IsTransient:  optBool(m.IsTransient),
		IsNull:       optBool(m.IsNull),
	}
	if m.MetaData != nil {
		wm.Metadata = encodeMetaData(m.MetaData)
	}
	if m.Properties != nil {
		wm.Properties = encodePropertySet(m.Properties)
	}
	if m.Value.IsNull() {
		return wm, nil
	}
	if err := setMetricWireValue(wm, m.DataType, m.Value.Raw); err != nil {
		return nil, err
	}
	return wm, nil
}

func decodeMetric(wm *sproto.Payload_Metric) (*model.Metric, error) {
	if wm.Datatype == nil {
		return nil, sperr.New(sperr.UnknownType, "metric has no datatype field")
	}
	dt := model.MetricDataType(*wm.Datatype)

	m := &model.Metric{
		Name:      wm.Name,
		Alias:     wm.Alias,
		Timestamp: wm.Timestamp,
		DataType:  dt,
	}
	if wm.IsHistorical != nil {
		m.IsHistorical = *wm.IsHistorical
	}
	if wm.IsTransient != nil {
		m.IsTransient = *wm.IsTransient
	}
	if wm.IsNull != nil {
		m.IsNull = *wm.IsNull
	}
	if wm.Metadata != nil {
		m.MetaData = decodeMetaData(wm.Metadata)
	}
	if wm.Properties != nil {
		ps, err := decodePropertySet(wm.Properties)
		if err != nil {
			return nil, err
		}
		m.Properties = ps
	}

	if m.IsNull {
		m.Value = model.None(dt)
		return m, nil
	}

	v, err := getMetricWireValue(wm, dt)
	if err != nil {
		return nil, err
	}
	m.Value = v
	return m, nil
}

func encodeMetaData(md *model.MetaData) *sproto.Payload_MetaData {
	return &sproto.Payload_MetaData{
		ContentType: md.ContentType,
		Size:        md.Size,
		Seq:         md.Seq,
		FileName:    md.FileName,
		FileType:    md.FileType,
		Md5:         md.MD5,
		Description: md.Description,
		IsMultiPart: md.IsMultiPart,
	}
}

func decodeMetaData(wmd *sproto.Payload_MetaData) *model.MetaData {
	return &model.MetaData{
		ContentType: wmd.ContentType,
		Size:        wmd.Size,
		Seq:         wmd.Seq,
		FileName:    wmd.FileName,
		FileType:    wmd.FileType,
		MD5:         wmd.Md5,
		Description: wmd.Description,
		IsMultiPart: wmd.IsMultiPart,
	}
}

func optBool(b bool) *bool {
	if !b {
		return nil
	}
	v := b
	return &v
}

