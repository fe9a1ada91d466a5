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
	"time"

	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sperr"
	"github.com/weekaung/sparkplugb-client/sproto"
)

// setMetricWireValue encodes raw (already type-checked by model.Value.Validate)
// into wm's wire oneof, applying the per-type wire rules.
func setMetricWireValue(wm *sproto.Payload_Metric, dt model.MetricDataType, raw any) error {
	switch dt {
	case model.Int8:
		wm.Value = &sproto.Payload_Metric_IntValue{IntValue: uint32(uint8(raw.(int8)))}
	case model.Int16:
		wm.Value = &sproto.Payload_Metric_IntValue{IntValue: uint32(uint16(raw.(int16)))}
	case model.Int32:
		wm.Value = &sproto.Payload_Metric_IntValue{IntValue: uint32(raw.(int32))}
	case model.UInt8:
		wm.Value = &sproto.Payload_Metric_IntValue{IntValue: uint32(raw.(uint8))}
	case model.UInt16:
		wm.Value = &sproto.Payload_Metric_IntValue{IntValue: uint32(raw.(uint16))}
	case model.UInt32:
		wm.Value = &sproto.Payload_Metric_LongValue{LongValue: uint64(raw.(uint32))}
	case model.Int64:
		wm.Value = &sproto.Payload_Metric_LongValue{LongValue: uint64(raw.(int64))}
	case model.UInt64:
		wm.Value = &sproto.Payload_Metric_LongValue{LongValue: raw.(uint64)}
	case model.Float:
		wm.Value = &sproto.Payload_Metric_FloatValue{FloatValue: raw.(float32)}
	case model.Double:
		wm.Value = &sproto.Payload_Metric_DoubleValue{DoubleValue: raw.(float64)}
	case model.Boolean:
		wm.Value = &sproto.Payload_Metric_BooleanValue{BooleanValue: raw.(bool)}
	case model.DateTime:
		wm.Value = &sproto.Payload_Metric_LongValue{LongValue: uint64(raw.(time.Time).UnixMilli())}
	case model.String, model.Text, model.UUID:
		wm.Value = &sproto.Payload_Metric_StringValue{StringValue: raw.(string)}
	case model.Bytes:
		wm.Value = &sproto.Payload_Metric_BytesValue{BytesValue: raw.([]byte)}
	case model.File:
		wm.Value = &sproto.Payload_Metric_BytesValue{BytesValue: raw.([]byte)}
		synthesizeFileMetadata(wm)
	case model.DataSetType:
		wds, err := encodeDataSet(raw.(*model.DataSet))
		if err != nil {
			return err
		}
		wm.Value = &sproto.Payload_Metric_DatasetValue{DatasetValue: wds}
	case model.TemplateType:
		wt, err := encodeTemplate(raw.(*model.Template))
		if err != nil {
			return err
		}
		wm.Value = &sproto.Payload_Metric_TemplateValue{TemplateValue: wt}
	case model.Int8Array, model.Int16Array, model.Int32Array, model.Int64Array,
		model.UInt8Array, model.UInt16Array, model.UInt32Array, model.UInt64Array,
		model.FloatArray, model.DoubleArray, model.BooleanArray, model.StringArray, model.DateTimeArray:
		packed, err := encodeArray(dt, raw)
		if err != nil {
			return err
		}
		wm.Value = &sproto.Payload_Metric_BytesValue{BytesValue: packed}
	default:
		return sperr.New(sperr.UnknownType, "unsupported datatype %s", dt)
	}
	return nil
}

// synthesizeFileMetadata ensures a File metric's MetaData carries a fileName,
// merging (never replacing) whatever metadata the caller already set.
func synthesizeFileMetadata(wm *sproto.Payload_Metric) {
	if wm.Metadata == nil {
		wm.Metadata = &sproto.Payload_MetaData{}
	}
	if wm.Metadata.FileName == nil {
		name := "file"
		if wm.Name != nil && *wm.Name != "" {
			name = *wm.Name
		}
		wm.Metadata.FileName = &name
	}
}

// getMetricWireValue decodes wm's wire oneof into a model.Value of the
// declared type dt, rejecting internally inconsistent payloads (datatype
// says one thing, the populated oneof field says another) with InvalidType.
func getMetricWireValue(wm *sproto.Payload_Metric, dt model.MetricDataType) (model.Value, error) {
	switch dt {
	case model.Int8:
		v, err := wireInt(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VInt8(int8(uint8(v))), nil
	case model.Int16:
		v, err := wireInt(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VInt16(int16(uint16(v))), nil
	case model.Int32:
		v, err := wireInt(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VInt32(int32(v)), nil
	case model.UInt8:
		v, err := wireInt(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VUInt8(uint8(v)), nil
	case model.UInt16:
		v, err := wireInt(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VUInt16(uint16(v)), nil
	case model.UInt32:
		v, err := wireLong(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VUInt32(uint32(v)), nil
	case model.Int64:
		v, err := wireLong(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VInt64(int64(v)), nil
	case model.UInt64:
		v, err := wireLong(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VUInt64(v), nil
	case model.Float:
		fv, ok := wm.Value.(*sproto.Payload_Metric_FloatValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "floatValue")
		}
		return model.VFloat(fv.FloatValue), nil
	case model.Double:
		dv, ok := wm.Value.(*sproto.Payload_Metric_DoubleValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "doubleValue")
		}
		return model.VDouble(dv.DoubleValue), nil
	case model.Boolean:
		bv, ok := wm.Value.(*sproto.Payload_Metric_BooleanValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "booleanValue")
		}
		return model.VBoolean(bv.BooleanValue), nil
	case model.DateTime:
		v, err := wireLong(wm, dt)
		if err != nil {
			return model.Value{}, err
		}
		return model.VDateTime(time.UnixMilli(int64(v)).UTC()), nil
	case model.String, model.Text, model.UUID:
		sv, ok := wm.Value.(*sproto.Payload_Metric_StringValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "stringValue")
		}
		switch dt {
		case model.Text:
			return model.VText(sv.StringValue), nil
		case model.UUID:
			return model.VUUID(sv.StringValue), nil
		default:
			return model.VString(sv.StringValue), nil
		}
	case model.Bytes, model.File:
		bv, ok := wm.Value.(*sproto.Payload_Metric_BytesValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "bytesValue")
		}
		if dt == model.File {
			return model.VFile(bv.BytesValue), nil
		}
		return model.VBytes(bv.BytesValue), nil
	case model.DataSetType:
		dsv, ok := wm.Value.(*sproto.Payload_Metric_DatasetValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "datasetValue")
		}
		ds, err := decodeDataSet(dsv.DatasetValue)
		if err != nil {
			return model.Value{}, err
		}
		return model.VDataSet(ds), nil
	case model.TemplateType:
		tv, ok := wm.Value.(*sproto.Payload_Metric_TemplateValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "templateValue")
		}
		t, err := decodeTemplate(tv.TemplateValue)
		if err != nil {
			return model.Value{}, err
		}
		return model.VTemplate(t), nil
	case model.Int8Array, model.Int16Array, model.Int32Array, model.Int64Array,
		model.UInt8Array, model.UInt16Array, model.UInt32Array, model.UInt64Array,
		model.FloatArray, model.DoubleArray, model.BooleanArray, model.StringArray, model.DateTimeArray:
		bv, ok := wm.Value.(*sproto.Payload_Metric_BytesValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "bytesValue")
		}
		return decodeArray(dt, bv.BytesValue)
	default:
		return model.Value{}, sperr.New(sperr.UnknownType, "unsupported datatype %s", dt)
	}
}

func wireInt(wm *sproto.Payload_Metric, dt model.MetricDataType) (uint32, error) {
	iv, ok := wm.Value.(*sproto.Payload_Metric_IntValue)
	if !ok {
		return 0, typeMismatch(dt, "intValue")
	}
	return iv.IntValue, nil
}

func wireLong(wm *sproto.Payload_Metric, dt model.MetricDataType) (uint64, error) {
	lv, ok := wm.Value.(*sproto.Payload_Metric_LongValue)
	if !ok {
		return 0, typeMismatch(dt, "longValue")
	}
	return lv.LongValue, nil
}

func typeMismatch(dt model.MetricDataType, wantField string) error {
	return sperr.New(sperr.InvalidType, "datatype %s requires wire field %s to be set", dt, wantField)
}
