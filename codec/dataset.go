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

func encodeDataSet(ds *model.DataSet) (*sproto.Payload_DataSet, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	wds := &sproto.Payload_DataSet{
		NumOfColumns: &ds.NumOfColumns,
		Columns:      ds.ColumnNames,
	}
	for _, t := range ds.ColumnTypes {
		dt := uint32(t)
		wds.Types = append(wds.Types, dt)
	}
	for _, row := range ds.Rows {
		wrow := &sproto.Payload_DataSet_Row{}
		for ci, v := range row.Values {
			wv, err := encodeDataSetValue(ds.ColumnTypes[ci], v.Raw)
			if err != nil {
				return nil, err
			}
			wrow.Elements = append(wrow.Elements, wv)
		}
		wds.Rows = append(wds.Rows, wrow)
	}
	return wds, nil
}

func encodeDataSetValue(dt model.DataSetDataType, raw any) (*sproto.Payload_DataSet_DataSetValue, error) {
	wv := &sproto.Payload_DataSet_DataSetValue{}
	switch dt {
	case model.Int8:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_IntValue{IntValue: uint32(uint8(raw.(int8)))}
	case model.Int16:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_IntValue{IntValue: uint32(uint16(raw.(int16)))}
	case model.Int32:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_IntValue{IntValue: uint32(raw.(int32))}
	case model.UInt8:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_IntValue{IntValue: uint32(raw.(uint8))}
	case model.UInt16:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_IntValue{IntValue: uint32(raw.(uint16))}
	case model.UInt32:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_LongValue{LongValue: uint64(raw.(uint32))}
	case model.Int64:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_LongValue{LongValue: uint64(raw.(int64))}
	case model.UInt64:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_LongValue{LongValue: raw.(uint64)}
	case model.DateTime:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_LongValue{LongValue: uint64(raw.(time.Time).UnixMilli())}
	case model.Float:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_FloatValue{FloatValue: raw.(float32)}
	case model.Double:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_DoubleValue{DoubleValue: raw.(float64)}
	case model.Boolean:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_BooleanValue{BooleanValue: raw.(bool)}
	case model.String, model.Text, model.UUID:
		wv.Value = &sproto.Payload_DataSet_DataSetValue_StringValue{StringValue: raw.(string)}
	default:
		return nil, sperr.New(sperr.UnknownType, "invalid dataset column datatype %s", dt)
	}
	return wv, nil
}

func decodeDataSet(wds *sproto.Payload_DataSet) (*model.DataSet, error) {
	ds := &model.DataSet{
		ColumnNames: wds.Columns,
	}
	if wds.NumOfColumns != nil {
		ds.NumOfColumns = *wds.NumOfColumns
	}
	for _, t := range wds.Types {
		ds.ColumnTypes = append(ds.ColumnTypes, model.DataSetDataType(t))
	}
	for ri, wrow := range wds.Rows {
		if len(wrow.Elements) != len(ds.ColumnTypes) {
			return nil, sperr.New(sperr.InvalidArgument, "dataset row %d has %d elements, want %d", ri, len(wrow.Elements), len(ds.ColumnTypes))
		}
		row := model.Row{Values: make([]model.Value, len(wrow.Elements))}
		for ci, wv := range wrow.Elements {
			v, err := decodeDataSetValue(ds.ColumnTypes[ci], wv)
			if err != nil {
				return nil, sperr.Wrap(sperr.KindOf(err), err, "dataset row %d column %d", ri, ci)
			}
			row.Values[ci] = v
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func decodeDataSetValue(dt model.DataSetDataType, wv *sproto.Payload_DataSet_DataSetValue) (model.Value, error) {
	switch dt {
	case model.Int8:
		iv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_IntValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "intValue")
		}
		return model.VInt8(int8(uint8(iv.IntValue))), nil
	case model.Int16:
		iv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_IntValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "intValue")
		}
		return model.VInt16(int16(uint16(iv.IntValue))), nil
	case model.Int32:
		iv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_IntValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "intValue")
		}
		return model.VInt32(int32(iv.IntValue)), nil
	case model.UInt8:
		iv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_IntValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "intValue")
		}
		return model.VUInt8(uint8(iv.IntValue)), nil
	case model.UInt16:
		iv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_IntValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "intValue")
		}
		return model.VUInt16(uint16(iv.IntValue)), nil
	case model.UInt32:
		lv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_LongValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "longValue")
		}
		return model.VUInt32(uint32(lv.LongValue)), nil
	case model.Int64:
		lv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_LongValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "longValue")
		}
		return model.VInt64(int64(lv.LongValue)), nil
	case model.UInt64:
		lv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_LongValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "longValue")
		}
		return model.VUInt64(lv.LongValue), nil
	case model.DateTime:
		lv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_LongValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "longValue")
		}
		return model.VDateTime(time.UnixMilli(int64(lv.LongValue)).UTC()), nil
	case model.Float:
		fv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_FloatValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "floatValue")
		}
		return model.VFloat(fv.FloatValue), nil
	case model.Double:
		dv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_DoubleValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "doubleValue")
		}
		return model.VDouble(dv.DoubleValue), nil
	case model.Boolean:
		bv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_BooleanValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "booleanValue")
		}
		return model.VBoolean(bv.BooleanValue), nil
	case model.String, model.Text, model.UUID:
		sv, ok := wv.Value.(*sproto.Payload_DataSet_DataSetValue_StringValue)
		if !ok {
			return model.Value{}, typeMismatch(dt, "stringValue")
		}
		return model.Value{Type: dt, Raw: sv.StringValue}, nil
	default:
		return model.Value{}, sperr.New(sperr.UnknownType, "invalid dataset column datatype %s", dt)
	}
}
