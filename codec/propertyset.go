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
	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sperr"
	"github.com/weekaung/sparkplugb-client/sproto"
)

func encodePropertySet(ps *model.PropertySet) *sproto.Payload_PropertySet {
	wps := &sproto.Payload_PropertySet{}
	ps.Range(func(key string, pv model.PropertyValue) {
		wps.Keys = append(wps.Keys, key)
		wps.Values = append(wps.Values, encodePropertyValue(pv))
	})
	return wps
}

func encodePropertyValue(pv model.PropertyValue) *sproto.Payload_PropertyValue {
	t := uint32(pv.Type)
	wv := &sproto.Payload_PropertyValue{Type: &t}
	if pv.IsNull {
		n := true
		wv.IsNull = &n
		return wv
	}
	switch pv.Type {
	case model.Int8:
		wv.Value = &sproto.Payload_PropertyValue_IntValue{IntValue: uint32(uint8(pv.Value.Raw.(int8)))}
	case model.Int16:
		wv.Value = &sproto.Payload_PropertyValue_IntValue{IntValue: uint32(uint16(pv.Value.Raw.(int16)))}
	case model.Int32:
		wv.Value = &sproto.Payload_PropertyValue_IntValue{IntValue: uint32(pv.Value.Raw.(int32))}
	case model.UInt8:
		wv.Value = &sproto.Payload_PropertyValue_IntValue{IntValue: uint32(pv.Value.Raw.(uint8))}
	case model.UInt16:
		wv.Value = &sproto.Payload_PropertyValue_IntValue{IntValue: uint32(pv.Value.Raw.(uint16))}
	case model.UInt32:
		wv.Value = &sproto.Payload_PropertyValue_LongValue{LongValue: uint64(pv.Value.Raw.(uint32))}
	case model.Int64:
		wv.Value = &sproto.Payload_PropertyValue_LongValue{LongValue: uint64(pv.Value.Raw.(int64))}
	case model.UInt64:
		wv.Value = &sproto.Payload_PropertyValue_LongValue{LongValue: pv.Value.Raw.(uint64)}
	case model.Float:
		wv.Value = &sproto.Payload_PropertyValue_FloatValue{FloatValue: pv.Value.Raw.(float32)}
	case model.Double:
		wv.Value = &sproto.Payload_PropertyValue_DoubleValue{DoubleValue: pv.Value.Raw.(float64)}
	case model.Boolean:
		wv.Value = &sproto.Payload_PropertyValue_BooleanValue{BooleanValue: pv.Value.Raw.(bool)}
	case model.String, model.Text, model.UUID:
		wv.Value = &sproto.Payload_PropertyValue_StringValue{StringValue: pv.Value.Raw.(string)}
	case model.PropertySetT:
		wv.Value = &sproto.Payload_PropertyValue_PropertysetValue{PropertysetValue: encodePropertySet(pv.Value.Raw.(*model.PropertySet))}
	case model.PropertySetsT:
		wv.Value = &sproto.Payload_PropertyValue_PropertysetsValue{PropertysetsValue: encodePropertySetList(pv.Value.Raw.(*model.PropertySetList))}
	}
	return wv
}

func encodePropertySetList(l *model.PropertySetList) *sproto.Payload_PropertySetList {
	out := &sproto.Payload_PropertySetList{}
	for _, ps := range l.Sets {
		out.Propertyset = append(out.Propertyset, encodePropertySet(ps))
	}
	return out
}

func decodePropertySet(wps *sproto.Payload_PropertySet) (*model.PropertySet, error) {
	if len(wps.Keys) != len(wps.Values) {
		return nil, sperr.New(sperr.InvalidArgument, "property set keys/values length mismatch: %d keys, %d values", len(wps.Keys), len(wps.Values))
	}
	ps := model.NewPropertySet()
	for i, k := range wps.Keys {
		pv, err := decodePropertyValue(wps.Values[i])
		if err != nil {
			return nil, sperr.Wrap(sperr.KindOf(err), err, "property %q", k)
		}
		ps.Set(k, pv)
	}
	return ps, nil
}

func decodePropertyValue(wv *sproto.Payload_PropertyValue) (model.PropertyValue, error) {
	if wv.Type == nil {
		return model.PropertyValue{}, sperr.New(sperr.UnknownType, "property value has no type field")
	}
	t := model.PropertyDataType(*wv.Type)
	if wv.IsNull != nil && *wv.IsNull {
		return model.PropertyValue{Type: t, IsNull: true, Value: model.None(t)}, nil
	}

	var val model.Value
	switch t {
	case model.Int8:
		iv, ok := wv.Value.(*sproto.Payload_PropertyValue_IntValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "intValue")
		}
		val = model.VInt8(int8(uint8(iv.IntValue)))
	case model.Int16:
		iv, ok := wv.Value.(*sproto.Payload_PropertyValue_IntValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "intValue")
		}
		val = model.VInt16(int16(uint16(iv.IntValue)))
	case model.Int32:
		iv, ok := wv.Value.(*sproto.Payload_PropertyValue_IntValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "intValue")
		}
		val = model.VInt32(int32(iv.IntValue))
	case model.UInt8:
		iv, ok := wv.Value.(*sproto.Payload_PropertyValue_IntValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "intValue")
		}
		val = model.VUInt8(uint8(iv.IntValue))
	case model.UInt16:
		iv, ok := wv.Value.(*sproto.Payload_PropertyValue_IntValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "intValue")
		}
		val = model.VUInt16(uint16(iv.IntValue))
	case model.UInt32:
		lv, ok := wv.Value.(*sproto.Payload_PropertyValue_LongValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "longValue")
		}
		val = model.VUInt32(uint32(lv.LongValue))
	case model.Int64:
		lv, ok := wv.Value.(*sproto.Payload_PropertyValue_LongValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "longValue")
		}
		val = model.VInt64(int64(lv.LongValue))
	case model.UInt64:
		lv, ok := wv.Value.(*sproto.Payload_PropertyValue_LongValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "longValue")
		}
		val = model.VUInt64(lv.LongValue)
	case model.Float:
		fv, ok := wv.Value.(*sproto.Payload_PropertyValue_FloatValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "floatValue")
		}
		val = model.VFloat(fv.FloatValue)
	case model.Double:
		dv, ok := wv.Value.(*sproto.Payload_PropertyValue_DoubleValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "doubleValue")
		}
		val = model.VDouble(dv.DoubleValue)
	case model.Boolean:
		bv, ok := wv.Value.(*sproto.Payload_PropertyValue_BooleanValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "booleanValue")
		}
		val = model.VBoolean(bv.BooleanValue)
	case model.String, model.Text, model.UUID:
		sv, ok := wv.Value.(*sproto.Payload_PropertyValue_StringValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "stringValue")
		}
		val = model.Value{Type: t, Raw: sv.StringValue}
	case model.PropertySetT:
		psv, ok := wv.Value.(*sproto.Payload_PropertyValue_PropertysetValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "propertysetValue")
		}
		nested, err := decodePropertySet(psv.PropertysetValue)
		if err != nil {
			return model.PropertyValue{}, err
		}
		val = model.Value{Type: t, Raw: nested}
	case model.PropertySetsT:
		lv, ok := wv.Value.(*sproto.Payload_PropertyValue_PropertysetsValue)
		if !ok {
			return model.PropertyValue{}, typeMismatch(t, "propertysetsValue")
		}
		list := &model.PropertySetList{}
		for _, wps := range lv.PropertysetsValue.Propertyset {
			nested, err := decodePropertySet(wps)
			if err != nil {
				return model.PropertyValue{}, err
			}
			list.Sets = append(list.Sets, nested)
		}
		val = model.Value{Type: t, Raw: list}
	default:
		return model.PropertyValue{}, sperr.New(sperr.UnknownType, "unsupported property datatype %s", t)
	}
	return model.PropertyValue{Type: t, Value: val}, nil
}
