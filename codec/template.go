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

func encodeTemplate(t *model.Template) (*sproto.Payload_Template, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	wt := &sproto.Payload_Template{
		IsDefinition: &t.IsDefinition,
		Version:      t.Version,
		TemplateRef:  t.TemplateRef,
	}
	for i, m := range t.Metrics {
		wm, err := encodeMetric(m)
		if err != nil {
			return nil, sperr.Wrap(sperr.KindOf(err), err, "template metric %d (%s)", i, m.NameOrEmpty())
		}
		wt.Metrics = append(wt.Metrics, wm)
	}
	for _, p := range t.Parameters {
		wp, err := encodeParameter(p)
		if err != nil {
			return nil, err
		}
		wt.Parameters = append(wt.Parameters, wp)
	}
	return wt, nil
}

func encodeParameter(p model.Parameter) (*sproto.Payload_Template_Parameter, error) {
	dt := uint32(p.Type)
	wp := &sproto.Payload_Template_Parameter{
		Name: &p.Name,
		Type: &dt,
	}
	switch p.Type {
	case model.Int8:
		wp.Value = &sproto.Payload_Template_Parameter_IntValue{IntValue: uint32(uint8(p.Value.Raw.(int8)))}
	case model.Int16:
		wp.Value = &sproto.Payload_Template_Parameter_IntValue{IntValue: uint32(uint16(p.Value.Raw.(int16)))}
	case model.Int32:
		wp.Value = &sproto.Payload_Template_Parameter_IntValue{IntValue: uint32(p.Value.Raw.(int32))}
	case model.UInt8:
		wp.Value = &sproto.Payload_Template_Parameter_IntValue{IntValue: uint32(p.Value.Raw.(uint8))}
	case model.UInt16:
		wp.Value = &sproto.Payload_Template_Parameter_IntValue{IntValue: uint32(p.Value.Raw.(uint16))}
	case model.UInt32:
		wp.Value = &sproto.Payload_Template_Parameter_LongValue{LongValue: uint64(p.Value.Raw.(uint32))}
	case model.Int64:
		wp.Value = &sproto.Payload_Template_Parameter_LongValue{LongValue: uint64(p.Value.Raw.(int64))}
	case model.UInt64:
		wp.Value = &sproto.Payload_Template_Parameter_LongValue{LongValue: p.Value.Raw.(uint64)}
	case model.Float:
		wp.Value = &sproto.Payload_Template_Parameter_FloatValue{FloatValue: p.Value.Raw.(float32)}
	case model.Double:
		wp.Value = &sproto.Payload_Template_Parameter_DoubleValue{DoubleValue: p.Value.Raw.(float64)}
	case model.Boolean:
		wp.Value = &sproto.Payload_Template_Parameter_BooleanValue{BooleanValue: p.Value.Raw.(bool)}
	case model.String, model.Text, model.UUID:
		wp.Value = &sproto.Payload_Template_Parameter_StringValue{StringValue: p.Value.Raw.(string)}
	default:
		return nil, sperr.New(sperr.UnknownType, "invalid template parameter datatype %s", p.Type)
	}
	return wp, nil
}

func decodeTemplate(wt *sproto.Payload_Template) (*model.Template, error) {
	t := &model.Template{
		Version:     wt.Version,
		TemplateRef: wt.TemplateRef,
	}
	if wt.IsDefinition != nil {
		t.IsDefinition = *wt.IsDefinition
	}
	for i, wm := range wt.Metrics {
		m, err := decodeMetric(wm)
		if err != nil {
			return nil, sperr.Wrap(sperr.KindOf(err), err, "template metric %d", i)
		}
		t.Metrics = append(t.Metrics, m)
	}
	for i, wp := range wt.Parameters {
		p, err := decodeParameter(wp)
		if err != nil {
			return nil, sperr.Wrap(sperr.KindOf(err), err, "template parameter %d", i)
		}
		t.Parameters = append(t.Parameters, p)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeParameter(wp *sproto.Payload_Template_Parameter) (model.Parameter, error) {
	if wp.Type == nil {
		return model.Parameter{}, sperr.New(sperr.UnknownType, "template parameter has no type field")
	}
	dt := model.ParameterDataType(*wp.Type)
	p := model.Parameter{Type: dt}
	if wp.Name != nil {
		p.Name = *wp.Name
	}

	switch dt {
	case model.Int8:
		iv, ok := wp.Value.(*sproto.Payload_Template_Parameter_IntValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "intValue")
		}
		p.Value = model.VInt8(int8(uint8(iv.IntValue)))
	case model.Int16:
		iv, ok := wp.Value.(*sproto.Payload_Template_Parameter_IntValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "intValue")
		}
		p.Value = model.VInt16(int16(uint16(iv.IntValue)))
	case model.Int32:
		iv, ok := wp.Value.(*sproto.Payload_Template_Parameter_IntValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "intValue")
		}
		p.Value = model.VInt32(int32(iv.IntValue))
	case model.UInt8:
		iv, ok := wp.Value.(*sproto.Payload_Template_Parameter_IntValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "intValue")
		}
		p.Value = model.VUInt8(uint8(iv.IntValue))
	case model.UInt16:
		iv, ok := wp.Value.(*sproto.Payload_Template_Parameter_IntValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "intValue")
		}
		p.Value = model.VUInt16(uint16(iv.IntValue))
	case model.UInt32:
		lv, ok := wp.Value.(*sproto.Payload_Template_Parameter_LongValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "longValue")
		}
		p.Value = model.VUInt32(uint32(lv.LongValue))
	case model.Int64:
		lv, ok := wp.Value.(*sproto.Payload_Template_Parameter_LongValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "longValue")
		}
		p.Value = model.VInt64(int64(lv.LongValue))
	case model.UInt64:
		lv, ok := wp.Value.(*sproto.Payload_Template_Parameter_LongValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "longValue")
		}
		p.Value = model.VUInt64(lv.LongValue)
	case model.Float:
		fv, ok := wp.Value.(*sproto.Payload_Template_Parameter_FloatValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "floatValue")
		}
		p.Value = model.VFloat(fv.FloatValue)
	case model.Double:
		dv, ok := wp.Value.(*sproto.Payload_Template_Parameter_DoubleValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "doubleValue")
		}
		p.Value = model.VDouble(dv.DoubleValue)
	case model.Boolean:
		bv, ok := wp.Value.(*sproto.Payload_Template_Parameter_BooleanValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "booleanValue")
		}
		p.Value = model.VBoolean(bv.BooleanValue)
	case model.String, model.Text, model.UUID:
		sv, ok := wp.Value.(*sproto.Payload_Template_Parameter_StringValue)
		if !ok {
			return model.Parameter{}, typeMismatch(dt, "stringValue")
		}
		p.Value = model.Value{Type: dt, Raw: sv.StringValue}
	default:
		return model.Parameter{}, sperr.New(sperr.UnknownType, "invalid template parameter datatype %s", dt)
	}
	return p, nil
}
