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
	"strings"
	"time"

	"github.com/dickcha/tahu/sperr"
)

// Value is a tagged variant over MetricDataType: exactly one Go shape is
// legal for a given Type, and Validate enforces it. A None value (Raw == nil)
// is legal for any Type and is carried on the wire via the isNull flag.
type Value struct {
	Type MetricDataType
	Raw  any
}

// None returns a null value declared as datatype t.
func None(t MetricDataType) Value { return Value{Type: t} }

func VInt8(v int8) Value       { return Value{Type: Int8, Raw: v} }
func VInt16(v int16) Value     { return Value{Type: Int16, Raw: v} }
func VInt32(v int32) Value     { return Value{Type: Int32, Raw: v} }
func VInt64(v int64) Value     { return Value{Type: Int64, Raw: v} }
func VUInt8(v uint8) Value     { return Value{Type: UInt8, Raw: v} }
func VUInt16(v uint16) Value   { return Value{Type: UInt16, Raw: v} }
func VUInt32(v uint32) Value   { return Value{Type: UInt32, Raw: v} }
func VUInt64(v uint64) Value   { return Value{Type: UInt64, Raw: v} }
func VFloat(v float32) Value   { return Value{Type: Float, Raw: v} }
func VDouble(v float64) Value  { return Value{Type: Double, Raw: v} }
func VBoolean(v bool) Value    { return Value{Type: Boolean, Raw: v} }
func VString(v string) Value   { return Value{Type: String, Raw: v} }
func VText(v string) Value     { return Value{Type: Text, Raw: v} }
func VUUID(v string) Value     { return Value{Type: UUID, Raw: v} }
func VDateTime(v time.Time) Value { return Value{Type: DateTime, Raw: v} }
func VBytes(v []byte) Value    { return Value{Type: Bytes, Raw: v} }
func VFile(v []byte) Value     { return Value{Type: File, Raw: v} }
func VDataSet(v *DataSet) Value   { return Value{Type: DataSetType, Raw: v} }
func VTemplate(v *Template) Value { return Value{Type: TemplateType, Raw: v} }

func VInt8Array(v []int8) Value        { return Value{Type: Int8Array, Raw: v} }
func VInt16Array(v []int16) Value      { return Value{Type: Int16Array, Raw: v} }
func VInt32Array(v []int32) Value      { return Value{Type: Int32Array, Raw: v} }
func VInt64Array(v []int64) Value      { return Value{Type: Int64Array, Raw: v} }
func VUInt8Array(v []uint8) Value      { return Value{Type: UInt8Array, Raw: v} }
func VUInt16Array(v []uint16) Value    { return Value{Type: UInt16Array, Raw: v} }
func VUInt32Array(v []uint32) Value    { return Value{Type: UInt32Array, Raw: v} }
func VUInt64Array(v []uint64) Value    { return Value{Type: UInt64Array, Raw: v} }
func VFloatArray(v []float32) Value    { return Value{Type: FloatArray, Raw: v} }
func VDoubleArray(v []float64) Value   { return Value{Type: DoubleArray, Raw: v} }
func VBooleanArray(v []bool) Value     { return Value{Type: BooleanArray, Raw: v} }
func VStringArray(v []string) Value    { return Value{Type: StringArray, Raw: v} }
func VDateTimeArray(v []time.Time) Value { return Value{Type: DateTimeArray, Raw: v} }

// IsNull reports whether the value carries no data (encoded via the isNull flag).
func (v Value) IsNull() bool { return v.Raw == nil }

// Validate checks that Raw's runtime shape matches Type, per spec: "a value's
// runtime shape must match its declared datatype; encoding fails with
// InvalidType otherwise." A null value of any declared type is always legal.
func (v Value) Validate() error {
	if v.Raw == nil {
		return nil
	}
	ok := false
	switch v.Type {
	case Int8:
		_, ok = v.Raw.(int8)
	case Int16:
		_, ok = v.Raw.(int16)
	case Int32:
		_, ok = v.Raw.(int32)
	case Int64:
		_, ok = v.Raw.(int64)
	case UInt8:
		_, ok = v.Raw.(uint8)
	case UInt16:
		_, ok = v.Raw.(uint16)
	case UInt32:
		_, ok = v.Raw.(uint32)
	case UInt64:
		_, ok = v.Raw.(uint64)
	case Float:
		_, ok = v.Raw.(float32)
	case Double:
		_, ok = v.Raw.(float64)
	case Boolean:
		_, ok = v.Raw.(bool)
	case String, Text, UUID:
		_, ok = v.Raw.(string)
	case DateTime:
		_, ok = v.Raw.(time.Time)
	case Bytes, File:
		_, ok = v.Raw.([]byte)
	case DataSetType:
		_, ok = v.Raw.(*DataSet)
	case TemplateType:
		_, ok = v.Raw.(*Template)
	case Int8Array:
		_, ok = v.Raw.([]int8)
	case Int16Array:
		_, ok = v.Raw.([]int16)
	case Int32Array:
		_, ok = v.Raw.([]int32)
	case Int64Array:
		_, ok = v.Raw.([]int64)
	case UInt8Array:
		_, ok = v.Raw.([]uint8)
	case UInt16Array:
		_, ok = v.Raw.([]uint16)
	case UInt32Array:
		_, ok = v.Raw.([]uint32)
	case UInt64Array:
		_, ok = v.Raw.([]uint64)
	case FloatArray:
		_, ok = v.Raw.([]float32)
	case DoubleArray:
		_, ok = v.Raw.([]float64)
	case BooleanArray:
		_, ok = v.Raw.([]bool)
	case StringArray:
		_, ok = v.Raw.([]string)
	case DateTimeArray:
		_, ok = v.Raw.([]time.Time)
	case Unknown:
		return sperr.New(sperr.UnknownType, "value declared with Unknown datatype")
	default:
		return sperr.New(sperr.UnknownType, "unrecognized datatype %d", v.Type)
	}
	if !ok {
		return sperr.New(sperr.InvalidType, "value of Go type %T does not match declared datatype %s", v.Raw, v.Type)
	}
	return nil
}

// ToBoolean applies the Sparkplug legacy/property coercion rule: numeric 0 is
// false, any other number is true; strings are parsed case-insensitively as
// "true"/"false"; anything else is rejected.
func ToBoolean(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int8:
		return x != 0, nil
	case int16:
		return x != 0, nil
	case int32:
		return x != 0, nil
	case int64:
		return x != 0, nil
	case uint8:
		return x != 0, nil
	case uint16:
		return x != 0, nil
	case uint32:
		return x != 0, nil
	case uint64:
		return x != 0, nil
	case float32:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case string:
		switch {
		case strings.EqualFold(x, "true"):
			return true, nil
		case strings.EqualFold(x, "false"):
			return false, nil
		default:
			return false, sperr.New(sperr.InvalidType, "cannot coerce string %q to boolean", x)
		}
	default:
		return false, sperr.New(sperr.InvalidType, "cannot coerce %T to boolean", v)
	}
}
