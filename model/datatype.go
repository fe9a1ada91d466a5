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

// Package model holds the Sparkplug B in-memory data model: the typed value
// universe, metrics, payloads, and topic identifiers. It has no MQTT or
// protobuf dependency of its own — codec bridges this package to the wire.
package model

// MetricDataType is the Sparkplug B "datatype" wire code. Values match the
// Eclipse Tahu / Sparkplug B specification's data type table exactly; they
// are part of the wire protocol and must never be renumbered.
type MetricDataType uint32

const (
	Unknown MetricDataType = 0

	Int8   MetricDataType = 1
	Int16  MetricDataType = 2
	Int32  MetricDataType = 3
	Int64  MetricDataType = 4
	UInt8  MetricDataType = 5
	UInt16 MetricDataType = 6
	UInt32 MetricDataType = 7
	UInt64 MetricDataType = 8
	Float  MetricDataType = 9
	Double MetricDataType = 10

	Boolean  MetricDataType = 11
	String   MetricDataType = 12
	DateTime MetricDataType = 13
	Text     MetricDataType = 14

	UUID           MetricDataType = 15
	DataSetType    MetricDataType = 16
	Bytes          MetricDataType = 17
	File           MetricDataType = 18
	TemplateType   MetricDataType = 19
	PropertySetT   MetricDataType = 20
	PropertySetsT  MetricDataType = 21

	Int8Array      MetricDataType = 22
	Int16Array     MetricDataType = 23
	Int32Array     MetricDataType = 24
	Int64Array     MetricDataType = 25
	UInt8Array     MetricDataType = 26
	UInt16Array    MetricDataType = 27
	UInt32Array    MetricDataType = 28
	UInt64Array    MetricDataType = 29
	FloatArray     MetricDataType = 30
	DoubleArray    MetricDataType = 31
	BooleanArray   MetricDataType = 32
	StringArray    MetricDataType = 33
	DateTimeArray  MetricDataType = 34
)

func (t MetricDataType) String() string {
	switch t {
	case Unknown:
		return "Unknown"
	case Int8:
		return "Int8"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case UInt8:
		return "UInt8"
	case UInt16:
		return "UInt16"
	case UInt32:
		return "UInt32"
	case UInt64:
		return "UInt64"
	case Float:
		return "Float"
	case Double:
		return "Double"
	case Boolean:
		return "Boolean"
	case String:
		return "String"
	case DateTime:
		return "DateTime"
	case Text:
		return "Text"
	case UUID:
		return "UUID"
	case DataSetType:
		return "DataSet"
	case Bytes:
		return "Bytes"
	case File:
		return "File"
	case TemplateType:
		return "Template"
	case PropertySetT:
		return "PropertySet"
	case PropertySetsT:
		return "PropertySetList"
	case Int8Array:
		return "Int8Array"
	case Int16Array:
		return "Int16Array"
	case Int32Array:
		return "Int32Array"
	case Int64Array:
		return "Int64Array"
	case UInt8Array:
		return "UInt8Array"
	case UInt16Array:
		return "UInt16Array"
	case UInt32Array:
		return "UInt32Array"
	case UInt64Array:
		return "UInt64Array"
	case FloatArray:
		return "FloatArray"
	case DoubleArray:
		return "DoubleArray"
	case BooleanArray:
		return "BooleanArray"
	case StringArray:
		return "StringArray"
	case DateTimeArray:
		return "DateTimeArray"
	default:
		return "Unknown"
	}
}

// IsArray reports whether t is one of the packed array datatypes.
func (t MetricDataType) IsArray() bool {
	return t >= Int8Array && t <= DateTimeArray
}

// PropertyDataType is the subset of MetricDataType legal inside a
// PropertyValue: no DataSet, Template, or arrays, but PropertySet and
// PropertySetList are legal here (nested properties).
type PropertyDataType = MetricDataType

// ParameterDataType is the subset of MetricDataType legal for a Template
// Parameter: no arrays, DataSet, Template, PropertySet, or PropertySetList.
type ParameterDataType = MetricDataType

// DataSetDataType is the subset of MetricDataType legal for a DataSet
// column: scalars only, no composite or array types.
type DataSetDataType = MetricDataType

// ValidPropertyType reports whether t may appear as a PropertyValue's type.
func ValidPropertyType(t MetricDataType) bool {
	if t.IsArray() {
		return false
	}
	switch t {
	case DataSetType, TemplateType:
		return false
	default:
		return true
	}
}

// ValidParameterType reports whether t may appear as a Template Parameter's type.
func ValidParameterType(t MetricDataType) bool {
	if t.IsArray() {
		return false
	}
	switch t {
	case DataSetType, TemplateType, PropertySetT, PropertySetsT:
		return false
	default:
		return true
	}
}

// ValidDataSetColumnType reports whether t may appear as a DataSet column type.
func ValidDataSetColumnType(t MetricDataType) bool {
	if t.IsArray() {
		return false
	}
	switch t {
	case DataSetType, TemplateType, PropertySetT, PropertySetsT, File:
		return false
	default:
		return true
	}
}
