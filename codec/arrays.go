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
	"encoding/binary"
	"math"
	"time"

	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sperr"
)

// encodeArray packs raw (the Go slice matching dt's declared array type) into
// its little-endian wire byte string.
func encodeArray(dt model.MetricDataType, raw any) ([]byte, error) {
	switch dt {
	case model.Int8Array:
		vs := raw.([]int8)
		b := make([]byte, len(vs))
		for i, v := range vs {
			b[i] = byte(v)
		}
		return b, nil
	case model.UInt8Array:
		return raw.([]uint8), nil
	case model.Int16Array:
		vs := raw.([]int16)
		b := make([]byte, 2*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint16(b[2*i:], uint16(v))
		}
		return b, nil
	case model.UInt16Array:
		vs := raw.([]uint16)
		b := make([]byte, 2*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint16(b[2*i:], v)
		}
		return b, nil
	case model.Int32Array:
		vs := raw.([]int32)
		b := make([]byte, 4*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
		}
		return b, nil
	case model.UInt32Array:
		vs := raw.([]uint32)
		b := make([]byte, 4*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint32(b[4*i:], v)
		}
		return b, nil
	case model.Int64Array:
		vs := raw.([]int64)
		b := make([]byte, 8*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint64(b[8*i:], uint64(v))
		}
		return b, nil
	case model.UInt64Array:
		vs := raw.([]uint64)
		b := make([]byte, 8*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint64(b[8*i:], v)
		}
		return b, nil
	case model.FloatArray:
		vs := raw.([]float32)
		b := make([]byte, 4*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
		}
		return b, nil
	case model.DoubleArray:
		vs := raw.([]float64)
		b := make([]byte, 8*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
		}
		return b, nil
	case model.DateTimeArray:
		vs := raw.([]time.Time)
		b := make([]byte, 8*len(vs))
		for i, v := range vs {
			binary.LittleEndian.PutUint64(b[8*i:], uint64(v.UnixMilli()))
		}
		return b, nil
	case model.BooleanArray:
		return encodeBooleanArray(raw.([]bool)), nil
	case model.StringArray:
		return encodeStringArray(raw.([]string)), nil
	default:
		return nil, sperr.New(sperr.UnknownType, "not an array datatype: %s", dt)
	}
}

// decodeArray unpacks wire bytes into a model.Value of the declared array
// type, rejecting a truncated buffer as InvalidArgument.
func decodeArray(dt model.MetricDataType, b []byte) (model.Value, error) {
	switch dt {
	case model.Int8Array:
		out := make([]int8, len(b))
		for i, x := range b {
			out[i] = int8(x)
		}
		return model.VInt8Array(out), nil
	case model.UInt8Array:
		out := make([]uint8, len(b))
		copy(out, b)
		return model.VUInt8Array(out), nil
	case model.Int16Array:
		vs, err := chunked(b, 2)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]int16, len(vs))
		for i, c := range vs {
			out[i] = int16(binary.LittleEndian.Uint16(c))
		}
		return model.VInt16Array(out), nil
	case model.UInt16Array:
		vs, err := chunked(b, 2)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]uint16, len(vs))
		for i, c := range vs {
			out[i] = binary.LittleEndian.Uint16(c)
		}
		return model.VUInt16Array(out), nil
	case model.Int32Array:
		vs, err := chunked(b, 4)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]int32, len(vs))
		for i, c := range vs {
			out[i] = int32(binary.LittleEndian.Uint32(c))
		}
		return model.VInt32Array(out), nil
	case model.UInt32Array:
		vs, err := chunked(b, 4)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]uint32, len(vs))
		for i, c := range vs {
			out[i] = binary.LittleEndian.Uint32(c)
		}
		return model.VUInt32Array(out), nil
	case model.Int64Array:
		vs, err := chunked(b, 8)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]int64, len(vs))
		for i, c := range vs {
			out[i] = int64(binary.LittleEndian.Uint64(c))
		}
		return model.VInt64Array(out), nil
	case model.UInt64Array:
		vs, err := chunked(b, 8)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]uint64, len(vs))
		for i, c := range vs {
			out[i] = binary.LittleEndian.Uint64(c)
		}
		return model.VUInt64Array(out), nil
	case model.FloatArray:
		vs, err := chunked(b, 4)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]float32, len(vs))
		for i, c := range vs {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(c))
		}
		return model.VFloatArray(out), nil
	case model.DoubleArray:
		vs, err := chunked(b, 8)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]float64, len(vs))
		for i, c := range vs {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(c))
		}
		return model.VDoubleArray(out), nil
	case model.DateTimeArray:
		vs, err := chunked(b, 8)
		if err != nil {
			return model.Value{}, err
		}
		out := make([]time.Time, len(vs))
		for i, c := range vs {
			out[i] = time.UnixMilli(int64(binary.LittleEndian.Uint64(c))).UTC()
		}
		return model.VDateTimeArray(out), nil
	case model.BooleanArray:
		out, err := decodeBooleanArray(b)
		if err != nil {
			return model.Value{}, err
		}
		return model.VBooleanArray(out), nil
	case model.StringArray:
		return model.VStringArray(decodeStringArray(b)), nil
	default:
		return model.Value{}, sperr.New(sperr.UnknownType, "not an array datatype: %s", dt)
	}
}

// chunked splits b into len(b)/size pieces of size bytes, rejecting a buffer
// whose length is not a multiple of size — a truncated fixed-width array.
func chunked(b []byte, size int) ([][]byte, error) {
	if len(b)%size != 0 {
		return nil, sperr.New(sperr.InvalidArgument, "truncated array: %d bytes is not a multiple of element size %d", len(b), size)
	}
	n := len(b) / size
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		out[i] = b[i*size : (i+1)*size]
	}
	return out, nil
}

// encodeBooleanArray packs n booleans into a 4-byte little-endian element
// count followed by ceil(n/8) bytes, bit 7 (MSB) of the first byte holding
// element 0 — big-endian bit order within each byte.
func encodeBooleanArray(vs []bool) []byte {
	n := len(vs)
	out := make([]byte, 4+(n+7)/8)
	binary.LittleEndian.PutUint32(out[0:4], uint32(n))
	for i, v := range vs {
		if !v {
			continue
		}
		byteIdx := 4 + i/8
		bitIdx := 7 - (i % 8)
		out[byteIdx] |= 1 << bitIdx
	}
	return out
}

func decodeBooleanArray(b []byte) ([]bool, error) {
	if len(b) < 4 {
		return nil, sperr.New(sperr.InvalidArgument, "truncated boolean array: missing 4-byte element count")
	}
	n := int(binary.LittleEndian.Uint32(b[0:4]))
	want := 4 + (n+7)/8
	if len(b) < want {
		return nil, sperr.New(sperr.InvalidArgument, "truncated boolean array: have %d bytes, want %d for %d elements", len(b), want, n)
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		byteIdx := 4 + i/8
		bitIdx := 7 - (i % 8)
		out[i] = (b[byteIdx]>>bitIdx)&1 == 1
	}
	return out, nil
}

// encodeStringArray concatenates each string followed by a single NUL byte;
// there is no leading element count, unlike BooleanArray.
func encodeStringArray(vs []string) []byte {
	var out []byte
	for _, s := range vs {
		out = append(out, []byte(s)...)
		out = append(out, 0)
	}
	return out
}

func decodeStringArray(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	var out []string
	start := 0
	for i, c := range b {
		if c == 0 {
			out = append(out, string(b[start:i]))
			start = i + 1
		}
	}
	return out
}
