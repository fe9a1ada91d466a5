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

// MetaData carries the optional descriptive fields Sparkplug B allows on a
// metric, most commonly used with File and DataSet metrics.
type MetaData struct {
	ContentType *string
	Size        *uint64
	Seq         *uint64
	FileName    *string
	FileType    *string
	MD5         *string
	Description *string
	IsMultiPart *bool
}

// Merge overlays non-nil fields of other onto m, returning m. The codec's
// File fileName synthesis works on the wire MetaData and does not call it.
func (m *MetaData) Merge(other *MetaData) *MetaData {
	if other == nil {
		return m
	}
	if other.ContentType != nil {
		m.ContentType = other.ContentType
	}
	if other.Size != nil {
		m.Size = other.Size
	}
	if other.Seq != nil {
		m.Seq = other.Seq
	}
	if other.FileName != nil {
		m.FileName = other.FileName
	}
	if other.FileType != nil {
		m.FileType = other.FileType
	}
	if other.MD5 != nil {
		m.MD5 = other.MD5
	}
	if other.Description != nil {
		m.Description = other.Description
	}
	if other.IsMultiPart != nil {
		m.IsMultiPart = other.IsMultiPart
	}
	return m
}
