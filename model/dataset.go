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

import "github.com/dickcha/tahu/sperr"

// Row is one row of a DataSet: a vector of values whose types must equal the
// owning DataSet's ColumnTypes positionally.
type Row struct {
	Values []Value
}

// DataSet is a Sparkplug B tabular metric value.
type DataSet struct {
	NumOfColumns int64
	ColumnNames  []string
	ColumnTypes  []DataSetDataType
	Rows         []Row
}

// Validate checks the structural invariants a well-formed dataset must
// satisfy: NumOfColumns, len(ColumnNames), and len(ColumnTypes) agree, every
// column type is a legal scalar DataSet type, and every row's value types
// match ColumnTypes positionally.
func (d *DataSet) Validate() error {
	n := int(d.NumOfColumns)
	if len(d.ColumnNames) != n || len(d.ColumnTypes) != n {
		return sperr.New(sperr.InvalidArgument,
			"dataset column count mismatch: numOfColumns=%d names=%d types=%d",
			n, len(d.ColumnNames), len(d.ColumnTypes))
	}
	for i, t := range d.ColumnTypes {
		if !ValidDataSetColumnType(t) {
			return sperr.New(sperr.InvalidType, "dataset column %d has invalid type %s", i, t)
		}
	}
	for ri, row := range d.Rows {
		if len(row.Values) != n {
			return sperr.New(sperr.InvalidArgument, "dataset row %d has %d values, want %d", ri, len(row.Values), n)
		}
		for ci, v := range row.Values {
			if v.Type != d.ColumnTypes[ci] {
				return sperr.New(sperr.InvalidType, "dataset row %d column %d: value type %s != column type %s",
					ri, ci, v.Type, d.ColumnTypes[ci])
			}
			if err := v.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
