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

// Parameter is one entry of a Template's parameter list.
type Parameter struct {
	Name  string
	Type  ParameterDataType
	Value Value
}

// Template is a reusable metric schema. A definition (IsDefinition true)
// declares metrics and parameters; an instance references a definition by
// TemplateRef and normally carries the same metrics with concrete values.
//
// Templates referencing other templates do so by name (TemplateRef), never
// by live pointer — the in-memory model is a value tree, not a graph.
type Template struct {
	IsDefinition bool
	Version      *string
	TemplateRef  *string
	Metrics      []*Metric
	Parameters   []Parameter
}

// Validate enforces the isDefinition/templateRef exclusivity rule: if
// IsDefinition is true then TemplateRef must be omitted, otherwise it is
// required. It also recurses into nested metrics.
func (t *Template) Validate() error {
	if t.IsDefinition && t.TemplateRef != nil {
		return sperr.New(sperr.InvalidArgument, "template definition must not carry a templateRef")
	}
	if !t.IsDefinition && (t.TemplateRef == nil || *t.TemplateRef == "") {
		return sperr.New(sperr.InvalidArgument, "template instance requires a templateRef")
	}
	for _, m := range t.Metrics {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	for _, p := range t.Parameters {
		if !ValidParameterType(p.Type) {
			return sperr.New(sperr.InvalidType, "parameter %q has invalid type %s", p.Name, p.Type)
		}
		if err := p.Value.Validate(); err != nil {
			return err
		}
	}
	return nil
}
