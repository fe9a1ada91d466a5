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

package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dickcha/tahu/model"
	"github.com/dickcha/tahu/sperr"
)

var _ = Describe("Template", func() {
	It("accepts a definition with no templateRef", func() {
		tmpl := &model.Template{IsDefinition: true}
		Expect(tmpl.Validate()).To(Succeed())
	})

	It("rejects a definition that also carries a templateRef", func() {
		ref := "motor"
		tmpl := &model.Template{IsDefinition: true, TemplateRef: &ref}
		err := tmpl.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.InvalidArgument))
	})

	It("rejects an instance with no templateRef", func() {
		tmpl := &model.Template{IsDefinition: false}
		err := tmpl.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.InvalidArgument))
	})

	It("accepts an instance with a templateRef and valid parameters", func() {
		ref := "motor"
		tmpl := &model.Template{
			TemplateRef: &ref,
			Parameters: []model.Parameter{
				{Name: "speed", Type: model.Int32, Value: model.VInt32(100)},
			},
		}
		Expect(tmpl.Validate()).To(Succeed())
	})

	It("rejects a parameter type that is illegal on a template parameter", func() {
		ref := "motor"
		tmpl := &model.Template{
			TemplateRef: &ref,
			Parameters: []model.Parameter{
				{Name: "nested", Type: model.DataSetType, Value: model.None(model.DataSetType)},
			},
		}
		err := tmpl.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.InvalidType))
	})

	It("recurses into nested metrics", func() {
		ref := "motor"
		bad := &model.Metric{DataType: model.Int32, Value: model.VInt32(1)} // no name/alias
		tmpl := &model.Template{TemplateRef: &ref, Metrics: []*model.Metric{bad}}
		err := tmpl.Validate()
		Expect(sperr.KindOf(err)).To(Equal(sperr.InvalidArgument))
	})
})
