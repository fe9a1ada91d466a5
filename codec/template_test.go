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

package codec_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dickcha/tahu/codec"
	"github.com/dickcha/tahu/model"
)

var _ = Describe("Template metric round trips", func() {
	It("round trips a template instance with parameters and nested metrics", func() {
		ref := "motor"
		nested := namedMetric("speed", model.Int32, model.VInt32(1200))
		tmpl := &model.Template{
			TemplateRef: &ref,
			Metrics:     []*model.Metric{nested},
			Parameters: []model.Parameter{
				{Name: "units", Type: model.String, Value: model.VString("rpm")},
			},
		}
		m := namedMetric("motorTemplate", model.TemplateType, model.VTemplate(tmpl))
		wm, err := codec.EncodeMetric(m)
		Expect(err).NotTo(HaveOccurred())

		back, err := codec.DecodeMetric(wm)
		Expect(err).NotTo(HaveOccurred())
		gotTmpl := back.Value.Raw.(*model.Template)
		Expect(*gotTmpl.TemplateRef).To(Equal("motor"))
		Expect(gotTmpl.Metrics).To(HaveLen(1))
		Expect(gotTmpl.Metrics[0].Value.Raw).To(Equal(int32(1200)))
		Expect(gotTmpl.Parameters).To(HaveLen(1))
		Expect(gotTmpl.Parameters[0].Value.Raw).To(Equal("rpm"))
	})

	It("round trips a template definition", func() {
		version := "1.0"
		tmpl := &model.Template{IsDefinition: true, Version: &version}
		m := namedMetric("motorDef", model.TemplateType, model.VTemplate(tmpl))
		wm, err := codec.EncodeMetric(m)
		Expect(err).NotTo(HaveOccurred())

		back, err := codec.DecodeMetric(wm)
		Expect(err).NotTo(HaveOccurred())
		gotTmpl := back.Value.Raw.(*model.Template)
		Expect(gotTmpl.IsDefinition).To(BeTrue())
		Expect(gotTmpl.TemplateRef).To(BeNil())
	})

	It("rejects a template that is neither a definition nor carries a templateRef", func() {
		tmpl := &model.Template{}
		m := namedMetric("bad", model.TemplateType, model.VTemplate(tmpl))
		_, err := codec.EncodeMetric(m)
		Expect(err).To(HaveOccurred())
	})
})
