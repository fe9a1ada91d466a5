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

var _ = Describe("File metric metadata synthesis", func() {
	It("synthesizes a fileName from the metric name when metadata carries none", func() {
		m := namedMetric("firmware.bin", model.File, model.VFile([]byte{0xDE, 0xAD}))
		wm, err := codec.EncodeMetric(m)
		Expect(err).NotTo(HaveOccurred())
		Expect(wm.Metadata).NotTo(BeNil())
		Expect(*wm.Metadata.FileName).To(Equal("firmware.bin"))

		back, err := codec.DecodeMetric(wm)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Value.Raw).To(Equal([]byte{0xDE, 0xAD}))
	})

	It("merges rather than replaces caller-supplied metadata", func() {
		contentType := "application/octet-stream"
		m := namedMetric("firmware.bin", model.File, model.VFile([]byte{1}))
		m.MetaData = &model.MetaData{ContentType: &contentType}

		wm, err := codec.EncodeMetric(m)
		Expect(err).NotTo(HaveOccurred())
		Expect(*wm.Metadata.ContentType).To(Equal(contentType))
		Expect(*wm.Metadata.FileName).To(Equal("firmware.bin"))
	})

	It("preserves a caller-supplied fileName instead of overwriting it", func() {
		fileName := "custom-name.bin"
		m := namedMetric("firmware.bin", model.File, model.VFile([]byte{1}))
		m.MetaData = &model.MetaData{FileName: &fileName}

		wm, err := codec.EncodeMetric(m)
		Expect(err).NotTo(HaveOccurred())
		Expect(*wm.Metadata.FileName).To(Equal("custom-name.bin"))
	})
})
