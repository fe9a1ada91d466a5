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
)

var _ = Describe("MetaData", func() {
	It("overlays only the non-nil fields of other", func() {
		base := &model.MetaData{
			ContentType: strPtr("text/plain"),
			FileName:    strPtr("original.txt"),
		}
		overlay := &model.MetaData{FileName: strPtr("renamed.txt")}

		merged := base.Merge(overlay)

		Expect(*merged.ContentType).To(Equal("text/plain"))
		Expect(*merged.FileName).To(Equal("renamed.txt"))
	})

	It("is a no-op when other is nil", func() {
		base := &model.MetaData{FileName: strPtr("a.txt")}
		merged := base.Merge(nil)
		Expect(*merged.FileName).To(Equal("a.txt"))
	})
})
