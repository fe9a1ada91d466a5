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
	"math/big"

	"github.com/dickcha/tahu/sperr"
)

// maxUint64 is 2^64 - 1, the upper bound of a legal UInt64 ingress value.
var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// UInt64FromBigInt ingests a big.Int as a Sparkplug UInt64 value, rejecting
// anything outside [0, 2^64) with OutOfRange rather than wrapping or
// truncating.
func UInt64FromBigInt(v *big.Int) (uint64, error) {
	if v.Sign() < 0 {
		return 0, sperr.New(sperr.OutOfRange, "uint64 value %s is negative", v.String())
	}
	if v.Cmp(maxUint64) > 0 {
		return 0, sperr.New(sperr.OutOfRange, "uint64 value %s exceeds 2^64-1", v.String())
	}
	return v.Uint64(), nil
}

// maxUint32 is 2^32 - 1, the upper bound of a legal UInt32 ingress value.
var maxUint32 = new(big.Int).SetUint64(uint64(^uint32(0)))

// UInt32FromBigInt ingests a big.Int as a Sparkplug UInt32 value: plain
// unsigned 32-bit, rejecting anything outside [0, 2^32).
func UInt32FromBigInt(v *big.Int) (uint32, error) {
	if v.Sign() < 0 {
		return 0, sperr.New(sperr.OutOfRange, "uint32 value %s is negative", v.String())
	}
	if v.Cmp(maxUint32) > 0 {
		return 0, sperr.New(sperr.OutOfRange, "uint32 value %s exceeds 2^32-1", v.String())
	}
	return uint32(v.Uint64()), nil
}
