// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import "code.hybscloud.com/atomix"

// Serial is a monotonically increasing strand identifier.
// Every launched strand (the root, a spawned [Task], or a combinator
// sub-computation) is assigned the next serial value. Serials appear in
// trace output only.
type Serial = uint32

// counter is the global monotonic counter for strand serials.
var counter atomix.Uint32

// nextSerial returns the next monotonically increasing serial.
func nextSerial() Serial {
	return counter.Add(1)
}
