// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

// Tracer receives human-readable strand lifecycle lines: launch, park,
// wake, completion, failure, abandonment, each tagged with the strand's
// [Serial]. Tracing is demonstration output only and not part of the
// functional contract; a nil Tracer costs one branch per event.
type Tracer func(format string, args ...any)

func (l *Loop) tracef(format string, args ...any) {
	if l.Trace != nil {
		l.Trace(format, args...)
	}
}
