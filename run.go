// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// Run drives a Cont-world root computation to completion on the calling
// goroutine: the root and everything it transitively scheduled run
// cooperatively interleaved, and Run returns once the root has produced
// an outcome and no timer remains pending. Returns the root's value, or
// its failure as a non-nil error.
func Run[R any](l *Loop, root kont.Eff[R]) (R, error) {
	return RunExpr(l, kont.Reify(root))
}

// RunExpr drives an Expr-world root computation to completion on the
// calling goroutine. See [Run].
func RunExpr[R any](l *Loop, root kont.Expr[R]) (R, error) {
	var (
		out  kont.Erased
		fail error
		done bool
	)
	l.launch(eraseExpr(root), func(v kont.Erased, err error) {
		out, fail, done = v, err, true
	})
	l.wait(&done)
	if fail != nil {
		var zero R
		return zero, fail
	}
	return out.(R), nil
}
