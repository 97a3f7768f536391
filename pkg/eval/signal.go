package eval

import "github.com/xvandervort/graphoid/pkg/value"

// signalKind distinguishes the three non-error ways a statement can
// unwind out of its enclosing block (this design, §9's "dedicated
// control-flow signal type" design note — return/break/continue are
// never represented as errors).
type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
	sigBreak
	sigContinue
)

// signal is returned alongside every statement execution. A zero
// signal (sigNone) means "continue to the next statement"; any other
// kind means "unwind", carrying a return value when applicable.
type signal struct {
	kind  signalKind
	value value.Value
}

var noSignal = signal{kind: sigNone}

func returnSignal(v value.Value) signal { return signal{kind: sigReturn, value: v} }

var breakSignal = signal{kind: sigBreak}
var continueSignal = signal{kind: sigContinue}
