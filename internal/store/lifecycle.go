package store

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// State is the service lifecycle: Starting -> Connecting -> Ready | Failed.
type State int32

const (
	StateStarting State = iota
	StateConnecting
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Lifecycle struct {
	state  atomic.Int32
	logger *zap.Logger
}

func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Transition moves to next if the edge is allowed and reports whether it did.
func (l *Lifecycle) Transition(next State) bool {
	for {
		cur := l.State()
		if !allowed(cur, next) {
			return false
		}
		if l.state.CompareAndSwap(int32(cur), int32(next)) {
			l.logger.Info("lifecycle transition",
				zap.Stringer("from", cur),
				zap.Stringer("to", next),
			)
			return true
		}
	}
}

func allowed(from, to State) bool {
	switch from {
	case StateStarting:
		return to == StateConnecting
	case StateConnecting:
		return to == StateReady || to == StateFailed
	}
	return false
}
