package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLifecycle_Transitions(t *testing.T) {
	cases := []struct {
		name  string
		steps []State
		want  State
		ok    []bool
	}{
		{
			name:  "happy path",
			steps: []State{StateConnecting, StateReady},
			want:  StateReady,
			ok:    []bool{true, true},
		},
		{
			name:  "failure is terminal",
			steps: []State{StateConnecting, StateFailed, StateReady},
			want:  StateFailed,
			ok:    []bool{true, true, false},
		},
		{
			name:  "cannot skip connecting",
			steps: []State{StateReady},
			want:  StateStarting,
			ok:    []bool{false},
		},
		{
			name:  "ready is terminal",
			steps: []State{StateConnecting, StateReady, StateConnecting},
			want:  StateReady,
			ok:    []bool{true, true, false},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			lc := NewLifecycle(zap.NewNop())
			for i, s := range tt.steps {
				assert.Equal(t, tt.ok[i], lc.Transition(s), "step %d -> %s", i, s)
			}
			assert.Equal(t, tt.want, lc.State())
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "starting", StateStarting.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
