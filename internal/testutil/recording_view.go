package testutil

import (
	"sync"

	"github.com/volume-uploader/backend/internal/widget"
)

// RecordingView keeps every state a controller rendered.
type RecordingView struct {
	mu     sync.Mutex
	states []widget.State
}

func (v *RecordingView) Render(s widget.State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, s)
}

// States returns all rendered states in order.
func (v *RecordingView) States() []widget.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]widget.State(nil), v.states...)
}
