package echoutil

import (
	"errors"
	"io"
	"sync"
)

// endHook is a reader calling hooks once when the base reader reaches EOF.
//
// Hooks registered after EOF are called immediately.
type endHook struct {
	base io.Reader

	mux   sync.Mutex
	done  bool
	hooks []func()
}

func newEndHook(base io.Reader) *endHook {
	return &endHook{base: base}
}

func (h *endHook) Read(p []byte) (int, error) {
	n, err := h.base.Read(p)
	if errors.Is(err, io.EOF) {
		h.mux.Lock()
		defer h.mux.Unlock()
		if !h.done {
			h.done = true
			for _, f := range h.hooks {
				f()
			}
			h.hooks = nil
		}
	}
	return n, err
}

func (h *endHook) OnEnd(hook func()) {
	h.mux.Lock()
	defer h.mux.Unlock()
	if h.done {
		hook()
		return
	}
	h.hooks = append(h.hooks, hook)
}
