package canonical

import (
	"sync"

	"github.com/wippyai/canonjson/event"
)

// Tapes above this many events are dropped instead of pooled.
const poolMaxEvents = 4096

// element tapes used while sorting sequences
var tapePool = sync.Pool{
	New: func() any {
		return new(event.Tape)
	},
}

func getTape() *event.Tape {
	return tapePool.Get().(*event.Tape)
}

func putTape(t *event.Tape) {
	if t == nil || t.Cap() > poolMaxEvents {
		return
	}
	t.Reset()
	tapePool.Put(t)
}
