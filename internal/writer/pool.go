package writer

import (
	"strings"
	"sync"
)

// builderPool holds the builders of text writers. Cron feeds finalize one
// writer per tick, so builders are reused across ticks.
var builderPool = sync.Pool{
	New: func() any {
		b := new(strings.Builder)
		b.Grow(64 << 10)
		return b
	},
}

func getBuilder() *strings.Builder {
	return builderPool.Get().(*strings.Builder)
}

func putBuilder(b *strings.Builder) {
	b.Reset()
	builderPool.Put(b)
}
