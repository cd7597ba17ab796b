package formatter

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_WritesFramesAndClears(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "scoring rows")
	s.interval = time.Millisecond
	s.Start()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "scoring rows")
	}, time.Second, time.Millisecond)

	s.Stop()
	s.Stop()
	assert.True(t, strings.HasSuffix(out.String(), "\r\033[K"))
}
