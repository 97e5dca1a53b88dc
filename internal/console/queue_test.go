package console

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	_, ok := q.TryPop()
	assert.False(t, ok)

	q.Push("a")
	q.Push("b")
	assert.Equal(t, 2, q.Len())

	line, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, "a", line)
	line, ok = q.TryPop()
	require.True(t, ok)
	assert.Equal(t, "b", line)
	assert.Equal(t, 0, q.Len())
}

func TestQueueConcurrentProducers(t *testing.T) {
	const producers, perProducer = 8, 200
	q := NewQueue()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(fmt.Sprintf("%d:%d", p, i))
			}
		}(p)
	}

	// Consume while producing; per-producer order must survive
	last := make(map[string]int)
	got := 0
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	drain := func() {
		for {
			line, ok := q.TryPop()
			if !ok {
				return
			}
			var p, i int
			_, err := fmt.Sscanf(line, "%d:%d", &p, &i)
			require.NoError(t, err)
			key := fmt.Sprint(p)
			if prev, seen := last[key]; seen {
				assert.Greater(t, i, prev)
			}
			last[key] = i
			got++
		}
	}
	for {
		select {
		case <-done:
			drain()
			assert.Equal(t, producers*perProducer, got)
			return
		default:
			drain()
		}
	}
}

func TestStartReader(t *testing.T) {
	q := NewQueue()
	done := StartReader(strings.NewReader("f ls\nhello world\n\ncc"), q, nil)
	<-done

	var lines []string
	for {
		line, ok := q.TryPop()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"f ls", "hello world", "", "cc"}, lines)
}
