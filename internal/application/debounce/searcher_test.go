package debounce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/clinic-console/internal/application/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	calls   []string
	results []string
}

func (r *recorder) search(_ context.Context, q string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, q)
	return "res:" + q, nil
}

func (r *recorder) onResult(_ string, res string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
}

func TestSearcher_KeystrokesRestartDelay(t *testing.T) {
	clk := clock.NewFake(time.Now())
	r := &recorder{}
	s := New(context.Background(), 300*time.Millisecond, r.search, r.onResult, clk)
	defer s.Close()

	s.Trigger("8")
	clk.Advance(200 * time.Millisecond)
	s.Trigger("81")
	clk.Advance(200 * time.Millisecond)
	s.Trigger("812")
	assert.Equal(t, 1, clk.Pending(), "no se encolan disparos")
	assert.Empty(t, r.calls)

	clk.Advance(300 * time.Millisecond)
	assert.Equal(t, []string{"812"}, r.calls)
	assert.Equal(t, []string{"res:812"}, r.results)
}

func TestSearcher_CloseCancelsPending(t *testing.T) {
	clk := clock.NewFake(time.Now())
	r := &recorder{}
	s := New(context.Background(), 300*time.Millisecond, r.search, r.onResult, clk)

	s.Trigger("812")
	s.Close()
	clk.Advance(time.Second)
	assert.Empty(t, r.calls)

	s.Trigger("813")
	assert.Equal(t, 0, clk.Pending(), "cerrado no acepta disparos")
}

func TestSearcher_StaleResultDiscarded(t *testing.T) {
	clk := clock.NewFake(time.Now())
	started := make(chan struct{})
	release := make(chan struct{})
	var got []string
	var mu sync.Mutex

	search := func(ctx context.Context, q string) (string, error) {
		if q == "lento" {
			close(started)
			<-release
			return "viejo", ctx.Err()
		}
		return "nuevo", nil
	}
	onResult := func(_ string, res string, _ error) {
		mu.Lock()
		got = append(got, res)
		mu.Unlock()
	}
	s := New(context.Background(), 100*time.Millisecond, search, onResult, clk)
	defer s.Close()

	s.Trigger("lento")
	done := make(chan struct{})
	go func() {
		clk.Advance(100 * time.Millisecond)
		close(done)
	}()
	<-started
	s.Trigger("rapido")
	close(release)
	<-done

	clk.Advance(100 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "nuevo", got[0])
}
