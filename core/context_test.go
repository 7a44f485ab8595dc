package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuietContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want bool
	}{
		{"default", context.Background(), false},
		{"quiet", WithQuiet(context.Background()), true},
		{"wrong type", context.WithValue(context.Background(), quietKey, "yes"), false},
		{"derived", WithQuiet(context.WithValue(context.Background(), contextKey("other"), 1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isQuiet(tt.ctx))
		})
	}
}

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithQuiet(context.Background())

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			assert.True(t, isQuiet(ctx), "Goroutine %d: isQuiet should be true", id)
		}(i)
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	quiet := WithQuiet(base)

	assert.False(t, isQuiet(base))
	assert.True(t, isQuiet(quiet))
}
