package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Begin(t *testing.T) {
	instance := NewController()
	var superseded []Generation
	instance.OnSupersede(func(g Generation) {
		superseded = append(superseded, g)
	})

	first := instance.Begin()
	assert.Equal(t, Generation(1), first.Generation())
	assert.True(t, instance.IsCurrent(first.Generation()))
	assert.NoError(t, first.Err())

	second := instance.Begin()
	assert.Equal(t, Generation(2), second.Generation())
	assert.False(t, instance.IsCurrent(first.Generation()))
	assert.True(t, instance.IsCurrent(second.Generation()))
	assert.ErrorIs(t, first.Err(), ErrSuperseded)
	assert.NoError(t, second.Err())

	assert.Equal(t, []Generation{1, 2}, superseded)
}

func TestController_Begin_concurrent(t *testing.T) {
	instance := NewController()

	var wg sync.WaitGroup
	tokens := make([]Token, 50)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = instance.Begin()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, Generation(50), instance.Current())
	alive := 0
	for _, token := range tokens {
		if token.Err() == nil {
			alive++
			assert.Equal(t, instance.Current(), token.Generation())
		}
	}
	assert.Equal(t, 1, alive)
}

func TestController_IsCurrent_zero(t *testing.T) {
	instance := NewController()
	assert.False(t, instance.IsCurrent(0))
}

func TestController_Close(t *testing.T) {
	instance := NewController()
	token := instance.Begin()

	instance.Close()

	assert.ErrorIs(t, token.Err(), ErrSuperseded)
	assert.False(t, instance.IsCurrent(token.Generation()))
}

func TestToken_Sleep(t *testing.T) {
	instance := NewController()

	token := instance.Begin()
	require.NoError(t, token.Sleep(context.Background(), time.Millisecond))

	go func() {
		time.Sleep(10 * time.Millisecond)
		instance.Begin()
	}()
	start := time.Now()
	assert.ErrorIs(t, token.Sleep(context.Background(), 10*time.Second), ErrSuperseded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestToken_Sleep_contextDone(t *testing.T) {
	instance := NewController()
	token := instance.Begin()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, token.Sleep(ctx, 10*time.Second), context.Canceled)
}

func TestToken_zero(t *testing.T) {
	assert.ErrorIs(t, Token{}.Err(), ErrSuperseded)
}
