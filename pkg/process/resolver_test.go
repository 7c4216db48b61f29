package process

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/focus-reader/pkg/common"
)

type fakeLookup struct {
	names map[uint32]string
	calls int
}

func (this *fakeLookup) lookup(_ context.Context, pid uint32) (string, error) {
	this.calls++
	if v, ok := this.names[pid]; ok {
		return v, nil
	}
	return "", errors.New("expected")
}

func TestResolver_Name(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeLookup{names: map[uint32]string{42: "notepad.exe"}}
	instance := &Resolver{Lookup: fake.lookup, TTL: time.Minute, now: func() time.Time { return now }}

	actual, err := instance.Name(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "notepad.exe", actual)

	_, err = instance.Name(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)

	now = now.Add(2 * time.Minute)
	_, err = instance.Name(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls)

	instance.Forget()
	_, err = instance.Name(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 3, fake.calls)

	_, err = instance.Name(context.Background(), 666)
	assert.Error(t, err)
}

func TestLookupName(t *testing.T) {
	actual, err := LookupName(context.Background(), uint32(os.Getpid()))
	require.NoError(t, err)
	assert.NotEmpty(t, actual)
}

func TestFilter_Selects(t *testing.T) {
	fake := &fakeLookup{names: map[uint32]string{1: "notepad.exe", 2: "KeePass.exe"}}
	instance := &Filter{
		Resolver:  &Resolver{Lookup: fake.lookup, TTL: time.Minute},
		Selection: common.Selection{Excluded: common.MustNewRegexp(`(?i)^keepass`)},
	}

	assert.True(t, instance.Selects(context.Background(), 1))
	assert.False(t, instance.Selects(context.Background(), 2))
	assert.True(t, instance.Selects(context.Background(), 3))

	calls := fake.calls
	empty := &Filter{Resolver: instance.Resolver}
	assert.True(t, empty.Selects(context.Background(), 2))
	assert.Equal(t, calls, fake.calls)
}
