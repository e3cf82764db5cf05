package device_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpetsas/dualsensitive/device"
)

type fakeHandle struct{ id int }

type fakeBackend struct {
	mu           sync.Mutex
	failOpens    int
	enumerateErr error
	writes       [][]byte
	readErr      error
}

func (f *fakeBackend) Enumerate(ctx context.Context) ([]device.Info, error) {
	if f.enumerateErr != nil {
		return nil, f.enumerateErr
	}
	return []device.Info{{Path: "fake", VendorID: 0x054c, ProductID: 0x0ce6}}, nil
}

func (f *fakeBackend) Open(ctx context.Context, info device.Info) (device.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOpens > 0 {
		f.failOpens--
		return nil, errors.New("open failed")
	}
	return &fakeHandle{id: 1}, nil
}

func (f *fakeBackend) ReadInput(ctx context.Context, h device.Handle) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return make([]byte, 10), nil
}

func (f *fakeBackend) WriteOutput(ctx context.Context, h device.Handle, report []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(report))
	copy(cp, report)
	f.writes = append(f.writes, cp)
	return nil
}

func (f *fakeBackend) Reconnect(ctx context.Context, h device.Handle) error { return nil }
func (f *fakeBackend) Close(h device.Handle) error                         { return nil }

func TestSessionConnectSucceedsFirstTry(t *testing.T) {
	backend := &fakeBackend{}
	s := device.New(backend, nil, nil)

	var onConnectedCalled bool
	err := s.Connect(context.Background(), func() { onConnectedCalled = true })
	require.NoError(t, err)
	assert.True(t, onConnectedCalled)
	assert.Equal(t, device.Connected, s.State())
}

func TestSessionConnectRetriesThenSucceeds(t *testing.T) {
	backend := &fakeBackend{failOpens: 2}
	s := device.New(backend, nil, nil)

	err := s.Connect(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, device.Connected, s.State())
}

func TestSessionConnectExhaustsRetries(t *testing.T) {
	backend := &fakeBackend{failOpens: device.MaxRetries}
	s := device.New(backend, nil, nil)

	err := s.Connect(context.Background(), nil)
	require.Error(t, err)
	assert.NotEqual(t, device.Connected, s.State())
}

func TestSessionWriteRequiresConnection(t *testing.T) {
	backend := &fakeBackend{}
	s := device.New(backend, nil, nil)

	err := s.Write(context.Background(), []byte{1, 2, 3})
	require.Error(t, err)
}

func TestSessionWriteAfterConnect(t *testing.T) {
	backend := &fakeBackend{}
	s := device.New(backend, nil, nil)
	require.NoError(t, s.Connect(context.Background(), nil))

	require.NoError(t, s.Write(context.Background(), []byte{9, 9, 9}))
	require.Len(t, backend.writes, 1)
	assert.Equal(t, []byte{9, 9, 9}, backend.writes[0])
}

func TestSessionProbeInputMarksDisconnectedOnFailure(t *testing.T) {
	backend := &fakeBackend{}
	s := device.New(backend, nil, nil)
	require.NoError(t, s.Connect(context.Background(), nil))

	backend.readErr = errors.New("device gone")
	ok := s.ProbeInput(context.Background())
	assert.False(t, ok)
	assert.Equal(t, device.Disconnected, s.State())
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	s := device.New(backend, nil, nil)
	require.NoError(t, s.Connect(context.Background(), nil))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, device.Closed, s.State())
}
