package agent_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpetsas/dualsensitive/agent"
	"github.com/tpetsas/dualsensitive/device"
	"github.com/tpetsas/dualsensitive/hidreport"
	"github.com/tpetsas/dualsensitive/transport"
	"github.com/tpetsas/dualsensitive/trigger"
	"github.com/tpetsas/dualsensitive/wire"
)

type fakeHandle struct{}

type fakeBackend struct {
	writes    int
	lastWrite []byte
}

func (f *fakeBackend) Enumerate(ctx context.Context) ([]device.Info, error) {
	return []device.Info{{Path: "fake"}}, nil
}
func (f *fakeBackend) Open(ctx context.Context, info device.Info) (device.Handle, error) {
	return &fakeHandle{}, nil
}
func (f *fakeBackend) ReadInput(ctx context.Context, h device.Handle) ([]byte, error) {
	return make([]byte, 10), nil
}
func (f *fakeBackend) WriteOutput(ctx context.Context, h device.Handle, report []byte) error {
	f.writes++
	f.lastWrite = append([]byte(nil), report...)
	return nil
}
func (f *fakeBackend) Reconnect(ctx context.Context, h device.Handle) error { return nil }
func (f *fakeBackend) Close(h device.Handle) error                         { return nil }

func freePort() uint16 {
	return uint16(21000 + time.Now().Nanosecond()%10000)
}

func TestAgentSoloSetTriggerFlushesToDevice(t *testing.T) {
	backend := &fakeBackend{}
	a := agent.New(backend)
	ctx := context.Background()

	require.NoError(t, a.Init(ctx, agent.Solo, "info", "", false, 0))
	defer a.Terminate()

	require.NoError(t, a.SetLeftTrigger(ctx, trigger.GameCube, nil))
	assert.Equal(t, 1, backend.writes)
	assert.True(t, a.IsConnected())
}

func TestAgentSoloDisabledSkipsWrites(t *testing.T) {
	backend := &fakeBackend{}
	a := agent.New(backend)
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, agent.Solo, "info", "", false, 0))
	defer a.Terminate()

	a.Disable()
	require.NoError(t, a.SetLeftTrigger(ctx, trigger.GameCube, nil))
	assert.Equal(t, 0, backend.writes)

	a.Enable()
	require.NoError(t, a.SetLeftTrigger(ctx, trigger.GameCube, nil))
	assert.Equal(t, 1, backend.writes)
}

func TestAgentClientModeRejectsSendState(t *testing.T) {
	a := agent.New(nil)
	ctx := context.Background()
	port := freePort()
	require.NoError(t, a.Init(ctx, agent.Client, "info", "", false, port))
	defer a.Terminate()

	err := a.SendState(ctx)
	require.Error(t, err)
}

func TestAgentClientSendPidOnlyValidInClientMode(t *testing.T) {
	backend := &fakeBackend{}
	a := agent.New(backend)
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, agent.Solo, "info", "", false, 0))
	defer a.Terminate()

	err := a.SendPidToServer()
	require.Error(t, err)
}

func TestAgentServerGetClientPidInitiallyZero(t *testing.T) {
	backend := &fakeBackend{}
	a := agent.New(backend)
	ctx := context.Background()
	port := freePort()
	require.NoError(t, a.Init(ctx, agent.Server, "info", "", false, port))
	defer a.Terminate()

	assert.Equal(t, uint32(0), a.GetClientPid())
}

func TestAgentTerminateIsIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	a := agent.New(backend)
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, agent.Solo, "info", "", false, 0))

	require.NoError(t, a.Terminate())
	require.NoError(t, a.Terminate())
}

func TestAgentServerRecordsBoundClientPid(t *testing.T) {
	backend := &fakeBackend{}
	server := agent.New(backend)
	ctx := context.Background()
	port := freePort()
	require.NoError(t, server.Init(ctx, agent.Server, "info", "", false, port))

	client := agent.New(nil)
	require.NoError(t, client.Init(ctx, agent.Client, "info", "", false, port))

	require.NoError(t, client.SendPidToServer())

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if server.GetClientPid() != 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.NotZero(t, server.GetClientPid())

	require.NoError(t, client.Terminate())
	require.NoError(t, server.Terminate())
}

func TestAgentTerminateWritesNormalBeforeClose(t *testing.T) {
	backend := &fakeBackend{}
	a := agent.New(backend)
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, agent.Solo, "info", "", false, 0))

	require.NoError(t, a.SetLeftTrigger(ctx, trigger.GameCube, nil))
	require.NoError(t, a.SetRightTrigger(ctx, trigger.Rigid, nil))

	require.NoError(t, a.Terminate())

	var expectedState hidreport.OutputState
	expectedState.Normal()
	expectedState.Lightbar = hidreport.Lightbar{
		R: device.DefaultLightbar[0],
		G: device.DefaultLightbar[1],
		B: device.DefaultLightbar[2],
		A: device.DefaultLightbar[3],
	}
	expected := hidreport.Assemble(&expectedState)
	assert.Equal(t, expected[:], backend.lastWrite)
}

func TestAgentClientIsConnectedReturnsFalse(t *testing.T) {
	a := agent.New(nil)
	ctx := context.Background()
	port := freePort()
	require.NoError(t, a.Init(ctx, agent.Client, "info", "", false, port))
	defer a.Terminate()

	assert.False(t, a.IsConnected())
}

func TestAgentDisabledStillMutatesOutputStateForLaterSendState(t *testing.T) {
	backend := &fakeBackend{}
	a := agent.New(backend)
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, agent.Solo, "info", "", false, 0))
	defer a.Terminate()

	a.Disable()
	require.NoError(t, a.SetLeftTrigger(ctx, trigger.GameCube, nil))
	assert.Equal(t, 0, backend.writes)

	a.Enable()
	require.NoError(t, a.SendState(ctx))
	require.Equal(t, 1, backend.writes)

	var expectedState hidreport.OutputState
	expectedState.LeftTrigger = trigger.Setting{Profile: trigger.GameCube}
	expectedState.Lightbar = hidreport.Lightbar{
		R: device.DefaultLightbar[0],
		G: device.DefaultLightbar[1],
		B: device.DefaultLightbar[2],
		A: device.DefaultLightbar[3],
	}
	expected := hidreport.Assemble(&expectedState)
	assert.Equal(t, expected[:], backend.lastWrite)
}

func TestAgentClientDisabledStillSendsDatagram(t *testing.T) {
	a := agent.New(nil)
	ctx := context.Background()
	port := freePort()

	received := make(chan []byte, 1)
	listener := transport.New(nil, nil)
	require.NoError(t, listener.StartServer(ctx, port, func(payload []byte) {
		select {
		case received <- payload:
		default:
		}
	}))
	defer listener.StopServer()

	require.NoError(t, a.Init(ctx, agent.Client, "info", "", false, port))
	defer a.Terminate()

	a.Disable()
	require.NoError(t, a.SetLeftTrigger(ctx, trigger.GameCube, nil))

	select {
	case got := <-received:
		assert.Equal(t, wire.EncodeTrigger(trigger.SideLeft, trigger.GameCube, nil), got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the client datagram")
	}
}

func TestAgentInitReentrantWhileRunningIsNoop(t *testing.T) {
	backend := &fakeBackend{}
	a := agent.New(backend)
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, agent.Solo, "info", "", false, 0))
	defer a.Terminate()

	require.NoError(t, a.Init(ctx, agent.Solo, "info", "", false, 0))
}
