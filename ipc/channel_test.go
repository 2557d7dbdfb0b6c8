package ipc_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SphereStacking/Fluopanel/ipc"
)

func TestChannel_SendAndServe(t *testing.T) {
	ch := ipc.NewChannel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go ch.Serve(ctx, func(cmd ipc.Command) ipc.Reply {
		if cmd.Kind == ipc.KindGetOpenPopovers {
			return ipc.Reply{OpenIDs: []string{"a", "b"}}
		}
		return ipc.Reply{}
	})

	rep := ch.Send(ctx, ipc.Command{Kind: ipc.KindGetOpenPopovers})
	require.NoError(t, rep.Err)
	assert.Equal(t, []string{"a", "b"}, rep.OpenIDs)
}

func TestChannel_SendTimesOutWithoutServer(t *testing.T) {
	ch := ipc.NewChannel()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	rep := ch.Send(ctx, ipc.Command{Kind: ipc.KindGetMonitors})
	require.Error(t, rep.Err)
}

func TestEventBus_PublishAndSubscribe(t *testing.T) {
	bus := ipc.NewEventBus()
	var got []ipc.Event
	sub := bus.Subscribe(func(e ipc.Event) { got = append(got, e) })
	defer sub.Unsubscribe()

	bus.PublishPopoverClosed("p1")
	bus.PublishExternal("workspace-changed", []string{"2"})

	require.Len(t, got, 2)
	assert.Equal(t, ipc.EventPopoverClosed, got[0].Kind)
	assert.Equal(t, "p1", got[0].PopoverID)
	assert.Equal(t, ipc.EventExternal, got[1].Kind)
	assert.Equal(t, "workspace-changed", got[1].ExternalName)
}

func TestSocketForwarder_ForwardsLineDelimitedEvents(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "fluopanel.sock")

	type injection struct {
		name string
		args []string
	}
	injected := make(chan injection, 1)
	fwd := ipc.NewSocketForwarder(sockPath, func(name string, args []string) {
		injected <- injection{name: name, args: args}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go fwd.Serve(ctx)

	require.Eventually(t, func() bool {
		_, err := net.Dial("unix", sockPath)
		return err == nil
	}, time.Second, 10*time.Millisecond)

	conn, err := net.Dial("unix", sockPath)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("workspace-changed:3\n"))
	require.NoError(t, err)

	select {
	case got := <-injected:
		assert.Equal(t, "workspace-changed", got.name)
		assert.Equal(t, []string{"3"}, got.args)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for injected event")
	}
}
