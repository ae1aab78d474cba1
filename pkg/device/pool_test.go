package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brilliantsole/bs-go/pkg/connection"
)

func TestPoolTracksConnectedDevices(t *testing.T) {
	pool := NewPool(nil)
	f := newFakeManager("AA:BB")
	d := NewWithManager(f, testConfig())
	defer d.Close()

	var lists recorder[[]string]
	pool.OnConnectedDevices(func(devices []*Device) {
		ids := make([]string, len(devices))
		for i, dev := range devices {
			ids[i] = dev.BluetoothID()
		}
		lists.add(ids)
	})
	var changed recorder[*Device]
	pool.OnDeviceIsConnected(changed.add)

	pool.Add(d)
	got, ok := pool.Get("AA:BB")
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Empty(t, pool.ConnectedDevices())

	require.NoError(t, d.Connect(context.Background()))
	answerRequired(f)

	assert.Equal(t, []string{"AA:BB"}, pool.ConnectedIDs())
	assert.Equal(t, [][]string{{"AA:BB"}}, lists.get())
	assert.Equal(t, []*Device{d}, changed.get())

	_, ok = pool.Connected("AA:BB")
	assert.True(t, ok)
}

func TestPoolDropsUnreconnectableDevices(t *testing.T) {
	pool := NewPool(nil)
	d, f := connectedDevice(t, testConfig())
	pool.Add(d)
	require.Len(t, pool.ConnectedDevices(), 1, "a connected device joins the connected list on Add")

	require.NoError(t, d.Disconnect(context.Background()))

	assert.False(t, f.CanReconnect())
	assert.Empty(t, pool.ConnectedDevices())
	assert.Empty(t, pool.AvailableDevices())
}

func TestPoolClosesDroppedDevices(t *testing.T) {
	pool := NewPool(nil)
	cfg := testConfig()
	cfg.ReconnectOnDisconnection = true
	d, f := connectedDevice(t, cfg)
	pool.Add(d)
	require.True(t, d.ReconnectOnDisconnection())

	f.SetStatus(connection.StatusNotConnected)

	assert.Empty(t, pool.AvailableDevices())
	require.Eventually(t, func() bool {
		return d.ConnectionManager() == nil && !d.ReconnectOnDisconnection()
	}, time.Second, 5*time.Millisecond, "dropped device must stop its reconnect loop")
	assert.Zero(t, f.reconnectCount())
}

func TestPoolRemoveLeavesDeviceOpen(t *testing.T) {
	pool := NewPool(nil)
	d, f := connectedDevice(t, testConfig())
	pool.Add(d)

	pool.Remove(d)

	assert.Empty(t, pool.AvailableDevices())
	assert.Same(t, f, d.ConnectionManager())
}

func TestPoolKeepsReconnectableDevices(t *testing.T) {
	pool := NewPool(nil)
	d, f := connectedDevice(t, testConfig())
	f.setCanReconnect(true)
	pool.Add(d)

	require.NoError(t, d.Disconnect(context.Background()))

	assert.Empty(t, pool.ConnectedDevices())
	assert.Equal(t, []*Device{d}, pool.AvailableDevices())
}

func TestPoolReplacesSameID(t *testing.T) {
	pool := NewPool(nil)
	a := NewWithManager(newFakeManager("AA:BB"), testConfig())
	b := NewWithManager(newFakeManager("AA:BB"), testConfig())
	defer a.Close()
	defer b.Close()

	pool.Add(a)
	pool.Add(b)
	pool.Add(b)

	assert.Equal(t, []*Device{b}, pool.AvailableDevices())

	pool.Remove(b)
	pool.Remove(b)
	assert.Empty(t, pool.AvailableDevices())
}
