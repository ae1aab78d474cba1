package device

import (
	"context"
	"encoding/binary"
	"maps"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brilliantsole/bs-go/pkg/connection"
	"github.com/brilliantsole/bs-go/pkg/telemetry"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

var testNow = time.UnixMilli(1_700_000_000_000)

func testConfig() Config {
	return Config{Now: func() time.Time { return testNow }}
}

// requiredAnswers is a plausible reply to every RequiredInformation request.
func requiredAnswers() map[string][]byte {
	answers := make(map[string][]byte, len(RequiredInformation))
	for _, typ := range RequiredInformation {
		answers[typ] = []byte{0}
	}
	answers[wire.MsgGetBatteryCurrent] = binary.LittleEndian.AppendUint32(nil, math.Float32bits(1.5))
	answers[wire.MsgGetId] = []byte("abc123")
	answers[wire.MsgGetMtu] = []byte{247, 0}
	answers[wire.MsgGetName] = []byte("Left")
	answers[wire.MsgGetType] = []byte{0}
	answers[wire.MsgGetCurrentTime] = EncodeCurrentTime(testNow)
	answers[wire.MsgGetSensorConfiguration] = []byte{0, 0, 0, 12, 0, 0}
	answers[wire.MsgGetSensorScalars] = nil
	answers[wire.MsgGetPressurePositions] = nil
	return answers
}

func answerRequired(f *fakeManager) {
	answers := requiredAnswers()
	for _, typ := range RequiredInformation {
		f.DispatchMessage(typ, answers[typ])
	}
}

type recorder[T any] struct {
	mu     sync.Mutex
	values []T
}

func (r *recorder[T]) add(v T) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

func (r *recorder[T]) get() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

func connectedDevice(t *testing.T, cfg Config) (*Device, *fakeManager) {
	t.Helper()
	f := newFakeManager("AA:BB")
	d := NewWithManager(f, cfg)
	t.Cleanup(d.Close)
	require.NoError(t, d.Connect(context.Background()))
	answerRequired(f)
	require.True(t, d.IsConnected())
	return d, f
}

func TestDeviceRequestsRequiredInformation(t *testing.T) {
	f := newFakeManager("AA:BB")
	d := NewWithManager(f, testConfig())
	defer d.Close()

	require.NoError(t, d.Connect(context.Background()))

	assert.Equal(t, RequiredInformation, f.sentTypes())
	assert.False(t, d.IsConnected())
	assert.Equal(t, connection.StatusConnecting, d.ConnectionStatus())
}

func TestDeviceIsConnectedAfterRequiredInformation(t *testing.T) {
	f := newFakeManager("AA:BB")
	d := NewWithManager(f, testConfig())
	defer d.Close()

	var statuses recorder[connection.Status]
	var connected recorder[bool]
	d.OnConnectionStatus(statuses.add)
	d.OnIsConnected(connected.add)

	require.NoError(t, d.Connect(context.Background()))
	answers := requiredAnswers()
	for _, typ := range RequiredInformation[:len(RequiredInformation)-1] {
		f.DispatchMessage(typ, answers[typ])
	}
	assert.False(t, d.IsConnected(), "connected before every required message arrived")

	last := RequiredInformation[len(RequiredInformation)-1]
	f.DispatchMessage(last, answers[last])

	assert.True(t, d.IsConnected())
	assert.Equal(t, connection.StatusConnected, d.ConnectionStatus())
	assert.Equal(t, []connection.Status{connection.StatusConnecting, connection.StatusConnected}, statuses.get())
	assert.Equal(t, []bool{true}, connected.get())

	info := d.Information()
	assert.Equal(t, "Left", info.Name)
	assert.Equal(t, LeftInsole, info.Type)
	assert.Equal(t, "abc123", info.ID)
	assert.Equal(t, float32(1.5), info.BatteryCurrent)
	assert.Equal(t, 247, f.MTU(), "getMtu must reach the manager")
	assert.Equal(t, testNow.UnixMilli(), info.CurrentTime.UnixMilli())
}

func TestDeviceDisconnectDispatchesNotConnected(t *testing.T) {
	d, _ := connectedDevice(t, testConfig())

	var statuses recorder[connection.Status]
	var connected recorder[bool]
	d.OnConnectionStatus(statuses.add)
	d.OnIsConnected(connected.add)

	require.NoError(t, d.Disconnect(context.Background()))

	assert.Equal(t, []connection.Status{connection.StatusDisconnecting, connection.StatusNotConnected}, statuses.get())
	assert.Equal(t, []bool{false}, connected.get())
	assert.False(t, d.IsConnected())
}

func TestDeviceSetsCurrentTimeWhenUnset(t *testing.T) {
	f := newFakeManager("AA:BB")
	d := NewWithManager(f, testConfig())
	defer d.Close()
	require.NoError(t, d.Connect(context.Background()))
	f.resetSent()

	f.DispatchMessage(wire.MsgGetCurrentTime, make([]byte, 8))

	last := f.lastSent()
	require.Equal(t, wire.MsgSetCurrentTime, last.Type)
	assert.Equal(t, uint64(testNow.UnixMilli()), binary.LittleEndian.Uint64(last.Data))
	assert.False(t, d.Information().IsCurrentTimeSet())

	answers := requiredAnswers()
	answers[wire.MsgGetCurrentTime] = make([]byte, 8)
	for _, typ := range RequiredInformation {
		f.DispatchMessage(typ, answers[typ])
	}
	assert.False(t, d.IsConnected(), "connected with the device clock unset")

	f.DispatchMessage(wire.MsgSetCurrentTime, EncodeCurrentTime(testNow))
	assert.True(t, d.IsConnected())
}

func TestDeviceRoutesMessages(t *testing.T) {
	d, f := connectedDevice(t, testConfig())

	var levels recorder[int]
	d.OnBatteryLevel(levels.add)
	f.DispatchMessage(wire.MsgBatteryLevel, []byte{82})
	assert.Equal(t, []int{82}, levels.get())
	assert.Equal(t, 82, d.BatteryLevel())

	f.DispatchMessage(wire.MsgManufacturerName, []byte("Brilliant"))
	f.DispatchMessage(wire.MsgPnpId, []byte{1, 0x5F, 0x02, 0x01, 0x00, 0x02, 0x00})
	info := d.DeviceInformation()
	assert.Equal(t, "Brilliant", info.ManufacturerName)
	require.NotNil(t, info.PnpID)
	assert.Equal(t, PnpID{Source: "Bluetooth", VendorID: 0x025F, ProductID: 1, ProductVersion: 2}, *info.PnpID)

	assert.Equal(t, telemetry.SensorConfiguration{wire.SensorAcceleration: 0, wire.SensorPressure: 0}, d.SensorConfiguration())

	data, ok := d.LatestMessage(wire.MsgGetName)
	require.True(t, ok)
	assert.Equal(t, []byte("Left"), data)

	msgs := d.LatestMessages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, wire.MsgManufacturerName, msgs[0].Type, "cache is ordered by ConnectionMessageTypes")
}

func TestDeviceDecodesTelemetry(t *testing.T) {
	d, f := connectedDevice(t, testConfig())

	var readings recorder[telemetry.Reading]
	d.Telemetry().OnReading(wire.SensorAcceleration, readings.add)

	accel, _ := wire.SensorTypes.Index(wire.SensorAcceleration)
	scalars := append([]byte{byte(accel)}, binary.LittleEndian.AppendUint32(nil, math.Float32bits(2))...)
	f.DispatchMessage(wire.MsgGetSensorScalars, scalars)

	body, err := wire.Encode(wire.SensorTypes, wire.Message{Type: wire.SensorAcceleration, Data: []byte{1, 0, 2, 0, 3, 0}})
	require.NoError(t, err)
	f.DispatchMessage(wire.MsgSensorData, append([]byte{0, 0}, body...))

	got := readings.get()
	require.Len(t, got, 1)
	assert.Equal(t, telemetry.Vector3{X: 2, Y: 4, Z: 6}, got[0].Value)
}

func TestSetNameWaitsForEcho(t *testing.T) {
	d, f := connectedDevice(t, testConfig())
	f.onSend = func(m wire.Message) {
		if m.Type == wire.MsgSetName {
			name := append([]byte(nil), m.Data...)
			go f.DispatchMessage(wire.MsgGetName, name)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.SetName(ctx, "Right"))
	assert.Equal(t, "Right", d.Information().Name)
}

func TestSetNameTimesOutWithoutEcho(t *testing.T) {
	d, _ := connectedDevice(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.SetName(ctx, "Right"), context.DeadlineExceeded)
}

func TestSetNameValidation(t *testing.T) {
	d, f := connectedDevice(t, testConfig())
	f.resetSent()

	tests := []struct {
		name  string
		valid bool
	}{
		{"a", false},
		{"ab", true},
		{strings.Repeat("x", MaxNameLength-1), true},
		{strings.Repeat("x", MaxNameLength), false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.valid {
			assert.NoError(t, err, tt.name)
		} else {
			assert.ErrorIs(t, err, ErrInvalidName, tt.name)
		}
	}

	assert.ErrorIs(t, d.SetName(context.Background(), "a"), ErrInvalidName)
	assert.Empty(t, f.sentTypes(), "invalid name must not be sent")
}

func TestSetType(t *testing.T) {
	d, f := connectedDevice(t, testConfig())
	f.onSend = func(m wire.Message) {
		if m.Type == wire.MsgSetType {
			data := append([]byte(nil), m.Data...)
			go f.DispatchMessage(wire.MsgGetType, data)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.SetType(ctx, RightInsole))
	assert.Equal(t, RightInsole, d.Information().Type)
	assert.Equal(t, "right", d.Information().Type.InsoleSide())

	assert.ErrorIs(t, d.SetType(ctx, DeviceType("glove")), ErrInvalidDeviceType)
}

func TestSetSensorConfiguration(t *testing.T) {
	d, f := connectedDevice(t, testConfig())
	f.onSend = func(m wire.Message) {
		if m.Type != wire.MsgSetSensorConfiguration {
			return
		}
		// The device echoes its full configuration.
		cfg := d.SensorConfiguration()
		requested, err := telemetry.ParseSensorConfiguration(m.Data)
		require.NoError(t, err)
		maps.Copy(cfg, requested)
		echo, err := telemetry.EncodeSensorConfiguration(cfg, false, nil)
		require.NoError(t, err)
		go f.DispatchMessage(wire.MsgGetSensorConfiguration, echo)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	t.Run("redundant sends nothing", func(t *testing.T) {
		f.resetSent()
		require.NoError(t, d.SetSensorConfiguration(ctx, telemetry.SensorConfiguration{wire.SensorAcceleration: 0}, false))
		assert.Empty(t, f.sentTypes())
	})

	t.Run("applied on echo", func(t *testing.T) {
		f.resetSent()
		require.NoError(t, d.SetSensorConfiguration(ctx, telemetry.SensorConfiguration{wire.SensorAcceleration: 20}, false))
		assert.Equal(t, []string{wire.MsgSetSensorConfiguration}, f.sentTypes())
		assert.Equal(t, uint16(20), d.SensorConfiguration()[wire.SensorAcceleration])
	})

	t.Run("unavailable sensors are dropped", func(t *testing.T) {
		f.resetSent()
		require.NoError(t, d.SetSensorConfiguration(ctx, telemetry.SensorConfiguration{wire.SensorPressure: 40, wire.SensorBarometer: 40}, false))
		assert.Equal(t, []byte{12, 40, 0}, f.lastSent().Data)
	})

	t.Run("invalid rate", func(t *testing.T) {
		err := d.SetSensorConfiguration(ctx, telemetry.SensorConfiguration{wire.SensorAcceleration: 7}, false)
		assert.ErrorIs(t, err, telemetry.ErrInvalidRate)
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, d.ClearSensorConfiguration(ctx))
		for name, rate := range d.SensorConfiguration() {
			assert.Zero(t, rate, name)
		}
	})
}

func TestTriggerVibrationIsOpaque(t *testing.T) {
	d, f := connectedDevice(t, testConfig())
	payload := []byte{0x01, 0x02, 0xFF}

	require.NoError(t, d.TriggerVibration(context.Background(), payload))
	last := f.lastSent()
	assert.Equal(t, wire.MsgTriggerVibration, last.Type)
	assert.Equal(t, payload, last.Data)
}

func TestSetConnectionManagerDetachesPrevious(t *testing.T) {
	first := newFakeManager("AA:BB")
	second := newFakeManager("AA:BB")
	d := NewWithManager(first, testConfig())
	defer d.Close()

	var levels recorder[int]
	d.OnBatteryLevel(levels.add)

	d.SetConnectionManager(second)
	first.DispatchMessage(wire.MsgBatteryLevel, []byte{10})
	second.DispatchMessage(wire.MsgBatteryLevel, []byte{20})

	assert.Equal(t, []int{20}, levels.get())
	assert.Same(t, second, d.ConnectionManager())
}

func TestDeviceWithoutManager(t *testing.T) {
	d := New(Config{})
	defer d.Close()

	assert.ErrorIs(t, d.Connect(context.Background()), ErrNoConnectionManager)
	assert.ErrorIs(t, d.TriggerVibration(context.Background(), nil), ErrNoConnectionManager)
	assert.Equal(t, connection.StatusNotConnected, d.ConnectionStatus())
	assert.Equal(t, -1, d.BatteryLevel())
	assert.False(t, d.CanReconnect())
}

func TestReconnectOnDisconnection(t *testing.T) {
	cfg := testConfig()
	cfg.ReconnectOnDisconnection = true
	cfg.ReconnectInterval = 5 * time.Millisecond
	d, f := connectedDevice(t, cfg)
	f.setCanReconnect(true)

	// Link loss, as reported by a watchdog.
	f.SetStatus(connection.StatusNotConnected)

	require.Eventually(t, func() bool {
		return f.reconnectCount() == 1 && f.Status() == connection.StatusConnected
	}, time.Second, 5*time.Millisecond)

	// Reconnect clears the cache, so information is requested again.
	_, ok := d.LatestMessage(wire.MsgGetName)
	assert.False(t, ok)
}

func TestExplicitDisconnectSuspendsReconnect(t *testing.T) {
	cfg := testConfig()
	cfg.ReconnectOnDisconnection = true
	cfg.ReconnectInterval = 5 * time.Millisecond
	d, f := connectedDevice(t, cfg)
	f.setCanReconnect(true)

	require.NoError(t, d.Disconnect(context.Background()))
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, f.reconnectCount())
	assert.True(t, d.ReconnectOnDisconnection())
}
