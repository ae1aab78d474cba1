package sink

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brilliantsole/bs-go/pkg/telemetry"
	"github.com/brilliantsole/bs-go/pkg/wire"
)

var at = time.UnixMilli(1_700_000_000_123)

func TestFields(t *testing.T) {
	center := &telemetry.Vector2{X: 0.25, Y: 0.75}
	tests := []struct {
		name  string
		value any
		want  map[string]any
	}{
		{"vector", telemetry.Vector3{X: 1, Y: 2, Z: 3}, map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}},
		{"euler", telemetry.Euler{Heading: 90, Pitch: -1, Roll: 0}, map[string]any{"heading": 90.0, "pitch": -1.0, "roll": 0.0}},
		{"steps", telemetry.StepCounter(42), map[string]any{"steps": int64(42)}},
		{"step detector", telemetry.StepDetector{}, map[string]any{"step": true}},
		{"orientation", telemetry.LandscapeLeft, map[string]any{"orientation": "landscapeLeft"}},
		{"barometer", telemetry.Barometer{Pressure: 101325, Altitude: 0}, map[string]any{"pressure": 101325.0, "altitude": 0.0}},
		{"pressure", telemetry.Pressure{
			Sensors:       []telemetry.PressureSensor{{Normalized: 0.5}, {Normalized: 1}},
			ScaledSum:     2,
			NormalizedSum: 1.5,
			Center:        center,
		}, map[string]any{
			"scaled_sum": 2.0, "normalized_sum": 1.5,
			"center_x": 0.25, "center_y": 0.75,
			"sensor_00": 0.5, "sensor_01": 1.0,
		}},
		{"unknown", struct{}{}, map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(telemetry.Reading{Value: tt.value}))
		})
	}
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "bs/AABBCC/sensor/pressure", Topic("bs/", "AA:BB:CC", wire.SensorPressure))
	assert.Equal(t, "bs/a_b_c_/sensor/gyroscope", Topic("bs", "a/b+c#", wire.SensorGyroscope))
}

func TestPayload(t *testing.T) {
	data, err := Payload(telemetry.Reading{
		SensorType: wire.SensorAcceleration,
		Timestamp:  at,
		Value:      telemetry.Vector3{X: 1},
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, float64(at.UnixMilli()), got["timestamp"])
	assert.Equal(t, wire.SensorAcceleration, got["sensorType"])
	assert.Equal(t, map[string]any{"x": 1.0, "y": 0.0, "z": 0.0}, got["fields"])
}

type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
}

func (p *fakePublisher) Publish(topic string, qos byte, _ bool, payload interface{}) pahomqtt.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{topic, qos, payload.([]byte)})
	return doneToken{}
}

func TestMQTTWrite(t *testing.T) {
	pub := &fakePublisher{}
	s := newMQTT(pub, MQTTConfig{QoS: 1})

	r := telemetry.Reading{SensorType: wire.SensorBarometer, Timestamp: at, Value: telemetry.Barometer{Pressure: 1}}
	require.NoError(t, s.Write("dev", r))

	pub.mu.Lock()
	require.Len(t, pub.sent, 1)
	got := pub.sent[0]
	pub.mu.Unlock()
	assert.Equal(t, "brilliantsole/dev/sensor/barometer", got.topic)
	assert.Equal(t, byte(1), got.qos)
	assert.Contains(t, string(got.payload), `"pressure":1`)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Write("dev", r), ErrClosed)
}

type fakeWriter struct {
	points  []*write.Point
	flushed int
}

func (w *fakeWriter) WritePoint(p *write.Point) { w.points = append(w.points, p) }
func (w *fakeWriter) Flush()                    { w.flushed++ }

func TestPoint(t *testing.T) {
	p := Point("dev", telemetry.Reading{
		SensorType: wire.SensorAcceleration,
		Timestamp:  at,
		Value:      telemetry.Vector3{X: 1, Y: 2, Z: 3},
	})
	require.NotNil(t, p)
	assert.Equal(t, Measurement, p.Name())
	assert.Equal(t, at, p.Time())

	line := write.PointToLineProtocol(p, time.Millisecond)
	assert.True(t, strings.HasPrefix(line, "sensor_data,device_id=dev,sensor_type=acceleration x=1,y=2,z=3 "), line)

	assert.Nil(t, Point("dev", telemetry.Reading{SensorType: "x", Value: nil}))
}

func TestInfluxDBWrite(t *testing.T) {
	w := &fakeWriter{}
	s := newInfluxDB(w, nil)

	require.NoError(t, s.Write("dev", telemetry.Reading{SensorType: wire.SensorStepCounter, Timestamp: at, Value: telemetry.StepCounter(3)}))
	require.NoError(t, s.Write("dev", telemetry.Reading{SensorType: "x"}))
	assert.Len(t, w.points, 1)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, w.flushed)
	assert.ErrorIs(t, s.Write("dev", telemetry.Reading{}), ErrClosed)
}
