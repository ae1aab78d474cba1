package telemetry

import (
	"encoding/binary"
	"fmt"

	"github.com/brilliantsole/bs-go/pkg/wire"
)

// parsePositions reads [u8 x][u8 y] pairs, each scaled into [0,1).
func parsePositions(data []byte) ([]Vector2, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes of pressure positions", ErrTruncatedData, len(data))
	}
	positions := make([]Vector2, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		positions = append(positions, Vector2{
			X: float64(data[i]) / 256,
			Y: float64(data[i+1]) / 256,
		})
	}
	return positions, nil
}

// pressureState is the per-device pressure calibration.
type pressureState struct {
	positions []Vector2
	ranges    []*RangeNormalizer
	center    *CenterOfPressureNormalizer
}

func newPressureState() *pressureState {
	return &pressureState{center: NewCenterOfPressureNormalizer()}
}

func (p *pressureState) setPositions(positions []Vector2) {
	p.positions = positions
	p.ranges = make([]*RangeNormalizer, len(positions))
	for i := range p.ranges {
		p.ranges[i] = NewRangeNormalizer()
	}
	p.reset()
}

func (p *pressureState) reset() {
	for _, r := range p.ranges {
		r.Reset()
	}
	p.center.Reset()
}

func (p *pressureState) parse(data []byte, scalar float64) (Pressure, error) {
	n := len(p.positions)
	if len(data) != 2*n {
		return Pressure{}, &DataError{Kind: TruncatedData, SensorType: wire.SensorPressure, Size: len(data)}
	}

	out := Pressure{Sensors: make([]PressureSensor, n)}
	for i := range n {
		raw := binary.LittleEndian.Uint16(data[2*i:])
		scaled := float64(raw) * scalar
		normalized := p.ranges[i].UpdateAndNormalize(scaled)
		out.Sensors[i] = PressureSensor{
			Position:   p.positions[i],
			Raw:        raw,
			Scaled:     scaled,
			Normalized: normalized,
		}
		out.ScaledSum += scaled
		out.NormalizedSum += normalized / float64(n)
	}

	if out.ScaledSum > 0 {
		var center Vector2
		for i := range out.Sensors {
			s := &out.Sensors[i]
			s.Weighted = s.Scaled / out.ScaledSum
			center.X += s.Position.X * s.Weighted
			center.Y += s.Position.Y * s.Weighted
		}
		normalized := p.center.UpdateAndNormalize(center)
		out.Center = &center
		out.NormalizedCenter = &normalized
	}
	return out, nil
}
