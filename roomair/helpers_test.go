package roomair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var quarterHour = TimeStep{
	SysTimeStep:            0.25,
	ZoneTimeStep:           0.25,
	PreviousSysTimeStep:    0.25,
	UseZoneTimeStepHistory: true,
	FirstHVACIteration:     true,
}

// 100 m3 の空調されたゾーンを節点a（70 %、外壁）と節点b（30 %、間仕切り）に分け、
// 1台の端末機器を半分ずつ受け持つ
func twoNodeInput() Input {
	return Input{
		Algorithm:     EulerMethod,
		SystemNodes:   []string{"inlet", "return"},
		InternalGains: []string{"lights"},
		Network: NetworkInput{
			Nodes: []string{"node_a", "node_b"},
			Links: []LinkInput{{Name: "opening", From: "node_a", To: "node_b"}},
		},
		Zones: []ZoneInput{{
			Name:       "room",
			Volume:     100.0,
			FloorArea:  40.0,
			Kind:       ControlledZone,
			InletNodes: []string{"inlet"},
			Equipment: []EquipmentInput{
				{Name: "ptac", Type: PackagedTerminalAirConditioner, SupplyNode: "inlet", ReturnNode: "return"},
			},
			Surfaces: []SurfaceInput{
				{Name: "ext_wall", Area: 50.0, Class: WallSurface},
				{Name: "partition", Area: 10.0, Class: WallSurface},
			},
			ControlNode: "a",
			AirNodes: []AirNodeInput{
				{
					Name:           "a",
					NetworkNode:    "node_a",
					VolumeFraction: 0.7,
					Surfaces:       []string{"ext_wall"},
					Equipment:      []NodeEquipmentInput{{Name: "ptac", SupplyFraction: 0.5, ReturnFraction: 0.5}},
				},
				{
					Name:           "b",
					NetworkNode:    "node_b",
					VolumeFraction: 0.3,
					Surfaces:       []string{"partition"},
					Gains:          []GainFractionInput{{Device: "lights", Fraction: 1.0}},
					Equipment:      []NodeEquipmentInput{{Name: "ptac", SupplyFraction: 0.5, ReturnFraction: 0.5}},
				},
			},
		}},
	}
}

func mustModel(t *testing.T, in Input) *Model {
	t.Helper()
	m, err := NewModel(in)
	require.NoError(t, err)
	return m
}

// 全表面が 23 degree C、対流熱伝達率 3 W/(m2 K) のステップの入力
func stepInput(m *Model) *StepInput {
	in := NewStepInput(m)
	in.Time = quarterHour
	for i := range in.Surfaces {
		in.Surfaces[i].HConvIn = 3.0
	}
	return in
}

func nodeID(t *testing.T, m *Model, name string) NodeID {
	t.Helper()
	id, ok := m.NodeByName(name)
	require.True(t, ok, name)
	return id
}

// 機器毎の発熱を割合で重み付けする
type fixedGains struct {
	conv   []float64
	ret    []float64
	latent []float64
}

func weighted(vals []float64, devices []GainID, fractions []float64) float64 {
	sum := 0.0
	for i, d := range devices {
		if int(d) < len(vals) {
			sum += vals[d] * fractions[i]
		}
	}
	return sum
}

func (g fixedGains) ConvectionGains(_ ZoneID, devices []GainID, fractions []float64) float64 {
	return weighted(g.conv, devices, fractions)
}

func (g fixedGains) ReturnAirConvectionGains(_ ZoneID, devices []GainID, fractions []float64) float64 {
	return weighted(g.ret, devices, fractions)
}

func (g fixedGains) LatentGains(_ ZoneID, devices []GainID, fractions []float64) float64 {
	return weighted(g.latent, devices, fractions)
}

type countingDevices struct {
	out   map[string]DeviceOutput
	calls map[string]int
}

func newCountingDevices(out map[string]DeviceOutput) *countingDevices {
	return &countingDevices{out: out, calls: make(map[string]int)}
}

func (d *countingDevices) Simulate(_ EquipType, name string, _ ZoneID, _ bool) (DeviceOutput, error) {
	d.calls[name]++
	return d.out[name], nil
}

type fixedMoisture struct {
	sm    SurfaceMoisture
	calls int
}

func (f *fixedMoisture) Update(SurfaceID, MoistureModel) (SurfaceMoisture, error) {
	f.calls++
	return f.sm, nil
}
