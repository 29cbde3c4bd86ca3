package roomair

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulation_GainRaisesOwningNode(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m, WithInternalGains(fixedGains{conv: []float64{100.0}}))
	in := stepInput(m)

	require.NoError(t, sim.Step(in))

	a, err := sim.Node(nodeID(t, m, "a"))
	require.NoError(t, err)
	b, err := sim.Node(nodeID(t, m, "b"))
	require.NoError(t, err)

	// 節点毎の TempIndCoef
	assert.InDelta(t, 0.0, a.SumIntSensibleGain, 1e-12)
	assert.InDelta(t, 3.0*50.0*23.0, a.SumHATsurf, 1e-9)
	assert.InDelta(t, 100.0, b.SumIntSensibleGain, 1e-12)
	assert.InDelta(t, 3.0*10.0*23.0, b.SumHATsurf, 1e-9)
	assert.InDelta(t, 30.0, b.SumHA, 1e-12)

	assert.InDelta(t, initialAirTemp, a.AirTemp, 1e-9)
	assert.Greater(t, b.AirTemp-initialAirTemp, a.AirTemp-initialAirTemp)

	// ゾーンの空気の状態は制御節点に従う
	assert.Equal(t, a.AirTemp, in.Zones[0].MeanAirTemp)
}

func TestSimulation_ReturnNodeBlend(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m)
	in := stepInput(m)

	inlet, _ := m.SystemNodeByName("inlet")
	ret, _ := m.SystemNodeByName("return")
	in.SystemNodes[inlet].MassFlowRate = 0.2

	sim.nodes[nodeID(t, m, "a")].AirTemp = 24.0
	sim.nodes[nodeID(t, m, "b")].AirTemp = 26.0
	sim.nodes[nodeID(t, m, "a")].HumRat = 0.008
	sim.nodes[nodeID(t, m, "b")].HumRat = 0.010

	require.NoError(t, sim.updateZone(&m.Zones[0], 0, in))
	assert.InDelta(t, 25.0, in.SystemNodes[ret].Temp, 1e-12)
	assert.InDelta(t, 0.009, in.SystemNodes[ret].HumRat, 1e-12)
}

func TestSimulation_ReturnNodeKeptWithoutFlow(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m)
	in := stepInput(m)

	ret, _ := m.SystemNodeByName("return")
	in.SystemNodes[ret].Temp = 18.0

	require.NoError(t, sim.Step(in))
	assert.Equal(t, 18.0, in.SystemNodes[ret].Temp)
}

func TestSimulation_SupplyAir(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m)
	in := stepInput(m)

	inlet, _ := m.SystemNodeByName("inlet")
	in.SystemNodes[inlet] = SystemNodeState{Temp: 14.0, HumRat: 0.008, MassFlowRate: 0.2}

	require.NoError(t, sim.Step(in))

	b, _ := sim.Node(nodeID(t, m, "b"))
	c_p := psyCpAirFnW(initialHumRat)
	assert.InDelta(t, 0.1*c_p, b.SumSysMCp, 1e-9)
	assert.InDelta(t, 0.1*c_p*14.0, b.SumSysMCpT, 1e-9)
	assert.InDelta(t, 0.1, b.SumSysM, 1e-12)
	assert.InDelta(t, 0.1*0.008, b.SumSysMW, 1e-12)
	assert.Less(t, b.AirTemp, initialAirTemp)
	assert.Greater(t, b.HumRat, 0.0)
}

func TestSimulation_ZoneMultiplier(t *testing.T) {
	in := twoNodeInput()
	in.Zones[0].Multiplier = 2
	in.Zones[0].ListMultiplier = 2
	m := mustModel(t, in)
	sim := NewSimulation(m)
	step := stepInput(m)

	inlet, _ := m.SystemNodeByName("inlet")
	step.SystemNodes[inlet] = SystemNodeState{Temp: 14.0, MassFlowRate: 0.4}

	require.NoError(t, sim.Step(step))
	b, _ := sim.Node(nodeID(t, m, "b"))
	assert.InDelta(t, 0.05, b.SumSysM, 1e-12)
}

func TestSimulation_LinkFlows(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m)
	in := stepInput(m)

	in.Network.NodeTemp = []float64{20.0, 30.0}
	in.Network.NodeHumRat = []float64{0.006, 0.012}
	in.Network.LinkFlow = []float64{0.1}
	in.Network.LinkFlow2 = []float64{0.05}

	require.NoError(t, sim.Step(in))

	// a は From 側なので b からの逆向きの流量を受け取る
	a, _ := sim.Node(nodeID(t, m, "a"))
	require.Len(t, a.Links, 1)
	assert.Equal(t, LinkFlow{Temp: 30.0, HumRat: 0.012, MassFlow: 0.05}, a.Links[0])
	assert.InDelta(t, 0.05, a.SumLinkM, 1e-12)
	assert.InDelta(t, 0.05*0.012, a.SumLinkMW, 1e-12)
	assert.InDelta(t, psyCpAirFnW(0.012)*0.05*30.0, a.SumLinkMCpT, 1e-9)

	b, _ := sim.Node(nodeID(t, m, "b"))
	assert.Equal(t, LinkFlow{Temp: 20.0, HumRat: 0.006, MassFlow: 0.1}, b.Links[0])
	assert.InDelta(t, psyCpAirFnW(0.006)*0.1, b.SumLinkMCp, 1e-9)
}

func dehumidifierInput() Input {
	in := twoNodeInput()
	z := &in.Zones[0]
	z.Equipment = append(z.Equipment,
		EquipmentInput{Name: "dehumidifier", Type: DehumidifierDX},
		EquipmentInput{Name: "baseboard", Type: BaseboardConvectiveElectric},
	)
	z.AirNodes[0].Equipment = append(z.AirNodes[0].Equipment,
		NodeEquipmentInput{Name: "dehumidifier", SupplyFraction: 0.5},
		NodeEquipmentInput{Name: "baseboard", SupplyFraction: 0.6},
	)
	z.AirNodes[1].Equipment = append(z.AirNodes[1].Equipment,
		NodeEquipmentInput{Name: "dehumidifier", SupplyFraction: 0.5},
		NodeEquipmentInput{Name: "baseboard", SupplyFraction: 0.4},
	)
	return in
}

func TestSimulation_SystemDependentDeviceOncePerStep(t *testing.T) {
	m := mustModel(t, dehumidifierInput())
	devices := newCountingDevices(map[string]DeviceOutput{
		"dehumidifier": {Sensible: 400.0, Latent: -0.0002},
	})
	sim := NewSimulation(m, WithDevices(devices))
	in := stepInput(m)
	a, b := nodeID(t, m, "a"), nodeID(t, m, "b")

	require.NoError(t, sim.Step(in))
	assert.Equal(t, 1, devices.calls["dehumidifier"])

	sa, _ := sim.Node(a)
	sb, _ := sim.Node(b)
	assert.Equal(t, 0.0, sa.SysDepZoneLoadsLagged)
	assert.InDelta(t, 200.0, sa.SysDepZoneLoadsLaggedOld, 1e-12)
	assert.InDelta(t, 200.0, sb.SysDepZoneLoadsLaggedOld, 1e-12)
	t1 := sa.AirTemp

	// 次のステップで使われる
	require.NoError(t, sim.Step(in))
	assert.Equal(t, 2, devices.calls["dehumidifier"])
	sa, _ = sim.Node(a)
	assert.InDelta(t, 200.0, sa.SysDepZoneLoadsLagged, 1e-12)
	assert.Greater(t, sa.AirTemp, t1)
}

func TestSimulation_NonAirResponse(t *testing.T) {
	m := mustModel(t, dehumidifierInput())
	devices := newCountingDevices(map[string]DeviceOutput{
		"baseboard": {Sensible: 1000.0, Latent: 0.001},
	})
	sim := NewSimulation(m, WithDevices(devices))
	in := stepInput(m)

	require.NoError(t, sim.Step(in))
	assert.Equal(t, 1, devices.calls["baseboard"])

	sa, _ := sim.Node(nodeID(t, m, "a"))
	sb, _ := sim.Node(nodeID(t, m, "b"))
	assert.InDelta(t, 600.0, sa.NonAirSystemResponse, 1e-12)
	assert.InDelta(t, 400.0, sb.NonAirSystemResponse, 1e-12)
	assert.Greater(t, sa.AirTemp, initialAirTemp)
	assert.Equal(t, 0.0, sa.HumRat)
}

func TestSimulation_NoDeviceSimulator(t *testing.T) {
	m := mustModel(t, dehumidifierInput())
	sim := NewSimulation(m)

	err := sim.Step(stepInput(m))
	assert.True(t, errors.Is(err, ErrNoDeviceSimulator))
}

func TestSimulation_SupplyAirReferenceInUncontrolledZone(t *testing.T) {
	in := twoNodeInput()
	z := &in.Zones[0]
	z.Kind = UncontrolledZone
	z.InletNodes = nil
	z.Equipment = nil
	z.AirNodes[0].Equipment = nil
	z.AirNodes[1].Equipment = nil
	z.AirNodes[0].Gains = []GainFractionInput{{Device: "lights", Fraction: 1.0}}
	z.AirNodes[1].Gains = nil
	z.Surfaces[1].ReferenceTemperature = ZoneSupplyAirTemp

	m := mustModel(t, in)
	sim := NewSimulation(m, WithInternalGains(fixedGains{conv: []float64{500.0}}))

	err := sim.Step(stepInput(m))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUncontrolledSupplyAirReference))
	assert.Contains(t, err.Error(), "room")

	// 発熱のある節点aが先でも、どの節点も解かれていない
	a, _ := sim.Node(nodeID(t, m, "a"))
	assert.Equal(t, initialAirTemp, a.AirTemp)
}

func TestSimulation_SupplyAirReference(t *testing.T) {
	in := twoNodeInput()
	in.Zones[0].Surfaces[1].ReferenceTemperature = ZoneSupplyAirTemp
	m := mustModel(t, in)
	sim := NewSimulation(m)
	step := stepInput(m)

	require.NoError(t, sim.Step(step))
	b, _ := sim.Node(nodeID(t, m, "b"))
	assert.InDelta(t, 30.0, b.SumHA, 1e-12)

	inlet, _ := m.SystemNodeByName("inlet")
	step.SystemNodes[inlet] = SystemNodeState{Temp: 14.0, MassFlowRate: 0.2}
	require.NoError(t, sim.Step(step))
	b, _ = sim.Node(nodeID(t, m, "b"))
	assert.Equal(t, 0.0, b.SumHA)
	assert.InDelta(t, 30.0*14.0, b.SumHATref, 1e-9)
}

func TestSimulation_AdjacentAirReference(t *testing.T) {
	in := twoNodeInput()
	in.Zones[0].Surfaces[0].ReferenceTemperature = AdjacentAirTemp
	m := mustModel(t, in)
	sim := NewSimulation(m)
	step := stepInput(m)
	step.Surfaces[0].TempEffBulkAir = 21.0

	require.NoError(t, sim.Step(step))
	a, _ := sim.Node(nodeID(t, m, "a"))
	assert.Equal(t, 0.0, a.SumHA)
	assert.InDelta(t, 150.0*21.0, a.SumHATref, 1e-9)
}

func TestSimulation_WindowTerms(t *testing.T) {
	in := twoNodeInput()
	in.Zones[0].Surfaces = append(in.Zones[0].Surfaces, SurfaceInput{
		Name:                        "window",
		Area:                        2.0,
		Class:                       WindowSurface,
		FrameArea:                   0.2,
		FrameProjectionCorrection:   0.5,
		DividerArea:                 0.1,
		DividerProjectionCorrection: 0.5,
	})
	in.Zones[0].NoHeatToReturnAir = true
	m := mustModel(t, in)
	sim := NewSimulation(m)
	step := stepInput(m)
	w, _ := m.SurfaceByName("window")
	step.Surfaces[w] = SurfaceState{
		HConvIn:            2.0,
		TempIn:             15.0,
		FrameTempIn:        16.0,
		DividerTempIn:      17.0,
		AirflowWindow:      true,
		ConvHeatGainToZone: 10.0,
		RetHeatGainToZone:  5.0,
	}

	require.NoError(t, sim.Step(step))
	a, _ := sim.Node(nodeID(t, m, "a"))

	h_a_frame := 2.0 * 0.2 * 1.5
	h_a_div := 2.0 * 0.1 * 2.0
	h_a_glass := 2.0 * 2.0
	assert.InDelta(t, 150.0+h_a_frame+h_a_div+h_a_glass, a.SumHA, 1e-12)
	assert.InDelta(t, 150.0*23.0+h_a_frame*16.0+h_a_div*17.0+h_a_glass*15.0, a.SumHATsurf, 1e-9)
	assert.InDelta(t, 15.0, a.SumIntSensibleGain, 1e-12)

	// 室内側の遮蔽があると中桟はガラス面に含まれる
	step.Surfaces[w].InteriorShading = true
	step.Surfaces[w].DividerHeatGain = 3.0
	step.Surfaces[w].ConvHeatFlowNatural = 4.0
	require.NoError(t, sim.Step(step))
	a, _ = sim.Node(nodeID(t, m, "a"))
	assert.InDelta(t, 150.0+h_a_frame+2.0*2.1, a.SumHA, 1e-12)
	assert.InDelta(t, 22.0, a.SumIntSensibleGain, 1e-12)
}

func TestSimulation_HumidityNeverNegative(t *testing.T) {
	for _, scheme := range allSchemes {
		t.Run(scheme.String(), func(t *testing.T) {
			in := twoNodeInput()
			in.Algorithm = scheme
			m := mustModel(t, in)
			sim := NewSimulation(m)
			step := stepInput(m)

			for i := 0; i < 8; i++ {
				require.NoError(t, sim.Step(step))
				sim.PushSystemTimestepHistories()
				sim.PushZoneTimestepHistories()
			}
			for id := range m.Nodes {
				st, _ := sim.Node(NodeID(id))
				assert.GreaterOrEqual(t, st.HumRat, 0.0)
				assert.InDelta(t, initialHumRat, st.HumRat, 1e-12)
			}
		})
	}
}

func TestSimulation_HumidityTowardsSupply(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m)
	step := stepInput(m)
	inlet, _ := m.SystemNodeByName("inlet")
	step.SystemNodes[inlet] = SystemNodeState{Temp: 23.0, HumRat: 0.008, MassFlowRate: 0.5}

	for i := 0; i < 200; i++ {
		require.NoError(t, sim.Step(step))
	}
	b, _ := sim.Node(nodeID(t, m, "b"))
	assert.InDelta(t, 0.008, b.HumRat, 1e-6)
	assert.Greater(t, b.RelHumidity, 0.0)
	assert.LessOrEqual(t, b.RelHumidity, 100.0)
}

func TestSimulation_LatentGain(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m, WithInternalGains(fixedGains{latent: []float64{250.0}}))
	require.NoError(t, sim.Step(stepInput(m)))

	b, _ := sim.Node(nodeID(t, m, "b"))
	assert.Equal(t, 250.0, b.SumIntLatentGain)
	assert.Greater(t, b.HumRat, 0.0)
}

func TestSimulation_ReturnAirGains(t *testing.T) {
	in := twoNodeInput()
	gains := fixedGains{conv: []float64{100.0}, ret: []float64{40.0}}

	m := mustModel(t, in)
	sim := NewSimulation(m, WithInternalGains(gains))
	require.NoError(t, sim.Step(stepInput(m)))
	b, _ := sim.Node(nodeID(t, m, "b"))
	assert.Equal(t, 100.0, b.SumIntSensibleGain)

	in.Zones[0].NoHeatToReturnAir = true
	m = mustModel(t, in)
	sim = NewSimulation(m, WithInternalGains(gains))
	require.NoError(t, sim.Step(stepInput(m)))
	b, _ = sim.Node(nodeID(t, m, "b"))
	assert.Equal(t, 140.0, b.SumIntSensibleGain)
}

func TestSimulation_StepInputShape(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m)
	in := stepInput(m)
	in.Surfaces = in.Surfaces[:1]

	err := sim.Step(in)
	assert.True(t, errors.Is(err, ErrStepInput))

	err = sim.SimZone(3, stepInput(m))
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestSimulation_UnknownScheme(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	m.Algorithm = Scheme(7)
	sim := NewSimulation(m)

	err := sim.Step(stepInput(m))
	assert.True(t, errors.Is(err, ErrScheme))
	b, _ := sim.Node(nodeID(t, m, "b"))
	assert.Equal(t, initialAirTemp, b.AirTemp)
}

func TestSimulation_ResetForNewEnvironment(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m, WithInternalGains(fixedGains{conv: []float64{100.0}, latent: []float64{100.0}}))
	require.NoError(t, sim.Step(stepInput(m)))
	sim.PushZoneTimestepHistories()

	sim.ResetForNewEnvironment()
	b, _ := sim.Node(nodeID(t, m, "b"))
	assert.Equal(t, initialAirTemp, b.AirTemp)
	assert.Equal(t, initialHumRat, b.HumRat)
	assert.Equal(t, [3]float64{initialAirTemp, initialAirTemp, initialAirTemp}, b.AirTempX)
	assert.Equal(t, 0.0, b.SumIntSensibleGain)
	assert.Len(t, b.Links, 1)

	sim.ResetForNewRun()
	b, _ = sim.Node(nodeID(t, m, "b"))
	assert.Equal(t, initialAirTemp, b.AirTemp)
}

func TestSimulation_NodeCopy(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m)

	st, err := sim.Node(0)
	require.NoError(t, err)
	st.Links[0].Temp = 99.0
	again, _ := sim.Node(0)
	assert.NotEqual(t, 99.0, again.Links[0].Temp)

	_, err = sim.Node(5)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestSimulation_Report(t *testing.T) {
	m := mustModel(t, twoNodeInput())
	sim := NewSimulation(m)
	in := stepInput(m)
	require.NoError(t, sim.Step(in))

	vals := sim.Report(in)
	require.Len(t, vals, 2*7+2)
	assert.Equal(t, "a", vals[0].KeyValue)
	assert.Equal(t, VarNodeTemperature, vals[0].Variable)
	assert.Equal(t, "C", vals[0].Units)
	assert.InDelta(t, initialAirTemp, vals[0].Value, 1e-9)
	assert.Equal(t, "RoomAirflowNetwork Node NonAirSystemResponse", vals[3].Variable)
	assert.Equal(t, "W", vals[3].Units)
	assert.Equal(t, "return", vals[14].KeyValue)
	assert.Equal(t, VarSystemNodeTemperature, vals[14].Variable)
}
