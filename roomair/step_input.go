package roomair

import (
	"github.com/pkg/errors"
)

/*
現在のシステムのステップの時間情報
*/
type TimeStep struct {
	SysTimeStep            float64 // h
	ZoneTimeStep           float64 // h
	PreviousSysTimeStep    float64 // h
	UseZoneTimeStepHistory bool
	ShortenTimeStepSys     bool
	FirstHVACIteration     bool
}

/*
収束した空気流動網の解

    Notes:
        LinkFlow は From から To、LinkFlow2 は To から From への質量流量。
*/
type NetworkSolution struct {
	NodeTemp   []float64 // [network node, 1], degree C
	NodeHumRat []float64 // [network node, 1], kg/kgDA
	LinkFlow   []float64 // [link, 1], kg/s
	LinkFlow2  []float64 // [link, 1], kg/s
}

type SystemNodeState struct {
	Temp         float64 // degree C
	HumRat       float64 // kg/kgDA
	MassFlowRate float64 // kg/s
}

type ZoneAirState struct {
	MeanAirTemp   float64 // degree C
	MeanAirHumRat float64 // kg/kgDA
}

/*
表面の室内側の状態
*/
type SurfaceState struct {
	HConvIn             float64 // W/(m2 K)
	TempIn              float64 // degree C
	TempEffBulkAir      float64 // degree C
	FrameTempIn         float64 // degree C
	DividerTempIn       float64 // degree C
	InteriorShading     bool
	DividerHeatGain     float64 // W
	ConvHeatFlowNatural float64 // W
	OtherConvHeatGain   float64 // W
	AirflowWindow       bool
	ConvHeatGainToZone  float64 // W
	RetHeatGainToZone   float64 // W
}

/*
1つのシステムのステップについて外部から与えられる値

    Notes:
        Network と Surfaces は読み取りのみ。Step は還気ノードとゾーンの空気の状態を書き込む。
*/
type StepInput struct {
	Time         TimeStep
	OutBaroPress float64 // Pa
	Network      NetworkSolution
	SystemNodes  []SystemNodeState // [system node, 1]
	Zones        []ZoneAirState    // [zone, 1]
	Surfaces     []SurfaceState    // [surface, 1]
}

/*
モデルに合わせた大きさで、ゾーンを初期状態にしたステップの入力
*/
func NewStepInput(m *Model) *StepInput {
	in := &StepInput{
		OutBaroPress: stdBaroPress,
		Network: NetworkSolution{
			NodeTemp:   make([]float64, len(m.NetworkNodes)),
			NodeHumRat: make([]float64, len(m.NetworkNodes)),
			LinkFlow:   make([]float64, len(m.Links)),
			LinkFlow2:  make([]float64, len(m.Links)),
		},
		SystemNodes: make([]SystemNodeState, len(m.SystemNodes)),
		Zones:       make([]ZoneAirState, len(m.Zones)),
		Surfaces:    make([]SurfaceState, len(m.Surfaces)),
	}
	for i := range in.Network.NodeTemp {
		in.Network.NodeTemp[i] = initialAirTemp
	}
	for i := range in.Zones {
		in.Zones[i] = ZoneAirState{MeanAirTemp: initialAirTemp, MeanAirHumRat: initialHumRat}
	}
	for i := range in.Surfaces {
		in.Surfaces[i].TempIn = initialAirTemp
		in.Surfaces[i].TempEffBulkAir = initialAirTemp
	}
	return in
}

func (in *StepInput) validate(m *Model) error {
	switch {
	case len(in.Network.NodeTemp) != len(m.NetworkNodes), len(in.Network.NodeHumRat) != len(m.NetworkNodes):
		return errors.WithMessagef(ErrStepInput, "%d airflow network nodes expected", len(m.NetworkNodes))
	case len(in.Network.LinkFlow) != len(m.Links), len(in.Network.LinkFlow2) != len(m.Links):
		return errors.WithMessagef(ErrStepInput, "%d airflow network links expected", len(m.Links))
	case len(in.SystemNodes) != len(m.SystemNodes):
		return errors.WithMessagef(ErrStepInput, "%d system nodes expected", len(m.SystemNodes))
	case len(in.Zones) != len(m.Zones):
		return errors.WithMessagef(ErrStepInput, "%d zones expected", len(m.Zones))
	case len(in.Surfaces) != len(m.Surfaces):
		return errors.WithMessagef(ErrStepInput, "%d surfaces expected", len(m.Surfaces))
	case in.Time.SysTimeStep <= 0.0:
		return errors.WithMessagef(ErrStepInput, "system timestep %g h", in.Time.SysTimeStep)
	case in.OutBaroPress <= 0.0:
		return errors.WithMessagef(ErrStepInput, "barometric pressure %g Pa", in.OutBaroPress)
	case !m.Algorithm.valid():
		return errors.WithMessagef(ErrScheme, "%v", m.Algorithm)
	}
	return nil
}
