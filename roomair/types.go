package roomair

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

type ZoneID int
type NodeID int
type SurfaceID int
type SystemNodeID int
type NetworkNodeID int
type LinkID int
type GainID int

// ゾーン内での節点の番号
type LocalNodeID int

const NoSystemNode SystemNodeID = -1

/*
ゾーンの空気の熱・湿気収支の解法
*/
type Scheme int

const (
	ThirdOrderBackwardDifference Scheme = iota
	AnalyticalSolution
	EulerMethod
)

var schemeNames = map[Scheme]string{
	ThirdOrderBackwardDifference: "ThirdOrderBackwardDifference",
	AnalyticalSolution:           "AnalyticalSolution",
	EulerMethod:                  "EulerMethod",
}

func (s Scheme) String() string { return enumString(schemeNames, s) }

func (s Scheme) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Scheme) UnmarshalText(b []byte) error { return parseEnum(schemeNames, string(b), s) }

func (s Scheme) valid() bool {
	_, ok := schemeNames[s]
	return ok
}

/*
1つの検査体積の収支

    Notes:
        定常状態では Dep * x = Ind 。Cap は x の単位量・1ステップあたりの蓄積項。
*/
type Balance struct {
	Dep float64 // 状態量に比例する項の係数
	Ind float64 // 状態量によらない項
	Cap float64 // 蓄積
}

/*
収支を解いて次の状態量を求める。

    Args:
        b: 係数
        prior: ステップ開始時の状態量（オイラー法・解析解）
        hist: 1, 2, 3ステップ前の状態量（3次後退差分）

    Returns:
        次の状態量（未知の解法の場合は NaN）
*/
func (s Scheme) Solve(b Balance, prior float64, hist [3]float64) float64 {
	switch s {
	case AnalyticalSolution:
		if b.Dep == 0.0 {
			return prior + b.Ind/b.Cap
		}
		exponent := min(maxExponent, -b.Dep/b.Cap)
		return (prior-b.Ind/b.Dep)*math.Exp(exponent) + b.Ind/b.Dep
	case EulerMethod:
		return (b.Cap*prior + b.Ind) / (b.Cap + b.Dep)
	case ThirdOrderBackwardDifference:
		return (b.Ind + b.Cap*floats.Dot(thirdOrderCoeffs[:], hist[:])) / ((11.0/6.0)*b.Cap + b.Dep)
	default:
		return math.NaN()
	}
}

// 3次後退差分の過去3ステップの重み
var thirdOrderCoeffs = [3]float64{3.0, -3.0 / 2.0, 1.0 / 3.0}

type ZoneKind int

const (
	ControlledZone ZoneKind = iota
	ReturnPlenum
	SupplyPlenum
	UncontrolledZone
)

var zoneKindNames = map[ZoneKind]string{
	ControlledZone:   "controlled",
	ReturnPlenum:     "return_plenum",
	SupplyPlenum:     "supply_plenum",
	UncontrolledZone: "uncontrolled",
}

func (k ZoneKind) String() string { return enumString(zoneKindNames, k) }

func (k ZoneKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ZoneKind) UnmarshalText(b []byte) error { return parseEnum(zoneKindNames, string(b), k) }

type SurfaceClass int

const (
	WallSurface SurfaceClass = iota
	FloorSurface
	RoofSurface
	InternalMassSurface
	WindowSurface
	DoorSurface
)

var surfaceClassNames = map[SurfaceClass]string{
	WallSurface:         "wall",
	FloorSurface:        "floor",
	RoofSurface:         "roof",
	InternalMassSurface: "internal_mass",
	WindowSurface:       "window",
	DoorSurface:         "door",
}

func (c SurfaceClass) String() string { return enumString(surfaceClassNames, c) }

func (c SurfaceClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *SurfaceClass) UnmarshalText(b []byte) error {
	return parseEnum(surfaceClassNames, string(b), c)
}

/*
表面の室内側対流の基準温度
*/
type RefTemp int

const (
	ZoneMeanAirTemp RefTemp = iota
	AdjacentAirTemp
	ZoneSupplyAirTemp
)

var refTempNames = map[RefTemp]string{
	ZoneMeanAirTemp:   "zone_mean_air_temp",
	AdjacentAirTemp:   "adjacent_air_temp",
	ZoneSupplyAirTemp: "zone_supply_air_temp",
}

func (r RefTemp) String() string { return enumString(refTempNames, r) }

func (r RefTemp) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *RefTemp) UnmarshalText(b []byte) error { return parseEnum(refTempNames, string(b), r) }

/*
表面の湿気移動モデル
*/
type MoistureModel int

const (
	NoMoistureModel MoistureModel = iota
	HAMT
	EMPD
)

var moistureModelNames = map[MoistureModel]string{
	NoMoistureModel: "none",
	HAMT:            "hamt",
	EMPD:            "empd",
}

func (m MoistureModel) String() string { return enumString(moistureModelNames, m) }

func (m MoistureModel) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MoistureModel) UnmarshalText(b []byte) error {
	return parseEnum(moistureModelNames, string(b), m)
}

/*
ゾーンの機器の種類
*/
type EquipType int

const (
	OtherEquipment EquipType = iota
	BaseboardConvectiveWater
	BaseboardConvectiveElectric
	BaseboardRadiantConvectiveSteam
	BaseboardRadiantConvectiveWater
	BaseboardRadiantConvectiveElectric
	HighTemperatureRadiant
	RefrigerationChillerSet
	DehumidifierDX
	PackagedTerminalAirConditioner
	PackagedTerminalHeatPump
	WindowAirConditioner
	UnitHeater
	UnitVentilator
	FourPipeFanCoil
	AirDistributionUnit
	MultiSpeedHeatPump
)

var equipTypeNames = map[EquipType]string{
	OtherEquipment:                     "Other",
	BaseboardConvectiveWater:           "ZoneHVAC:Baseboard:Convective:Water",
	BaseboardConvectiveElectric:        "ZoneHVAC:Baseboard:Convective:Electric",
	BaseboardRadiantConvectiveSteam:    "ZoneHVAC:Baseboard:RadiantConvective:Steam",
	BaseboardRadiantConvectiveWater:    "ZoneHVAC:Baseboard:RadiantConvective:Water",
	BaseboardRadiantConvectiveElectric: "ZoneHVAC:Baseboard:RadiantConvective:Electric",
	HighTemperatureRadiant:             "ZoneHVAC:HighTemperatureRadiant",
	RefrigerationChillerSet:            "ZoneHVAC:RefrigerationChillerSet",
	DehumidifierDX:                     "ZoneHVAC:Dehumidifier:DX",
	PackagedTerminalAirConditioner:     "ZoneHVAC:PackagedTerminalAirConditioner",
	PackagedTerminalHeatPump:           "ZoneHVAC:PackagedTerminalHeatPump",
	WindowAirConditioner:               "ZoneHVAC:WindowAirConditioner",
	UnitHeater:                         "ZoneHVAC:UnitHeater",
	UnitVentilator:                     "ZoneHVAC:UnitVentilator",
	FourPipeFanCoil:                    "ZoneHVAC:FourPipeFanCoil",
	AirDistributionUnit:                "ZoneHVAC:AirDistributionUnit",
	MultiSpeedHeatPump:                 "AirLoopHVAC:UnitaryHeatPump:AirToAir:MultiSpeed",
}

func (e EquipType) String() string { return enumString(equipTypeNames, e) }

func (e EquipType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *EquipType) UnmarshalText(b []byte) error { return parseEnum(equipTypeNames, string(b), e) }

// 給気を伴わずにゾーンを冷暖房する機器
func (e EquipType) IsNonAir() bool {
	switch e {
	case BaseboardConvectiveWater,
		BaseboardConvectiveElectric,
		BaseboardRadiantConvectiveSteam,
		BaseboardRadiantConvectiveWater,
		BaseboardRadiantConvectiveElectric,
		HighTemperatureRadiant,
		RefrigerationChillerSet:
		return true
	}
	return false
}

// 負荷がゾーンの状態に依存し、1ステップ遅れて反映される機器
func (e EquipType) IsSystemDependent() bool {
	return e == DehumidifierDX
}

func enumString[T comparable](names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%#v)", v)
}

func parseEnum[T comparable](names map[T]string, s string, out *T) error {
	for v, name := range names {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			*out = v
			return nil
		}
	}
	return errors.Errorf("unknown value %q", s)
}
