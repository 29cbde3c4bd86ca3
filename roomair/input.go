package roomair

/*
設定ファイルから読み込むモデルの入力
*/
type Input struct {
	Algorithm     Scheme       `yaml:"zone_air_solution_algorithm"`
	SystemNodes   []string     `yaml:"system_nodes"`
	InternalGains []string     `yaml:"internal_gains"`
	Network       NetworkInput `yaml:"airflow_network"`
	Zones         []ZoneInput  `yaml:"zones"`
}

type NetworkInput struct {
	Nodes []string    `yaml:"nodes"`
	Links []LinkInput `yaml:"links"`
}

type LinkInput struct {
	Name string `yaml:"name"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type ZoneInput struct {
	Name                string  `yaml:"name"`
	Volume              float64 `yaml:"volume"`                // m3
	FloorArea           float64 `yaml:"floor_area"`            // m2
	ExteriorSurfaceArea float64 `yaml:"exterior_surface_area"` // m2
	Multiplier          int     `yaml:"multiplier"`
	ListMultiplier      int     `yaml:"list_multiplier"`

	SensibleCapacityMultiplier float64 `yaml:"sensible_capacity_multiplier"`
	LatentCapacityMultiplier   float64 `yaml:"latent_capacity_multiplier"`

	Kind              ZoneKind `yaml:"kind"`
	NoHeatToReturnAir bool     `yaml:"no_heat_to_return_air"`

	InletNodes  []string         `yaml:"inlet_nodes"`
	Equipment   []EquipmentInput `yaml:"equipment"`
	Surfaces    []SurfaceInput   `yaml:"surfaces"`
	ControlNode string           `yaml:"control_node"`
	AirNodes    []AirNodeInput   `yaml:"air_nodes"`
}

type EquipmentInput struct {
	Name       string    `yaml:"name"`
	Type       EquipType `yaml:"type"`
	SupplyNode string    `yaml:"supply_node"`
	ReturnNode string    `yaml:"return_node"`
}

type SurfaceInput struct {
	Name                        string        `yaml:"name"`
	Area                        float64       `yaml:"area"` // m2
	Class                       SurfaceClass  `yaml:"class"`
	ReferenceTemperature        RefTemp       `yaml:"reference_temperature"`
	MoistureModel               MoistureModel `yaml:"moisture_model"`
	FrameArea                   float64       `yaml:"frame_area"`
	FrameProjectionCorrection   float64       `yaml:"frame_projection_correction"`
	DividerArea                 float64       `yaml:"divider_area"`
	DividerProjectionCorrection float64       `yaml:"divider_projection_correction"`
	EquivalentLayer             bool          `yaml:"equivalent_layer"`
}

type AirNodeInput struct {
	Name           string               `yaml:"name"`
	NetworkNode    string               `yaml:"network_node"`
	VolumeFraction float64              `yaml:"volume_fraction"`
	Surfaces       []string             `yaml:"surfaces"`
	Gains          []GainFractionInput  `yaml:"gains"`
	Equipment      []NodeEquipmentInput `yaml:"equipment"`
}

type GainFractionInput struct {
	Device   string  `yaml:"device"`
	Fraction float64 `yaml:"fraction"`
}

type NodeEquipmentInput struct {
	Name           string  `yaml:"name"`
	SupplyFraction float64 `yaml:"supply_fraction"`
	ReturnFraction float64 `yaml:"return_fraction"`
}

/*
0の値を既定値で補う。
*/
func (in *Input) FillDefaults() {
	for i := range in.Zones {
		z := &in.Zones[i]
		if z.Multiplier == 0 {
			z.Multiplier = 1
		}
		if z.ListMultiplier == 0 {
			z.ListMultiplier = 1
		}
		if z.SensibleCapacityMultiplier == 0 {
			z.SensibleCapacityMultiplier = 1.0
		}
		if z.LatentCapacityMultiplier == 0 {
			z.LatentCapacityMultiplier = 1.0
		}
	}
}
