package roomair

const (
	VarNodeTemperature          = "RoomAirflowNetwork Node Temperature"
	VarNodeHumidityRatio        = "RoomAirflowNetwork Node Humidity Ratio"
	VarNodeRelativeHumidity     = "RoomAirflowNetwork Node Relative Humidity"
	VarNodeNonAirSystemResponse = "RoomAirflowNetwork Node NonAirSystemResponse"
	VarNodeSysDepZoneLoads      = "RoomAirflowNetwork Node SysDepZoneLoadsLagged"
	VarNodeSumIntSensibleGain   = "RoomAirflowNetwork Node SumIntSensibleGain"
	VarNodeSumIntLatentGain     = "RoomAirflowNetwork Node SumIntLatentGain"
	VarSystemNodeTemperature    = "System Node Temperature"
	VarSystemNodeHumidityRatio  = "System Node Humidity Ratio"
)

/*
現在のステップの出力変数の値
*/
type ReportValue struct {
	KeyValue string
	Variable string
	Units    string
	Value    float64
}

/*
全節点と、空調されたゾーンの還気ノードの出力変数

    Args:
        in: 直前に解いたステップの入力
*/
func (s *Simulation) Report(in *StepInput) []ReportValue {
	var out []ReportValue
	for i, node := range s.model.Nodes {
		st := &s.nodes[i]
		out = append(out,
			ReportValue{node.Name, VarNodeTemperature, "C", st.AirTemp},
			ReportValue{node.Name, VarNodeHumidityRatio, "kgWater/kgDryAir", st.HumRat},
			ReportValue{node.Name, VarNodeRelativeHumidity, "%", st.RelHumidity},
			ReportValue{node.Name, VarNodeNonAirSystemResponse, "W", st.NonAirSystemResponse},
			ReportValue{node.Name, VarNodeSysDepZoneLoads, "W", st.SysDepZoneLoadsLagged},
			ReportValue{node.Name, VarNodeSumIntSensibleGain, "W", st.SumIntSensibleGain},
			ReportValue{node.Name, VarNodeSumIntLatentGain, "W", st.SumIntLatentGain},
		)
	}
	for _, z := range s.model.Zones {
		if !z.IsControlled() {
			continue
		}
		for _, ret := range z.ReturnNodes() {
			name := s.model.SystemNodes[ret]
			out = append(out,
				ReportValue{name, VarSystemNodeTemperature, "C", in.SystemNodes[ret].Temp},
				ReportValue{name, VarSystemNodeHumidityRatio, "kgWater/kgDryAir", in.SystemNodes[ret].HumRat},
			)
		}
	}
	return out
}
