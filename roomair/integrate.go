package roomair

import (
	"math"
)

/*
節点の熱・湿気収支を解いて次の空気の状態を求める。

    Args:
        z: 節点のゾーン
        nid: 節点
        in: ステップの入力

    Notes:
        熱収支
            TempDepCoef = SumHA + SumLinkMCp + SumSysMCp
            TempIndCoef = SumIntSensibleGain + SumHATsurf - SumHATref + SumLinkMCpT
                          + SumSysMCpT + NonAirSystemResponse + SysDepZoneLoadsLagged
        湿気収支
            A = SumLinkM + SumHmARa + SumSysM
            B = SumIntLatentGain / Hg + SumSysMW + SumLinkMW + SumHmARaW
        絶対湿度は負にしない。
*/
func (s *Simulation) calcNode(z *Zone, nid NodeID, in *StepInput) {
	node := &s.model.Nodes[nid]
	st := &s.nodes[nid]
	t := in.Time
	scheme := s.model.Algorithm

	// システムの時間間隔, s
	delta_t := t.SysTimeStep * secInHour

	// 節点の空気の容積, m3
	v_node := z.Volume * node.VolumeFraction

	heat := Balance{
		Dep: st.SumHA + st.SumLinkMCp + st.SumSysMCp,
		Ind: st.SumIntSensibleGain + st.SumHATsurf - st.SumHATref + st.SumLinkMCpT + st.SumSysMCpT +
			st.NonAirSystemResponse + st.SysDepZoneLoadsLagged,
		Cap: v_node * z.SensCapMult * st.AirDensity * st.AirCp / delta_t,
	}
	t_new := scheme.Solve(heat, st.AirTempT1, st.tempHistory(t))

	h_g := psyHgAirFnWTdb(st.HumRat, t_new)
	moist := Balance{
		Dep: st.SumLinkM + st.SumHmARa + st.SumSysM,
		Ind: st.SumIntLatentGain/h_g + st.SumSysMW + st.SumLinkMW + st.SumHmARaW,
		Cap: st.AirDensity * v_node * z.LatCapMult / delta_t,
	}
	x_new := math.Max(0.0, scheme.Solve(moist, st.HumRatW1, st.humRatHistory(t)))

	st.AirTemp = t_new
	st.HumRat = x_new
	st.RelHumidity = psyRhFnTdbWPb(t_new, x_new, in.OutBaroPress) * 100.0
	st.refreshProperties(in.OutBaroPress)
}
