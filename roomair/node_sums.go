package roomair

import (
	"github.com/pkg/errors"
)

/*
節点の熱収支の対流と系統の項を合計する。

    Args:
        z: 節点のゾーン
        zid: ゾーンの番号
        nid: 節点
        in: ステップの入力

    Notes:
        節点に属する表面のみを対象とする。窓から空気に直接入る熱は SumIntSensibleGain に加える。
*/
func (s *Simulation) calcNodeSums(z *Zone, zid ZoneID, nid NodeID, in *StepInput) error {
	node := &s.model.Nodes[nid]
	st := &s.nodes[nid]

	// 内部発熱
	st.SumIntSensibleGain = s.gains.ConvectionGains(zid, node.Gains, node.GainFractions)
	if z.NoHeatToReturnAir {
		st.SumIntSensibleGain += s.gains.ReturnAirConvectionGains(zid, node.Gains, node.GainFractions)
	}
	st.SumIntLatentGain = s.gains.LatentGains(zid, node.Gains, node.GainFractions)

	// 給気（比熱はゾーンの絶対湿度で求める）
	c_p := psyCpAirFnW(in.Zones[zid].MeanAirHumRat)
	sum_m_cp_sys, sum_m_cp_t_sys, sum_m_sys, sum_m_w_sys := 0.0, 0.0, 0.0, 0.0
	for _, inlet := range z.InletNodes {
		sn := in.SystemNodes[inlet]
		for _, ne := range node.Equipment {
			if ne.SupplyNode != inlet {
				continue
			}
			m_dot := sn.MassFlowRate * ne.SupplyFraction
			sum_m_cp_sys += m_dot * c_p
			sum_m_cp_t_sys += m_dot * c_p * sn.Temp
			sum_m_sys += m_dot
			sum_m_w_sys += m_dot * sn.HumRat
		}
	}
	mult := z.TotalMultiplier()
	st.SumSysMCp = sum_m_cp_sys / mult
	st.SumSysMCpT = sum_m_cp_t_sys / mult
	st.SumSysM = sum_m_sys / mult
	st.SumSysMW = sum_m_w_sys / mult

	// 表面
	q_gain_win, sum_h_a, sum_h_a_t_surf, sum_h_a_t_ref := 0.0, 0.0, 0.0, 0.0
	for pos, sid := range z.Surfaces {
		if !node.SurfMask[pos] {
			continue
		}
		surf := &s.model.Surfaces[sid]
		ss := &in.Surfaces[sid]

		h_a := 0.0
		area := surf.Area

		if surf.IsWindow() {
			if ss.InteriorShading {
				area += surf.DividerArea
				q_gain_win += ss.DividerHeatGain + ss.ConvHeatFlowNatural
			}
			if surf.EquivalentLayer {
				q_gain_win += ss.OtherConvHeatGain
			}
			if surf.FrameArea > 0.0 {
				h_a_frame := ss.HConvIn * surf.FrameArea * (1.0 + surf.FrameProjectionCorrection)
				sum_h_a_t_surf += h_a_frame * ss.FrameTempIn
				h_a += h_a_frame
			}
			if surf.DividerArea > 0.0 && !ss.InteriorShading {
				h_a_div := ss.HConvIn * surf.DividerArea * (1.0 + 2.0*surf.DividerProjectionCorrection)
				sum_h_a_t_surf += h_a_div * ss.DividerTempIn
				h_a += h_a_div
			}
			if ss.AirflowWindow {
				q_gain_win += ss.ConvHeatGainToZone
				if z.NoHeatToReturnAir {
					q_gain_win += ss.RetHeatGainToZone
				}
			}
		}

		h_a += ss.HConvIn * area
		sum_h_a_t_surf += ss.HConvIn * area * ss.TempIn

		switch surf.RefTemp {
		case AdjacentAirTemp:
			sum_h_a_t_ref += h_a * ss.TempEffBulkAir
		case ZoneSupplyAirTemp:
			if !z.IsControlled() {
				return errors.WithMessagef(ErrUncontrolledSupplyAirReference, "zone %s: surface %s", z.Name, surf.Name)
			}
			if st.SumSysMCp > 0.0 {
				sum_h_a_t_ref += h_a * st.SumSysMCpT / st.SumSysMCp
			} else {
				sum_h_a += h_a
			}
		default:
			sum_h_a += h_a
		}
	}

	st.SumIntSensibleGain += q_gain_win
	st.SumHA = sum_h_a
	st.SumHATsurf = sum_h_a_t_surf
	st.SumHATref = sum_h_a_t_ref
	return nil
}
