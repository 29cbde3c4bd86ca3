package roomair

import (
	"github.com/pkg/errors"
)

/*
湿気移動モデルを持つ節点の表面との湿気の交換を合計する。

    Notes:
        窓は対象外。湿気移動モデルを持つ表面が無ければ合計は0のまま。
*/
func (s *Simulation) calcSurfaceMoistureSums(z *Zone, zid ZoneID, nid NodeID, in *StepInput) error {
	node := &s.model.Nodes[nid]
	st := &s.nodes[nid]
	pb := in.OutBaroPress
	t_zone := in.Zones[zid].MeanAirTemp

	st.SumHmAW = 0.0
	st.SumHmARa = 0.0
	st.SumHmARaW = 0.0

	for pos, sid := range z.Surfaces {
		if !node.SurfMask[pos] {
			continue
		}
		surf := &s.model.Surfaces[sid]
		if surf.IsWindow() || surf.MoistureModel == NoMoistureModel {
			continue
		}
		if s.moisture == nil {
			return errors.WithMessagef(ErrNoMoistureBalance, "surface %s", surf.Name)
		}
		sm, err := s.moisture.Update(sid, surf.MoistureModel)
		if err != nil {
			return errors.WithMessagef(err, "surface %s", surf.Name)
		}

		t_surf := in.Surfaces[sid].TempIn
		h_a := sm.HMassConvIn * surf.Area

		switch surf.MoistureModel {
		case HAMT:
			st.SumHmAW += h_a * (sm.RhoVaporSurfIn - sm.RhoVaporAirIn)
			x_zone := psyWFnTdbRhPb(t_zone, psyRhFnTdbRhov(t_zone, sm.RhoVaporAirIn), pb)
			rho_zone := psyRhoAirFnPbTdbW(pb, t_zone, x_zone)
			x_surf := psyWFnTdbRhPb(t_surf, psyRhFnTdbRhov(t_surf, sm.RhoVaporSurfIn), pb)
			st.SumHmARa += h_a * rho_zone
			st.SumHmARaW += h_a * rho_zone * x_surf
		case EMPD:
			st.SumHmAW += h_a * (sm.RhoVaporSurfIn - sm.RhoVaporAirIn)
			x_surf := psyWFnTdbRhPb(t_surf, psyRhFnTdbRhovLBnd0C(t_surf, sm.RhoVaporAirIn), pb)
			st.SumHmARa += h_a * psyRhoAirFnPbTdbW(pb, t_surf, x_surf)
			st.SumHmARaW += h_a * sm.RhoVaporSurfIn
		}
	}
	return nil
}
