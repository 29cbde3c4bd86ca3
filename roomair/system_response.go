package roomair

import (
	"github.com/pkg/errors"
)

/*
節点の給気を伴わない機器の顕熱出力

    Notes:
        機器はゾーン・ステップ毎に1度だけ計算し、その出力を受け持つ節点で分け合う。潜熱出力は使わない。
*/
func (s *Simulation) sumNonAirSystemResponse(zid ZoneID, nid NodeID, in *StepInput) error {
	node := &s.model.Nodes[nid]
	st := &s.nodes[nid]
	zs := &s.zones[zid]

	st.NonAirSystemResponse = 0.0
	for _, ne := range node.Equipment {
		if !ne.Type.IsNonAir() {
			continue
		}
		out, ok := zs.nonAirOutput[ne.Equip]
		if !ok {
			var err error
			out, err = s.simulateDevice(ne, zid, in)
			if err != nil {
				return err
			}
			zs.nonAirOutput[ne.Equip] = out
		}
		st.NonAirSystemResponse += ne.SupplyFraction * out.Sensible
	}
	return nil
}

/*
ゾーンの系統依存の機器を計算し、次のステップのために出力を保存する。

    Notes:
        機器を分け合う節点の数によらず、ゾーン・ステップ毎に高々1度だけ計算する。
*/
func (s *Simulation) sumSystemDepResponse(z *Zone, zid ZoneID, in *StepInput) error {
	zs := &s.zones[zid]

	for _, nid := range z.Nodes {
		s.nodes[nid].SysDepZoneLoadsLaggedOld = 0.0
	}

	for _, nid := range z.Nodes {
		for _, ne := range s.model.Nodes[nid].Equipment {
			if !ne.Type.IsSystemDependent() || zs.sysDepDone[ne.Equip] {
				continue
			}
			zs.sysDepDone[ne.Equip] = true

			out, err := s.simulateDevice(ne, zid, in)
			if err != nil {
				return err
			}
			for _, other := range z.Nodes {
				for _, ne2 := range s.model.Nodes[other].Equipment {
					if ne2.Equip == ne.Equip {
						s.nodes[other].SysDepZoneLoadsLaggedOld += ne2.SupplyFraction * out.Sensible
					}
				}
			}
		}
	}
	return nil
}

func (s *Simulation) simulateDevice(ne NodeEquipment, zid ZoneID, in *StepInput) (DeviceOutput, error) {
	if s.devices == nil {
		return DeviceOutput{}, errors.WithMessagef(ErrNoDeviceSimulator, "%s %s", ne.Type, ne.Name)
	}
	out, err := s.devices.Simulate(ne.Type, ne.Name, zid, in.Time.FirstHVACIteration)
	if err != nil {
		return DeviceOutput{}, errors.WithMessagef(err, "%s %s", ne.Type, ne.Name)
	}
	s.log.Debugw("device simulated", "type", ne.Type.String(), "name", ne.Name, "sensible", out.Sensible)
	return out, nil
}
