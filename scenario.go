package main

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"room_air_calc/roomair"
)

/*
境界条件ファイルの1行

    Notes:
        値は指定されたステップから、次に同じ項目が指定されるまで保持される。
*/
type BoundaryRecord struct {
	Step   int     `csv:"step"`
	Object string  `csv:"object"`
	Name   string  `csv:"name"`
	Field  string  `csv:"field"`
	Value  float64 `csv:"value"`
}

// 機器はゾーン毎に名前が付くため、ゾーンと名前の組で区別する
type deviceKey struct {
	zone roomair.ZoneID
	name string
}

type gainValues struct {
	convection float64 // W
	returnAir  float64 // W
	latent     float64 // W
}

/*
境界条件（空気流動網の解・給気・表面・内部発熱・機器出力・表面湿気）のスケジュール

    Notes:
        roomair.InternalGains, roomair.DeviceSimulator, roomair.MoistureBalance を実装する。
*/
type Scenario struct {
	model    *roomair.Model
	steps    map[int][]func(in *roomair.StepInput)
	lastStep int
	metrics  *Metrics

	gains    []gainValues // [gain, 1]
	devices  map[deviceKey]roomair.DeviceOutput
	moisture []roomair.SurfaceMoisture // [surface, 1]
}

func NewScenario(m *roomair.Model, records []BoundaryRecord, metrics *Metrics) (*Scenario, error) {
	sc := &Scenario{
		model:    m,
		steps:    make(map[int][]func(in *roomair.StepInput)),
		lastStep: -1,
		metrics:  metrics,
		gains:    make([]gainValues, len(m.Gains)),
		devices:  make(map[deviceKey]roomair.DeviceOutput),
		moisture: make([]roomair.SurfaceMoisture, len(m.Surfaces)),
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].Step < records[j].Step })

	var err error
	for i, r := range records {
		if r.Step < 0 {
			err = multierr.Append(err, errors.Errorf("record %d: negative step %d", i+1, r.Step))
			continue
		}
		set, e := sc.compile(r)
		if e != nil {
			err = multierr.Append(err, errors.WithMessagef(e, "record %d", i+1))
			continue
		}
		sc.steps[r.Step] = append(sc.steps[r.Step], set)
		if r.Step > sc.lastStep {
			sc.lastStep = r.Step
		}
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

/*
境界条件ファイル（CSV）を読み込む。
*/
func loadScenario(ctx context.Context, path string, m *roomair.Model, metrics *Metrics) (*Scenario, error) {
	if path == "" {
		return NewScenario(m, nil, metrics)
	}

	rc, err := openSource(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := readBoundaryRecords(rc)
	if err != nil {
		return nil, errors.WithMessagef(err, "scenario %s", path)
	}
	L().Infof("Read %d boundary records from `%s`", len(records), path)

	sc, err := NewScenario(m, records, metrics)
	if err != nil {
		return nil, errors.WithMessagef(err, "scenario %s", path)
	}
	return sc, nil
}

func readBoundaryRecords(r io.Reader) ([]BoundaryRecord, error) {
	var records []BoundaryRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, errors.WithMessage(err, "failed to parse boundary records")
	}
	return records, nil
}

// 最後に値が指定されたステップ
func (sc *Scenario) LastStep() int {
	return sc.lastStep
}

/*
ステップnで指定された境界条件を反映する。
*/
func (sc *Scenario) Apply(n int, in *roomair.StepInput) {
	for _, set := range sc.steps[n] {
		set(in)
	}
}

func (sc *Scenario) compile(r BoundaryRecord) (func(in *roomair.StepInput), error) {
	v := r.Value
	unknownField := errors.Errorf("%s %s: unknown field %q", r.Object, r.Name, r.Field)
	unknownName := errors.Errorf("%s: unknown name %q", r.Object, r.Name)

	switch r.Object {
	case "network_node":
		id, ok := sc.model.NetworkNodeByName(r.Name)
		if !ok {
			return nil, unknownName
		}
		switch r.Field {
		case "temp":
			return func(in *roomair.StepInput) { in.Network.NodeTemp[id] = v }, nil
		case "hum_rat":
			return func(in *roomair.StepInput) { in.Network.NodeHumRat[id] = v }, nil
		}

	case "network_link":
		id, ok := sc.model.LinkByName(r.Name)
		if !ok {
			return nil, unknownName
		}
		switch r.Field {
		case "flow":
			return func(in *roomair.StepInput) { in.Network.LinkFlow[id] = v }, nil
		case "flow2":
			return func(in *roomair.StepInput) { in.Network.LinkFlow2[id] = v }, nil
		}

	case "system_node":
		id, ok := sc.model.SystemNodeByName(r.Name)
		if !ok {
			return nil, unknownName
		}
		switch r.Field {
		case "temp":
			return func(in *roomair.StepInput) { in.SystemNodes[id].Temp = v }, nil
		case "hum_rat":
			return func(in *roomair.StepInput) { in.SystemNodes[id].HumRat = v }, nil
		case "mass_flow_rate":
			return func(in *roomair.StepInput) { in.SystemNodes[id].MassFlowRate = v }, nil
		}

	case "zone":
		id, ok := sc.model.ZoneByName(r.Name)
		if !ok {
			return nil, unknownName
		}
		switch r.Field {
		case "mean_air_temp":
			return func(in *roomair.StepInput) { in.Zones[id].MeanAirTemp = v }, nil
		case "mean_air_hum_rat":
			return func(in *roomair.StepInput) { in.Zones[id].MeanAirHumRat = v }, nil
		}

	case "surface":
		id, ok := sc.model.SurfaceByName(r.Name)
		if !ok {
			return nil, unknownName
		}
		if set := surfaceSetter(id, r.Field, v); set != nil {
			return set, nil
		}

	case "gain":
		id, ok := sc.model.GainByName(r.Name)
		if !ok {
			return nil, unknownName
		}
		g := &sc.gains[id]
		switch r.Field {
		case "convection":
			return func(*roomair.StepInput) { g.convection = v }, nil
		case "return_air_convection":
			return func(*roomair.StepInput) { g.returnAir = v }, nil
		case "latent":
			return func(*roomair.StepInput) { g.latent = v }, nil
		}

	case "equipment":
		keys := sc.equipmentKeys(r.Name)
		if len(keys) == 0 {
			return nil, unknownName
		}
		var set func(out *roomair.DeviceOutput)
		switch r.Field {
		case "sensible":
			set = func(out *roomair.DeviceOutput) { out.Sensible = v }
		case "latent":
			set = func(out *roomair.DeviceOutput) { out.Latent = v }
		default:
			return nil, unknownField
		}
		return func(*roomair.StepInput) {
			for _, k := range keys {
				out := sc.devices[k]
				set(&out)
				sc.devices[k] = out
			}
		}, nil

	case "moisture":
		id, ok := sc.model.SurfaceByName(r.Name)
		if !ok {
			return nil, unknownName
		}
		sm := &sc.moisture[id]
		switch r.Field {
		case "h_mass_conv_in":
			return func(*roomair.StepInput) { sm.HMassConvIn = v }, nil
		case "rho_vapor_surf_in":
			return func(*roomair.StepInput) { sm.RhoVaporSurfIn = v }, nil
		case "rho_vapor_air_in":
			return func(*roomair.StepInput) { sm.RhoVaporAirIn = v }, nil
		}

	default:
		return nil, errors.Errorf("unknown object %q", r.Object)
	}
	return nil, unknownField
}

func surfaceSetter(id roomair.SurfaceID, field string, v float64) func(in *roomair.StepInput) {
	var set func(s *roomair.SurfaceState)
	switch field {
	case "h_conv_in":
		set = func(s *roomair.SurfaceState) { s.HConvIn = v }
	case "temp_in":
		set = func(s *roomair.SurfaceState) { s.TempIn = v }
	case "temp_eff_bulk_air":
		set = func(s *roomair.SurfaceState) { s.TempEffBulkAir = v }
	case "frame_temp_in":
		set = func(s *roomair.SurfaceState) { s.FrameTempIn = v }
	case "divider_temp_in":
		set = func(s *roomair.SurfaceState) { s.DividerTempIn = v }
	case "interior_shading":
		set = func(s *roomair.SurfaceState) { s.InteriorShading = v != 0.0 }
	case "divider_heat_gain":
		set = func(s *roomair.SurfaceState) { s.DividerHeatGain = v }
	case "conv_heat_flow_natural":
		set = func(s *roomair.SurfaceState) { s.ConvHeatFlowNatural = v }
	case "other_conv_heat_gain":
		set = func(s *roomair.SurfaceState) { s.OtherConvHeatGain = v }
	case "airflow_window":
		set = func(s *roomair.SurfaceState) { s.AirflowWindow = v != 0.0 }
	case "conv_heat_gain_to_zone":
		set = func(s *roomair.SurfaceState) { s.ConvHeatGainToZone = v }
	case "ret_heat_gain_to_zone":
		set = func(s *roomair.SurfaceState) { s.RetHeatGainToZone = v }
	default:
		return nil
	}
	return func(in *roomair.StepInput) { set(&in.Surfaces[id]) }
}

/*
境界条件の機器名に該当する機器

    Args:
        name: "ゾーン名/機器名"、またはゾーン名を省略した "機器名"

    Notes:
        ゾーン名を省略した場合は、その名前の機器を持つすべてのゾーンが該当する。
*/
func (sc *Scenario) equipmentKeys(name string) []deviceKey {
	zone, equip, qualified := strings.Cut(name, "/")
	if !qualified {
		zone, equip = "", name
	}

	var keys []deviceKey
	for zid, z := range sc.model.Zones {
		if qualified && z.Name != zone {
			continue
		}
		for _, eq := range z.Equipment {
			if eq.Name == equip {
				keys = append(keys, deviceKey{roomair.ZoneID(zid), equip})
			}
		}
	}
	return keys
}

func (sc *Scenario) sumGains(devices []roomair.GainID, fractions []float64, pick func(g gainValues) float64) float64 {
	sum := 0.0
	for i, d := range devices {
		sum += pick(sc.gains[d]) * fractions[i]
	}
	return sum
}

func (sc *Scenario) ConvectionGains(_ roomair.ZoneID, devices []roomair.GainID, fractions []float64) float64 {
	return sc.sumGains(devices, fractions, func(g gainValues) float64 { return g.convection })
}

func (sc *Scenario) ReturnAirConvectionGains(_ roomair.ZoneID, devices []roomair.GainID, fractions []float64) float64 {
	return sc.sumGains(devices, fractions, func(g gainValues) float64 { return g.returnAir })
}

func (sc *Scenario) LatentGains(_ roomair.ZoneID, devices []roomair.GainID, fractions []float64) float64 {
	return sc.sumGains(devices, fractions, func(g gainValues) float64 { return g.latent })
}

/*
機器の出力は境界条件で与えられた値を返す（指定が無ければ0）。
*/
func (sc *Scenario) Simulate(typ roomair.EquipType, name string, zid roomair.ZoneID, _ bool) (roomair.DeviceOutput, error) {
	if sc.metrics != nil {
		sc.metrics.DeviceInvocations.WithLabelValues(typ.String()).Inc()
	}
	return sc.devices[deviceKey{zid, name}], nil
}

func (sc *Scenario) Update(surf roomair.SurfaceID, _ roomair.MoistureModel) (roomair.SurfaceMoisture, error) {
	if surf < 0 || int(surf) >= len(sc.moisture) {
		return roomair.SurfaceMoisture{}, errors.Errorf("surface %d out of range", surf)
	}
	return sc.moisture[surf], nil
}
