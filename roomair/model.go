package roomair

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
)

/*
ゾーン・室内空気節点とその接続を解決した、変更されないモデル

    Notes:
        NewModel で1度だけ作る。要素間の参照はすべてここに持つスライスの型付きの添字。
*/
type Model struct {
	Algorithm    Scheme
	SystemNodes  []string
	Gains        []string
	NetworkNodes []string
	Links        []Link
	Zones        []Zone
	Surfaces     []Surface
	Nodes        []AirNode

	zoneIdx        map[string]ZoneID
	nodeIdx        map[string]NodeID
	surfaceIdx     map[string]SurfaceID
	systemNodeIdx  map[string]SystemNodeID
	networkNodeIdx map[string]NetworkNodeID
	linkIdx        map[string]LinkID
	gainIdx        map[string]GainID
}

type Link struct {
	Name string
	From NetworkNodeID
	To   NetworkNodeID
}

type Zone struct {
	Name                string
	Volume              float64 // m3
	FloorArea           float64 // m2
	ExteriorSurfaceArea float64 // m2
	Multiplier          int
	ListMultiplier      int
	SensCapMult         float64
	LatCapMult          float64
	Kind                ZoneKind
	NoHeatToReturnAir   bool
	InletNodes          []SystemNodeID
	Equipment           []Equipment
	Surfaces            []SurfaceID
	ControlNode         NodeID
	Nodes               []NodeID
}

// ゾーンに機器の構成があるかどうか
func (z *Zone) IsControlled() bool {
	return z.Kind == ControlledZone
}

// ゾーンの倍数とゾーンリストの倍数の積
func (z *Zone) TotalMultiplier() float64 {
	return float64(z.Multiplier * z.ListMultiplier)
}

// ゾーンの機器の還気ノード（重複なし、機器の順）
func (z *Zone) ReturnNodes() []SystemNodeID {
	var out []SystemNodeID
	seen := make(map[SystemNodeID]bool)
	for _, eq := range z.Equipment {
		if eq.ReturnNode == NoSystemNode || seen[eq.ReturnNode] {
			continue
		}
		seen[eq.ReturnNode] = true
		out = append(out, eq.ReturnNode)
	}
	return out
}

type Equipment struct {
	Name       string
	Type       EquipType
	SupplyNode SystemNodeID
	ReturnNode SystemNodeID
}

type Surface struct {
	Name                        string
	Zone                        ZoneID
	Area                        float64
	Class                       SurfaceClass
	RefTemp                     RefTemp
	MoistureModel               MoistureModel
	FrameArea                   float64
	FrameProjectionCorrection   float64
	DividerArea                 float64
	DividerProjectionCorrection float64
	EquivalentLayer             bool
}

func (s *Surface) IsWindow() bool {
	return s.Class == WindowSurface
}

type AirNode struct {
	Name           string
	Zone           ZoneID
	Local          LocalNodeID
	NetworkNode    NetworkNodeID
	VolumeFraction float64
	SurfMask       []bool // [zone surface, 1]
	Gains          []GainID
	GainFractions  []float64
	Equipment      []NodeEquipment
	Links          []NodeLink
}

/*
1つのゾーンの機器のうち節点が受け持つ割合
*/
type NodeEquipment struct {
	Equip          int // Zone.Equipment の添字
	Name           string
	Type           EquipType
	SupplyFraction float64
	ReturnFraction float64
	SupplyNode     SystemNodeID
	ReturnNode     SystemNodeID
}

/*
節点の空気流動網ノードに接する経路

    Notes:
        Upstream は経路の反対側の端。節点が From 側にある場合は Reverse とし、
        流入は To から From への流量となる。
*/
type NodeLink struct {
	Link     LinkID
	Upstream NetworkNodeID
	Reverse  bool
}

/*
名前を解決し、接続を確認する。

    Args:
        in: モデルの入力（呼び出し側の値は変更しない）

    Returns:
        解決したモデル、または見つかったすべての設定の誤りをまとめたエラー
*/
func NewModel(in Input) (*Model, error) {
	in.Zones = append([]ZoneInput(nil), in.Zones...)
	in.FillDefaults()

	m := &Model{
		Algorithm:      in.Algorithm,
		SystemNodes:    append([]string(nil), in.SystemNodes...),
		Gains:          append([]string(nil), in.InternalGains...),
		NetworkNodes:   append([]string(nil), in.Network.Nodes...),
		zoneIdx:        make(map[string]ZoneID),
		nodeIdx:        make(map[string]NodeID),
		surfaceIdx:     make(map[string]SurfaceID),
		systemNodeIdx:  make(map[string]SystemNodeID),
		networkNodeIdx: make(map[string]NetworkNodeID),
		linkIdx:        make(map[string]LinkID),
		gainIdx:        make(map[string]GainID),
	}

	var err error
	if !in.Algorithm.valid() {
		err = multierr.Append(err, errors.WithMessagef(ErrScheme, "%v", in.Algorithm))
	}
	for i, name := range m.SystemNodes {
		err = multierr.Append(err, register(m.systemNodeIdx, name, SystemNodeID(i), "system node"))
	}
	for i, name := range m.Gains {
		err = multierr.Append(err, register(m.gainIdx, name, GainID(i), "internal gain"))
	}
	for i, name := range m.NetworkNodes {
		err = multierr.Append(err, register(m.networkNodeIdx, name, NetworkNodeID(i), "airflow network node"))
	}
	for i, l := range in.Network.Links {
		err = multierr.Append(err, register(m.linkIdx, l.Name, LinkID(i), "airflow network link"))
		from, e1 := lookup(m.networkNodeIdx, l.From, "airflow network node")
		to, e2 := lookup(m.networkNodeIdx, l.To, "airflow network node")
		err = multierr.Append(err, multierr.Combine(e1, e2))
		m.Links = append(m.Links, Link{Name: l.Name, From: from, To: to})
	}

	for i := range in.Zones {
		err = multierr.Append(err, m.addZone(ZoneID(i), &in.Zones[i]))
	}
	if err != nil {
		return nil, err
	}

	m.resolveLinks()
	return m, nil
}

func (m *Model) addZone(zid ZoneID, zi *ZoneInput) error {
	var err error
	err = multierr.Append(err, register(m.zoneIdx, zi.Name, zid, "zone"))

	z := Zone{
		Name:                zi.Name,
		Volume:              zi.Volume,
		FloorArea:           zi.FloorArea,
		ExteriorSurfaceArea: zi.ExteriorSurfaceArea,
		Multiplier:          zi.Multiplier,
		ListMultiplier:      zi.ListMultiplier,
		SensCapMult:         zi.SensibleCapacityMultiplier,
		LatCapMult:          zi.LatentCapacityMultiplier,
		Kind:                zi.Kind,
		NoHeatToReturnAir:   zi.NoHeatToReturnAir,
		ControlNode:         -1,
	}

	if zi.Volume <= 0.0 {
		err = multierr.Append(err, errors.WithMessagef(ErrZoneVolume, "zone %s: volume = %g", zi.Name, zi.Volume))
	}
	if zi.SensibleCapacityMultiplier <= 0.0 || zi.LatentCapacityMultiplier <= 0.0 {
		err = multierr.Append(err, errors.WithMessagef(ErrCapacityMultiplier, "zone %s: sensible = %g, latent = %g",
			zi.Name, zi.SensibleCapacityMultiplier, zi.LatentCapacityMultiplier))
	}

	for _, name := range zi.InletNodes {
		id, e := lookup(m.systemNodeIdx, name, "system node")
		err = multierr.Append(err, e)
		z.InletNodes = append(z.InletNodes, id)
	}
	equipIdx := make(map[string]int)
	for i, ei := range zi.Equipment {
		if _, ok := equipIdx[ei.Name]; ok {
			err = multierr.Append(err, errors.WithMessagef(ErrDuplicateName, "zone %s: equipment %s", zi.Name, ei.Name))
		}
		equipIdx[ei.Name] = i
		eq := Equipment{Name: ei.Name, Type: ei.Type, SupplyNode: NoSystemNode, ReturnNode: NoSystemNode}
		if ei.SupplyNode != "" {
			id, e := lookup(m.systemNodeIdx, ei.SupplyNode, "system node")
			err = multierr.Append(err, e)
			eq.SupplyNode = id
		}
		if ei.ReturnNode != "" {
			id, e := lookup(m.systemNodeIdx, ei.ReturnNode, "system node")
			err = multierr.Append(err, e)
			eq.ReturnNode = id
		}
		z.Equipment = append(z.Equipment, eq)
	}

	// ゾーンの表面、ゾーン内の位置 -> 全体の番号
	surfPos := make(map[string]int)
	for i, si := range zi.Surfaces {
		sid := SurfaceID(len(m.Surfaces))
		err = multierr.Append(err, register(m.surfaceIdx, si.Name, sid, "surface"))
		surfPos[si.Name] = i
		m.Surfaces = append(m.Surfaces, Surface{
			Name:                        si.Name,
			Zone:                        zid,
			Area:                        si.Area,
			Class:                       si.Class,
			RefTemp:                     si.ReferenceTemperature,
			MoistureModel:               si.MoistureModel,
			FrameArea:                   si.FrameArea,
			FrameProjectionCorrection:   si.FrameProjectionCorrection,
			DividerArea:                 si.DividerArea,
			DividerProjectionCorrection: si.DividerProjectionCorrection,
			EquivalentLayer:             si.EquivalentLayer,
		})
		z.Surfaces = append(z.Surfaces, sid)
	}

	if len(zi.AirNodes) == 0 {
		err = multierr.Append(err, errors.WithMessagef(ErrControlNode, "zone %s has no air nodes", zi.Name))
	}

	owner := make([]int, len(zi.Surfaces)) // 所属する節点の番号 + 1、未割当は0
	volumeFractions := make([]float64, 0, len(zi.AirNodes))
	for li, ni := range zi.AirNodes {
		nid := NodeID(len(m.Nodes))
		err = multierr.Append(err, register(m.nodeIdx, ni.Name, nid, "air node"))
		node := AirNode{
			Name:           ni.Name,
			Zone:           zid,
			Local:          LocalNodeID(li),
			NetworkNode:    -1,
			VolumeFraction: ni.VolumeFraction,
			SurfMask:       make([]bool, len(zi.Surfaces)),
		}
		volumeFractions = append(volumeFractions, ni.VolumeFraction)
		if ni.VolumeFraction <= 0.0 || ni.VolumeFraction > 1.0 {
			err = multierr.Append(err, errors.WithMessagef(ErrVolumeFraction, "zone %s: air node %s: fraction = %g", zi.Name, ni.Name, ni.VolumeFraction))
		}

		if ni.NetworkNode != "" {
			id, e := lookup(m.networkNodeIdx, ni.NetworkNode, "airflow network node")
			err = multierr.Append(err, e)
			node.NetworkNode = id
		}
		for _, name := range ni.Surfaces {
			pos, ok := surfPos[name]
			if !ok {
				err = multierr.Append(err, errors.WithMessagef(ErrUnknownName, "zone %s: air node %s: surface %s", zi.Name, ni.Name, name))
				continue
			}
			if owner[pos] != 0 && owner[pos] != li+1 {
				err = multierr.Append(err, errors.WithMessagef(ErrSurfaceAssignment, "zone %s: surface %s", zi.Name, name))
				continue
			}
			owner[pos] = li + 1
			node.SurfMask[pos] = true
		}
		for _, g := range ni.Gains {
			id, e := lookup(m.gainIdx, g.Device, "internal gain")
			err = multierr.Append(err, e)
			node.Gains = append(node.Gains, id)
			node.GainFractions = append(node.GainFractions, g.Fraction)
		}
		for _, ne := range ni.Equipment {
			k, ok := equipIdx[ne.Name]
			if !ok {
				err = multierr.Append(err, errors.WithMessagef(ErrEquipmentNotFound, "zone %s: air node %s: equipment %s", zi.Name, ni.Name, ne.Name))
				continue
			}
			eq := z.Equipment[k]
			node.Equipment = append(node.Equipment, NodeEquipment{
				Equip:          k,
				Name:           eq.Name,
				Type:           eq.Type,
				SupplyFraction: ne.SupplyFraction,
				ReturnFraction: ne.ReturnFraction,
				SupplyNode:     eq.SupplyNode,
				ReturnNode:     eq.ReturnNode,
			})
		}

		if ni.Name == zi.ControlNode {
			z.ControlNode = nid
		}
		z.Nodes = append(z.Nodes, nid)
		m.Nodes = append(m.Nodes, node)
	}

	if len(zi.AirNodes) > 0 {
		if z.ControlNode < 0 {
			err = multierr.Append(err, errors.WithMessagef(ErrControlNode, "zone %s: control node %q", zi.Name, zi.ControlNode))
		} else {
			// 未割当の表面は制御節点に属する
			ctrl := &m.Nodes[z.ControlNode]
			for pos, o := range owner {
				if o == 0 {
					ctrl.SurfMask[pos] = true
				}
			}
		}
		if sum := floats.Sum(volumeFractions); math.Abs(sum-1.0) > fractionTolerance {
			err = multierr.Append(err, errors.WithMessagef(ErrVolumeFraction, "zone %s: sum = %g", zi.Name, sum))
		}
	}

	m.Zones = append(m.Zones, z)
	if err != nil {
		return err
	}

	err = multierr.Append(err, m.checkInletNodes(&m.Zones[zid]))
	err = multierr.Append(err, m.checkFractions(&m.Zones[zid]))
	return err
}

/*
ゾーンの給気口ノードは、節点が受け持つ機器のうちちょうど1つの給気ノードでなければならない。
*/
func (m *Model) checkInletNodes(z *Zone) error {
	matched := make(map[int]bool)
	for _, nid := range z.Nodes {
		for _, ne := range m.Nodes[nid].Equipment {
			if ne.SupplyNode != NoSystemNode {
				matched[ne.Equip] = true
			}
		}
	}
	supplied := make(map[SystemNodeID]int)
	for k := range matched {
		supplied[z.Equipment[k].SupplyNode]++
	}

	var err error
	if len(matched) != len(z.InletNodes) {
		err = multierr.Append(err, errors.WithMessagef(ErrInletNodeMismatch,
			"zone %s: %d supply nodes assigned to air nodes, %d inlet nodes", z.Name, len(matched), len(z.InletNodes)))
	}
	for _, inlet := range z.InletNodes {
		if n := supplied[inlet]; n != 1 {
			err = multierr.Append(err, errors.WithMessagef(ErrInletNodeMismatch,
				"zone %s: inlet node %s matched %d times", z.Name, m.SystemNodes[inlet], n))
		}
	}
	return err
}

/*
機器毎に、ゾーンの全節点の給気の割合の合計は1でなければならない。
還気ノードを持つ機器は還気の割合も同様。
*/
func (m *Model) checkFractions(z *Zone) error {
	supply := make([][]float64, len(z.Equipment))
	ret := make([][]float64, len(z.Equipment))
	for _, nid := range z.Nodes {
		for _, ne := range m.Nodes[nid].Equipment {
			supply[ne.Equip] = append(supply[ne.Equip], ne.SupplyFraction)
			ret[ne.Equip] = append(ret[ne.Equip], ne.ReturnFraction)
		}
	}

	var err error
	for k, eq := range z.Equipment {
		if s := floats.Sum(supply[k]); math.Abs(s-1.0) > fractionTolerance {
			err = multierr.Append(err, errors.WithMessagef(ErrFractionSum,
				"zone %s: equipment %s: supply fraction sum = %g", z.Name, eq.Name, s))
		}
		if eq.ReturnNode == NoSystemNode {
			continue
		}
		if s := floats.Sum(ret[k]); math.Abs(s-1.0) > fractionTolerance {
			err = multierr.Append(err, errors.WithMessagef(ErrFractionSum,
				"zone %s: equipment %s: return fraction sum = %g", z.Name, eq.Name, s))
		}
	}
	return err
}

// 各節点に、その空気流動網ノードに接する経路を結び付ける
func (m *Model) resolveLinks() {
	for i := range m.Nodes {
		node := &m.Nodes[i]
		if node.NetworkNode < 0 {
			continue
		}
		for lid, l := range m.Links {
			switch node.NetworkNode {
			case l.From:
				node.Links = append(node.Links, NodeLink{Link: LinkID(lid), Upstream: l.To, Reverse: true})
			case l.To:
				node.Links = append(node.Links, NodeLink{Link: LinkID(lid), Upstream: l.From})
			}
		}
	}
}

func (m *Model) ZoneByName(name string) (ZoneID, bool) {
	id, ok := m.zoneIdx[name]
	return id, ok
}

func (m *Model) NodeByName(name string) (NodeID, bool) {
	id, ok := m.nodeIdx[name]
	return id, ok
}

func (m *Model) SurfaceByName(name string) (SurfaceID, bool) {
	id, ok := m.surfaceIdx[name]
	return id, ok
}

func (m *Model) SystemNodeByName(name string) (SystemNodeID, bool) {
	id, ok := m.systemNodeIdx[name]
	return id, ok
}

func (m *Model) NetworkNodeByName(name string) (NetworkNodeID, bool) {
	id, ok := m.networkNodeIdx[name]
	return id, ok
}

func (m *Model) LinkByName(name string) (LinkID, bool) {
	id, ok := m.linkIdx[name]
	return id, ok
}

func (m *Model) GainByName(name string) (GainID, bool) {
	id, ok := m.gainIdx[name]
	return id, ok
}

// 範囲を確認してゾーンを取得する
func (m *Model) Zone(id ZoneID) (*Zone, error) {
	if id < 0 || int(id) >= len(m.Zones) {
		return nil, errors.WithMessagef(ErrOutOfRange, "zone %d", id)
	}
	return &m.Zones[id], nil
}

// 範囲を確認して節点を取得する
func (m *Model) Node(id NodeID) (*AirNode, error) {
	if id < 0 || int(id) >= len(m.Nodes) {
		return nil, errors.WithMessagef(ErrOutOfRange, "air node %d", id)
	}
	return &m.Nodes[id], nil
}

func register[T ~int](idx map[string]T, name string, id T, kind string) error {
	if name == "" {
		return errors.WithMessagef(ErrUnknownName, "%s without a name", kind)
	}
	if _, ok := idx[name]; ok {
		return errors.WithMessagef(ErrDuplicateName, "%s %s", kind, name)
	}
	idx[name] = id
	return nil
}

func lookup[T ~int](idx map[string]T, name string, kind string) (T, error) {
	id, ok := idx[name]
	if !ok {
		return -1, errors.WithMessagef(ErrUnknownName, "%s %s", kind, name)
	}
	return id, nil
}
