package roomair

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

/*
全ゾーンの室内空気節点の計算状態

    Notes:
        ゾーンは互いに独立。ゾーン内の節点は毎回番号順に処理する。
*/
type Simulation struct {
	model    *Model
	log      *zap.SugaredLogger
	gains    InternalGains
	devices  DeviceSimulator
	moisture MoistureBalance

	nodes []NodeState // [node, 1]
	zones []zoneState // [zone, 1]
}

/*
1ステップ内のゾーン毎の機器計算の記録
*/
type zoneState struct {
	nonAirOutput map[int]DeviceOutput // ゾーンの機器の添字 -> 出力
	sysDepDone   map[int]bool         // ゾーンの機器の添字 -> 計算済み
}

func (zs *zoneState) beginStep() {
	zs.nonAirOutput = make(map[int]DeviceOutput)
	zs.sysDepDone = make(map[int]bool)
}

type Option func(*Simulation)

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

func WithInternalGains(g InternalGains) Option {
	return func(s *Simulation) {
		if g != nil {
			s.gains = g
		}
	}
}

func WithDevices(d DeviceSimulator) Option {
	return func(s *Simulation) {
		s.devices = d
	}
}

func WithMoisture(mb MoistureBalance) Option {
	return func(s *Simulation) {
		s.moisture = mb
	}
}

/*
解決したモデルについて、計算開始時の状態を作る。
*/
func NewSimulation(m *Model, opts ...Option) *Simulation {
	s := &Simulation{
		model: m,
		log:   zap.NewNop().Sugar(),
		gains: noGains{},
		nodes: make([]NodeState, len(m.Nodes)),
		zones: make([]zoneState, len(m.Zones)),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range m.Nodes {
		s.nodes[i] = initialNodeState(len(m.Nodes[i].Links), stdBaroPress)
	}
	for i := range s.zones {
		s.zones[i].beginStep()
	}
	return s
}

func (s *Simulation) Model() *Model {
	return s.model
}

// 節点の状態の複製
func (s *Simulation) Node(id NodeID) (NodeState, error) {
	if id < 0 || int(id) >= len(s.nodes) {
		return NodeState{}, errors.WithMessagef(ErrOutOfRange, "air node %d", id)
	}
	st := s.nodes[id]
	st.Links = append([]LinkFlow(nil), st.Links...)
	return st, nil
}

/*
新しい計算期間（設計日・期間計算）の開始時に履歴を初期化する。
*/
func (s *Simulation) ResetForNewEnvironment() {
	for i := range s.nodes {
		s.nodes[i].resetHistory(stdBaroPress)
	}
	for i := range s.zones {
		s.zones[i].beginStep()
	}
}

/*
NewSimulation 直後の状態にすべて戻す。
*/
func (s *Simulation) ResetForNewRun() {
	for i := range s.model.Nodes {
		s.nodes[i] = initialNodeState(len(s.model.Nodes[i].Links), stdBaroPress)
	}
	for i := range s.zones {
		s.zones[i] = zoneState{}
		s.zones[i].beginStep()
	}
}

// ゾーンのステップ毎に、その最後のシステムのステップの後で呼ぶ
func (s *Simulation) PushZoneTimestepHistories() {
	for i := range s.nodes {
		s.nodes[i].pushZoneHistory()
	}
}

// システムのステップ毎に呼ぶ
func (s *Simulation) PushSystemTimestepHistories() {
	for i := range s.nodes {
		s.nodes[i].pushSystemHistory()
	}
}

/*
システムのステップが短縮された最初に、短縮したステップの履歴を作る。

    Args:
        oldStep: ゾーンの時間間隔, h
        newStep: システムの時間間隔, h
*/
func (s *Simulation) DownInterpolateHistories(oldStep, newStep float64) {
	for i := range s.nodes {
		s.nodes[i].downInterpolate(oldStep, newStep)
	}
}

/*
1つのシステムのステップについて全ゾーンを解く。

    Args:
        in: 外部から与えられる値（還気ノードとゾーンの空気の状態は書き込まれる）

    Returns:
        最初の致命的なエラー。失敗したゾーンの節点はどれも解かない。
*/
func (s *Simulation) Step(in *StepInput) error {
	if err := in.validate(s.model); err != nil {
		return err
	}
	for zid := range s.model.Zones {
		if err := s.simZone(ZoneID(zid), in); err != nil {
			return err
		}
	}
	return nil
}

/*
1つのシステムのステップについて1つのゾーンを解く。
*/
func (s *Simulation) SimZone(zid ZoneID, in *StepInput) error {
	if _, err := s.model.Zone(zid); err != nil {
		return err
	}
	if err := in.validate(s.model); err != nil {
		return err
	}
	return s.simZone(zid, in)
}

func (s *Simulation) simZone(zid ZoneID, in *StepInput) error {
	z := &s.model.Zones[zid]
	zs := &s.zones[zid]
	zs.beginStep()

	// 前のステップの系統依存の機器の負荷
	for _, nid := range z.Nodes {
		st := &s.nodes[nid]
		st.SysDepZoneLoadsLagged = st.SysDepZoneLoadsLaggedOld
	}

	for _, nid := range z.Nodes {
		if err := s.initNode(z, zid, nid, in); err != nil {
			return errors.WithMessagef(err, "zone %s: air node %s", z.Name, s.model.Nodes[nid].Name)
		}
	}
	for _, nid := range z.Nodes {
		s.calcNode(z, nid, in)
	}
	if err := s.updateZone(z, zid, in); err != nil {
		return errors.WithMessagef(err, "zone %s", z.Name)
	}

	s.log.Debugw("zone solved", "zone", z.Name, "temp", s.nodes[z.ControlNode].AirTemp)
	return nil
}

/*
節点の収支のすべての項を集める。
*/
func (s *Simulation) initNode(z *Zone, zid ZoneID, nid NodeID, in *StepInput) error {
	st := &s.nodes[nid]
	st.setPriorValues(in.Time)

	s.updateLinkFlows(nid, in)

	if err := s.calcNodeSums(z, zid, nid, in); err != nil {
		return err
	}
	if err := s.sumNonAirSystemResponse(zid, nid, in); err != nil {
		return err
	}
	if err := s.calcSurfaceMoistureSums(z, zid, nid, in); err != nil {
		return err
	}

	st.refreshProperties(in.OutBaroPress)
	return nil
}

/*
系統依存の機器を計算し、節点の空気を還気ノードで混合して、制御節点の状態をゾーンに渡す。
*/
func (s *Simulation) updateZone(z *Zone, zid ZoneID, in *StepInput) error {
	if err := s.sumSystemDepResponse(z, zid, in); err != nil {
		return err
	}

	if z.IsControlled() {
		for _, ret := range z.ReturnNodes() {
			var temps, humRats, weights []float64
			for _, nid := range z.Nodes {
				st := &s.nodes[nid]
				for _, ne := range s.model.Nodes[nid].Equipment {
					if ne.ReturnNode != ret || ne.SupplyNode == NoSystemNode {
						continue
					}
					temps = append(temps, st.AirTemp)
					humRats = append(humRats, st.HumRat)
					weights = append(weights, in.SystemNodes[ne.SupplyNode].MassFlowRate*ne.ReturnFraction)
				}
			}
			if len(weights) == 0 || floats.Sum(weights) <= 0.0 {
				continue
			}
			in.SystemNodes[ret].Temp = stat.Mean(temps, weights)
			in.SystemNodes[ret].HumRat = stat.Mean(humRats, weights)
		}
	}

	ctrl := &s.nodes[z.ControlNode]
	in.Zones[zid] = ZoneAirState{MeanAirTemp: ctrl.AirTemp, MeanAirHumRat: ctrl.HumRat}
	return nil
}
