package roomair

/*
室内空気節点の状態
*/
type NodeState struct {
	AirTemp     float64 // degree C
	HumRat      float64 // kg/kgDA
	RelHumidity float64 // %
	AirDensity  float64 // kg/m3
	AirCp       float64 // J/(kg K)

	AirTempX   [3]float64 // ゾーンのステップの履歴, degree C
	AirTempDSX [3]float64 // 短縮したシステムのステップの履歴, degree C
	AirTempT1  float64    // ステップ開始時の温度, degree C
	HumRatX    [3]float64 // kg/kgDA
	HumRatDSX  [3]float64 // kg/kgDA
	HumRatW1   float64    // kg/kgDA

	SumIntSensibleGain float64 // W
	SumIntLatentGain   float64 // W
	SumHA              float64 // W/K
	SumHATsurf         float64 // W
	SumHATref          float64 // W
	SumSysMCp          float64 // W/K
	SumSysMCpT         float64 // W
	SumSysM            float64 // kg/s
	SumSysMW           float64 // kg/s
	SumLinkMCp         float64 // W/K
	SumLinkMCpT        float64 // W
	SumLinkM           float64 // kg/s
	SumLinkMW          float64 // kg/s

	NonAirSystemResponse     float64 // W
	SysDepZoneLoadsLagged    float64 // W
	SysDepZoneLoadsLaggedOld float64 // W

	SumHmAW   float64 // kg/s
	SumHmARa  float64 // kg/s
	SumHmARaW float64 // kg/s

	Links []LinkFlow // [node link, 1]
}

/*
空気流動網の1つの経路から節点への流入
*/
type LinkFlow struct {
	Temp     float64 // degree C
	HumRat   float64 // kg/kgDA
	MassFlow float64 // kg/s
}

/*
計算開始時の節点の状態

    Args:
        nLinks: 節点に接する経路の数
        pb: 大気圧, Pa
*/
func initialNodeState(nLinks int, pb float64) NodeState {
	s := NodeState{Links: make([]LinkFlow, nLinks)}
	s.resetHistory(pb)
	return s
}

// 23℃・乾き空気に戻し、合計値を消去する
func (s *NodeState) resetHistory(pb float64) {
	links := s.Links
	for i := range links {
		links[i] = LinkFlow{}
	}
	*s = NodeState{Links: links}

	s.AirTemp = initialAirTemp
	s.AirTempT1 = initialAirTemp
	s.HumRat = initialHumRat
	s.HumRatW1 = initialHumRat
	for i := 0; i < 3; i++ {
		s.AirTempX[i] = initialAirTemp
		s.AirTempDSX[i] = initialAirTemp
		s.HumRatX[i] = initialHumRat
		s.HumRatDSX[i] = initialHumRat
	}
	s.RelHumidity = psyRhFnTdbWPb(s.AirTemp, s.HumRat, pb) * 100.0
	s.refreshProperties(pb)
}

// 現在の温度・絶対湿度から密度と比熱を求める
func (s *NodeState) refreshProperties(pb float64) {
	s.AirDensity = psyRhoAirFnPbTdbW(pb, s.AirTemp, s.HumRat)
	s.AirCp = psyCpAirFnW(s.HumRat)
}

/*
オイラー法・解析解で使うステップ開始時の値を設定する。

    Notes:
        システムのステップが短縮されている場合、直前のステップも短縮されていれば
        短縮したステップの履歴から、そうでなければゾーンのステップの履歴から取る。
*/
func (s *NodeState) setPriorValues(t TimeStep) {
	if t.ShortenTimeStepSys && t.SysTimeStep < t.ZoneTimeStep {
		if t.PreviousSysTimeStep < t.ZoneTimeStep {
			s.AirTempT1 = s.AirTempDSX[0]
			s.HumRatW1 = s.HumRatDSX[0]
		} else {
			s.AirTempT1 = s.AirTempX[0]
			s.HumRatW1 = s.HumRatX[0]
		}
	} else {
		s.AirTempT1 = s.AirTemp
		s.HumRatW1 = s.HumRat
	}
}

// 3次後退差分で使う過去の値
func (s *NodeState) tempHistory(t TimeStep) [3]float64 {
	if t.UseZoneTimeStepHistory {
		return s.AirTempX
	}
	return s.AirTempDSX
}

func (s *NodeState) humRatHistory(t TimeStep) [3]float64 {
	if t.UseZoneTimeStepHistory {
		return s.HumRatX
	}
	return s.HumRatDSX
}

func (s *NodeState) pushZoneHistory() {
	s.AirTempX = [3]float64{s.AirTemp, s.AirTempX[0], s.AirTempX[1]}
	s.HumRatX = [3]float64{s.HumRat, s.HumRatX[0], s.HumRatX[1]}
}

func (s *NodeState) pushSystemHistory() {
	s.AirTempDSX = [3]float64{s.AirTemp, s.AirTempDSX[0], s.AirTempDSX[1]}
	s.HumRatDSX = [3]float64{s.HumRat, s.HumRatDSX[0], s.HumRatDSX[1]}
}

/*
ゾーンのステップの履歴から短縮したステップの履歴を作る。

    Args:
        oldStep: ゾーンの時間間隔, h
        newStep: 短縮したシステムの時間間隔, h
*/
func (s *NodeState) downInterpolate(oldStep, newStep float64) {
	s.AirTempDSX = downInterpolate(oldStep, newStep, s.AirTemp, s.AirTempX)
	s.HumRatDSX = downInterpolate(oldStep, newStep, s.HumRat, s.HumRatX)
}

/*
0, -old, -2old, -3old の履歴を -new, -2new, -3new に線形補間する。

    Notes:
        最も古い履歴より前の時点はその値とする。
*/
func downInterpolate(oldStep, newStep, val0 float64, hist [3]float64) [3]float64 {
	vals := [4]float64{val0, hist[0], hist[1], hist[2]}

	var out [3]float64
	for k := 0; k < 3; k++ {
		t := float64(k+1) * newStep
		i := int(t / oldStep)
		if i >= 3 {
			out[k] = vals[3]
			continue
		}
		frac := (t - float64(i)*oldStep) / oldStep
		out[k] = vals[i] + (vals[i+1]-vals[i])*frac
	}
	return out
}
