package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"room_air_calc/roomair"
)

type RunSummary struct {
	RunID       string
	ZoneSteps   int
	SystemSteps int
	Elapsed     time.Duration
}

/*
coreメインプログラム

    Args:
        ctx: context（ゾーンのステップの間で中断を確認する）
        cfg: 計算条件
        sc: 境界条件
        model: 室内空気節点モデル
        clock: 経過時間の計測に使う時計
        metrics: メトリクス

    Returns:
        以下のタプル
            (1) 計算結果
            (2) 実行の概要

    Notes:
        システムのステップはゾーンのステップを cfg.SystemStepsPerZoneStep 分割したもの。
        ステップ数が指定されていない場合は、境界条件の最後のステップまで計算する。
*/
func calc(
	ctx context.Context,
	cfg *Config,
	model *roomair.Model,
	sc *Scenario,
	clock clockwork.Clock,
	metrics *Metrics,
) (*Recorder, *RunSummary, error) {
	L().Info("計算開始")

	// ゾーンのステップ数
	n_step := cfg.Steps
	if n_step <= 0 {
		n_step = sc.LastStep() + 1
	}

	// ゾーンの時間間隔, h
	zone_step, err := cfg.Interval.get_time()
	if err != nil {
		return nil, nil, err
	}

	// システムの時間間隔, h
	n_sys := cfg.SystemStepsPerZoneStep
	sys_step := zone_step / float64(n_sys)
	shortened := n_sys > 1

	sim := roomair.NewSimulation(model,
		roomair.WithLogger(L().Named("roomair")),
		roomair.WithInternalGains(sc),
		roomair.WithDevices(sc),
		roomair.WithMoisture(sc),
	)
	sim.ResetForNewEnvironment()

	in := roomair.NewStepInput(model)
	in.OutBaroPress = cfg.OutBaroPress

	// ゾーンの時間間隔, s
	delta_t, err := cfg.Interval.get_delta_t()
	if err != nil {
		return nil, nil, err
	}

	// 1日あたりのステップ数
	n_day, err := cfg.Interval.get_daily_number()
	if err != nil {
		return nil, nil, err
	}

	run_id := uuid.New().String()
	result := NewRecorder(run_id)
	L().Infow("Run", "run_id", run_id, "zone_steps", n_step, "days", float64(n_step)/float64(n_day),
		"delta_t", delta_t, "system_steps_per_zone_step", n_sys)

	start := clock.Now()
	prev_sys_step := zone_step
	prog := newProgress(n_step)
	for n := 0; n < n_step; n++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.WithMessagef(err, "stopped at step %d", n)
		}

		sc.Apply(n, in)

		if shortened && prev_sys_step >= zone_step {
			sim.DownInterpolateHistories(zone_step, sys_step)
		}

		for k := 0; k < n_sys; k++ {
			in.Time = roomair.TimeStep{
				SysTimeStep:            sys_step,
				ZoneTimeStep:           zone_step,
				PreviousSysTimeStep:    prev_sys_step,
				UseZoneTimeStepHistory: !shortened,
				ShortenTimeStepSys:     shortened,
				FirstHVACIteration:     true,
			}

			t0 := clock.Now()
			if err := sim.Step(in); err != nil {
				return nil, nil, errors.WithMessagef(err, "step %d.%d", n, k)
			}
			metrics.StepDuration.Observe(clock.Since(t0).Seconds())
			metrics.StepsSimulated.Inc()

			sim.PushSystemTimestepHistories()
			prev_sys_step = sys_step

			hour := float64(n)*zone_step + float64(k+1)*sys_step
			result.recording(n, k, hour, sim.Report(in))
		}
		sim.PushZoneTimestepHistories()

		for id, node := range model.Nodes {
			st, err := sim.Node(roomair.NodeID(id))
			if err != nil {
				return nil, nil, err
			}
			metrics.NodeTemperature.WithLabelValues(node.Name).Set(st.AirTemp)
			metrics.NodeHumidityRatio.WithLabelValues(node.Name).Set(st.HumRat)
		}

		if m := prog.step(n); m > 0 {
			L().Infof("%d / 12 calculated.", m)
		}
	}

	summary := &RunSummary{
		RunID:       run_id,
		ZoneSteps:   n_step,
		SystemSteps: n_step * n_sys,
		Elapsed:     clock.Since(start),
	}
	L().Infof("elapsed_time: %v", summary.Elapsed)
	return result, summary, nil
}

/*
計算の進捗（12分割）

    Notes:
        ステップ数が12未満の場合は、1ステップで複数の区切りを越える。
*/
type progress struct {
	n_step int
	m      int // 次に報告する区切り
}

func newProgress(n_step int) *progress {
	return &progress{n_step: n_step, m: 1}
}

// ステップnの終了時点で越えた区切り、越えていなければ0
func (p *progress) step(n int) int {
	done := (n + 1) * 12 / p.n_step
	if done < p.m {
		return 0
	}
	p.m = done + 1
	return done
}
