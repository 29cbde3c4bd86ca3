package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"room_air_calc/roomair"
)

/*
室内空気節点の計算処理の実行

    Args:
        ctx: context
        opts: コマンドライン引数
*/
func run(ctx context.Context, opts *options) error {
	// 計算条件の読み込み
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return err
	}
	SetLogLevel(cfg.LogLevel)
	prettyPrint(cfg)

	metrics := NewMetrics()
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr)
		defer srv.Close()
	}

	// 室内空気節点モデルの構築
	model, err := roomair.NewModel(cfg.Model)
	if err != nil {
		return errors.WithMessage(err, "invalid model")
	}
	L().Infof("Model: %d zones, %d air nodes, %d surfaces", len(model.Zones), len(model.Nodes), len(model.Surfaces))

	// 境界条件の読み込み
	sc, err := loadScenario(ctx, cfg.Scenario, model, metrics)
	if err != nil {
		return err
	}

	// ---- 計算 ----
	result, summary, err := calc(ctx, cfg, model, sc, clockwork.NewRealClock(), metrics)
	if err != nil {
		return err
	}

	// ---- 計算結果の保存 ----
	return save(ctx, cfg, result, summary)
}

func save(ctx context.Context, cfg *Config, result *Recorder, summary *RunSummary) error {
	if cfg.Output.CSV {
		path, err := result.save_csv(cfg.Output.Dir)
		if err != nil {
			return err
		}
		L().Infof("Save calculation results to `%s`", path)
	}

	var sinks []ReportSink
	if cfg.Output.SQLite != "" {
		s, err := NewSQLiteSink(ctx, cfg.Output.SQLite)
		if err != nil {
			return err
		}
		sinks = append(sinks, s)
	}
	if cfg.Output.MongoURI != "" {
		s, err := NewMongoSink(ctx, cfg.Output.MongoURI, cfg.Output.MongoDatabase, cfg.Output.MongoCollection)
		if err != nil {
			return err
		}
		sinks = append(sinks, s)
	}

	for _, s := range sinks {
		err := result.flush(ctx, s)
		if cerr := s.Close(ctx); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.WithMessagef(err, "run %s", summary.RunID)
		}
	}
	return nil
}

func main() {
	opts, err := parseFlags(os.Args)
	if err != nil {
		L().Error(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err = run(ctx, opts)
	stop()
	if err != nil {
		L().Errorf("%v", err)
		closeLogger()
		os.Exit(1)
	}
	closeLogger()
}
