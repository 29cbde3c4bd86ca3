package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"room_air_calc/roomair"
)

const reportFileName = "result_room_air.csv"

/*
出力変数の1行（縦持ち）
*/
type ReportRow struct {
	RunID    string  `csv:"run_id" db:"run_id" bson:"run_id"`
	Step     int     `csv:"step" db:"step" bson:"step"`             // ゾーンのステップ
	SubStep  int     `csv:"sub_step" db:"sub_step" bson:"sub_step"` // システムのステップ
	Hour     float64 `csv:"hour" db:"hour" bson:"hour"`             // 計算開始からの経過時間, h
	KeyValue string  `csv:"key_value" db:"key_value" bson:"key_value"`
	Variable string  `csv:"variable" db:"variable" bson:"variable"`
	Units    string  `csv:"units" db:"units" bson:"units"`
	Value    float64 `csv:"value" db:"value" bson:"value"`
}

/*
計算結果の出力先
*/
type ReportSink interface {
	Write(ctx context.Context, rows []ReportRow) error
	Close(ctx context.Context) error
}

type Recorder struct {
	run_id string
	rows   []ReportRow
}

func NewRecorder(run_id string) *Recorder {
	return &Recorder{run_id: run_id}
}

/*
システムのステップ毎の出力変数を記録する。

    Args:
        n: ゾーンのステップ
        k: システムのステップ
        hour: 経過時間, h
        vals: 出力変数
*/
func (r *Recorder) recording(n, k int, hour float64, vals []roomair.ReportValue) {
	for _, v := range vals {
		r.rows = append(r.rows, ReportRow{
			RunID:    r.run_id,
			Step:     n,
			SubStep:  k,
			Hour:     hour,
			KeyValue: v.KeyValue,
			Variable: v.Variable,
			Units:    v.Units,
			Value:    v.Value,
		})
	}
}

func (r *Recorder) Rows() []ReportRow {
	return r.rows
}

func (r *Recorder) RunID() string {
	return r.run_id
}

func (r *Recorder) export_csv(w io.Writer) error {
	if err := gocsv.Marshal(&r.rows, w); err != nil {
		return errors.WithMessage(err, "failed to write report csv")
	}
	return nil
}

/*
出力フォルダに CSV を保存する。

    Returns:
        保存したファイルのパス
*/
func (r *Recorder) save_csv(output_data_dir string) (string, error) {
	if err := os.MkdirAll(output_data_dir, 0755); err != nil {
		return "", errors.WithMessagef(err, "`%s` is not a directory", output_data_dir)
	}

	path := filepath.Join(output_data_dir, reportFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.WithMessagef(err, "failed to create %s", path)
	}
	defer f.Close()

	if err := r.export_csv(f); err != nil {
		return "", err
	}
	return path, nil
}

/*
出力先へ書き出す。
*/
func (r *Recorder) flush(ctx context.Context, sink ReportSink) error {
	return sink.Write(ctx, r.rows)
}

// [0, n) を size 毎に区切る
func batches(n, size int) [][2]int {
	var out [][2]int
	for i := 0; i < n; i += size {
		out = append(out, [2]int{i, min(i+size, n)})
	}
	return out
}
