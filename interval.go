package main

import (
	"github.com/pkg/errors"
)

// インターバル
type Interval string

// インターバル
const (
	IntervalH1  Interval = "1h"
	IntervalM30 Interval = "30m"
	IntervalM15 Interval = "15m"
	IntervalM10 Interval = "10m"
	IntervalM5  Interval = "5m"
)

var errInvalidInterval = errors.New("invalid interval")

/*
1時間を分割するステップ数を求める。

        Returns:
            1時間を分割するステップ数

        Notes:
            1時間: 1
            30分: 2
            15分: 4
            10分: 6
            5分: 12
*/
func (i Interval) get_n_hour() (int, error) {
	switch i {
	case IntervalH1:
		return 1, nil
	case IntervalM30:
		return 2, nil
	case IntervalM15:
		return 4, nil
	case IntervalM10:
		return 6, nil
	case IntervalM5:
		return 12, nil
	default:
		return 0, errors.WithMessagef(errInvalidInterval, "%q", string(i))
	}
}

/*
1時間を分割するステップに応じてインターバル時間を取得する。

        Returns:
            インターバル時間, h
*/
func (i Interval) get_time() (float64, error) {
	n, err := i.get_n_hour()
	if err != nil {
		return 0.0, err
	}
	return 1.0 / float64(n), nil
}

/*
1時間を分割するステップに応じてインターバル時間を取得する。

        Returns:
            インターバル時間, s
*/
func (i Interval) get_delta_t() (float64, error) {
	t, err := i.get_time()
	if err != nil {
		return 0.0, err
	}
	return t * 3600.0, nil
}

/*
対応するインターバルにおいて1日は何ステップに対応するのか、その数を取得する。
*/
func (i Interval) get_daily_number() (int, error) {
	n, err := i.get_n_hour()
	if err != nil {
		return 0, err
	}
	return 24 * n, nil
}
