package roomair

import (
	"math"
)

/*
飽和水蒸気圧を計算する。

    Args:
        theta: 空気温度, degree C

    Returns:
        飽和水蒸気圧, Pa

    Notes:
        Wexler-Hyland の式。0℃未満は氷面、それ以外は水面に対する値。
*/
func psyPsatFnTemp(theta float64) float64 {
	if theta >= 0.0 {
		return psatLiquid(theta)
	}

	t := theta + kelvinConv

	const b1 = -6024.5282
	const b2 = 29.32707
	const b3 = 0.010613863
	const b4 = -0.000013198825
	const b5 = -0.49382577

	return math.Exp(b1/t + b2 + b3*t + b4*t*t + b5*math.Log(t))
}

// 水面に対する飽和水蒸気圧, Pa
func psatLiquid(theta float64) float64 {
	t := theta + kelvinConv

	const a1 = -6096.9385
	const a2 = 21.2409642
	const a3 = -0.02711193
	const a4 = 0.00001673952
	const a5 = 2.433502

	return math.Exp(a1/t + a2 + a3*t + a4*t*t + a5*math.Log(t))
}

/*
湿り空気の密度を計算する。

    Args:
        pb: 大気圧, Pa
        tdb: 乾球温度, degree C
        w: 絶対湿度, kg/kgDA

    Returns:
        密度, kg/m3
*/
func psyRhoAirFnPbTdbW(pb, tdb, w float64) float64 {
	return pb / (rAir * (tdb + kelvinConv) * (1.0 + 1.6077687*math.Max(w, 1.0e-5)))
}

/*
湿り空気の比熱を計算する。

    Args:
        w: 絶対湿度, kg/kgDA

    Returns:
        比熱, J/(kg K)
*/
func psyCpAirFnW(w float64) float64 {
	return 1.00484e3 + math.Max(w, 1.0e-5)*1.85895e3
}

/*
水蒸気のエンタルピー（潜熱発熱の蒸発潜熱として使う）を計算する。

    Args:
        w: 絶対湿度, kg/kgDA（使わない）
        tdb: 乾球温度, degree C

    Returns:
        エンタルピー, J/kg
*/
func psyHgAirFnWTdb(_, tdb float64) float64 {
	return 2.50094e6 + 1.85895e3*tdb
}

/*
温度と絶対湿度から相対湿度を計算する。

    Args:
        tdb: 乾球温度, degree C
        w: 絶対湿度, kg/kgDA
        pb: 大気圧, Pa

    Returns:
        相対湿度, -（0.0～1.0）
*/
func psyRhFnTdbWPb(tdb, w, pb float64) float64 {
	p_v := pb * math.Max(w, 1.0e-5) / (math.Max(w, 1.0e-5) + molRatio)
	return clampUnit(p_v / psyPsatFnTemp(tdb))
}

/*
温度と水蒸気密度から相対湿度を計算する。

    Args:
        tdb: 乾球温度, degree C
        rhov: 水蒸気密度, kg/m3

    Returns:
        相対湿度, -（0.0～1.0）
*/
func psyRhFnTdbRhov(tdb, rhov float64) float64 {
	if rhov <= 0.0 {
		return 0.0
	}
	return clampUnit(rhov * rVapor * (tdb + kelvinConv) / psyPsatFnTemp(tdb))
}

// psyRhFnTdbRhov と同じ。ただし飽和水蒸気圧は常に水面に対する値
func psyRhFnTdbRhovLBnd0C(tdb, rhov float64) float64 {
	if rhov <= 0.0 {
		return 0.0
	}
	return clampUnit(rhov * rVapor * (tdb + kelvinConv) / psatLiquid(tdb))
}

/*
温度と相対湿度から絶対湿度を計算する。

    Args:
        tdb: 乾球温度, degree C
        rh: 相対湿度, -（0.0～1.0）
        pb: 大気圧, Pa

    Returns:
        絶対湿度, kg/kgDA
*/
func psyWFnTdbRhPb(tdb, rh, pb float64) float64 {
	p_v := rh * psyPsatFnTemp(tdb)
	w := molRatio * p_v / math.Max(pb-p_v, 1.0e-5)
	return math.Max(w, 1.0e-5)
}

func clampUnit(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}
