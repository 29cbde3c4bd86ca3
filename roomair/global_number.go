package roomair

// 1時間の秒数, s
const secInHour = 3600.0

// 摂氏から絶対温度への換算
const kelvinConv = 273.15

// 標準大気圧, Pa
const stdBaroPress = 101325.0

// 計算開始時の空気温度, degree C
const initialAirTemp = 23.0

// 計算開始時の絶対湿度, kg/kgDA
const initialHumRat = 0.0

// 解析解の指数の上限
const maxExponent = 700.0

// 給気・還気・容積の割合の合計の許容差
const fractionTolerance = 0.001

// 乾き空気の気体定数, J/(kg K)
const rAir = 287.0

// 水蒸気の気体定数, J/(kg K)
const rVapor = 461.52

// 水蒸気と乾き空気の分子量の比
const molRatio = 0.62198
