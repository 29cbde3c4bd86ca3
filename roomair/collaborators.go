package roomair

/*
内部発熱

    Notes:
        いずれも、ゾーンの指定された機器の発熱を割合で重み付けした合計を返す, W
*/
type InternalGains interface {
	ConvectionGains(zone ZoneID, devices []GainID, fractions []float64) float64
	ReturnAirConvectionGains(zone ZoneID, devices []GainID, fractions []float64) float64
	LatentGains(zone ZoneID, devices []GainID, fractions []float64) float64
}

type DeviceOutput struct {
	Sensible float64 // W
	Latent   float64 // kg/s
}

/*
給気を伴わない機器（ベースボード、放射暖房、冷凍機セット）と
系統依存の機器（除湿機）の計算
*/
type DeviceSimulator interface {
	Simulate(typ EquipType, name string, zone ZoneID, firstHVACIteration bool) (DeviceOutput, error)
}

/*
表面の湿気収支を更新した後の室内側表面の湿気の状態
*/
type SurfaceMoisture struct {
	HMassConvIn    float64 // m/s
	RhoVaporSurfIn float64 // kg/m3
	RhoVaporAirIn  float64 // kg/m3
}

type MoistureBalance interface {
	Update(surf SurfaceID, model MoistureModel) (SurfaceMoisture, error)
}

type noGains struct{}

func (noGains) ConvectionGains(ZoneID, []GainID, []float64) float64          { return 0.0 }
func (noGains) ReturnAirConvectionGains(ZoneID, []GainID, []float64) float64 { return 0.0 }
func (noGains) LatentGains(ZoneID, []GainID, []float64) float64              { return 0.0 }
