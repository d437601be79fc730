package engine

// 引擎内置系数（非用户配置）
const (
	epsilon = 1e-6 // 防除零

	trainingProdCoef    = 0.02  // 培训对生产率的提升 θ_train
	qualityInvestCoef   = 0.001 // 质量投入对质量指数的提升 λ_q
	trainingQualityCoef = 0.5   // 培训对质量指数的提升 ζ_train

	prodFloor   = 0.7 // 生产率下限
	qualityMin  = 0.0
	qualityMax  = 100.0
	satisfyMin  = 0.0
	satisfyMax  = 100.0
	neutralBase = 50.0 // CSAT/ESAT 基准值

	hoursPerEmployee = 160.0  // 每名正式员工每月工时
	marketingScale   = 1000.0 // 营销投入对数刻度
)

// CSAT 产能加成档位
const (
	csatHighRatio  = 0.9
	csatMidRatio   = 0.7
	csatHighBonus  = 10.0
	csatMidBonus   = 5.0
	csatLowPenalty = -10.0
)

// ESAT 系数
const (
	esatPayCoef      = 2.0
	esatTrainingCoef = 2.0
	esatOverloadCoef = 20.0
)

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
