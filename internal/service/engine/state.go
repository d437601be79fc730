package engine

import "aegissim/internal/model"

// updateState 根据上一轮状态与本轮培训/质量投入演化生产率与质量指数。
// 现金与负债留待财务结算时更新。
func updateState(prior model.TeamState, d model.TeamDecision, defaults model.SimulationDefaults) model.TeamState {
	next := prior

	next.Prod = prior.Prod*(1-defaults.DecayProd) + trainingProdCoef*d.TrainingIntensity
	if next.Prod < prodFloor {
		next.Prod = prodFloor
	}

	next.Q = clamp(
		prior.Q*(1-defaults.DecayQuality)+qualityInvestCoef*d.QualityInvestment+trainingQualityCoef*d.TrainingIntensity,
		qualityMin, qualityMax,
	)

	return next
}
