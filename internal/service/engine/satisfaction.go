package engine

import (
	"math"

	"aegissim/internal/model"
)

// satisfaction 满意度与财务比率
type satisfaction struct {
	CSAT              float64
	ESAT              float64
	ROCE              float64
	ProfitPerEmployee float64
}

func computeSatisfaction(cfg *model.SimulationConfig, d model.TeamDecision, st model.TeamState, capacity capacityPlan, netProfit float64) satisfaction {
	var s satisfaction

	bonus := csatLowPenalty
	switch {
	case capacity.CapacityRatio > csatHighRatio:
		bonus = csatHighBonus
	case capacity.CapacityRatio > csatMidRatio:
		bonus = csatMidBonus
	}
	s.CSAT = clamp(neutralBase+(st.Q-neutralBase)*0.5+bonus, satisfyMin, satisfyMax)

	workloadFactor := capacity.ReqHours / math.Max(capacity.PermHoursCap, 1)
	s.ESAT = clamp(
		neutralBase+d.PayPremiumPct*esatPayCoef+d.TrainingIntensity*esatTrainingCoef-math.Max(0, workloadFactor-1)*esatOverloadCoef,
		satisfyMin, satisfyMax,
	)

	if ce := cfg.Financial.CapitalEmployed; ce > 0 {
		s.ROCE = netProfit / ce * 100
	}
	if d.PermHeadcount > 0 {
		s.ProfitPerEmployee = netProfit / float64(d.PermHeadcount)
	}

	return s
}
