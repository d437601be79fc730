package model

// DefaultSimulationConfig AegisCare 中小企业服务模拟的默认配置
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		SimulationID: "sim_aegis_01",
		Title:        "AegisCare SME Service Simulation",
		Rounds: []Round{
			{ID: 1, Name: "Practice", Kind: RoundPractice, DurationMins: 20},
			{ID: 2, Name: "Round 1", Kind: RoundReal, DurationMins: 30},
			{ID: 3, Name: "Round 2", Kind: RoundReal, DurationMins: 30},
		},
		Segments:      []string{"Retail", "SME"},
		BaseDemand:    map[string]float64{"Retail": 1000, "SME": 600},
		ServTimeHours: map[string]float64{"Retail": 2.5, "SME": 3.5},
		PriceBounds:   PriceBounds{Min: 1000, Max: 10000},
		Weights: SegmentWeights{
			Eta:   map[string]float64{"Retail": 1.0, "SME": 1.2},
			Mu:    map[string]float64{"Retail": 0.35, "SME": 0.25},
			Kappa: map[string]float64{"Retail": 0.6, "SME": 0.6},
			Rho:   map[string]float64{"Retail": 0.4, "SME": 0.45},
		},
		Financial: FinancialConfig{
			InterestRate:    0.01,
			TaxRate:         0.25,
			CapitalEmployed: 5000000,
		},
		Costs: CostConfig{
			PermWage:         60000,
			TempWage:         400,
			OvertimeMultiple: 1.5,
			HireCost:         40000,
			FireCost:         20000,
			TrainingCost:     5000,
			VarCostPerUnit:   1000,
			FixedOverhead:    300000,
			OutsourcingCost:  1500,
		},
		Scoring: ScoringWeights{
			Profit:      0.5,
			MarketShare: 0.2,
			CSAT:        0.15,
			ESAT:        0.1,
			ROCE:        0.05,
		},
		Defaults: SimulationDefaults{
			BaseWaitDays: 0.2,
			SLADays:      1.0,
			DecayProd:    0.05,
			DecayQuality: 0.05,
		},
		DefaultDecision: TeamDecision{
			PermHeadcount:      10,
			TrainingIntensity:  1,
			OTCapPct:           10,
			PriceBySegment:     map[string]float64{"Retail": 4000, "SME": 5000},
			MarketingBySegment: map[string]float64{"Retail": 10000, "SME": 10000},
			QualityInvestment:  10000,
		},
	}
}
