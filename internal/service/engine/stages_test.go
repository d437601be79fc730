package engine

import (
	"math"
	"testing"

	"aegissim/internal/model"
)

// TestUpdateState 测试生产率与质量指数演化
func TestUpdateState(t *testing.T) {
	defaults := model.SimulationDefaults{DecayProd: 0.05, DecayQuality: 0.05}

	tests := []struct {
		name     string
		prior    model.TeamState
		decision model.TeamDecision
		wantProd float64
		wantQ    float64
	}{
		{"常规演化", model.TeamState{Prod: 1, Q: 50}, model.TeamDecision{TrainingIntensity: 2, QualityInvestment: 10000}, 0.99, 58.5},
		{"生产率触底", model.TeamState{Prod: 0.7, Q: 50}, model.TeamDecision{}, 0.7, 47.5},
		{"质量封顶", model.TeamState{Prod: 1, Q: 95}, model.TeamDecision{QualityInvestment: 50000}, 0.95, 100},
		{"零质量", model.TeamState{Prod: 1, Q: 0}, model.TeamDecision{}, 0.95, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := updateState(tt.prior, tt.decision, defaults)
			if !floatEquals(got.Prod, tt.wantProd) {
				t.Errorf("Prod = %v, want %v", got.Prod, tt.wantProd)
			}
			if !floatEquals(got.Q, tt.wantQ) {
				t.Errorf("Q = %v, want %v", got.Q, tt.wantQ)
			}
		})
	}
}

// TestUpdateStateKeepsFinancials 状态演化不触碰现金与负债
func TestUpdateStateKeepsFinancials(t *testing.T) {
	prior := model.TeamState{Prod: 1, Q: 50, Cash: 123, Debt: 45, PrevHeadcount: 7}
	got := updateState(prior, model.TeamDecision{TrainingIntensity: 1}, model.SimulationDefaults{})
	if got.Cash != 123 || got.Debt != 45 || got.PrevHeadcount != 7 {
		t.Errorf("financial fields changed: %+v", got)
	}
}

// TestAllocateDemand 测试份额分配
func TestAllocateDemand(t *testing.T) {
	cfg := singleSegmentConfig()
	ids := []string{"a", "b"}
	states := map[string]model.TeamState{"a": {Q: 50}, "b": {Q: 50}}

	cheap := scenarioADecision()
	cheap.PriceBySegment["Retail"] = 3000
	dear := scenarioADecision()
	dear.PriceBySegment["Retail"] = 5000

	alloc := allocateDemand(cfg, ids, map[string]model.TeamDecision{"a": cheap, "b": dear}, states)

	// 平均价 4000，相对价 0.75 / 1.25，其余因子相同
	wantRatio := math.Exp(-0.75) / math.Exp(-1.25)
	gotRatio := alloc.Scores["Retail"]["a"] / alloc.Scores["Retail"]["b"]
	if math.Abs(gotRatio-wantRatio) > 1e-5 {
		t.Errorf("score ratio = %v, want %v", gotRatio, wantRatio)
	}

	shareA := alloc.Shares["Retail"]["a"]
	shareB := alloc.Shares["Retail"]["b"]
	if math.Abs(shareA+shareB-1) > 1e-9 {
		t.Errorf("shares sum = %v, want 1", shareA+shareB)
	}
	if !floatEquals(alloc.Bookings["Retail"]["a"], shareA*1000) {
		t.Errorf("booking = %v, want %v", alloc.Bookings["Retail"]["a"], shareA*1000)
	}
}

// TestAllocateDemandUniformFallback 所有得分为 0 时平均分配
func TestAllocateDemandUniformFallback(t *testing.T) {
	cfg := singleSegmentConfig()
	// 价格敏感度极大，exp 下溢为 0
	cfg.Weights.Eta["Retail"] = 1e4
	ids := []string{"a", "b", "c"}
	decisions := map[string]model.TeamDecision{}
	states := map[string]model.TeamState{}
	for _, id := range ids {
		decisions[id] = scenarioADecision()
		states[id] = model.TeamState{Q: 0}
	}

	alloc := allocateDemand(cfg, ids, decisions, states)

	for _, id := range ids {
		if alloc.Scores["Retail"][id] != 0 {
			t.Fatalf("score for %s = %v, want exact 0", id, alloc.Scores["Retail"][id])
		}
		share := alloc.Shares["Retail"][id]
		if math.IsNaN(share) || !floatEquals(share, 1.0/3) {
			t.Errorf("share for %s = %v, want 1/3", id, share)
		}
	}
}

// TestSegmentScoreNeverNegative 负质量敏感度不会产生负得分
func TestSegmentScoreNeverNegative(t *testing.T) {
	cfg := singleSegmentConfig()
	cfg.Weights.Kappa["Retail"] = -2
	s := segmentScore(cfg, "Retail", scenarioADecision(), model.TeamState{Q: 100}, 4000)
	if s != 0 {
		t.Errorf("score = %v, want 0", s)
	}
}

// TestResolveCapacity 测试产能约束
func TestResolveCapacity(t *testing.T) {
	cfg := singleSegmentConfig()
	bookings := map[string]float64{"Retail": 500} // 需求 1250 小时

	tests := []struct {
		name       string
		decision   model.TeamDecision
		prod       float64
		wantOT     float64
		wantRatio  float64
		wantUtil   float64
		wantServed float64
		wantCapHrs float64
	}{
		{"产能充足", model.TeamDecision{PermHeadcount: 10, OTCapPct: 10}, 1, 0, 1, 78.125, 500, 1600},
		{"加班封顶", model.TeamDecision{PermHeadcount: 5, OTCapPct: 10, TempHours: 100}, 1, 80, 0.784, 1250.0 / 980 * 100, 392, 980},
		{"加班补足", model.TeamDecision{PermHeadcount: 7, OTCapPct: 50}, 1, 130, 1, 100, 500, 1250},
		{"外包补足", model.TeamDecision{OutsourcedHours: 2500}, 1, 0, 1, 50, 500, 2500},
		{"无产能", model.TeamDecision{}, 1, 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := resolveCapacity(cfg, tt.decision, model.TeamState{Prod: tt.prod}, bookings)
			if !floatEquals(plan.ActualOTHours, tt.wantOT) {
				t.Errorf("ActualOTHours = %v, want %v", plan.ActualOTHours, tt.wantOT)
			}
			if !floatEquals(plan.CapacityRatio, tt.wantRatio) {
				t.Errorf("CapacityRatio = %v, want %v", plan.CapacityRatio, tt.wantRatio)
			}
			if !floatEquals(plan.Utilization, tt.wantUtil) {
				t.Errorf("Utilization = %v, want %v", plan.Utilization, tt.wantUtil)
			}
			if !floatEquals(plan.ServedUnits["Retail"], tt.wantServed) {
				t.Errorf("ServedUnits = %v, want %v", plan.ServedUnits["Retail"], tt.wantServed)
			}
			if !floatEquals(plan.TotalCapHours, tt.wantCapHrs) {
				t.Errorf("TotalCapHours = %v, want %v", plan.TotalCapHours, tt.wantCapHrs)
			}
			if plan.CapacityRatio > 1 {
				t.Errorf("CapacityRatio %v exceeds 1", plan.CapacityRatio)
			}
		})
	}
}

// TestResolveCapacityNoDemand 无需求时产能比为 1
func TestResolveCapacityNoDemand(t *testing.T) {
	cfg := singleSegmentConfig()
	plan := resolveCapacity(cfg, model.TeamDecision{PermHeadcount: 3}, model.TeamState{Prod: 1}, map[string]float64{})
	if plan.CapacityRatio != 1 || plan.Utilization != 0 || plan.ActualOTHours != 0 {
		t.Errorf("unexpected plan: %+v", plan)
	}
}

// 成本测试用产能结果：加班 80 小时，服务 Retail 300 / SME 100
func financeCapacity() capacityPlan {
	return capacityPlan{
		ActualOTHours:  80,
		ServedUnits:    map[string]float64{"Retail": 300, "SME": 100},
		ServedUnitsSum: 400,
	}
}

func financeDecision() model.TeamDecision {
	return model.TeamDecision{
		PermHeadcount:      12,
		TempHours:          100,
		TrainingIntensity:  2,
		OutsourcedHours:    10,
		PriceBySegment:     map[string]float64{"Retail": 4000, "SME": 5000},
		MarketingBySegment: map[string]float64{"Retail": 20000, "SME": 10000},
		QualityInvestment:  5000,
	}
}

// TestComputeFinancials 测试成本瀑布
func TestComputeFinancials(t *testing.T) {
	cfg := model.DefaultSimulationConfig()
	prior := model.TeamState{Debt: 100000, PrevHeadcount: 10}

	f := computeFinancials(cfg, financeDecision(), prior, financeCapacity())

	want := model.CostBreakdown{
		SalaryCost:      720000,
		TempCost:        40000,
		OTCost:          45000,
		OutsourcingCost: 15000,
		TrainingCost:    120000,
		MarketingCost:   30000,
		QualityCost:     5000,
		VarCost:         400000,
		FixedCost:       300000,
		InterestCost:    1000,
		HiringCost:      80000,
	}
	checks := map[string][2]float64{
		"SalaryCost":      {f.Breakdown.SalaryCost, want.SalaryCost},
		"TempCost":        {f.Breakdown.TempCost, want.TempCost},
		"OTCost":          {f.Breakdown.OTCost, want.OTCost},
		"OutsourcingCost": {f.Breakdown.OutsourcingCost, want.OutsourcingCost},
		"TrainingCost":    {f.Breakdown.TrainingCost, want.TrainingCost},
		"MarketingCost":   {f.Breakdown.MarketingCost, want.MarketingCost},
		"QualityCost":     {f.Breakdown.QualityCost, want.QualityCost},
		"VarCost":         {f.Breakdown.VarCost, want.VarCost},
		"FixedCost":       {f.Breakdown.FixedCost, want.FixedCost},
		"InterestCost":    {f.Breakdown.InterestCost, want.InterestCost},
		"HiringCost":      {f.Breakdown.HiringCost, want.HiringCost},
		"FiringCost":      {f.Breakdown.FiringCost, 0},
	}
	for name, c := range checks {
		if !floatEquals(c[0], c[1]) {
			t.Errorf("%s = %v, want %v", name, c[0], c[1])
		}
	}

	if !floatEquals(f.Revenue, 1700000) {
		t.Errorf("Revenue = %v, want 1700000", f.Revenue)
	}
	// 亏损不计税
	if !floatEquals(f.PreTax, 1700000-1756000) {
		t.Errorf("PreTax = %v, want %v", f.PreTax, 1700000-1756000)
	}
	if f.Tax != 0 {
		t.Errorf("Tax = %v, want 0 on a loss", f.Tax)
	}
	if !floatEquals(f.NetProfit, f.PreTax) {
		t.Errorf("NetProfit = %v, want %v", f.NetProfit, f.PreTax)
	}
}

// TestComputeFinancialsTax 盈利时按税率计税
func TestComputeFinancialsTax(t *testing.T) {
	cfg := model.DefaultSimulationConfig()
	d := financeDecision()
	d.PriceBySegment["Retail"] = 6000

	f := computeFinancials(cfg, d, model.TeamState{Debt: 100000, PrevHeadcount: 10}, financeCapacity())

	// 收入 2,300,000，成本 1,756,000
	if !floatEquals(f.PreTax, 544000) {
		t.Fatalf("PreTax = %v, want 544000", f.PreTax)
	}
	if !floatEquals(f.Tax, 136000) {
		t.Errorf("Tax = %v, want 136000", f.Tax)
	}
	if !floatEquals(f.NetProfit, 408000) {
		t.Errorf("NetProfit = %v, want 408000", f.NetProfit)
	}
}

// TestComputeFinancialsFiring 裁员成本与负债利息
func TestComputeFinancialsFiring(t *testing.T) {
	cfg := model.DefaultSimulationConfig()
	d := financeDecision()
	d.PermHeadcount = 8

	f := computeFinancials(cfg, d, model.TeamState{Debt: -5000, PrevHeadcount: 10}, financeCapacity())

	if !floatEquals(f.Breakdown.FiringCost, 40000) {
		t.Errorf("FiringCost = %v, want 40000", f.Breakdown.FiringCost)
	}
	if f.Breakdown.HiringCost != 0 {
		t.Errorf("HiringCost = %v, want 0", f.Breakdown.HiringCost)
	}
	if f.Breakdown.InterestCost != 0 {
		t.Errorf("InterestCost = %v, want 0 for non-positive debt", f.Breakdown.InterestCost)
	}
}

// TestCarryForward 结转现金与负债
func TestCarryForward(t *testing.T) {
	prior := model.TeamState{Prod: 1, Q: 50, Cash: 1000, Debt: 300, PrevHeadcount: 10}
	evolved := model.TeamState{Prod: 0.97, Q: 61, Cash: 1000, Debt: 300, PrevHeadcount: 10}
	d := model.TeamDecision{PermHeadcount: 14, DebtChange: -100, Dividend: 50}

	got := carryForward(evolved, prior, d, 500)

	want := model.TeamState{Prod: 0.97, Q: 61, Cash: 1000 + 500 - 50 - 100, Debt: 200, PrevHeadcount: 14}
	if got != want {
		t.Errorf("carryForward = %+v, want %+v", got, want)
	}
}

// TestComputeSatisfaction 测试满意度与财务比率
func TestComputeSatisfaction(t *testing.T) {
	cfg := model.DefaultSimulationConfig()

	tests := []struct {
		name     string
		decision model.TeamDecision
		q        float64
		capacity capacityPlan
		profit   float64
		wantCSAT float64
		wantESAT float64
		wantPPE  float64
	}{
		{
			"产能充足",
			model.TeamDecision{PermHeadcount: 10, PayPremiumPct: 5, TrainingIntensity: 1},
			60, capacityPlan{CapacityRatio: 1, ReqHours: 1000, PermHoursCap: 1600}, 100000,
			65, 62, 10000,
		},
		{
			"产能偏紧",
			model.TeamDecision{PermHeadcount: 10},
			60, capacityPlan{CapacityRatio: 0.8, ReqHours: 2000, PermHoursCap: 1600}, 0,
			60, 45, 0,
		},
		{
			"产能不足",
			model.TeamDecision{PermHeadcount: 5},
			40, capacityPlan{CapacityRatio: 0.5, ReqHours: 2400, PermHoursCap: 800}, -5000,
			35, 10, -1000,
		},
		{
			"满意度封顶",
			model.TeamDecision{PermHeadcount: 4, PayPremiumPct: 50},
			100, capacityPlan{CapacityRatio: 1, ReqHours: 10, PermHoursCap: 640}, 0,
			85, 100, 0,
		},
		{
			"无正式员工",
			model.TeamDecision{},
			50, capacityPlan{CapacityRatio: 0, ReqHours: 100}, 1000,
			40, 0, 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := computeSatisfaction(cfg, tt.decision, model.TeamState{Q: tt.q}, tt.capacity, tt.profit)
			if !floatEquals(s.CSAT, tt.wantCSAT) {
				t.Errorf("CSAT = %v, want %v", s.CSAT, tt.wantCSAT)
			}
			if !floatEquals(s.ESAT, tt.wantESAT) {
				t.Errorf("ESAT = %v, want %v", s.ESAT, tt.wantESAT)
			}
			if !floatEquals(s.ProfitPerEmployee, tt.wantPPE) {
				t.Errorf("ProfitPerEmployee = %v, want %v", s.ProfitPerEmployee, tt.wantPPE)
			}
			wantROCE := tt.profit / cfg.Financial.CapitalEmployed * 100
			if !floatEquals(s.ROCE, wantROCE) {
				t.Errorf("ROCE = %v, want %v", s.ROCE, wantROCE)
			}
		})
	}
}

// TestROCEWithoutCapital 资本为 0 时 ROCE 为 0
func TestROCEWithoutCapital(t *testing.T) {
	cfg := model.DefaultSimulationConfig()
	cfg.Financial.CapitalEmployed = 0
	s := computeSatisfaction(cfg, model.TeamDecision{PermHeadcount: 1}, model.TeamState{Q: 50}, capacityPlan{CapacityRatio: 1}, 1e6)
	if s.ROCE != 0 {
		t.Errorf("ROCE = %v, want 0", s.ROCE)
	}
}

// TestNormalize 测试 min-max 归一化
func TestNormalize(t *testing.T) {
	values := map[string]float64{"a": -100, "b": 0, "c": 300}
	got := normalize([]string{"a", "b", "c"}, func(id string) float64 { return values[id] })

	if got["a"] != 0 {
		t.Errorf("min should normalize to 0, got %v", got["a"])
	}
	if !floatEquals(got["b"], 0.25) {
		t.Errorf("b = %v, want 0.25", got["b"])
	}
	if got["c"] >= 1 || !floatEquals(got["c"], 1) {
		t.Errorf("max should be just below 1, got %v", got["c"])
	}

	flat := normalize([]string{"x", "y"}, func(string) float64 { return 42 })
	if flat["x"] != 0 || flat["y"] != 0 {
		t.Errorf("equal values should normalize to 0, got %v", flat)
	}
}
