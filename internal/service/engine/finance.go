package engine

import "aegissim/internal/model"

// financials 财务结算结果
type financials struct {
	Revenue   float64
	Breakdown model.CostBreakdown
	PreTax    float64
	Tax       float64
	NetProfit float64
}

// computeFinancials 计算收入、成本瀑布、税费与净利润。
// prior 为本轮开始前的状态（利息按期初负债计提）。
func computeFinancials(cfg *model.SimulationConfig, d model.TeamDecision, prior model.TeamState, capacity capacityPlan) financials {
	var f financials

	for _, s := range cfg.Segments {
		f.Revenue += capacity.ServedUnits[s] * d.PriceBySegment[s]
	}

	costs := cfg.Costs
	headcountChange := d.PermHeadcount - prior.PrevHeadcount
	b := model.CostBreakdown{}
	if headcountChange > 0 {
		b.HiringCost = float64(headcountChange) * costs.HireCost
	} else if headcountChange < 0 {
		b.FiringCost = float64(-headcountChange) * costs.FireCost
	}

	headcount := float64(d.PermHeadcount)
	b.SalaryCost = headcount * costs.PermWage * (1 + d.PayPremiumPct/100)
	b.TempCost = d.TempHours * costs.TempWage
	b.OTCost = capacity.ActualOTHours * costs.PermWage * costs.OvertimeMultiple / hoursPerEmployee
	b.OutsourcingCost = d.OutsourcedHours * costs.OutsourcingCost
	b.TrainingCost = headcount * costs.TrainingCost * d.TrainingIntensity
	for _, s := range cfg.Segments {
		b.MarketingCost += d.MarketingBySegment[s]
	}
	b.QualityCost = d.QualityInvestment
	b.VarCost = capacity.ServedUnitsSum * costs.VarCostPerUnit
	b.FixedCost = costs.FixedOverhead
	if prior.Debt > 0 {
		b.InterestCost = prior.Debt * cfg.Financial.InterestRate
	}
	f.Breakdown = b

	f.PreTax = f.Revenue - b.Total()
	if f.PreTax > 0 {
		f.Tax = f.PreTax * cfg.Financial.TaxRate
	}
	f.NetProfit = f.PreTax - f.Tax

	return f
}

// carryForward 结转现金、负债与员工数，生成下一轮输入状态
func carryForward(evolved model.TeamState, prior model.TeamState, d model.TeamDecision, netProfit float64) model.TeamState {
	next := evolved
	next.Cash = prior.Cash + netProfit - d.Dividend + d.DebtChange
	next.Debt = prior.Debt + d.DebtChange
	next.PrevHeadcount = d.PermHeadcount
	return next
}
