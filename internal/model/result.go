package model

import "time"

// RoundMetrics 单轮经营指标
type RoundMetrics struct {
	Revenue             float64            `json:"revenue"`
	NetProfit           float64            `json:"netProfit"`
	MarketShare         map[string]float64 `json:"marketShare"` // 各细分市场份额
	CSAT                float64            `json:"csat"`
	ESAT                float64            `json:"esat"`
	ROCE                float64            `json:"roce"`
	ProfitPerEmployee   float64            `json:"profitPerEmployee"`
	UnitsServed         map[string]float64 `json:"unitsServed"`
	CapacityUtilization float64            `json:"capacityUtilization"` // 百分比，需求超过全部产能时可大于 100
}

// OverallMarketShare 各细分市场份额的简单平均
func (m RoundMetrics) OverallMarketShare(segments []string) float64 {
	if len(segments) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range segments {
		total += m.MarketShare[s]
	}
	return total / float64(len(segments))
}

// CostBreakdown 成本明细
type CostBreakdown struct {
	SalaryCost      float64 `json:"salaryCost"`
	TempCost        float64 `json:"tempCost"`
	OTCost          float64 `json:"otCost"`
	OutsourcingCost float64 `json:"outsourcingCost"`
	TrainingCost    float64 `json:"trainingCost"`
	MarketingCost   float64 `json:"marketingCost"`
	QualityCost     float64 `json:"qualityCost"`
	VarCost         float64 `json:"varCost"`
	FixedCost       float64 `json:"fixedCost"`
	InterestCost    float64 `json:"interestCost"`
	HiringCost      float64 `json:"hiringCost"`
	FiringCost      float64 `json:"firingCost"`
}

// Total 成本合计
func (b CostBreakdown) Total() float64 {
	return b.SalaryCost + b.TempCost + b.OTCost + b.OutsourcingCost + b.TrainingCost +
		b.MarketingCost + b.QualityCost + b.VarCost + b.FixedCost + b.InterestCost +
		b.HiringCost + b.FiringCost
}

// NormalizedMetrics 跨队伍 min-max 归一化后的指标
type NormalizedMetrics struct {
	NetProfit float64 `json:"netProfit"`
	CSAT      float64 `json:"csat"`
	ESAT      float64 `json:"esat"`
	ROCE      float64 `json:"roce"`
}

// RoundResult 引擎对单个队伍的输出
type RoundResult struct {
	TeamID     string             `json:"teamId"`
	RoundID    int                `json:"roundId"`
	Metrics    RoundMetrics       `json:"metrics"`
	Breakdown  CostBreakdown      `json:"breakdown"`
	PreTax     float64            `json:"preTaxProfit"`
	Tax        float64            `json:"tax"`
	Normalized *NormalizedMetrics `json:"normalized,omitempty"`
	RoundScore float64            `json:"roundScore"`
	Scored     bool               `json:"scored"`   // 参赛队伍少于 2 支时不计算综合得分
	Practice   bool               `json:"practice"` // 练习轮结果不计入累计排名
}

// LeaderboardEntry 累计排名条目
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	TeamID         string  `json:"teamId"`
	TeamName       string  `json:"teamName"`
	RoundsScored   int     `json:"roundsScored"`
	TotalScore     float64 `json:"totalScore"`
	AverageScore   float64 `json:"averageScore"`
	TotalNetProfit float64 `json:"totalNetProfit"`
}

// ResolvedRound 已结算轮次记录
type ResolvedRound struct {
	RoundID    int       `json:"roundId"`
	Kind       RoundKind `json:"type"`
	TeamCount  int       `json:"teamCount"`
	Filled     int       `json:"filled"` // 使用默认决策补齐的队伍数
	ResolvedAt time.Time `json:"resolvedAt"`
}
