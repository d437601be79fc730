package model

import "time"

// Team 参赛队伍
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// TeamDecision 队伍单轮经营决策
type TeamDecision struct {
	PermHeadcount      int                `json:"permHeadcount" toml:"perm_headcount" yaml:"perm_headcount"`
	TempHours          float64            `json:"tempHours" toml:"temp_hours" yaml:"temp_hours"`
	TrainingIntensity  float64            `json:"trainingIntensity" toml:"training_intensity" yaml:"training_intensity"`
	PayPremiumPct      float64            `json:"payPremiumPct" toml:"pay_premium_pct" yaml:"pay_premium_pct"`
	OutsourcedHours    float64            `json:"outsourcedHours" toml:"outsourced_hours" yaml:"outsourced_hours"`
	OTCapPct           float64            `json:"otCapPct" toml:"ot_cap_pct" yaml:"ot_cap_pct"` // 加班上限，占正式产能百分比
	PriceBySegment     map[string]float64 `json:"priceBySegment" toml:"price_by_segment" yaml:"price_by_segment"`
	MarketingBySegment map[string]float64 `json:"marketingBySegment" toml:"marketing_by_segment" yaml:"marketing_by_segment"`
	QualityInvestment  float64            `json:"qualityInvestment" toml:"quality_investment" yaml:"quality_investment"`
	DebtChange         float64            `json:"debtChange" toml:"debt_change" yaml:"debt_change"` // 正数借款，负数还款
	Dividend           float64            `json:"dividend" toml:"dividend" yaml:"dividend"`
}

// Clone 深拷贝决策（map 字段独立）
func (d TeamDecision) Clone() TeamDecision {
	out := d
	out.PriceBySegment = cloneFloatMap(d.PriceBySegment)
	out.MarketingBySegment = cloneFloatMap(d.MarketingBySegment)
	return out
}

// TeamState 队伍跨轮次状态，由引擎在每轮结束时产出新值
type TeamState struct {
	Prod          float64 `json:"prod"`          // 生产率乘数，下限 0.7
	Q             float64 `json:"q"`             // 质量指数 [0,100]
	Cash          float64 `json:"cash"`          // 现金余额
	Debt          float64 `json:"debt"`          // 负债余额
	PrevHeadcount int     `json:"prevHeadcount"` // 上一轮正式员工数（用于招聘/解雇成本）
}

// 首轮默认状态
const (
	DefaultProd          = 1.0
	DefaultQuality       = 50.0
	DefaultCash          = 1000000.0
	DefaultDebt          = 0.0
	DefaultPrevHeadcount = 10
)

// DefaultTeamState 没有历史状态的队伍使用的首轮默认值
func DefaultTeamState() TeamState {
	return TeamState{
		Prod:          DefaultProd,
		Q:             DefaultQuality,
		Cash:          DefaultCash,
		Debt:          DefaultDebt,
		PrevHeadcount: DefaultPrevHeadcount,
	}
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
