package model

// RoundKind 轮次类型
type RoundKind string

const (
	RoundPractice RoundKind = "practice" // 练习轮，不计入累计排名
	RoundReal     RoundKind = "real"     // 正式轮
)

// Valid 判断轮次类型是否合法
func (k RoundKind) Valid() bool {
	return k == RoundPractice || k == RoundReal
}

// Round 轮次定义
type Round struct {
	ID           int       `json:"id" toml:"id" yaml:"id"`
	Name         string    `json:"name" toml:"name" yaml:"name"`
	Kind         RoundKind `json:"type" toml:"type" yaml:"type"`
	DurationMins int       `json:"durationMins" toml:"duration_mins" yaml:"duration_mins"`
}

// RoundInfo 引擎调用时的轮次信息
type RoundInfo struct {
	ID   int       `json:"id"`
	Kind RoundKind `json:"type"`
}

// Info 转换为引擎所需的轮次信息
func (r Round) Info() RoundInfo {
	return RoundInfo{ID: r.ID, Kind: r.Kind}
}

// PriceBounds 全局价格区间
type PriceBounds struct {
	Min float64 `json:"min" toml:"min" yaml:"min"`
	Max float64 `json:"max" toml:"max" yaml:"max"`
}

// SegmentWeights 各细分市场的敏感度系数
type SegmentWeights struct {
	Eta   map[string]float64 `json:"eta" toml:"eta" yaml:"eta"`       // 价格敏感度 η
	Mu    map[string]float64 `json:"mu" toml:"mu" yaml:"mu"`          // 营销敏感度 μ
	Kappa map[string]float64 `json:"kappa" toml:"kappa" yaml:"kappa"` // 质量敏感度 κ
	Rho   map[string]float64 `json:"rho" toml:"rho" yaml:"rho"`       // 等待惩罚敏感度 ρ
}

// FinancialConfig 财务常量
type FinancialConfig struct {
	InterestRate    float64 `json:"interestRate" toml:"interest_rate" yaml:"interest_rate"`
	TaxRate         float64 `json:"taxRate" toml:"tax_rate" yaml:"tax_rate"`
	CapitalEmployed float64 `json:"capitalEmployed" toml:"capital_employed" yaml:"capital_employed"` // CE，所有队伍共用
}

// CostConfig 单位成本常量
type CostConfig struct {
	PermWage         float64 `json:"permWage" toml:"perm_wage" yaml:"perm_wage"`                         // 正式员工月薪
	TempWage         float64 `json:"tempWage" toml:"temp_wage" yaml:"temp_wage"`                         // 临时工时薪
	OvertimeMultiple float64 `json:"overtimeMultiple" toml:"overtime_multiple" yaml:"overtime_multiple"` // 加班倍数 φ_ot
	HireCost         float64 `json:"hireCost" toml:"hire_cost" yaml:"hire_cost"`
	FireCost         float64 `json:"fireCost" toml:"fire_cost" yaml:"fire_cost"`
	TrainingCost     float64 `json:"trainingCost" toml:"training_cost" yaml:"training_cost"` // 每人每单位培训强度
	VarCostPerUnit   float64 `json:"varCostPerUnit" toml:"var_cost_per_unit" yaml:"var_cost_per_unit"`
	FixedOverhead    float64 `json:"fixedOverhead" toml:"fixed_overhead" yaml:"fixed_overhead"`
	OutsourcingCost  float64 `json:"outsourcingCost" toml:"outsourcing_cost" yaml:"outsourcing_cost"` // 外包每小时成本
}

// ScoringWeights 综合得分权重，约定之和为 1（不强制）
type ScoringWeights struct {
	Profit      float64 `json:"profit" toml:"profit" yaml:"profit"`
	MarketShare float64 `json:"marketShare" toml:"market_share" yaml:"market_share"`
	CSAT        float64 `json:"csat" toml:"csat" yaml:"csat"`
	ESAT        float64 `json:"esat" toml:"esat" yaml:"esat"`
	ROCE        float64 `json:"roce" toml:"roce" yaml:"roce"`
}

// Sum 权重之和
func (w ScoringWeights) Sum() float64 {
	return w.Profit + w.MarketShare + w.CSAT + w.ESAT + w.ROCE
}

// SimulationDefaults 默认参数
type SimulationDefaults struct {
	BaseWaitDays float64 `json:"baseWaitDays" toml:"base_wait_days" yaml:"base_wait_days"`
	SLADays      float64 `json:"slaDays" toml:"sla_days" yaml:"sla_days"`
	DecayProd    float64 `json:"decayProd" toml:"decay_prod" yaml:"decay_prod"`
	DecayQuality float64 `json:"decayQuality" toml:"decay_quality" yaml:"decay_quality"`
}

// SimulationConfig 模拟配置（外部加载，加载后只读）
type SimulationConfig struct {
	SimulationID  string             `json:"simulationId" toml:"simulation_id" yaml:"simulation_id"`
	Title         string             `json:"title" toml:"title" yaml:"title"`
	Rounds        []Round            `json:"rounds" toml:"rounds" yaml:"rounds"`
	Segments      []string           `json:"segments" toml:"segments" yaml:"segments"`
	BaseDemand    map[string]float64 `json:"baseDemand" toml:"base_demand" yaml:"base_demand"`
	ServTimeHours map[string]float64 `json:"servTimeHours" toml:"serv_time_hours" yaml:"serv_time_hours"`
	PriceBounds   PriceBounds        `json:"priceBounds" toml:"price_bounds" yaml:"price_bounds"`
	Weights       SegmentWeights     `json:"weights" toml:"weights" yaml:"weights"`
	Financial     FinancialConfig    `json:"financial" toml:"financial" yaml:"financial"`
	Costs         CostConfig         `json:"costs" toml:"costs" yaml:"costs"`
	Scoring       ScoringWeights     `json:"scoringWeights" toml:"scoring_weights" yaml:"scoring_weights"`
	Defaults      SimulationDefaults `json:"defaults" toml:"defaults" yaml:"defaults"`

	// DefaultDecision 缺交队伍的替代决策，由编排层使用，引擎本身不读取
	DefaultDecision TeamDecision `json:"defaultDecision" toml:"default_decision" yaml:"default_decision"`
}

// Round 按 ID 查找轮次
func (c *SimulationConfig) Round(id int) (Round, bool) {
	for _, r := range c.Rounds {
		if r.ID == id {
			return r, true
		}
	}
	return Round{}, false
}

// HasSegment 判断是否为已配置的细分市场
func (c *SimulationConfig) HasSegment(segment string) bool {
	for _, s := range c.Segments {
		if s == segment {
			return true
		}
	}
	return false
}
