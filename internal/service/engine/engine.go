package engine

import (
	"sort"

	"aegissim/internal/model"
)

// Engine 回合结算引擎。无内部状态、无 I/O，可并发调用。
type Engine struct {
	cfg *model.SimulationConfig
}

// NewEngine 创建结算引擎，cfg 需已通过校验且调用期间不可修改
func NewEngine(cfg *model.SimulationConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Config 返回引擎使用的模拟配置
func (e *Engine) Config() *model.SimulationConfig {
	return e.cfg
}

// Outcome 单轮结算输出：每支队伍的结果与下一轮输入状态
type Outcome struct {
	Round   model.RoundInfo               `json:"round"`
	Results map[string]*model.RoundResult `json:"results"`
	States  map[string]model.TeamState    `json:"states"`
}

// SortedTeamIDs 按队伍 ID 排序返回
func (o *Outcome) SortedTeamIDs() []string {
	ids := make([]string, 0, len(o.Results))
	for id := range o.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve 结算一轮：decisions 为本轮全部参赛队伍的决策，prior 为各队上一轮结束状态
// （缺失时使用首轮默认值）。输入不会被修改，每次调用都返回新的结果与状态。
func (e *Engine) Resolve(round model.RoundInfo, decisions map[string]model.TeamDecision, prior map[string]model.TeamState) *Outcome {
	cfg := e.cfg
	teamIDs := make([]string, 0, len(decisions))
	for id := range decisions {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	out := &Outcome{
		Round:   round,
		Results: make(map[string]*model.RoundResult, len(teamIDs)),
		States:  make(map[string]model.TeamState, len(teamIDs)),
	}
	if len(teamIDs) == 0 {
		return out
	}

	// 阶段一：状态演化
	priors := make(map[string]model.TeamState, len(teamIDs))
	evolved := make(map[string]model.TeamState, len(teamIDs))
	for _, id := range teamIDs {
		p, ok := prior[id]
		if !ok {
			p = model.DefaultTeamState()
		}
		priors[id] = p
		evolved[id] = updateState(p, decisions[id], cfg.Defaults)
	}

	// 阶段二：需求分配
	alloc := allocateDemand(cfg, teamIDs, decisions, evolved)

	// 阶段三至五：产能、财务、满意度
	for _, id := range teamIDs {
		d := decisions[id]
		st := evolved[id]

		capacity := resolveCapacity(cfg, d, st, alloc.bookingsFor(id, cfg.Segments))
		fin := computeFinancials(cfg, d, priors[id], capacity)
		sat := computeSatisfaction(cfg, d, st, capacity, fin.NetProfit)

		out.Results[id] = &model.RoundResult{
			TeamID:  id,
			RoundID: round.ID,
			Metrics: model.RoundMetrics{
				Revenue:             fin.Revenue,
				NetProfit:           fin.NetProfit,
				MarketShare:         alloc.sharesFor(id, cfg.Segments),
				CSAT:                sat.CSAT,
				ESAT:                sat.ESAT,
				ROCE:                sat.ROCE,
				ProfitPerEmployee:   sat.ProfitPerEmployee,
				UnitsServed:         capacity.ServedUnits,
				CapacityUtilization: capacity.Utilization,
			},
			Breakdown: fin.Breakdown,
			PreTax:    fin.PreTax,
			Tax:       fin.Tax,
			Practice:  round.Kind == model.RoundPractice,
		}
		out.States[id] = carryForward(st, priors[id], d, fin.NetProfit)
	}

	// 阶段六：跨队伍归一化（需等待全部队伍结算完成）
	applyScores(cfg, teamIDs, out.Results)

	return out
}
