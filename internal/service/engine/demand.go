package engine

import (
	"math"

	"aegissim/internal/model"
)

// demandAllocation 各细分市场的得分、份额与订单量，外层 key 为细分市场，内层 key 为队伍
type demandAllocation struct {
	Scores   map[string]map[string]float64
	Shares   map[string]map[string]float64
	Bookings map[string]map[string]float64
}

// bookingsFor 返回某队伍在各细分市场的订单量
func (a demandAllocation) bookingsFor(teamID string, segments []string) map[string]float64 {
	out := make(map[string]float64, len(segments))
	for _, s := range segments {
		out[s] = a.Bookings[s][teamID]
	}
	return out
}

// sharesFor 返回某队伍在各细分市场的份额
func (a demandAllocation) sharesFor(teamID string, segments []string) map[string]float64 {
	out := make(map[string]float64, len(segments))
	for _, s := range segments {
		out[s] = a.Shares[s][teamID]
	}
	return out
}

// allocateDemand 逐个细分市场计算竞争吸引力得分，再按相对得分分配份额与订单。
// teamIDs 必须已排序，保证求和顺序稳定。
func allocateDemand(cfg *model.SimulationConfig, teamIDs []string, decisions map[string]model.TeamDecision, states map[string]model.TeamState) demandAllocation {
	alloc := demandAllocation{
		Scores:   make(map[string]map[string]float64, len(cfg.Segments)),
		Shares:   make(map[string]map[string]float64, len(cfg.Segments)),
		Bookings: make(map[string]map[string]float64, len(cfg.Segments)),
	}

	for _, segment := range cfg.Segments {
		scores := make(map[string]float64, len(teamIDs))
		shares := make(map[string]float64, len(teamIDs))
		bookings := make(map[string]float64, len(teamIDs))

		avgPrice := averagePrice(teamIDs, decisions, segment)
		totalScore := 0.0
		for _, id := range teamIDs {
			s := segmentScore(cfg, segment, decisions[id], states[id], avgPrice)
			scores[id] = s
			totalScore += s
		}

		demand := cfg.BaseDemand[segment]
		for _, id := range teamIDs {
			share := 1 / float64(len(teamIDs))
			if totalScore > 0 {
				share = scores[id] / totalScore
			}
			shares[id] = share
			bookings[id] = share * demand
		}

		alloc.Scores[segment] = scores
		alloc.Shares[segment] = shares
		alloc.Bookings[segment] = bookings
	}

	return alloc
}

func averagePrice(teamIDs []string, decisions map[string]model.TeamDecision, segment string) float64 {
	if len(teamIDs) == 0 {
		return 0
	}
	sum := 0.0
	for _, id := range teamIDs {
		sum += decisions[id].PriceBySegment[segment]
	}
	return sum / float64(len(teamIDs))
}

// segmentScore 单个队伍在某细分市场的吸引力得分，下限为 0
func segmentScore(cfg *model.SimulationConfig, segment string, d model.TeamDecision, st model.TeamState, avgPrice float64) float64 {
	eta := cfg.Weights.Eta[segment]
	mu := cfg.Weights.Mu[segment]
	kappa := cfg.Weights.Kappa[segment]
	rho := cfg.Weights.Rho[segment]

	relPrice := d.PriceBySegment[segment] / (avgPrice + epsilon)
	// 等待惩罚项保留结构但当前恒为 0，尚未接入产能反馈
	waitPenalty := 0.0

	score := math.Exp(-eta*relPrice) *
		(1 + mu*math.Log(1+d.MarketingBySegment[segment]/marketingScale)) *
		(1 + kappa*st.Q/100) *
		(1 - rho*waitPenalty)

	return math.Max(0, score)
}
