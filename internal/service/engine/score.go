package engine

import "aegissim/internal/model"

// minTeamsForScore 综合得分至少需要的队伍数
const minTeamsForScore = 2

// normalize 对一组指标做 min-max 归一化
func normalize(teamIDs []string, value func(id string) float64) map[string]float64 {
	out := make(map[string]float64, len(teamIDs))
	if len(teamIDs) == 0 {
		return out
	}

	min, max := value(teamIDs[0]), value(teamIDs[0])
	for _, id := range teamIDs[1:] {
		v := value(id)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	span := max - min + epsilon
	for _, id := range teamIDs {
		out[id] = (value(id) - min) / span
	}
	return out
}

// applyScores 跨队伍归一化并计算综合得分，结果写回 results。少于两支队伍时跳过。
func applyScores(cfg *model.SimulationConfig, teamIDs []string, results map[string]*model.RoundResult) {
	if len(teamIDs) < minTeamsForScore {
		return
	}

	pick := func(f func(m model.RoundMetrics) float64) func(string) float64 {
		return func(id string) float64 { return f(results[id].Metrics) }
	}
	profit := normalize(teamIDs, pick(func(m model.RoundMetrics) float64 { return m.NetProfit }))
	csat := normalize(teamIDs, pick(func(m model.RoundMetrics) float64 { return m.CSAT }))
	esat := normalize(teamIDs, pick(func(m model.RoundMetrics) float64 { return m.ESAT }))
	roce := normalize(teamIDs, pick(func(m model.RoundMetrics) float64 { return m.ROCE }))

	w := cfg.Scoring
	for _, id := range teamIDs {
		r := results[id]
		r.Normalized = &model.NormalizedMetrics{
			NetProfit: profit[id],
			CSAT:      csat[id],
			ESAT:      esat[id],
			ROCE:      roce[id],
		}

		// CSAT/ESAT 以绝对值入分，利润与 ROCE 取归一化值
		composite := w.Profit*profit[id] +
			w.MarketShare*r.Metrics.OverallMarketShare(cfg.Segments) +
			w.CSAT*(r.Metrics.CSAT/100) +
			w.ESAT*(r.Metrics.ESAT/100) +
			w.ROCE*roce[id]
		r.RoundScore = composite * 100
		r.Scored = true
	}
}
