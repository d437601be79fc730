package engine

import "aegissim/internal/model"

// capacityPlan 队伍本轮产能测算结果
type capacityPlan struct {
	ReqHours       float64
	PermHoursCap   float64
	MaxOTHours     float64
	ActualOTHours  float64
	TotalCapHours  float64
	CapacityRatio  float64            // 可服务比例，上限 1
	Utilization    float64            // 百分比，可大于 100
	ServedUnits    map[string]float64 // 各细分市场实际服务量
	ServedUnitsSum float64
}

// resolveCapacity 将人力/加班/外包决策换算为可用工时，并按统一比例约束各细分市场的订单
func resolveCapacity(cfg *model.SimulationConfig, d model.TeamDecision, st model.TeamState, bookings map[string]float64) capacityPlan {
	plan := capacityPlan{ServedUnits: make(map[string]float64, len(cfg.Segments))}

	for _, s := range cfg.Segments {
		plan.ReqHours += bookings[s] * cfg.ServTimeHours[s]
	}

	plan.PermHoursCap = float64(d.PermHeadcount) * hoursPerEmployee * st.Prod
	plan.MaxOTHours = plan.PermHoursCap * (d.OTCapPct / 100)
	// 只有正式产能不足时才安排加班，且不超过上限
	shortfall := plan.ReqHours - plan.PermHoursCap
	if shortfall < 0 {
		shortfall = 0
	}
	plan.ActualOTHours = shortfall
	if plan.ActualOTHours > plan.MaxOTHours {
		plan.ActualOTHours = plan.MaxOTHours
	}
	plan.TotalCapHours = plan.PermHoursCap + plan.ActualOTHours + d.TempHours + d.OutsourcedHours

	if plan.TotalCapHours > 0 {
		plan.CapacityRatio = 1
		if plan.ReqHours > 0 && plan.TotalCapHours < plan.ReqHours {
			plan.CapacityRatio = plan.TotalCapHours / plan.ReqHours
		}
		plan.Utilization = plan.ReqHours / plan.TotalCapHours * 100
	}

	for _, s := range cfg.Segments {
		units := bookings[s] * plan.CapacityRatio
		plan.ServedUnits[s] = units
		plan.ServedUnitsSum += units
	}

	return plan
}
