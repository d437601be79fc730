package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"aegissim/internal/model"
)

// 导出工作表名称
const (
	SheetResults     = "Results"
	SheetCosts       = "Costs"
	SheetSegments    = "Segments"
	SheetLeaderboard = "Leaderboard"
)

// ExportRound 导出单轮结果与累计排名
func ExportRound(
	cfg *model.SimulationConfig,
	round model.ResolvedRound,
	results map[string]*model.RoundResult,
	leaderboard []model.LeaderboardEntry,
) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetResults); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet failed: %w", err)
	}
	for _, name := range []string{SheetCosts, SheetSegments, SheetLeaderboard} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s failed: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style failed: %w", err)
	}

	names := make(map[string]string, len(leaderboard))
	for _, e := range leaderboard {
		names[e.TeamID] = e.TeamName
	}
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	teamName := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	// 结果表
	resultRows := [][]interface{}{{
		"Team", "Team ID", "Round", "Type", "Revenue", "Pre-tax Profit", "Tax", "Net Profit",
		"CSAT", "ESAT", "ROCE", "Profit/Employee", "Utilization %", "Market Share", "Round Score", "Scored",
	}}
	for _, id := range ids {
		r := results[id]
		m := r.Metrics
		resultRows = append(resultRows, []interface{}{
			teamName(id), id, round.RoundID, string(round.Kind), m.Revenue, r.PreTax, r.Tax, m.NetProfit,
			m.CSAT, m.ESAT, m.ROCE, m.ProfitPerEmployee, m.CapacityUtilization,
			m.OverallMarketShare(cfg.Segments), r.RoundScore, r.Scored,
		})
	}

	// 成本表
	costRows := [][]interface{}{{
		"Team", "Salary", "Temp", "Overtime", "Outsourcing", "Training", "Marketing", "Quality",
		"Variable", "Fixed", "Interest", "Hiring", "Firing", "Total",
	}}
	for _, id := range ids {
		b := results[id].Breakdown
		costRows = append(costRows, []interface{}{
			teamName(id), b.SalaryCost, b.TempCost, b.OTCost, b.OutsourcingCost, b.TrainingCost,
			b.MarketingCost, b.QualityCost, b.VarCost, b.FixedCost, b.InterestCost,
			b.HiringCost, b.FiringCost, b.Total(),
		})
	}

	// 细分市场表
	segmentRows := [][]interface{}{{"Team", "Segment", "Market Share", "Units Served"}}
	for _, id := range ids {
		m := results[id].Metrics
		for _, seg := range cfg.Segments {
			segmentRows = append(segmentRows, []interface{}{
				teamName(id), seg, m.MarketShare[seg], m.UnitsServed[seg],
			})
		}
	}

	// 累计排名表
	boardRows := [][]interface{}{{"Rank", "Team", "Rounds Scored", "Total Score", "Average Score", "Total Net Profit"}}
	for _, e := range leaderboard {
		boardRows = append(boardRows, []interface{}{
			e.Rank, e.TeamName, e.RoundsScored, e.TotalScore, e.AverageScore, e.TotalNetProfit,
		})
	}

	for _, sheet := range []struct {
		name string
		rows [][]interface{}
	}{
		{SheetResults, resultRows},
		{SheetCosts, costRows},
		{SheetSegments, segmentRows},
		{SheetLeaderboard, boardRows},
	} {
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetRowStyle(sheet.name, 1, 1, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header style failed: %w", err)
		}
		_ = f.SetColWidth(sheet.name, "A", "A", 24)
	}
	_ = f.SetColWidth(SheetResults, "B", "B", 38)

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d failed: %w", sheet, i+1, err)
		}
	}
	return nil
}
