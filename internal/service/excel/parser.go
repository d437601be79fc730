package excel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"aegissim/internal/model"
)

// SheetDecisions 决策导入工作表，不存在时读取第一个工作表
const SheetDecisions = "Decisions"

// 决策列名
const (
	ColTeam              = "team"
	ColPermHeadcount     = "permHeadcount"
	ColTempHours         = "tempHours"
	ColTrainingIntensity = "trainingIntensity"
	ColPayPremiumPct     = "payPremiumPct"
	ColOutsourcedHours   = "outsourcedHours"
	ColOTCapPct          = "otCapPct"
	ColQualityInvestment = "qualityInvestment"
	ColDebtChange        = "debtChange"
	ColDividend          = "dividend"

	pricePrefix     = "price:"
	marketingPrefix = "marketing:"
)

var (
	ErrEmptySheet      = errors.New("decision sheet is empty")
	ErrMissingTeamCol  = errors.New("team column is required")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrDuplicateTeam   = errors.New("duplicate team row")
	ErrInvalidCellData = errors.New("invalid cell value")
)

var scalarColumns = []string{
	ColPermHeadcount, ColTempHours, ColTrainingIntensity, ColPayPremiumPct, ColOutsourcedHours,
	ColOTCapPct, ColQualityInvestment, ColDebtChange, ColDividend,
}

// ParseDecisions 从工作簿读取各队决策，每行一支队伍，按 team 列取键。
// 缺失的列沿用配置中的默认决策。
func ParseDecisions(r io.Reader, cfg *model.SimulationConfig) (map[string]model.TeamDecision, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheet := SheetDecisions
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s failed: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	header := make([]string, len(rows[0]))
	teamCol := -1
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		header[i] = h
		if h == "" {
			continue
		}
		if h == ColTeam {
			teamCol = i
			continue
		}
		if err := checkColumn(h, cfg); err != nil {
			return nil, err
		}
	}
	if teamCol < 0 {
		return nil, ErrMissingTeamCol
	}

	out := make(map[string]model.TeamDecision)
	for rowIdx, row := range rows[1:] {
		line := rowIdx + 2
		if teamCol >= len(row) || strings.TrimSpace(row[teamCol]) == "" {
			continue
		}
		team := strings.TrimSpace(row[teamCol])
		if _, dup := out[team]; dup {
			return nil, fmt.Errorf("%w: %s (row %d)", ErrDuplicateTeam, team, line)
		}

		d := cfg.DefaultDecision.Clone()
		if d.PriceBySegment == nil {
			d.PriceBySegment = make(map[string]float64)
		}
		if d.MarketingBySegment == nil {
			d.MarketingBySegment = make(map[string]float64)
		}
		for col, name := range header {
			if col == teamCol || name == "" || col >= len(row) {
				continue
			}
			raw := strings.TrimSpace(row[col])
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				cell, _ := excelize.CoordinatesToCellName(col+1, line)
				return nil, fmt.Errorf("%w: %s=%q at %s", ErrInvalidCellData, name, raw, cell)
			}
			if err := assign(&d, name, v); err != nil {
				cell, _ := excelize.CoordinatesToCellName(col+1, line)
				return nil, fmt.Errorf("%s: %w", cell, err)
			}
		}
		out[team] = d
	}
	return out, nil
}

func checkColumn(name string, cfg *model.SimulationConfig) error {
	for _, c := range scalarColumns {
		if name == c {
			return nil
		}
	}
	if seg, ok := strings.CutPrefix(name, pricePrefix); ok && cfg.HasSegment(seg) {
		return nil
	}
	if seg, ok := strings.CutPrefix(name, marketingPrefix); ok && cfg.HasSegment(seg) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
}

func assign(d *model.TeamDecision, name string, v float64) error {
	switch name {
	case ColPermHeadcount:
		if v != float64(int(v)) {
			return fmt.Errorf("%w: %s must be an integer", ErrInvalidCellData, name)
		}
		d.PermHeadcount = int(v)
	case ColTempHours:
		d.TempHours = v
	case ColTrainingIntensity:
		d.TrainingIntensity = v
	case ColPayPremiumPct:
		d.PayPremiumPct = v
	case ColOutsourcedHours:
		d.OutsourcedHours = v
	case ColOTCapPct:
		d.OTCapPct = v
	case ColQualityInvestment:
		d.QualityInvestment = v
	case ColDebtChange:
		d.DebtChange = v
	case ColDividend:
		d.Dividend = v
	default:
		if seg, ok := strings.CutPrefix(name, pricePrefix); ok {
			d.PriceBySegment[seg] = v
		} else if seg, ok := strings.CutPrefix(name, marketingPrefix); ok {
			d.MarketingBySegment[seg] = v
		}
	}
	return nil
}

// DecisionTemplate 生成决策导入模板，每支队伍一行并预填默认决策
func DecisionTemplate(cfg *model.SimulationConfig, teams []model.Team) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetDecisions); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet failed: %w", err)
	}

	header := []interface{}{ColTeam}
	for _, c := range scalarColumns {
		header = append(header, c)
	}
	for _, seg := range cfg.Segments {
		header = append(header, pricePrefix+seg)
	}
	for _, seg := range cfg.Segments {
		header = append(header, marketingPrefix+seg)
	}
	rows := [][]interface{}{header}

	d := cfg.DefaultDecision
	for _, t := range teams {
		row := []interface{}{
			t.ID, d.PermHeadcount, d.TempHours, d.TrainingIntensity, d.PayPremiumPct, d.OutsourcedHours,
			d.OTCapPct, d.QualityInvestment, d.DebtChange, d.Dividend,
		}
		for _, seg := range cfg.Segments {
			row = append(row, d.PriceBySegment[seg])
		}
		for _, seg := range cfg.Segments {
			row = append(row, d.MarketingBySegment[seg])
		}
		rows = append(rows, row)
	}

	if err := writeRows(f, SheetDecisions, rows); err != nil {
		f.Close()
		return nil, err
	}
	_ = f.SetColWidth(SheetDecisions, "A", "A", 38)
	return f, nil
}
