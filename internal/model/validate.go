package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig 模拟配置不合法
var ErrInvalidConfig = errors.New("invalid simulation config")

// ErrInvalidDecision 队伍决策不合法
var ErrInvalidDecision = errors.New("invalid team decision")

// Validate 校验模拟配置是否完整。引擎假设配置合法，加载后应先调用本方法。
func (c *SimulationConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if len(c.Segments) == 0 {
		add("at least one segment is required")
	}
	seen := make(map[string]bool, len(c.Segments))
	for _, s := range c.Segments {
		if s == "" {
			add("segment name must not be empty")
			continue
		}
		if seen[s] {
			add("duplicate segment %q", s)
		}
		seen[s] = true

		if v, ok := c.BaseDemand[s]; !ok || v < 0 {
			add("segment %q: base demand missing or negative", s)
		}
		if v, ok := c.ServTimeHours[s]; !ok || v < 0 {
			add("segment %q: service time missing or negative", s)
		}
		for name, weights := range map[string]map[string]float64{
			"eta":   c.Weights.Eta,
			"mu":    c.Weights.Mu,
			"kappa": c.Weights.Kappa,
			"rho":   c.Weights.Rho,
		} {
			if _, ok := weights[s]; !ok {
				add("segment %q: weight %s missing", s, name)
			}
		}
	}

	roundIDs := make(map[int]bool, len(c.Rounds))
	for _, r := range c.Rounds {
		if roundIDs[r.ID] {
			add("duplicate round id %d", r.ID)
		}
		roundIDs[r.ID] = true
		if !r.Kind.Valid() {
			add("round %d: unknown type %q", r.ID, r.Kind)
		}
	}

	if c.PriceBounds.Min < 0 || c.PriceBounds.Min > c.PriceBounds.Max {
		add("price bounds [%v, %v] are invalid", c.PriceBounds.Min, c.PriceBounds.Max)
	}

	costs := c.Costs
	for name, v := range map[string]float64{
		"perm_wage":         costs.PermWage,
		"temp_wage":         costs.TempWage,
		"overtime_multiple": costs.OvertimeMultiple,
		"hire_cost":         costs.HireCost,
		"fire_cost":         costs.FireCost,
		"training_cost":     costs.TrainingCost,
		"var_cost_per_unit": costs.VarCostPerUnit,
		"fixed_overhead":    costs.FixedOverhead,
		"outsourcing_cost":  costs.OutsourcingCost,
	} {
		if v < 0 {
			add("cost %s must not be negative", name)
		}
	}

	if c.Financial.TaxRate < 0 || c.Financial.TaxRate > 1 {
		add("tax rate %v out of [0,1]", c.Financial.TaxRate)
	}
	if c.Defaults.DecayProd < 0 || c.Defaults.DecayProd >= 1 {
		add("productivity decay %v out of [0,1)", c.Defaults.DecayProd)
	}
	if c.Defaults.DecayQuality < 0 || c.Defaults.DecayQuality >= 1 {
		add("quality decay %v out of [0,1)", c.Defaults.DecayQuality)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Validate 校验决策字段（调用方职责，引擎不做校验）
func (d TeamDecision) Validate(cfg *SimulationConfig) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if d.PermHeadcount < 0 {
		add("permHeadcount must not be negative")
	}
	for name, v := range map[string]float64{
		"tempHours":         d.TempHours,
		"trainingIntensity": d.TrainingIntensity,
		"outsourcedHours":   d.OutsourcedHours,
		"qualityInvestment": d.QualityInvestment,
		"dividend":          d.Dividend,
	} {
		if v < 0 {
			add("%s must not be negative", name)
		}
	}
	if d.PayPremiumPct < -100 {
		add("payPremiumPct must not be below -100")
	}
	if d.OTCapPct < 0 || d.OTCapPct > 100 {
		add("otCapPct must be within [0,100]")
	}

	for _, s := range cfg.Segments {
		price, ok := d.PriceBySegment[s]
		if !ok {
			add("price for segment %q is missing", s)
		} else if price < cfg.PriceBounds.Min || price > cfg.PriceBounds.Max {
			add("price %v for segment %q outside [%v, %v]", price, s, cfg.PriceBounds.Min, cfg.PriceBounds.Max)
		}
		if m, ok := d.MarketingBySegment[s]; !ok {
			add("marketing for segment %q is missing", s)
		} else if m < 0 {
			add("marketing for segment %q must not be negative", s)
		}
	}
	for s := range d.PriceBySegment {
		if !cfg.HasSegment(s) {
			add("unknown segment %q in prices", s)
		}
	}
	for s := range d.MarketingBySegment {
		if !cfg.HasSegment(s) {
			add("unknown segment %q in marketing", s)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDecision, errors.Join(errs...))
}
