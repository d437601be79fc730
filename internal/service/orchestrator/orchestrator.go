package orchestrator

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"aegissim/internal/model"
	"aegissim/internal/service/engine"
	"aegissim/internal/store"
)

var (
	ErrRoundResolved    = errors.New("round already resolved")
	ErrUnknownRound     = errors.New("unknown round")
	ErrUnknownTeam      = errors.New("unknown team")
	ErrMissingDecisions = errors.New("decisions missing")
	ErrNoTeams          = errors.New("no teams registered")
	ErrRoundOrder       = errors.New("earlier round not resolved")
	ErrInvalidTeamName  = errors.New("team name is required")
)

// ResolveOptions 结算选项
type ResolveOptions struct {
	FillMissing bool `json:"fillMissing"` // 未提交的队伍使用默认决策
}

// PendingStatus 某轮提交进度
type PendingStatus struct {
	RoundID   int      `json:"roundId"`
	Resolved  bool     `json:"resolved"`
	Submitted []string `json:"submitted"`
	Missing   []string `json:"missing"`
}

// Resolution 结算结果
type Resolution struct {
	Round           model.ResolvedRound           `json:"round"`
	Results         map[string]*model.RoundResult `json:"results"`
	Substituted     []string                      `json:"substituted"`
	AlreadyResolved bool                          `json:"alreadyResolved"`
}

// RoundStatus 配置中的轮次及其结算状态
type RoundStatus struct {
	model.Round
	Resolved   bool       `json:"resolved"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	Current    bool       `json:"current"`
}

// Orchestrator 轮次编排：收集决策、等待全部队伍提交、调用引擎并原子持久化
type Orchestrator struct {
	store  *store.Store
	engine *engine.Engine
	cfg    *model.SimulationConfig

	mu       sync.Mutex
	notifier Notifier
	now      func() time.Time
}

// New 创建编排器，cfg 需已通过校验
func New(st *store.Store, cfg *model.SimulationConfig) (*Orchestrator, error) {
	if len(cfg.Rounds) == 0 {
		return nil, fmt.Errorf("%w: no rounds configured", model.ErrInvalidConfig)
	}
	o := &Orchestrator{
		store:    st,
		engine:   engine.NewEngine(cfg),
		cfg:      cfg,
		notifier: nopNotifier{},
		now:      time.Now,
	}

	if _, err := st.GetCurrentRound(); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		if err := st.SetCurrentRound(o.firstRoundID()); err != nil {
			return nil, fmt.Errorf("init current round failed: %w", err)
		}
	}
	return o, nil
}

// SetNotifier 设置事件接收方
func (o *Orchestrator) SetNotifier(n Notifier) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if n == nil {
		n = nopNotifier{}
	}
	o.notifier = n
}

// Config 返回模拟配置
func (o *Orchestrator) Config() *model.SimulationConfig {
	return o.cfg
}

// Engine 返回结算引擎
func (o *Orchestrator) Engine() *engine.Engine {
	return o.engine
}

// CurrentRound 当前开放提交的轮次；全部结算后返回 0
func (o *Orchestrator) CurrentRound() (int, error) {
	return o.store.GetCurrentRound()
}

// CreateTeam 注册队伍
func (o *Orchestrator) CreateTeam(name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidTeamName
	}
	team := model.Team{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: o.now().UTC(),
	}
	if err := o.store.CreateTeam(team); err != nil {
		return nil, err
	}
	log.Printf("team registered: %s (%s)", team.Name, team.ID)
	o.publish(Event{Type: EventTeamCreated, TeamID: team.ID})
	return &team, nil
}

// ListTeams 列出全部队伍
func (o *Orchestrator) ListTeams() ([]model.Team, error) {
	return o.store.ListTeams()
}

// Rounds 列出配置中的轮次及结算状态
func (o *Orchestrator) Rounds() ([]RoundStatus, error) {
	resolved, err := o.store.ListRounds()
	if err != nil {
		return nil, err
	}
	byID := make(map[int]model.ResolvedRound, len(resolved))
	for _, r := range resolved {
		byID[r.RoundID] = r
	}
	current, err := o.store.GetCurrentRound()
	if err != nil {
		return nil, err
	}

	out := make([]RoundStatus, 0, len(o.cfg.Rounds))
	for _, r := range o.cfg.Rounds {
		rs := RoundStatus{Round: r, Current: r.ID == current}
		if rr, ok := byID[r.ID]; ok {
			at := rr.ResolvedAt
			rs.Resolved = true
			rs.ResolvedAt = &at
		}
		out = append(out, rs)
	}
	return out, nil
}

// SubmitDecision 校验并保存队伍决策，结算前可重复提交覆盖
func (o *Orchestrator) SubmitDecision(roundID int, teamID string, d model.TeamDecision) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.cfg.Round(roundID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRound, roundID)
	}
	resolved, err := o.isResolved(roundID)
	if err != nil {
		return err
	}
	if resolved {
		return fmt.Errorf("%w: %d", ErrRoundResolved, roundID)
	}
	if _, err := o.store.GetTeam(teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
		}
		return err
	}
	if err := d.Validate(o.cfg); err != nil {
		return err
	}

	if err := o.store.SaveDecision(roundID, teamID, d, o.now()); err != nil {
		return err
	}
	o.publishLocked(Event{Type: EventDecisionSubmitted, RoundID: roundID, TeamID: teamID})
	return nil
}

// Pending 返回某轮已提交与未提交的队伍
func (o *Orchestrator) Pending(roundID int) (*PendingStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pendingLocked(roundID)
}

func (o *Orchestrator) pendingLocked(roundID int) (*PendingStatus, error) {
	if _, ok := o.cfg.Round(roundID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRound, roundID)
	}
	resolved, err := o.isResolved(roundID)
	if err != nil {
		return nil, err
	}
	teams, err := o.store.ListTeams()
	if err != nil {
		return nil, err
	}
	submitted, err := o.store.GetDecisions(roundID)
	if err != nil {
		return nil, err
	}

	status := &PendingStatus{
		RoundID:   roundID,
		Resolved:  resolved,
		Submitted: []string{},
		Missing:   []string{},
	}
	for _, t := range teams {
		if _, ok := submitted[t.ID]; ok {
			status.Submitted = append(status.Submitted, t.ID)
		} else {
			status.Missing = append(status.Missing, t.ID)
		}
	}
	sort.Strings(status.Submitted)
	sort.Strings(status.Missing)
	return status, nil
}

// ResolveRound 结算一轮。全部队伍提交前拒绝结算，除非 FillMissing 为 true。
// 已结算的轮次直接返回已保存的结果。
func (o *Orchestrator) ResolveRound(roundID int, opts ResolveOptions) (*Resolution, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	round, ok := o.cfg.Round(roundID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRound, roundID)
	}

	if stored, err := o.store.GetRound(roundID); err == nil {
		return o.storedResolution(stored)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if err := o.checkOrderLocked(roundID); err != nil {
		return nil, err
	}

	pending, err := o.pendingLocked(roundID)
	if err != nil {
		return nil, err
	}
	if len(pending.Submitted)+len(pending.Missing) == 0 {
		return nil, ErrNoTeams
	}
	if len(pending.Missing) > 0 && !opts.FillMissing {
		return nil, fmt.Errorf("%w: %s", ErrMissingDecisions, strings.Join(pending.Missing, ", "))
	}

	decisions, err := o.store.GetDecisions(roundID)
	if err != nil {
		return nil, err
	}
	substituted := make(map[string]bool, len(pending.Missing))
	for _, id := range pending.Missing {
		decisions[id] = o.cfg.DefaultDecision.Clone()
		substituted[id] = true
	}

	latest, err := o.store.LatestStates(o.earlierRoundIDs(roundID))
	if err != nil {
		return nil, err
	}
	prior := make(map[string]model.TeamState, len(decisions))
	for id := range decisions {
		if st, ok := latest[id]; ok {
			prior[id] = st
		} else {
			prior[id] = model.DefaultTeamState()
		}
	}

	outcome := o.engine.Resolve(round.Info(), decisions, prior)

	record := model.ResolvedRound{
		RoundID:    roundID,
		Kind:       round.Kind,
		TeamCount:  len(decisions),
		Filled:     len(pending.Missing),
		ResolvedAt: o.now().UTC(),
	}
	if err := o.store.SaveRoundOutcome(store.RoundOutcome{
		Round:       record,
		Decisions:   decisions,
		Substituted: substituted,
		Prior:       prior,
		Results:     outcome.Results,
		Next:        outcome.States,
		NextRound:   o.nextRoundID(roundID),
	}); err != nil {
		return nil, fmt.Errorf("persist round %d failed: %w", roundID, err)
	}

	log.Printf("round %d (%s) resolved: teams=%d filled=%d", roundID, round.Kind, record.TeamCount, record.Filled)
	o.publishLocked(Event{Type: EventRoundResolved, RoundID: roundID})

	return &Resolution{
		Round:       record,
		Results:     outcome.Results,
		Substituted: append([]string{}, pending.Missing...),
	}, nil
}

// Results 返回已结算轮次的结果
func (o *Orchestrator) Results(roundID int) (*Resolution, error) {
	if _, ok := o.cfg.Round(roundID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRound, roundID)
	}
	stored, err := o.store.GetRound(roundID)
	if err != nil {
		return nil, err
	}
	return o.storedResolution(stored)
}

// Leaderboard 累计排名，仅统计正式轮
func (o *Orchestrator) Leaderboard() ([]model.LeaderboardEntry, error) {
	return o.store.Leaderboard()
}

func (o *Orchestrator) storedResolution(r *model.ResolvedRound) (*Resolution, error) {
	results, err := o.store.GetRoundResults(r.RoundID)
	if err != nil {
		return nil, err
	}
	subs, err := o.store.GetSubstitutedTeams(r.RoundID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []string{}
	}
	return &Resolution{
		Round:           *r,
		Results:         results,
		Substituted:     subs,
		AlreadyResolved: true,
	}, nil
}

func (o *Orchestrator) isResolved(roundID int) (bool, error) {
	_, err := o.store.GetRound(roundID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// checkOrderLocked 配置中排在前面的轮次必须已结算
func (o *Orchestrator) checkOrderLocked(roundID int) error {
	for _, r := range o.cfg.Rounds {
		if r.ID == roundID {
			return nil
		}
		resolved, err := o.isResolved(r.ID)
		if err != nil {
			return err
		}
		if !resolved {
			return fmt.Errorf("%w: round %d must be resolved before %d", ErrRoundOrder, r.ID, roundID)
		}
	}
	return nil
}

// earlierRoundIDs 配置中排在 roundID 之前的轮次，按配置顺序
func (o *Orchestrator) earlierRoundIDs(roundID int) []int {
	var ids []int
	for _, r := range o.cfg.Rounds {
		if r.ID == roundID {
			break
		}
		ids = append(ids, r.ID)
	}
	return ids
}

func (o *Orchestrator) firstRoundID() int {
	return o.cfg.Rounds[0].ID
}

func (o *Orchestrator) nextRoundID(roundID int) int {
	for i, r := range o.cfg.Rounds {
		if r.ID == roundID && i+1 < len(o.cfg.Rounds) {
			return o.cfg.Rounds[i+1].ID
		}
	}
	return 0
}
