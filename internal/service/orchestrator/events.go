package orchestrator

import "time"

// EventType 编排事件类型
type EventType string

const (
	EventTeamCreated       EventType = "team_created"
	EventDecisionSubmitted EventType = "decision_submitted"
	EventRoundResolved     EventType = "round_resolved"
)

// Event 编排事件，推送给实时订阅方
type Event struct {
	Type    EventType `json:"type"`
	RoundID int       `json:"roundId,omitempty"`
	TeamID  string    `json:"teamId,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier 事件接收方，实现不得阻塞
type Notifier interface {
	Publish(Event)
}

// NotifierFunc 函数适配器
type NotifierFunc func(Event)

func (f NotifierFunc) Publish(e Event) { f(e) }

type nopNotifier struct{}

func (nopNotifier) Publish(Event) {}

func (o *Orchestrator) publish(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.publishLocked(e)
}

func (o *Orchestrator) publishLocked(e Event) {
	if e.At.IsZero() {
		e.At = o.now().UTC()
	}
	o.notifier.Publish(e)
}
