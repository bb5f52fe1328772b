package services

import "time"

// Operation names a service call that carries a simulated delay.
type Operation string

const (
	OpAddNeed           Operation = "add_need"
	OpUpdateNeed        Operation = "update_need"
	OpDeleteNeed        Operation = "delete_need"
	OpUserNeeds         Operation = "user_needs"
	OpSavedNeeds        Operation = "saved_needs"
	OpToggleSave        Operation = "toggle_save"
	OpSearch            Operation = "search"
	OpConversations     Operation = "conversations"
	OpMessages          Operation = "messages"
	OpSendMessage       Operation = "send_message"
	OpStartConversation Operation = "start_conversation"
	OpMarkRead          Operation = "mark_read"
	OpAuth              Operation = "auth"
)

var baseDelays = map[Operation]time.Duration{
	OpAddNeed:           time.Second,
	OpUpdateNeed:        time.Second,
	OpDeleteNeed:        time.Second,
	OpUserNeeds:         500 * time.Millisecond,
	OpSavedNeeds:        500 * time.Millisecond,
	OpToggleSave:        300 * time.Millisecond,
	OpSearch:            500 * time.Millisecond,
	OpConversations:     300 * time.Millisecond,
	OpMessages:          300 * time.Millisecond,
	OpSendMessage:       300 * time.Millisecond,
	OpStartConversation: 500 * time.Millisecond,
	OpMarkRead:          300 * time.Millisecond,
	OpAuth:              time.Second,
}

// Latency delays service calls to mimic a remote backend. The delay is not
// cancellable: once a call starts, it waits out its delay and then applies
// its effect.
type Latency struct {
	scale float64
	sleep func(time.Duration)
}

// NewLatency scales every base delay by scale. Zero disables delays.
func NewLatency(scale float64) *Latency {
	return &Latency{scale: scale, sleep: time.Sleep}
}

// NoLatency is a Latency that never waits.
func NoLatency() *Latency {
	return NewLatency(0)
}

func (l *Latency) Delay(op Operation) time.Duration {
	if l == nil || l.scale <= 0 {
		return 0
	}
	return time.Duration(float64(baseDelays[op]) * l.scale)
}

func (l *Latency) Wait(op Operation) {
	if d := l.Delay(op); d > 0 {
		l.sleep(d)
	}
}
