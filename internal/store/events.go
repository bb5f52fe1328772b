package store

type Entity string

const (
	EntityUser         Entity = "user"
	EntityNeed         Entity = "need"
	EntitySaved        Entity = "saved"
	EntityConversation Entity = "conversation"
	EntityMessage      Entity = "message"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event describes one committed mutation.
type Event struct {
	Entity Entity
	Action Action
	ID     string
}

// Subscribe registers fn to be called, in commit order, for every event of
// every successful Update. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) publish(events []Event) {
	if len(events) == 0 {
		return
	}

	s.subMu.Lock()
	subs := make([]func(Event), 0, len(s.subs))
	// registration order
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			subs = append(subs, fn)
		}
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}
