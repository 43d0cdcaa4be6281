package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/looplab/fsm"
)

// Connection states
const (
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"
	StateBackoff      = "backoff"
	StateClosed       = "closed"
)

// Connection events
const (
	EventDial        = "dial"
	EventEstablished = "established"
	EventFail        = "fail"
	EventClose       = "close"
)

// Machine tracks the lifecycle of a feed connection.
type Machine struct {
	mu       sync.Mutex
	fsm      *fsm.FSM
	onChange func(from, to string)
}

func NewMachine(onChange func(from, to string)) *Machine {
	m := &Machine{onChange: onChange}
	m.fsm = fsm.NewFSM(
		StateDisconnected,
		fsm.Events{
			{Name: EventDial, Src: []string{StateDisconnected, StateBackoff}, Dst: StateConnecting},
			{Name: EventEstablished, Src: []string{StateConnecting}, Dst: StateConnected},
			{Name: EventFail, Src: []string{StateConnecting, StateConnected}, Dst: StateBackoff},
			{Name: EventClose, Src: []string{StateDisconnected, StateConnecting, StateConnected, StateBackoff}, Dst: StateClosed},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onChange != nil && e.Src != e.Dst {
					m.onChange(e.Src, e.Dst)
				}
			},
		},
	)
	return m
}

func (m *Machine) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.Current()
}

func (m *Machine) Trigger(event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	return nil
}

func (m *Machine) Can(event string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.Can(event)
}
