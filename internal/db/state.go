package db

import "sync/atomic"

// State is the readable connection signal shared by the connector and the
// health endpoint.
type State struct {
	connected atomic.Bool
}

func NewState(connected bool) *State {
	s := &State{}
	s.connected.Store(connected)
	return s
}

func (s *State) Connected() bool {
	return s != nil && s.connected.Load()
}

// Label renders the state the way the health endpoint reports it.
func (s *State) Label() string {
	if s.Connected() {
		return "connected"
	}
	return "disconnected"
}

// set stores v and reports whether it changed.
func (s *State) set(v bool) bool {
	return s.connected.Swap(v) != v
}
