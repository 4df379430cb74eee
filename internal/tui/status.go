package tui

import "sync"

// StatusLine collects the controller's indicator text and its transient
// messages. It is written from command goroutines and read by View.
type StatusLine struct {
	mu      sync.Mutex
	text    string
	tooltip string
	msg     string
	isErr   bool
}

func NewStatusLine() *StatusLine {
	return &StatusLine{}
}

func (s *StatusLine) SetText(t string) {
	s.mu.Lock()
	s.text = t
	s.mu.Unlock()
}

func (s *StatusLine) SetTooltip(t string) {
	s.mu.Lock()
	s.tooltip = t
	s.mu.Unlock()
}

func (s *StatusLine) Info(msg string)  { s.post(msg, false) }
func (s *StatusLine) Error(msg string) { s.post(msg, true) }

func (s *StatusLine) post(msg string, isErr bool) {
	s.mu.Lock()
	s.msg, s.isErr = msg, isErr
	s.mu.Unlock()
}

// Snapshot returns the current indicator text and tooltip.
func (s *StatusLine) Snapshot() (text, tooltip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.tooltip
}

// TakeMessage returns the last posted message and clears it.
func (s *StatusLine) TakeMessage() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, isErr := s.msg, s.isErr
	s.msg, s.isErr = "", false
	return msg, isErr
}
