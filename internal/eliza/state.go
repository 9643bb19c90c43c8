package eliza

// InsultThreshold is the number of insult-rule replies that end a session.
const InsultThreshold = 4

// Status is the session's position in the termination state machine.
type Status int

const (
	// Active sessions answer normally.
	Active Status = iota
	// Terminated sessions have crossed the insult threshold and stay
	// terminated until reset.
	Terminated
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}

// State is the mutable per-conversation data: the deferred memory queue,
// the insult machine and one round-robin cursor per (rule, pattern).
type State struct {
	memory  []string
	insults int
	status  Status
	cursors [][]int
}

// NewState creates state sized for a rule set with the given shape
// (number of patterns per rule).
func NewState(shape []int) *State {
	s := &State{cursors: make([][]int, len(shape))}
	for i, n := range shape {
		s.cursors[i] = make([]int, n)
	}
	return s
}

// Status returns the current machine state.
func (s *State) Status() Status { return s.status }

// Insults returns how many insult replies were counted this session.
func (s *State) Insults() int { return s.insults }

// RecordInsult counts an insult reply and reports whether this call moved
// the machine from Active to Terminated.
func (s *State) RecordInsult() bool {
	s.insults++
	if s.status == Active && s.insults >= InsultThreshold {
		s.status = Terminated
		return true
	}
	return false
}

// Remember appends a deferred response to the memory queue.
func (s *State) Remember(text string) {
	s.memory = append(s.memory, text)
}

// Recall removes and returns the oldest deferred response.
func (s *State) Recall() (string, bool) {
	if len(s.memory) == 0 {
		return "", false
	}
	text := s.memory[0]
	s.memory = s.memory[1:]
	return text, true
}

// Memory returns a copy of the pending deferred responses, oldest first.
func (s *State) Memory() []string {
	return append([]string(nil), s.memory...)
}

// Next returns the cursor for a pattern and advances it modulo n.
func (s *State) Next(rule, pattern, n int) int {
	c := s.cursors[rule][pattern]
	s.cursors[rule][pattern] = (c + 1) % n
	return c
}

// Reset clears memory, the insult machine and every cursor.
func (s *State) Reset() {
	s.memory = nil
	s.insults = 0
	s.status = Active
	for _, row := range s.cursors {
		for j := range row {
			row[j] = 0
		}
	}
}
