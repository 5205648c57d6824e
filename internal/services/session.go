package services

import "fmt"

// transition keys the static table: what happened, in which phase.
type transition struct {
	From string
	On   string
}

// Machine is the shared shape of the multi-step game state machines: a
// finite phase set, a static transition table and one-way terminal
// phases. Each game instantiates its own table; the engine picks the
// event after computing the game outcome and the machine decides whether
// the move is legal. An unlisted (phase, event) pair is rejected without
// side effects.
type Machine struct {
	table    map[transition]string
	terminal map[string]bool
}

func NewMachine() *Machine {
	return &Machine{
		table:    make(map[transition]string),
		terminal: make(map[string]bool),
	}
}

func (m *Machine) Allow(from, on, to string) *Machine {
	m.table[transition{From: from, On: on}] = to
	return m
}

func (m *Machine) Terminal(phase string) *Machine {
	m.terminal[phase] = true
	return m
}

func (m *Machine) IsTerminal(phase string) bool {
	return m.terminal[phase]
}

// Next resolves one step. Terminal phases accept nothing: a settled round
// reports ErrRoundNotActive, never a silent no-op.
func (m *Machine) Next(from, on string) (string, error) {
	if m.terminal[from] {
		return "", fmt.Errorf("%w: phase %q is terminal", ErrRoundNotActive, from)
	}

	to, ok := m.table[transition{From: from, On: on}]
	if !ok {
		return "", fmt.Errorf("%w: %q in phase %q", ErrInvalidTransition, on, from)
	}
	return to, nil
}
