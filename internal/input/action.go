// Package input maps physical key triggers to logical actions and tracks
// per-tick, edge-triggered action state.
package input

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// Action is a logical input identifier.
type Action int

const (
	ActionQuit    Action = iota // leave the Ready phase
	ActionInspect               // toggle the world inspector
)

// String returns a human-readable representation of the action.
func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionInspect:
		return "inspect"
	default:
		return "unknown"
	}
}

// Key is the name of a physical trigger as reported by the terminal,
// e.g. "q", "f1", "ctrl+c".
type Key string

// InputMap is a static action -> trigger table. It is immutable after
// NewInputMap returns.
type InputMap struct {
	order    []Action
	bindings map[Action]key.Binding
	triggers map[Key]Action
}

// Bind pairs an action with its trigger.
type Bind struct {
	Action Action
	Key    Key
}

// NewInputMap builds a map from the given bindings. Each action and each
// key may appear at most once.
func NewInputMap(binds ...Bind) (*InputMap, error) {
	m := &InputMap{
		bindings: make(map[Action]key.Binding, len(binds)),
		triggers: make(map[Key]Action, len(binds)),
	}
	for _, b := range binds {
		if b.Key == "" {
			return nil, fmt.Errorf("action %s: empty key", b.Action)
		}
		if _, ok := m.bindings[b.Action]; ok {
			return nil, fmt.Errorf("action %s bound twice", b.Action)
		}
		if other, ok := m.triggers[b.Key]; ok {
			return nil, fmt.Errorf("key %q already bound to %s", b.Key, other)
		}
		m.order = append(m.order, b.Action)
		m.bindings[b.Action] = key.NewBinding(
			key.WithKeys(string(b.Key)),
			key.WithHelp(string(b.Key), b.Action.String()),
		)
		m.triggers[b.Key] = b.Action
	}
	return m, nil
}

// DefaultInputMap binds q to quit and i to the inspector.
func DefaultInputMap() *InputMap {
	m, _ := NewInputMap(
		Bind{Action: ActionQuit, Key: "q"},
		Bind{Action: ActionInspect, Key: "i"},
	)
	return m
}

// Lookup returns the action bound to k.
func (m *InputMap) Lookup(k Key) (Action, bool) {
	a, ok := m.triggers[k]
	return a, ok
}

// Trigger returns the key bound to a.
func (m *InputMap) Trigger(a Action) (Key, bool) {
	b, ok := m.bindings[a]
	if !ok {
		return "", false
	}
	return Key(b.Keys()[0]), true
}

// Binding returns the bubbles key binding for a.
func (m *InputMap) Binding(a Action) (key.Binding, bool) {
	b, ok := m.bindings[a]
	return b, ok
}

// Actions returns the bound actions in registration order.
func (m *InputMap) Actions() []Action {
	out := make([]Action, len(m.order))
	copy(out, m.order)
	return out
}

// ShortHelp implements help.KeyMap.
func (m *InputMap) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(m.order))
	for _, a := range m.order {
		out = append(out, m.bindings[a])
	}
	return out
}

// FullHelp implements help.KeyMap.
func (m *InputMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp()}
}
