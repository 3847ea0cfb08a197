package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

func stepModel(t *testing.T) StepModel {
	t.Helper()
	g, err := graph.ReadGraph(strings.NewReader(mlpJSON), graph.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	v, err := viewer.New(g)
	if err != nil {
		t.Fatal(err)
	}
	s := graph.FromViewer(v)
	return NewStepModel(g, s, "priority", s.Priority)
}

func press(m StepModel, keys ...tea.KeyMsg) StepModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(StepModel)
	}
	return m
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyEnd   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}
)

func states(m StepModel) []string {
	out := make([]string, len(m.Order))
	for i := range m.Order {
		out[i] = m.State(i)
	}
	return out
}

func TestStepModelStates(t *testing.T) {
	m := stepModel(t)
	if got := m.Order; len(got) != 4 || got[0] != dag.NodeIndex(1) {
		t.Fatalf("Order = %v, want Shape first", got)
	}

	tests := []struct {
		name string
		keys []tea.KeyMsg
		step int
		want []string
	}{
		{"start", nil, 0, []string{"next", "ready", "waiting", "waiting"}},
		{"one step", []tea.KeyMsg{keyRight}, 1, []string{"done", "next", "waiting", "waiting"}},
		{"two steps", []tea.KeyMsg{keyRight, keyRight}, 2, []string{"done", "done", "next", "waiting"}},
		{"back", []tea.KeyMsg{keyRight, keyRight, keyLeft}, 1, []string{"done", "next", "waiting", "waiting"}},
		{"end", []tea.KeyMsg{keyEnd, keyRight}, 4, []string{"done", "done", "done", "done"}},
		{"left at start", []tea.KeyMsg{keyLeft}, 0, []string{"next", "ready", "waiting", "waiting"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := press(m, tt.keys...)
			if got.Step != tt.step {
				t.Errorf("Step = %d, want %d", got.Step, tt.step)
			}
			if s := states(got); strings.Join(s, ",") != strings.Join(tt.want, ",") {
				t.Errorf("states = %v, want %v", s, tt.want)
			}
		})
	}
}

func TestStepModelView(t *testing.T) {
	m := press(stepModel(t), keyRight)
	view := m.View()
	for _, want := range []string{"priority order", "Shape", "reshape", "[1/4 executed]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestStepModelQuit(t *testing.T) {
	_, cmd := stepModel(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestStepModelScroll(t *testing.T) {
	m := stepModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	m = next.(StepModel)
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
	m.Height = 2
	m = press(m, keyRight, keyRight, keyRight)
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2 so step 3 stays visible", m.Offset)
	}
}

func TestStepModelView(t *testing.T) {
	view := press(stepModel(t), keyRight).View()
	for _, want := range []string{"order", "step", "quit", "[1/4 executed]", "Reshape"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
