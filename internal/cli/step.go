package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/opgraph/pkg/dag"
	"github.com/matzehuels/opgraph/pkg/graph"
	"github.com/matzehuels/opgraph/pkg/viewer"
)

var (
	stepDoneStyle    = lipgloss.NewStyle().Foreground(colorDim)
	stepNextStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	stepReadyStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	stepWaitingStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// Node states shown by the stepper.
const (
	stateDone    = "done"
	stateNext    = "next"
	stateReady   = "ready"
	stateWaiting = "waiting"
)

type stepKeyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

func (k stepKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.First, k.Last, k.Quit}
}

func (k stepKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var stepKeys = stepKeyMap{
	Next:  key.NewBinding(key.WithKeys("right", "l", "n", " ", "enter"), key.WithHelp("→/n", "step")),
	Prev:  key.NewBinding(key.WithKeys("left", "h", "p", "backspace"), key.WithHelp("←/p", "back")),
	First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// stepCommand creates the step command.
func (c *CLI) stepCommand() *cobra.Command {
	var (
		order = viewer.OrderPriorityBased.String()
		flags cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "step FILE",
		Short: "Walk through an execution order interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := viewer.ParseExecutionOrder(order)
			if err != nil {
				return err
			}
			res, g, err := c.schedule(cmd, args[0], flags, false)
			if err != nil {
				return err
			}
			nodes, err := res.Schedule.Order(o)
			if err != nil {
				return err
			}

			m := NewStepModel(g, res.Schedule, o.String(), nodes)
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&order, "order", order, "order to step through: default or priority")
	flags.register(cmd)

	return cmd
}

// =============================================================================
// StepModel - Interactive order walkthrough
// =============================================================================

// StepModel is the bubbletea model for stepping through an execution order.
// Nodes before Step have run; the node at Step runs next.
type StepModel struct {
	Title  string
	Order  []dag.NodeIndex
	Step   int
	Height int
	Offset int

	graph    *dag.Graph
	schedule graph.Schedule
	position map[dag.NodeIndex]int
	help     help.Model
}

// NewStepModel creates a stepper over order, which must be an order of g.
func NewStepModel(g *dag.Graph, s graph.Schedule, title string, order []dag.NodeIndex) StepModel {
	pos := make(map[dag.NodeIndex]int, len(order))
	for i, idx := range order {
		pos[idx] = i
	}
	return StepModel{
		Title:    title,
		Order:    order,
		Height:   15,
		graph:    g,
		schedule: s,
		position: pos,
		help:     help.New(),
	}
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, stepKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, stepKeys.Next):
			if m.Step < len(m.Order) {
				m.Step++
			}
		case key.Matches(msg, stepKeys.Prev):
			if m.Step > 0 {
				m.Step--
			}
		case key.Matches(msg, stepKeys.First):
			m.Step = 0
		case key.Matches(msg, stepKeys.Last):
			m.Step = len(m.Order)
		}
		m.follow()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-7, 5)
		m.help.Width = msg.Width
		m.follow()
	}
	return m, nil
}

// follow scrolls so the next node stays visible.
func (m *StepModel) follow() {
	cur := min(m.Step, max(len(m.Order)-1, 0))
	if cur < m.Offset {
		m.Offset = cur
	}
	if cur >= m.Offset+m.Height {
		m.Offset = cur - m.Height + 1
	}
}

// State reports whether the node at position i of the order has run, runs
// next, has all producers done, or still waits on a producer.
func (m StepModel) State(i int) string {
	switch {
	case i < m.Step:
		return stateDone
	case i == m.Step:
		return stateNext
	}
	for _, p := range m.graph.InputNodes(m.Order[i]) {
		if m.position[p] >= m.Step {
			return stateWaiting
		}
	}
	return stateReady
}

func (m StepModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title + " order"))
	b.WriteString("\n")
	b.WriteString(m.help.View(stepKeys))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Order))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		idx := m.Order[i]
		n, _ := m.schedule.Lookup(idx)
		cursor := "  "
		if i == m.Step {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(i), "#" + strconv.Itoa(int(idx)), n.Name, n.OpType, strconv.Itoa(n.Priority), m.State(i)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Step", "Node", "Name", "Op", "Priority", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			i := m.Offset + row
			if i >= len(m.Order) {
				return lipgloss.NewStyle()
			}
			state := m.State(i)
			if col == 4 && state != stateDone {
				if n, ok := m.schedule.Lookup(m.Order[i]); ok && viewer.IsHighPriority(&dag.Node{OpType: n.OpType}) {
					return StyleHighPriority
				}
			}
			switch state {
			case stateDone:
				return stepDoneStyle
			case stateNext:
				return stepNextStyle
			case stateReady:
				return stepReadyStyle
			}
			return stepWaitingStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d executed]", m.Step, len(m.Order))))

	return b.String()
}
