package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lk16/flippy/reversi/internal/othello"
)

// Styles holds the lipgloss styles of the board view.
type Styles struct {
	Title  lipgloss.Style
	Black  lipgloss.Style
	White  lipgloss.Style
	Empty  lipgloss.Style
	Legal  lipgloss.Style
	Cursor lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// DefaultStyles returns the styles used by the play command.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Black:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")),
		White:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F25D94")),
		Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Legal:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Cursor: lipgloss.NewStyle().Reverse(true),
		Status: lipgloss.NewStyle().Italic(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// Model is the bubbletea model of a game played in the terminal.
type Model struct {
	game   *othello.Game
	styles Styles

	cursor othello.Move

	// message describes the last thing that happened
	message string
	isError bool
}

// NewModel creates the model and lets the automated side make its opening move.
func NewModel(game *othello.Game) Model {
	m := Model{
		game:   game,
		styles: DefaultStyles(),
	}
	m.runAutomated(nil)
	return m
}

// Game returns the game being played.
func (m Model) Game() *othello.Game {
	return m.game
}

// Cursor returns the cell under the cursor.
func (m Model) Cursor() othello.Move {
	return m.cursor
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	size := m.game.Board().Size()

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case "down", "j":
		m.cursor.Row = min(m.cursor.Row+1, size-1)
	case "left", "h":
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case "right", "l":
		m.cursor.Col = min(m.cursor.Col+1, size-1)
	case "enter", " ":
		m.activate()
	case "r":
		m.game.Reset()
		m.setMessage("board reset", false)
		m.runAutomated(nil)
	case "u":
		if m.game.Undo() {
			m.setMessage("move undone", false)
			m.runAutomated(nil)
		} else {
			m.setMessage("nothing to undo", true)
		}
	}

	return m, nil
}

func (m *Model) activate() {
	transition, err := m.game.ActivateCell(m.cursor.Row, m.cursor.Col)
	if err != nil {
		m.setMessage(err.Error(), true)
		return
	}

	m.setMessage(describe(transition), false)
	m.runAutomated([]othello.Transition{transition})
}

// runAutomated plays the automated side and describes what happened, after
// the transitions that were already played.
func (m *Model) runAutomated(played []othello.Transition) {
	automated, err := m.game.RunAutomated()
	if err != nil {
		m.setMessage(err.Error(), true)
		return
	}

	if len(automated) == 0 {
		return
	}

	lines := make([]string, 0, len(played)+len(automated))
	for _, transition := range append(played, automated...) {
		lines = append(lines, describe(transition))
	}
	m.setMessage(strings.Join(lines, "\n"), false)
}

func (m *Model) setMessage(message string, isError bool) {
	m.message = message
	m.isError = isError
}

// describe returns a one line summary of a transition, including a pass.
func describe(transition othello.Transition) string {
	summary := fmt.Sprintf("%s played %s, flipping %d", transition.Player, transition.Move, len(transition.Flipped))

	if transition.Passed != othello.NoPlayer {
		summary += fmt.Sprintf("; %s has no legal move and passes", transition.Passed)
	}

	return summary
}

func (m Model) View() string {
	var sb strings.Builder

	state := m.game.State()
	board := state.Board()
	size := board.Size()

	legal := make(map[othello.Move]bool)
	if !m.game.IsAutomated(state.Turn()) {
		for _, move := range state.LegalMoves() {
			legal[move] = true
		}
	}

	sb.WriteString(m.styles.Title.Render("reversi"))
	sb.WriteString("\n\n   ")

	for col := range size {
		sb.WriteString(fmt.Sprintf(" %c", 'a'+col))
	}
	sb.WriteString("\n")

	for row := range size {
		sb.WriteString(fmt.Sprintf("%2d ", row+1))

		for col := range size {
			move := othello.Move{Row: row, Col: col}
			cell := m.renderCell(board.At(move), legal[move])

			if move == m.cursor {
				cell = m.styles.Cursor.Render(cell)
			}

			sb.WriteString(" " + cell)
		}
		sb.WriteString("\n")
	}

	counts := state.Counts()
	sb.WriteString("\n")
	sb.WriteString(m.styles.Status.Render(m.status(state, counts)))
	sb.WriteString("\n")

	if m.message != "" {
		style := m.styles.Status
		if m.isError {
			style = m.styles.Error
		}
		sb.WriteString(style.Render(m.message))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Help.Render("arrows/hjkl: move  enter: place  u: undo  r: reset  q: quit"))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderCell(cell othello.Cell, legal bool) string {
	switch {
	case cell == othello.BlackDisc:
		return m.styles.Black.Render(string(cell.Rune()))
	case cell == othello.WhiteDisc:
		return m.styles.White.Render(string(cell.Rune()))
	case legal:
		return m.styles.Legal.Render("*")
	default:
		return m.styles.Empty.Render(string(cell.Rune()))
	}
}

func (m Model) status(state othello.State, counts othello.Counts) string {
	score := fmt.Sprintf("black %d, white %d", counts.Black, counts.White)

	if outcome, ok := m.game.Outcome(); ok {
		return fmt.Sprintf("game over: %s", outcome)
	}

	turn := state.Turn()
	if m.game.IsAutomated(turn) {
		return fmt.Sprintf("%s (automated) to move | %s", turn, score)
	}

	return fmt.Sprintf("%s to move | %s", turn, score)
}
