package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AaronLge/GeometrieConverter/pkg/storage"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// listDimStyle mutes secondary picker text.
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// StructureListModel - Interactive structure selection
// =============================================================================

// StructureListModel is the bubbletea model for picking one stored structure
// of a given kind.
type StructureListModel struct {
	Kind     storage.Kind
	Entries  []storage.Entry
	Cursor   int
	Selected *storage.Entry
	Height   int
	Offset   int
}

// NewStructureListModel creates a picker over the stored entries of one kind.
func NewStructureListModel(kind storage.Kind, entries []storage.Entry) StructureListModel {
	return StructureListModel{
		Kind:    kind,
		Entries: entries,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m StructureListModel) Init() tea.Cmd {
	return nil
}

func (m StructureListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = &m.Entries[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m StructureListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Select %s Structure", m.Kind)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, entryRow(m.Entries[i])...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Identifier", "Sections", "Masses", "Reference", "Depth", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 5 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// pickStructure lists the stored entries of one kind, runs the interactive
// picker and loads the chosen entry as a full bundle.
func (c *CLI) pickStructure(ctx context.Context, store storage.Store, kind storage.Kind) (structure.Bundle, error) {
	entries, err := store.List(ctx, kind)
	if err != nil {
		return structure.Bundle{}, err
	}
	if len(entries) == 0 {
		return structure.Bundle{}, fmt.Errorf("no %s structures in the database", kind)
	}

	p := tea.NewProgram(NewStructureListModel(kind, entries))
	finalModel, err := p.Run()
	if err != nil {
		return structure.Bundle{}, fmt.Errorf("run picker: %w", err)
	}

	m, ok := finalModel.(StructureListModel)
	if !ok || m.Selected == nil {
		return structure.Bundle{}, fmt.Errorf("no %s structure selected", kind)
	}
	return store.Get(ctx, kind, m.Selected.Identifier)
}

// =============================================================================
// Helpers
// =============================================================================

// entryRow renders one database entry as table cells.
func entryRow(e storage.Entry) []string {
	return []string{
		e.Identifier,
		strconv.Itoa(e.Sections),
		strconv.Itoa(e.Masses),
		orDash(e.HeightReference),
		formatDepth(e.WaterDepth),
		formatRelativeTime(e.UpdatedAt),
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func formatDepth(d *float64) string {
	if d == nil {
		return "—"
	}
	return strconv.FormatFloat(*d, 'g', -1, 64) + " m"
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
