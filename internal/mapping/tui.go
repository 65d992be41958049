package mapping

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UI States
type state int

const (
	stateSelectHeader state = iota
	stateSelectField
	stateConfirm
)

// UIConfig represents UI configuration settings
type UIConfig struct {
	ColumnsPerRow int
	RowsPerPage   int
}

// model represents the TUI model
type model struct {
	headers  []string
	fields   []string
	mappings map[string]string // header -> field
	ignored  map[string]bool   // header -> ignored

	state         state
	currentHeader string

	// Grid navigation for source headers
	page         int
	row          int
	col          int
	colsPerRow   int
	rowsPerPage  int
	itemsPerPage int

	// Field selection
	fieldCursor int

	// Screen dimensions
	width  int
	height int

	// Styling
	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	progressStyle lipgloss.Style
	mappedStyle   lipgloss.Style
	ignoredStyle  lipgloss.Style
}

func initialModel(headers []string, uiConfig UIConfig) model {
	return model{
		headers:      headers,
		fields:       Fields(),
		mappings:     make(map[string]string),
		ignored:      make(map[string]bool),
		state:        stateSelectHeader,
		colsPerRow:   uiConfig.ColumnsPerRow,
		rowsPerPage:  uiConfig.RowsPerPage,
		itemsPerPage: uiConfig.ColumnsPerRow * uiConfig.RowsPerPage,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Align(lipgloss.Center),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		progressStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		mappedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Padding(0, 1),
		ignoredStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true).
			Padding(0, 1),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch m.state {
		case stateSelectHeader:
			return m.updateSelectHeader(msg)
		case stateSelectField:
			return m.updateSelectField(msg)
		case stateConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateSelectHeader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.row > 0 {
			m.row--
		}

	case "down", "j":
		if m.row < m.maxRowForCurrentPage() {
			m.row++
		}

	case "left", "h":
		if m.col > 0 {
			m.col--
		} else if m.page > 0 {
			m.page--
			m.col = m.colsPerRow - 1
			if m.currentIndex() >= len(m.headers) {
				m.moveToLastValidPosition()
			}
		}

	case "right", "l":
		if m.col < m.maxColForCurrentRow() {
			m.col++
		} else if m.hasNextPage() {
			m.page++
			m.col = 0
			m.row = 0
		}

	case "enter":
		if idx := m.currentIndex(); idx < len(m.headers) {
			m.currentHeader = m.headers[idx]
			m.state = stateSelectField
			m.fieldCursor = 0
		}

	case "i":
		// Toggle ignore for current header
		if idx := m.currentIndex(); idx < len(m.headers) {
			header := m.headers[idx]
			if m.ignored[header] {
				delete(m.ignored, header)
			} else {
				m.ignored[header] = true
				delete(m.mappings, header)
			}
		}

	case "n":
		m.moveToNextUnmapped()

	case "s":
		m.state = stateConfirm
	}
	return m, nil
}

func (m model) updateSelectField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectHeader
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(m.fields)-1 {
			m.fieldCursor++
		}
	case "enter":
		field := m.fields[m.fieldCursor]

		// A field maps to exactly one header; unbind a previous one.
		for header, f := range m.mappings {
			if f == field {
				delete(m.mappings, header)
			}
		}
		m.mappings[m.currentHeader] = field
		delete(m.ignored, m.currentHeader)

		m.state = stateSelectHeader
		m.moveToNextUnmapped()
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "n":
		return m, tea.Quit
	case "y":
		return m, tea.Quit
	case "esc":
		m.state = stateSelectHeader
	}
	return m, nil
}

// Helper functions
func (m model) currentIndex() int {
	return m.page*m.itemsPerPage + m.row*m.colsPerRow + m.col
}

func (m model) maxRowForCurrentPage() int {
	remaining := len(m.headers) - m.page*m.itemsPerPage
	if remaining <= 0 {
		return 0
	}
	rowsNeeded := int(math.Ceil(float64(remaining) / float64(m.colsPerRow)))
	if rowsNeeded > m.rowsPerPage {
		return m.rowsPerPage - 1
	}
	return rowsNeeded - 1
}

func (m model) maxColForCurrentRow() int {
	startOfRow := m.page*m.itemsPerPage + m.row*m.colsPerRow
	endOfRow := startOfRow + m.colsPerRow
	if endOfRow > len(m.headers) {
		endOfRow = len(m.headers)
	}
	return (endOfRow - startOfRow) - 1
}

func (m model) hasNextPage() bool {
	return (m.page+1)*m.itemsPerPage < len(m.headers)
}

func (m *model) moveToLastValidPosition() {
	if len(m.headers) == 0 {
		return
	}
	lastIdx := len(m.headers) - 1
	m.page = lastIdx / m.itemsPerPage
	remainder := lastIdx % m.itemsPerPage
	m.row = remainder / m.colsPerRow
	m.col = remainder % m.colsPerRow
}

func (m *model) moveToNextUnmapped() {
	if m.itemsPerPage == 0 || m.colsPerRow == 0 {
		return
	}

	moveTo := func(i int) {
		m.page = i / m.itemsPerPage
		remainder := i % m.itemsPerPage
		m.row = remainder / m.colsPerRow
		m.col = remainder % m.colsPerRow
	}

	currentIdx := m.currentIndex()
	for i := currentIdx + 1; i < len(m.headers); i++ {
		header := m.headers[i]
		if _, mapped := m.mappings[header]; !mapped && !m.ignored[header] {
			moveTo(i)
			return
		}
	}
	for i := 0; i < currentIdx; i++ {
		header := m.headers[i]
		if _, mapped := m.mappings[header]; !mapped && !m.ignored[header] {
			moveTo(i)
			return
		}
	}
	// All headers are mapped or ignored, stay put.
}

func (m model) View() string {
	switch m.state {
	case stateSelectHeader:
		return m.viewSelectHeader()
	case stateSelectField:
		return m.viewSelectField()
	case stateConfirm:
		return m.viewConfirm()
	}
	return ""
}

func (m model) viewSelectHeader() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Width(m.width).Render("Source Column Mapping"))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Progress: %d/%d mapped (%d ignored)",
		len(m.mappings), len(m.headers), len(m.ignored))
	b.WriteString(m.progressStyle.Render(progress))
	b.WriteString("\n\n")

	totalPages := int(math.Ceil(float64(len(m.headers)) / float64(m.itemsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	b.WriteString(m.helpStyle.Render(fmt.Sprintf("Page %d/%d", m.page+1, totalPages)))
	b.WriteString("\n\n")

	columnWidth := (m.width - 4) / m.colsPerRow
	if columnWidth < 10 {
		columnWidth = 10
	}

	for row := 0; row < m.rowsPerPage; row++ {
		var rowItems []string
		for col := 0; col < m.colsPerRow; col++ {
			idx := m.page*m.itemsPerPage + row*m.colsPerRow + col
			if idx >= len(m.headers) {
				break
			}

			header := m.headers[idx]
			var style lipgloss.Style
			var displayText string

			if field, mapped := m.mappings[header]; mapped {
				displayText = fmt.Sprintf("%s → %s", header, field)
				style = m.mappedStyle
			} else if m.ignored[header] {
				displayText = fmt.Sprintf("%s (ignored)", header)
				style = m.ignoredStyle
			} else {
				displayText = header
				style = m.normalStyle
			}

			if row == m.row && col == m.col {
				style = m.selectedStyle
			}

			if len(displayText) > columnWidth-2 {
				displayText = displayText[:columnWidth-5] + "..."
			}
			displayText = fmt.Sprintf("%-*s", columnWidth-2, displayText)

			rowItems = append(rowItems, style.Render(displayText))
		}

		if len(rowItems) > 0 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rowItems...))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	help := "↑↓←→: navigate | Enter: select | i: ignore | n: next unmapped | s: save | q: quit"
	b.WriteString(m.helpStyle.Render(help))

	return b.String()
}

func (m model) viewSelectField() string {
	var b strings.Builder

	title := fmt.Sprintf("Map '%s' to order field:", m.currentHeader)
	b.WriteString(m.titleStyle.Render(title))
	b.WriteString("\n\n")

	for i, field := range m.fields {
		if i == m.fieldCursor {
			b.WriteString(m.selectedStyle.Render("> " + field))
		} else {
			b.WriteString(m.normalStyle.Render("  " + field))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | Enter: select | Esc: back | q: quit"))

	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Save Mapping Configuration?"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Total headers: %d\n", len(m.headers)))
	b.WriteString(fmt.Sprintf("Mapped: %d\n", len(m.mappings)))
	b.WriteString(fmt.Sprintf("Ignored: %d\n", len(m.ignored)))
	b.WriteString(fmt.Sprintf("Unmapped: %d\n", len(m.headers)-len(m.mappings)-len(m.ignored)))
	b.WriteString("\n")

	b.WriteString(m.helpStyle.Render("y/n to confirm, Esc to go back"))

	return b.String()
}

// RunMappingTUI starts the interactive mapping interface for the given
// source headers, seeded with any existing or suggested mappings, and
// saves the result to outputMappingFile when the user confirms.
func RunMappingTUI(headers []string, seed *Config, outputMappingFile string, uiConfig UIConfig) error {
	if len(headers) == 0 {
		return fmt.Errorf("no source headers to map")
	}

	m := initialModel(headers, uiConfig)

	if seed != nil {
		for _, cm := range seed.Mappings {
			if cm.IsIgnored {
				m.ignored[cm.SourceColumn] = true
			} else if cm.Field != "" {
				m.mappings[cm.SourceColumn] = cm.Field
			}
		}
		m.moveToNextUnmapped()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %v", err)
	}

	final := finalModel.(model)

	// Only persist when the user reached the confirm screen.
	if final.state != stateConfirm {
		return nil
	}

	config := &Config{}
	for header, field := range final.mappings {
		config.Mappings = append(config.Mappings, ColumnMapping{
			SourceColumn: header,
			Field:        field,
		})
	}
	for header := range final.ignored {
		config.Mappings = append(config.Mappings, ColumnMapping{
			SourceColumn: header,
			IsIgnored:    true,
		})
	}

	if err := config.SaveToFile(outputMappingFile); err != nil {
		return fmt.Errorf("failed to save mapping configuration: %v", err)
	}

	fmt.Printf("✓ Mapping configuration saved to: %s\n", outputMappingFile)
	fmt.Printf("✓ Mapped %d columns, ignored %d columns\n", len(final.mappings), len(final.ignored))

	return nil
}
