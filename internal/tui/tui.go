// Package tui is a terminal checkbox picker over the titles of a loaded library.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/clippings/internal/services"
)

// chromeLines is the header and status bar height around the list.
const chromeLines = 4

type model struct {
	state     *services.AppState
	titles    []string
	counts    []int
	cursor    int
	offset    int
	height    int
	confirmed bool
	quitting  bool
}

func newModel(state *services.AppState) model {
	titles := state.Titles()
	counts := make([]int, len(titles))
	for i, title := range titles {
		counts[i] = len(state.Library.Records(title))
	}
	return model{state: state, titles: titles, counts: counts}
}

// Run shows the picker and blocks until the user confirms or quits. The
// selection of state is updated in place; the result reports whether the
// user confirmed with enter.
func Run(state *services.AppState) (bool, error) {
	if len(state.Titles()) == 0 {
		return false, fmt.Errorf("tui: no titles to pick from")
	}

	p := tea.NewProgram(newModel(state), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("tui: %w", err)
	}
	return finalModel.(model).confirmed, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.adjustScroll()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			m.confirmed = true
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.titles)-1 {
				m.cursor++
				m.adjustScroll()
			}

		case key.Matches(msg, keys.Toggle):
			if m.cursor < len(m.titles) {
				m.state.Toggle(m.titles[m.cursor])
			}

		case key.Matches(msg, keys.All):
			if len(m.state.SelectedTitles()) == len(m.titles) {
				m.state.ClearSelection()
			} else {
				m.state.SelectAll()
			}
		}
	}
	return m, nil
}

// visibleItems is how many titles fit on screen; 0 height shows all.
func (m model) visibleItems() int {
	if m.height <= chromeLines {
		return len(m.titles)
	}
	return m.height - chromeLines
}

func (m *model) adjustScroll() {
	visible := m.visibleItems()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	selected := len(m.state.SelectedTitles())
	b.WriteString(styleTitle.Render(fmt.Sprintf("Select titles to export (%d of %d selected)", selected, len(m.titles))))
	b.WriteString("\n\n")

	end := m.offset + m.visibleItems()
	if end > len(m.titles) {
		end = len(m.titles)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderItem(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleStatusBar.Render(helpLine()))
	return b.String()
}

func (m model) renderItem(i int) string {
	title := m.titles[i]

	box := "[ ]"
	if m.state.IsSelected(title) {
		box = styleChecked.Render("[x]")
	}

	pointer := "  "
	label := styleListNormal.Render(title)
	if i == m.cursor {
		pointer = styleCursor.Render("> ")
		label = styleCursor.Render(title)
	}

	return pointer + box + " " + label + " " + styleCount.Render(fmt.Sprintf("(%d)", m.counts[i]))
}
