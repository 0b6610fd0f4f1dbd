package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/clippings/internal/services"
	"github.com/mrlokans/clippings/internal/testutil"
)

func loadedState(t *testing.T) *services.AppState {
	t.Helper()
	state := services.NewAppState()
	svc := services.NewHighlightsService(nil, "test")
	require.NoError(t, state.Load(svc, testutil.WriteClippings(t, testutil.SampleClippings)))
	return state
}

func press(m model, msgs ...tea.KeyMsg) (model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyAll   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEscape}
)

func TestModel_Toggle(t *testing.T) {
	state := loadedState(t)
	m := newModel(state)

	m, _ = press(m, keyDown, keySpace)
	assert.Equal(t, []string{"Book Two: A Subtitle"}, state.SelectedTitles())

	m, _ = press(m, keyUp, keySpace)
	assert.Equal(t, []string{"Book One", "Book Two: A Subtitle"}, state.SelectedTitles())

	_, _ = press(m, keySpace)
	assert.Equal(t, []string{"Book Two: A Subtitle"}, state.SelectedTitles())
}

func TestModel_CursorBounds(t *testing.T) {
	m := newModel(loadedState(t))

	m, _ = press(m, keyUp)
	assert.Equal(t, 0, m.cursor)

	m, _ = press(m, keyDown, keyDown, keyDown)
	assert.Equal(t, 1, m.cursor)
}

func TestModel_ToggleAll(t *testing.T) {
	state := loadedState(t)
	m := newModel(state)

	m, _ = press(m, keyAll)
	assert.Len(t, state.SelectedTitles(), 2)

	_, _ = press(m, keyAll)
	assert.Empty(t, state.SelectedTitles())
}

func TestModel_ConfirmAndQuit(t *testing.T) {
	t.Run("enter confirms", func(t *testing.T) {
		m, cmd := press(newModel(loadedState(t)), keyEnter)
		assert.True(t, m.confirmed)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})

	t.Run("esc quits without confirming", func(t *testing.T) {
		m, cmd := press(newModel(loadedState(t)), keyEsc)
		assert.False(t, m.confirmed)
		assert.True(t, m.quitting)
		require.NotNil(t, cmd)
		assert.Empty(t, m.View())
	})
}

func TestModel_View(t *testing.T) {
	state := loadedState(t)
	m := newModel(state)
	m, _ = press(m, keySpace)

	view := m.View()
	assert.Contains(t, view, "1 of 2 selected")
	assert.Contains(t, view, "Book One")
	assert.Contains(t, view, "[x]")
	assert.Contains(t, view, "Book Two: A Subtitle")
}

func TestModel_Scroll(t *testing.T) {
	m := newModel(loadedState(t))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: chromeLines + 1})
	m = next.(model)
	assert.Equal(t, 1, m.visibleItems())

	m, _ = press(m, keyDown)
	assert.Equal(t, 1, m.offset)
	assert.NotContains(t, m.View(), "Book One")
}
