// Package tui renders a bit grid in the terminal with bubbletea and routes
// mouse and keyboard input to the grid widget.
package tui

import (
	"fmt"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/bitgrid/internal/logger"
	"github.com/mark3labs/bitgrid/internal/selection"
	"github.com/mark3labs/bitgrid/internal/state"
	"github.com/mark3labs/bitgrid/internal/tui/theme"
	"github.com/mark3labs/bitgrid/internal/widget"
)

// App is the bubbletea model hosting one grid widget.
type App struct {
	widget  *widget.Widget
	surface *GridSurface
	bus     *InputBus
	keys    KeyMap
	help    help.Model
	status  *StatusBar
	toast   *Toast

	stateDir string // UI preferences; "" disables persistence

	layout   Layout
	width    int
	height   int
	quitting bool
}

// NewApp creates the application and its widget. The widget mounts on the
// first window size message.
func NewApp(opts widget.Options) *App {
	surface := NewGridSurface()
	h := help.New()
	h.ShowAll = false

	a := &App{
		widget:  widget.New(surface, opts),
		surface: surface,
		bus:     NewInputBus(),
		keys:    DefaultKeyMap(),
		help:    h,
		status:  NewStatusBar(),
		toast:   NewToast(),
	}
	a.refreshStatus()
	return a
}

// Widget returns the hosted widget. Only use it from the Update loop.
func (a *App) Widget() *widget.Widget {
	return a.widget
}

// SetStateDir loads UI preferences from dir and saves later changes there.
func (a *App) SetStateDir(dir string) {
	a.stateDir = dir
	if dir == "" {
		return
	}
	a.help.ShowAll = state.Load(dir).Help.Expanded
	if a.width > 0 {
		a.relayout()
	}
}

// saveUIState persists the current UI state to disk.
func (a *App) saveUIState() {
	if a.stateDir == "" {
		return
	}
	s := &state.UIState{Help: state.HelpState{Expanded: a.help.ShowAll}}
	if err := state.Save(a.stateDir, s); err != nil {
		logger.Warn("failed to save UI state: %v", err)
	}
}

// Init initializes the application and returns any initial commands.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.relayout()

	case tea.KeyPressMsg:
		return a.handleKeyPress(msg)

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, TouchMsg:
		if ev, ok := TranslateMsg(msg); ok {
			a.bus.Publish(ev)
		}

	case ExecMsg:
		if msg.Fn != nil && msg.claim() {
			msg.Fn(a.widget)
		}
		if msg.Done != nil {
			close(msg.Done)
		}

	case ConfigReloadedMsg:
		res := a.widget.Update(msg.Options)
		logger.Info("Config reloaded (rebuilt=%t)", res.Rebuilt)
		text := "config reloaded"
		if res.DimensionsChanged {
			text = fmt.Sprintf("config reloaded: %dx%d", a.widget.Rows(), a.widget.Cols())
		}
		cmd = a.toast.Show(text)

	case ConnectionStatusMsg:
		a.status.SetConnectionStatus(msg.Connected)

	case ShowToastMsg, ToastDismissMsg:
		cmd = a.toast.Update(msg)
	}

	a.refreshStatus()
	return a, cmd
}

// handleKeyPress forwards the key to the widget, which cancels a drag on
// esc, then applies the app bindings.
func (a *App) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if ev, ok := TranslateMsg(msg); ok {
		a.bus.Publish(ev)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		a.widget.Close()
		return a, tea.Quit
	case key.Matches(msg, a.keys.Fill):
		a.widget.Fill(true, false)
	case key.Matches(msg, a.keys.Clear):
		a.widget.Fill(false, false)
	case key.Matches(msg, a.keys.Reset):
		a.widget.Reset()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.saveUIState()
		a.relayout()
	}

	a.refreshStatus()
	return a, nil
}

// relayout recomputes regions, places the surface and mounts the widget
// once the surface has room.
func (a *App) relayout() {
	a.help.SetWidth(a.width)
	helpHeight := lipgloss.Height(a.help.View(a.keys))
	a.layout = CalculateLayout(a.width, a.height, helpHeight)
	a.status.SetSize(a.layout.Status.Dx(), a.layout.Status.Dy())
	a.status.SetLayoutMode(a.layout.Mode)

	a.surface.SetArea(gridContentArea(a.layout.Grid))
	if !a.widget.Mounted() && a.widget.Mount(a.bus) {
		logger.Debug("Grid mounted at %dx%d", a.width, a.height)
	}
}

// gridContentArea is the part of the grid panel below its title row.
func gridContentArea(panel uv.Rectangle) uv.Rectangle {
	if panel.Dy() < 1 {
		return panel
	}
	return uv.Rectangle{Min: uv.Position{X: panel.Min.X, Y: panel.Min.Y + 1}, Max: panel.Max}
}

func (a *App) refreshStatus() {
	info := GridInfo{
		Name:   a.widget.Name(),
		Rows:   a.widget.Rows(),
		Cols:   a.widget.Cols(),
		Active: a.widget.Count(),
		Phase:  a.widget.DragState().Phase,
	}
	if info.Phase == selection.Dragging {
		if b, ok := a.widget.Selection(); ok {
			info.Selection = b.Area()
		}
	}
	a.status.SetInfo(info)
}

// View renders the current view with alt screen and cell-motion mouse
// reporting, so drags deliver motion events while a button is held.
func (a *App) View() tea.View {
	if a.quitting {
		return tea.NewView("")
	}

	canvas := uv.NewScreenBuffer(a.width, a.height)
	a.Draw(canvas, canvas.Bounds())

	view := tea.NewView(canvas.Render())
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion
	view.BackgroundColor = theme.HexToColor(theme.Current().BgBase)
	return view
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	title := a.widget.Name()
	if title == "" {
		title = "grid"
	}
	inner := DrawPanel(scr, a.layout.Grid, title)
	a.surface.Draw(scr, inner)

	if a.layout.Help.Dy() > 0 {
		DrawText(scr, a.layout.Help, a.help.View(a.keys))
	}
	a.status.Draw(scr, a.layout.Status)

	// Draw toast last so it appears on top of everything
	a.toast.Draw(scr, area)
	return nil
}
