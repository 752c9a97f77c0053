// Package ui implements the interactive prompt composer: a template
// textarea, one input per placeholder, and a run/save/load workflow against
// the completion endpoint and the template store.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/promptpad/promptpad/internal/clipboard"
	"github.com/promptpad/promptpad/internal/completion"
	"github.com/promptpad/promptpad/internal/editor"
	"github.com/promptpad/promptpad/internal/errors"
	"github.com/promptpad/promptpad/internal/models"
	"github.com/promptpad/promptpad/internal/service"
	"github.com/promptpad/promptpad/internal/template"
)

// createGlamourRenderer creates a glamour renderer with contrast handling
func createGlamourRenderer(wordWrap int) (*glamour.TermRenderer, error) {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wordWrap),
		)
	}

	profile := termenv.ColorProfile()

	var styleOption glamour.TermRendererOption
	if lipgloss.HasDarkBackground() {
		styleOption = glamour.WithStandardStyle("dark")
	} else {
		styleOption = glamour.WithStandardStyle("light")
	}
	if profile == termenv.Ascii {
		styleOption = glamour.WithAutoStyle()
	}

	return glamour.NewTermRenderer(
		styleOption,
		glamour.WithColorProfile(profile),
		glamour.WithWordWrap(wordWrap),
	)
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewEditor ViewMode = iota
	ViewBrowser
)

// Messages for async operations

type completionMsg struct {
	result *models.CompletionResult
	err    error
}

type templatesLoadedMsg struct {
	templates []*models.SavedTemplate
	err       error
}

type statusExpiredMsg struct{}

// runCompletionCmd dispatches the single network call of a run. The session
// itself is only touched on the event loop, before and after.
func runCompletionCmd(client completion.Client, text, model string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Complete(context.Background(), completion.Request{
			Text:  text,
			Model: model,
		})
		return completionMsg{result: result, err: err}
	}
}

// loadTemplatesCmd fetches the saved templates for the browser
func loadTemplatesCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		templates, err := svc.ListTemplates()
		return templatesLoadedMsg{templates: templates, err: err}
	}
}

func expireStatusCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}

// KeyMap defines all key bindings
type KeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Run       key.Binding
	Save      key.Binding
	Browse    key.Binding
	Export    key.Binding
	Copy      key.Binding
	Back      key.Binding
	Quit      key.Binding
	Help      key.Binding
}

// ShortHelp satisfies the help.KeyMap interface
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Save, k.Browse, k.Help, k.Quit}
}

// FullHelp satisfies the help.KeyMap interface
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField},
		{k.Run, k.Save, k.Browse},
		{k.Export, k.Copy},
		{k.Back, k.Quit},
	}
}

// DefaultKeyMap returns the standard key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Run: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "run"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save template"),
		),
		Browse: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "browse saved"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "export session"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy prompt"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "help"),
		),
	}
}

// Model represents the TUI application state
type Model struct {
	service *service.Service
	session *editor.Session

	viewMode ViewMode

	// UI components
	form         *EditorForm
	browser      list.Model
	viewport     viewport.Model
	spin         spinner.Model
	nameInput    textinput.Model
	help         help.Model
	keys         KeyMap
	errorHandler *errors.TUIErrorHandler

	// Save modal state
	saving bool

	// Rendered response
	renderedResponse string
	glamourRenderer  *glamour.TermRenderer

	// Window dimensions
	width  int
	height int

	// Status message
	statusMsg string

	showHelp bool
}

// NewModel creates the TUI model around a service and its session
func NewModel(svc *service.Service) *Model {
	initializeStyles()

	session := svc.NewSession()

	delegate := list.NewDefaultDelegate()
	browser := list.New([]list.Item{}, delegate, 0, 0)
	browser.Title = "Saved Templates"
	browser.SetShowStatusBar(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	nameInput := textinput.New()
	nameInput.Placeholder = "template name"
	nameInput.CharLimit = 100
	nameInput.Width = 40

	renderer, err := createGlamourRenderer(80)
	if err != nil {
		renderer = nil // Fall back to plain text rendering
	}

	return &Model{
		service:         svc,
		session:         session,
		viewMode:        ViewEditor,
		form:            NewEditorForm(session),
		browser:         browser,
		viewport:        viewport.New(80, 12),
		spin:            sp,
		nameInput:       nameInput,
		help:            help.New(),
		keys:            DefaultKeyMap(),
		errorHandler:    errors.NewTUIErrorHandler(os.Getenv("DEBUG") == "true"),
		glamourRenderer: renderer,
	}
}

// Init satisfies the tea.Model interface
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update satisfies the tea.Model interface
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetWidth(msg.Width - 4)
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(6, msg.Height/3)
		m.browser.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case completionMsg:
		m.session.FinishRun(msg.result, msg.err)
		if msg.err != nil {
			m.renderedResponse = ""
		} else {
			m.renderResponse()
		}
		return m, nil

	case templatesLoadedMsg:
		if msg.err != nil {
			m.setStatus(m.errorHandler.FormatError(msg.err))
			return m, expireStatusCmd()
		}
		items := make([]list.Item, len(msg.templates))
		for i, t := range msg.templates {
			items[i] = *t
		}
		m.browser.SetItems(items)
		return m, nil

	case statusExpiredMsg:
		m.statusMsg = ""
		return m, nil

	case spinner.TickMsg:
		if m.session.InFlight() {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

		switch m.viewMode {
		case ViewBrowser:
			return m.updateBrowser(msg)
		default:
			return m.updateEditor(msg)
		}
	}

	return m, nil
}

// updateEditor handles key events in the composer view
func (m *Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The save modal captures all input while open
	if m.saving {
		return m.updateSaveModal(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.form.FocusNext()
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.form.FocusPrev()
		return m, nil

	case key.Matches(msg, m.keys.Run):
		return m.startRun()

	case key.Matches(msg, m.keys.Save):
		m.saving = true
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Browse):
		m.viewMode = ViewBrowser
		return m, loadTemplatesCmd(m.service)

	case key.Matches(msg, m.keys.Export):
		return m.exportSession()

	case key.Matches(msg, m.keys.Copy):
		statusMsg, err := clipboard.CopyWithFallback(m.session.Merged())
		if err != nil {
			m.setStatus(err.Error())
		} else {
			m.setStatus(statusMsg)
		}
		return m, expireStatusCmd()
	}

	return m, m.form.Update(msg)
}

// startRun begins a completion run unless one is already in flight
func (m *Model) startRun() (tea.Model, tea.Cmd) {
	if err := m.session.BeginRun(); err != nil {
		m.setStatus("A run is already in flight")
		return m, expireStatusCmd()
	}

	return m, tea.Batch(
		m.spin.Tick,
		runCompletionCmd(m.service.Client(), m.session.Merged(), m.session.Model()),
	)
}

// exportSession writes the session export next to the working directory
func (m *Model) exportSession() (tea.Model, tea.Cmd) {
	path := fmt.Sprintf("promptpad-session-%s.json", time.Now().Format("20060102-150405"))
	if err := m.service.ExportSession(m.session, path); err != nil {
		m.setStatus(m.errorHandler.FormatError(err))
	} else {
		m.setStatus("Session exported to " + path)
	}
	return m, expireStatusCmd()
}

// updateSaveModal handles the name prompt for saving a template
func (m *Model) updateSaveModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		saved, err := m.service.SaveSession(m.session, m.nameInput.Value())
		m.saving = false
		if err != nil {
			// Persistence failures never abort the editing session
			m.setStatus(m.errorHandler.FormatError(err))
		} else {
			m.setStatus(fmt.Sprintf("Saved %q (%s)", saved.Name, saved.ID))
		}
		return m, expireStatusCmd()

	case "esc":
		m.saving = false
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// updateBrowser handles key events in the saved-template browser
func (m *Model) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.browser.FilterState() == list.Filtering {
			break
		}
		m.viewMode = ViewEditor
		return m, nil

	case "enter":
		if item, ok := m.browser.SelectedItem().(models.SavedTemplate); ok {
			m.session.ApplySaved(&item)
			m.form.SyncFromSession()
			m.viewMode = ViewEditor
			m.setStatus(fmt.Sprintf("Loaded %q", item.Title()))
			return m, expireStatusCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.browser, cmd = m.browser.Update(msg)
	return m, cmd
}

// renderResponse renders the latest completion through glamour
func (m *Model) renderResponse() {
	result := m.session.LastResult()
	if result == nil {
		m.renderedResponse = ""
		return
	}

	content := result.FirstContent()
	if m.glamourRenderer != nil {
		if rendered, err := m.glamourRenderer.Render(content); err == nil {
			content = rendered
		}
	}

	m.renderedResponse = content
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
}

// View satisfies the tea.Model interface
func (m *Model) View() string {
	if m.viewMode == ViewBrowser {
		return m.browser.View()
	}
	return m.editorView()
}

func (m *Model) editorView() string {
	var sections []string

	sections = append(sections, titleStyle.Render("promptpad"))

	templateLabel := sectionStyle.Render("Template")
	if m.form.TemplateFocused() {
		templateLabel = sectionStyle.Foreground(ColorAccent).Render("Template")
	}
	sections = append(sections, templateLabel)
	sections = append(sections, m.form.textarea.View())

	if len(m.form.varNames) > 0 {
		sections = append(sections, sectionStyle.Render("Variables"))
		for i, name := range m.form.varNames {
			label := labelStyle.Render("{" + name + "}")
			if m.form.focused == 1+i {
				label = focusedStyle.Render("{" + name + "}")
			}
			sections = append(sections, fmt.Sprintf("  %s %s", label, m.form.varInputs[i].View()))
		}
	}

	modelLabel := labelStyle.Render("Model")
	if m.form.focused == m.form.modelFieldIndex() {
		modelLabel = focusedStyle.Render("Model")
	}
	sections = append(sections, fmt.Sprintf("%s %s", modelLabel, m.form.modelIn.View()))

	if unfilled := template.UnfilledNames(m.session.Text(), m.session.Values()); len(unfilled) > 0 {
		sections = append(sections, labelStyle.Render("Unfilled: "+strings.Join(unfilled, ", ")))
	}

	// Response and error areas are mutually exclusive
	switch {
	case m.session.InFlight():
		sections = append(sections, fmt.Sprintf("%s Running...", m.spin.View()))
	case m.session.LastErr() != nil:
		icon, color := m.errorHandler.GetErrorStyle(m.session.LastErr())
		severityStyle := errorStyle.Foreground(lipgloss.Color(color))
		sections = append(sections, severityStyle.Render(icon+" "+m.errorHandler.FormatError(m.session.LastErr())))
	case m.renderedResponse != "":
		sections = append(sections, sectionStyle.Render("Response"))
		sections = append(sections, responseStyle.Render(m.viewport.View()))
	}

	if m.saving {
		sections = append(sections, modalStyle.Render("Save template as:\n"+m.nameInput.View()))
	}

	if m.statusMsg != "" {
		sections = append(sections, statusStyle.Render(m.statusMsg))
	}

	if m.showHelp {
		sections = append(sections, helpStyle.Render(m.help.FullHelpView(m.keys.FullHelp())))
	} else {
		sections = append(sections, helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
