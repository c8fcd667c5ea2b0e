// Package main provides the workforce CLI entry point.
// This file implements the interactive chat interface using bubbletea.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"workforce/cmd/workforce/ui"
	"workforce/internal/manager"
	"workforce/internal/roster"
)

// chatModel is the main model for the interactive chat interface.
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	renderer  *glamour.TermRenderer

	// State
	history   []chatMessage
	isLoading bool
	err       error
	width     int
	height    int
	ready     bool

	// Backend
	manager     *manager.Manager
	specialists *roster.Roster
	workspace   string
}

type chatMessage struct {
	role    string // "user" or "assistant"
	content string
	time    time.Time
}

type (
	responseMsg string
	errorMsg    error
)

// initChat wires the backend and builds the initial chat model.
func initChat() (chatModel, error) {
	ws := resolveWorkspace()

	m, specialists, _, err := buildManager(ws)
	if err != nil {
		return chatModel{}, err
	}

	// Hot-reload the roster while the chat is open, if an override file
	// exists.
	if path := roster.DefaultPath(ws); fileExists(path) {
		if watcher, werr := roster.NewWatcher(path, specialists); werr == nil {
			_ = watcher.Start(context.Background())
		}
	}

	ti := textinput.New()
	ti.Placeholder = "Ask me anything... (Enter to send, Ctrl+C to exit)"
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 76

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	styles := ui.DefaultStyles()
	var renderer *glamour.TermRenderer
	if styles.Theme.IsDark {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	} else {
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(80),
		)
	}

	stats := m.Stats()
	greeting := fmt.Sprintf(
		"Welcome! %d specialists are available. The history collection %q holds %d conversations.\n\nType `/help` for commands.",
		specialists.Len(), stats.Collection, stats.Count)

	return chatModel{
		textinput:   ti,
		viewport:    vp,
		spinner:     sp,
		styles:      styles,
		renderer:    renderer,
		manager:     m,
		specialists: specialists,
		workspace:   ws,
		history: []chatMessage{{
			role:    "assistant",
			content: greeting,
			time:    time.Now(),
		}},
	}, nil
}

// runInteractiveChat starts the bubbletea program.
func runInteractiveChat() error {
	model, err := initChat()
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
	)
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}
		m.textinput.Width = msg.Width - 4

		if msg.Width > 8 {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
		}

	case responseMsg:
		m.isLoading = false
		m.history = append(m.history, chatMessage{
			role:    "assistant",
			content: string(msg),
			time:    time.Now(),
		})
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()

	case errorMsg:
		m.isLoading = false
		m.err = msg
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}

	m.history = append(m.history, chatMessage{
		role:    "user",
		content: input,
		time:    time.Now(),
	})
	m.textinput.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	m.isLoading = true

	return m, tea.Batch(
		m.spinner.Tick,
		m.processInput(input),
	)
}

// processInput runs the manager pipeline off the UI goroutine.
func (m chatModel) processInput(input string) tea.Cmd {
	mgr := m.manager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return responseMsg(mgr.Handle(ctx, input))
	}
}

func (m chatModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit", "/q":
		return m, tea.Quit

	case "/help":
		return m.appendAssistant(`## Available Commands

| Command | Description |
|---------|-------------|
| /help | Show this help message |
| /agents | List available specialists |
| /search <query> | Find similar past conversations |
| /history | Show recent conversations |
| /stats | Show history collection statistics |
| /clear | Delete all stored conversations |
| /quit, /exit, /q | Exit the CLI |

## Tips
- **Enter** to send a message
- **Ctrl+C** or **Esc** to exit
- Use **↑/↓** to scroll history
`)

	case "/agents":
		var sb strings.Builder
		sb.WriteString("## Available Specialists\n\n")
		for _, name := range m.specialists.Names() {
			spec, _ := m.specialists.Get(name)
			fmt.Fprintf(&sb, "- **%s**: %s\n", name, spec.Handoff)
		}
		return m.appendAssistant(sb.String())

	case "/search":
		if len(parts) < 2 {
			return m.appendAssistant("Usage: `/search <query>`")
		}
		query := strings.Join(parts[1:], " ")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		matches, err := m.manager.Search(ctx, query, 5)
		if err != nil {
			return m.appendAssistant(fmt.Sprintf("Search failed: %v", err))
		}
		if len(matches) == 0 {
			return m.appendAssistant("No similar conversations found.")
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Found %d similar conversations:\n\n", len(matches))
		for i, match := range matches {
			fmt.Fprintf(&sb, "**%d. Similarity: %.3f**\n", i+1, match.Score)
			fmt.Fprintf(&sb, "- User: %s\n", firstChars(match.Record.UserPrompt, 100))
			fmt.Fprintf(&sb, "- Agent: %s\n", match.Record.RouteLabel)
			fmt.Fprintf(&sb, "- Time: %s\n\n", match.Record.Timestamp.Format("2006-01-02 15:04:05"))
		}
		return m.appendAssistant(sb.String())

	case "/history":
		records := m.manager.Recent(10)
		if len(records) == 0 {
			return m.appendAssistant("No conversations stored yet.")
		}
		var sb strings.Builder
		sb.WriteString("## Recent Conversations\n\n")
		for i, rec := range records {
			fmt.Fprintf(&sb, "**%d. %s**\n", i+1, rec.Timestamp.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(&sb, "- User: %s\n", firstChars(rec.UserPrompt, 80))
			fmt.Fprintf(&sb, "- Agent: %s\n\n", rec.RouteLabel)
		}
		return m.appendAssistant(sb.String())

	case "/stats":
		stats := m.manager.Stats()
		return m.appendAssistant(fmt.Sprintf(`## History Statistics

- **Collection**: %s
- **Location**: %s
- **Records**: %d
- **Dimension**: %d
- **Specialists**: %d
`, stats.Collection, stats.Location, stats.Count, stats.Dimension, m.specialists.Len()))

	case "/clear":
		if err := m.manager.ClearHistory(); err != nil {
			return m.appendAssistant(fmt.Sprintf("Clear failed: %v", err))
		}
		return m.appendAssistant("✅ History cleared.")

	default:
		return m.appendAssistant(fmt.Sprintf("Unknown command: `%s`. Type `/help` for available commands.", cmd))
	}
}

// appendAssistant adds an assistant message and refreshes the viewport.
func (m chatModel) appendAssistant(content string) (tea.Model, tea.Cmd) {
	m.history = append(m.history, chatMessage{
		role:    "assistant",
		content: content,
		time:    time.Now(),
	})
	m.textinput.Reset()
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
	return m, nil
}

func (m chatModel) renderHistory() string {
	var sb strings.Builder

	for _, msg := range m.history {
		if msg.role == "user" {
			userStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Primary).
				MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.content))
			sb.WriteString("\n\n")
		} else {
			assistantStyle := m.styles.Bold.
				Foreground(m.styles.Theme.Accent).
				MarginTop(1)
			sb.WriteString(assistantStyle.Render("🤖 Workforce") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.content))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery.
func (m chatModel) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()

	chatView := m.styles.Content.Render(m.viewport.View())
	if m.isLoading {
		chatView += "\n" + m.styles.Spinner.Render(m.spinner.View()) + " Thinking..."
	}
	if m.err != nil {
		chatView += "\n" + m.styles.Error.Render("Error: "+m.err.Error())
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	footer := m.styles.Muted.Render("Enter: send • /help: commands • Ctrl+C: exit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		inputArea,
		footer,
	)
}

func (m chatModel) renderHeader() string {
	title := m.styles.Header.Render(" 🤖 Workforce ")
	badge := m.styles.Badge.Render(fmt.Sprintf("%d agents", m.specialists.Len()))
	workspace := m.styles.Muted.Render(fmt.Sprintf(" 📁 %s", m.workspace))

	var status string
	if m.isLoading {
		status = m.styles.Warning.Render("● Processing")
	} else {
		status = m.styles.Success.Render("● Ready")
	}

	headerLine := lipgloss.JoinHorizontal(
		lipgloss.Center,
		title,
		" ",
		badge,
		"  ",
		status,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerLine,
		workspace,
		m.styles.RenderDivider(m.width),
	)
}
