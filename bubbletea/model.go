package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/rework"
	"github.com/fwojciec/rework/goldmark"
)

var _ tea.Model = Model{}

// Mode is what the model is waiting for.
type Mode int

const (
	ModeWorking Mode = iota
	ModeInput
	ModeChoose
	ModeConfirm
	ModeDone
)

// Model is the Bubble Tea model that hosts one session.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript. Exported for test access.
	Viewport viewport.Model
	// Spinner animates the status line while a step runs.
	Spinner spinner.Model

	run      RunFunc
	styles   Styles
	renderer *goldmark.Renderer

	blocks   []MessageBlock
	mode     Mode
	pending  *RequestMsg
	progress string

	running   bool
	cancelled bool
	ctx       context.Context
	cancel    context.CancelFunc
	msgCh     chan tea.Msg
	doneCh    chan error
	err       error
	ready     bool
}

// New creates a Model that starts run when the program starts. The run is
// cancelled when ctx is done or the user presses Ctrl+C.
func New(ctx context.Context, run RunFunc, theme rework.Theme) Model {
	styles := NewStyles(theme)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0

	ctx, cancel := context.WithCancel(ctx)
	return Model{
		Input:    ti,
		Spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent)),
		run:      run,
		styles:   styles,
		renderer: goldmark.New(theme),
		running:  true,
		ctx:      ctx,
		cancel:   cancel,
		msgCh:    make(chan tea.Msg, 16),
		doneCh:   make(chan error, 1),
	}
}

// Running returns whether the session is still running.
func (m Model) Running() bool { return m.running }

// Err returns the error the session ended with, if any.
func (m Model) Err() error { return m.err }

// Mode returns what the model is currently waiting for.
func (m Model) Mode() Mode { return m.mode }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		startRun(m.run, m.ctx, m.msgCh, m.doneCh),
		listenForMsg(m.msgCh, m.doneCh),
		m.Spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RequestMsg:
		var cmd tea.Cmd
		m, cmd = m.beginRequest(msg)
		m = m.refresh()
		return m, tea.Batch(cmd, listenForMsg(m.msgCh, m.doneCh))

	case ProgressMsg:
		m.progress = msg.Label
		m.blocks = append(m.blocks, NewNoteBlock(msg.Label, m.styles))
		m = m.refresh()
		return m, listenForMsg(m.msgCh, m.doneCh)

	case ResultMsg:
		m.blocks = append(m.blocks, NewResultBlock(msg.Text, m.styles, m.renderer))
		m = m.refresh()
		return m, listenForMsg(m.msgCh, m.doneCh)

	case DoneMsg:
		m.running = false
		m.mode = ModeDone
		m.pending = nil
		m.Input.Blur()
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.mode == ModeInput {
		b.WriteString(m.Input.View())
	}
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusHeight - borderHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width - len(m.Input.Prompt) - 1
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if !m.running {
			return m, tea.Quit
		}
		m.cancelled = true
		if m.pending != nil {
			m = m.dismiss()
		}
		m.cancel()
		return m, nil
	}

	switch m.mode {
	case ModeInput:
		return m.handleInputKey(msg)
	case ModeChoose:
		return m.handleChooseKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeDone:
		switch msg.String() {
		case "q", "enter", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		if b, ok := m.activeBlock().(*PromptBlock); ok {
			b.SetAnswer(text)
		}
		m = m.answer(Answer{Text: text, OK: true})
		return m.refresh(), nil
	case tea.KeyEsc:
		return m.dismiss().refresh(), nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	// 'j'/'k' are text here, so only non-character keys scroll.
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleChooseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b, ok := m.activeBlock().(*ChoiceBlock)
	if !ok {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEnter:
		return m.pick(b, b.Cursor()), nil
	case tea.KeyEsc:
		return m.dismiss().refresh(), nil
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
			return m.pick(b, int(msg.Runes[0]-'1')), nil
		}
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return m, cmd
	}
	_, cmd := b.Update(msg)
	return m.refresh(), cmd
}

func (m Model) pick(b *ChoiceBlock, i int) Model {
	choice, ok := b.Pick(i)
	if !ok {
		return m
	}
	return m.answer(Answer{Text: choice, OK: true}).refresh()
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.blocks = append(m.blocks, NewNoteBlock("Approved.", m.styles))
		return m.answer(Answer{OK: true}).refresh(), nil
	case "n", "N", "esc":
		m.blocks = append(m.blocks, NewNoteBlock("Discarded.", m.styles))
		return m.answer(Answer{}).refresh(), nil
	}
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m Model) beginRequest(req RequestMsg) (Model, tea.Cmd) {
	m.pending = &req
	switch req.Kind {
	case RequestText:
		m.mode = ModeInput
		m.blocks = append(m.blocks, NewPromptBlock(req.Question, m.styles))
		m.Input.Placeholder = req.Placeholder
		m.Input.SetValue("")
		return m, m.Input.Focus()
	case RequestChoice:
		m.mode = ModeChoose
		m.blocks = append(m.blocks, NewChoiceBlock(req.Question, req.Options, m.styles))
	case RequestConfirm:
		m.mode = ModeConfirm
		m.blocks = append(m.blocks, NewMarkdownBlock(req.Message, m.renderer))
	}
	return m, nil
}

// answer replies to the pending request and returns to working mode.
func (m Model) answer(a Answer) Model {
	if m.pending != nil {
		m.pending.Reply <- a
		m.pending = nil
	}
	m.mode = ModeWorking
	m.Input.Blur()
	m.Input.SetValue("")
	return m
}

// dismiss cancels the pending request.
func (m Model) dismiss() Model {
	switch b := m.activeBlock().(type) {
	case *PromptBlock:
		b.SetCancelled()
	case *ChoiceBlock:
		b.SetCancelled()
	}
	return m.answer(Answer{})
}

func (m Model) activeBlock() MessageBlock {
	if len(m.blocks) == 0 {
		return nil
	}
	return m.blocks[len(m.blocks)-1]
}

func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	switch m.mode {
	case ModeInput:
		return m.styles.Muted.Render("Enter to submit, Esc to cancel")
	case ModeChoose:
		return m.styles.Muted.Render("↑/↓ to move, Enter to select, Esc to cancel")
	case ModeConfirm:
		return m.styles.Muted.Render("y to apply, n to discard")
	case ModeDone:
		if m.cancelled {
			return m.styles.Muted.Render("Cancelled. Press q to quit")
		}
		return m.styles.Muted.Render("Press q to quit")
	}
	label := m.progress
	if label == "" {
		label = "Working..."
	}
	return m.Spinner.View() + " " + m.styles.Muted.Render(label)
}

// startRun runs the session in a goroutine and signals completion.
func startRun(run RunFunc, ctx context.Context, msgCh chan tea.Msg, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := run(ctx, NewBridge(ctx, msgCh))
		close(msgCh)
		doneCh <- err
		return nil
	}
}

// listenForMsg waits for the next message from the session.
// When the channel closes, it reads the error from doneCh and returns DoneMsg.
func listenForMsg(ch <-chan tea.Msg, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return DoneMsg{Err: <-doneCh}
		}
		return msg
	}
}
