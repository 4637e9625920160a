package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Tracker renders live batch progress with Bubble Tea. Every method is a
// no-op on a nil Tracker so callers can wire one unconditionally and only
// construct it when stderr is a terminal.
type Tracker struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	program *tea.Program
	started bool
	done    chan struct{}

	quota int
	total int
}

// New builds a tracker for a batch of total videos that stops after quota
// successes.
func New(quota, total int) *Tracker {
	return &Tracker{quota: quota, total: total}
}

// Start begins rendering in a separate goroutine.
func (t *Tracker) Start(ctx context.Context) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return
	}

	model := newBatchModel(t.quota, t.total)
	program := tea.NewProgram(model,
		tea.WithOutput(os.Stderr),
		tea.WithoutSignalHandler(),
	)

	t.ctx, t.cancel = context.WithCancel(ctx)
	t.program = program
	t.started = true
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)
		_, _ = program.Run()
		if t.cancel != nil {
			t.cancel()
		}
	}()

	go func() {
		<-t.ctx.Done()
		t.send(stopMsg{})
	}()
}

// Stop ends rendering and waits briefly for the program to wind down.
func (t *Tracker) Stop() {
	if t == nil {
		return
	}

	t.mu.Lock()
	program := t.program
	done := t.done
	t.mu.Unlock()

	if program != nil {
		program.Send(stopMsg{})
	}
	if done != nil {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}
}

// Observe records one finished attempt. Its signature matches the
// downloader's OnResult hook.
func (t *Tracker) Observe(index int, url string, err error) {
	if t == nil {
		return
	}
	msg := itemMsg{index: index, label: url}
	if err != nil {
		msg.failure = err.Error()
	}
	t.send(msg)
}

func (t *Tracker) send(msg tea.Msg) {
	if t == nil {
		return
	}
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()
	if program != nil {
		program.Send(msg)
	}
}

type itemMsg struct {
	index   int
	label   string
	failure string
}

type stopMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B0B0B")).
			Background(lipgloss.Color("#FFE66D")).
			Bold(true).
			Padding(0, 1)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6ADC8")).
			Faint(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00D27A")).
		Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FDBFF"))
)

// recentLimit bounds the per-item history kept on screen.
const recentLimit = 8

type batchModel struct {
	quota  int
	total  int
	ok     int
	failed int
	recent []string
	width  int
	quit   bool
	bar    progressbar.Model
	spin   spinner.Model
}

func newBatchModel(quota, total int) *batchModel {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = spinnerStyle
	bar := progressbar.New(
		progressbar.WithGradient("#FF006E", "#00F5FF"),
		progressbar.WithWidth(barWidth(80)),
		progressbar.WithoutPercentage(),
	)
	return &batchModel{
		quota: quota,
		total: total,
		width: 80,
		bar:   bar,
		spin:  spin,
	}
}

func barWidth(total int) int {
	width := total - 10
	if width < 10 {
		return 10
	}
	return width
}

func truncateLine(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	if width <= 3 {
		return text[:width]
	}
	return text[:width-3] + "..."
}

func (m *batchModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m *batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(m.width)
	case itemMsg:
		var line string
		label := truncateLine(msg.label, m.width-4)
		if msg.failure == "" {
			m.ok++
			line = okStyle.Render("ok ") + label
		} else {
			m.failed++
			line = failStyle.Render("fail ") + label +
				countStyle.Render(" · "+truncateLine(msg.failure, m.width/2))
		}
		m.recent = append(m.recent, line)
		if len(m.recent) > recentLimit {
			m.recent = m.recent[len(m.recent)-recentLimit:]
		}
		if m.total > 0 {
			return m, m.bar.SetPercent(float64(m.ok+m.failed) / float64(m.total))
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progressbar.FrameMsg:
		model, cmd := m.bar.Update(msg)
		if updated, ok := model.(progressbar.Model); ok {
			m.bar = updated
		}
		return m, cmd
	case spinner.TickMsg:
		updated, cmd := m.spin.Update(msg)
		m.spin = updated
		return m, cmd
	case stopMsg:
		m.quit = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *batchModel) View() string {
	if m.quit {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.spin.View())
	b.WriteString(" ")
	b.WriteString(titleStyle.Render(" Downloads "))
	b.WriteString(" ")
	b.WriteString(countStyle.Render(fmt.Sprintf("ok %d/%d · failed %d", m.ok, m.quota, m.failed)))
	b.WriteString("\n")
	b.WriteString(barStyle.Render(m.bar.View()))
	b.WriteString("\n")
	for _, line := range m.recent {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
