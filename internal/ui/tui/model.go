package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/stats"
	"github.com/ferrycp/ferry/internal/ui"
)

type viewMode int

const (
	viewFeed viewMode = iota
	viewRate
)

type engineEventMsg event.Event
type channelDoneMsg struct{}
type tickMsg time.Time
type saveResultMsg struct{ err error }

// readNextEvent blocks on the event channel and feeds the program one
// message per event.
func readNextEvent(ch <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return channelDoneMsg{}
		}
		return engineEventMsg(ev)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// saveModal is the filename prompt shown after the run when saving a
// report.
type saveModal struct {
	active bool
	input  string
	cursor int
}

func (s *saveModal) insertRune(r rune) {
	s.input = s.input[:s.cursor] + string(r) + s.input[s.cursor:]
	s.cursor++
}

func (s *saveModal) backspace() {
	if s.cursor > 0 {
		s.input = s.input[:s.cursor-1] + s.input[s.cursor:]
		s.cursor--
	}
}

func (s *saveModal) deleteChar() {
	if s.cursor < len(s.input) {
		s.input = s.input[:s.cursor] + s.input[s.cursor+1:]
	}
}

func (s *saveModal) moveLeft() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *saveModal) moveRight() {
	if s.cursor < len(s.input) {
		s.cursor++
	}
}

func (s *saveModal) render() string {
	prompt := styleSavePrompt.Render("Save to: ")
	before := s.input[:s.cursor]
	after := s.input[s.cursor:]
	cursor := styleSaveInput.Render("█")
	return "  " + prompt + styleSaveInput.Render(before) + cursor + styleSaveInput.Render(after)
}

// Model is the root Bubble Tea model.
type Model struct {
	events  <-chan event.Event
	stats   stats.ReadTicker
	workers int
	src     string
	dst     string

	mode      viewMode
	feed      feedView
	rate      rateView
	width     int
	height    int
	statusMsg string
	done      bool
	quitting  bool

	lastSnap  stats.Snapshot
	lastSpeed float64
	lastETA   time.Duration

	save saveModal
}

func NewModel(events <-chan event.Event, collector stats.ReadTicker, workers int, src, dst string) Model {
	return Model{
		events:  events,
		stats:   collector,
		workers: workers,
		src:     src,
		dst:     dst,
		feed:    newFeedView(),
		rate:    newRateView(),
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(readNextEvent(m.events), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case engineEventMsg:
		ev := event.Event(msg)
		m.feed.handleEvent(ev)
		m.rate.handleEvent(ev)
		return m, readNextEvent(m.events)

	case channelDoneMsg:
		m.done = true
		m.lastSnap = m.stats.Snapshot()
		m.lastSpeed = m.stats.RollingSpeed(10)
		m.lastETA = 0
		return m, tickCmd()

	case tickMsg:
		m.stats.Tick()
		m.lastSnap = m.stats.Snapshot()
		m.lastSpeed = m.stats.RollingSpeed(10)
		m.lastETA = m.stats.ETA()
		return m, tickCmd()

	case saveResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("save failed: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("saved to %s", m.save.input)
		}
		m.save.active = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.save.active {
		return m.handleSaveKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "r":
		m.mode = viewRate
		m.statusMsg = ""
		return m, nil

	case "f":
		m.mode = viewFeed
		m.statusMsg = ""
		return m, nil

	case "j", "down":
		if m.mode == viewFeed {
			m.feed.scrollDown()
		}
		return m, nil

	case "k", "up":
		if m.mode == viewFeed {
			m.feed.scrollUp()
		}
		return m, nil

	case "G":
		if m.mode == viewFeed {
			m.feed.scrollToBottom()
		}
		return m, nil

	case "g":
		if m.mode == viewFeed {
			m.feed.scrollToTop()
		}
		return m, nil

	case "s":
		if m.done {
			m.save.active = true
			m.save.input = fmt.Sprintf("ferry-%s.log", time.Now().Format("2006-01-02-150405"))
			m.save.cursor = len(m.save.input)
			m.statusMsg = ""
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleSaveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.save.active = false
		m.statusMsg = ""
		return m, nil

	case tea.KeyEnter:
		return m, m.writeReport(m.save.input)

	case tea.KeyBackspace:
		m.save.backspace()
		return m, nil

	case tea.KeyDelete:
		m.save.deleteChar()
		return m, nil

	case tea.KeyLeft:
		m.save.moveLeft()
		return m, nil

	case tea.KeyRight:
		m.save.moveRight()
		return m, nil

	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.save.insertRune(r)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) writeReport(path string) tea.Cmd {
	snap := m.lastSnap
	src, dst := m.src, m.dst
	done := make([]doneEntry, len(m.feed.done))
	copy(done, m.feed.done)

	return func() tea.Msg {
		var b strings.Builder
		b.WriteString("ferry run report\n")
		b.WriteString("================\n")
		fmt.Fprintf(&b, "source:      %s\n", src)
		fmt.Fprintf(&b, "destination: %s\n", dst)
		fmt.Fprintf(&b, "finished:    %s\n", time.Now().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "duration:    %s\n", ui.FormatDuration(snap.Elapsed))
		fmt.Fprintf(&b, "copied:      %s\n", ui.FormatCount(snap.FilesCopied))
		if snap.FilesMoved > 0 {
			fmt.Fprintf(&b, "moved:       %s\n", ui.FormatCount(snap.FilesMoved))
		}
		if snap.FilesDeleted > 0 || snap.DirsDeleted > 0 {
			fmt.Fprintf(&b, "purged:      %s\n", ui.FormatCount(snap.FilesDeleted+snap.DirsDeleted))
		}
		fmt.Fprintf(&b, "size:        %s\n", ui.FormatBytes(snap.BytesCopied))
		avg := 0.0
		if snap.Elapsed.Seconds() > 0 {
			avg = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
		}
		fmt.Fprintf(&b, "avg speed:   %s\n", ui.FormatRate(avg))
		fmt.Fprintf(&b, "errors:      %d\n", snap.Failed+snap.VerifyFailed)
		b.WriteString("\n--- operations ---\n")

		for _, e := range done {
			switch e.kind {
			case entryFailed:
				fmt.Fprintf(&b, "x  %-50s  %s\n", e.path, e.detail)
			case entrySkipped:
				fmt.Fprintf(&b, "-  %-50s  skipped\n", e.path)
			case entryDeleted:
				fmt.Fprintf(&b, "d  %-50s\n", e.path)
			case entryMoved:
				fmt.Fprintf(&b, ">  %-50s  %s\n", e.path, ui.FormatBytes(e.size))
			default:
				fmt.Fprintf(&b, "v  %-50s  %s\n", e.path, ui.FormatBytes(e.size))
			}
		}

		err := os.WriteFile(path, []byte(b.String()), 0o644)
		return saveResultMsg{err: err}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	contentHeight := m.height - 3
	if contentHeight < 3 {
		contentHeight = 3
	}

	switch m.mode {
	case viewFeed:
		b.WriteString(m.feed.view(m.width, contentHeight, m.lastSpeed))
	case viewRate:
		b.WriteString(m.rate.view(m.width, contentHeight, m.lastSnap, m.stats, m.workers))
	}

	switch {
	case m.save.active:
		b.WriteString(m.save.render())
		b.WriteByte('\n')
	case m.statusMsg != "":
		b.WriteString(styleStatus.Render("  " + m.statusMsg))
		b.WriteByte('\n')
	default:
		b.WriteByte('\n')
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	snap := m.lastSnap

	if m.done {
		return styleHeader.Render(fmt.Sprintf("  %s  %s  %s  %s / %s files  %s",
			styleHeaderLabel.Render("ferry"),
			styleIconDone.Render("done"),
			ui.FormatBytes(snap.BytesCopied),
			ui.FormatCount(snap.Placed()),
			ui.FormatCount(snap.FilesTotal),
			ui.FormatDuration(snap.Elapsed),
		))
	}

	var pct float64
	if snap.BytesTotal > 0 {
		pct = float64(snap.BytesCopied) / float64(snap.BytesTotal)
	}
	return styleHeader.Render(fmt.Sprintf("  %s  %3.0f%%  %s  %s / %s  %s / %s files  eta %s  %dw",
		styleHeaderLabel.Render("ferry"),
		pct*100,
		styleProgressFilled.Render(ui.ProgressBar(pct, 10)),
		ui.FormatBytes(snap.BytesCopied),
		ui.FormatBytes(snap.BytesTotal),
		ui.FormatCount(snap.Placed()),
		ui.FormatCount(snap.FilesTotal),
		ui.FormatETA(m.lastETA),
		m.workers,
	))
}

func (m Model) renderFooter() string {
	type keybind struct {
		key   string
		label string
	}

	var binds []keybind
	if m.done {
		binds = []keybind{
			{"s", "save"},
			{"j/k", "scroll"},
			{"r", "rate"},
			{"f", "feed"},
			{"q", "quit"},
		}
	} else {
		binds = []keybind{
			{"q", "quit"},
			{"r", "rate"},
			{"f", "feed"},
			{"j/k", "scroll"},
		}
	}

	parts := make([]string, 0, len(binds))
	for _, kb := range binds {
		parts = append(parts, styleKeybindKey.Render(kb.key)+" "+styleKeybindLabel.Render(kb.label))
	}
	return "  " + strings.Join(parts, "   ")
}
