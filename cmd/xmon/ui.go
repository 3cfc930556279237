package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/twbecker/xmon/internal/monitor"
	"github.com/twbecker/xmon/internal/xapi"
)

// --- Messages ---

// refreshMsg asks the model to pull a fresh snapshot from the engine.
type refreshMsg struct{}

// refreshEvery drives the render loop at 2 fps. The engine fetches on
// its own schedule; this only re-reads its state.
func refreshEvery() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// --- Key bindings ---

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "older")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "newer")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page older")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page newer")),
	Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "oldest")),
	End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "latest")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Home, k.End, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Home, k.End, k.Help, k.Quit},
	}
}

// --- Model ---

type uiModel struct {
	mon  *monitor.Monitor
	snap *monitor.Snapshot

	width  int
	height int

	spin     spinner.Model
	help     help.Model
	showHelp bool
}

func newModel(mon *monitor.Monitor) uiModel {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = spinStyle
	return uiModel{
		mon:  mon,
		snap: mon.Snapshot(),
		spin: spin,
		help: help.New(),
	}
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, refreshEvery())
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			m.mon.ScrollUp(1)
			m.snap = m.mon.Snapshot()

		case key.Matches(msg, keys.Down):
			m.mon.ScrollDown(1)
			m.snap = m.mon.Snapshot()

		case key.Matches(msg, keys.PageUp):
			m.mon.ScrollUp(5)
			m.snap = m.mon.Snapshot()

		case key.Matches(msg, keys.PageDown):
			m.mon.ScrollDown(5)
			m.snap = m.mon.Snapshot()

		case key.Matches(msg, keys.Home):
			m.mon.JumpToStart()
			m.snap = m.mon.Snapshot()

		case key.Matches(msg, keys.End):
			m.mon.JumpToEnd()
			m.snap = m.mon.Snapshot()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case refreshMsg:
		m.snap = m.mon.Snapshot()
		return m, refreshEvery()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4"))

	goodStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E3A1"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89DCEB"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CBA6F7"))

	demoBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9E2AF"))

	liveBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E3A1"))

	rangePendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F9E2AF"))

	spinStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))

	logInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89DCEB"))

	logGoodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1"))

	logWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	logBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))
)

// levelStyle maps an activity level to its display style.
func levelStyle(l monitor.Level) lipgloss.Style {
	switch l {
	case monitor.LevelGood:
		return logGoodStyle
	case monitor.LevelWarn:
		return logWarnStyle
	case monitor.LevelBad:
		return logBadStyle
	default:
		return logInfoStyle
	}
}

// --- View rendering ---

// sidebarWidth is fixed so the session panel never jitters as counters
// grow; the posts table absorbs all remaining width.
const sidebarWidth = 30

func (m uiModel) View() string {
	if m.width == 0 || m.snap == nil {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteRune('\n')
	b.WriteRune('\n')

	b.WriteString(m.renderStats())
	b.WriteRune('\n')
	b.WriteRune('\n')

	// Posts table and sidebar share a row on wide terminals and stack
	// on narrow ones.
	if m.width >= 100 {
		leftWidth := m.width - sidebarWidth - 2
		left := lipgloss.NewStyle().Width(leftWidth).Render(m.renderPosts(leftWidth))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderSidebar()))
	} else {
		b.WriteString(m.renderPosts(m.width))
		b.WriteRune('\n')
		b.WriteString(m.renderSidebar())
	}
	b.WriteRune('\n')
	b.WriteRune('\n')

	b.WriteString(m.renderLog())

	// Truncate each line to terminal width so content doesn't wrap on
	// resize, then pad to fill the screen above the status bar.
	content := truncateLines(b.String(), m.width)

	var out strings.Builder
	out.WriteString(content)
	rendered := strings.Count(content, "\n")
	for rendered < m.height-2 {
		out.WriteRune('\n')
		rendered++
	}

	if m.showHelp {
		out.WriteString(m.help.View(keys))
	} else {
		out.WriteString(m.renderStatusBar())
	}

	return out.String()
}

func (m uiModel) renderHeader() string {
	badge := liveBadgeStyle.Render("LIVE MODE")
	if m.snap.Mode == xapi.ModeDemo {
		badge = demoBadgeStyle.Render("DEMO MODE")
	}

	left := goodStyle.Render("● ") +
		titleStyle.Render("X TWEET MONITOR") +
		dimStyle.Render("  |  ") +
		accentStyle.Render("api.twitter.com") +
		dimStyle.Render("  |  ") +
		badge

	right := dimStyle.Render(time.Now().Format("15:04:05"))
	if m.snap.Fetching {
		right = m.spin.View() + " " + right
	}

	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2))
	return left + gap + right
}

func (m uiModel) renderStats() string {
	colWidth := max(m.width/4, 16)

	cells := []struct {
		label string
		value string
	}{
		{"ACCOUNT", valueStyle.Render("@" + m.snap.Username)},
		{"TOTAL TWEETS", goodStyle.Render(comma(m.snap.TotalPosts))},
		{"TODAY'S TWEETS", accentStyle.Bold(true).Render(comma(m.snap.TodayCount))},
		{"FOLLOWERS", valueStyle.Render(comma(m.snap.Followers))},
	}

	var labels, values strings.Builder
	for _, c := range cells {
		labels.WriteString(dimStyle.Render(fmt.Sprintf("%-*s", colWidth, c.label)))
		values.WriteString(padTo(c.value, colWidth))
	}
	return labels.String() + "\n" + values.String()
}

func (m uiModel) renderPosts(width int) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("RECENT TWEETS - @" + m.snap.Username))
	b.WriteRune('\n')

	tweetWidth := width - 10 - 7 - 8 - 10 - 10 - 5
	if tweetWidth < 20 {
		tweetWidth = 20
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("%-10s %-7s %-*s %8s %10s %10s",
		"TIME", "TYPE", tweetWidth, "TWEET", "RT", "LIKES", "REPLIES")))
	b.WriteRune('\n')

	if len(m.snap.RecentPosts) == 0 {
		b.WriteString(dimStyle.Render("  (no tweets yet)"))
		b.WriteRune('\n')
		return b.String()
	}

	for _, p := range m.snap.RecentPosts {
		text := ansi.Truncate(padTo(tableText(p.Text, 50), tweetWidth), tweetWidth, "")
		b.WriteString(padTo(dimStyle.Render(p.CreatedAt.Format("15:04:05")), 10))
		b.WriteRune(' ')
		b.WriteString(padTo(typeStyle.Render(p.Kind.Label()), 7))
		b.WriteRune(' ')
		b.WriteString(text)
		b.WriteRune(' ')
		b.WriteString(padLeft(dimStyle.Render(comma(p.Reposts)), 8))
		b.WriteRune(' ')
		b.WriteString(padLeft(logGoodStyle.Render("+"+comma(p.Likes)), 10))
		b.WriteRune(' ')
		b.WriteString(padLeft(accentStyle.Render("+"+comma(p.Replies)), 10))
		b.WriteRune('\n')
	}

	return b.String()
}

func (m uiModel) renderSidebar() string {
	s := m.snap
	var b strings.Builder

	b.WriteString(sectionStyle.Render("MONITORING SESSION"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Started: ") + s.Started.Format("15:04:05"))
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("Duration: ") + sessionClock(time.Since(s.Started)))
	b.WriteRune('\n')
	b.WriteString(dimStyle.Render("Interval: ") + fmt.Sprintf("%ds", int(s.Interval.Seconds())))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("PERIOD STATS"))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Tweets detected: ") + goodStyle.Render(comma(s.PeriodCount)))
	b.WriteRune('\n')

	if s.RangeConfigured() {
		b.WriteRune('\n')
		b.WriteString(sectionStyle.Render("CUSTOM RANGE"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Start: ") + s.RangeStart.Format("2006-01-02 15:04"))
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("End:   ") + s.RangeEnd.Format("2006-01-02 15:04"))
		b.WriteRune('\n')
		if s.RangeCount == nil {
			b.WriteString(dimStyle.Render("Count: ") + rangePendingStyle.Render("..."))
		} else {
			b.WriteString(dimStyle.Render("Count: ") + goodStyle.Render(comma(*s.RangeCount)))
		}
		b.WriteRune('\n')
	}

	b.WriteString(dimStyle.Render("Following: ") + comma(s.Following))
	b.WriteRune('\n')

	if !s.LastUpdate.IsZero() {
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("Last update: ") + accentStyle.Render(s.LastUpdate.Format("15:04:05")))
		b.WriteRune('\n')
	}

	b.WriteRune('\n')
	if s.Mode == xapi.ModeDemo {
		b.WriteString(dimStyle.Render("MODE: ") + demoBadgeStyle.Render("DEMO"))
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("(Add API key for live data)"))
	} else {
		b.WriteString(dimStyle.Render("MODE: ") + liveBadgeStyle.Render("LIVE"))
	}
	b.WriteRune('\n')

	return b.String()
}

func (m uiModel) renderLog() string {
	s := m.snap
	var b strings.Builder

	b.WriteString(sectionStyle.Render("ACTIVITY LOG"))
	b.WriteString(dimStyle.Render("  (Scroll: ↑/↓, PgUp/PgDn, Home/End)"))
	b.WriteRune('\n')

	if s.LogStart > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d older", s.LogStart)))
		b.WriteRune('\n')
	}
	for _, e := range s.LogLines {
		b.WriteString("  " + dimStyle.Render(e.At.Format("15:04:05")) + " " + levelStyle(e.Level).Render(e.Text))
		b.WriteRune('\n')
	}
	if s.Cursor > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d newer", s.Cursor)))
		b.WriteRune('\n')
	}

	return b.String()
}

func (m uiModel) renderStatusBar() string {
	s := m.snap
	left := fmt.Sprintf(" ACNT: @%s", s.Username)
	center := fmt.Sprintf("TWEETS: %s", comma(s.TotalPosts))
	right := fmt.Sprintf("TODAY: %d tweets ", s.TodayCount)

	gap := max(1, (m.width-len(left)-len(center)-len(right))/2)
	pad := strings.Repeat(" ", gap)
	return statusBarStyle.Render(left + pad + center + pad + right)
}

// --- Helpers ---

func comma(n int) string {
	return humanize.Comma(int64(n))
}

// padTo left-aligns s in a cell of visible width w.
func padTo(s string, w int) string {
	if d := w - lipgloss.Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

// padLeft right-aligns s in a cell of visible width w.
func padLeft(s string, w int) string {
	if d := w - lipgloss.Width(s); d > 0 {
		return strings.Repeat(" ", d) + s
	}
	return s
}

// tableText flattens newlines and trims a post body for its table cell.
func tableText(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// sessionClock formats an elapsed duration as HH:MM:SS.
func sessionClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// truncateLines truncates each line in content to at most width visible
// characters, preserving ANSI escape codes. This prevents terminal line
// wrapping when the window is resized narrower.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
