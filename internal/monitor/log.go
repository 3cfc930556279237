package monitor

import "time"

// Level colors an activity entry when rendered.
type Level int

const (
	LevelInfo Level = iota
	LevelGood
	LevelWarn
	LevelBad
)

// Entry is one line of the in-dashboard activity log.
type Entry struct {
	At    time.Time
	Level Level
	Text  string
}

const (
	// logWindow is the number of entries visible at once.
	logWindow = 10

	// homeCursor scrolls past any log the capacity can hold; reads
	// clamp it to the oldest window.
	homeCursor = 10_000_000
)

// addEntry appends to the activity log. Callers must hold m.mu.
func (m *Monitor) addEntry(level Level, text string) {
	m.activity.Push(Entry{At: time.Now(), Level: level, Text: text})
}

// ScrollUp moves the view n entries away from the tail. The cursor is
// unbounded upward here; it is clamped at read time, so overshooting is
// harmless.
func (m *Monitor) ScrollUp(n int) {
	m.mu.Lock()
	m.cursor += n
	m.mu.Unlock()
}

// ScrollDown moves the view n entries back toward the tail, stopping
// at 0 (pinned to latest).
func (m *Monitor) ScrollDown(n int) {
	m.mu.Lock()
	m.cursor -= n
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.mu.Unlock()
}

// JumpToStart shows the oldest entries.
func (m *Monitor) JumpToStart() {
	m.mu.Lock()
	m.cursor = homeCursor
	m.mu.Unlock()
}

// JumpToEnd re-pins the view to the newest entries.
func (m *Monitor) JumpToEnd() {
	m.mu.Lock()
	m.cursor = 0
	m.mu.Unlock()
}

// window returns the visible [start, end) bounds for a log of length n
// under view cursor c. Cursor 0 pins the window to the tail; larger
// cursors walk toward the head and clamp once the head is reached.
func window(n, c int) (start, end int) {
	maxCursor := n - logWindow
	if maxCursor < 0 {
		maxCursor = 0
	}
	if c < 0 {
		c = 0
	}
	if c > maxCursor {
		c = maxCursor
	}
	end = n - c
	start = end - logWindow
	if start < 0 {
		start = 0
	}
	return start, end
}

// preview returns the first n runes of s.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
