package portal

import (
	"sync"
	"time"
)

// Level grades a user-facing message.
type Level string

// Message levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultToastDuration is applied when a toast is shown without an explicit
// duration.
const DefaultToastDuration = 5 * time.Second

// Toast is an auto-dismissing feedback message.
type Toast struct {
	Message string
	Level   Level
}

// Banner is the singleton cross-page announcement.
type Banner struct {
	Message     string
	Level       Level
	Dismissible bool
	Visible     bool
}

// MessageCenter is the single ephemeral-message capability of the portal,
// with two presentation modes: an auto-dismissing toast and a persistent
// dismissible banner.
//
// Toasts are last-wins: showing a new toast replaces the current one and
// restarts the dismiss timer. The banner replaces rather than queues, and
// hiding it clears the content so stale text can never be re-shown.
type MessageCenter struct {
	mu     sync.Mutex
	toast  *Toast
	timer  *time.Timer
	banner Banner
}

// NewMessageCenter constructs a message center showing the default welcome
// banner.
func NewMessageCenter() *MessageCenter {
	return &MessageCenter{
		banner: Banner{
			Message:     "Welcome to the dormitory portal.",
			Level:       LevelInfo,
			Dismissible: true,
			Visible:     true,
		},
	}
}

// ShowSuccess displays a success toast.
func (m *MessageCenter) ShowSuccess(message string, duration time.Duration) {
	m.showToast(message, LevelSuccess, duration)
}

// ShowError displays an error toast.
func (m *MessageCenter) ShowError(message string, duration time.Duration) {
	m.showToast(message, LevelError, duration)
}

// ShowInfo displays an informational toast.
func (m *MessageCenter) ShowInfo(message string, duration time.Duration) {
	m.showToast(message, LevelInfo, duration)
}

func (m *MessageCenter) showToast(message string, level Level, duration time.Duration) {
	if duration <= 0 {
		duration = DefaultToastDuration
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.timer != nil {
		m.timer.Stop()
	}
	m.toast = &Toast{Message: message, Level: level}
	m.timer = time.AfterFunc(duration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.toast = nil
	})
}

// Toast returns the currently visible toast, or nil.
func (m *MessageCenter) Toast() *Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.toast == nil {
		return nil
	}
	copied := *m.toast
	return &copied
}

// DismissToast removes the current toast ahead of its timer.
func (m *MessageCenter) DismissToast() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.toast = nil
}

// ShowBanner replaces the current banner content and makes it visible.
func (m *MessageCenter) ShowBanner(message string, level Level, dismissible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banner = Banner{
		Message:     message,
		Level:       level,
		Dismissible: dismissible,
		Visible:     true,
	}
}

// HideBanner hides the banner and clears its content.
func (m *MessageCenter) HideBanner() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banner = Banner{}
}

// Banner returns the current banner state.
func (m *MessageCenter) Banner() Banner {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.banner
}
