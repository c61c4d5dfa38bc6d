package ui

import (
	"fmt"
	"html"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"excesoluz/pkg/config"
	"excesoluz/pkg/logger"
	"excesoluz/pkg/progress"
	"excesoluz/pkg/ratelimit"
)

// Toast messages shown after a completion toggle
const (
	MessageMarked   = "¡Recurso marcado como completado! 🎉"
	MessageUnmarked = "Recurso desmarcado"
	MessageCleared  = "Progreso borrado"
)

const appName = "Exceso de Luz"

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	cmd := exec.Command("notify-send", "--app-name", appName, title, message)
	return cmd.Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// WindowsNotificationSender sends notifications on Windows using PowerShell
type WindowsNotificationSender struct{}

func (w *WindowsNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`
		[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
		[Windows.Data.Xml.Dom.XmlDocument, Windows.Data.Xml.Dom.XmlDocument, ContentType = WindowsRuntime] | Out-Null
		$xml = @"
<toast>
	<visual>
		<binding template="ToastText02">
			<text id="1">%s</text>
			<text id="2">%s</text>
		</binding>
	</visual>
</toast>
"@
		$doc = [Windows.Data.Xml.Dom.XmlDocument]::new()
		$doc.LoadXml($xml)
		$toast = [Windows.UI.Notifications.ToastNotification]::new($doc)
		[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier(%q).Show($toast)
	`, toastText(title), toastText(message), appName)

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	return cmd.Run()
}

// toastText escapes s for the toast XML inside a PowerShell here-string,
// where backticks and dollar signs are still interpreted
func toastText(s string) string {
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, "`", "``")
	return strings.ReplaceAll(s, "$", "`$")
}

// platformSender picks the desktop sender for the current OS, or nil
func platformSender() NotificationSender {
	switch runtime.GOOS {
	case "linux":
		return &LinuxNotificationSender{}
	case "darwin":
		return &MacOSNotificationSender{}
	case "windows":
		return &WindowsNotificationSender{}
	default:
		return nil
	}
}

// Notifier prints transient notifications and optionally mirrors them to
// the desktop. It implements progress.Observer so it can be registered
// directly on a store.
type Notifier struct {
	out     io.Writer
	sender  NotificationSender
	limiter ratelimit.Limiter
	enabled bool
}

// NotifierOption configures a Notifier
type NotifierOption func(*Notifier)

// WithOutput replaces stdout
func WithOutput(w io.Writer) NotifierOption {
	return func(n *Notifier) { n.out = w }
}

// WithSender replaces the platform desktop sender
func WithSender(s NotificationSender) NotifierOption {
	return func(n *Notifier) { n.sender = s }
}

// WithDesktopLimiter replaces the limiter guarding desktop notifications
func WithDesktopLimiter(l ratelimit.Limiter) NotifierOption {
	return func(n *Notifier) { n.limiter = l }
}

// NewNotifier creates a Notifier from cfg
func NewNotifier(cfg config.NotificationConfig, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		out:     os.Stdout,
		enabled: cfg.Enabled,
		limiter: ratelimit.NewTokenBucket(5, 10*time.Second),
	}
	if cfg.Desktop {
		n.sender = platformSender()
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) desktop(title, message string) {
	if n.sender == nil {
		return
	}
	if n.limiter != nil && !n.limiter.Allow() {
		logger.Debug("Desktop notification throttled")
		return
	}
	if err := n.sender.Send(title, message); err != nil {
		logger.WithError(err).Debug("Desktop notification failed")
	}
}

// Notify shows a plain notification
func (n *Notifier) Notify(message string) {
	if !n.enabled {
		return
	}
	fmt.Fprintf(n.out, "%s\n", Green(message))
	n.desktop(appName, message)
}

// SendNotification sends a titled notification
func (n *Notifier) SendNotification(title, message string) {
	if !n.enabled {
		return
	}
	fmt.Fprintf(n.out, "%s: %s\n", Cyan(title), Yellow(message))
	n.desktop(title, message)
}

// SendError sends an error notification
func (n *Notifier) SendError(title, message string) {
	if !n.enabled {
		return
	}
	fmt.Fprintf(n.out, "%s: %s\n", Red(title), Red(message))
	n.desktop(title, message)
}

// ProgressChanged shows the toast that matches a store change
func (n *Notifier) ProgressChanged(e progress.Event) {
	if msg := ToastMessage(e); msg != "" {
		n.Notify(msg)
	}
}

// ToastMessage returns the toast text for a change, for views that draw
// their own notifications
func ToastMessage(e progress.Event) string {
	switch e.Kind {
	case progress.EventMarked:
		return MessageMarked
	case progress.EventUnmarked:
		return MessageUnmarked
	case progress.EventReset:
		return MessageCleared
	default:
		return ""
	}
}
