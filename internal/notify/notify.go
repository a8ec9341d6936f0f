package notify

import (
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/clockwise/internal/logger"
	"github.com/sandeepkv93/clockwise/internal/scheduler"
)

// Permission mirrors the platform notification permission.
type Permission string

const (
	PermissionUnasked Permission = "unasked"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

func (p Permission) IsValid() bool {
	switch p {
	case PermissionUnasked, PermissionGranted, PermissionDenied:
		return true
	default:
		return false
	}
}

// ParsePermission falls back to unasked for anything unrecognised.
func ParsePermission(raw string) Permission {
	p := Permission(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return PermissionUnasked
	}
	return p
}

type Notification struct {
	Title string
	Body  string
}

type Sender interface {
	Send(Notification) error
}

type Requester interface {
	Request() Permission
}

type NoopSender struct{}

func (NoopSender) Send(Notification) error { return nil }

// ExecSender shells out to notify-send on Linux and osascript on macOS.
type ExecSender struct{}

func (ExecSender) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// LookPathRequester grants permission when the platform notification command
// is installed.
type LookPathRequester struct {
	LookPath func(string) (string, error)
}

func (r LookPathRequester) Request() Permission {
	look := r.LookPath
	if look == nil {
		look = exec.LookPath
	}
	var bin string
	switch runtime.GOOS {
	case "linux":
		bin = "notify-send"
	case "darwin":
		bin = "osascript"
	default:
		return PermissionDenied
	}
	if _, err := look(bin); err != nil {
		return PermissionDenied
	}
	return PermissionGranted
}

// Notifier gates delivery on the permission state. While permission is
// unasked a delivery attempt requests it and drops that notification.
type Notifier struct {
	sender    Sender
	requester Requester

	mu         sync.Mutex
	permission Permission
}

func NewNotifier(sender Sender, requester Requester, initial Permission) *Notifier {
	if sender == nil {
		sender = NoopSender{}
	}
	if !initial.IsValid() {
		initial = PermissionUnasked
	}
	return &Notifier{sender: sender, requester: requester, permission: initial}
}

func (n *Notifier) Permission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.permission
}

// RequestPermission asks once; a settled permission is returned unchanged.
func (n *Notifier) RequestPermission() Permission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.requestLocked()
}

func (n *Notifier) requestLocked() Permission {
	if n.permission != PermissionUnasked || n.requester == nil {
		return n.permission
	}
	n.permission = n.requester.Request()
	logger.Info("notify: permission requested", zap.String("permission", string(n.permission)))
	return n.permission
}

// Notify reports whether the notification reached the sender. Send failures
// are logged only.
func (n *Notifier) Notify(note Notification) bool {
	n.mu.Lock()
	switch n.permission {
	case PermissionUnasked:
		n.requestLocked()
		n.mu.Unlock()
		return false
	case PermissionDenied:
		n.mu.Unlock()
		return false
	}
	n.mu.Unlock()

	if err := n.sender.Send(note); err != nil {
		logger.Warn("notify: send failed", zap.Error(err), zap.String("title", note.Title))
		return false
	}
	return true
}

// Deliver implements scheduler.Deliverer.
func (n *Notifier) Deliver(ev scheduler.ReminderEvent) {
	n.Notify(Message(ev, ev.FiredAt))
}

// Message titles the notification with the task description; the body counts
// whole minutes, rounded up, to or since the end.
func Message(ev scheduler.ReminderEvent, now time.Time) Notification {
	diff := ev.EndAt.Sub(now)
	var body string
	if diff > 0 {
		body = fmt.Sprintf("Task ends in %d minutes", ceilMinutes(diff))
	} else {
		body = fmt.Sprintf("Task ended %d minutes ago", ceilMinutes(-diff))
	}
	return Notification{Title: ev.Description, Body: body}
}

func ceilMinutes(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(time.Minute)))
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
