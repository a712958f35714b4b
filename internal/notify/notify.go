// Package notify delivers bill reminder digests over email and Telegram.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/models"
)

// Digest is one reminder message for one user.
type Digest struct {
	Subject string
	Body    string
}

// Notifier sends a digest to a user over one channel
type Notifier interface {
	Name() string
	Notify(ctx context.Context, user models.User, d Digest) error
}

// BuildDigest renders the reminders of a user into a plain text message
func BuildDigest(user models.User, reminders []models.Reminder, f *finance.Formatter) Digest {
	overdue := 0
	for _, r := range reminders {
		if r.Kind == models.ReminderOverdue {
			overdue++
		}
	}

	subject := fmt.Sprintf("%d bill reminder(s)", len(reminders))
	if overdue > 0 {
		subject = fmt.Sprintf("%d overdue bill(s) need attention", overdue)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", user.Username)
	for _, r := range reminders {
		fmt.Fprintf(&b, "- %s: %s %s\n", r.Title, f.Money(r.Remaining), when(r))
	}
	b.WriteString("\nOpen NeuroLedger to record the payments.\n")
	return Digest{Subject: subject, Body: b.String()}
}

func when(r models.Reminder) string {
	switch {
	case r.Kind == models.ReminderOverdue:
		return fmt.Sprintf("overdue by %d day(s)", r.Days)
	case r.Days == 0:
		return "due today"
	case r.Days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", r.Days)
	}
}
