package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/neuroledger/internal/finance"
	"github.com/Dan9191/neuroledger/internal/notify"
	"github.com/robfig/cron/v3"
)

// ReminderRun summarizes one pass of the reminder job
type ReminderRun struct {
	Users  int
	Digest int
	Sent   int
	Failed int
}

// SendReminders sends a digest of overdue and soon due bills to every user
// through each configured notifier
func (s *Service) SendReminders(ctx context.Context) (ReminderRun, error) {
	var run ReminderRun
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return run, fmt.Errorf("failed to list users: %w", err)
	}

	today := s.Today()
	month := today.MonthKey()
	for _, user := range users {
		run.Users++
		state, err := s.repo.LoadState(ctx, user.ID)
		if err != nil {
			s.log.Errorf("Failed to load state for user %s: %v", user.ID, err)
			run.Failed++
			continue
		}
		snap := finance.BuildSnapshot(state.Transactions, state.Bills, month, state.MonthlyBudget, today)
		reminders := finance.Reminders(snap, today)
		if len(reminders) == 0 {
			continue
		}
		run.Digest++
		digest := notify.BuildDigest(user, reminders, s.format)
		for _, n := range s.notifiers {
			if err := n.Notify(ctx, user, digest); err != nil {
				s.log.Errorf("Reminder via %s failed for user %s: %v", n.Name(), user.ID, err)
				run.Failed++
				continue
			}
			run.Sent++
		}
	}

	s.log.Infof("Reminder job finished: %d users, %d digests, %d sent, %d failed", run.Users, run.Digest, run.Sent, run.Failed)
	return run, nil
}

// ScheduleReminders registers the reminder job on c using a cron expression
func (s *Service) ScheduleReminders(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		if _, err := s.SendReminders(context.Background()); err != nil {
			s.log.Errorf("Reminder job failed: %v", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("failed to schedule reminders: %w", err)
	}
	return id, nil
}
