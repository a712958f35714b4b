package finance

import "github.com/Dan9191/neuroledger/internal/models"

// ReminderWindowDays is how close an upcoming due date must be to trigger a reminder.
const ReminderWindowDays = 3

// Reminders lists the overdue bills of snap and the upcoming ones due within
// ReminderWindowDays of today.
func Reminders(snap models.MonthlySnapshot, today models.Date) []models.Reminder {
	out := []models.Reminder{}
	for _, b := range snap.OverdueBills {
		out = append(out, models.Reminder{
			Kind:      models.ReminderOverdue,
			BillID:    b.ID,
			Title:     b.Title,
			DueDate:   b.DueDate,
			Remaining: Remaining(b),
			Days:      b.DueDate.DaysUntil(today),
		})
	}
	for _, b := range snap.UpcomingBills {
		days := today.DaysUntil(b.DueDate)
		if days > ReminderWindowDays {
			continue
		}
		out = append(out, models.Reminder{
			Kind:      models.ReminderUpcoming,
			BillID:    b.ID,
			Title:     b.Title,
			DueDate:   b.DueDate,
			Remaining: Remaining(b),
			Days:      days,
		})
	}
	return out
}
