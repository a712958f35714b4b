package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/google/uuid"
)

// Profile returns the onboarding profile of the user
func (s *Service) Profile(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := s.repo.LoadProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

func validateProfile(p *models.UserProfile) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.FirstName == "" {
		return invalid("first name is required")
	}
	if p.Age < 0 || p.Age > 130 {
		return invalid("age must be between 0 and 130")
	}
	switch p.Income.Type {
	case models.ScheduleMonthly, models.ScheduleBiweekly, models.ScheduleWeekly, models.ScheduleDaily:
	case "":
		p.Income.Type = models.ScheduleMonthly
	default:
		return invalid("unknown income schedule %q", p.Income.Type)
	}
	if p.Income.Amount.IsNegative() {
		return invalid("income cannot be negative")
	}
	for _, d := range p.Income.WorkDays {
		if d < 0 || d > 6 {
			return invalid("work days must be weekdays 0..6")
		}
	}
	for i := range p.FixedExpenses {
		fe := &p.FixedExpenses[i]
		if strings.TrimSpace(fe.Title) == "" {
			return invalid("fixed expense %d: title is required", i+1)
		}
		if err := validAmount("fixed expense amount", fe.Amount); err != nil {
			return err
		}
		if fe.DueDay < 1 || fe.DueDay > 31 {
			return invalid("fixed expense %d: due day must be between 1 and 31", i+1)
		}
		if err := validCategory(&fe.Category); err != nil {
			return err
		}
	}
	return nil
}

// SaveProfile validates and stores the profile. Memory notes already stored
// are kept; they are only changed through Remember.
func (s *Service) SaveProfile(ctx context.Context, userID string, p models.UserProfile) (*models.UserProfile, error) {
	if err := validateProfile(&p); err != nil {
		return nil, err
	}
	existing, err := s.profileOrNil(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.AIMemory = []string{}
	if existing != nil {
		p.AIMemory = existing.AIMemory
		p.CreatedAt = existing.CreatedAt
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.clock.Now().UTC()
	}
	if p.FixedExpenses == nil {
		p.FixedExpenses = []models.FixedExpense{}
	}
	for i := range p.FixedExpenses {
		if p.FixedExpenses[i].ID == "" {
			p.FixedExpenses[i].ID = uuid.NewString()
		}
	}

	if err := s.repo.SaveProfile(ctx, userID, &p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	s.log.Infof("Profile saved for user %s", userID)
	return &p, nil
}

// Remember appends a note to the assistant memory of the user
func (s *Service) Remember(ctx context.Context, userID, note string) (*models.UserProfile, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, invalid("note is required")
	}
	p, err := s.repo.LoadProfile(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		p = &models.UserProfile{CreatedAt: s.clock.Now().UTC(), FixedExpenses: []models.FixedExpense{}}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	p.Remember(note)
	if err := s.repo.SaveProfile(ctx, userID, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	s.log.Infof("Memory note stored for user %s (%d kept)", userID, len(p.AIMemory))
	return p, nil
}
