package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/access"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

// ContactService manages a user's own emergency contacts.
type ContactService struct {
	repo ports.ContactRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewContactService(repo ports.ContactRepository, log zerolog.Logger) *ContactService {
	return &ContactService{repo: repo, log: log, now: utcNow}
}

func (s *ContactService) Add(ctx context.Context, actor domain.Actor, in ports.ContactInput) (*domain.EmergencyContact, error) {
	if err := access.Authorize(actor, access.ManageContacts, access.Target{OwnerID: actor.UserID}).Err(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	email := normalizeEmail(in.Email)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case phone == "":
		return nil, fmt.Errorf("%w: phone is required", domain.ErrValidation)
	}
	if email != "" {
		if !validEmail(email) {
			return nil, fmt.Errorf("%w: email is invalid", domain.ErrValidation)
		}
	}

	contact := &domain.EmergencyContact{
		ID:           newID(),
		UserID:       actor.UserID,
		Name:         name,
		Phone:        phone,
		Email:        email,
		Relationship: strings.TrimSpace(in.Relationship),
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("add contact: %w", err)
	}

	s.log.Info().Str("user_id", actor.UserID).Str("contact_id", contact.ID).Msg("emergency contact added")
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, actor domain.Actor) ([]domain.EmergencyContact, error) {
	if err := access.Authorize(actor, access.ManageContacts, access.Target{OwnerID: actor.UserID}).Err(); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, actor.UserID)
}

func (s *ContactService) Remove(ctx context.Context, actor domain.Actor, id string) error {
	if err := access.Authorize(actor, access.ManageContacts, access.Target{OwnerID: actor.UserID}).Err(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.UserID, id); err != nil {
		return fmt.Errorf("remove contact: %w", err)
	}

	s.log.Info().Str("user_id", actor.UserID).Str("contact_id", id).Msg("emergency contact removed")
	return nil
}
