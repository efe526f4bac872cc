package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contacts_api/internal/model"
	"contacts_api/internal/repository"
)

// ContactService provides owner scoped contact operations
type ContactService interface {
	List(ctx context.Context, owner *model.User, p model.Pagination) ([]model.Contact, error)
	Get(ctx context.Context, owner *model.User, id int64) (*model.Contact, error)
	SearchByFirstName(ctx context.Context, owner *model.User, firstName string) ([]model.Contact, error)
	SearchByLastName(ctx context.Context, owner *model.User, lastName string) ([]model.Contact, error)
	SearchByEmail(ctx context.Context, owner *model.User, email string) (*model.Contact, error)
	UpcomingBirthdays(ctx context.Context, owner *model.User) ([]model.Contact, error)
	Create(ctx context.Context, owner *model.User, req model.ContactRequest) (*model.Contact, error)
	Update(ctx context.Context, owner *model.User, id int64, req model.ContactRequest) (*model.Contact, error)
	Delete(ctx context.Context, owner *model.User, id int64) error
}

type contactService struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactService creates a new ContactService
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo, now: time.Now}
}

func (s *contactService) List(ctx context.Context, owner *model.User, p model.Pagination) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx, owner.ID, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return withOwner(contacts, owner), nil
}

func (s *contactService) Get(ctx context.Context, owner *model.User, id int64) (*model.Contact, error) {
	contact, err := s.repo.FindByID(ctx, owner.ID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	contact.User = owner.ToResponse()
	return contact, nil
}

func (s *contactService) SearchByFirstName(ctx context.Context, owner *model.User, firstName string) ([]model.Contact, error) {
	contacts, err := s.repo.FindByFirstName(ctx, owner.ID, firstName)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts by first name: %w", err)
	}
	if len(contacts) == 0 {
		return nil, ErrContactNotFound
	}
	return withOwner(contacts, owner), nil
}

func (s *contactService) SearchByLastName(ctx context.Context, owner *model.User, lastName string) ([]model.Contact, error) {
	contacts, err := s.repo.FindByLastName(ctx, owner.ID, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts by last name: %w", err)
	}
	if len(contacts) == 0 {
		return nil, ErrContactNotFound
	}
	return withOwner(contacts, owner), nil
}

func (s *contactService) SearchByEmail(ctx context.Context, owner *model.User, email string) (*model.Contact, error) {
	contact, err := s.repo.FindByEmail(ctx, owner.ID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to search contact by email: %w", err)
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	contact.User = owner.ToResponse()
	return contact, nil
}

// UpcomingBirthdays returns contacts whose birthday falls within the next BirthdayWindowDays days (UTC)
func (s *contactService) UpcomingBirthdays(ctx context.Context, owner *model.User) ([]model.Contact, error) {
	window := BirthdayWindow(s.now().UTC(), BirthdayWindowDays)
	contacts, err := s.repo.FindByBirthdays(ctx, owner.ID, window)
	if err != nil {
		return nil, fmt.Errorf("failed to find upcoming birthdays: %w", err)
	}
	return withOwner(contacts, owner), nil
}

func (s *contactService) Create(ctx context.Context, owner *model.User, req model.ContactRequest) (*model.Contact, error) {
	contact := fromRequest(req)
	contact.UserID = owner.ID

	if err := s.repo.Create(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactExists
		}
		return nil, fmt.Errorf("failed to create contact in repo: %w", err)
	}
	contact.User = owner.ToResponse()
	return contact, nil
}

func (s *contactService) Update(ctx context.Context, owner *model.User, id int64, req model.ContactRequest) (*model.Contact, error) {
	contact := fromRequest(req)
	contact.ID = id
	contact.UserID = owner.ID

	found, err := s.repo.Update(ctx, contact)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactExists
		}
		return nil, fmt.Errorf("failed to update contact in repo: %w", err)
	}
	if !found {
		return nil, ErrContactNotFound
	}
	contact.User = owner.ToResponse()
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, owner *model.User, id int64) error {
	found, err := s.repo.Delete(ctx, owner.ID, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact in repo: %w", err)
	}
	if !found {
		return ErrContactNotFound
	}
	return nil
}

func fromRequest(req model.ContactRequest) *model.Contact {
	return &model.Contact{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthday:    req.Birthday,
	}
}

func withOwner(contacts []model.Contact, owner *model.User) []model.Contact {
	view := owner.ToResponse()
	for i := range contacts {
		contacts[i].User = view
	}
	return contacts
}
