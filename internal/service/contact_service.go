package service

import (
	"context"
	"strings"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/mailer"
	"github.com/aurora-society/aurora-backend/internal/outbox"
	"github.com/aurora-society/aurora-backend/internal/repository"
)

// ContactRequest a contact-form submission
type ContactRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Category string `json:"category" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

// ContactService persists contact-form submissions and relays them to staff
type ContactService interface {
	Submit(ctx context.Context, req *ContactRequest) error
	List(ctx context.Context, page, limit int) ([]*domain.ContactMessage, int64, error)
}

type contactService struct {
	contactRepo repository.ContactRepository
	tasks       *outbox.Outbox
	mail        mailer.Mailer
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo repository.ContactRepository, tasks *outbox.Outbox, mail mailer.Mailer) ContactService {
	return &contactService{contactRepo: contactRepo, tasks: tasks, mail: mail}
}

// Submit stores the submission, then relays it by mail. The relay is
// best-effort; the stored row is the source of truth.
func (s *contactService) Submit(ctx context.Context, req *ContactRequest) error {
	if strings.TrimSpace(req.Message) == "" {
		return common.E(common.KindValidation, common.ErrEmptyMessage)
	}

	msg := &domain.ContactMessage{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Category: req.Category,
		Message:  req.Message,
	}
	if err := s.contactRepo.Create(msg); err != nil {
		return err
	}

	name, email, category, body := req.Name, req.Email, req.Category, req.Message
	s.tasks.Enqueue("contact_relay_mail", func() error {
		return s.mail.SendContactRelay(name, email, category, body)
	})
	return nil
}

// List pages stored submissions for the back-office
func (s *contactService) List(ctx context.Context, page, limit int) ([]*domain.ContactMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.contactRepo.FindAll(page, limit)
}
