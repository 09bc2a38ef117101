package service

import (
	"context"
	"testing"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestContactSubmit_PersistsRow(t *testing.T) {
	contactRepo := new(mockContactRepo)
	contactRepo.On("Create", mock.AnythingOfType("*domain.ContactMessage")).Return(nil)

	svc := NewContactService(contactRepo, outbox.New(8), &mockMailer{})

	err := svc.Submit(context.Background(), &ContactRequest{
		Name:     "Curious Visitor",
		Email:    "visitor@example.com",
		Category: "membership",
		Message:  "How does one join?",
	})
	assert.NoError(t, err)

	stored := firstCall(t, &contactRepo.Mock, "Create").Get(0).(*domain.ContactMessage)
	assert.Equal(t, "membership", stored.Category)
	assert.Equal(t, "How does one join?", stored.Message)
}

func TestContactSubmit_BlankMessage(t *testing.T) {
	contactRepo := new(mockContactRepo)
	svc := NewContactService(contactRepo, outbox.New(8), &mockMailer{})

	err := svc.Submit(context.Background(), &ContactRequest{
		Name: "x", Email: "x@example.com", Category: "other", Message: "   ",
	})
	assert.ErrorIs(t, err, common.ErrEmptyMessage)
	contactRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestContactList_ClampsPaging(t *testing.T) {
	contactRepo := new(mockContactRepo)
	contactRepo.On("FindAll", 1, 20).Return([]*domain.ContactMessage{}, int64(0), nil)

	svc := NewContactService(contactRepo, outbox.New(8), &mockMailer{})

	_, _, err := svc.List(context.Background(), -3, 0)
	assert.NoError(t, err)
	contactRepo.AssertCalled(t, "FindAll", 1, 20)
}
