package domain

import (
	"time"

	itemdomain "triage-backend/internal/item/domain"
)

// CanonicalEmail is the provider-agnostic form of a fetched message.
type CanonicalEmail struct {
	ProviderMessageID string
	ProviderThreadID  string
	Subject           string
	Snippet           string
	From              Sender
	ReceivedAt        time.Time
	IsRead            bool
}

// FetchResult is one page of canonical emails in provider list order.
type FetchResult struct {
	Emails        []*CanonicalEmail
	NextPageToken string
}

// ClassifyInput is what the classifier sees of an email.
type ClassifyInput struct {
	Subject     string
	Snippet     string
	SenderName  string
	SenderEmail string
}

func (e *CanonicalEmail) ClassifyInput() ClassifyInput {
	return ClassifyInput{
		Subject:     e.Subject,
		Snippet:     e.Snippet,
		SenderName:  e.From.Name,
		SenderEmail: e.From.Email,
	}
}

// ToItem builds the active email item for e in the given lane.
func (e *CanonicalEmail) ToItem(userID string, lane itemdomain.Lane, now time.Time) *itemdomain.Item {
	messageID := e.ProviderMessageID
	fromEmail := e.From.Email
	fromName := e.From.Name
	received := e.ReceivedAt

	item := &itemdomain.Item{
		UserID:            userID,
		Type:              itemdomain.TypeEmail,
		Lane:              lane,
		Status:            itemdomain.StatusActive,
		Title:             e.Subject,
		IsRead:            e.IsRead,
		ProviderMessageID: &messageID,
		FromEmail:         &fromEmail,
		FromName:          &fromName,
		ReceivedAt:        &received,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if e.Snippet != "" {
		snippet := e.Snippet
		item.Snippet = &snippet
	}
	if e.ProviderThreadID != "" {
		thread := e.ProviderThreadID
		item.ProviderThreadID = &thread
	}
	return item
}
