package domain

import "time"

// Lane is one of the four fixed triage categories.
type Lane string

const (
	LaneReply     Lane = "reply"
	LaneAction    Lane = "action"
	LaneRead      Lane = "read"
	LaneReference Lane = "reference"
)

// FallbackLane is assigned whenever classification cannot be trusted.
const FallbackLane = LaneReference

var lanes = []Lane{LaneReply, LaneAction, LaneRead, LaneReference}

// Lanes returns the valid lanes in display order.
func Lanes() []Lane {
	out := make([]Lane, len(lanes))
	copy(out, lanes)
	return out
}

func (l Lane) Valid() bool {
	for _, v := range lanes {
		if l == v {
			return true
		}
	}
	return false
}

// ParseLane validates s as a lane name.
func ParseLane(s string) (Lane, error) {
	l := Lane(s)
	if !l.Valid() {
		return "", &ValidationError{Field: "lane", Reason: "must be one of reply, action, read, reference"}
	}
	return l, nil
}

type ItemType string

const (
	TypeEmail ItemType = "email"
	TypeTask  ItemType = "task"
)

func (t ItemType) Valid() bool {
	return t == TypeEmail || t == TypeTask
}

type Status string

const (
	StatusActive  Status = "active"
	StatusCleared Status = "cleared"
)

// Item is a triaged email or a user-created task.
// Email-only fields are nil for tasks.
type Item struct {
	ID     string   `json:"id" gorm:"primaryKey"`
	UserID string   `json:"user_id" gorm:"not null;index:idx_items_user_status,priority:1;uniqueIndex:idx_items_user_message,priority:1"`
	Type   ItemType `json:"type" gorm:"not null"`
	Lane   Lane     `json:"lane" gorm:"not null"`
	Status Status   `json:"status" gorm:"not null;default:active;index:idx_items_user_status,priority:2"`
	Title  string   `json:"title" gorm:"not null"`

	Snippet *string `json:"snippet,omitempty"`
	IsRead  bool    `json:"is_read" gorm:"not null;default:false"`

	ProviderMessageID *string    `json:"provider_message_id,omitempty" gorm:"uniqueIndex:idx_items_user_message,priority:2"`
	ProviderThreadID  *string    `json:"provider_thread_id,omitempty"`
	FromEmail         *string    `json:"from_email,omitempty"`
	FromName          *string    `json:"from_name,omitempty"`
	ReceivedAt        *time.Time `json:"received_at,omitempty"`

	CreatedAt time.Time  `json:"created_at" gorm:"not null;autoCreateTime:false;index"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	ClearedAt *time.Time `json:"cleared_at,omitempty"`
}

// ListFilter narrows a listing. The zero value lists active items of
// every lane and type.
type ListFilter struct {
	IncludeCleared bool
	Lane           *Lane
	Type           *ItemType
	Query          string // typo-tolerant match on title, sender and snippet
}

// Clear moves the item to cleared, re-stamping clearedAt if it already was.
func (i *Item) Clear(now time.Time) {
	i.Status = StatusCleared
	i.ClearedAt = &now
	i.UpdatedAt = now
}

// Restore reports whether the item changed.
func (i *Item) Restore(now time.Time) bool {
	if i.Status == StatusActive {
		return false
	}
	i.Status = StatusActive
	i.ClearedAt = nil
	i.UpdatedAt = now
	return true
}

// MoveTo reports whether the lane changed.
func (i *Item) MoveTo(lane Lane, now time.Time) bool {
	if i.Lane == lane {
		return false
	}
	i.Lane = lane
	i.UpdatedAt = now
	return true
}

// MarkRead reports whether the read flag changed. Tasks are always read.
func (i *Item) MarkRead(now time.Time) bool {
	if i.Type != TypeEmail || i.IsRead {
		return false
	}
	i.IsRead = true
	i.UpdatedAt = now
	return true
}

func (i *Item) Rename(title string, now time.Time) bool {
	if i.Title == title {
		return false
	}
	i.Title = title
	i.UpdatedAt = now
	return true
}

// HasProviderMessage reports whether read state can be propagated upstream.
func (i *Item) HasProviderMessage() bool {
	return i.Type == TypeEmail && i.ProviderMessageID != nil && *i.ProviderMessageID != ""
}
