package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	emaildomain "triage-backend/internal/email/domain"
	itemdomain "triage-backend/internal/item/domain"
	"triage-backend/pkg/ai"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const classifierPreamble = `You are triaging a personal inbox. Assign each email below to exactly one lane:

- reply: a real person is waiting for a personal response from me.
- action: I must do something other than reply (pay, sign, book, fix, review, confirm).
- read: worth reading but needs no action (newsletters I chose, updates, announcements).
- reference: keep for later, no immediate reading needed (receipts, notifications, automated mail).

Return ONLY a JSON array with one object per email, in the same order as the input,
of the form [{"lane":"reply"},{"lane":"reference"}]. Do not add commentary.

Emails:
`

// Classifier assigns lanes to a batch with a single inference call.
// It never retries; repeated failures open a circuit breaker so the
// pipeline falls back without waiting on a dead endpoint.
type Classifier struct {
	completer ai.Completer
	breaker   *gobreaker.CircuitBreaker
}

func NewClassifier(completer ai.Completer) *Classifier {
	log := logrus.WithField("component", "classifier")
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "inference",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Warn("inference circuit changed state")
		},
	})
	return &Classifier{completer: completer, breaker: breaker}
}

// Classify returns one lane per input, in input order.
func (c *Classifier) Classify(ctx context.Context, batch []emaildomain.ClassifyInput) ([]itemdomain.Lane, error) {
	if len(batch) == 0 {
		return []itemdomain.Lane{}, nil
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.completer.Complete(ctx, BuildPrompt(batch))
	})
	if err != nil {
		return nil, &emaildomain.ClassificationError{Reason: "inference call failed", Err: err}
	}

	return ParseLanes(out.(string), len(batch))
}

// BuildPrompt embeds the batch indexed [0..n).
func BuildPrompt(batch []emaildomain.ClassifyInput) string {
	var b strings.Builder
	b.WriteString(classifierPreamble)
	for i, in := range batch {
		fmt.Fprintf(&b, "\n[%d] From: %s <%s>\nSubject: %s\nSnippet: %s\n",
			i, in.SenderName, in.SenderEmail, in.Subject, in.Snippet)
	}
	return b.String()
}

// ParseLanes extracts the first JSON array from a free-text reply. Entries
// may be {"lane": "..."} objects or bare strings; invalid or missing entries
// become the fallback lane. A reply without a parseable array is an error.
func ParseLanes(reply string, n int) ([]itemdomain.Lane, error) {
	entries, ok := firstJSONArray(reply)
	if !ok {
		return nil, &emaildomain.ClassificationError{Reason: "no JSON array in model reply"}
	}

	lanes := make([]itemdomain.Lane, n)
	for i := range lanes {
		lanes[i] = itemdomain.FallbackLane
		if i < len(entries) {
			if lane, ok := laneFromEntry(entries[i]); ok {
				lanes[i] = lane
			}
		}
	}
	return lanes, nil
}

func firstJSONArray(s string) ([]json.RawMessage, bool) {
	for start := strings.IndexByte(s, '['); start >= 0; {
		var entries []json.RawMessage
		dec := json.NewDecoder(strings.NewReader(s[start:]))
		if err := dec.Decode(&entries); err == nil {
			return entries, true
		}
		next := strings.IndexByte(s[start+1:], '[')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

func laneFromEntry(raw json.RawMessage) (itemdomain.Lane, bool) {
	var obj struct {
		Lane string `json:"lane"`
	}
	var name string
	if err := json.Unmarshal(raw, &obj); err == nil {
		name = obj.Lane
	} else if err := json.Unmarshal(raw, &name); err != nil {
		return "", false
	}

	lane := itemdomain.Lane(strings.ToLower(strings.TrimSpace(name)))
	return lane, lane.Valid()
}
