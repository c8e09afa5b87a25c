package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	emaildomain "triage-backend/internal/email/domain"
	itemdomain "triage-backend/internal/item/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.reply, s.err
}

func batchOf(n int) []emaildomain.ClassifyInput {
	out := make([]emaildomain.ClassifyInput, n)
	for i := range out {
		out[i] = emaildomain.ClassifyInput{Subject: "s", Snippet: "x", SenderName: "n", SenderEmail: "e@x.io"}
	}
	return out
}

func TestParseLanes(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		n     int
		want  []itemdomain.Lane
	}{
		{
			name:  "plain array",
			reply: `[{"lane":"reply"},{"lane":"action"}]`,
			n:     2,
			want:  []itemdomain.Lane{itemdomain.LaneReply, itemdomain.LaneAction},
		},
		{
			name:  "fenced with prose",
			reply: "Sure! Here you go:\n```json\n[{\"lane\":\"read\"}, {\"lane\":\"reference\"}]\n```\nLet me know [if needed].",
			n:     2,
			want:  []itemdomain.Lane{itemdomain.LaneRead, itemdomain.LaneReference},
		},
		{
			name:  "invalid and missing entries fall back",
			reply: `[{"lane":"urgent"},{"nope":true}]`,
			n:     3,
			want:  []itemdomain.Lane{itemdomain.LaneReference, itemdomain.LaneReference, itemdomain.LaneReference},
		},
		{
			name:  "bare strings and case",
			reply: `["Reply", " action "]`,
			n:     2,
			want:  []itemdomain.Lane{itemdomain.LaneReply, itemdomain.LaneAction},
		},
		{
			name:  "extra entries ignored",
			reply: `[{"lane":"read"},{"lane":"reply"}]`,
			n:     1,
			want:  []itemdomain.Lane{itemdomain.LaneRead},
		},
		{
			name:  "bracket in prose before the array",
			reply: `Lanes [see below]: [{"lane":"action"}]`,
			n:     1,
			want:  []itemdomain.Lane{itemdomain.LaneAction},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLanes(tc.reply, tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLanesWithoutArray(t *testing.T) {
	_, err := ParseLanes("I cannot help with that.", 2)
	var cerr *emaildomain.ClassificationError
	assert.ErrorAs(t, err, &cerr)
}

func TestClassifyBuildsIndexedPrompt(t *testing.T) {
	stub := &stubCompleter{reply: `[{"lane":"reply"},{"lane":"read"}]`}
	c := NewClassifier(stub)

	batch := []emaildomain.ClassifyInput{
		{Subject: "Dinner?", Snippet: "are you in", SenderName: "Ada", SenderEmail: "ada@example.com"},
		{Subject: "Weekly digest", Snippet: "top stories", SenderName: "News", SenderEmail: "news@example.com"},
	}
	lanes, err := c.Classify(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, []itemdomain.Lane{itemdomain.LaneReply, itemdomain.LaneRead}, lanes)

	assert.Contains(t, stub.prompt, "[0] From: Ada <ada@example.com>\nSubject: Dinner?\nSnippet: are you in")
	assert.Contains(t, stub.prompt, "[1] From: News <news@example.com>")
	assert.Less(t, strings.Index(stub.prompt, "[0]"), strings.Index(stub.prompt, "[1]"))
}

func TestClassifyInferenceFailureIsSingleFatalError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("503 overloaded")}
	c := NewClassifier(stub)

	_, err := c.Classify(context.Background(), batchOf(3))
	var cerr *emaildomain.ClassificationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, stub.calls)
}

func TestClassifyBreakerOpensAfterRepeatedFailures(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	c := NewClassifier(stub)

	for i := 0; i < 5; i++ {
		_, err := c.Classify(context.Background(), batchOf(1))
		require.Error(t, err)
	}
	assert.Equal(t, 3, stub.calls)
}

func TestClassifyEmptyBatchSkipsInference(t *testing.T) {
	stub := &stubCompleter{}
	lanes, err := NewClassifier(stub).Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, lanes)
	assert.Zero(t, stub.calls)
}
