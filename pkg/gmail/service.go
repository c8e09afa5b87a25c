package gmail

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	emaildomain "triage-backend/internal/email/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	user          = "me"
	labelInbox    = "INBOX"
	labelUnread   = "UNREAD"
	noSubject     = "(no subject)"
	defaultFanout = 10
)

type Service struct {
	endpoint    string
	httpClient  *http.Client
	concurrency int
	log         *logrus.Entry
}

// NewService builds a Gmail client factory. An empty endpoint uses the
// public API; httpClient supplies timeouts for every call.
func NewService(endpoint string, httpClient *http.Client, concurrency int) *Service {
	if endpoint != "" && !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	if concurrency <= 0 {
		concurrency = defaultFanout
	}
	return &Service{
		endpoint:    endpoint,
		httpClient:  httpClient,
		concurrency: concurrency,
		log:         logrus.WithField("component", "gmail"),
	}
}

// GetGmailService creates Gmail service with user's access token
func (s *Service) GetGmailService(ctx context.Context, accessToken string) (*gmail.Service, error) {
	if s.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	}
	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}

	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}
	return srv, nil
}

// FetchRecent lists up to limit inbox messages and fetches their metadata
// concurrently. Messages whose metadata call fails are dropped; the rest
// keep the provider's list order.
func (s *Service) FetchRecent(ctx context.Context, accessToken string, limit int64, pageToken string) (*emaildomain.FetchResult, error) {
	srv, err := s.GetGmailService(ctx, accessToken)
	if err != nil {
		return nil, emaildomain.NewProviderError("connect", err)
	}

	call := srv.Users.Messages.List(user).
		LabelIds(labelInbox).
		MaxResults(limit).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, emaildomain.NewProviderError("list messages", err)
	}

	fetched := make([]*emaildomain.CanonicalEmail, len(resp.Messages))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, ref := range resp.Messages {
		g.Go(func() error {
			msg, err := srv.Users.Messages.Get(user, ref.Id).
				Format("metadata").
				MetadataHeaders("From", "Subject").
				Context(ctx).
				Do()
			if err != nil {
				s.log.WithError(err).WithField("message_id", ref.Id).Warn("dropping message: metadata fetch failed")
				return nil
			}
			fetched[i] = convertGmailMessage(msg)
			return nil
		})
	}
	_ = g.Wait()

	emails := make([]*emaildomain.CanonicalEmail, 0, len(fetched))
	for _, e := range fetched {
		if e != nil {
			emails = append(emails, e)
		}
	}

	return &emaildomain.FetchResult{
		Emails:        emails,
		NextPageToken: resp.NextPageToken,
	}, nil
}

// MarkAsRead removes the UNREAD label from a message
func (s *Service) MarkAsRead(ctx context.Context, accessToken, messageID string) error {
	srv, err := s.GetGmailService(ctx, accessToken)
	if err != nil {
		return emaildomain.NewProviderError("connect", err)
	}

	modifyReq := &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{labelUnread},
	}
	if _, err := srv.Users.Messages.Modify(user, messageID, modifyReq).Context(ctx).Do(); err != nil {
		return emaildomain.NewProviderError("modify labels", err)
	}
	return nil
}

func convertGmailMessage(msg *gmail.Message) *emaildomain.CanonicalEmail {
	var headers []*gmail.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	subject := strings.TrimSpace(getHeader(headers, "Subject"))
	if subject == "" {
		subject = noSubject
	}

	return &emaildomain.CanonicalEmail{
		ProviderMessageID: msg.Id,
		ProviderThreadID:  msg.ThreadId,
		Subject:           subject,
		Snippet:           plainSnippet(msg.Snippet),
		From:              emaildomain.ParseSender(getHeader(headers, "From")),
		ReceivedAt:        time.UnixMilli(msg.InternalDate).UTC(),
		IsRead:            !hasLabel(msg.LabelIds, labelUnread),
	}
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

func hasLabel(labels []string, labelID string) bool {
	for _, label := range labels {
		if label == labelID {
			return true
		}
	}
	return false
}

// plainSnippet strips markup and entities the provider leaves in snippets.
func plainSnippet(snippet string) string {
	if !strings.ContainsAny(snippet, "<&") {
		return strings.TrimSpace(snippet)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return strings.TrimSpace(snippet)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
