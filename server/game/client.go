package game

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"blackjack-tutor/server/apperr"
)

// BetAmount is the fixed stake sent with every bet action.
const BetAmount = 100

const commsError = "I'm sorry, there was a communications error with the game service. What else can I help with?"

// Service is the remote game service. Calls are made at most once; nothing
// here retries, since repeating a post such as a bet would repeat its effect.
type Service interface {
	Fetch(ctx context.Context, userID string) (*Session, error)
	Post(ctx context.Context, userID, action string) (*Session, error)
}

// HTTPService talks to the game service endpoint.
type HTTPService struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPService(endpoint string, timeout time.Duration) *HTTPService {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPService{
		Endpoint: strings.TrimSpace(endpoint),
		Client:   &http.Client{Timeout: timeout},
	}
}

func (h *HTTPService) Fetch(ctx context.Context, userID string) (*Session, error) {
	u := h.Endpoint + "?" + url.Values{"userID": {userID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transport, apperr.CodeRemoteNetwork, commsError, err)
	}
	req.Header.Set("Accept", "application/json")
	return h.do(req)
}

func (h *HTTPService) Post(ctx context.Context, userID, action string) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, strings.NewReader(postBody(userID, action)))
	if err != nil {
		return nil, apperr.Wrap(apperr.Transport, apperr.CodeRemoteNetwork, commsError, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return h.do(req)
}

// postBody keeps the service's field order: userID, action, then value for bets.
func postBody(userID, action string) string {
	body := "userID=" + url.QueryEscape(userID) + "&action=" + url.QueryEscape(action)
	if action == "bet" {
		body += fmt.Sprintf("&value=%d", BetAmount)
	}
	return body
}

func (h *HTTPService) do(req *http.Request) (*Session, error) {
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transport, apperr.CodeRemoteNetwork, commsError, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, 1<<20)); err != nil {
		return nil, apperr.Wrap(apperr.Transport, apperr.CodeRemoteNetwork, commsError, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Wrap(apperr.Transport, apperr.CodeRemoteStatus, commsError,
			fmt.Errorf("game service http %d: %s", resp.StatusCode, truncate(buf.String(), 200)))
	}
	s, err := DecodeSession(buf.Bytes())
	if err != nil {
		return nil, apperr.Wrap(apperr.Transport, apperr.CodeRemoteMalformed, commsError, err)
	}
	return s, nil
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := max(n-3, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
