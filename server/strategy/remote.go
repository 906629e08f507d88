package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// Remote asks an external strategy engine over HTTP.
type Remote struct {
	URL    string
	Client *http.Client
}

func NewRemote(url string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Remote{
		URL:    strings.TrimRight(strings.TrimSpace(url), "/"),
		Client: &http.Client{Timeout: timeout},
	}
}

type remoteRequest struct {
	Cards            []int `json:"cards"`
	Dealer           int   `json:"dealer"`
	Decks            int   `json:"decks"`
	DealerHitsSoft17 bool  `json:"dealerHitsSoft17"`
	Options          Rules `json:"options"`
}

func (r *Remote) Recommend(ctx context.Context, cards []int, dealer int, rules Rules) (Action, error) {
	if r.URL == "" {
		return "", errors.New("strategy engine url missing")
	}
	b, err := json.Marshal(remoteRequest{
		Cards:            cards,
		Dealer:           dealer,
		Decks:            rules.Decks,
		DealerHitsSoft17: rules.DealerHitsSoft17,
		Options:          rules,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, 1<<20)); err != nil {
		return "", fmt.Errorf("read strategy response: %w", err)
	}
	body := buf.Bytes()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("strategy engine http %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode strategy response: %w", err)
	}
	return ParseAction(out.Action)
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
