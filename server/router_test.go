package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blackjack-tutor/server/advisor"
	"blackjack-tutor/server/alexa"
	"blackjack-tutor/server/ratelimit"
	"blackjack-tutor/server/skill"
	"blackjack-tutor/server/strategy"
)

type downStore struct{}

func (downStore) Ping(ctx context.Context) error { return errors.New("connection refused") }

func testDispatcher() *alexa.Dispatcher {
	bj := skill.New(advisor.NewResolver(strategy.NewTable(), nil), nil, nil)
	return alexa.NewDispatcher(bj, "", nil, nil).WithPrompts(skill.Prompts())
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(Router(testDispatcher(), nil, nil))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer res.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.StatusCode != http.StatusOK || body["ok"] != true {
		t.Fatalf("unexpected health %d %v", res.StatusCode, body)
	}
}

func TestHealthStoreDown(t *testing.T) {
	srv := httptest.NewServer(Router(testDispatcher(), downStore{}, nil))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.StatusCode)
	}
}

func TestAlexaRoute(t *testing.T) {
	srv := httptest.NewServer(Router(testDispatcher(), nil, nil))
	defer srv.Close()

	body := `{"version":"1.0","session":{"sessionId":"s","user":{"userId":"u"}},
	  "request":{"type":"IntentRequest","requestId":"r","intent":{"name":"BasicStrategyIntent",
	  "slots":{"HardTotal":{"name":"HardTotal","value":"16"},"DealerCard":{"name":"DealerCard","value":"king"}}}}}`
	res, err := http.Post(srv.URL+"/alexa", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer res.Body.Close()
	var out alexa.ResponseEnvelope
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(out.Response.OutputSpeech.Text, "You should ") ||
		!strings.Contains(out.Response.OutputSpeech.Text, "with 16 against a 10") {
		t.Fatalf("unexpected speech %q", out.Response.OutputSpeech.Text)
	}

	get, err := http.Get(srv.URL + "/alexa")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", get.StatusCode)
	}
}

// Every request here comes from 127.0.0.1, so only the user tells them apart.
func TestAlexaThrottlesPerUserNotAddress(t *testing.T) {
	srv := httptest.NewServer(Router(testDispatcher().WithLimiter(ratelimit.New(1)), nil, nil))
	defer srv.Close()

	help := func(user string) (int, alexa.ResponseEnvelope) {
		body := `{"version":"1.0","session":{"sessionId":"s-` + user + `","user":{"userId":"` + user + `"}},
		  "request":{"type":"IntentRequest","requestId":"r","intent":{"name":"AMAZON.HelpIntent"}}}`
		res, err := http.Post(srv.URL+"/alexa", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		defer res.Body.Close()
		var out alexa.ResponseEnvelope
		if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return res.StatusCode, out
	}

	for _, user := range []string{"amzn1.ask.account.A", "amzn1.ask.account.B"} {
		code, out := help(user)
		if code != http.StatusOK || !strings.HasPrefix(out.Response.OutputSpeech.Text, "You can ask questions") {
			t.Fatalf("%s: status %d speech %+v", user, code, out.Response.OutputSpeech)
		}
	}

	code, out := help("amzn1.ask.account.A")
	if code != http.StatusOK {
		t.Fatalf("throttled turns are answered, got status %d", code)
	}
	if out.Response.OutputSpeech.Text != skill.Prompts().Busy || out.Response.ShouldEndSession {
		t.Fatalf("unexpected throttled response %+v", out.Response)
	}
}
