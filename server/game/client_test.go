package game

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"blackjack-tutor/server/apperr"
)

const stateJSON = `{"userID":"u-1","possibleActions":["hit","stand"],"playerHands":[{"cards":[10,6]}]}`

func TestFetchSendsUserID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.URL.Query().Get("userID"); got != "amzn1.ask.account.X" {
			t.Errorf("unexpected userID %q", got)
		}
		_, _ = io.WriteString(w, stateJSON)
	}))
	defer srv.Close()

	s, err := NewHTTPService(srv.URL, time.Second).Fetch(context.Background(), "amzn1.ask.account.X")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if s.UserID != "u-1" || len(s.PossibleActions) != 2 {
		t.Fatalf("unexpected session: %+v", s)
	}
	if string(s.Raw) != stateJSON {
		t.Fatalf("raw state not preserved: %s", s.Raw)
	}
}

func TestPostBody(t *testing.T) {
	cases := map[string]string{
		"hit": "userID=u-1&action=hit",
		"bet": "userID=u-1&action=bet&value=100",
	}
	for action, want := range cases {
		t.Run(action, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				b, _ := io.ReadAll(r.Body)
				if string(b) != want {
					t.Errorf("body = %q, want %q", b, want)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
					t.Errorf("unexpected content type %q", ct)
				}
				_, _ = io.WriteString(w, stateJSON)
			}))
			defer srv.Close()

			if _, err := NewHTTPService(srv.URL, time.Second).Post(context.Background(), "u-1", action); err != nil {
				t.Fatalf("Post: %v", err)
			}
		})
	}
}

func TestTransportErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		code    apperr.Code
	}{
		{"non-200", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, stateJSON)
		}, apperr.CodeRemoteStatus},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}, apperr.CodeRemoteStatus},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<html>")
		}, apperr.CodeRemoteMalformed},
		{"no user", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"possibleActions":["hit"]}`)
		}, apperr.CodeRemoteMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			_, err := NewHTTPService(srv.URL, time.Second).Fetch(context.Background(), "u-1")
			if apperr.KindOf(err) != apperr.Transport {
				t.Fatalf("expected transport error, got %v", err)
			}
			if !errors.Is(err, &apperr.Error{Code: tc.code}) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPService(url, time.Second).Post(context.Background(), "u-1", "hit")
	if !errors.Is(err, &apperr.Error{Code: apperr.CodeRemoteNetwork}) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	s := "ошибка сервера" // Cyrillic, two bytes per letter
	got := truncate(s, 10)
	if !utf8.ValidString(got) || len(got) > 10 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate(%q, 10) = %q", s, got)
	}
}
