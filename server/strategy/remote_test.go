package strategy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestRemoteRecommend(t *testing.T) {
	var got remoteRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"action":"hit"}`))
	}))
	defer srv.Close()

	eng := NewRemote(srv.URL, time.Second)
	a, err := eng.Recommend(context.Background(), []int{2, 9}, 1, DefaultRules().NoDouble())
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if a != Hit {
		t.Fatalf("expected hit, got %s", a)
	}
	if got.Dealer != 1 || len(got.Cards) != 2 || got.Decks != 1 || !got.DealerHitsSoft17 {
		t.Fatalf("unexpected request payload: %+v", got)
	}
	if got.Options.DoubleRange == nil || *got.Options.DoubleRange != [2]int{0, 0} {
		t.Fatalf("expected doubleRange [0,0], got %+v", got.Options.DoubleRange)
	}
	if got.Options.Complexity != ComplexityAdvanced {
		t.Fatalf("expected advanced complexity, got %q", got.Options.Complexity)
	}
}

func TestRemoteErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
		"unknown action": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"action":"fold"}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			if _, err := NewRemote(srv.URL, time.Second).Recommend(context.Background(), []int{10, 4}, 10, DefaultRules()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRemoteStatusErrorIsTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, time.Second).Recommend(context.Background(), []int{10, 4}, 10, DefaultRules())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "http 502") || len(err.Error()) > 260 {
		t.Fatalf("unexpected error text: %q", err.Error())
	}
}

func TestRemoteBodyIsCapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"action":"hit","pad":"` + strings.Repeat("x", 2<<20) + `"}`))
	}))
	defer srv.Close()

	if _, err := NewRemote(srv.URL, 5*time.Second).Recommend(context.Background(), []int{10, 4}, 10, DefaultRules()); err == nil {
		t.Fatal("expected an oversized body to be rejected")
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	s := strings.Repeat("é", 10) // 20 bytes
	got := truncate(s, 8)
	if !utf8.ValidString(got) || !strings.HasSuffix(got, "...") || len(got) > 8 {
		t.Fatalf("truncate(%q, 8) = %q", s, got)
	}
	if got := truncate("short", 200); got != "short" {
		t.Fatalf("short strings pass through, got %q", got)
	}
}
