package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evlive/lounge/internal/lounge"
	"github.com/evlive/lounge/internal/model"
)

func TestFetchLoungeState(t *testing.T) {
	snap := lounge.Snapshot{
		EventID: 5,
		Version: 2,
		Tables: []lounge.TableState{
			{ID: "t1", Name: "Fireside", MaxSeats: 4, Seats: map[int]model.Occupant{0: {UserID: "u1"}}},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/events/5/lounge" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization header = %q, want bearer tok", got)
		}
		_ = json.NewEncoder(w).Encode(snap)
	}))
	defer srv.Close()

	rc := NewREST(srv.URL, "tok", nil)
	got, err := rc.FetchLoungeState(context.Background(), 5)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Version != 2 || len(got.Tables) != 1 || got.Tables[0].Seats[0].UserID != "u1" {
		t.Fatalf("snapshot = %+v, want served snapshot", got)
	}
}

func TestJoinTablePrimaryURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/events/5/lounge/tables/t1/join" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(BreakoutJoin{Token: "breakout", TableID: "t1", SeatIndex: 2})
	}))
	defer srv.Close()

	rc := NewREST(srv.URL, "tok", nil)
	join, err := rc.JoinTable(context.Background(), 5, "t1", 2)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if join.Token != "breakout" || join.SeatIndex != 2 {
		t.Fatalf("join = %+v, want breakout token for seat 2", join)
	}
}

func TestJoinTableLegacyFallback(t *testing.T) {
	var primaryHits, legacyHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/events/5/lounge/tables/t1/join":
			primaryHits++
			http.NotFound(w, r)
		case "/v1/lounge/5/tables/t1/join":
			legacyHits++
			_ = json.NewEncoder(w).Encode(BreakoutJoin{Token: "legacy", TableID: "t1", SeatIndex: 0})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	rc := NewREST(srv.URL, "tok", nil)
	join, err := rc.JoinTable(context.Background(), 5, "t1", 0)
	if err != nil {
		t.Fatalf("join via legacy: %v", err)
	}
	if join.Token != "legacy" {
		t.Fatalf("token = %q, want legacy", join.Token)
	}
	if primaryHits != 1 || legacyHits != 1 {
		t.Fatalf("hits primary/legacy = %d/%d, want 1/1", primaryHits, legacyHits)
	}
}

func TestJoinTableLegacyRetriesOnce(t *testing.T) {
	var legacyHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/events/5/lounge/tables/t1/join":
			http.NotFound(w, r)
		case "/v1/lounge/5/tables/t1/join":
			legacyHits++
			if legacyHits == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_ = json.NewEncoder(w).Encode(BreakoutJoin{Token: "second-try", TableID: "t1"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	rc := NewREST(srv.URL, "tok", nil)
	join, err := rc.JoinTable(context.Background(), 5, "t1", 0)
	if err != nil {
		t.Fatalf("join after retry: %v", err)
	}
	if join.Token != "second-try" || legacyHits != 2 {
		t.Fatalf("join = %+v after %d legacy hits, want second-try after 2", join, legacyHits)
	}
}

func TestJoinTableSurfacesFailureAfterRetry(t *testing.T) {
	var legacyHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/lounge/5/tables/t1/join" {
			legacyHits++
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	rc := NewREST(srv.URL, "tok", nil)
	if _, err := rc.JoinTable(context.Background(), 5, "t1", 0); err == nil {
		t.Fatal("join succeeded, want surfaced failure")
	}
	if legacyHits != 2 {
		t.Fatalf("legacy hits = %d, want 2 (fallback + one retry)", legacyHits)
	}
}

func TestCreateTableLegacyFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/events/5/lounge/tables":
			http.NotFound(w, r)
		case "/v1/lounge/5/tables":
			var body struct {
				Name     string `json:"name"`
				MaxSeats int    `json:"max_seats"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(lounge.TableState{ID: "new", Name: body.Name, MaxSeats: body.MaxSeats})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	rc := NewREST(srv.URL, "tok", nil)
	table, err := rc.CreateTable(context.Background(), 5, "Quiet Corner", 6)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if table.ID != "new" || table.Name != "Quiet Corner" || table.MaxSeats != 6 {
		t.Fatalf("table = %+v, want created via legacy", table)
	}
}
