package resources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/csheth/benotes/internal/catalog"
)

func TestClientFetchGroupsRecords(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/api/notes" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("faculty") != "computer" || q.Get("semester") != "3" || q.Get("subject") != "C++ & Data Structures" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"type":"Question","link":"https://files.example/q1.pdf"},
			{"type":"Notes","link":"https://files.example/n1.pdf","originalName":"Unit 1"},
			{"type":"Unknown","link":"https://files.example/u1.pdf"},
			{"type":"Syllabus","link":"https://files.example/s1.pdf","originalName":"Syllabus 2024"}
		]`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL+"/", server.Client())
	plan, err := client.Fetch(context.Background(), Query{Program: "computer", Semester: 3, Subject: "C++ & Data Structures"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected exactly one request, got %d", got)
	}

	wantOrder := []Type{Syllabus, Notes, Question}
	if len(plan.Groups) != len(wantOrder) {
		t.Fatalf("got %d groups, want %d: %#v", len(plan.Groups), len(wantOrder), plan.Groups)
	}
	for i, want := range wantOrder {
		if plan.Groups[i].Type != want {
			t.Fatalf("group %d = %q, want %q", i, plan.Groups[i].Type, want)
		}
	}
	notes, _ := plan.Group(Notes)
	if len(notes) != 2 || notes[0].Label() != "Unit 1" || notes[1].Type != "Unknown" {
		t.Fatalf("unexpected notes bucket: %#v", notes)
	}
	if notes[1].Label() != "View PDF" {
		t.Fatalf("expected fallback label, got %q", notes[1].Label())
	}
}

func TestClientFetchEmptyResult(t *testing.T) {
	for _, body := range []string{`[]`, `null`} {
		body := body
		t.Run(body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(server.Close)

			plan, err := NewClient(server.URL, server.Client()).Fetch(context.Background(), Query{Program: "civil", Semester: 1, Subject: "Surveying I"})
			if err != nil {
				t.Fatalf("empty result must not be an error: %v", err)
			}
			if !plan.Empty() {
				t.Fatalf("expected empty plan, got %#v", plan)
			}
		})
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    ErrorKind
		status  int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			kind:   KindServer,
			status: http.StatusInternalServerError,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			kind:   KindServer,
			status: http.StatusNotFound,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"type":`))
			},
			kind: KindDecode,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			t.Cleanup(server.Close)

			_, err := NewClient(server.URL, server.Client()).Fetch(context.Background(), Query{Program: "civil", Semester: 1, Subject: "Surveying I"})
			var fetchErr *Error
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if fetchErr.Kind != tt.kind {
				t.Fatalf("kind = %v, want %v", fetchErr.Kind, tt.kind)
			}
			if fetchErr.Status != tt.status {
				t.Fatalf("status = %d, want %d", fetchErr.Status, tt.status)
			}
		})
	}
}

func TestClientFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, nil).Fetch(context.Background(), Query{Program: "civil", Semester: 1, Subject: "Surveying I"})
	var fetchErr *Error
	if !errors.As(err, &fetchErr) || fetchErr.Kind != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestClientRejectsIncompleteQuery(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", nil)
	for _, q := range []Query{
		{Semester: 1, Subject: "X"},
		{Program: "civil", Subject: "X"},
		{Program: "civil", Semester: 2},
	} {
		if _, err := client.Fetch(context.Background(), q); !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("query %#v: expected ErrInvalidQuery, got %v", q, err)
		}
	}
}

func TestClientRejectsSemesterOutOfRange(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, server.Client())
	for _, sem := range []int{catalog.SemesterCount + 1, 12} {
		q := Query{Program: "computer", Semester: sem, Subject: "Data Mining"}
		if _, err := client.Fetch(context.Background(), q); !errors.Is(err, ErrInvalidQuery) {
			t.Fatalf("semester %d: expected ErrInvalidQuery, got %v", sem, err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 0 {
		t.Fatalf("invalid queries reached the service %d times", got)
	}
	if _, err := client.Fetch(context.Background(), Query{Program: "computer", Semester: catalog.SemesterCount, Subject: "Data Mining"}); err != nil {
		t.Fatalf("last semester rejected: %v", err)
	}
}

func TestQueryURLEscapesSubject(t *testing.T) {
	client := NewClient("https://notes.example", nil)
	got := client.URL(Query{Program: "computer", Semester: 2, Subject: "C++ & OOP"})
	want := "https://notes.example/api/notes?faculty=computer&semester=2&subject=C%2B%2B+%26+OOP"
	if got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}
