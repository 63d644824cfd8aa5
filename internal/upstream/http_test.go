package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vinifvision/alerta-conecta-mobile/internal/models"
	"github.com/vinifvision/alerta-conecta-mobile/internal/service"
)

func TestHTTPStoreGetAllDecodesMixedShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/occurrence/getall" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"id": 1, "titule": "Legado", "status": "Em andamento", "type": {"id": 1, "name": "Incêndio"}},
			{"id": 2, "title": "Atual", "status": "Encerrada", "type": 2, "address": "Rua X, Recife"}
		]`))
	}))
	defer srv.Close()

	store := &HTTPStore{BaseURL: srv.URL}
	incidents, err := store.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("expected 2 incidents, got %d", len(incidents))
	}
	if incidents[0].Title != "Legado" || incidents[0].Status != models.StatusInProgress {
		t.Fatalf("legacy record not decoded: %+v", incidents[0])
	}
	if incidents[1].Address.Display != "Rua X, Recife" {
		t.Fatalf("current record not decoded: %+v", incidents[1])
	}
}

func TestHTTPStoreGetByIDNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such occurrence", http.StatusNotFound)
	}))
	defer srv.Close()

	store := &HTTPStore{BaseURL: srv.URL}
	if _, err := store.GetByID(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHTTPStoreCreateEmptyBodyIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/occurrence/registry" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := &HTTPStore{BaseURL: srv.URL}
	inc, err := store.Create(context.Background(), service.Submission{Title: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inc != nil {
		t.Fatalf("empty body should yield nil incident, got %+v", inc)
	}
}

func TestHTTPStoreCapturesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message": "titule requerido"}`))
	}))
	defer srv.Close()

	store := &HTTPStore{BaseURL: srv.URL}
	_, err := store.Create(context.Background(), service.Submission{})
	var serr *SubmissionError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SubmissionError, got %v", err)
	}
	if serr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", serr.StatusCode)
	}
	if serr.Body != `{"message": "titule requerido"}` {
		t.Fatalf("raw body not preserved: %q", serr.Body)
	}
}

func TestHTTPStoreConcurrentRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	// One store without an explicit client, shared by parallel requests,
	// must not mutate itself while serving them.
	store := &HTTPStore{BaseURL: srv.URL}
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.GetAll(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHTTPStoreForwardsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	store := &HTTPStore{BaseURL: srv.URL}
	ctx := WithToken(context.Background(), "abc123")
	if _, err := store.GetAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("token not forwarded: %q", gotAuth)
	}
}
