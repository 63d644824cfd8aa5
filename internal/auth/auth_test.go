package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestMockAuthenticator(t *testing.T) {
	a := MockAuthenticator{}
	ctx := context.Background()

	user, err := a.Login(ctx, "12345678900", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Token == "" {
		t.Fatal("mock login must return a token")
	}

	if _, err := a.Login(ctx, "", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Login(ctx, "12345678900", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHTTPAuthenticatorSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"status": "sucesso", "name": "Maria", "cpf": "12345678900", "token": "tk1"}`))
	}))
	defer srv.Close()

	a := &HTTPAuthenticator{BaseURL: srv.URL}
	user, err := a.Login(context.Background(), "12345678900", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Maria" || user.Token != "tk1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestHTTPAuthenticatorConcurrentLogins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "sucesso", "token": "tk"}`))
	}))
	defer srv.Close()

	// One authenticator without an explicit client, shared by parallel
	// logins, must not mutate itself while serving them.
	a := &HTTPAuthenticator{BaseURL: srv.URL}
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := a.Login(context.Background(), "12345678900", "s3cret"); err != nil {
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

func TestHTTPAuthenticatorRejects404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "usuário não encontrado"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	a := &HTTPAuthenticator{BaseURL: srv.URL}
	if _, err := a.Login(context.Background(), "000", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHTTPAuthenticatorRejectsNonSuccessStatusField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "erro", "message": "senha incorreta"}`))
	}))
	defer srv.Close()

	a := &HTTPAuthenticator{BaseURL: srv.URL}
	_, err := a.Login(context.Background(), "12345678900", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
