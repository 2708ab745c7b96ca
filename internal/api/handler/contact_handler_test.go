package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
	"github.com/yaswanth810/Women-Safety-Platform/internal/core/ports"
)

func TestContactHandler_Add(t *testing.T) {
	stub := &stubContactService{
		addFn: func(ctx context.Context, actor domain.Actor, in ports.ContactInput) (*domain.EmergencyContact, error) {
			if in.Name != "Mum" || in.Phone != "+15550001" || in.Relationship != "mother" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.EmergencyContact{ID: "c-1", UserID: actor.UserID, Name: in.Name, Phone: in.Phone}, nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/contacts", strings.NewReader(`{"name":"Mum","phone":"+15550001","relationship":"mother"}`))
	withActor(c, "r-1", domain.RoleReporter)

	if err := h.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "r-1") {
		t.Fatalf("owner id must not be serialised: %s", rec.Body.String())
	}
}

func TestContactHandler_Add_InvalidEmail(t *testing.T) {
	h := NewContactHandler(&stubContactService{})

	c, _ := newContext(http.MethodPost, "/v1/contacts", strings.NewReader(`{"name":"Mum","phone":"+15550001","email":"nope"}`))
	withActor(c, "r-1", domain.RoleReporter)

	expectHTTPError(t, h.Add(c), http.StatusUnprocessableEntity)
}

func TestContactHandler_Remove(t *testing.T) {
	stub := &stubContactService{
		removeFn: func(ctx context.Context, actor domain.Actor, id string) error {
			if id == "missing" {
				return domain.ErrContactNotFound
			}
			return nil
		},
	}
	h := NewContactHandler(stub)

	c, rec := newContext(http.MethodDelete, "/v1/contacts/c-1", nil)
	c.SetParamNames("id")
	c.SetParamValues("c-1")
	withActor(c, "r-1", domain.RoleReporter)
	if err := h.Remove(c); err != nil || rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d (err %v)", rec.Code, err)
	}

	c, _ = newContext(http.MethodDelete, "/v1/contacts/missing", nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	withActor(c, "r-1", domain.RoleReporter)
	if err := h.Remove(c); !errors.Is(err, domain.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}
