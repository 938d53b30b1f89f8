package session

import (
	"context"
	"errors"
	"testing"

	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

type memoryStore struct {
	record   *models.SessionRecord
	loads    int
	clearErr error
}

func (m *memoryStore) LoadSession(context.Context) (*models.SessionRecord, error) {
	m.loads++
	if m.record == nil {
		return nil, store.ErrNoSession
	}
	r := *m.record
	return &r, nil
}

func (m *memoryStore) SaveSession(_ context.Context, record models.SessionRecord) error {
	m.record = &record
	return nil
}

func (m *memoryStore) ClearSession(context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.record = nil
	return nil
}

func (m *memoryStore) LoadCookies(context.Context, string) ([]models.CookieRecord, error) {
	return nil, nil
}

func (m *memoryStore) SaveCookies(context.Context, string, []models.CookieRecord) error {
	return nil
}

func (m *memoryStore) RecordExport(_ context.Context, r models.ExportRecord) (*models.ExportRecord, error) {
	return &r, nil
}

func (m *memoryStore) ListExports(context.Context, string, int) ([]models.ExportRecord, error) {
	return nil, nil
}

func (m *memoryStore) Close() {}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	if err != nil {
		t.Fatalf("unable to sign token: %v", err)
	}
	return token
}

func TestDecodeToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"userId": "u-1", "name": "Hana", "email": "hana@example.com"})

	identity, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("DecodeToken failed: %v", err)
	}
	want := models.Identity{UserId: "u-1", Name: "Hana", Email: "hana@example.com"}
	if identity != want {
		t.Errorf("got %+v, want %+v", identity, want)
	}
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := map[string]string{
		"garbage":        "not-a-token",
		"missing userId": signToken(t, jwt.MapClaims{"name": "Hana"}),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestHolder_InitReadsStoreOnce(t *testing.T) {
	ms := &memoryStore{record: &models.SessionRecord{UserId: "u-1", Name: "Hana", Email: "h@x.co", Token: "tok"}}
	h := NewHolder(ms)

	if err := h.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := h.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if ms.loads != 1 {
		t.Errorf("expected one store read, got %d", ms.loads)
	}

	identity, ok := h.Current()
	if !ok || identity.UserId != "u-1" || h.Token() != "tok" {
		t.Errorf("unexpected restored session %+v (ok=%v)", identity, ok)
	}
}

func TestHolder_InitWithoutSession(t *testing.T) {
	h := NewHolder(&memoryStore{})
	if err := h.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if h.SignedIn() {
		t.Error("expected signed out")
	}
	if _, err := h.Require(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestHolder_SetAndClear(t *testing.T) {
	ms := &memoryStore{}
	h := NewHolder(ms)
	token := signToken(t, jwt.MapClaims{"userId": "u-2", "name": "Karim", "email": "k@x.co"})

	identity, err := h.Set(context.Background(), token)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if identity.Name != "Karim" || !h.SignedIn() {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if ms.record == nil || ms.record.Token != token || ms.record.UserId != "u-2" {
		t.Fatalf("session not persisted: %+v", ms.record)
	}

	if err := h.Clear(context.Background()); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if h.SignedIn() || ms.record != nil || h.Token() != "" {
		t.Error("expected memory and store to be cleared")
	}
}

func TestHolder_ClearEmptiesMemoryWhenStoreFails(t *testing.T) {
	ms := &memoryStore{
		record:   &models.SessionRecord{UserId: "u-1", Token: "tok"},
		clearErr: errors.New("disk full"),
	}
	h := NewHolder(ms)
	if err := h.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if err := h.Clear(context.Background()); err == nil {
		t.Fatal("expected store error")
	}
	if h.SignedIn() {
		t.Error("memory must be cleared even when the store fails")
	}
}

func TestHolder_SetRejectsBadToken(t *testing.T) {
	ms := &memoryStore{}
	h := NewHolder(ms)

	if _, err := h.Set(context.Background(), "bad"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if ms.record != nil || h.SignedIn() {
		t.Error("a rejected token must not change the session")
	}
}
