package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/store"
)

func setupSessionTestDB(t *testing.T) *Service {
	t.Helper()

	service, err := NewService(context.Background(), models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "session.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(service.Close)
	return service
}

func TestNewService_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.DatabaseConfig
	}{
		{"empty path", models.DatabaseConfig{MaxOpenConns: 1, PingTimeout: time.Second}},
		{"no connections", models.DatabaseConfig{Path: "x.db", PingTimeout: time.Second}},
		{"negative idle", models.DatabaseConfig{Path: "x.db", MaxOpenConns: 1, MaxIdleConns: -1, PingTimeout: time.Second}},
		{"no ping timeout", models.DatabaseConfig{Path: "x.db", MaxOpenConns: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewService(context.Background(), tt.cfg); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestLoadSession_Empty(t *testing.T) {
	service := setupSessionTestDB(t)

	_, err := service.LoadSession(context.Background())
	if !errors.Is(err, store.ErrNoSession) {
		t.Fatalf("Expected ErrNoSession, got %v", err)
	}
}

func TestSaveSession_RoundTrip(t *testing.T) {
	service := setupSessionTestDB(t)
	ctx := context.Background()

	first := models.SessionRecord{UserId: "u1", Name: "Mona", Email: "mona@example.com", Token: "t1"}
	if err := service.SaveSession(ctx, first); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	second := models.SessionRecord{UserId: "u2", Name: "Omar", Email: "omar@example.com", Token: "t2"}
	if err := service.SaveSession(ctx, second); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	got, err := service.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if got.UserId != "u2" || got.Name != "Omar" || got.Email != "omar@example.com" || got.Token != "t2" {
		t.Errorf("Expected the latest session, got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}
}

func TestSaveSession_RejectsIncomplete(t *testing.T) {
	service := setupSessionTestDB(t)

	err := service.SaveSession(context.Background(), models.SessionRecord{Name: "No Id"})
	if !errors.Is(err, store.ErrInvalidSession) {
		t.Fatalf("Expected ErrInvalidSession, got %v", err)
	}
}

func TestClearSession_RemovesIdentityAndCookies(t *testing.T) {
	service := setupSessionTestDB(t)
	ctx := context.Background()

	if err := service.SaveSession(ctx, models.SessionRecord{UserId: "u1", Token: "t"}); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := service.SaveCookies(ctx, "api.local", []models.CookieRecord{{Name: "sid", Value: "abc"}}); err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}

	if err := service.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	if _, err := service.LoadSession(ctx); !errors.Is(err, store.ErrNoSession) {
		t.Errorf("Expected ErrNoSession after clear, got %v", err)
	}
	cookies, err := service.LoadCookies(ctx, "api.local")
	if err != nil {
		t.Fatalf("LoadCookies failed: %v", err)
	}
	if len(cookies) != 0 {
		t.Errorf("Expected no cookies after clear, got %d", len(cookies))
	}
}

func TestSaveCookies_ReplacesAndSkipsExpired(t *testing.T) {
	service := setupSessionTestDB(t)
	ctx := context.Background()

	err := service.SaveCookies(ctx, "api.local", []models.CookieRecord{
		{Name: "old", Value: "1"},
	})
	if err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}

	err = service.SaveCookies(ctx, "api.local", []models.CookieRecord{
		{Name: "sid", Value: "abc", HttpOnly: true, ExpiresAt: time.Now().Add(time.Hour)},
		{Name: "gone", Value: "x", ExpiresAt: time.Now().Add(-time.Hour)},
	})
	if err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}
	if err := service.SaveCookies(ctx, "other.local", []models.CookieRecord{{Name: "x", Value: "y"}}); err != nil {
		t.Fatalf("SaveCookies failed: %v", err)
	}

	cookies, err := service.LoadCookies(ctx, "api.local")
	if err != nil {
		t.Fatalf("LoadCookies failed: %v", err)
	}
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 cookie, got %d: %+v", len(cookies), cookies)
	}
	c := cookies[0]
	if c.Name != "sid" || c.Value != "abc" || !c.HttpOnly || c.Path != "/" || c.ExpiresAt.IsZero() {
		t.Errorf("Unexpected cookie %+v", c)
	}
}

func TestRecordExport_ListNewestFirst(t *testing.T) {
	service := setupSessionTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		rec, err := service.RecordExport(ctx, models.ExportRecord{
			UserId: "u1",
			Title:  title,
			Path:   title + ".xlsx",
			Rows:   3,
		})
		if err != nil {
			t.Fatalf("RecordExport failed: %v", err)
		}
		if rec.Id == "" {
			t.Error("Expected a generated id")
		}
	}
	if _, err := service.RecordExport(ctx, models.ExportRecord{UserId: "u2", Title: "x", Path: "x.xlsx"}); err != nil {
		t.Fatalf("RecordExport failed: %v", err)
	}

	exports, err := service.ListExports(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("ListExports failed: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("Expected 2 exports, got %d", len(exports))
	}
	if exports[0].Title != "third" || exports[1].Title != "second" {
		t.Errorf("Expected newest first, got %q, %q", exports[0].Title, exports[1].Title)
	}
}
