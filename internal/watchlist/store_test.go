package watchlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"levelboard/internal/logger"
	"levelboard/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "watchlist.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAddListRemove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	vbl, err := s.Add(ctx, "VBL", 450.5, model.SideLong)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	tcs, err := s.Add(ctx, "TCS", 3900, model.SideShort)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if vbl.ID == tcs.ID {
		t.Errorf("ids must differ: %d vs %d", vbl.ID, tcs.ID)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Symbol != "VBL" || entries[1].Side != model.SideShort {
		t.Errorf("entries = %+v", entries)
	}

	if err := s.Remove(ctx, vbl.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	entries, _ = s.List(ctx)
	if len(entries) != 1 || entries[0].Symbol != "TCS" {
		t.Errorf("entries after remove = %+v", entries)
	}

	// Removing a missing id is a no-op.
	if err := s.Remove(ctx, 9999); err != nil {
		t.Errorf("Remove missing: %v", err)
	}
}

func TestStoreRejectsBadInput(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, "", 100, model.SideLong); err == nil {
		t.Error("empty symbol must be rejected")
	}
	if _, err := s.Add(ctx, "VBL", 100, "sideways"); err == nil {
		t.Error("invalid side must be rejected")
	}
}

func TestSymbolsEndpoint(t *testing.T) {
	s := openTestStore(t)
	s.Add(context.Background(), "VBL", 450, model.SideLong)

	router := NewRouter(s, logger.Component(logger.Discard(), "watchlist"), gin.TestMode)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/symbols", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp model.SymbolListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Symbols) != 1 || resp.Symbols[0].Symbol != "VBL" {
		t.Errorf("response = %+v", resp)
	}
}

func TestAddSymbolEndpoint(t *testing.T) {
	s := openTestStore(t)
	router := NewRouter(s, logger.Component(logger.Discard(), "watchlist"), gin.TestMode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/symbols",
		strings.NewReader(`{"symbol": "TCS", "entryPrice": 3900, "side": "short"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	entries, _ := s.List(context.Background())
	if len(entries) != 1 || entries[0].Side != model.SideShort {
		t.Errorf("entries = %+v", entries)
	}

	// Bad side is rejected before touching the store.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/symbols",
		strings.NewReader(`{"symbol": "X", "side": "sideways"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad side status = %d", w.Code)
	}
}

func TestRemoveSymbolEndpoint(t *testing.T) {
	s := openTestStore(t)
	entry, _ := s.Add(context.Background(), "VBL", 450, model.SideLong)
	router := NewRouter(s, logger.Component(logger.Discard(), "watchlist"), gin.TestMode)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/symbols/"+formatID(entry.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	entries, _ := s.List(context.Background())
	if len(entries) != 0 {
		t.Errorf("entries = %+v", entries)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/symbols/notanumber", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid id status = %d", w.Code)
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
