package handler

import (
	"net/http"
	"testing"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/shared/numbering"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/repository"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/service"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/testutil"
	"go.uber.org/zap"
)

func setupInventoryTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svcs := service.NewServices(repos, service.Deps{
		DB:      db,
		Logger:  zap.NewNop(),
		Numbers: numbering.NewGenerator(nil, db),
	})
	h := NewHandlers(svcs)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/store")
	api.GET("/inventory", h.Inventory.List)
	api.GET("/inventory/alerts", h.Inventory.Alerts)
	api.POST("/inventory/adjust", h.Inventory.Adjust)
	api.GET("/inventory/:storeId/items/:itemCode", h.Inventory.GetItem)
	api.GET("/inventory/:storeId/items/:itemCode/transactions", h.Inventory.ListTransactions)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func TestInventoryRequiresAuth(t *testing.T) {
	env := setupInventoryTest(t)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/store/inventory", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestInventoryAdjustAndRead(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedCentralStore(t, env.DB, "cs-001", "CS-01", "Central Store")

	// Positive adjustment creates the ledger row.
	body := map[string]interface{}{
		"central_store_id": "cs-001",
		"item_code":        "ITEM-A",
		"item_name":        "Copper Wire",
		"unit":             "kg",
		"delta":            12.5,
		"notes":            "opening stock count",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/store/inventory/adjust", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["quantity_on_hand"].(float64) != 12.5 {
		t.Fatalf("expected on-hand 12.5, got %v", data["quantity_on_hand"])
	}

	// Single item read.
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/store/inventory/cs-001/items/ITEM-A", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	if resp["code"].(float64) != 0 {
		t.Fatalf("expected envelope code 0, got %v", resp["code"])
	}

	// Movement log has the adjustment.
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/store/inventory/cs-001/items/ITEM-A/transactions", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	list := resp["data"].(map[string]interface{})
	items := list["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(items))
	}
}

func TestInventoryAdjustRejectsOverdraw(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	testutil.SeedCentralStore(t, env.DB, "cs-001", "CS-01", "Central Store")
	testutil.SeedInventory(t, env.DB, "cs-001", "ITEM-B", 4)

	body := map[string]interface{}{
		"central_store_id": "cs-001",
		"item_code":        "ITEM-B",
		"delta":            -10,
		"type":             "write_off",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/store/inventory/adjust", body, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overdraw, got %d: %s", w.Code, w.Body.String())
	}

	// Unknown adjustment type is a 400.
	body["delta"] = -1
	body["type"] = "shrinkage"
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/store/inventory/adjust", body, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInventoryGetUnknownItem(t *testing.T) {
	env := setupInventoryTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/store/inventory/cs-404/items/NOPE", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
