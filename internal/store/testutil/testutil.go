package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/middleware"
	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestSchema = "test_store"
	JWTSecret  = "kums-store-jwt-secret-key-2026"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// projectRoot returns the project root directory by looking for go.mod
func projectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// loadEnv loads .env from the project root
func loadEnv() {
	root := projectRoot()
	if root != "" {
		godotenv.Load(filepath.Join(root, ".env"))
	}
}

// SetupTestDB creates a test database connection using a dedicated test schema.
// Each test gets an isolated schema that is cleaned up after the test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	loadEnv()

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "kums")
	password := getEnv("DB_PASSWORD", "kums123")
	dbname := getEnv("DB_NAME", "kums_store")

	baseDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	schemaName := fmt.Sprintf("%s_%d", TestSchema, time.Now().UnixNano()%1000000)

	setupDB, err := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to database for schema setup: %v", err)
	}
	setupDB.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	sqlSetup, _ := setupDB.DB()
	sqlSetup.Close()

	// search_path in the DSN so all pooled connections use the test schema
	testDSN := fmt.Sprintf("%s search_path=%s", baseDSN, schemaName)
	db, err := gorm.Open(postgres.Open(testDSN), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.Supplier{},
		&entity.College{},
		&entity.CentralStore{},
		&entity.ProcurementRequirement{},
		&entity.RequirementItem{},
		&entity.SupplierQuotation{},
		&entity.QuotationItem{},
		&entity.PurchaseOrder{},
		&entity.PurchaseOrderItem{},
		&entity.GoodsReceiptNote{},
		&entity.GoodsReceiptItem{},
		&entity.InspectionNote{},
		&entity.CentralStoreInventory{},
		&entity.InventoryTransaction{},
		&entity.StoreIndent{},
		&entity.IndentItem{},
		&entity.MaterialIssueNote{},
		&entity.MaterialIssueItem{},
		&entity.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		cleanDB, cleanErr := gorm.Open(postgres.Open(baseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if cleanErr == nil {
			cleanDB.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
			sqlClean, _ := cleanDB.DB()
			if sqlClean != nil {
				sqlClean.Close()
			}
		}
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, email string, roles, permissions []string) string {
	if roles == nil {
		roles = []string{}
	}
	if permissions == nil {
		permissions = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        userID,
		"uid":        userID,
		"name":       name,
		"email":      email,
		"college_id": "test-college-001",
		"roles":      roles,
		"perms":      permissions,
		"iss":        "kums-store",
		"iat":        now.Unix(),
		"exp":        now.Add(24 * time.Hour).Unix(),
		"jti":        fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken(
		"test-user-001",
		"Test Admin",
		"admin@test.com",
		[]string{"super_admin"},
		[]string{"*"},
	)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedCentralStore creates a central store row
func SeedCentralStore(t *testing.T, db *gorm.DB, id, code, name string) *entity.CentralStore {
	t.Helper()
	store := &entity.CentralStore{
		ID:     id,
		Code:   code,
		Name:   name,
		Status: "active",
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("Failed to seed central store: %v", err)
	}
	return store
}

// SeedCollege creates a college row
func SeedCollege(t *testing.T, db *gorm.DB, id, code, name string) *entity.College {
	t.Helper()
	college := &entity.College{
		ID:     id,
		Code:   code,
		Name:   name,
		Status: "active",
	}
	if err := db.Create(college).Error; err != nil {
		t.Fatalf("Failed to seed college: %v", err)
	}
	return college
}

// SeedSupplier creates an active supplier row
func SeedSupplier(t *testing.T, db *gorm.DB, id, code, name string) *entity.Supplier {
	t.Helper()
	supplier := &entity.Supplier{
		ID:     id,
		Code:   code,
		Name:   name,
		Status: entity.SupplierStatusActive,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}
	return supplier
}

// SeedInventory creates a ledger row with the given on-hand quantity
func SeedInventory(t *testing.T, db *gorm.DB, storeID, itemCode string, onHand float64) *entity.CentralStoreInventory {
	t.Helper()
	inv := &entity.CentralStoreInventory{
		ID:                fmt.Sprintf("inv-%s-%s", storeID, itemCode),
		CentralStoreID:    storeID,
		ItemCode:          itemCode,
		ItemName:          "Item " + itemCode,
		Unit:              "pcs",
		QuantityOnHand:    onHand,
		QuantityAvailable: onHand,
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("Failed to seed inventory: %v", err)
	}
	return inv
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
