package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ally/internal/config"
	"ally/internal/handlers"
	"ally/internal/logger"
	"ally/internal/middleware"
	"ally/internal/models"
	"ally/internal/services"
	"ally/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		JWTSecret:        "integration-test-secret",
		JWTExpirationDur: time.Hour,
	})
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Budget{},
		&models.Expense{},
		&models.SavingsGoal{},
		&models.VideoTip{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	expenseService := services.NewExpenseService(db, budgetService)
	goalService := services.NewSavingsGoalService(db)
	tipService := services.NewVideoTipService(db)
	reportService := services.NewReportService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	goalHandler := handlers.NewSavingsGoalHandler(goalService)
	tipHandler := handlers.NewVideoTipHandler(tipService)
	reportHandler := handlers.NewReportHandler(reportService)
	adminHandler := handlers.NewAdminHandler(userService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verify", authHandler.Verify)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(userService))

	protected.GET("/auth/me", authHandler.Me)

	protected.GET("/budget", budgetHandler.Get)
	protected.PUT("/budget", budgetHandler.Update)

	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.List)
	expenses.POST("", expenseHandler.Create)
	expenses.DELETE("/:id", expenseHandler.Delete)

	goals := protected.Group("/savings-goals")
	goals.GET("", goalHandler.List)
	goals.POST("", goalHandler.Create)
	goals.POST("/:id/add", goalHandler.AddProgress)
	goals.PUT("/:id", goalHandler.Update)
	goals.DELETE("/:id", goalHandler.Delete)

	protected.GET("/reports", reportHandler.GetReport)
	protected.GET("/dashboard", reportHandler.GetDashboard)
	protected.GET("/discipline", reportHandler.GetDiscipline)

	protected.GET("/video-tips", tipHandler.ListActive)

	admin := protected.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/video-tips", tipHandler.ListAll)
	admin.POST("/video-tips", tipHandler.Create)
	admin.PUT("/video-tips/:id", tipHandler.Update)
	admin.DELETE("/video-tips/:id", tipHandler.Delete)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"firstName":"Test","lastName":"User"}`, email, password)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != 201 {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// jsonID renders a numeric JSON id as a path segment.
func jsonID(v interface{}) string {
	return fmt.Sprintf("%.0f", v.(float64))
}

// promoteToAdmin flips a user's role directly in the database.
func (app *testApp) promoteToAdmin(t *testing.T, userID float64) {
	t.Helper()
	if err := app.DB.Model(&models.User{}).Where("id = ?", uint(userID)).
		Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote user: %v", err)
	}
}
