package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/workops/internal/auth"
	"github.com/hugh/workops/internal/database"
	"github.com/hugh/workops/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const TestPassword = "testpassword123"

// SetupTestDB creates an in-memory SQLite database for testing. The pool is
// pinned to one connection so every query sees the same in-memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// CreateTestUser creates an active user with TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		IsActive:     true,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestOrg creates an organization with admin as its first Admin.
func CreateTestOrg(t *testing.T, db *gorm.DB, admin *models.User) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name: "Test Organization " + uuid.New().String()[:8],
	}

	if err := db.Create(org).Error; err != nil {
		t.Fatalf("failed to create test organization: %v", err)
	}

	AddTestMember(t, db, org, admin, models.RoleAdmin)

	return org
}

// AddTestMember inserts a membership row directly.
func AddTestMember(t *testing.T, db *gorm.DB, org *models.Organization, user *models.User, role models.Role) {
	t.Helper()

	m := &models.Membership{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Role:           role,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to add test member: %v", err)
	}
}

// CreateTestClient creates a client without contact details.
func CreateTestClient(t *testing.T, db *gorm.DB, orgID uuid.UUID, name string) *models.Client {
	t.Helper()

	client := &models.Client{
		OrganizationID: orgID,
		Name:           name,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}

	return client
}

// CreateTestProject creates an active project with a fresh row version.
func CreateTestProject(t *testing.T, db *gorm.DB, orgID, createdBy uuid.UUID, name string) *models.Project {
	t.Helper()

	project := &models.Project{
		OrganizationID:  orgID,
		Name:            name,
		Status:          models.ProjectStatusActive,
		CreatedByUserID: createdBy,
		RowVersion:      models.NewRowVersion(),
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// CreateTestTask creates a todo task in project.
func CreateTestTask(t *testing.T, db *gorm.DB, project *models.Project, title string) *models.Task {
	t.Helper()

	task := &models.Task{
		OrganizationID: project.OrganizationID,
		ProjectID:      project.ID,
		Title:          title,
		Status:         models.TaskStatusTodo,
		Priority:       models.TaskPriorityMedium,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", "workops-test", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, _, err := jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies. User is the Admin of Org.
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Org        *models.Organization
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, org, admin user, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	user := CreateTestUser(t, db)
	org := CreateTestOrg(t, db, user)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Org:        org,
		User:       user,
		Token:      token,
	}
}

// NewMember creates a user with role in ts.Org and returns it with a token.
func (ts *TestSetup) NewMember(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()

	user := CreateTestUser(t, ts.DB)
	AddTestMember(t, ts.DB, ts.Org, user, role)
	return user, GenerateTestToken(t, ts.JWTService, user)
}

// NewOutsider creates a user with no membership in ts.Org.
func (ts *TestSetup) NewOutsider(t *testing.T) (*models.User, string) {
	t.Helper()

	user := CreateTestUser(t, ts.DB)
	return user, GenerateTestToken(t, ts.JWTService, user)
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
