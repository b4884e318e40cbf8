package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/bugtracker/internal/auth"
	"github.com/hugh/bugtracker/internal/database"
	"github.com/hugh/bugtracker/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a private in-memory SQLite database with foreign keys
// enforced. A single connection keeps every query on the same database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
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

	return db
}

// TestLogger discards everything below error level.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// CreateTestTeam creates a team with a random join code
func CreateTestTeam(t *testing.T, db *gorm.DB, name string) *models.Team {
	t.Helper()

	team := &models.Team{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:     name,
		JoinCode: strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:models.JoinCodeLength]),
	}

	if err := db.Create(team).Error; err != nil {
		t.Fatalf("failed to create test team: %v", err)
	}

	return team
}

// CreateTestUser creates a user belonging to team, or an onboarding user
// when team is nil.
func CreateTestUser(t *testing.T, db *gorm.DB, team *models.Team) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	suffix := uuid.NewString()[:8]
	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + suffix + "@example.com",
		PasswordHash: hash,
		Username:     "user-" + suffix,
	}
	if team != nil {
		teamID := team.ID
		user.TeamID = &teamID
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestBug creates a bug owned by teamID. assignee may be nil.
func CreateTestBug(t *testing.T, db *gorm.DB, teamID uuid.UUID, assignee *models.User, priority models.Priority, status models.Status) *models.Bug {
	t.Helper()

	bug := &models.Bug{
		Base: models.Base{
			ID: uuid.New(),
		},
		TeamID:      teamID,
		Title:       "Test Bug",
		Description: "Test bug description",
		Priority:    priority,
		Status:      status,
	}
	if assignee != nil {
		id := assignee.ID
		bug.AssigneeID = &id
	}

	if err := db.Create(bug).Error; err != nil {
		t.Fatalf("failed to create test bug: %v", err)
	}

	return bug
}

// CreateTestBugAt creates a bug with an explicit creation time, for ordering tests.
func CreateTestBugAt(t *testing.T, db *gorm.DB, teamID uuid.UUID, title string, createdAt time.Time) *models.Bug {
	t.Helper()

	bug := &models.Bug{
		Base: models.Base{
			ID:        uuid.New(),
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		TeamID:   teamID,
		Title:    title,
		Priority: models.PriorityMedium,
		Status:   models.StatusOpen,
	}

	if err := db.Create(bug).Error; err != nil {
		t.Fatalf("failed to create test bug: %v", err)
	}

	return bug
}

// ReloadBug reads the current row for id.
func ReloadBug(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Bug {
	t.Helper()

	var bug models.Bug
	if err := db.First(&bug, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload bug: %v", err)
	}
	return &bug
}

// ReloadUser reads the current row for id.
func ReloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *models.User {
	t.Helper()

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return &user
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.IssueToken(user)
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

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Logger     *slog.Logger
	Team       *models.Team
	User       *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, team, member and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	team := CreateTestTeam(t, db, "Test Team")
	user := CreateTestUser(t, db, team)
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Logger:     TestLogger(),
		Team:       team,
		User:       user,
		Token:      token,
	}
}

// TokenFor issues a token for another user in the same database.
func (ts *TestSetup) TokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	return GenerateTestToken(t, ts.JWTService, user)
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		database.Close(ts.DB)
	}
}
