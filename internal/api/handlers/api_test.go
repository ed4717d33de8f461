package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safelive/backend/internal/api/middleware"
	"github.com/safelive/backend/internal/config"
	"github.com/safelive/backend/internal/domain/user"
	"github.com/safelive/backend/internal/repository"
	"github.com/safelive/backend/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	config.LoadConfig()
	middleware.Init()
	os.Exit(m.Run())
}

// --------------------- Helpers ---------------------

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var payload map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, payload
}

func tokenFor(t *testing.T, repos *repository.Repos, name string, role user.UserType, department string) string {
	t.Helper()
	email := name + "@safelive.test"
	u := user.User{Name: name, Email: &email, Password: "x", UserType: role}
	if department != "" {
		u.Department = &department
	}
	if err := repos.User.SaveUser(&u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := middleware.GenerateToken(u, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func issueBody() map[string]any {
	return map[string]any{
		"title":       "Large pothole on MG Road",
		"description": "A deep pothole near the bus stop is damaging two-wheelers every day.",
		"category":    "pothole",
		"location":    "MG Road, near metro station",
		"pincode":     "560001",
		"latitude":    12.9716,
		"longitude":   77.5946,
		"images":      []string{"data:image/png;base64,aGVsbG8="},
	}
}

// --------------------- Auth ---------------------

func TestRegisterAndLoginOverHTTP(t *testing.T) {
	r, _ := testutils.SetupRouter(t)

	w, payload := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, payload["success"])
	data := payload["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])

	w, payload = doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]any{
		"name":     "Asha",
		"email":    "asha@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User exists", payload["error"])

	w, payload = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "asha@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, payload["success"])
}

// --------------------- Issues / Tickets ---------------------

func TestIssueLifecycleOverHTTP(t *testing.T) {
	r, repos := testutils.SetupRouter(t)
	citizen := tokenFor(t, repos, "asha", user.TypeCitizen, "")
	official := tokenFor(t, repos, "rao", user.TypeOfficial, "Road")
	supervisor := tokenFor(t, repos, "mehta", user.TypeHeadSupervisor, "Road")

	// Citizen submits an issue.
	w, payload := doJSON(t, r, http.MethodPost, "/issues", citizen, issueBody())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, payload["success"])

	// The derived ticket is visible to officials only.
	w, _ = doJSON(t, r, http.MethodGet, "/tickets", citizen, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, payload = doJSON(t, r, http.MethodGet, "/tickets", official, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	tickets := payload["data"].([]any)
	if !assert.Len(t, tickets, 1) {
		return
	}
	ticketID := uint(tickets[0].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/tickets/%d", ticketID)

	// Status change before assignment fails the workflow precondition.
	w, _ = doJSON(t, r, http.MethodPatch, path+"/status", official, map[string]any{"status": "in_progress"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, path+"/assign", official, map[string]any{
		"assigneeName":  "Ravi Kumar",
		"assigneePhone": "9876543210",
		"assigneePhoto": "data:image/jpeg;base64,cGhvdG8=",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, path+"/status", official, map[string]any{"status": "resolved"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Reopen is the head supervisor's call alone.
	w, _ = doJSON(t, r, http.MethodPost, path+"/reopen", official, map[string]any{"message": "not fixed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, payload = doJSON(t, r, http.MethodPost, path+"/reopen", supervisor, map[string]any{"message": "pothole still visible"})
	assert.Equal(t, http.StatusOK, w.Code)
	reopened := payload["data"].(map[string]any)
	assert.Equal(t, "open", reopened["status"])
	assert.Equal(t, "pothole still visible", reopened["reopenMessage"])
}

func TestIssueValidationEnvelope(t *testing.T) {
	r, repos := testutils.SetupRouter(t)
	citizen := tokenFor(t, repos, "asha", user.TypeCitizen, "")

	w, payload := doJSON(t, r, http.MethodPost, "/issues", citizen, map[string]any{"title": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, payload["success"])
	fields := payload["fields"].(map[string]any)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "images")
}

// --------------------- Access control ---------------------

func TestRoutesRequireAuth(t *testing.T) {
	r, _ := testutils.SetupRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/issues", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/analytics/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The public summary stays open.
	w, payload := doJSON(t, r, http.MethodGet, "/public/summary", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, payload["success"])
}

func TestAnalyticsOfficialOnly(t *testing.T) {
	r, repos := testutils.SetupRouter(t)
	citizen := tokenFor(t, repos, "asha", user.TypeCitizen, "")
	official := tokenFor(t, repos, "rao", user.TypeOfficial, "Road")

	w, _ := doJSON(t, r, http.MethodGet, "/analytics/dashboard", citizen, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/analytics/dashboard", official, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// --------------------- Edge ingestion ---------------------

func TestReportEndpointUnauthenticated(t *testing.T) {
	r, repos := testutils.SetupRouter(t)

	w, payload := doJSON(t, r, http.MethodPost, "/report", "", map[string]any{
		"description": "camera detected garbage pileup",
		"latitude":    12.90,
		"longitude":   77.60,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	created := payload["data"].(map[string]any)
	assert.Equal(t, "ai", created["category"])
	assert.Equal(t, "high", created["priority"])

	count, err := repos.Ticket.CountTickets()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// --------------------- Message threads ---------------------

func TestMessageThreadOverHTTP(t *testing.T) {
	r, repos := testutils.SetupRouter(t)
	citizen := tokenFor(t, repos, "asha", user.TypeCitizen, "")
	stranger := tokenFor(t, repos, "vik", user.TypeCitizen, "")
	official := tokenFor(t, repos, "rao", user.TypeOfficial, "Road")

	w, payload := doJSON(t, r, http.MethodPost, "/issues", citizen, issueBody())
	assert.Equal(t, http.StatusCreated, w.Code)
	issueID := uint(payload["data"].(map[string]any)["id"].(float64))
	path := fmt.Sprintf("/issues/%d/messages", issueID)

	w, payload = doJSON(t, r, http.MethodPost, path, citizen, map[string]any{"message": "Any update?"})
	assert.Equal(t, http.StatusCreated, w.Code)
	posted := payload["data"].(map[string]any)
	assert.Equal(t, "asha", posted["sender"])

	w, _ = doJSON(t, r, http.MethodPost, path, official, map[string]any{"message": "Crew on the way."})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Only the reporter and officials can read the thread.
	w, _ = doJSON(t, r, http.MethodGet, path, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, payload = doJSON(t, r, http.MethodGet, path, citizen, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, payload["data"].([]any), 2)
}

// --------------------- Profile ---------------------

func TestProfileOverHTTP(t *testing.T) {
	r, repos := testutils.SetupRouter(t)
	citizen := tokenFor(t, repos, "asha", user.TypeCitizen, "")

	w, payload := doJSON(t, r, http.MethodGet, "/users/profile", citizen, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	profile := payload["data"].(map[string]any)
	assert.Equal(t, "asha", profile["name"])

	w, payload = doJSON(t, r, http.MethodPut, "/users/profile", citizen, map[string]any{
		"name":  "Asha Verma",
		"phone": "9876501234",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	updated := payload["data"].(map[string]any)
	assert.Equal(t, "Asha Verma", updated["name"])
	assert.Equal(t, "9876501234", updated["phone"])

	w, _ = doJSON(t, r, http.MethodGet, "/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyEmailOverHTTP(t *testing.T) {
	r, repos := testutils.SetupRouter(t)
	tokenFor(t, repos, "asha", user.TypeCitizen, "")

	w, payload := doJSON(t, r, http.MethodPost, "/auth/verify-email", "", map[string]any{
		"email": "asha@safelive.test",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, payload["data"].(map[string]any)["verified"])

	u, err := repos.User.GetUserByEmail("asha@safelive.test")
	assert.NoError(t, err)
	assert.True(t, u.EmailVerified)
}
