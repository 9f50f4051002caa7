package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
)

func TestRegisterLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", nil, gin.H{
		"name":     "New User",
		"email":    "New@Taskhub.com",
		"password": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	data := body["data"].(map[string]any)
	if data["token"] == "" || data["token"] == nil {
		t.Error("register returned no token")
	}
	user := data["user"].(map[string]any)
	if user["email"] != "new@taskhub.com" {
		t.Errorf("email = %v, want normalized lowercase", user["email"])
	}
	if user["role"] != model.RoleUser {
		t.Errorf("role = %v, want user", user["role"])
	}
	if _, leaked := user["password"]; leaked {
		t.Error("password leaked in response")
	}

	w = env.do(t, http.MethodPost, "/api/auth/login", nil, gin.H{
		"email":    "new@taskhub.com",
		"password": "secret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/auth/login", nil, gin.H{
		"email":    "new@taskhub.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password login = %d, want 401", w.Code)
	}
}

func TestRegisterDuplicateEmailHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.users.add("Existing", "taken@taskhub.com", model.RoleUser)

	w := env.do(t, http.MethodPost, "/api/auth/register", nil, gin.H{
		"name":     "Other",
		"email":    "taken@taskhub.com",
		"password": "secret1",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register = %d, want 400", w.Code)
	}
	if body := decode(t, w); body["success"] != false {
		t.Error("success != false on error")
	}
}

func TestMeEndpoint(t *testing.T) {
	env := newTestEnv(t)
	u := env.users.add("U1", "u1@taskhub.com", model.RoleUser)

	w := env.do(t, http.MethodGet, "/api/auth/me", u, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me = %d", w.Code)
	}
	user := decode(t, w)["data"].(map[string]any)["user"].(map[string]any)
	if int(user["id"].(float64)) != u.ID {
		t.Errorf("id = %v, want %d", user["id"], u.ID)
	}
}

func TestListUsersAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	admin := env.users.add("Admin", "admin@taskhub.com", model.RoleAdmin)
	u := env.users.add("U1", "u1@taskhub.com", model.RoleUser)

	w := env.do(t, http.MethodGet, "/api/auth/users", u, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("user access = %d, want 403", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/auth/users", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin access = %d", w.Code)
	}
	users := decode(t, w)["data"].(map[string]any)["users"].([]any)
	if len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}
}
