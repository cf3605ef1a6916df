package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grocemart/grocemart-backend/pkg/enums"
)

func roleRequest(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/vendor/products", nil)
	if role != "" {
		req = req.WithContext(WithRole(req.Context(), role))
	}
	return req
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	var reached bool
	handler := RequireRole(nil, enums.MemberRoleVendor.String(), enums.MemberRoleAdmin.String())(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true }),
	)

	for _, role := range []string{enums.MemberRoleVendor.String(), enums.MemberRoleAdmin.String()} {
		reached = false
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, roleRequest(role))
		if !reached {
			t.Fatalf("role %q should reach the handler", role)
		}
		if w.Code != http.StatusOK {
			t.Fatalf("role %q: unexpected status %d", role, w.Code)
		}
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	handler := RequireRole(nil, enums.MemberRoleVendor.String())(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run for a disallowed role")
		}),
	)

	for _, role := range []string{enums.MemberRoleCustomer.String(), ""} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, roleRequest(role))
		if w.Code != http.StatusForbidden {
			t.Fatalf("role %q: expected 403, got %d", role, w.Code)
		}
	}
}
