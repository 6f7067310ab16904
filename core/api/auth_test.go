/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package api

import (
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims *UserClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidateLogin(t *testing.T) {
	EnableAuth("test-secret")

	claims := &UserClaims{UserID: "u1", WorkspaceID: "w1", Roles: []string{"viewer"}}
	token := signToken(t, "test-secret", claims)

	parsed, err := ValidateLogin("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.UserID)
	assert.Equal(t, "w1", parsed.WorkspaceID)

	_, err = ValidateLogin("")
	require.Error(t, err)

	_, err = ValidateLogin("Bearer not-a-token")
	require.Error(t, err)

	_, err = ValidateLogin("Bearer " + signToken(t, "wrong-secret", claims))
	require.Error(t, err)
}

func TestValidatePermission(t *testing.T) {
	RegisterPermissionsByRole("reader", []string{"doc:read"})

	reader := &UserClaims{Roles: []string{"reader"}}
	assert.NoError(t, ValidatePermission(reader, []string{"doc:read"}))
	assert.Error(t, ValidatePermission(reader, []string{"doc:write"}))

	// admin bypasses permission checks entirely
	admin := &UserClaims{Roles: []string{ROLE_ADMIN}}
	assert.NoError(t, ValidatePermission(admin, []string{"doc:write", "anything:else"}))

	nobody := &UserClaims{}
	assert.Error(t, ValidatePermission(nobody, []string{"doc:read"}))
}

func TestGetWorkspaceFallsBackToHeader(t *testing.T) {
	handler := Handler{}

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, DefaultWorkspace, handler.GetWorkspace(req))

	req.Header.Set("X-Workspace-Id", "w9")
	assert.Equal(t, "w9", handler.GetWorkspace(req))

	// verified claims win over the header
	claims := &UserClaims{WorkspaceID: "w1"}
	req = req.WithContext(NewUserContext(req.Context(), claims))
	assert.Equal(t, "w1", handler.GetWorkspace(req))
}
