/* Copyright © INFINI LTD. All rights reserved.
 * Web: https://infinilabs.com
 * Email: hello#infini.ltd */

package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	log "github.com/cihub/seelog"
	"github.com/golang-jwt/jwt"
	httprouter "github.com/julienschmidt/httprouter"
	"infini.sh/insight/core/errors"
	"infini.sh/insight/core/util"
)

const ROLE_ADMIN = "admin"

// DefaultWorkspace is used when auth is disabled, eg. local development.
const DefaultWorkspace = "default"

type UserClaims struct {
	UserID      string   `json:"user_id"`
	WorkspaceID string   `json:"workspace_id"`
	Roles       []string `json:"roles"`
	jwt.StandardClaims
}

var (
	authEnabled bool
	jwtSecret   []byte
)

func EnableAuth(secret string) {
	authEnabled = true
	jwtSecret = []byte(secret)
}

func IsAuthEnable() bool {
	return authEnabled
}

type userCtxKeyType string

const userCtxKey userCtxKeyType = "user"

func NewUserContext(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userCtxKey, claims)
}

func UserFromContext(ctx context.Context) (*UserClaims, bool) {
	claims, ok := ctx.Value(userCtxKey).(*UserClaims)
	return claims, ok
}

// ValidateLogin parses and verifies the bearer token of the Authorization
// header.
func ValidateLogin(authorization string) (*UserClaims, error) {
	if authorization == "" {
		return nil, errors.New("authorization header is required")
	}
	fields := strings.Fields(authorization)
	if len(fields) != 2 || strings.ToLower(fields[0]) != "bearer" {
		return nil, errors.New("authorization header is invalid")
	}

	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(fields[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	return claims, nil
}

var rolePermissions = map[string]*util.MapStr{}
var rolePermissionLock sync.RWMutex

// RegisterPermissionsByRole declares the permission set a role carries.
func RegisterPermissionsByRole(role string, permissions []string) {
	rolePermissionLock.Lock()
	defer rolePermissionLock.Unlock()
	set := util.MapStr{}
	for _, p := range permissions {
		set[p] = true
	}
	rolePermissions[role] = &set
}

func rolePermits(role, permission string) bool {
	rolePermissionLock.RLock()
	defer rolePermissionLock.RUnlock()
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = (*set)[permission]
	return ok
}

// ValidatePermission checks the claims' roles against required permissions.
func ValidatePermission(claims *UserClaims, permissions []string) error {
	for _, role := range claims.Roles {
		if role == ROLE_ADMIN {
			return nil
		}
	}
	for _, required := range permissions {
		allowed := false
		for _, role := range claims.Roles {
			if rolePermits(role, required) {
				allowed = true
				break
			}
		}
		if !allowed {
			return errors.Errorf("permission [%v] is required", required)
		}
	}
	return nil
}

// RequireLogin wraps a route so that only authenticated requests pass.
func (handler Handler) RequireLogin(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if authEnabled {
			claims, err := ValidateLogin(r.Header.Get("Authorization"))
			if err != nil {
				handler.WriteError(w, err.Error(), http.StatusUnauthorized)
				return
			}
			r = r.WithContext(NewUserContext(r.Context(), claims))
		}
		h(w, r, ps)
	}
}

// RequirePermission additionally checks the declared permissions.
func (handler Handler) RequirePermission(h httprouter.Handle, permissions ...string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if authEnabled {
			claims, err := ValidateLogin(r.Header.Get("Authorization"))
			if err != nil {
				handler.WriteError(w, err.Error(), http.StatusUnauthorized)
				return
			}
			if err = ValidatePermission(claims, permissions); err != nil {
				log.Debugf("user [%v] denied: %v", claims.UserID, err)
				handler.WriteError(w, err.Error(), http.StatusForbidden)
				return
			}
			r = r.WithContext(NewUserContext(r.Context(), claims))
		}
		h(w, r, ps)
	}
}

func (handler Handler) GetCurrentUser(req *http.Request) string {
	if claims, ok := UserFromContext(req.Context()); ok {
		return claims.UserID
	}
	return ""
}

// GetWorkspace resolves the tenant boundary of the request. With auth
// enabled it comes from the verified claims, otherwise from the
// X-Workspace-Id header with a default fallback.
func (handler Handler) GetWorkspace(req *http.Request) string {
	if claims, ok := UserFromContext(req.Context()); ok && claims.WorkspaceID != "" {
		return claims.WorkspaceID
	}
	return handler.GetHeader(req, "X-Workspace-Id", DefaultWorkspace)
}
