package server

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

type Capability string

const (
	CapEditPosts     Capability = "edit_posts"
	CapManageOptions Capability = "manage_options"

	UserIDHeader = "X-User-ID"
)

var (
	errUnauthenticated = errors.New("missing or invalid user id")
	errForbidden       = errors.New("missing capability")
)

// Access lists who may do what. Admins hold every capability. When Editors is
// empty any identified user may edit posts.
type Access struct {
	Editors []int64
	Admins  []int64
}

func (a Access) Can(userID int64, c Capability) bool {
	if slices.Contains(a.Admins, userID) {
		return true
	}

	if c != CapEditPosts {
		return false
	}

	return len(a.Editors) == 0 || slices.Contains(a.Editors, userID)
}

// authorize returns the caller's user id if it holds capability c.
func (s *Server) authorize(r *http.Request, c Capability) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if raw == "" {
		return 0, errUnauthenticated
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errUnauthenticated
	}

	if !s.deps.Access.Can(userID, c) {
		return 0, errForbidden
	}

	return userID, nil
}
