// Package services contains the OttoCollect business logic. Services sit
// between the HTTP transport and the repositories: they check ownership and
// roles, validate input, run multi-step writes in transactions and emit
// notifications and points as side effects.
package services

import (
	"fmt"
	"strings"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool { return models.IsAdminRole(a.Role) }

// canModify reports whether the actor owns the record or moderates.
func (a Actor) canModify(ownerID string) bool {
	return a.UserID != "" && (a.UserID == ownerID || a.IsAdmin())
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func strPtr(s string) *string { return &s }
