// Package policy enforces the role split: ops users upload, client users download.
package policy

import (
	"context"
	"errors"
	"fmt"

	"docexchange/internal/errs"
	"docexchange/internal/model"
)

// Field is the error field under which role denials are reported.
const Field = "operation_user"

// Denial messages shown to the caller.
const (
	MsgOpsOnly    = "Access denied. Only Ops Users are allowed to upload files."
	MsgClientOnly = "Access denied. Only Client Users are allowed to Download files."
)

// RoleReader reads a user's role from the authoritative store.
type RoleReader interface {
	FindRole(ctx context.Context, userID int64) (model.Role, error)
}

// Gate checks roles per call. Roles are never cached between calls.
type Gate struct {
	roles RoleReader
}

func NewGate(roles RoleReader) *Gate {
	return &Gate{roles: roles}
}

// Require returns nil when userID currently holds role. A missing role record
// and a mismatch both yield errs.ErrAccessDenied.
func (g *Gate) Require(ctx context.Context, userID int64, role model.Role) error {
	got, err := g.roles.FindRole(ctx, userID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return deny(role)
	case err != nil:
		return fmt.Errorf("read role: %w", err)
	case got != role:
		return deny(role)
	}
	return nil
}

func deny(role model.Role) error {
	msg := MsgClientOnly
	if role == model.RoleOps {
		msg = MsgOpsOnly
	}
	return errs.NewFieldError(errs.ErrAccessDenied, Field, msg)
}
