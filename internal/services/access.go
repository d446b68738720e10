package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/you/studiosvc/domain"
)

// requireStaff admits ADMIN and EDITOR actors
func requireStaff(actor *domain.Principal) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleEditor:
		return nil
	case domain.RoleViewer, domain.RoleUnknown:
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

// requireAdmin admits ADMIN actors only
func requireAdmin(actor *domain.Principal) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleEditor, domain.RoleViewer, domain.RoleUnknown:
		return domain.ErrForbidden
	default:
		return domain.ErrForbidden
	}
}

// requireOwner lets ADMIN modify anything and EDITOR only what they authored
func requireOwner(actor *domain.Principal, authorID uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if actor.Role.CanManageAll() || actor.UserID == authorID {
		return nil
	}
	return domain.ErrForbidden
}

func recordChange(ctx context.Context, audit domain.AuditLogger, actor *domain.Principal, resource, action string, id uint) {
	audit.LogEvent(ctx, domain.NewAuditEvent(domain.ContentChangedEvent, actor.UserID).
		WithEmail(actor.Email).
		WithMetadata("resource", resource).
		WithMetadata("action", action).
		WithMetadata("resource_id", id))
}

func required(field, value, label string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, fmt.Sprintf("%s is required", label))
	}
	return nil
}

func validEmail(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.NewValidationError(field, "Email is required")
	}
	if addr, err := mail.ParseAddress(value); err != nil || addr.Address != value {
		return domain.NewValidationError(field, "Invalid email address")
	}
	return nil
}
