package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/remote"
)

var ErrForbidden = errors.New("not allowed for this account")

type Op string

const (
	OpFetch  Op = "fetch"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Error is a failed remote call made on behalf of a caller. When Applied is
// set the write itself succeeded and only the follow-up refresh failed.
type Error struct {
	Op      Op
	Table   remote.Table
	ID      string
	Applied bool
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Op))
	if e.Table != "" {
		b.WriteString(" " + string(e.Table))
	}
	if e.ID != "" {
		b.WriteString(" " + e.ID)
	}
	if e.Applied {
		b.WriteString(" (applied, refresh failed)")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Notice is the message shown to the end user: what failed, no internals.
func (e *Error) Notice() string {
	entity := entityName(e.Table)
	if e.Applied {
		return fmt.Sprintf("The %s was saved, but the latest data could not be loaded. Refresh to see it.", entity)
	}
	if errors.Is(e.Err, remote.ErrNotFound) {
		return fmt.Sprintf("The %s no longer exists.", entity)
	}
	switch e.Op {
	case OpFetch:
		return "Could not load the latest data. Showing the last known state."
	case OpInsert:
		return fmt.Sprintf("Could not create the %s. Please try again.", entity)
	case OpUpdate:
		return fmt.Sprintf("Could not update the %s. Please try again.", entity)
	case OpDelete:
		return fmt.Sprintf("Could not delete the %s. Please try again.", entity)
	}
	return "The request could not be completed. Please try again."
}

// ValidationError rejects a mutation before any remote call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func entityName(t remote.Table) string {
	switch t {
	case remote.TableProperties:
		return "property"
	case remote.TableUnits:
		return "unit"
	case remote.TableTenants:
		return "tenant"
	case remote.TableManagers:
		return "manager"
	case remote.TablePayments:
		return "payment"
	case remote.TableNotifications:
		return "notification"
	}
	return "record"
}
