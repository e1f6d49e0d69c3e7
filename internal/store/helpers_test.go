package store

import (
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/patch"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
)

func patchSet[T any](v T) patch.Field[T] { return patch.Set(v) }

func patchNull[T any]() patch.Field[T] { return patch.Null[T]() }

func identity(id string, role session.Role) session.Identity {
	return session.Identity{ID: id, UserID: "user-" + id, Role: role}
}
