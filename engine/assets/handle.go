package assets

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// namespace scopes the path-derived asset ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("blender-bevy-toolkit/assets"))

// Handle is a typed forward reference to an asset. It is valid as soon as
// Load returns; the data behind it may arrive on a later tick or never.
type Handle[T any] struct {
	ID   uuid.UUID
	Path string
}

func (h Handle[T]) IsZero() bool {
	return h.ID == uuid.Nil
}

// Untyped drops the type parameter, e.g. to compare handles of different
// asset types or to key maps.
func (h Handle[T]) Untyped() UntypedHandle {
	return UntypedHandle{ID: h.ID, Path: h.Path}
}

type UntypedHandle struct {
	ID   uuid.UUID
	Path string
}

// CleanPath normalises an asset path to the slash separated, unrooted form
// io/fs expects.
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// IDFromPath returns the content-addressed id for a path. The same path
// always yields the same id.
func IDFromPath(p string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(CleanPath(p)))
}
