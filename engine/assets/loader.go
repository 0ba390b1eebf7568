package assets

// Loader decodes the bytes of one asset file.
type Loader interface {
	// Load returns the decoded asset. Dependencies are declared through ctx.
	Load(ctx *LoadContext, data []byte) (interface{}, error)
	// Extensions lists the file extensions routed to this loader, with the
	// leading dot.
	Extensions() []string
}

// LoadContext is handed to a Loader for a single load.
type LoadContext struct {
	path         string
	server       *Server
	dependencies []UntypedHandle
}

// Path is the cleaned asset path being loaded.
func (lc *LoadContext) Path() string {
	return lc.path
}

// Dependencies returns the handles declared so far.
func (lc *LoadContext) Dependencies() []UntypedHandle {
	return lc.dependencies
}

// LoadDependency issues a load for another asset and records a dependency
// edge, so changing the dependency also reloads the asset being loaded.
func LoadDependency[T any](lc *LoadContext, p string) Handle[T] {
	h := Load[T](lc.server, p)
	lc.dependencies = append(lc.dependencies, h.Untyped())
	return h
}
