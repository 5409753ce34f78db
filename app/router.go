package app

import (
	"github.com/zcombinatorio/squads"
	"github.com/zcombinatorio/squads/errors"
)

// Router allows us to register many handlers with different paths and
// then direct each message to the right one.
//
// Minimal interface modeled after net/http.ServeMux.
type Router struct {
	handlers map[string]squads.Handler
}

var _ squads.Registry = (*Router)(nil)
var _ squads.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]squads.Handler),
	}
}

// Handle implements the Registry interface. It panics on an invalid
// message path or when the path was already registered, because both are
// programmer errors during the setup phase.
func (r *Router) Handle(m squads.Msg, h squads.Handler) {
	squads.MustValidatePath(m)
	path := m.Path()
	if _, ok := r.handlers[path]; ok {
		panic("re-registering a handler for the path " + path)
	}
	r.handlers[path] = h
}

// handler returns the registered Handler for this path. If no path is
// found, it returns a noSuchPathHandler which rejects any message.
func (r *Router) handler(path string) squads.Handler {
	if h, ok := r.handlers[path]; ok {
		return h
	}
	return noSuchPathHandler{path}
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx squads.Context, store squads.KVStore, tx squads.Tx) (*squads.CheckResult, error) {
	return r.handler(squads.GetPath(tx)).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx squads.Context, store squads.KVStore, tx squads.Tx) (*squads.DeliverResult, error) {
	return r.handler(squads.GetPath(tx)).Deliver(ctx, store, tx)
}

type noSuchPathHandler struct {
	path string
}

var _ squads.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(squads.Context, squads.KVStore, squads.Tx) (*squads.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(squads.Context, squads.KVStore, squads.Tx) (*squads.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
