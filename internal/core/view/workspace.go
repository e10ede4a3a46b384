package view

import "sync"

// A Workspace holds the views of one operator session.
type Workspace struct {
	Orders   *Orders
	Products *Products
}

func NewWorkspace() *Workspace {
	return &Workspace{Orders: NewOrders(), Products: NewProducts()}
}

// Registry keeps workspaces by session token.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry() *Registry {
	return &Registry{workspaces: make(map[string]*Workspace)}
}

// Workspace returns the workspace of the session, creating it on first use.
func (r *Registry) Workspace(token string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[token]
	if !ok {
		ws = NewWorkspace()
		r.workspaces[token] = ws
	}
	return ws
}

func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, token)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
