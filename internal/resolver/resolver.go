// Package resolver maps an extracted client contact block onto a persistent
// client row. Lookup order is email, then phone, then create.
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/billscan/billscan/internal/entity"
	"github.com/billscan/billscan/internal/repository"
)

const (
	// DefaultClientName stands in when no buyer name was extracted.
	DefaultClientName = "Unknown Client"

	placeholderEmail = "unknown@gmail.com"
)

type Resolver struct {
	clients repository.ClientRepository
	logger  *slog.Logger

	// mu serializes lookup-then-create so concurrent documents for the same
	// client cannot both miss the lookup. The unique email index backs this
	// up across processes.
	mu sync.Mutex
}

func New(clients repository.ClientRepository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{clients: clients, logger: logger}
}

// Resolve returns the client row for the contact block. Lookup or create
// failures do not fail the document: a shared placeholder identity is
// persisted instead so invoice routing can continue. Resolve errors only
// when even the placeholder cannot be stored.
func (r *Resolver) Resolve(ctx context.Context, contact entity.ClientContact) (*entity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := DefaultClientName
	if contact.Name != nil && strings.TrimSpace(*contact.Name) != "" {
		name = strings.TrimSpace(*contact.Name)
	}

	if contact.Email != nil && *contact.Email != "" {
		existing, err := r.clients.GetByEmail(ctx, *contact.Email)
		if err != nil {
			return r.placeholder(ctx, err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	if contact.Phone != nil && *contact.Phone != "" {
		existing, err := r.clients.GetByPhone(ctx, *contact.Phone)
		if err != nil {
			return r.placeholder(ctx, err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	created, err := r.clients.Create(ctx, &entity.Client{
		Name:    name,
		Email:   contact.Email,
		Phone:   contact.Phone,
		Address: contact.Address,
	})
	if err != nil {
		return r.placeholder(ctx, err)
	}
	r.logger.Info("resolver.client.created", "client_id", created.ID, "name", created.Name)
	return created, nil
}

// placeholder stores (or re-reads, via the unique email index) the shared
// fallback identity.
func (r *Resolver) placeholder(ctx context.Context, cause error) (*entity.Client, error) {
	r.logger.Error("client resolution failed, using placeholder", "error", cause)
	email := placeholderEmail
	return r.clients.Create(ctx, &entity.Client{Name: DefaultClientName, Email: &email})
}
