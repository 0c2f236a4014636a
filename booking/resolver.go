package booking

import (
	"context"
	"errors"

	"github.com/ariebrainware/clinic-booking/model"
)

// IdentityResolver maps an exact (name, contact) pair to a patient record.
type IdentityResolver struct {
	store Store
}

func NewIdentityResolver(store Store) *IdentityResolver {
	return &IdentityResolver{store: store}
}

// Resolve returns ErrNotFound when no patient has this identity. Inputs are
// matched as given: "Jane" and "jane " are different identities.
func (r *IdentityResolver) Resolve(ctx context.Context, name, contact string) (*model.Patient, error) {
	p, err := r.store.FindByIdentity(ctx, name, contact)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, transient("resolve patient", err)
	}
	return p, nil
}
