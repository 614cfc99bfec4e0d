package domain

import "time"

// Store is a storefront managed by a single admin.
type Store struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the admin owns the store.
func (s *Store) OwnedBy(adminID string) bool {
	return s != nil && s.OwnerID == adminID
}
