package partner

import (
	"context"

	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence
type CompanyRepository interface {
	// FindByID loads a company with its relations and transactions
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// Save creates or updates a company and its children. Companies are
	// maintained by the system of record; only its import path and fixtures
	// write through here.
	Save(ctx context.Context, company *Company) error
}
