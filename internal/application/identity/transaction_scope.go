package identity

import (
	"context"

	"github.com/retail/backoffice/internal/domain/identity"
	"github.com/retail/backoffice/internal/domain/partner"
)

// TransactionScope runs a unit of work over users and their seller records
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to one transaction
type TransactionalRepositories interface {
	UserRepo() identity.UserRepository
	SellerRepo() partner.SellerRepository
}

// NoOpTransactionScope runs fn against plain repositories. Used in tests.
type NoOpTransactionScope struct {
	repos noOpRepos
}

// NewNoOpTransactionScope creates a scope over the given repositories
func NewNoOpTransactionScope(userRepo identity.UserRepository, sellerRepo partner.SellerRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: noOpRepos{userRepo: userRepo, sellerRepo: sellerRepo}}
}

// Execute implements TransactionScope
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

type noOpRepos struct {
	userRepo   identity.UserRepository
	sellerRepo partner.SellerRepository
}

func (r noOpRepos) UserRepo() identity.UserRepository {
	return r.userRepo
}

func (r noOpRepos) SellerRepo() partner.SellerRepository {
	return r.sellerRepo
}
