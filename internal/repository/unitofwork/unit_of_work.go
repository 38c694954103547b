package unitofwork

import (
	"context"

	"ecommerce-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProductRepository() contract.ProductRepository
	SupportDocRepository() contract.SupportDocRepository
}
