package ports

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback de todo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
