package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChainReader hace lecturas read-only contra el RPC de Polygon.
// Los importes vuelven ya escalados (6 decimales ERC-20, 18 el gas token).
type ChainReader interface {
	// ERC20Balance devuelve balanceOf(holder) del contrato token.
	ERC20Balance(ctx context.Context, token, holder string) (decimal.Decimal, error)

	// ERC20Allowance devuelve allowance(owner, spender) del contrato token.
	ERC20Allowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error)

	// NativeBalance devuelve el balance de POL de la dirección.
	NativeBalance(ctx context.Context, address string) (decimal.Decimal, error)
}

// Approver emite la transacción ERC-20 approve(spender, max) que habilita
// al exchange a mover el colateral de la wallet.
type Approver interface {
	// ApproveMax firma y envía el approve; devuelve el hash de la tx.
	ApproveMax(ctx context.Context, token, spender string) (string, error)
}

// Gate es el control de admisión compartido que protege las llamadas de
// red. Una denegación es inmediata, sin cola; el componente nunca reintenta
// por su cuenta.
type Gate interface {
	Allow() bool
}
