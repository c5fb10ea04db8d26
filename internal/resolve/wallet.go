package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/rvilla87/polymirror/internal/domain"
	"github.com/rvilla87/polymirror/internal/ports"
)

// WalletModeResolver decide el par efectivo (funder, signature type) de una
// operación a partir de la dirección derivada y los hints guardados.
//
// La tabla de decisión, en orden:
//  1. sig guardado = 2 sin funder → auto-detección; si falla,
//     ErrProxyAddressRequired. Con funder, se usa tal cual.
//  2. sig 0/ausente: funder distinto de la derivada → promoción a 2.
//     Sin funder → auto-detección (éxito: funder detectado + sig 2;
//     fallo: derivada + sig 0).
//  3. Override final: funder con prefijo 0x9402 (wallets Magic) fuerza
//     sig 2 pase lo que pase.
type WalletModeResolver struct {
	feed ports.ActivityFeed
}

// NewWalletModeResolver crea el resolver sobre el activity feed dado.
func NewWalletModeResolver(feed ports.ActivityFeed) *WalletModeResolver {
	return &WalletModeResolver{feed: feed}
}

// StoredHints son los valores del settings store que condicionan la decisión.
type StoredHints struct {
	Funder        string
	SignatureType domain.SignatureType
}

// Resolve aplica la tabla de decisión. Se llama en cada operación: el
// resultado nunca se cachea.
func (r *WalletModeResolver) Resolve(ctx context.Context, derived common.Address, hints StoredHints) (domain.WalletMode, error) {
	funder := domain.ChecksumAddress(strings.TrimSpace(hints.Funder))
	sigType := hints.SignatureType

	switch {
	case sigType == domain.SignaturePolyGnosisSafe && funder == "":
		detected, ok := r.detectProxy(ctx, derived)
		if !ok {
			return domain.WalletMode{}, domain.ErrProxyAddressRequired
		}
		funder = detected

	case sigType != domain.SignaturePolyGnosisSafe && funder != "":
		// Un funder distinto de la derivada implica smart-contract wallet.
		if !strings.EqualFold(funder, derived.Hex()) {
			sigType = domain.SignaturePolyGnosisSafe
		}

	case sigType != domain.SignaturePolyGnosisSafe && funder == "":
		if detected, ok := r.detectProxy(ctx, derived); ok {
			funder = detected
			sigType = domain.SignaturePolyGnosisSafe
		} else {
			funder = derived.Hex()
			sigType = domain.SignatureEOA
		}
	}

	// Override de máxima prioridad: las wallets custodiales de Magic operan
	// siempre como safe proxy, digan lo que digan los hints o la detección.
	if strings.HasPrefix(strings.ToLower(funder), domain.MagicWalletPrefix) {
		sigType = domain.SignaturePolyGnosisSafe
	}

	mode := domain.WalletMode{
		Funder:        domain.ChecksumAddress(funder),
		SignatureType: sigType,
	}
	slog.Debug("wallet mode resolved",
		"derived", derived.Hex(),
		"funder", mode.Funder,
		"signature_type", int(mode.SignatureType),
	)
	return mode, nil
}

// detectProxy consulta el activity feed (limit 1) y devuelve el proxyWallet
// del registro más reciente si difiere de la derivada. Cualquier fallo de
// red o parseo cuenta como "no detectado", nunca como error.
func (r *WalletModeResolver) detectProxy(ctx context.Context, derived common.Address) (string, bool) {
	activity, err := r.feed.RecentActivity(ctx, derived.Hex(), 1)
	if err != nil || len(activity) == 0 {
		if err != nil {
			slog.Debug("proxy detection failed", "addr", derived.Hex(), "err", err)
		}
		return "", false
	}

	proxy := strings.TrimSpace(activity[0].ProxyWallet)
	if proxy == "" || strings.EqualFold(proxy, derived.Hex()) {
		return "", false
	}
	return proxy, true
}

// DescribeMode describe el mode para logs ("0x1234... (sig 2)").
func DescribeMode(m domain.WalletMode) string {
	return fmt.Sprintf("%s (sig %d)", m.Funder, int(m.SignatureType))
}
