package domain

import (
	"crypto/ecdsa"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// SignatureType es el esquema de firma que autoriza una orden en el CLOB.
// Los valores coinciden con los de go-order-utils / py-clob-client.
type SignatureType int

const (
	// SignatureEOA: la orden la firma y custodia la propia EOA derivada.
	SignatureEOA SignatureType = 0
	// SignaturePolyProxy: proxy wallet 1-of-1 de Polymarket.
	SignaturePolyProxy SignatureType = 1
	// SignaturePolyGnosisSafe: smart-contract wallet (Gnosis Safe / custodial).
	SignaturePolyGnosisSafe SignatureType = 2
)

// MagicWalletPrefix identifica las wallets custodiales de Magic: cualquier
// funder que empiece por este prefijo opera siempre como safe proxy (sig 2).
const MagicWalletPrefix = "0x9402"

var nonHex = regexp.MustCompile(`[^0-9a-fA-F]`)

// WalletCredential es la credencial transitoria de una operación: la clave
// y la dirección derivada. Nunca se persiste fuera del settings store.
type WalletCredential struct {
	PrivateKey *ecdsa.PrivateKey
	Address    common.Address
}

// ParseCredential normaliza una private key en hex (con o sin 0x, tolera
// separadores) y deriva la dirección. Un hex no parseable devuelve
// ErrInvalidCredential.
func ParseCredential(privateKeyHex string) (WalletCredential, error) {
	pk := strings.TrimSpace(privateKeyHex)
	pk = strings.TrimPrefix(strings.ToLower(pk), "0x")
	pk = nonHex.ReplaceAllString(pk, "")

	key, err := crypto.HexToECDSA(pk)
	if err != nil {
		return WalletCredential{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return WalletCredential{
		PrivateKey: key,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// WalletMode es el par (funder, signature type) efectivo de una operación.
// Se resuelve de cero en cada request: la elección puede cambiar entre llamadas.
type WalletMode struct {
	// Funder es la dirección checksummed que custodia los fondos.
	// Vacío significa "usar la dirección derivada".
	Funder        string
	SignatureType SignatureType
}

// FunderOr devuelve el funder o, si está vacío, la dirección derivada dada.
func (m WalletMode) FunderOr(derived common.Address) string {
	if m.Funder == "" {
		return derived.Hex()
	}
	return m.Funder
}

// ChecksumAddress normaliza una dirección a formato checksummed. Si el input
// no es una dirección válida se devuelve tal cual: la normalización es
// tolerante, nunca fatal.
func ChecksumAddress(addr string) string {
	s := strings.TrimSpace(addr)
	if !common.IsHexAddress(s) {
		return addr
	}
	return common.HexToAddress(s).Hex()
}

// AssetBalance es una entrada de la lista genérica de balances del
// exchange; el fallback del agregador busca la tagged como COLLATERAL.
type AssetBalance struct {
	AssetType string
	Balance   decimal.Decimal
}

// BalanceSnapshot es la foto de balances de una wallet. Valor de solo
// lectura: se calcula por request y no se persiste. Los sub-importes que
// fallan quedan en cero, el snapshot se devuelve siempre.
type BalanceSnapshot struct {
	// CollateralCash es el colateral operable según el exchange, o el
	// fallback directo al contrato USDC.e si el exchange reporta cero.
	CollateralCash decimal.Decimal
	// NativeUSDC es el balance del contrato USDC nativo de Polygon.
	NativeUSDC decimal.Decimal
	// Allowance de USDC.e concedido al CTF Exchange.
	Allowance decimal.Decimal
	// GasToken es el balance de POL (18 decimales).
	GasToken decimal.Decimal

	Funder        string
	SignatureType SignatureType
}
