package domain

import "errors"

// Errores tipados del core. Los callers hacen matching con errors.Is;
// el detalle humano se añade con fmt.Errorf("%w: ...").
var (
	// Gamma no devolvió ningún mercado para el slug.
	ErrMarketNotFound = errors.New("market not found")

	// Ni índice explícito ni label matchearon un outcome.
	ErrOutcomeNotResolved = errors.New("outcome not resolved")

	// El índice resuelto no existe en clobTokenIds.
	ErrTokenIndexOutOfRange = errors.New("token index out of range")

	// Signature type 2 sin funder y la auto-detección falló.
	ErrProxyAddressRequired = errors.New("proxy address required for signature type 2")

	// Falta size/notional (o es <= 0) para el tipo de orden pedido.
	ErrMissingAmount = errors.New("missing or non-positive amount")

	ErrInvalidCredential = errors.New("invalid credential")

	// Fallo de red o timeout contra un servicio externo.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	ErrRejectedByVenue = errors.New("order rejected by venue")

	// El rate gate denegó la llamada; el caller decide si reintenta.
	ErrRateLimited = errors.New("rate limited")
)
