package polymarket

import (
	"encoding/json"
	"fmt"
)

// DTOs raw de las APIs de Polymarket. Solo se usan dentro de este paquete;
// la conversión a domain entities se hace en mapping.go.

// stringList decodifica los campos con forma variante de Gamma: a veces
// llegan como array JSON nativo y a veces como string con JSON embebido
// ("[\"Yes\", \"No\"]"). Un único paso de decode en la frontera de parseo,
// nada de type checks repartidos por la lógica.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var direct []string
	if err := json.Unmarshal(data, &direct); err == nil {
		*s = direct
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("neither array nor string: %s", data)
	}
	var inner []string
	if err := json.Unmarshal([]byte(encoded), &inner); err != nil {
		return fmt.Errorf("string field is not encoded JSON array: %w", err)
	}
	*s = inner
	return nil
}

// --- Gamma API ---

// gammaMarket es un mercado de GET /markets. Gamma devuelve varios campos
// como strings con JSON dentro; stringList los normaliza.
type gammaMarket struct {
	ConditionID  string     `json:"conditionId"`
	Question     string     `json:"question"`
	Slug         string     `json:"slug"`
	ClobTokenIDs stringList `json:"clobTokenIds"`
	Outcomes     stringList `json:"outcomes"`
	Active       bool       `json:"active"`
	Closed       bool       `json:"closed"`
	NegRisk      bool       `json:"negRisk"`
}

// --- Data API ---

// rawActivity es un registro de GET /activity (y GET /trades, que comparte
// shape para los campos que espejamos).
type rawActivity struct {
	TransactionHash string      `json:"transactionHash"`
	ProxyWallet     string      `json:"proxyWallet"`
	ConditionID     string      `json:"conditionId"`
	Type            string      `json:"type"`
	Side            string      `json:"side"`
	Size            json.Number `json:"size"`
	USDCSize        json.Number `json:"usdcSize"`
	Price           json.Number `json:"price"`
	Asset           string      `json:"asset"`
	OutcomeIndex    int         `json:"outcomeIndex"`
	Outcome         string      `json:"outcome"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	EventSlug       string      `json:"eventSlug"`
	Icon            string      `json:"icon"`
	Timestamp       json.Number `json:"timestamp"`

	Name                  string `json:"name"`
	Pseudonym             string `json:"pseudonym"`
	Bio                   string `json:"bio"`
	ProfileImage          string `json:"profileImage"`
	ProfileImageOptimized string `json:"profileImageOptimized"`
}

// --- CLOB API ---

// midpointResponse es la respuesta de GET /midpoint.
type midpointResponse struct {
	Mid json.Number `json:"mid"`
}

// balanceAllowanceResponse es la respuesta de GET /balance-allowance.
// balance viene en micro-unidades (6 decimales) como string.
type balanceAllowanceResponse struct {
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// rawAssetBalance es una entrada de la lista genérica de balances.
type rawAssetBalance struct {
	AssetType string `json:"asset_type"`
	Balance   string `json:"balance"`
}

// clobOrderRequest es el body de POST /order.
type clobOrderRequest struct {
	Order     clobOrderBody `json:"order"`
	Owner     string        `json:"owner"`
	OrderType string        `json:"orderType"`
}

type clobOrderBody struct {
	Salt          json.Number `json:"salt"`
	Maker         string      `json:"maker"`
	Signer        string      `json:"signer"`
	Taker         string      `json:"taker"`
	TokenID       string      `json:"tokenId"`
	MakerAmount   string      `json:"makerAmount"`
	TakerAmount   string      `json:"takerAmount"`
	Expiration    string      `json:"expiration"`
	Nonce         string      `json:"nonce"`
	FeeRateBps    string      `json:"feeRateBps"`
	Side          string      `json:"side"`
	SignatureType int         `json:"signatureType"`
	Signature     string      `json:"signature"`
}

type clobOrderResponse struct {
	ErrorMsg     string `json:"errorMsg"`
	OrderID      string `json:"orderID"`
	TakingAmount string `json:"takingAmount"`
	MakingAmount string `json:"makingAmount"`
	Status       string `json:"status"`
	Success      bool   `json:"success"`
}
