package domain

import "time"

// Trader es una dirección seguida por el mirror, con el perfil público
// que devuelve la data API.
type Trader struct {
	Address      string
	Name         string
	Pseudonym    string
	Bio          string
	ProfileImage string
	LastSeen     int64
	CreatedAt    time.Time
}

// Activity es un registro del feed /activity de la data API. Solo los de
// tipo TRADE se espejan a storage; el resto (REDEEM, SPLIT...) se ignora.
type Activity struct {
	TransactionHash string
	ProxyWallet     string
	ConditionID     string
	Type            string
	Side            string
	Size            float64
	USDCSize        float64
	Price           float64
	Asset           string
	OutcomeIndex    int
	Outcome         string
	Title           string
	Slug            string
	EventSlug       string
	Icon            string
	Timestamp       int64

	// Perfil del trader embebido en cada registro.
	Name         string
	Pseudonym    string
	Bio          string
	ProfileImage string
}

// IsTrade devuelve true si el registro es un trade espejable.
func (a Activity) IsTrade() bool { return a.Type == "TRADE" }

// MirroredTrade es la fila persistida en el trade log local.
type MirroredTrade struct {
	TransactionHash string
	ProxyWallet     string
	ConditionID     string
	Type            string
	Side            string
	Size            float64
	USDCSize        float64
	Price           float64
	Asset           string
	OutcomeIndex    int
	Outcome         string
	Title           string
	Slug            string
	EventSlug       string
	Icon            string
	Timestamp       int64
	InsertedAt      time.Time
}

// TraderStats agrega el número de trades y el último timestamp por wallet.
type TraderStats struct {
	TradesCount int
	LastTrade   int64
}

// Settings son las credenciales persistidas del operador. Se leen al
// empezar cada operación de orden o balance, nunca se cachean entre requests.
type Settings struct {
	PrivateKey    string
	Funder        string
	SignatureType SignatureType
}

// MaskedKey devuelve la private key enmascarada para mostrarla (4+4 chars).
func (s Settings) MaskedKey() string {
	if len(s.PrivateKey) <= 8 {
		return ""
	}
	return s.PrivateKey[:4] + "..." + s.PrivateKey[len(s.PrivateKey)-4:]
}
