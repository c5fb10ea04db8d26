package polymarket

import (
	"strings"

	"github.com/rvilla87/polymirror/internal/domain"
)

// mapping.go — conversión DTO raw → domain entities.

func gammaToMarket(g gammaMarket) domain.Market {
	return domain.Market{
		ConditionID: g.ConditionID,
		Slug:        g.Slug,
		Question:    g.Question,
		TokenIDs:    []string(g.ClobTokenIDs),
		Outcomes:    []string(g.Outcomes),
		Active:      g.Active,
		Closed:      g.Closed,
		NegRisk:     g.NegRisk,
	}
}

func rawToActivity(r rawActivity) domain.Activity {
	size, _ := r.Size.Float64()
	usdcSize, _ := r.USDCSize.Float64()
	price, _ := r.Price.Float64()
	ts, _ := r.Timestamp.Int64()

	return domain.Activity{
		TransactionHash: r.TransactionHash,
		ProxyWallet:     r.ProxyWallet,
		ConditionID:     r.ConditionID,
		Type:            r.Type,
		Side:            r.Side,
		Size:            size,
		USDCSize:        usdcSize,
		Price:           price,
		Asset:           r.Asset,
		OutcomeIndex:    r.OutcomeIndex,
		Outcome:         r.Outcome,
		Title:           r.Title,
		Slug:            r.Slug,
		EventSlug:       r.EventSlug,
		Icon:            r.Icon,
		Timestamp:       ts,
		Name:            r.Name,
		Pseudonym:       r.Pseudonym,
		Bio:             r.Bio,
		ProfileImage:    normalizeImage(firstNonEmpty(r.ProfileImageOptimized, r.ProfileImage)),
	}
}

// normalizeImage reescribe los URIs ipfs:// a un gateway HTTP navegable.
func normalizeImage(u string) string {
	if strings.HasPrefix(u, "ipfs://") {
		hash := strings.TrimSpace(strings.TrimPrefix(u, "ipfs://"))
		return "https://cloudflare-ipfs.com/ipfs/" + hash
	}
	return u
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
