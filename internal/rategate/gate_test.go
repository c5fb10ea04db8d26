package rategate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rvilla87/polymirror/internal/rategate"
)

func TestGate_BurstThenDeny(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := rategate.New(3, time.Minute, rategate.WithClock(func() time.Time { return now }))

	assert.True(t, g.Allow())
	assert.True(t, g.Allow())
	assert.True(t, g.Allow())
	// cuarta llamada dentro de la misma ventana: denegada, sin espera
	assert.False(t, g.Allow())
	assert.False(t, g.Allow())
}

func TestGate_RefillsOverTime(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g := rategate.New(2, time.Minute, rategate.WithClock(func() time.Time { return now }))

	assert.True(t, g.Allow())
	assert.True(t, g.Allow())
	assert.False(t, g.Allow())

	// medio intervalo de refill (30s para 2/min) aún no libera token
	now = now.Add(15 * time.Second)
	assert.False(t, g.Allow())

	now = now.Add(20 * time.Second) // 35s desde el burst: un token disponible
	assert.True(t, g.Allow())
	assert.False(t, g.Allow())
}

func TestGate_DegenerateConfigStillWorks(t *testing.T) {
	g := rategate.New(0, 0)
	assert.True(t, g.Allow())
}
