// Package rategate implementa el control de admisión compartido del proceso:
// un token bucket de N llamadas por ventana deslizante. Las denegaciones son
// inmediatas (sin cola ni espera); decidir si se reintenta es cosa del caller.
//
// El reloj se inyecta para que los tests sean deterministas.
package rategate

import (
	"time"

	"golang.org/x/time/rate"
)

// Gate implementa ports.Gate sobre un rate.Limiter.
type Gate struct {
	limiter *rate.Limiter
	now     func() time.Time
}

// Option configura el Gate.
type Option func(*Gate)

// WithClock sustituye el reloj (para tests).
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// New crea un gate que admite como máximo n llamadas por ventana.
func New(n int, window time.Duration, opts ...Option) *Gate {
	if n <= 0 {
		n = 1
	}
	if window <= 0 {
		window = time.Second
	}
	g := &Gate{
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(n)), n),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allow consume un token si hay disponible. false = llamada denegada.
func (g *Gate) Allow() bool {
	return g.limiter.AllowN(g.now(), 1)
}
