package utils

import (
	"context"
	"time"
)

// Retry ejecuta fn con reintentos acotados y espera fija entre intentos.
// Lo usa el relayer al publicar: un broker con hipo no tira una fila de
// outbox, pero tampoco se reintenta aquí para siempre (la fila queda
// pendiente para el siguiente ciclo).
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}

		select {
		case <-time.After(delay):
			// espera antes del siguiente intento
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
