package retry

import (
	"context"
	"time"
)

// WithBackoff выполняет op с повторами и экспоненциальной задержкой.
// Между попытками уважаем контекст: отменённый запрос не досыпает бэкофф.
func WithBackoff(ctx context.Context, attempts int, initial time.Duration, op func() error) error {
	var err error
	delay := initial
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if i == attempts-1 {
			// после последней попытки досыпать нечего
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay < 5*time.Second {
			delay *= 2
		}
	}
	return err
}
