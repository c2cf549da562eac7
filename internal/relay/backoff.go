package relay

import "time"

// Значения backoff по умолчанию.
const (
	defaultReconnectInitial = time.Second
	defaultReconnectMax     = 30 * time.Second
)

// Backoff — политика повторных подключений к брокеру.
//
// Задержка перед попыткой N (N >= 1): Initial * 2^(N-1), но не больше Max.
type Backoff struct {
	// Initial — задержка после первой неудачной попытки.
	Initial time.Duration

	// Max — верхняя граница задержки.
	Max time.Duration

	// MaxAttempts — максимум подряд неудачных попыток (0 — без ограничения).
	MaxAttempts int
}

// DefaultBackoff возвращает политику по умолчанию: 1s → 30s, без ограничения попыток.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial: defaultReconnectInitial,
		Max:     defaultReconnectMax,
	}
}

// Delay вычисляет задержку после attempt неудачных попыток подряд.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := b.Initial
	if initial <= 0 {
		initial = defaultReconnectInitial
	}

	maxDelay := b.Max
	if maxDelay <= 0 {
		maxDelay = defaultReconnectMax
	}

	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}

	return min(delay, maxDelay)
}

// Exhausted сообщает, что лимит попыток достигнут.
func (b Backoff) Exhausted(attempts int) bool {
	return b.MaxAttempts > 0 && attempts >= b.MaxAttempts
}
