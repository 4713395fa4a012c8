package usecase

import "time"

// IdempotencyKeyTTL is how long idempotency keys are cached when no TTL is configured.
const IdempotencyKeyTTL = 24 * time.Hour
