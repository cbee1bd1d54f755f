package ratelimiter

import (
	"time"
)

const (
	WindowLength = 60 * time.Second
	MaxRequests  = 10

	sweepThreshold = 1024
	redisKeyPrefix = "samenvatter:ratelimit:"
)
