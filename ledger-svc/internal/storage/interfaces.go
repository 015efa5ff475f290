package storage

import "overcooked-pos/ledger-svc/internal/service"

var (
	_ service.MenuCache      = (*RedisCache)(nil)
	_ service.PaymentMarker  = (*RedisCache)(nil)
	_ service.EventPublisher = (*KafkaPublisher)(nil)
)
