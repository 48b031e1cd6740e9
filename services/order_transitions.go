// services/order_transitions.go
package services

import "rta-backend/entity"

var nextStatus = map[entity.OrderStatus]entity.OrderStatus{
	entity.StatusConfirmed:      entity.StatusPreparing,
	entity.StatusPreparing:      entity.StatusReady,
	entity.StatusReady:          entity.StatusOutForDelivery,
	entity.StatusOutForDelivery: entity.StatusDelivered,
}

// CanTransition is the guard used in strict mode. Staying put is always allowed, so
// repeated updates and repeated cancellations are idempotent.
func CanTransition(from, to entity.OrderStatus) bool {
	if from == to {
		return true
	}
	if to == entity.StatusCancelled {
		return !from.Terminal()
	}
	return nextStatus[from] == to
}
