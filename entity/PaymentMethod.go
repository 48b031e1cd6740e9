package entity

import "strings"

const PaymentMethodCash = "cash"

// PaymentStatusFor: cash is collected on delivery, every other method is settled at checkout.
func PaymentStatusFor(method string) PaymentStatus {
	if strings.EqualFold(strings.TrimSpace(method), PaymentMethodCash) {
		return PaymentPending
	}
	return PaymentPaid
}
