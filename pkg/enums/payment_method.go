package enums

import "fmt"

// PaymentMethod records how a buyer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodTransfer       PaymentMethod = "transfer"
	PaymentMethodCashOnDelivery PaymentMethod = "cod"
	PaymentMethodMobileWallet   PaymentMethod = "wallet"
	PaymentMethodOther          PaymentMethod = "other"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodTransfer,
	PaymentMethodCashOnDelivery,
	PaymentMethodMobileWallet,
	PaymentMethodOther,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
