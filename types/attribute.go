// Package types defines the attribute vocabulary shared by the knowledge
// graph, connector capability descriptors, and routing-rule predicates.
package types

// Key identifies one attribute domain of a payment transaction. The set of
// keys is closed and known at graph-construction time.
type Key string

// Attribute domains the platform routes on.
const (
	KeyPaymentMethod      Key = "payment_method"
	KeyPaymentMethodType  Key = "payment_method_type"
	KeyCardNetwork        Key = "card_network"
	KeyCountry            Key = "country"
	KeyCurrency           Key = "currency"
	KeyCaptureMethod      Key = "capture_method"
	KeyAuthenticationType Key = "authentication_type"
	KeyConnector          Key = "connector"
	KeyMandateType        Key = "mandate_type"
)

// allKeys is the closed set of attribute domains, in declaration order.
var allKeys = []Key{
	KeyPaymentMethod,
	KeyPaymentMethodType,
	KeyCardNetwork,
	KeyCountry,
	KeyCurrency,
	KeyCaptureMethod,
	KeyAuthenticationType,
	KeyConnector,
	KeyMandateType,
}

// Keys returns every known attribute domain.
func Keys() []Key {
	keys := make([]Key, len(allKeys))
	copy(keys, allKeys)
	return keys
}

// Valid reports whether k is a known attribute domain.
func (k Key) Valid() bool {
	for _, known := range allKeys {
		if k == known {
			return true
		}
	}
	return false
}

// Value is one concrete attribute assignment, e.g. country=US. Equality is
// structural: two values are the same node identity iff key and value match.
type Value struct {
	Key   Key
	Value string
}

// NewValue creates an attribute value.
func NewValue(k Key, v string) Value {
	return Value{Key: k, Value: v}
}

// String returns the canonical key=value form.
func (v Value) String() string {
	return string(v.Key) + "=" + v.Value
}
