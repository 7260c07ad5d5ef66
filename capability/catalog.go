package capability

// Catalog is the normalized connector capability input. Its schema is owned
// by account/configuration management; this package only consumes it.
type Catalog struct {
	Connectors []Connector `yaml:"connectors"`
}

// Connector describes the attribute combinations one connector supports.
type Connector struct {
	Name           string          `yaml:"name"`
	PaymentMethods []PaymentMethod `yaml:"payment_methods"`
}

// PaymentMethod is one supported payment-method entry. Empty lists leave the
// corresponding attribute domain unconstrained.
type PaymentMethod struct {
	Method              string   `yaml:"method"`
	MethodTypes         []string `yaml:"method_types,omitempty"`
	CardNetworks        []string `yaml:"card_networks,omitempty"`
	Countries           []string `yaml:"countries,omitempty"`
	Currencies          []string `yaml:"currencies,omitempty"`
	CaptureMethods      []string `yaml:"capture_methods,omitempty"`
	AuthenticationTypes []string `yaml:"authentication_types,omitempty"`
}
