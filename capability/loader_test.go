package capability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalogYAML = `
connectors:
  - name: stripe
    payment_methods:
      - method: card
        card_networks: [visa, mastercard]
        countries: [US, CA]
        currencies: [USD, CAD]
        capture_methods: [automatic, manual]
      - method: wallet
        method_types: [apple_pay]
        countries: [US]
  - name: adyen
    payment_methods:
      - method: card
        countries: [NL, DE, FR]
        currencies: [EUR]
        authentication_types: [three_ds]
`

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capabilities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalogFile(t, sampleCatalogYAML)

	catalog, err := Load(path)
	require.NoError(t, err)
	require.Len(t, catalog.Connectors, 2)

	stripe := catalog.Connectors[0]
	assert.Equal(t, "stripe", stripe.Name)
	require.Len(t, stripe.PaymentMethods, 2)
	assert.Equal(t, "card", stripe.PaymentMethods[0].Method)
	assert.Equal(t, []string{"visa", "mastercard"}, stripe.PaymentMethods[0].CardNetworks)
	assert.Equal(t, []string{"automatic", "manual"}, stripe.PaymentMethods[0].CaptureMethods)
	assert.Empty(t, stripe.PaymentMethods[1].Currencies)

	adyen := catalog.Connectors[1]
	assert.Equal(t, []string{"three_ds"}, adyen.PaymentMethods[0].AuthenticationTypes)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read capability file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeCatalogFile(t, "connectors: [\n  broken")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	catalog, err := LoadFromReader(strings.NewReader(sampleCatalogYAML))
	require.NoError(t, err)
	assert.Len(t, catalog.Connectors, 2)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("CAPABILITY_CONNECTOR", "stripe")

	path := writeCatalogFile(t, `
connectors:
  - name: ${CAPABILITY_CONNECTOR}
    payment_methods:
      - method: card
        countries: ["${CAPABILITY_COUNTRY:-US}"]
`)

	catalog, err := Load(path)
	require.NoError(t, err)
	require.Len(t, catalog.Connectors, 1)
	assert.Equal(t, "stripe", catalog.Connectors[0].Name)
	assert.Equal(t, []string{"US"}, catalog.Connectors[0].PaymentMethods[0].Countries)
}

func TestLoad_EnvSubstitutionOverridesDefault(t *testing.T) {
	t.Setenv("CAPABILITY_COUNTRY", "CA")

	path := writeCatalogFile(t, `
connectors:
  - name: stripe
    payment_methods:
      - method: card
        countries: ["${CAPABILITY_COUNTRY:-US}"]
`)

	catalog, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"CA"}, catalog.Connectors[0].PaymentMethods[0].Countries)
}

func TestSubstituteEnvVars_EscapedDollar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "${NOT_A_VAR}", substituteEnvVars("$${NOT_A_VAR}"))
}
