package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_Valid(t *testing.T) {
	t.Parallel()

	for _, k := range Keys() {
		assert.True(t, k.Valid(), "key %q should be valid", k)
	}

	assert.False(t, Key("shipping_speed").Valid())
	assert.False(t, Key("").Valid())
}

func TestValue_String(t *testing.T) {
	t.Parallel()

	v := NewValue(KeyCountry, "US")
	assert.Equal(t, "country=US", v.String())
}

func TestValue_StructuralEquality(t *testing.T) {
	t.Parallel()

	a := NewValue(KeyCurrency, "USD")
	b := NewValue(KeyCurrency, "USD")
	c := NewValue(KeyCurrency, "EUR")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestContext_SetReplaces(t *testing.T) {
	t.Parallel()

	c := NewContext(NewValue(KeyCountry, "US"))
	c.Set(NewValue(KeyCountry, "CA"))

	v, ok := c.Get(KeyCountry)
	require.True(t, ok)
	assert.Equal(t, "CA", v.Value)
	assert.Equal(t, 1, c.Len())
}

func TestContext_ValuesSorted(t *testing.T) {
	t.Parallel()

	c := NewContext(
		NewValue(KeyCurrency, "USD"),
		NewValue(KeyCountry, "US"),
		NewValue(KeyCaptureMethod, "automatic"),
	)

	values := c.Values()
	require.Len(t, values, 3)
	assert.Equal(t, KeyCaptureMethod, values[0].Key)
	assert.Equal(t, KeyCountry, values[1].Key)
	assert.Equal(t, KeyCurrency, values[2].Key)
}

func TestContext_FingerprintOrderIndependent(t *testing.T) {
	t.Parallel()

	a := NewContext(NewValue(KeyCountry, "US"), NewValue(KeyCurrency, "USD"))
	b := NewContext(NewValue(KeyCurrency, "USD"), NewValue(KeyCountry, "US"))

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestContext_FingerprintDistinguishesContents(t *testing.T) {
	t.Parallel()

	a := NewContext(NewValue(KeyCountry, "US"))
	b := NewContext(NewValue(KeyCountry, "CA"))
	c := NewContext(NewValue(KeyCountry, "US"), NewValue(KeyCurrency, "USD"))

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestContext_String(t *testing.T) {
	t.Parallel()

	c := NewContext(NewValue(KeyCurrency, "USD"), NewValue(KeyCountry, "US"))
	assert.Equal(t, "{country=US, currency=USD}", c.String())
}

func TestPredicate_Constructors(t *testing.T) {
	t.Parallel()

	p := Any(
		All(ValueIs(NewValue(KeyCountry, "US")), ValueIs(NewValue(KeyCurrency, "USD"))),
		ValueIs(NewValue(KeyCountry, "CA")),
	)

	require.Equal(t, PredicateAny, p.Kind)
	require.Len(t, p.Children, 2)
	assert.Equal(t, PredicateAll, p.Children[0].Kind)
	assert.Equal(t, PredicateValue, p.Children[1].Kind)
	assert.Equal(t, 5, p.Size())
}

func TestPredicate_FingerprintStable(t *testing.T) {
	t.Parallel()

	build := func() *Predicate {
		return Not(All(
			ValueIs(NewValue(KeyPaymentMethod, "card")),
			Any(ValueIs(NewValue(KeyCountry, "US")), ValueIs(NewValue(KeyCountry, "CA"))),
		))
	}

	assert.Equal(t, build().Fingerprint(), build().Fingerprint())
}

func TestPredicate_FingerprintDistinguishesStructure(t *testing.T) {
	t.Parallel()

	us := ValueIs(NewValue(KeyCountry, "US"))
	ca := ValueIs(NewValue(KeyCountry, "CA"))

	assert.NotEqual(t, All(us, ca).Fingerprint(), Any(us, ca).Fingerprint())
	assert.NotEqual(t, All(us, ca).Fingerprint(), All(ca, us).Fingerprint())
	assert.NotEqual(t, us.Fingerprint(), Not(us).Fingerprint())
}
