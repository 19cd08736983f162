package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone_BareSubscriber(t *testing.T) {
	assert.Equal(t, "628123456789", NormalizePhone("8123456789"))
}

func TestNormalizePhone_LeadingZero(t *testing.T) {
	assert.Equal(t, "628123456789", NormalizePhone("08123456789"))
}

func TestNormalizePhone_DoublePrefix(t *testing.T) {
	assert.Equal(t, "628123456789", NormalizePhone("6208123456789"))
}

func TestNormalizePhone_AlreadyCanonical(t *testing.T) {
	assert.Equal(t, "628123456789", NormalizePhone("628123456789"))
}

func TestNormalizePhone_PassThrough(t *testing.T) {
	assert.Equal(t, "", NormalizePhone(""))
	assert.Equal(t, "+44 20 7946 0958", NormalizePhone("+44 20 7946 0958"))
	assert.Equal(t, "not-a-number", NormalizePhone("not-a-number"))
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"8123", "0812", "6208123", "628123", "", "12345", "abc"}
	for _, in := range inputs {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once), "input %q", in)
	}
}
