package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	t.Cleanup(func() { SetLanguage("en") })

	assert.Equal(t, "field required", T("value_error.missing", nil))
	assert.Equal(t, "value is not a valid integer", T("type_error.integer", nil))

	SetLanguage("ja")
	assert.Equal(t, "必須フィールドです", T("value_error.missing", nil))

	SetLanguage("fr")
	assert.Equal(t, "field required", T("value_error.missing", nil), "unknown languages fall back to en")
}

func TestTranslator_Placeholders(t *testing.T) {
	got := T("value_error.number.not_ge", map[string]string{"limit_value": "1"})
	assert.Equal(t, "ensure this value is greater than or equal to 1", got)
}

func TestTranslator_UnknownCodeEchoesCode(t *testing.T) {
	assert.Equal(t, "no.such.code", T("no.such.code", nil))
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	t.Cleanup(func() { SetTranslator(nil) })
	assert.Equal(t, "X:type_error.str", T("type_error.str", nil))
}
