package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_Locales(t *testing.T) {
	en := New("en")
	id := New("id")

	assert.Equal(t, "en", en.Locale())
	assert.Equal(t, "id", id.Locale())
	assert.Equal(t, "Nama produk harus diisi", id.T(ProductNameRequired))
	assert.Equal(t, "Product name is required", en.T(ProductNameRequired))
	assert.Equal(t, "email already exists", en.T(UserDuplicate, "email"))
	assert.Equal(t, "email sudah digunakan", id.T(UserDuplicate, "email"))
}

func TestTranslator_FallsBackToEnglish(t *testing.T) {
	for _, locale := range []string{"", "fr", "not a locale"} {
		assert.Equal(t, "Internal server error", New(locale).T(InternalError), locale)
	}
}

func TestCatalog_EveryKeyTranslated(t *testing.T) {
	en := New("en")
	id := New("id")
	for _, k := range Keys() {
		assert.NotEqual(t, string(k), en.T(k, "x"), k)
		assert.NotEqual(t, string(k), id.T(k, "x"), k)
	}
}
