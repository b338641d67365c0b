// Package i18n renders user-facing messages in the configured locale.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key identifies a message in the catalog.
type Key string

const (
	InternalError Key = "internal_error"
	InvalidBody   Key = "invalid_body"
	InvalidID     Key = "invalid_id"
	Duplicate     Key = "duplicate"

	UserRequired   Key = "user.required"
	UserIDRequired Key = "user.id_required"
	UserDuplicate  Key = "user.duplicate"
	UserNotFound   Key = "user.not_found"
	UserRegistered Key = "user.registered"
	UserUpdated    Key = "user.updated"
	UserDeleted    Key = "user.deleted"

	ProductNameRequired  Key = "product.name_required"
	ProductImageRequired Key = "product.image_required"
	ProductPriceInvalid  Key = "product.price_invalid"
	ProductStockInvalid  Key = "product.stock_invalid"
	ProductDuplicate     Key = "product.duplicate"
	ProductNotFound      Key = "product.not_found"
	ProductCreated       Key = "product.created"
	ProductUpdated       Key = "product.updated"
	ProductDeleted       Key = "product.deleted"
	ProductCategoryAdded Key = "product.category_added"

	CategoryNameRequired Key = "category.name_required"
	CategoryDuplicate    Key = "category.duplicate"
	CategoryInvalid      Key = "category.invalid"
	CategoryNotFound     Key = "category.not_found"

	CartQuantityInvalid Key = "cart.quantity_invalid"
	CartNotFound        Key = "cart.not_found"
	CartItemNotFound    Key = "cart.item_not_found"
	CartItemAdded       Key = "cart.item_added"
	CartItemUpdated     Key = "cart.item_updated"
	CartItemRemoved     Key = "cart.item_removed"

	TransactionAmountInvalid Key = "transaction.amount_invalid"
	TransactionRecorded      Key = "transaction.recorded"
)

var messages = map[Key][2]string{
	InternalError: {"Internal server error", "Terjadi kesalahan pada server"},
	InvalidBody:   {"Invalid request body", "Format permintaan tidak valid"},
	InvalidID:     {"Invalid id", "ID tidak valid"},
	Duplicate:     {"Record already exists", "Data sudah ada"},

	UserRequired:   {"Username, email, and password are required", "Username, email, dan password wajib diisi"},
	UserIDRequired: {"User id is required", "ID pengguna wajib diisi"},
	UserDuplicate:  {"%s already exists", "%s sudah digunakan"},
	UserNotFound:   {"User not found", "Pengguna tidak ditemukan"},
	UserRegistered: {"User registered successfully", "Pengguna berhasil didaftarkan"},
	UserUpdated:    {"User updated successfully", "Pengguna berhasil diperbarui"},
	UserDeleted:    {"User deleted successfully", "Pengguna berhasil dihapus"},

	ProductNameRequired:  {"Product name is required", "Nama produk harus diisi"},
	ProductImageRequired: {"Image URL is required", "URL gambar harus diisi"},
	ProductPriceInvalid:  {"Price must be a positive number", "Harga harus berupa angka positif"},
	ProductStockInvalid:  {"Stock must be a non-negative integer", "Stok harus berupa angka non-negatif"},
	ProductDuplicate:     {"A product with that name already exists", "Produk dengan nama tersebut sudah ada"},
	ProductNotFound:      {"Product not found", "Produk tidak ditemukan"},
	ProductCreated:       {"Product added successfully", "Produk berhasil ditambahkan"},
	ProductUpdated:       {"Product updated successfully", "Produk berhasil diperbarui"},
	ProductDeleted:       {"Product deleted successfully", "Produk berhasil dihapus"},
	ProductCategoryAdded: {"Product added to category", "Produk berhasil ditambahkan ke kategori"},

	CategoryNameRequired: {"Category name is required", "Nama kategori harus diisi"},
	CategoryDuplicate:    {"A category with that name already exists", "Kategori dengan nama tersebut sudah ada"},
	CategoryInvalid:      {"One or more categories do not exist", "Satu atau lebih kategori tidak ditemukan"},
	CategoryNotFound:     {"Category not found", "Kategori tidak ditemukan"},

	CartQuantityInvalid: {"Quantity must be a positive integer", "Jumlah harus berupa bilangan bulat positif"},
	CartNotFound:        {"Cart not found", "Keranjang tidak ditemukan"},
	CartItemNotFound:    {"Cart item not found", "Item keranjang tidak ditemukan"},
	CartItemAdded:       {"Item added to cart", "Item berhasil ditambahkan ke keranjang"},
	CartItemUpdated:     {"Cart item updated", "Item keranjang berhasil diperbarui"},
	CartItemRemoved:     {"Cart item removed", "Item berhasil dihapus dari keranjang"},

	TransactionAmountInvalid: {"Total amount must be a non-negative number", "Total harus berupa angka non-negatif"},
	TransactionRecorded:      {"Transaction recorded", "Transaksi berhasil dicatat"},
}

var supported = []language.Tag{language.English, language.Indonesian}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(supported)
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range messages {
		for i, tag := range supported {
			if err := b.SetString(tag, string(key), msg[i]); err != nil {
				panic(err)
			}
		}
	}
	return b
}

type Translator struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Translator for locale. Unsupported locales fall back to English.
func New(locale string) *Translator {
	_, idx, _ := matcher.Match(language.Make(locale))
	tag := supported[idx]
	return &Translator{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

func (t *Translator) T(key Key, args ...any) string {
	return t.p.Sprintf(string(key), args...)
}

func (t *Translator) Locale() string {
	return t.tag.String()
}

// Keys lists every message key in the catalog.
func Keys() []Key {
	keys := make([]Key, 0, len(messages))
	for k := range messages {
		keys = append(keys, k)
	}
	return keys
}
