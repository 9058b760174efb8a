package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("1; DROP TABLE orders"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "price", ValidateSortField("price", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password_hash", ProductSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("name; --", OrderSortFields, "created_at"))
	assert.Equal(t, "order_number", ValidateSortField("order_number", OrderSortFields, "created_at"))
	assert.Equal(t, "username", ValidateSortField(" username ", UserSortFields, "created_at"))
}
