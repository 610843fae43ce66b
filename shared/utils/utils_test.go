package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateID(t *testing.T) {
	pattern := regexp.MustCompile(`^txn-[A-Za-z0-9]{10}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID(TransactionPrefix)
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3nha-forte", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "s3nha-forte", hash)
	assert.True(t, CheckPassword("s3nha-forte", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("s3nha-forte", "not-a-hash"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestValidateIDs(t *testing.T) {
	assert.True(t, ValidateTransactionID("txn-abc123DEF0"))
	assert.False(t, ValidateTransactionID("txn-"))
	assert.False(t, ValidateTransactionID("usr-abc"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "Ana@Example.COM", NormalizeEmail("  Ana@Example.COM "))
}
