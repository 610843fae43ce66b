package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ID prefixes
const (
	UserPrefix        = "usr"
	TransactionPrefix = "txn"
	NotePrefix        = "note"
)

// GenerateID generates a unique ID with the given prefix
func GenerateID(prefix string) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 10

	result := make([]byte, length)
	for i := range result {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[num.Int64()]
	}

	return fmt.Sprintf("%s-%s", prefix, string(result))
}

// HashPassword hashes a password with bcrypt at the given cost.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func ValidateTransactionID(transactionID string) bool {
	return strings.HasPrefix(transactionID, TransactionPrefix+"-") && len(transactionID) > len(TransactionPrefix)+1
}

// NormalizeEmail trims surrounding whitespace. Case is kept: emails are
// matched exactly as stored.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
