package utils

import (
	rndm "math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// NewOrderID returns the opaque client-facing order identifier. It is distinct
// from the Mongo _id and stable once issued. The full UUID is kept so the
// unique orderid index never trips on a collision.
func NewOrderID() string {
	return "ORD" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
