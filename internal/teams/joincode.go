package teams

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/hugh/bugtracker/internal/database/models"
)

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeGenerator draws a candidate join code.
type CodeGenerator func() (string, error)

// RandomJoinCode draws models.JoinCodeLength characters uniformly from the
// upper-case alphanumeric alphabet.
func RandomJoinCode() (string, error) {
	var sb strings.Builder
	sb.Grow(models.JoinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := 0; i < models.JoinCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeJoinCode trims and upper-cases a user-supplied code.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsWellFormedJoinCode reports whether code, already normalized, could have
// been issued by RandomJoinCode.
func IsWellFormedJoinCode(code string) bool {
	if len(code) != models.JoinCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(joinCodeAlphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
