package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/todolist/internal/common"
	"github.com/zeebo/blake3"
)

const codeDigestContext = "todolist 2026-10 password reset code digest"

// GenerateResetCode returns a uniformly random 6-digit numeric code.
func GenerateResetCode() (string, error) {
	n, err := common.RandIntRange(100000, 999999)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// CodeDigester computes keyed digests of reset codes so a code can travel in a
// client-held session token without being readable there.
type CodeDigester struct {
	key [32]byte
}

// NewCodeDigester derives the digest key from the server secret.
func NewCodeDigester(secret []byte) *CodeDigester {
	d := &CodeDigester{}
	blake3.DeriveKey(codeDigestContext, secret, d.key[:])
	return d
}

// Digest binds code to email. Surrounding whitespace of the code is ignored.
func (d *CodeDigester) Digest(email, code string) string {
	h, err := blake3.NewKeyed(d.key[:])
	if err != nil {
		// only fails on a key that is not 32 bytes long
		panic(err)
	}
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(h.Sum(nil))
}

// Matches reports in constant time whether code hashes to digest for email.
func (d *CodeDigester) Matches(email, code, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(d.Digest(email, code)), []byte(digest)) == 1
}
