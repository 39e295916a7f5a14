// Package cryptox holds the server's cryptographic primitives: password
// hashing, one-time reset codes and keyed digests of those codes.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/todolist/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Argon2id parameters for newly hashed passwords.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// pbkdf2DefaultIterations applies to legacy "pbkdf2:sha256" hashes that do
// not spell out their iteration count.
const pbkdf2DefaultIterations = 600000

var ErrUnsupportedHash = errors.New("unsupported password hash format")

// HashPassword derives a salted argon2id hash encoded in PHC string form:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: empty password", common.ErrInvalidInput)
	}
	salt := common.GenerateRandByteArray(saltLen)
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword checks password against an encoded hash. Besides argon2id it
// accepts the "pbkdf2:sha256[:iterations]$salt$hexkey" layout so accounts
// imported from older deployments keep working.
func VerifyPassword(encoded, password string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return verifyArgon2id(encoded, password)
	case strings.HasPrefix(encoded, "pbkdf2:sha256"):
		return verifyPBKDF2(encoded, password)
	default:
		return false, ErrUnsupportedHash
	}
}

func verifyArgon2id(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 {
		return false, ErrUnsupportedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrUnsupportedHash
	}
	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrUnsupportedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrUnsupportedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrUnsupportedHash
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func verifyPBKDF2(encoded, password string) (bool, error) {
	method, rest, ok := strings.Cut(encoded, "$")
	if !ok {
		return false, ErrUnsupportedHash
	}
	salt, hexKey, ok := strings.Cut(rest, "$")
	if !ok {
		return false, ErrUnsupportedHash
	}

	iterations := pbkdf2DefaultIterations
	if fields := strings.Split(method, ":"); len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return false, ErrUnsupportedHash
		}
		iterations = n
	} else if len(fields) != 2 {
		return false, ErrUnsupportedHash
	}

	want, err := hex.DecodeString(hexKey)
	if err != nil {
		return false, ErrUnsupportedHash
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	defer common.WipeByteArray(got)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
