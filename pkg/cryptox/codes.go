package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for backup code hashing. Backup codes are short enough
// to be typed by hand, so a memory-hard hash is required at rest.
const (
	codeSaltLength  = 16
	codeIterations  = 3
	codeMemory      = 64 * 1024 // 64 MiB
	codeParallelism = 2
	codeKeyLength   = 32
)

// BackupCodeLength is the number of characters in a generated backup code.
const BackupCodeLength = 8

// backupCodeAlphabet avoids ambiguous characters (0/O, 1/I/L).
const backupCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

var ErrCodeMismatch = errors.New("cryptox: code does not match hash")

// GenerateBackupCode creates a random single-use backup code.
func GenerateBackupCode() (string, error) {
	var sb strings.Builder
	sb.Grow(BackupCodeLength)
	for range BackupCodeLength {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(backupCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate backup code: %w", err)
		}
		sb.WriteByte(backupCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// HashBackupCode generates a PHC-format Argon2id hash string including salt
// and parameters.
func HashBackupCode(code string) (string, error) {
	salt := make([]byte, codeSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(normalizeCode(code)),
		salt,
		codeIterations,
		codeMemory,
		codeParallelism,
		codeKeyLength,
	)
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		codeMemory,
		codeIterations,
		codeParallelism,
		b64Salt,
		b64Hash,
	), nil
}

// VerifyBackupCode compares a plaintext code against a PHC-style Argon2id
// hash. Returns ErrCodeMismatch when the code does not match.
func VerifyBackupCode(code, encodedHash string) error {
	parts := strings.Split(encodedHash, "$")

	// Expected: ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	if len(parts) != 6 {
		return errors.New("invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return fmt.Errorf("invalid hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid hash salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid hash digest: %w", err)
	}

	got := argon2.IDKey(
		[]byte(normalizeCode(code)),
		salt,
		iterations,
		memory,
		parallelism,
		uint32(len(want)),
	)

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrCodeMismatch
	}
	return nil
}

// normalizeCode makes code comparison forgiving of case and stray whitespace.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
