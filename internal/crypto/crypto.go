package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"cardvault/internal/errors"
)

// AlgorithmAESCBC is the only supported cipher transformation. The name
// matches the configuration value used by the persisted ciphertexts.
const AlgorithmAESCBC = "AES/CBC/PKCS5Padding"

// Config carries the symmetric key and cipher algorithm name read at startup.
type Config struct {
	Key       string
	Algorithm string
}

// Cipher provides the PAN confidentiality primitives: a deterministic
// SHA-256 digest for equality lookup, and reversible AES-CBC encryption
// for display/audit.
//
// The IV is the first 16 bytes of the configured key. This makes the
// encryption deterministic per key; it is kept so that existing
// ciphertexts remain decryptable.
type Cipher struct {
	key []byte
	iv  []byte
}

// New validates the configuration and builds a Cipher. The key must be
// 16, 24 or 32 bytes long.
func New(cfg Config) (*Cipher, error) {
	if cfg.Algorithm != AlgorithmAESCBC {
		return nil, errors.CryptoFailure("unsupported cipher algorithm: %s", cfg.Algorithm)
	}
	key := []byte(cfg.Key)
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, errors.CryptoFailure("encryption key must be 16, 24 or 32 bytes, got %d", len(key))
	}
	return &Cipher{key: key, iv: key[:aes.BlockSize]}, nil
}

// Digest returns the lowercase hex SHA-256 of the UTF-8 bytes of pan.
// Deterministic; suitable for equality lookup, not confidentiality.
func Digest(pan string) string {
	sum := sha256.Sum256([]byte(pan))
	return hex.EncodeToString(sum[:])
}

// Encrypt returns the standard Base64 of the AES-CBC ciphertext of pan.
func (c *Cipher) Encrypt(pan string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", errors.CryptoFailure("create cipher: %v", err)
	}

	plaintext := pad([]byte(pan))
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(ciphertext, plaintext)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.CryptoFailure("decode base64: %v", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", errors.CryptoFailure("invalid ciphertext length: %d bytes", len(ciphertext))
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", errors.CryptoFailure("create cipher: %v", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

// pad applies PKCS#5/PKCS#7 padding up to the AES block size.
func pad(data []byte) []byte {
	padding := aes.BlockSize - len(data)%aes.BlockSize
	for i := 0; i < padding; i++ {
		data = append(data, byte(padding))
	}
	return data
}

// unpad strips and verifies PKCS#5/PKCS#7 padding.
func unpad(data []byte) ([]byte, error) {
	padding := int(data[len(data)-1])
	if padding == 0 || padding > aes.BlockSize || padding > len(data) {
		return nil, errors.CryptoFailure("invalid padding value: %d", padding)
	}
	for i := len(data) - padding; i < len(data); i++ {
		if int(data[i]) != padding {
			return nil, errors.CryptoFailure("invalid padding byte at position %d", i)
		}
	}
	return data[:len(data)-padding], nil
}
