// Package checksum implements the gateway's keyed signature scheme: a
// SHA-256 digest of the canonical payload and a salt, AES-128-CBC encrypted
// under the merchant key and base64 encoded. The same construction signs
// outbound request bodies and verifies inbound response bodies.
package checksum

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// iv is fixed by the gateway's contract.
const iv = "@@@@&&&&####$$$$"

const saltLength = 4

var (
	ErrInvalidKey       = errors.New("merchant key must be a valid AES key")
	ErrMalformedDigest  = errors.New("decrypted digest is malformed")
	ErrInvalidSignature = errors.New("signature does not match payload")
)

// Generate computes the signature for a canonical payload. The salt is
// derived from the payload and key rather than drawn at random, so the same
// payload always yields the same signature within a process; derived salts
// verify identically under Verify.
func Generate(payload, key string) (string, error) {
	salt := deriveSalt(payload, key)
	return encrypt(calculateHash(payload, salt), key)
}

// Verify checks a signature against the canonical payload it claims to
// cover. Any decode, decrypt or digest mismatch is a hard failure.
func Verify(payload, key, signature string) error {
	if signature == "" {
		return ErrInvalidSignature
	}

	decrypted, err := decrypt(signature, key)
	if err != nil {
		return err
	}
	if len(decrypted) <= saltLength {
		return ErrMalformedDigest
	}

	salt := decrypted[len(decrypted)-saltLength:]
	expected := calculateHash(payload, salt)

	if subtle.ConstantTimeCompare([]byte(expected), []byte(decrypted)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// calculateHash returns sha256hex(payload|salt) with the salt appended, the
// digest format the gateway expects inside the encrypted signature.
func calculateHash(payload, salt string) string {
	digest := sha256.Sum256([]byte(payload + "|" + salt))
	return hex.EncodeToString(digest[:]) + salt
}

func deriveSalt(payload, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))[:saltLength]
}

func encrypt(plaintext, key string) (string, error) {
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	padded := pkcs7Pad([]byte(plaintext), block.BlockSize())
	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, []byte(iv)).CryptBlocks(encrypted, padded)

	return base64.StdEncoding.EncodeToString(encrypted), nil
}

func decrypt(signature, key string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return "", fmt.Errorf("%w: not base64", ErrInvalidSignature)
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) == 0 || len(raw)%block.BlockSize() != 0 {
		return "", ErrMalformedDigest
	}

	decrypted := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, []byte(iv)).CryptBlocks(decrypted, raw)

	unpadded, err := pkcs7Unpad(decrypted, block.BlockSize())
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrMalformedDigest
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, ErrMalformedDigest
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrMalformedDigest
		}
	}
	return data[:len(data)-padding], nil
}
