package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"github.com/skip2/go-qrcode"

	"ms-booking/internal/models"
)

// QRGenerator issues the encrypted QR image attached to a ticket when it
// is paid. The payload is the ticket serialized and AES-encrypted with a
// shared secret, so venue scanners holding the secret can verify it
// offline.
type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

func (q *QRGenerator) GenerateEncryptedQR(ticket models.Ticket) ([]byte, error) {
	data, err := json.Marshal(ticket)
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, q.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

// DecryptPayload reverses the encryption applied to a scanned QR string.
func (q *QRGenerator) DecryptPayload(encoded string) (*models.Ticket, error) {
	data, err := decryptAES(encoded, q.secret)
	if err != nil {
		return nil, err
	}

	var ticket models.Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	data := make([]byte, len(ciphertext)-aes.BlockSize)

	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])

	return data, nil
}
