package gateways

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"qrnest_app_echo/internal/models"
)

const (
	ccavenueTestURL = "https://test.ccavenue.com/transaction/transaction.do?command=initiateTransaction"
	ccavenueLiveURL = "https://secure.ccavenue.com/transaction/transaction.do?command=initiateTransaction"
)

func init() {
	register(models.PaymentGatewayCCAvenue, func(cred *models.GatewayCredential) (Adapter, error) {
		return NewCCAvenueAdapter(cred.Credentials, cred.SandboxMode)
	})
}

// CCAvenueAdapter builds encrypted form requests for CCAvenue's redirect flow
// and parses the encrypted payloads it posts back.
type CCAvenueAdapter struct {
	merchantID string
	accessCode string
	workingKey string
	sandbox    bool
}

func NewCCAvenueAdapter(creds map[string]string, sandbox bool) (*CCAvenueAdapter, error) {
	if err := requireFields(models.PaymentGatewayCCAvenue, creds, "merchant_id", "access_code", "working_key"); err != nil {
		return nil, err
	}
	return &CCAvenueAdapter{
		merchantID: creds["merchant_id"],
		accessCode: creds["access_code"],
		workingKey: creds["working_key"],
		sandbox:    sandbox,
	}, nil
}

func (a *CCAvenueAdapter) Name() models.PaymentGateway { return models.PaymentGatewayCCAvenue }

func (a *CCAvenueAdapter) MinorUnits() bool { return false }

func (a *CCAvenueAdapter) CreateRemoteSession(ctx context.Context, req SessionRequest) (Session, error) {
	v := url.Values{}
	v.Set("merchant_id", a.merchantID)
	v.Set("order_id", req.OrderID)
	v.Set("currency", req.Currency)
	v.Set("amount", fmt.Sprintf("%.2f", req.Amount))
	v.Set("redirect_url", req.CallbackURL)
	v.Set("cancel_url", req.CallbackURL)
	v.Set("merchant_param1", req.UserID)
	v.Set("merchant_param2", req.PlanID)
	v.Set("language", "EN")

	encRequest, err := CCAvenueEncrypt(v.Encode(), a.workingKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt request: %w", err)
	}

	redirectURL := ccavenueLiveURL
	if a.sandbox {
		redirectURL = ccavenueTestURL
	}

	// The client POSTs these as an HTML form to the processor
	return Session{
		"encRequest":  encRequest,
		"accessCode":  a.accessCode,
		"merchantId":  a.merchantID,
		"redirectUrl": redirectURL,
	}, nil
}

// ParseCallback decrypts the encResp payload posted back by the processor and
// extracts the four fields the settlement flow requires.
func (a *CCAvenueAdapter) ParseCallback(raw string) (*CallbackResult, error) {
	plain, err := CCAvenueDecrypt(raw, a.workingKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCallback, err)
	}

	vals, err := url.ParseQuery(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not a parameter string", ErrInvalidCallback)
	}

	result := &CallbackResult{
		OrderID: vals.Get("order_id"),
		UserID:  vals.Get("merchant_param1"),
		PlanID:  vals.Get("merchant_param2"),
		Params:  map[string]string{},
	}
	orderStatus := vals.Get("order_status")

	for _, field := range []struct{ name, value string }{
		{"order_id", result.OrderID},
		{"order_status", orderStatus},
		{"merchant_param1", result.UserID},
		{"merchant_param2", result.PlanID},
	} {
		if field.value == "" {
			return nil, fmt.Errorf("%w: missing field %q", ErrInvalidCallback, field.name)
		}
	}

	for k := range vals {
		result.Params[k] = vals.Get(k)
	}

	// The processor reports "Success" with this exact casing; anything else,
	// including "success", is a failed settlement.
	result.Succeeded = orderStatus == "Success"

	return result, nil
}

// ccavenueIV is the fixed initialization vector mandated by the processor's
// protocol. It is publicly known and carries no secrecy.
var ccavenueIV = []byte{
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
}

// CCAvenueEncrypt encrypts a URL-encoded parameter string with AES-128-CBC
// keyed by the MD5 digest of the working key, returning hex ciphertext. The
// scheme is dictated by the processor and must interoperate bit-for-bit.
func CCAvenueEncrypt(plainText, workingKey string) (string, error) {
	if workingKey == "" {
		return "", fmt.Errorf("working key must not be empty")
	}
	key := md5.Sum([]byte(workingKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plainText), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, ccavenueIV).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(ciphertext), nil
}

// CCAvenueDecrypt reverses CCAvenueEncrypt
func CCAvenueDecrypt(encResp, workingKey string) (string, error) {
	if workingKey == "" {
		return "", fmt.Errorf("working key must not be empty")
	}
	ciphertext, err := hex.DecodeString(strings.TrimSpace(encResp))
	if err != nil {
		return "", fmt.Errorf("payload is not hex encoded: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("payload length %d is not a multiple of the block size", len(ciphertext))
	}

	key := md5.Sum([]byte(workingKey))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, ccavenueIV).CryptBlocks(plain, ciphertext)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}
