package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const signingService = "ProductAdvertisingAPI"

// requestSigner produces the AWS v4 signature headers the Product
// Advertising API requires on every call.
type requestSigner struct {
	accessKey string
	secretKey string
	region    string
}

func newRequestSigner(accessKey, secretKey, region string) *requestSigner {
	return &requestSigner{
		accessKey: accessKey,
		secretKey: secretKey,
		region:    region,
	}
}

func (s *requestSigner) sign(host, path, target string, payload []byte, now time.Time) map[string]string {
	amzDate := now.UTC().Format("20060102T150405Z")
	dateStamp := now.UTC().Format("20060102")

	canonicalHeaders := strings.Join([]string{
		"content-encoding:amz-1.0",
		"host:" + host,
		"x-amz-date:" + amzDate,
		"x-amz-target:" + target,
	}, "\n") + "\n"
	signedHeaders := "content-encoding;host;x-amz-date;x-amz-target"

	canonicalRequest := strings.Join([]string{
		"POST",
		path,
		"",
		canonicalHeaders,
		signedHeaders,
		hashHex(payload),
	}, "\n")

	scope := strings.Join([]string{dateStamp, s.region, signingService, "aws4_request"}, "/")
	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		scope,
		hashHex([]byte(canonicalRequest)),
	}, "\n")

	key := hmacSHA256([]byte("AWS4"+s.secretKey), dateStamp)
	key = hmacSHA256(key, s.region)
	key = hmacSHA256(key, signingService)
	key = hmacSHA256(key, "aws4_request")
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	return map[string]string{
		"Content-Encoding": "amz-1.0",
		"Content-Type":     "application/json; charset=utf-8",
		"X-Amz-Date":       amzDate,
		"X-Amz-Target":     target,
		"Authorization": fmt.Sprintf(
			"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
			s.accessKey, scope, signedHeaders, signature,
		),
	}
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
