package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Permission scopes for signed URLs.
const (
	PermRead  = "r"
	PermWrite = "w"
)

var (
	ErrBadSignature = errors.New("invalid URL signature")
	ErrExpired      = errors.New("URL signature expired")
)

// Signer issues and verifies HMAC-scoped, TTL-bound URLs for the blob routes.
// The signature binds permission, container, key and expiry, so a URL issued
// for uploading one object cannot touch anything else.
type Signer struct {
	secret  []byte
	baseURL string
}

func NewSigner(secret []byte, baseURL string) *Signer {
	return &Signer{secret: secret, baseURL: baseURL}
}

func (s *Signer) sign(perm, container, key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s|%d", perm, container, key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedURL returns a URL granting perm on container/key until now+ttl.
func (s *Signer) SignedURL(container, key, perm string, ttl time.Duration) (string, time.Time) {
	expires := time.Now().UTC().Add(ttl)
	exp := expires.Unix()
	q := url.Values{}
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("perm", perm)
	q.Set("sig", s.sign(perm, container, key, exp))
	return fmt.Sprintf("%s/blobs/%s/%s?%s", s.baseURL, container, key, q.Encode()), expires
}

// Verify checks a signature for the given scope.
func (s *Signer) Verify(container, key, perm, expStr, sig string) error {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	want := s.sign(perm, container, key, exp)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrBadSignature
	}
	if time.Now().UTC().Unix() > exp {
		return ErrExpired
	}
	return nil
}
