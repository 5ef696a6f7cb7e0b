package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/toko-cart/internal/common"
)

// ErrInvalidToken is wrapped by every token verification failure.
var ErrInvalidToken = errors.New("auth: invalid token")

// Verifier validates HMAC signed shopper tokens and extracts their subject.
type Verifier struct {
	Secret    []byte
	Issuer    string
	Audience  string
	ClockSkew time.Duration
	Algorithm jwa.SignatureAlgorithm
	Now       func() time.Time
}

func (v Verifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

func (v Verifier) algorithm() jwa.SignatureAlgorithm {
	if v.Algorithm == "" {
		return jwa.HS256
	}
	return v.Algorithm
}

// ParseAccessToken validates a token and returns the subject (user ID).
func (v Verifier) ParseAccessToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", unauthorized("missing token", nil)
	}
	if len(v.Secret) == 0 {
		return "", unauthorized("invalid token", errors.New("auth: secret not configured"))
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", unauthorized("invalid token", err)
	}
	if algorithm != v.algorithm() {
		return "", unauthorized("invalid token", fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, v.Secret), jwt.WithValidate(false))
	if err != nil {
		return "", unauthorized("invalid token", err)
	}
	if err := v.validate(parsed); err != nil {
		return "", unauthorized("invalid token", err)
	}
	if strings.TrimSpace(parsed.Subject()) == "" {
		return "", unauthorized("invalid token", errors.New("auth: token missing subject"))
	}
	return parsed.Subject(), nil
}

// Sign issues a token for subject valid for ttl. Used by tooling and tests.
func (v Verifier) Sign(subject string, ttl time.Duration) (string, error) {
	now := v.now()
	builder := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(now).
		NotBefore(now.Add(-v.ClockSkew)).
		Expiration(now.Add(ttl))
	if v.Issuer != "" {
		builder = builder.Issuer(v.Issuer)
	}
	if v.Audience != "" {
		builder = builder.Audience([]string{v.Audience})
	}
	tok, err := builder.Build()
	if err != nil {
		return "", err
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(v.algorithm(), v.Secret))
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

func (v Verifier) validate(tok jwt.Token) error {
	now := v.now()
	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
	}
	if v.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(v.ClockSkew))
	}
	if v.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		options = append(options, jwt.WithAudience(v.Audience))
	}
	return jwt.Validate(tok, options...)
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", fmt.Errorf("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func unauthorized(message string, err error) error {
	if err == nil {
		err = ErrInvalidToken
	} else {
		err = fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return common.NewAppError("UNAUTHORIZED", message, http.StatusUnauthorized, err)
}
