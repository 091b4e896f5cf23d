package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the payload of both token kinds. Phone rides along for
// convenience only; authorization always re-reads the user row.
type Claims struct {
	UserID uint   `json:"user_id"`
	Phone  string `json:"phone,omitempty"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 bearer tokens. Signature verification is
// stateless; revocation lives in the user_tokens ledger.
type Codec struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{Secret: secret, AccessTTL: accessTTL, RefreshTTL: refreshTTL}
}

func (c *Codec) NewAccessToken(userID uint, phone string) (string, *Claims, error) {
	return c.sign(userID, phone, TypeAccess, c.AccessTTL)
}

// NewRefreshToken issues a refresh token with a fresh, internally generated
// jti. Callers must record the returned claims' ID in the ledger.
func (c *Codec) NewRefreshToken(userID uint, phone string) (string, *Claims, error) {
	return c.sign(userID, phone, TypeRefresh, c.RefreshTTL)
}

func (c *Codec) sign(userID uint, phone, typ string, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Phone:  phone,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func (c *Codec) ParseAccess(token string) (*Claims, error) {
	return c.parse(token, TypeAccess)
}

func (c *Codec) ParseRefresh(token string) (*Claims, error) {
	return c.parse(token, TypeRefresh)
}

func (c *Codec) parse(token, wantType string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrTokenInvalid
		}
		return c.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid || claims.Type != wantType {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
