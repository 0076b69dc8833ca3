package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"wiktowice_site/internal/common"
)

// Subject của token
const (
	SubjectAdmin     = "admin"
	SubjectBankAdmin = "bank_admin"
)

// SessionClaims là dữ liệu trong token phiên
type SessionClaims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// Issuer cấp và kiểm tra token HS256
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer tạo issuer với secret và thời gian sống của token
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue cấp token cho role, trả về token và thời điểm hết hạn
func (i *Issuer) Issue(role string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := SessionClaims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Subject:   role,
			IssuedAt:  now.Unix(),
			ExpiresAt: exp.Unix(),
			Issuer:    "wiktowice_site",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Parse kiểm tra chữ ký và hạn của token
func (i *Issuer) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
