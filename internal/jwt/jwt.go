package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"beatme-server/pkg/table"
)

// Issuer issues the JWT
const Issuer = "beatme-server"

// Audience is the intended JWT audience
const Audience = "beatme-table"

// Signer signs and validates seat tokens
type Signer struct {
	secret []byte
}

// NewSigner returns a signer for the HMAC secret
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &Signer{secret: []byte(secret)}, nil
}

type seatClaims struct {
	jwtgo.RegisteredClaims
	Token string `json:"tok"`
}

// Sign will sign a JWT for the seat handle
func (s *Signer) Sign(h table.SeatHandle) (string, error) {
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, seatClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			ID:       uuid.New().String(),
			IssuedAt: jwtgo.NewNumericDate(time.Now()),
			Issuer:   Issuer,
			Subject:  strconv.Itoa(h.Index),
		},
		Token: h.Token,
	})

	return token.SignedString(s.secret)
}

// ValidSeat will validate a signed JWT and return the seat handle it was issued for
func (s *Signer) ValidSeat(signedString string) (table.SeatHandle, error) {
	token, err := jwtgo.ParseWithClaims(signedString, &seatClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return s.secret, nil
	})

	if err != nil {
		return table.SeatHandle{}, err
	}

	if !token.Valid {
		logrus.Warn("token claims were not valid. did not expect to reach this code")
		return table.SeatHandle{}, errors.New("claims were not valid")
	}

	claims, ok := token.Claims.(*seatClaims)
	if !ok {
		return table.SeatHandle{}, fmt.Errorf("expected seatClaims, got %T", token.Claims)
	}

	if !containsAudience(claims.Audience, Audience) {
		return table.SeatHandle{}, errors.New("invalid audience")
	}

	if claims.Issuer != Issuer {
		return table.SeatHandle{}, errors.New("invalid issuer")
	}

	index, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return table.SeatHandle{}, fmt.Errorf("invalid subject: %w", err)
	}

	return table.SeatHandle{
		Index: index,
		Token: claims.Token,
	}, nil
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
