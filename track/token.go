package track

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/libeasygo/cuserror"
)

type ShareClaims struct {
	TrackID uint64  `json:"trackId"`
	Epsilon float64 `json:"epsilon"`
	jwt.RegisteredClaims
}

func (impl *Tracks) tokenNew(id uint64, epsilon float64, validFor time.Duration) (token string, err error) {
	claims := ShareClaims{
		TrackID: id,
		Epsilon: epsilon,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	if validFor > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(validFor))
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(impl.tokenKey)

	return
}

func (impl *Tracks) tokenCheck(tokenS string) (id uint64, epsilon float64, err error) {
	if len(impl.tokenKey) == 0 {
		err = commerr.ErrUnauthenticated

		return
	}

	var claims ShareClaims

	token, err := jwt.ParseWithClaims(tokenS, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, cuserror.NewWithErrorMsg(fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]))
		}

		return impl.tokenKey, nil
	})

	if err != nil {
		return
	}

	if !token.Valid {
		err = commerr.ErrUnauthenticated

		return
	}

	id = claims.TrackID
	epsilon = claims.Epsilon

	return
}
