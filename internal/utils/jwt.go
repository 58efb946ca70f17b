package utils // package utils provides helper functions for token creation and key verification

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// BreakoutToken represents a signed JWT issued when a user successfully
// claims a lounge seat over REST.  The Token field contains the JWT
// string; Exp stores its UTC expiration.  The media collaborator accepts
// this token to admit the user into the table's breakout room, so the
// claims pin the exact (event, table, seat) the server granted.
type BreakoutToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewBreakoutToken builds and signs an HS256 JWT confirming a seat grant.
// It takes the signing secret, the user id, the event and table the seat
// belongs to, the seat index and a TTL in minutes.  The claims are:
// subject (sub), event_id, table_id, seat_index, expiration (exp) and
// issued at (iat).
func NewBreakoutToken(secret, userID string, eventID uint64, tableID string, seatIndex, ttlMin int) (BreakoutToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":        userID,
		"event_id":   eventID,
		"table_id":   tableID,
		"seat_index": seatIndex,
		"exp":        exp.Unix(),
		"iat":        time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return BreakoutToken{}, err
	}
	return BreakoutToken{Token: signed, Exp: exp}, nil
}
