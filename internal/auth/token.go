package auth // package auth implements credential verification, session issuing and the role gate

import (
    "errors" // sentinel errors for token parsing failures
    "time"   // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrBadToken is returned when a session token fails signature or expiry
// validation, or its claims are not in the expected shape.
var ErrBadToken = errors.New("invalid session token")

// SessionToken represents a signed session JWT along with the claims the
// application cares about.  The Token field contains the serialized JWT
// carried in the session cookie.  SessionID mirrors the jti claim and keys
// the persisted session row, so the token can be revoked server-side.
type SessionToken struct {
    Token     string    // the serialized JWT string
    SessionID string    // uuid, equals the jti claim
    Exp       time.Time // the UTC expiration time
}

// TokenClaims is what signToken embeds and parseToken recovers: the owning
// user, their role at issue time, and the session identifier.
type TokenClaims struct {
    UserID    uint64
    Role      string
    SessionID string
}

// signToken builds and signs an HS256 JWT for a user.  The claims are the
// standard sub/exp/iat plus role and jti.  Role is embedded for display
// purposes only; the role gate always re-reads the user row, so a stale
// role claim cannot widen access.
func signToken(secret string, userID uint64, role string, sessionID string, exp time.Time) (string, error) {
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": role,
        "jti":  sessionID,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// parseToken validates signature and expiry and extracts the claims.  Any
// failure collapses to ErrBadToken; callers translate that to a 401.
func parseToken(secret, raw string) (TokenClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with a different algorithm.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrBadToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return TokenClaims{}, ErrBadToken
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return TokenClaims{}, ErrBadToken
    }
    out := TokenClaims{}
    switch sub := claims["sub"].(type) {
    case float64:
        out.UserID = uint64(sub)
    default:
        return TokenClaims{}, ErrBadToken
    }
    if role, ok := claims["role"].(string); ok {
        out.Role = role
    }
    jti, ok := claims["jti"].(string)
    if !ok || jti == "" {
        return TokenClaims{}, ErrBadToken
    }
    out.SessionID = jti
    return out, nil
}
