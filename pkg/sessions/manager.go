package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gomodule/redigo/redis"

	"postboard/pkg/common"
	"postboard/pkg/user"
)

const (
	sessionTTL = 90 * 24 * time.Hour

	// A session closer to expiry than this gets prolongated on use so
	// an active user is not kicked out.
	prolongThreshold = 24 * time.Hour
)

type (
	sessionKey string

	// SessionManager is the identity context: it turns a bearer token
	// into a verified user, backed by per-user session records in
	// Redis.
	SessionManager struct {
		secret []byte
		redis  redis.Conn
	}

	jwtClaims struct {
		User user.User `json:"user"`
		jwt.StandardClaims
	}
)

const SessionKey sessionKey = "authenticatedUser"

var ErrNoAuth = errors.New("sessions: no session found")

func NewSessionManager(secret string, conn redis.Conn) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		redis:  conn,
	}
}

// UserFromToken validates the Authorization header against the JWT
// signature and the Redis session record, and returns the caller.
func (sm *SessionManager) UserFromToken(authHeader string) (*user.User, error) {
	if authHeader == "" {
		return nil, errors.New("sessions: auth header not found")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(sm.secret), nil
		})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, errors.New("sessions: can't cast token to claims")
	}
	if !token.Valid {
		return nil, errors.New("sessions: token is not valid")
	}

	if _, err := sm.checkSession(claims.User.Id, claims.Id); err != nil {
		return nil, fmt.Errorf("sessions: session is not valid: %v", err)
	}

	return &claims.User, nil
}

func (sm *SessionManager) CreateToken(u *user.User) (string, error) {
	sessionID := common.RandStringRunes(10)
	data := jwtClaims{
		User: *u,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(sessionTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
			Id:        sessionID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, data).SignedString(sm.secret)
	if err != nil {
		return ``, err
	}

	if err := sm.saveSession(u.Id, sessionID, data.ExpiresAt); err != nil {
		log.Println("sessions: failed saving session to Redis:", err)
		return ``, err
	}

	return token, nil
}

// CleanupUserSessions removes the user's expired session records.
func (sm *SessionManager) CleanupUserSessions(userId string) error {
	userSessions, err := redis.StringMap(sm.redis.Do("HGETALL", userId))
	if err != nil {
		log.Println("sessions: can't HGETALL user sessions from Redis:", err)
		return err
	}

	nowTs := time.Now().Unix()
	for sessId, exp := range userSessions {
		expTs, _ := strconv.ParseInt(exp, 10, 64)
		if nowTs > expTs {
			sm.redis.Do("HDEL", userId, sessId)
		}
	}

	return nil
}

func (sm *SessionManager) checkSession(userId, sessionId string) (bool, error) {
	expirationData, err := redis.Bytes(sm.redis.Do("HGET", userId, sessionId))
	if err != nil {
		log.Println("sessions: can't HGET from Redis:", err)
		return false, err
	}

	expTs, _ := strconv.ParseInt(string(expirationData), 10, 64)
	nowTs := time.Now().Unix()
	if nowTs > expTs {
		return false, errors.New("session has expired")
	}

	if expTs-nowTs < int64(prolongThreshold.Seconds()) {
		newExp := time.Now().Add(sessionTTL).Unix()
		if err := sm.saveSession(userId, sessionId, newExp); err != nil {
			log.Println("sessions: failed prolongating session:", err)
			return false, err
		}
	}

	return true, nil
}

func (sm *SessionManager) saveSession(userId, sessionId string, exp int64) error {
	if _, err := sm.redis.Do("HSET", userId, sessionId, exp); err != nil {
		return fmt.Errorf("sessions: failed HSET to Redis: %v", err)
	}
	return nil
}

// GetAuthUser returns the caller the auth middleware resolved for this
// request, or ErrNoAuth for an anonymous one.
func GetAuthUser(ctx context.Context) (*user.User, error) {
	u, ok := ctx.Value(SessionKey).(*user.User)
	if !ok || u == nil {
		return nil, ErrNoAuth
	}
	return u, nil
}
