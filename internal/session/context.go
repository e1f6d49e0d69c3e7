package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const localsKey = "identity"

// FromClaims builds an Identity from the access-token claims issued by the
// auth service.
func FromClaims(claims jwt.MapClaims) (Identity, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, errors.New("missing sub claim")
	}
	role, _ := claims["role"].(string)
	if !Role(role).Valid() {
		return Identity{}, errors.New("invalid role claim")
	}
	email, _ := claims["email"].(string)

	id := sub
	if pid, ok := claims["pid"].(string); ok && pid != "" {
		id = pid
	}
	return Identity{ID: id, UserID: sub, Email: email, Role: Role(role)}, nil
}

// FromToken reads the Identity out of the JWT the jwt middleware stored.
func FromToken(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Identity{}, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}
	return FromClaims(claims)
}

func Set(c *fiber.Ctx, id Identity) {
	c.Locals(localsKey, id)
}

func Get(c *fiber.Ctx) (Identity, error) {
	id, ok := c.Locals(localsKey).(Identity)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}
