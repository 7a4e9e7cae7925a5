package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return []byte(secret)
}

func parseBearer(ctx *fiber.Ctx) (jwt.MapClaims, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return nil, false
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

// JwtMiddleware rejects requests without a valid bearer token.
func JwtMiddleware(ctx *fiber.Ctx) error {
	claims, ok := parseBearer(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing or invalid token"})
	}

	ctx.Locals("user_id", claims["user_id"])
	ctx.Locals("is_admin", claims["is_admin"] == true)
	return ctx.Next()
}

// OptionalJwtMiddleware resolves the user when a token is present but lets
// anonymous requests through (session-based event tracking and similar-item
// lookups work without an account).
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	if claims, ok := parseBearer(ctx); ok {
		ctx.Locals("user_id", claims["user_id"])
		ctx.Locals("is_admin", claims["is_admin"] == true)
	}
	return ctx.Next()
}

// AdminOnlyMiddleware guards catalog mutations. Must run after JwtMiddleware.
func AdminOnlyMiddleware(ctx *fiber.Ctx) error {
	if isAdmin, ok := ctx.Locals("is_admin").(bool); !ok || !isAdmin {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized"})
	}
	return ctx.Next()
}
