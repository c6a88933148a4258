// cmd/mintoken/main.go — mints a signed development JWT.
// Tokens normally come from the identity service; this backend only verifies
// them, so local testing needs a way to produce one.
// Usage: go run ./cmd/mintoken -shop <uuid> -staff <uuid> -role owner
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/say-lem/Ventree-Backend-sub001/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	shopID := flag.String("shop", "00000000-0000-0000-0000-000000000001", "shop uuid claim")
	staffID := flag.String("staff", "00000000-0000-0000-0000-000000000002", "staff uuid claim")
	name := flag.String("name", "Dev Owner", "staff name claim")
	role := flag.String("role", "owner", "role claim: owner | manager | sales")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	now := time.Now()
	claims := middleware.JWTClaims{
		StaffID: *staffID,
		ShopID:  *shopID,
		Name:    *name,
		Role:    *role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("sign error: %v", err)
	}
	fmt.Println(token)
}
