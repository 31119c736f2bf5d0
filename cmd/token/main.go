// Command token mints an admin JWT for the write endpoints.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"booklibrary/internal/config"
	"booklibrary/internal/platform/crypto"
)

func main() {
	var (
		subject = flag.String("sub", "librarian", "Token subject")
		ttl     = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	)
	flag.Parse()

	config.LoadEnvFiles()

	token, jti, err := crypto.GenerateToken(os.Getenv("JWT_SECRET"), *subject, crypto.RoleAdmin, *ttl)
	if err != nil {
		slog.Error("generate token", "error", err)
		os.Exit(1)
	}
	slog.Info("token issued", "sub", *subject, "jti", jti, "expires_in", ttl.String())
	fmt.Println(token)
}
