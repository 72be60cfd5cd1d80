// Command token issues an operator access token for the API.
//
// When OPERATOR_PASSWORD_HASH is set the operator password must be given in
// OPERATOR_PASSWORD. Run with -hash to print the hash for a password.
package main

import (
	"flag"
	"fmt"
	"os"

	"bookkeeper/internal/config"
	"bookkeeper/internal/logger"
	"bookkeeper/internal/middleware"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	subject := flag.String("subject", "operator", "token subject")
	role := flag.String("role", "admin", "token role")
	hashOnly := flag.Bool("hash", false, "print the bcrypt hash of OPERATOR_PASSWORD and exit")
	flag.Parse()

	password := os.Getenv("OPERATOR_PASSWORD")
	if *hashOnly {
		hashed, err := middleware.HashOperatorPassword(password)
		if err != nil {
			logger.Get().Fatalf("failed to hash password: %v", err)
		}
		fmt.Println(hashed)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("failed to load configuration: %v", err)
	}

	if cfg.OperatorPasswordHash != "" && !middleware.VerifyOperatorPassword(cfg.OperatorPasswordHash, password) {
		logger.Get().Fatal("operator password rejected")
	}

	token, err := middleware.GenerateAccessToken(cfg.JWTSecret, *subject, *role, cfg.JWTExpirationDur)
	if err != nil {
		logger.Get().Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
