package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"palette-wardrobe/stylist/internal/auth"
	"palette-wardrobe/stylist/internal/config"
)

func main() {
	subject := flag.String("subject", "admin", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()

	token, err := auth.NewTokenService(cfg.AdminJWTSecret).Issue(*subject, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Println(token)
}
