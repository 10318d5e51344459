package config

import "testing"

func validConfig() Config {
	cfg := Load()
	cfg.DatabaseURL = "postgres://localhost/leave"
	cfg.JWTSecret = "secret"
	return cfg
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg := validConfig()
	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}

	cfg = validConfig()
	cfg.JWTSecret = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}

	cfg = validConfig()
	cfg.Environment = "production"
	cfg.RunSeed = true
	cfg.SeedManagerPassword = "password123"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default seed password in production")
	}

	cfg = validConfig()
	cfg.Environment = "production"
	cfg.RunSeed = false
	cfg.SeedManagerPassword = "password123"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("seed disabled should pass: %v", err)
	}

	cfg = validConfig()
	cfg.TokenTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero TOKEN_TTL")
	}
}
