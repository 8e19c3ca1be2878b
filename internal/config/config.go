package config

import (
	"encoding/base64"
	"fmt"
	"time"
)

const (
	defaultCounterTTL = 7 * 24 * time.Hour
	defaultRosterTTL  = 5 * time.Minute
)

type Config struct {
	ServerAddr     string
	DatabaseDSN    string
	RedisAddr      string
	SigningKey     []byte
	AllowedOrigins []string
	// CounterTTL bounds how long an untouched unread counter is retained.
	CounterTTL time.Duration
	// RosterTTL bounds the staleness of the cached enrolled-user roster
	// used for unread fan-out. Authorization never reads this cache.
	RosterTTL time.Duration
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64Secret)
}

func NewConfig(serverAddr, databaseDSN, redisAddr, base64Secret string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if redisAddr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		ServerAddr:     serverAddr,
		DatabaseDSN:    databaseDSN,
		RedisAddr:      redisAddr,
		SigningKey:     signingKey,
		AllowedOrigins: allowedOrigins,
		CounterTTL:     defaultCounterTTL,
		RosterTTL:      defaultRosterTTL,
	}, nil
}
