// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

// Package auth protects the admin area with basic auth backed by an
// argon2id hash file. Without an auth file the admin area stays open,
// which is acceptable for a local single-device deployment only.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/argon2"
)

// argon2id parameters
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Credentials holds the admin username and argon2id password hash.
type Credentials struct {
	User string
	Hash string
}

// LoadCredentials reads an auth file in `username:hash` format. A
// missing file returns nil credentials and no error.
func LoadCredentials(filename string) (*Credentials, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read auth file: %w", err)
	}
	line := strings.TrimSpace(string(data))
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid auth file format (expected username:hash)")
	}
	return &Credentials{User: parts[0], Hash: parts[1]}, nil
}

// HashPassword creates an argon2id hash in the
// $argon2id$v=19$m=..,t=..,p=..$salt$hash encoding.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// VerifyPassword checks a password against an encoded argon2id hash
// using a constant-time comparison.
func VerifyPassword(password, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	computedHash := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(decodedHash)))
	return subtle.ConstantTimeCompare(decodedHash, computedHash) == 1, nil
}

// Middleware enforces basic auth against the credentials. With nil
// credentials every request passes.
func Middleware(creds *Credentials, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if creds == nil {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(creds.User)) == 1

		passMatch := false
		if ok && userMatch {
			var err error
			passMatch, err = VerifyPassword(pass, creds.Hash)
			if err != nil {
				logger.Warn("could not verify password", "error", err)
				passMatch = false
			}
		}

		if !ok || !userMatch || !passMatch {
			logger.Warn("failed admin auth attempt", "remote", c.ClientIP(), "user", user)
			c.Header("WWW-Authenticate", `Basic realm="StaseraMilano admin"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// CreateAuthFile writes `username:hash` with read-only permissions.
func CreateAuthFile(filename, username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	content := fmt.Sprintf("%s:%s\n", username, hash)
	if err := os.WriteFile(filename, []byte(content), 0400); err != nil {
		return fmt.Errorf("write auth file: %w", err)
	}
	return nil
}
