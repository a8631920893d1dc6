// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package redact strips secrets from strings before they reach the terminal
// or the logs.
package redact

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

// sensitiveEnvVars lists environment variables whose values must never be
// printed.
var sensitiveEnvVars = []string{
	"PLAINTES_TOKEN",
	"ANTHROPIC_API_KEY",
}

// minSecretLen avoids redacting short values that would match everywhere.
const minSecretLen = 4

const placeholder = "[REDACTED]"

var bearer = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*`)

var (
	mu        sync.RWMutex
	secrets   []string
	envLoaded bool
)

func loadEnvLocked() {
	if envLoaded {
		return
	}
	envLoaded = true
	for _, name := range sensitiveEnvVars {
		addLocked(os.Getenv(name))
	}
}

func addLocked(v string) {
	if len(v) < minSecretLen {
		return
	}
	for _, s := range secrets {
		if s == v {
			return
		}
	}
	secrets = append(secrets, v)
}

// Register adds a secret known only at runtime, such as a stored token.
func Register(secret string) {
	mu.Lock()
	defer mu.Unlock()
	loadEnvLocked()
	addLocked(secret)
}

// String replaces registered secrets, sensitive environment values and
// bearer credentials in s with a placeholder.
func String(s string) string {
	mu.Lock()
	loadEnvLocked()
	list := secrets
	mu.Unlock()

	for _, secret := range list {
		s = strings.ReplaceAll(s, secret, placeholder)
	}
	return bearer.ReplaceAllString(s, "${1}"+placeholder)
}

// ResetForTest forgets every secret so tests can change the environment.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()
	secrets = nil
	envLoaded = false
}
