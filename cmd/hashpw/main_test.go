package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRunPrintsHash(t *testing.T) {
	var out bytes.Buffer
	if err := run(strings.NewReader("s3cret\n"), &out, bcrypt.MinCost); err != nil {
		t.Fatalf("run: %v", err)
	}

	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
}

func TestRunWithoutTrailingNewline(t *testing.T) {
	var out bytes.Buffer
	if err := run(strings.NewReader("pw"), &out, bcrypt.MinCost); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(bytes.TrimSpace(out.Bytes()), []byte("pw")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
}

func TestRunEmptyPassword(t *testing.T) {
	var out bytes.Buffer
	if err := run(strings.NewReader("\n"), &out, bcrypt.MinCost); !errors.Is(err, errEmptyPassword) {
		t.Fatalf("expected empty password error, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output")
	}
}
