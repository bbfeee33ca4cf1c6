package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-docs/internal/adapters/driven/auth"
)

func newTestRoot(out *bytes.Buffer) *cobra.Command {
	root := NewRootCmd()
	NewTokenCmd(root)
	NewVersionCmd(root)
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	return root
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := newTestRoot(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Version: dev") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestTokenCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LOG_FORMAT", "json")

	var out bytes.Buffer
	root := newTestRoot(&out)
	root.SetArgs([]string{"token", "--user", "user-7", "--name", "Floki"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := auth.NewAdapter("test-secret", "sercha-docs").ParseToken(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("printed token does not verify: %v", err)
	}
	if claims.UserID != "user-7" || claims.Name != "Floki" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenCmd_RequiresUserAndSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	root := newTestRoot(&bytes.Buffer{})
	root.SetArgs([]string{"token"})
	if err := root.Execute(); err == nil {
		t.Error("expected error without --user")
	}

	root = newTestRoot(&bytes.Buffer{})
	root.SetArgs([]string{"token", "--user", "u"})
	if err := root.Execute(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("expected JWT_SECRET error, got %v", err)
	}
}
