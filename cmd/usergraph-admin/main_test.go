package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/usergraph/internal/config"
	"github.com/msomdec/usergraph/internal/credential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "admin-test-secret-0123456789abcdef"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{
		"JWT_SECRET":    testSecret,
		"SALT_ROUNDS":   "4",
		"DATABASE_PATH": filepath.Join(t.TempDir(), "admin.db"),
	})
	require.NoError(t, err)
	return cfg
}

func stubPassword(t *testing.T, pw string, err error) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), err }
	t.Cleanup(func() { readPassword = orig })
}

func TestRun_NoCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(context.Background(), testConfig(t), nil, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "usage:")
	assert.Empty(t, out.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), testConfig(t), []string{"explode"}, &out, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode")
}

func TestRun_Migrate(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), testConfig(t), []string{"migrate"}, &out, io.Discard))
	assert.Contains(t, out.String(), "migrations applied")
}

func TestRun_CreateUserThenToken(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	stubPassword(t, "s3cret", nil)

	var out, errOut bytes.Buffer
	require.NoError(t, run(ctx, cfg, []string{"create-user", "-username", "Alice", "-first", "Alice", "-last", "Liddell"}, &out, &errOut))
	assert.Contains(t, out.String(), "created alice")

	out.Reset()
	errOut.Reset()
	require.NoError(t, run(ctx, cfg, []string{"token", "-username", "alice"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "Enter password:")
	assert.NotContains(t, out.String(), "Enter password")
	assert.Equal(t, 1, strings.Count(out.String(), "\n"), "token output must be a single line")

	tokens, err := credential.NewTokens(testSecret, cfg.JWTExpiresIn)
	require.NoError(t, err)
	subject, err := tokens.Verify(strings.TrimSuffix(out.String(), "\n"))
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
}

func TestRun_CreateUserErrors(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	t.Run("terminal read fails", func(t *testing.T) {
		stubPassword(t, "", errors.New("not a terminal"))
		err := run(ctx, cfg, []string{"create-user", "-username", "bob", "-first", "B", "-last", "B"}, &bytes.Buffer{}, io.Discard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read password")
	})

	t.Run("invalid username", func(t *testing.T) {
		stubPassword(t, "pw", nil)
		err := run(ctx, cfg, []string{"create-user", "-username", "x", "-first", "B", "-last", "B"}, &bytes.Buffer{}, io.Discard)
		require.Error(t, err)
	})
}

func TestRun_TokenErrors(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	stubPassword(t, "pw", nil)
	require.NoError(t, run(ctx, cfg, []string{"create-user", "-username", "carol", "-first", "C", "-last", "C"}, &bytes.Buffer{}, io.Discard))

	stubPassword(t, "wrong", nil)
	tests := []struct {
		name string
		args []string
	}{
		{"missing username", []string{"token"}},
		{"unknown user", []string{"token", "-username", "ghost"}},
		{"wrong password", []string{"token", "-username", "carol"}},
		{"bad flag", []string{"token", "-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(ctx, cfg, tt.args, &bytes.Buffer{}, io.Discard)
			require.Error(t, err)
		})
	}
}
