package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housepoints/internal/domain"
)

func TestDefaultAwardPolicyTable(t *testing.T) {
	p := DefaultAwardPolicy()

	assert.Equal(t, 20, p.BaseValue(domain.CertInternal, domain.LevelBeginner))
	assert.Equal(t, 30, p.BaseValue(domain.CertInternal, domain.LevelIntermediate))
	assert.Equal(t, 40, p.BaseValue(domain.CertInternal, domain.LevelAdvanced))
	assert.Equal(t, 30, p.BaseValue(domain.CertExternal, domain.LevelBeginner))
	assert.Equal(t, 50, p.BaseValue(domain.CertExternal, domain.LevelIntermediate))
	assert.Equal(t, 60, p.BaseValue(domain.CertExternal, domain.LevelAdvanced))
}

func TestAwardPolicy_ResolveAward(t *testing.T) {
	p := DefaultAwardPolicy()

	points, err := p.ResolveAward(domain.CertExternal, domain.LevelIntermediate, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, points)

	points, err = p.ResolveAward(domain.CertInternal, domain.LevelBeginner, intptr(0))
	require.NoError(t, err)
	assert.Equal(t, 0, points)

	points, err = p.ResolveAward(domain.CertInternal, domain.LevelBeginner, intptr(MaxAwardPoints))
	require.NoError(t, err)
	assert.Equal(t, MaxAwardPoints, points)

	var validation *domain.ValidationError
	_, err = p.ResolveAward(domain.CertInternal, domain.LevelBeginner, intptr(MaxAwardPoints+1))
	require.ErrorAs(t, err, &validation)
	_, err = p.ResolveAward(domain.CertInternal, domain.LevelBeginner, intptr(-5))
	require.ErrorAs(t, err, &validation)
}

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "awards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAwardPolicy_MergesOverDefaults(t *testing.T) {
	path := writePolicyFile(t, `
max_override: 150
base:
  external:
    advanced: 80
`)

	p, err := LoadAwardPolicy(path)
	require.NoError(t, err)

	assert.Equal(t, 80, p.BaseValue(domain.CertExternal, domain.LevelAdvanced))
	// Untouched cells keep their defaults.
	assert.Equal(t, 20, p.BaseValue(domain.CertInternal, domain.LevelBeginner))
	assert.Equal(t, 50, p.BaseValue(domain.CertExternal, domain.LevelIntermediate))

	points, err := p.ResolveAward(domain.CertInternal, domain.LevelBeginner, intptr(120))
	require.NoError(t, err)
	assert.Equal(t, 120, points)
}

func TestLoadAwardPolicy_RejectsBadFiles(t *testing.T) {
	_, err := LoadAwardPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadAwardPolicy(writePolicyFile(t, "base: [not, a, map]"))
	require.Error(t, err)

	_, err = LoadAwardPolicy(writePolicyFile(t, "base:\n  diploma:\n    beginner: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown certificate type")

	_, err = LoadAwardPolicy(writePolicyFile(t, "base:\n  internal:\n    expert: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown level")

	_, err = LoadAwardPolicy(writePolicyFile(t, "base:\n  internal:\n    beginner: 500\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
