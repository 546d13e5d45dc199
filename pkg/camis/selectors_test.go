package camis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSelectors_OverridesSubsetKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	content := "login_user: '#customUser'\nadd_button: '#customAdd'\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	selectors, err := LoadSelectors(path)
	require.NoError(t, err)

	assert.Equal(t, "#customUser", selectors.LoginUser)
	assert.Equal(t, "#customAdd", selectors.AddButton)

	defaults := DefaultSelectors()
	assert.Equal(t, defaults.LoginPassword, selectors.LoginPassword)
	assert.Equal(t, defaults.SaveButton, selectors.SaveButton)
	assert.Equal(t, defaults.EntryRow, selectors.EntryRow)
}

func TestLoadSelectors_MissingFile(t *testing.T) {
	_, err := LoadSelectors(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadSelectors_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selectors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("login_user: [unclosed"), 0o644))

	_, err := LoadSelectors(path)
	assert.Error(t, err)
}
