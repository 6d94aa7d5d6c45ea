package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.json")
	content := `{"chain_id": "test-chain-1", "app_state": {"conf": {"escrow": {"asset": "IOV"}}}}`
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))

	gen, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "test-chain-1", gen.ChainID)
	assert.Contains(t, gen.AppState, "conf")

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	require.NoError(t, ioutil.WriteFile(path, []byte(`{"chain_id": 1}`), 0600))
	_, err = LoadGenesis(path)
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
}
