package dbm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintAndLastModified(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chatlog.db")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, old, old))

	d := NewDBManager(dir, map[string][]string{"archive": {"chatlog.db"}})

	fp1, err := d.FingerprintForGroups("archive")
	require.NoError(t, err)
	assert.NotEmpty(t, fp1)

	mod, err := d.LastModifiedForGroups("archive")
	require.NoError(t, err)
	assert.Equal(t, old.UnixNano(), mod)

	// -wal 旁路文件更新也会推进令牌
	newer := old.Add(time.Hour)
	wal := path + "-wal"
	require.NoError(t, os.WriteFile(wal, []byte("wal"), 0o644))
	require.NoError(t, os.Chtimes(wal, newer, newer))

	mod, err = d.LastModifiedForGroups("archive")
	require.NoError(t, err)
	assert.Equal(t, newer.UnixNano(), mod)

	fp2, err := d.FingerprintForGroups("archive")
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)
}

func TestFingerprintMissingFiles(t *testing.T) {
	d := NewDBManager(t.TempDir(), map[string][]string{"archive": {"chatlog.db"}})

	fp, err := d.FingerprintForGroups("archive")
	require.NoError(t, err)
	assert.Empty(t, fp)

	mod, err := d.LastModifiedForGroups("archive")
	require.NoError(t, err)
	assert.Zero(t, mod)

	_, err = d.GetDBPath("unknown")
	assert.Error(t, err)
}
