package validation

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ridership/internal/errors"
)

func TestFileValidator_ValidateFile(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantType  apperrors.ErrorType
	}{
		{
			name: "readable file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "ridership.csv")
				require.NoError(t, os.WriteFile(file, []byte("route,date,ridership\n"), 0644))
				return file
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			wantType: apperrors.ErrTypeFileNotFound,
		},
		{
			name: "directory instead of file",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantType: apperrors.ErrTypeFilesystem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(slog.Default())
			err := v.ValidateFile(tt.setupFunc(t))

			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestFileValidator_MissingFileKeepsCause(t *testing.T) {
	err := NewFileValidator(nil).ValidateFile(filepath.Join(t.TempDir(), "absent.csv"))

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileValidator_ValidateTableFile(t *testing.T) {
	dir := t.TempDir()
	csvFile := filepath.Join(dir, "in.CSV")
	txtFile := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(csvFile, []byte("a\n"), 0644))
	require.NoError(t, os.WriteFile(txtFile, []byte("a\n"), 0644))

	v := NewFileValidator(nil)
	assert.NoError(t, v.ValidateTableFile(csvFile))

	err := v.ValidateTableFile(txtFile)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")
		require.NoError(t, v.ValidateOutputDirectory(dir))
		assert.DirExists(t, dir)
		assert.NoFileExists(t, filepath.Join(dir, ".write_test"))
	})

	t.Run("read-only directory", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced for this user")
		}
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0555))
		t.Cleanup(func() { _ = os.Chmod(dir, 0755) })

		err := v.ValidateOutputDirectory(dir)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeFilesystem))
	})
}

func TestIsSupportedExtension(t *testing.T) {
	assert.True(t, IsSupportedExtension("a.csv"))
	assert.True(t, IsSupportedExtension("a.XLSX"))
	assert.False(t, IsSupportedExtension("a.xls"))
	assert.False(t, IsSupportedExtension("a"))

	assert.True(t, IsExcel("book.Xlsx"))
	assert.False(t, IsExcel("book.csv"))
}
