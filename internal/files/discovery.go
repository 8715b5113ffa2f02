package files

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	apperrors "ridership/internal/errors"
	"ridership/internal/validation"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds ridership tables on disk
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath; relative directories are
// resolved against it
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindTables lists the CSV and Excel files directly inside dir, oldest first
func (d *Discovery) FindTables(dir string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewFileNotFoundError(fullPath, err)
		}
		return nil, apperrors.NewFilesystemError("read directory "+fullPath, err)
	}

	var found []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !validation.IsSupportedExtension(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		found = append(found, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].ModTime.Equal(found[j].ModTime) {
			return found[i].Name < found[j].Name
		}
		return found[i].ModTime.Before(found[j].ModTime)
	})

	return found, nil
}

// LatestTable returns the most recently modified table in dir. An empty directory
// is a FILE_NOT_FOUND error.
func (d *Discovery) LatestTable(dir string) (FileInfo, error) {
	tables, err := d.FindTables(dir)
	if err != nil {
		return FileInfo{}, err
	}

	latest, ok := GetLatestFile(tables)
	if !ok {
		return FileInfo{}, apperrors.NewFileNotFoundError(filepath.Join(dir, "*.csv"), nil)
	}
	return latest, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if !file.ModTime.Before(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}
