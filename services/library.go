package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cadenza/types"

	"github.com/rs/zerolog"
)

// SupportedFormats is the extension allow-list for library scans.
// Actual decodability depends on the media engine's codecs.
var SupportedFormats = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
	".opus": true,
	".m4a":  true,
	".aac":  true,
}

// LibraryService interface defines methods for music library access
type LibraryService interface {
	Scan() ([]types.AudioFile, error)
	Folders() ([]types.FolderInfo, error)
	Resolve(path string) (string, error)
	Root() string
}

// libraryService implements the LibraryService interface
type libraryService struct {
	root   string
	logger zerolog.Logger
}

// NewLibraryService creates a new library service rooted at dir
func NewLibraryService(dir string, logger zerolog.Logger) LibraryService {
	return &libraryService{
		root:   dir,
		logger: logger.With().Str("component", "library").Logger(),
	}
}

// Root returns the configured music directory
func (ls *libraryService) Root() string {
	return ls.root
}

// Scan recursively walks the music directory and returns every audio file
// with a supported extension, ordered by walk order. Unreadable entries are
// logged and skipped rather than failing the whole scan. Symbolic links are
// not followed, so link cycles cannot recurse.
func (ls *libraryService) Scan() ([]types.AudioFile, error) {
	info, err := os.Stat(ls.root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrDirectoryNotFound, ls.root)
	}

	files := []types.AudioFile{}

	err = filepath.WalkDir(ls.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			ls.logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable entry")
			return nil // continue walking, don't fail entire scan
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !SupportedFormats[ext] {
			return nil
		}

		relativePath, err := filepath.Rel(ls.root, path)
		if err != nil {
			relativePath = path
		}
		relativePath = filepath.ToSlash(relativePath)

		var size int64
		if fi, err := d.Info(); err == nil {
			size = fi.Size()
		}

		files = append(files, types.AudioFile{
			Filename: d.Name(),
			Path:     relativePath,
			Folder:   folderOf(relativePath),
			Size:     size,
			Format:   strings.TrimPrefix(ext, "."),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	ls.logger.Debug().Int("count", len(files)).Msg("Library scan complete")
	return files, nil
}

// Folders groups the scanned library by directory with per-folder counts
// and a few sample filenames, sorted by folder name.
func (ls *libraryService) Folders() ([]types.FolderInfo, error) {
	files, err := ls.Scan()
	if err != nil {
		return nil, err
	}

	byFolder := make(map[string]*types.FolderInfo)
	for _, file := range files {
		info, ok := byFolder[file.Folder]
		if !ok {
			info = &types.FolderInfo{Folder: file.Folder}
			byFolder[file.Folder] = info
		}
		info.FileCount++
		if len(info.SampleFiles) < 3 {
			info.SampleFiles = append(info.SampleFiles, file.Filename)
		}
	}

	folders := make([]types.FolderInfo, 0, len(byFolder))
	for _, info := range byFolder {
		folders = append(folders, *info)
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Folder < folders[j].Folder
	})

	return folders, nil
}

// Resolve turns a library-relative path or bare filename into an absolute
// path, guaranteed to sit inside the music directory. Bare filenames are
// located anywhere in the tree; the first match in scan order wins.
func (ls *libraryService) Resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", types.ErrFileNotFound)
	}

	// A bare filename gets looked up across the whole library
	if !strings.ContainsAny(path, `/\`) && !filepath.IsAbs(path) {
		if _, err := os.Stat(filepath.Join(ls.root, path)); err != nil {
			files, err := ls.Scan()
			if err != nil {
				return "", err
			}
			for _, f := range files {
				if f.Filename == path {
					path = f.Path
					break
				}
			}
		}
	}

	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(ls.root, fullPath)
	}

	absRoot, err := filepath.Abs(ls.root)
	if err != nil {
		return "", fmt.Errorf("resolving music directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrPathTraversalRejected, path)
	}

	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", types.ErrPathTraversalRejected, path)
	}

	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", types.ErrFileNotFound, path)
	}

	return absPath, nil
}

// folderOf returns the parent directory of a relative path, "root" at top level
func folderOf(relativePath string) string {
	dir := filepath.ToSlash(filepath.Dir(relativePath))
	if dir == "." {
		return "root"
	}
	return dir
}
