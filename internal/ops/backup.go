package ops

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	ManifestName    = "MANIFEST.json"
	manifestVersion = 1
)

var ErrManifestMismatch = errors.New("backup manifest mismatch")

type ManifestFile struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Manifest is written as the first archive entry and lists every regular
// file that follows it.
type Manifest struct {
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"createdAt"`
	Files     []ManifestFile `json:"files"`
}

func (m Manifest) lookup() map[string]ManifestFile {
	out := make(map[string]ManifestFile, len(m.Files))
	for _, f := range m.Files {
		out[f.Path] = f
	}
	return out
}

// skipFile drops in-flight artifacts: atomic-write temps and SQLite sidecars.
func skipFile(rel string) bool {
	base := filepath.Base(rel)
	return strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, "-wal") || strings.HasSuffix(base, "-shm")
}

func listFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == ManifestName || skipFile(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	sort.Strings(out)
	return out, err
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// BuildManifest hashes every regular file under root.
func BuildManifest(root string) (Manifest, error) {
	files, err := listFiles(root)
	if err != nil {
		return Manifest{}, err
	}
	m := Manifest{Version: manifestVersion, CreatedAt: time.Now().UTC(), Files: make([]ManifestFile, 0, len(files))}
	for _, rel := range files {
		sum, size, err := hashFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return Manifest{}, err
		}
		m.Files = append(m.Files, ManifestFile{Path: rel, Size: size, SHA256: sum})
	}
	return m, nil
}

// BackupDataDir archives srcDir into a gzipped tarball led by its manifest.
func BackupDataDir(srcDir, archivePath string) (Manifest, error) {
	srcDir = filepath.Clean(strings.TrimSpace(srcDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if srcDir == "" || archivePath == "" {
		return Manifest{}, fmt.Errorf("srcDir and archivePath are required")
	}
	info, err := os.Stat(srcDir)
	if err != nil {
		return Manifest{}, err
	}
	if !info.IsDir() {
		return Manifest{}, fmt.Errorf("source is not a directory: %s", srcDir)
	}
	m, err := BuildManifest(srcDir)
	if err != nil {
		return Manifest{}, fmt.Errorf("build manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return Manifest{}, err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	if err := writeArchive(f, srcDir, m); err != nil {
		_ = f.Close()
		_ = os.Remove(archivePath)
		return Manifest{}, err
	}
	if err := f.Close(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func writeArchive(w io.Writer, srcDir string, m Manifest) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	mb, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := tw.WriteHeader(&tar.Header{
		Name:     ManifestName,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(mb)),
		ModTime:  m.CreatedAt,
	}); err != nil {
		return err
	}
	if _, err := tw.Write(mb); err != nil {
		return err
	}

	for _, mf := range m.Files {
		if err := addFile(tw, srcDir, mf); err != nil {
			return fmt.Errorf("archive %s: %w", mf.Path, err)
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

func addFile(tw *tar.Writer, srcDir string, mf ManifestFile) error {
	path := filepath.Join(srcDir, filepath.FromSlash(mf.Path))
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	info, err := src.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = mf.Path
	// the file may have grown since hashing; archive exactly what was hashed
	hdr.Size = mf.Size
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.CopyN(tw, src, mf.Size)
	return err
}

// RestoreDataDir extracts archivePath into targetDir and verifies every file
// against the manifest. targetDir must be empty or absent.
func RestoreDataDir(archivePath, targetDir string) (Manifest, error) {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return Manifest{}, fmt.Errorf("archivePath and targetDir are required")
	}
	if entries, err := os.ReadDir(targetDir); err == nil && len(entries) > 0 {
		return Manifest{}, fmt.Errorf("restore target is not empty: %s", targetDir)
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Manifest{}, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return Manifest{}, err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	var (
		m    *Manifest
		want map[string]ManifestFile
		seen = map[string]bool{}
	)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Manifest{}, err
		}

		rel, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return Manifest{}, err
		}
		if m == nil {
			if filepath.ToSlash(rel) != ManifestName {
				return Manifest{}, fmt.Errorf("%w: archive does not start with %s", ErrManifestMismatch, ManifestName)
			}
			var parsed Manifest
			if err := json.NewDecoder(tr).Decode(&parsed); err != nil {
				return Manifest{}, fmt.Errorf("decode manifest: %w", err)
			}
			m, want = &parsed, parsed.lookup()
			continue
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		key := filepath.ToSlash(rel)
		mf, ok := want[key]
		if !ok {
			return Manifest{}, fmt.Errorf("%w: unexpected file %s", ErrManifestMismatch, key)
		}
		sum, err := extractFile(tr, filepath.Join(targetDir, rel), os.FileMode(hdr.Mode))
		if err != nil {
			return Manifest{}, err
		}
		if sum != mf.SHA256 {
			return Manifest{}, fmt.Errorf("%w: checksum of %s", ErrManifestMismatch, key)
		}
		seen[key] = true
	}
	if m == nil {
		return Manifest{}, fmt.Errorf("%w: empty archive", ErrManifestMismatch)
	}
	for path := range want {
		if !seen[path] {
			return Manifest{}, fmt.Errorf("%w: missing file %s", ErrManifestMismatch, path)
		}
	}
	return *m, nil
}

func extractFile(r io.Reader, outPath string, mode os.FileMode) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, h), r); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizeArchiveRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid absolute archive entry path: %s", name)
	}
	if strings.HasPrefix(name, ".."+string(filepath.Separator)) || name == ".." {
		return "", fmt.Errorf("invalid archive entry path traversal: %s", name)
	}
	return name, nil
}
