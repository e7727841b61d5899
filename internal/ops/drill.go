package ops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

type DrillReport struct {
	Archive    string
	RestoreDir string
	Digest     string
	Files      int
}

// Drill backs dataDir up into workDir, restores it next to the archive and
// checks the two trees hash the same.
func Drill(dataDir, workDir string) (DrillReport, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return DrillReport{}, err
	}
	ts := time.Now().UTC().Format("20060102T150405Z")
	r := DrillReport{
		Archive:    filepath.Join(workDir, "grimoire-drill-"+ts+".tar.gz"),
		RestoreDir: filepath.Join(workDir, "grimoire-drill-restore-"+ts),
	}

	m, err := BackupDataDir(dataDir, r.Archive)
	if err != nil {
		return r, err
	}
	if _, err := RestoreDataDir(r.Archive, r.RestoreDir); err != nil {
		return r, err
	}

	srcDigest, err := DirDigest(dataDir)
	if err != nil {
		return r, err
	}
	restoreDigest, err := DirDigest(r.RestoreDir)
	if err != nil {
		return r, err
	}
	if srcDigest != restoreDigest {
		return r, fmt.Errorf("digest mismatch after restore: src=%s restored=%s", srcDigest, restoreDigest)
	}
	r.Digest = srcDigest
	r.Files = len(m.Files)
	return r, nil
}

// DirDigest hashes the archivable files under root by path and content.
func DirDigest(root string) (string, error) {
	root = filepath.Clean(root)
	files, err := listFiles(root)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, rel := range files {
		_, _ = io.WriteString(h, rel)
		_, _ = io.WriteString(h, "\n")
		b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		if _, err := h.Write(b); err != nil {
			return "", err
		}
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
