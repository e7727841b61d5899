package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Vader773/daily-grimoire-sub000/internal/logger"
	"github.com/Vader773/daily-grimoire-sub000/internal/ops"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(os.Getenv("GRIMOIRE_LOG_MODE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	switch os.Args[1] {
	case "backup":
		if err := cmdBackup(ctx, log, os.Args[2:]); err != nil {
			log.Error("backup failed", "error", err)
			os.Exit(1)
		}
	case "restore":
		if err := cmdRestore(log, os.Args[2:]); err != nil {
			log.Error("restore failed", "error", err)
			os.Exit(1)
		}
	case "drill":
		if err := cmdDrill(log, os.Args[2:]); err != nil {
			log.Error("drill failed", "error", err)
			os.Exit(1)
		}
	default:
		printUsage()
		os.Exit(2)
	}
}

func cmdBackup(ctx context.Context, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	bucket := fs.String("s3-bucket", "", "upload the archive to this S3 bucket")
	key := fs.String("s3-key", "", "S3 object key (defaults to the archive file name)")
	profile := fs.String("aws-profile", "", "shared AWS config profile")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "grimoire-"+ts+".tar.gz")
	}

	m, err := ops.BackupDataDir(*dataDir, *out)
	if err != nil {
		return err
	}
	log.Info("backup written", "archive", *out, "files", len(m.Files))

	if *bucket != "" {
		if *key == "" {
			*key = filepath.Base(*out)
		}
		client, err := ops.NewS3Client(ctx, *profile)
		if err != nil {
			return err
		}
		if err := ops.UploadArchive(ctx, client, *bucket, *key, *out); err != nil {
			return err
		}
		log.Info("backup uploaded", "bucket", *bucket, "key", *key)
	}
	fmt.Println(*out)
	return nil
}

func cmdRestore(log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	m, err := ops.RestoreDataDir(*archive, *target)
	if err != nil {
		return err
	}
	log.Info("restore verified", "target", *target, "files", len(m.Files), "created_at", m.CreatedAt)
	return nil
}

func cmdDrill(log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	workDir := fs.String("work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := ops.Drill(*dataDir, *workDir)
	if err != nil {
		return err
	}
	log.Info("drill passed", "archive", r.Archive, "restored", r.RestoreDir, "files", r.Files)
	fmt.Println("backup:", r.Archive)
	fmt.Println("restored:", r.RestoreDir)
	fmt.Println("digest:", r.Digest)
	return nil
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  grimoire-ops backup  --data-dir data --out backups/backup.tar.gz [--s3-bucket b --s3-key k]")
	fmt.Println("  grimoire-ops restore --archive backups/backup.tar.gz --target-dir data-restored")
	fmt.Println("  grimoire-ops drill   --data-dir data --work-dir /tmp")
}
