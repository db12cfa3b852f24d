package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "modernc.org/sqlite"

	"github.com/gramarogya/nondvahi/internal/config"
	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/gramarogya/nondvahi/internal/store"
)

const keyPrefix = "nondvahi"

var (
	ErrNotConfigured = errors.New("backup not configured: bucket, credentials and passphrase are required")
	ErrSQLiteOnly    = errors.New("backup supports the sqlite driver only")
	ErrInProgress    = errors.New("a backup is already running")
	ErrNotFound      = errors.New("backup not found")
)

// s3Client is the part of the S3 API the manager uses.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Manager snapshots the SQLite database, encrypts it and keeps the copies in
// S3-compatible storage. Every attempt is recorded in the backups table.
type Manager struct {
	cfg     config.BackupConfig
	db      *database.DB
	backups *store.BackupStore
	client  s3Client
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	now     func() time.Time
}

func NewManager(cfg config.BackupConfig, db *database.DB, bs *store.BackupStore, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:     cfg,
		db:      db,
		backups: bs,
		logger:  logger.With("component", "backup"),
		now:     time.Now,
	}
	if cfg.Enabled() {
		m.client = newS3Client(cfg)
	}
	return m
}

func newS3Client(cfg config.BackupConfig) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Enabled reports whether backups can run with this configuration.
func (m *Manager) Enabled() bool {
	return m.client != nil && m.db.Dialect() == database.SQLite
}

func (m *Manager) check() error {
	if m.client == nil {
		return ErrNotConfigured
	}
	if m.db.Dialect() != database.SQLite {
		return ErrSQLiteOnly
	}
	return nil
}

// RunNow takes a backup and returns its final record. A failed upload still
// leaves a record with status failed.
func (m *Manager) RunNow(ctx context.Context, createdBy string) (*model.Backup, error) {
	if err := m.check(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, ErrInProgress
	}
	m.running = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	filename := fmt.Sprintf("backup-%s.db.enc", m.now().UTC().Format("2006-01-02T150405Z"))
	s3Key := keyPrefix + "/" + filename

	record, err := m.backups.Create(filename, s3Key, createdBy)
	if err != nil {
		return nil, err
	}

	size, err := m.snapshotAndUpload(ctx, record.ID, s3Key)
	if err != nil {
		if uerr := m.backups.UpdateStatus(record.ID, model.BackupStatusFailed, err.Error()); uerr != nil {
			m.logger.Error("record backup failure", "id", record.ID, "error", uerr)
		}
		m.logger.Error("backup failed", "id", record.ID, "error", err)
		return nil, err
	}

	if err := m.backups.UpdateCompleted(record.ID, size); err != nil {
		return nil, err
	}
	m.logger.Info("backup completed", "id", record.ID, "key", s3Key, "size_bytes", size)
	return m.backups.GetByID(record.ID)
}

func (m *Manager) snapshotAndUpload(ctx context.Context, id int64, s3Key string) (int64, error) {
	if err := m.backups.UpdateStatus(id, model.BackupStatusUploading, ""); err != nil {
		return 0, err
	}

	dir, err := os.MkdirTemp("", "nondvahi-backup-")
	if err != nil {
		return 0, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	snapshot := filepath.Join(dir, "snapshot.db")
	encrypted := snapshot + ".enc"

	if _, err := m.db.ExecContext(ctx, "VACUUM INTO ?", snapshot); err != nil {
		return 0, fmt.Errorf("snapshot database: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return 0, err
	}
	if err := EncryptFile(snapshot, encrypted, m.cfg.Passphrase, salt); err != nil {
		return 0, fmt.Errorf("encrypt: %w", err)
	}

	f, err := os.Open(encrypted)
	if err != nil {
		return 0, fmt.Errorf("open encrypted file: %w", err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat encrypted file: %w", err)
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.Bucket),
		Key:           aws.String(s3Key),
		Body:          f,
		ContentLength: aws.Int64(stat.Size()),
	})
	if err != nil {
		return 0, fmt.Errorf("upload to s3: %w", err)
	}
	return stat.Size(), nil
}

func (m *Manager) List(limit int) ([]model.Backup, error) {
	return m.backups.List(limit)
}

// LatestCompleted is the newest backup that reached storage, or nil.
func (m *Manager) LatestCompleted() (*model.Backup, error) {
	return m.backups.LatestCompleted()
}

// Download streams the encrypted object of a completed backup.
func (m *Manager) Download(ctx context.Context, id int64) (io.ReadCloser, *model.Backup, error) {
	if m.client == nil {
		return nil, nil, ErrNotConfigured
	}
	record, err := m.completed(id)
	if err != nil {
		return nil, nil, err
	}

	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(record.S3Key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("download from s3: %w", err)
	}
	return out.Body, record, nil
}

func (m *Manager) completed(id int64) (*model.Backup, error) {
	record, err := m.backups.GetByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Status != model.BackupStatusCompleted {
		return nil, ErrNotFound
	}
	return record, nil
}

// RestoreToFile downloads and decrypts a backup, checks its integrity and
// writes it to dst. The live database is never touched; the operator swaps
// the file in with the server stopped.
func (m *Manager) RestoreToFile(ctx context.Context, id int64, dst string) error {
	body, record, err := m.Download(ctx, id)
	if err != nil {
		return err
	}
	defer body.Close()

	dir, err := os.MkdirTemp("", "nondvahi-restore-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	encrypted := filepath.Join(dir, record.Filename)
	decrypted := filepath.Join(dir, "restored.db")

	if err := writeFile(encrypted, body); err != nil {
		return fmt.Errorf("write downloaded file: %w", err)
	}
	if err := DecryptFile(encrypted, decrypted, m.cfg.Passphrase); err != nil {
		return fmt.Errorf("decrypt backup: %w", err)
	}
	if err := integrityCheck(ctx, decrypted); err != nil {
		return err
	}

	in, err := os.Open(decrypted)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	defer in.Close()
	if err := writeFile(dst, in); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	m.logger.Info("backup restored to file", "id", id, "path", dst)
	return nil
}

func integrityCheck(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// Cleanup drops records and objects older than the retention period and
// returns how many were removed. Objects that fail to delete are logged and
// left behind.
func (m *Manager) Cleanup(ctx context.Context) (int, error) {
	if m.client == nil {
		return 0, ErrNotConfigured
	}
	before := m.now().UTC().AddDate(0, 0, -m.cfg.RetentionDays)
	keys, err := m.backups.DeleteOlderThan(before)
	if err != nil {
		return 0, err
	}

	for _, key := range keys {
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.logger.Warn("delete object failed", "key", key, "error", err)
		}
	}
	if len(keys) > 0 {
		m.logger.Info("old backups removed", "count", len(keys), "before", before)
	}
	return len(keys), nil
}

func writeFile(path string, r io.Reader) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
