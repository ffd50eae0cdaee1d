package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

// ReportArchiver persists the outcome of executed report steps.
type ReportArchiver interface {
	Save(ctx context.Context, entry ReportEntry) error
	ListRun(ctx context.Context, runID string) ([]ReportEntry, error)
}

type boltReportArchive struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltReportArchive provides an instance of bolt-based report archive.
func NewBoltReportArchive(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) ReportArchiver {
	return &boltReportArchive{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based report archive.
func (ba *boltReportArchive) Close() error {
	return ba.client.Close()
}

// Save stores one report entry under a key built from the run id and the
// step number, so entries of a run list back in step order.
func (ba *boltReportArchive) Save(_ context.Context, entry ReportEntry) error {
	entryBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s/%03d", entry.RunID, entry.Number)
	return ba.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ba.config.BucketName)).Put([]byte(key), entryBytes)
	})
}

// ListRun retrieves all archived entries of a given run, in step order.
func (ba *boltReportArchive) ListRun(_ context.Context, runID string) ([]ReportEntry, error) {
	tx, err := ba.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	c := tx.Bucket([]byte(ba.config.BucketName)).Cursor()
	prefix := []byte(runID + "/")

	entries := []ReportEntry{}
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		var entry ReportEntry
		if err = json.Unmarshal(v, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
