package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltArchive returns a new instance of the report archive backed
// by a temporary file.
func newTestBoltArchive() (*boltReportArchive, error) {
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	if err != nil {
		return nil, err
	}
	f.Close()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   f.Name(),
			Timeout:    5 * time.Second,
			BucketName: "test.reports",
		},
	}

	client, err := GetBoltDBClient(testConfig)

	return &boltReportArchive{
		logger: zap.NewNop(),
		client: client,
		config: &testConfig.BoltDB,
	}, err
}

// closeTestBoltArchive closes the temporary archive and removes the underlying data file.
func (ba *boltReportArchive) closeTestBoltArchive() error {
	defer os.Remove(ba.config.FilePath)
	return ba.Close()
}

// Ensure archived entries of a run list back in step order, without
// leaking entries from other runs.
func TestBoltArchive(t *testing.T) {
	ba, err := newTestBoltArchive()
	require.NoError(t, err, "failed in creating a test bolt archive")
	defer ba.closeTestBoltArchive()

	entries := []ReportEntry{
		{RunID: "run:a", Number: 2, Name: "books published after 1950", Outcome: "found 0 book(s)"},
		{RunID: "run:a", Number: 1, Name: "fiction books", Outcome: "found 2 book(s): 1984, Animal Farm"},
		{RunID: "run:b", Number: 1, Name: "fiction books", Outcome: "found 0 book(s)"},
	}
	for _, entry := range entries {
		require.NoError(t, ba.Save(context.TODO(), entry))
	}

	listed, err := ba.ListRun(context.TODO(), "run:a")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 1, listed[0].Number)
	assert.Equal(t, "fiction books", listed[0].Name)
	assert.Equal(t, 2, listed[1].Number)

	listed, err = ba.ListRun(context.TODO(), "run:b")
	require.NoError(t, err)
	require.Len(t, listed, 1)

	listed, err = ba.ListRun(context.TODO(), "run:c")
	require.NoError(t, err)
	assert.Empty(t, listed)
}
