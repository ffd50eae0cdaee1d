package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Report(ctx context.Context) func() error
	Archive(ctx context.Context) func() error
}

type App struct {
	logger   *zap.Logger
	config   *Config
	runner   *ReportRunner
	consumer Consumer
	cleanups []func()
}

// NewApp provides an instance of App.
func NewApp() (AppProvider, error) {
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	// ensure the logs folder exists and Setup the logging module.
	err = os.MkdirAll(filepath.Dir(config.LogFile), 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging file: %s", err)
	}
	closer := func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Println("error during closing of log file: ", cerr)
		}
	}
	logger, flusher := SetupLogging(config, logFile)

	// Setup the connection to the mongodb server. The client handle is
	// owned here and released through the cleanups, whatever the exit path.
	cCtx, cancel := context.WithTimeout(context.Background(), config.Mongo.ConnectTimeout)
	defer cancel()
	mongoClient, err := GetMongoClient(cCtx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb server: %s", err)
	}
	disconnect := func() {
		dCtx, dCancel := context.WithTimeout(context.Background(), config.Mongo.CloseTimeout)
		defer dCancel()
		if derr := mongoClient.Disconnect(dCtx); derr != nil {
			logger.Error("failed to disconnect from mongodb server", zap.Error(derr))
		}
	}

	boltDBClient, err := GetBoltDBClient(config)
	if err != nil {
		disconnect()
		return nil, fmt.Errorf("failed to open the boltDB archive: %s", err)
	}
	boltCloser := func() {
		if berr := boltDBClient.Close(); berr != nil {
			logger.Error("failed to close the boltDB archive", zap.Error(berr))
		}
	}

	// Setup the repository, the archive pipeline and the report runner.
	bookStorage := NewMongoBookStorage(logger, mongoClient, config.Mongo.Database, config.Mongo.Collection)
	reportQueue := NewReportQueue(config.Report.QueueSize)
	reportArchive := NewBoltReportArchive(logger, &config.BoltDB, boltDBClient)
	consumer := NewBoltArchiveConsumer(logger, reportQueue, reportArchive)
	runner := NewReportRunner(logger, config, NewClock(config.IsProduction), NewIDsHandler(), bookStorage, reportQueue)

	return &App{
		logger:   logger,
		config:   config,
		runner:   runner,
		consumer: consumer,
		cleanups: []func(){
			disconnect,
			boltCloser,
			flusher,
			closer,
		},
	}, nil
}

// Run executes the report sequence with the archive consumer alongside,
// then waits for both to finish. Cleanups run on every exit path.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.Archive(gCtx))
	g.Go(app.Report(gCtx))

	err := g.Wait()
	app.logger.Info("report run stopped",
		zap.String("mongo.database", app.config.Mongo.Database),
		zap.String("mongo.collection", app.config.Mongo.Collection),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Report runs the query report. Its returned error is caught by the
// errorgroup and aborts the archiver through the group context.
func (app *App) Report(ctx context.Context) func() error {
	return func() error {
		return app.runner.Run(ctx)
	}
}

// Archive drains the report entries into the bolt archive until the
// runner closes the queue. We explicitly return `nil` on context end to
// let the errorgroup catch only the report result.
func (app *App) Archive(ctx context.Context) func() error {
	return func() error {
		return app.consumer.Consume(ctx)
	}
}
