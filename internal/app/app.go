package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"photocat/internal/catalog"
	"photocat/internal/config"
	"photocat/internal/database"
	"photocat/internal/fs"
	"photocat/internal/model"
	"photocat/internal/thumbstore"
)

// PhotoApp is the application layer between the CLI and the catalog core.
// It constructs all dependencies from config, exposes high-level operations,
// and manages resource lifecycle on Close.
type PhotoApp struct {
	cfg     *config.Config
	db      catalog.Database
	thumbs  catalog.ThumbnailStore
	fsmgr   catalog.FilesystemManager
	engine  *catalog.Engine
	finder  *catalog.DuplicateFinder
	logger  catalog.Logger
	logFile *os.File
}

// NewPhotoApp creates a fully wired PhotoApp from the given config.
// The caller must call Close when done.
func NewPhotoApp(cfg *config.Config) (*PhotoApp, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("no root folders configured")
	}

	fsmgr := fs.NewOSFilesystemManager()

	thumbs, err := thumbstore.NewStoreFromConfig(cfg.Thumbnails)
	if err != nil {
		return nil, fmt.Errorf("creating thumbnail store: %w", err)
	}

	db, err := database.NewCatalogFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating catalog database: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	factory := catalog.NewAssetFactory(db, thumbs, fsmgr, logger, catalog.RealClock{}, catalog.UUIDGenerator{})
	engine := catalog.NewEngine(db, thumbs, fsmgr, factory, logger, catalog.RunConfig{
		Roots:          cfg.Roots,
		BatchSize:      cfg.Catalog.BatchSize,
		DeleteFromDisk: cfg.Catalog.DeleteFromDisk,
		IncludeHidden:  cfg.Catalog.IncludeHidden,
	})

	return &PhotoApp{
		cfg:     cfg,
		db:      db,
		thumbs:  thumbs,
		fsmgr:   fsmgr,
		engine:  engine,
		finder:  catalog.NewDuplicateFinder(db, fsmgr, logger),
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Sync executes one reconciliation pass.
func (a *PhotoApp) Sync(sink catalog.EventSink) error {
	return a.engine.Run(sink)
}

// Watch runs reconciliation passes on the configured cooldown until ctx is
// cancelled. A failed pass is logged and the loop keeps running; only
// cancellation stops it. Passes never overlap: the next one is scheduled
// after the previous one finishes.
func (a *PhotoApp) Watch(ctx context.Context, sink catalog.EventSink) error {
	cooldown := time.Duration(a.cfg.Catalog.CooldownMinutes) * time.Minute
	if cooldown <= 0 {
		cooldown = time.Duration(config.DefaultCooldownMinutes) * time.Minute
	}

	for {
		if err := a.engine.Run(sink); err != nil {
			a.logger.Error("reconciliation pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cooldown):
		}
	}
}

// FindDuplicates returns the catalog's duplicate asset groups.
func (a *PhotoApp) FindDuplicates() ([][]*model.Asset, error) {
	return a.finder.FindDuplicates()
}

// Thumbnail returns the stored thumbnail bytes for a catalogued file.
func (a *PhotoApp) Thumbnail(folderPath, fileName string) ([]byte, error) {
	if folderPath == "" || fileName == "" {
		return nil, errors.New("folder path and file name must not be empty")
	}
	folder, err := a.db.FolderByPath(folderPath)
	if err != nil {
		return nil, fmt.Errorf("looking up folder: %w", err)
	}
	if folder == nil {
		return nil, fmt.Errorf("folder not catalogued: %s", folderPath)
	}
	return a.thumbs.Get(folder.ID, fileName)
}

// Close releases the database and log file.
func (a *PhotoApp) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing catalog database: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
