package catalog

import (
	"errors"
	"fmt"
	"path/filepath"

	"photocat/internal/model"
)

// RunConfig carries the per-run settings of the reconciliation engine.
type RunConfig struct {
	// Roots are the configured root folder paths to reconcile.
	Roots []string
	// BatchSize caps the number of create/update/delete operations applied
	// in one run. Zero or negative means unlimited.
	BatchSize int
	// DeleteFromDisk removes the backing file when an asset is deleted
	// through the catalog (vanished files are already gone).
	DeleteFromDisk bool
	// IncludeHidden walks hidden (dot) subdirectories too.
	IncludeHidden bool
}

// Engine is the catalog reconciliation orchestrator. One Run walks the
// configured roots depth-first, applies per-folder change sets through the
// asset factory, cleans up folders that vanished from disk, and sweeps
// orphaned thumbnail blobs.
//
// A run is strictly sequential: the engine never spawns goroutines and
// invokes the event sink synchronously, in generation order. At most one
// run may be in flight at a time; enforcing that is the caller's job.
type Engine struct {
	db       Database
	thumbs   ThumbnailStore
	fsmgr    FilesystemManager
	comparer *DirectoryComparer
	factory  *AssetFactory
	logger   Logger
	cfg      RunConfig
}

func NewEngine(db Database, thumbs ThumbnailStore, fsmgr FilesystemManager, factory *AssetFactory, logger Logger, cfg RunConfig) *Engine {
	return &Engine{
		db:       db,
		thumbs:   thumbs,
		fsmgr:    fsmgr,
		comparer: NewDirectoryComparer(fsmgr, logger),
		factory:  factory,
		logger:   logger,
		cfg:      cfg,
	}
}

// budget is the shared per-run operation counter. Once spent, no further
// create/update/delete operations are issued for the remainder of the run;
// already-applied changes are never rolled back.
type budget struct {
	remaining int
	unlimited bool
}

func newBudget(size int) *budget {
	return &budget{remaining: size, unlimited: size <= 0}
}

func (b *budget) exhausted() bool { return !b.unlimited && b.remaining <= 0 }

func (b *budget) spend() {
	if !b.unlimited {
		b.remaining--
	}
}

// run holds the state scoped to a single reconciliation pass.
type run struct {
	sink    EventSink
	budget  *budget
	visited map[string]bool
}

func (e *Engine) emit(r *run, event Event) {
	r.sink.Notify(event)
}

// Run executes one reconciliation pass, reporting progress through sink.
// The terminal empty-message event fires exactly once, whether the pass
// succeeds or fails. A folder-level error ends the pass early; catalog
// changes committed before the failure are retained.
func (e *Engine) Run(sink EventSink) (err error) {
	if sink == nil {
		return errors.New("event sink must not be nil")
	}

	r := &run{
		sink:    sink,
		budget:  newBudget(e.cfg.BatchSize),
		visited: make(map[string]bool),
	}

	defer func() {
		e.emit(r, Event{Err: err})
	}()

	if err = e.walk(r); err != nil {
		e.logger.Error("reconciliation failed", "error", err)
		return err
	}
	if err = e.removeVanishedFolders(r); err != nil {
		e.logger.Error("vanished-folder cleanup failed", "error", err)
		return err
	}
	e.sweepThumbnails()
	return nil
}

// walk traverses the configured roots depth-first in pre-order using an
// explicit work list, so arbitrarily deep trees cannot exhaust the stack.
// Traversal continues past budget exhaustion so folders are still visited
// and registered and later runs resume cleanly, but no further asset
// operations are issued.
func (e *Engine) walk(r *run) error {
	stack := make([]string, 0, len(e.cfg.Roots))
	for i := len(e.cfg.Roots) - 1; i >= 0; i-- {
		stack = append(stack, e.cfg.Roots[i])
	}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if r.visited[dir] {
			continue
		}
		r.visited[dir] = true

		if !e.fsmgr.FolderExists(dir) {
			// Still catalogued but gone from disk; handled by the
			// vanished-folder phase.
			continue
		}

		if err := e.processFolder(r, dir); err != nil {
			e.emit(r, Event{
				Message: fmt.Sprintf("Failed to process folder %s", dir),
				Err:     err,
			})
			return fmt.Errorf("processing folder %s: %w", dir, err)
		}

		subdirs, err := e.fsmgr.Subdirectories(dir, e.cfg.IncludeHidden)
		if err != nil {
			return fmt.Errorf("listing subfolders of %s: %w", dir, err)
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
	return nil
}

// processFolder reconciles a single existing folder: registers it if new,
// computes the change sets, and applies creations, updates, and deletions
// in that fixed order, each charged against the shared budget.
func (e *Engine) processFolder(r *run, dir string) error {
	folder, err := e.ensureFolder(r, dir)
	if err != nil {
		return err
	}

	e.emit(r, Event{
		Message: fmt.Sprintf("Inspecting folder %s", dir),
		Folder:  folder,
	})

	fileNames, err := e.fsmgr.FileNames(dir)
	if err != nil {
		return fmt.Errorf("listing files: %w", err)
	}

	catalogued, err := e.db.AssetsByFolder(folder.ID)
	if err != nil {
		return fmt.Errorf("loading catalogued assets: %w", err)
	}
	byName := make(map[string]*model.Asset, len(catalogued))
	for _, asset := range catalogued {
		byName[asset.FileName] = asset
	}

	cmp := e.comparer.Compare(dir, fileNames, catalogued)

	for _, name := range cmp.New {
		if r.budget.exhausted() {
			return nil
		}
		asset, ok := e.createAsset(r, dir, name)
		if !ok {
			continue
		}
		r.budget.spend()
		e.emit(r, Event{
			Message: fmt.Sprintf("Catalogued image %s", filepath.Join(dir, name)),
			Asset:   asset,
			Folder:  folder,
			Reason:  ReasonAssetCreated,
		})
	}

	for _, name := range cmp.Updated {
		if r.budget.exhausted() {
			return nil
		}
		// Updated assets are replaced, not mutated: every field is
		// re-derived from the current file bytes anyway.
		if err := e.deleteAsset(folder, byName[name], false); err != nil {
			return fmt.Errorf("removing stale asset %s: %w", name, err)
		}
		asset, ok := e.createAsset(r, dir, name)
		if !ok {
			continue
		}
		r.budget.spend()
		e.emit(r, Event{
			Message: fmt.Sprintf("Refreshed image %s", filepath.Join(dir, name)),
			Asset:   asset,
			Folder:  folder,
			Reason:  ReasonAssetUpdated,
		})
	}

	for _, name := range cmp.Deleted {
		if r.budget.exhausted() {
			return nil
		}
		asset := byName[name]
		if err := e.deleteAsset(folder, asset, e.cfg.DeleteFromDisk); err != nil {
			return fmt.Errorf("deleting asset %s: %w", name, err)
		}
		r.budget.spend()
		e.emit(r, Event{
			Message: fmt.Sprintf("Removed image %s from catalog", filepath.Join(dir, name)),
			Asset:   asset,
			Folder:  folder,
			Reason:  ReasonAssetDeleted,
		})
	}

	return nil
}

// ensureFolder registers dir in the catalog if it is not there yet.
func (e *Engine) ensureFolder(r *run, dir string) (*model.Folder, error) {
	folder, err := e.db.FolderByPath(dir)
	if err != nil {
		return nil, fmt.Errorf("looking up folder: %w", err)
	}
	if folder != nil {
		return folder, nil
	}

	folder, err = e.db.AddFolder(dir)
	if err != nil {
		return nil, fmt.Errorf("cataloguing folder: %w", err)
	}
	e.logger.Info("folder catalogued", "path", dir)
	e.emit(r, Event{
		Message: fmt.Sprintf("Catalogued folder %s", dir),
		Folder:  folder,
		Reason:  ReasonFolderCreated,
	})
	return folder, nil
}

// createAsset runs the factory for one file. A per-file failure (corrupt
// image, permission error) is logged and reported but never aborts the run;
// the second return is false when no asset was produced.
func (e *Engine) createAsset(r *run, dir, name string) (*model.Asset, bool) {
	asset, err := e.factory.CreateAsset(dir, name)
	if err != nil {
		e.logger.Warn("skipping file", "file", filepath.Join(dir, name), "error", err)
		e.emit(r, Event{
			Message: fmt.Sprintf("Could not catalogue %s", filepath.Join(dir, name)),
		})
		return nil, false
	}
	if asset == nil {
		// Already catalogued.
		return nil, false
	}
	return asset, true
}

// deleteAsset removes an asset record and its thumbnail blob, and, when
// requested, the backing file on disk.
func (e *Engine) deleteAsset(folder *model.Folder, asset *model.Asset, removeFile bool) error {
	if asset == nil {
		return errors.New("asset must not be nil")
	}
	if err := e.db.DeleteAsset(folder.ID, asset.FileName); err != nil {
		return err
	}
	if err := e.thumbs.Delete(BlobKey(folder.ID, asset.FileName)); err != nil {
		// A dangling blob is harmless; the sweep will retry.
		e.logger.Warn("deleting thumbnail blob", "file", asset.FileName, "error", err)
	}
	if removeFile && e.fsmgr.FileExists(asset.FullPath()) {
		if err := e.fsmgr.DeleteFile(asset.FullPath()); err != nil {
			return fmt.Errorf("deleting file from disk: %w", err)
		}
	}
	return nil
}

// removeVanishedFolders deletes assets of catalogued folders whose on-disk
// path no longer exists, up to the remaining budget. A folder record itself
// is only removed once its asset list is empty; with a tight budget the
// removal completes across several runs.
func (e *Engine) removeVanishedFolders(r *run) error {
	folders, err := e.db.ListFolders()
	if err != nil {
		return fmt.Errorf("listing catalogued folders: %w", err)
	}

	for _, folder := range folders {
		if e.fsmgr.FolderExists(folder.Path) {
			continue
		}

		assets, err := e.db.AssetsByFolder(folder.ID)
		if err != nil {
			return fmt.Errorf("loading assets of vanished folder %s: %w", folder.Path, err)
		}

		remaining := len(assets)
		for _, asset := range assets {
			if r.budget.exhausted() {
				break
			}
			if err := e.deleteAsset(folder, asset, false); err != nil {
				return fmt.Errorf("deleting asset of vanished folder %s: %w", folder.Path, err)
			}
			remaining--
			r.budget.spend()
			e.emit(r, Event{
				Message: fmt.Sprintf("Removed image %s from catalog", asset.FullPath()),
				Asset:   asset,
				Folder:  folder,
				Reason:  ReasonAssetDeleted,
			})
		}

		if remaining > 0 {
			continue
		}

		if err := e.thumbs.DeleteFolder(folder.ID); err != nil {
			e.logger.Warn("clearing thumbnail store of vanished folder", "path", folder.Path, "error", err)
		}
		if err := e.db.DeleteFolder(folder); err != nil {
			return fmt.Errorf("deleting vanished folder %s: %w", folder.Path, err)
		}
		e.logger.Info("vanished folder removed", "path", folder.Path)
		e.emit(r, Event{
			Message: fmt.Sprintf("Removed folder %s from catalog", folder.Path),
			Folder:  folder,
			Reason:  ReasonFolderDeleted,
		})
	}
	return nil
}

// sweepThumbnails deletes every thumbnail blob that has no matching
// catalogued asset. Each deletion is independent and best-effort: one
// failure never aborts the sweep, and the sweep never deletes assets.
func (e *Engine) sweepThumbnails() {
	assets, err := e.db.ListAssets()
	if err != nil {
		e.logger.Warn("thumbnail sweep skipped", "error", err)
		return
	}
	live := make(map[string]bool, len(assets))
	for _, asset := range assets {
		live[BlobKey(asset.FolderID, asset.FileName)] = true
	}

	keys, err := e.thumbs.List()
	if err != nil {
		e.logger.Warn("thumbnail sweep skipped", "error", err)
		return
	}

	for _, key := range keys {
		if live[key] {
			continue
		}
		if err := e.thumbs.Delete(key); err != nil {
			e.logger.Warn("deleting orphaned thumbnail", "key", key, "error", err)
			continue
		}
		e.logger.Debug("orphaned thumbnail removed", "key", key)
	}
}
