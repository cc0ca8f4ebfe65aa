package catalog

import (
	"fmt"
	"sort"

	"photocat/internal/model"
)

// DuplicateFinder detects assets sharing identical content across the whole
// catalog. Groups are an ephemeral query-time view, never persisted or
// cached across reconciliation runs.
type DuplicateFinder struct {
	db     Database
	fsmgr  FilesystemManager
	logger Logger
}

func NewDuplicateFinder(db Database, fsmgr FilesystemManager, logger Logger) *DuplicateFinder {
	return &DuplicateFinder{db: db, fsmgr: fsmgr, logger: logger}
}

// FindDuplicates groups all catalogued assets by content hash and returns
// the groups with at least two members whose backing files still exist.
// Members whose file is gone are pruned first; groups that fall to one
// member after pruning are dropped. Surviving assets get their file
// timestamps refreshed from disk, and each group is ordered by file
// creation time, newest first. Group-to-group order follows the first
// appearance of each hash in the catalog listing.
func (d *DuplicateFinder) FindDuplicates() ([][]*model.Asset, error) {
	assets, err := d.db.ListAssets()
	if err != nil {
		return nil, fmt.Errorf("listing catalogued assets: %w", err)
	}

	byHash := make(map[string][]*model.Asset)
	var order []string
	for _, asset := range assets {
		if _, seen := byHash[asset.Hash]; !seen {
			order = append(order, asset.Hash)
		}
		byHash[asset.Hash] = append(byHash[asset.Hash], asset)
	}

	var groups [][]*model.Asset
	for _, hash := range order {
		group := byHash[hash]
		if len(group) < 2 {
			continue
		}

		kept := group[:0]
		for _, asset := range group {
			if d.fsmgr.FileExists(asset.FullPath()) {
				kept = append(kept, asset)
			} else {
				d.logger.Debug("duplicate candidate gone from disk", "file", asset.FullPath())
			}
		}
		if len(kept) < 2 {
			continue
		}

		for _, asset := range kept {
			if err := RefreshFileTimestamps(d.fsmgr, asset); err != nil {
				return nil, fmt.Errorf("refreshing timestamps for %s: %w", asset.FullPath(), err)
			}
		}
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].FileCreatedAt.After(kept[j].FileCreatedAt)
		})
		groups = append(groups, kept)
	}

	return groups, nil
}
