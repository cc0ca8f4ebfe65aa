package database_test

import (
	"testing"
	"time"

	"photocat/internal/model"
	"photocat/internal/testutil"
)

func TestSQLiteCatalog_Folders(t *testing.T) {
	t.Run("add and look up by path", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)

		folder, err := db.AddFolder("/photos/2024")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		if folder.ID == "" {
			t.Error("AddFolder() returned empty id")
		}

		got, err := db.FolderByPath("/photos/2024")
		if err != nil {
			t.Fatalf("FolderByPath() error = %v", err)
		}
		if got == nil || got.ID != folder.ID || got.Path != folder.Path {
			t.Errorf("FolderByPath() = %+v, want %+v", got, folder)
		}

		exists, err := db.FolderExists("/photos/2024")
		if err != nil || !exists {
			t.Errorf("FolderExists() = %v, %v, want true", exists, err)
		}
	})

	t.Run("missing folder yields nil without error", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)

		got, err := db.FolderByPath("/nowhere")
		if err != nil {
			t.Fatalf("FolderByPath() error = %v", err)
		}
		if got != nil {
			t.Errorf("FolderByPath() = %+v, want nil", got)
		}

		exists, err := db.FolderExists("/nowhere")
		if err != nil || exists {
			t.Errorf("FolderExists() = %v, %v, want false", exists, err)
		}
	})

	t.Run("rejects empty path", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		if _, err := db.AddFolder(""); err == nil {
			t.Error("AddFolder(\"\") succeeded, want error")
		}
	})

	t.Run("rejects duplicate path", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		if _, err := db.AddFolder("/photos"); err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		if _, err := db.AddFolder("/photos"); err == nil {
			t.Error("duplicate AddFolder() succeeded, want error")
		}
	})

	t.Run("lists folders ordered by path", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		for _, path := range []string{"/photos/b", "/photos/a", "/archive"} {
			if _, err := db.AddFolder(path); err != nil {
				t.Fatalf("AddFolder(%q) error = %v", path, err)
			}
		}

		folders, err := db.ListFolders()
		if err != nil {
			t.Fatalf("ListFolders() error = %v", err)
		}
		want := []string{"/archive", "/photos/a", "/photos/b"}
		if len(folders) != len(want) {
			t.Fatalf("ListFolders() = %d folders, want %d", len(folders), len(want))
		}
		for i, path := range want {
			if folders[i].Path != path {
				t.Errorf("folders[%d].Path = %q, want %q", i, folders[i].Path, path)
			}
		}
	})

	t.Run("delete removes the folder", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		folder, err := db.AddFolder("/photos")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		if err := db.DeleteFolder(folder); err != nil {
			t.Fatalf("DeleteFolder() error = %v", err)
		}
		got, err := db.FolderByPath("/photos")
		if err != nil || got != nil {
			t.Errorf("folder still catalogued after delete: %+v, %v", got, err)
		}
	})

	t.Run("delete of an unknown folder fails", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		err := db.DeleteFolder(&model.Folder{ID: "no-such-id", Path: "/ghost"})
		if err == nil {
			t.Error("DeleteFolder() on unknown folder succeeded, want error")
		}
	})
}

func testAsset(folderID, fileName, hash string) *model.Asset {
	now := time.Now()
	return &model.Asset{
		ID:                 folderID + "-" + fileName,
		FolderID:           folderID,
		FileName:           fileName,
		FileSize:           1234,
		PixelWidth:         1920,
		PixelHeight:        1080,
		ThumbnailWidth:     200,
		ThumbnailHeight:    112,
		Rotation:           model.Rotate90,
		Hash:               hash,
		ThumbnailCreatedAt: now,
		FileCreatedAt:      now.Add(-time.Hour),
		FileModifiedAt:     now.Add(-time.Minute),
	}
}

func TestSQLiteCatalog_Assets(t *testing.T) {
	t.Run("add and read back", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		folder, err := db.AddFolder("/photos")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}

		want := testAsset(folder.ID, "a.jpg", "h1")
		if err := db.AddAsset(want); err != nil {
			t.Fatalf("AddAsset() error = %v", err)
		}

		assets, err := db.AssetsByFolder(folder.ID)
		if err != nil {
			t.Fatalf("AssetsByFolder() error = %v", err)
		}
		if len(assets) != 1 {
			t.Fatalf("AssetsByFolder() = %d assets, want 1", len(assets))
		}
		got := assets[0]
		if got.ID != want.ID || got.FileName != want.FileName || got.Hash != want.Hash {
			t.Errorf("asset = %+v, want %+v", got, want)
		}
		if got.Rotation != model.Rotate90 {
			t.Errorf("rotation = %v, want 90", got.Rotation)
		}
		if got.FolderPath != "/photos" {
			t.Errorf("FolderPath = %q, want /photos", got.FolderPath)
		}
		if !got.ThumbnailCreatedAt.Equal(want.ThumbnailCreatedAt) {
			t.Errorf("ThumbnailCreatedAt = %v, want %v", got.ThumbnailCreatedAt, want.ThumbnailCreatedAt)
		}
	})

	t.Run("is-catalogued check", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		folder, err := db.AddFolder("/photos")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		if err := db.AddAsset(testAsset(folder.ID, "a.jpg", "h1")); err != nil {
			t.Fatalf("AddAsset() error = %v", err)
		}

		ok, err := db.IsAssetCatalogued(folder.ID, "a.jpg")
		if err != nil || !ok {
			t.Errorf("IsAssetCatalogued(a.jpg) = %v, %v, want true", ok, err)
		}
		ok, err = db.IsAssetCatalogued(folder.ID, "b.jpg")
		if err != nil || ok {
			t.Errorf("IsAssetCatalogued(b.jpg) = %v, %v, want false", ok, err)
		}
	})

	t.Run("rejects incomplete assets", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		if err := db.AddAsset(nil); err == nil {
			t.Error("AddAsset(nil) succeeded, want error")
		}
		if err := db.AddAsset(&model.Asset{ID: "x"}); err == nil {
			t.Error("AddAsset() without folder id succeeded, want error")
		}
	})

	t.Run("rejects duplicate folder and file name", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		folder, err := db.AddFolder("/photos")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		if err := db.AddAsset(testAsset(folder.ID, "a.jpg", "h1")); err != nil {
			t.Fatalf("AddAsset() error = %v", err)
		}
		dup := testAsset(folder.ID, "a.jpg", "h2")
		dup.ID = "other-id"
		if err := db.AddAsset(dup); err == nil {
			t.Error("duplicate AddAsset() succeeded, want error")
		}
	})

	t.Run("rejects unknown folder id", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		if err := db.AddAsset(testAsset("no-such-folder", "a.jpg", "h1")); err == nil {
			t.Error("AddAsset() with unknown folder succeeded, want error")
		}
	})

	t.Run("delete by folder and file name", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		folder, err := db.AddFolder("/photos")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		if err := db.AddAsset(testAsset(folder.ID, "a.jpg", "h1")); err != nil {
			t.Fatalf("AddAsset() error = %v", err)
		}

		if err := db.DeleteAsset(folder.ID, "a.jpg"); err != nil {
			t.Fatalf("DeleteAsset() error = %v", err)
		}
		ok, err := db.IsAssetCatalogued(folder.ID, "a.jpg")
		if err != nil || ok {
			t.Errorf("asset still catalogued after delete: %v, %v", ok, err)
		}
	})

	t.Run("folder delete is blocked while assets remain", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		folder, err := db.AddFolder("/photos")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		if err := db.AddAsset(testAsset(folder.ID, "a.jpg", "h1")); err != nil {
			t.Fatalf("AddAsset() error = %v", err)
		}

		if err := db.DeleteFolder(folder); err == nil {
			t.Error("DeleteFolder() with remaining assets succeeded, want error")
		}
	})

	t.Run("lists all assets ordered by folder then name", func(t *testing.T) {
		db := testutil.NewTestCatalog(t)
		one, err := db.AddFolder("/a")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		two, err := db.AddFolder("/b")
		if err != nil {
			t.Fatalf("AddFolder() error = %v", err)
		}
		for _, asset := range []*model.Asset{
			testAsset(two.ID, "z.jpg", "h3"),
			testAsset(one.ID, "b.jpg", "h2"),
			testAsset(one.ID, "a.jpg", "h1"),
		} {
			if err := db.AddAsset(asset); err != nil {
				t.Fatalf("AddAsset(%s) error = %v", asset.FileName, err)
			}
		}

		assets, err := db.ListAssets()
		if err != nil {
			t.Fatalf("ListAssets() error = %v", err)
		}
		want := []string{"a.jpg", "b.jpg", "z.jpg"}
		if len(assets) != len(want) {
			t.Fatalf("ListAssets() = %d assets, want %d", len(assets), len(want))
		}
		for i, name := range want {
			if assets[i].FileName != name {
				t.Errorf("assets[%d].FileName = %q, want %q", i, assets[i].FileName, name)
			}
			if assets[i].FolderPath == "" {
				t.Errorf("assets[%d].FolderPath not populated", i)
			}
		}
	})
}
