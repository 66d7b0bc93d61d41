package config

import (
	"testing"
)

// 随程序发布的数据文件必须能通过校验
const shippedDataDir = "../../"

func TestShippedLayout(t *testing.T) {
	layout, err := LoadGridLayout(shippedDataDir + DefaultLayoutPath)
	if err != nil {
		t.Fatalf("LoadGridLayout() error: %v", err)
	}
	if layout.Columns != DefaultColumns || layout.Rows != DefaultRows {
		t.Errorf("shipped grid %dx%d differs from defaults %dx%d", layout.Columns, layout.Rows, DefaultColumns, DefaultRows)
	}
}

func TestShippedCatalog(t *testing.T) {
	layout, err := LoadGridLayout(shippedDataDir + DefaultLayoutPath)
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := LoadItemCatalog(shippedDataDir + DefaultCatalogPath)
	if err != nil {
		t.Fatalf("LoadItemCatalog() error: %v", err)
	}

	wantIDs := []string{"dagger", "pebble", "boomerang", "shield", "spear", "hammer"}
	if catalog.Len() != len(wantIDs) {
		t.Errorf("catalog size: got %d, want %d", catalog.Len(), len(wantIDs))
	}
	for _, id := range wantIDs {
		def, ok := catalog.Get(id)
		if !ok {
			t.Errorf("missing item %q", id)
			continue
		}
		if def.CooldownSeconds <= 0 {
			t.Errorf("%s: cooldown should be positive", id)
		}
		b := def.ShapeMask().Bounds()
		if b.Width > layout.Columns || b.Height > layout.Rows {
			t.Errorf("%s: bounds %dx%d do not fit the grid", id, b.Width, b.Height)
		}
	}
}
