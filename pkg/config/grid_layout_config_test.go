package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultGridLayout(t *testing.T) {
	l := DefaultGridLayout()
	if l.Columns != 8 || l.Rows != 6 {
		t.Errorf("grid size: got %dx%d, want 8x6", l.Columns, l.Rows)
	}
	if l.Step() != 70 {
		t.Errorf("Step: got %v, want 70", l.Step())
	}
	if err := validateGridLayout(l); err != nil {
		t.Errorf("default layout should be valid: %v", err)
	}
}

func TestParseGridLayout(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		check   func(t *testing.T, l GridLayout)
	}{
		{
			name: "部分字段覆盖默认值",
			yaml: "columns: 10\nrows: 4\nspacing: 2\n",
			check: func(t *testing.T, l GridLayout) {
				if l.Columns != 10 || l.Rows != 4 {
					t.Errorf("size: got %dx%d", l.Columns, l.Rows)
				}
				if l.CellSize != DefaultCellSize {
					t.Errorf("CellSize should keep default, got %v", l.CellSize)
				}
				if l.Spacing != 2 {
					t.Errorf("Spacing: got %v", l.Spacing)
				}
			},
		},
		{
			name:    "列数为 0",
			yaml:    "columns: 0\n",
			wantErr: ErrInvalidGridSize,
		},
		{
			name:    "格子尺寸为负",
			yaml:    "cellSize: -1\n",
			wantErr: ErrInvalidCellSize,
		},
		{
			name:    "负间距",
			yaml:    "spacing: -3\n",
			wantErr: ErrNegativeSpacing,
		},
		{
			name:    "批次大小为 0",
			yaml:    "spawnCount: 0\n",
			wantErr: ErrInvalidSpawnCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := ParseGridLayout([]byte(tt.yaml))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, l)
		})
	}
}

func TestLoadGridLayoutFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := os.WriteFile(path, []byte("rows: 3\nspawnCount: 5\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	l, err := LoadGridLayout(path)
	if err != nil {
		t.Fatalf("LoadGridLayout failed: %v", err)
	}
	if l.Rows != 3 || l.SpawnCount != 5 {
		t.Errorf("got rows=%d spawnCount=%d", l.Rows, l.SpawnCount)
	}

	if _, err := LoadGridLayout(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
