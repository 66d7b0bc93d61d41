package config

import (
	"errors"
	"fmt"

	"github.com/decker502/idlegrid/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// 网格布局默认值
// 单位为像素；坐标系以网格根节点左上角为原点，Y 轴向下
const (
	DefaultColumns     = 8
	DefaultRows        = 6
	DefaultCellSize    = 64.0
	DefaultSpacing     = 6.0
	DefaultPaddingLeft = 6.0
	DefaultPaddingTop  = 6.0

	// DefaultQueueGap 队列中相邻物品之间的水平间隔
	DefaultQueueGap = 20.0

	// DefaultSpawnCount 每批次生成的物品数量
	DefaultSpawnCount = 3
)

// 布局校验错误
var (
	ErrInvalidGridSize   = errors.New("grid columns and rows must be positive")
	ErrInvalidCellSize   = errors.New("cellSize must be positive")
	ErrNegativeSpacing   = errors.New("spacing and padding cannot be negative")
	ErrInvalidSpawnCount = errors.New("spawnCount must be at least 1")
)

// GridLayout 单个网格实例的布局配置
//
// 除 Columns/Rows/SpawnCount 外，其余字段只用于把格子索引换算成像素偏移，
// 不影响放置语义。
type GridLayout struct {
	Columns     int     `yaml:"columns"`
	Rows        int     `yaml:"rows"`
	CellSize    float64 `yaml:"cellSize"`
	Spacing     float64 `yaml:"spacing"`
	PaddingLeft float64 `yaml:"paddingLeft"`
	PaddingTop  float64 `yaml:"paddingTop"`
	QueueGap    float64 `yaml:"queueGap"`
	SpawnCount  int     `yaml:"spawnCount"`
}

// DefaultGridLayout 返回默认布局（8x6 网格，64 像素格子，6 像素间距）
func DefaultGridLayout() GridLayout {
	return GridLayout{
		Columns:     DefaultColumns,
		Rows:        DefaultRows,
		CellSize:    DefaultCellSize,
		Spacing:     DefaultSpacing,
		PaddingLeft: DefaultPaddingLeft,
		PaddingTop:  DefaultPaddingTop,
		QueueGap:    DefaultQueueGap,
		SpawnCount:  DefaultSpawnCount,
	}
}

// Step 相邻格子左上角之间的距离（格子尺寸 + 间距）
func (l GridLayout) Step() float64 {
	return l.CellSize + l.Spacing
}

// 默认数据文件（相对于项目根目录，启动时优先读取嵌入资源）
const (
	DefaultLayoutPath  = "data/layout.yaml"
	DefaultCatalogPath = "data/items.yaml"
)

// LoadGridLayout 从 YAML 文件加载网格布局
// 文件中缺省的字段使用默认值
//
// 参数：
//   - path: 配置文件路径（data/ 开头时优先读取嵌入资源）
//
// 返回：
//   - GridLayout: 合并默认值后的布局
//   - error: 读取、解析或校验失败
func LoadGridLayout(path string) (GridLayout, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return GridLayout{}, fmt.Errorf("failed to read grid layout file %s: %w", path, err)
	}

	layout, err := ParseGridLayout(data)
	if err != nil {
		return GridLayout{}, fmt.Errorf("invalid grid layout in %s: %w", path, err)
	}
	return layout, nil
}

// ParseGridLayout 解析 YAML 布局数据
func ParseGridLayout(data []byte) (GridLayout, error) {
	layout := DefaultGridLayout()
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return GridLayout{}, fmt.Errorf("failed to parse grid layout YAML: %w", err)
	}
	if err := validateGridLayout(layout); err != nil {
		return GridLayout{}, err
	}
	return layout, nil
}

// validateGridLayout 验证布局参数合法性
func validateGridLayout(l GridLayout) error {
	if l.Columns <= 0 || l.Rows <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidGridSize, l.Columns, l.Rows)
	}
	if l.CellSize <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidCellSize, l.CellSize)
	}
	if l.Spacing < 0 || l.PaddingLeft < 0 || l.PaddingTop < 0 || l.QueueGap < 0 {
		return ErrNegativeSpacing
	}
	if l.SpawnCount < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSpawnCount, l.SpawnCount)
	}
	return nil
}
