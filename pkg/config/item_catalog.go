package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/decker502/idlegrid/pkg/embedded"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DefaultCooldownSeconds 未配置冷却时间时的默认值（秒）
const DefaultCooldownSeconds = 1.0

// itemCatalogSchemaURL 仅作为编译器内的资源标识，不会发起网络请求
const itemCatalogSchemaURL = "https://idlegrid.local/schemas/item_catalog.schema.json"

//go:embed schemas/item_catalog.schema.json
var itemCatalogSchemaJSON string

// 物品目录校验错误
var (
	ErrEmptyCatalog  = errors.New("item catalog must contain at least one item")
	ErrDuplicateItem = errors.New("duplicate item id")
)

// ItemDefinition 物品的静态定义
// 同类型的所有实例共享同一个定义与 ShapeMask
type ItemDefinition struct {
	ID              string   `yaml:"id"`
	DisplayName     string   `yaml:"displayName"`
	Shape           [][2]int `yaml:"shape"`           // 占用格子偏移量 [dx, dy]
	CooldownSeconds float64  `yaml:"cooldownSeconds"` // 放置后就绪计时器时长
	Weight          int      `yaml:"weight"`          // 物品池权重；全部为 0 时均匀选择
	Damage          int      `yaml:"damage"`
	Color           string   `yaml:"color"` // 前端显示颜色 "#rrggbb"

	shape *types.ShapeMask
}

// ShapeMask 返回共享的形状描述
// 未经目录加载直接构造的定义会在首次调用时按 Shape 字段构建
func (d *ItemDefinition) ShapeMask() *types.ShapeMask {
	if d == nil {
		return types.SingleCellShape()
	}
	if d.shape == nil {
		d.shape = buildShape(d.Shape)
	}
	return d.shape
}

// Name 显示名称，缺省时使用 ID
func (d *ItemDefinition) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.ID
}

func buildShape(offsets [][2]int) *types.ShapeMask {
	cells := make([]types.Cell, 0, len(offsets))
	for _, o := range offsets {
		cells = append(cells, types.Cell{X: o[0], Y: o[1]})
	}
	return types.NewShapeMask(cells)
}

// ItemCatalog 物品目录
type ItemCatalog struct {
	Items []*ItemDefinition `yaml:"items"`

	byID map[string]*ItemDefinition
}

// LoadItemCatalog 从 YAML 文件加载物品目录
//
// 参数：
//   - path: 配置文件路径（data/ 开头时优先读取嵌入资源）
//
// 返回：
//   - *ItemCatalog: 解析、校验后的目录，每个定义的 ShapeMask 已构建
//   - error: 读取、解析、schema 校验或语义校验失败
func LoadItemCatalog(path string) (*ItemCatalog, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item catalog file %s: %w", path, err)
	}

	catalog, err := ParseItemCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("invalid item catalog in %s: %w", path, err)
	}
	return catalog, nil
}

// ParseItemCatalog 解析并校验 YAML 物品目录
func ParseItemCatalog(data []byte) (*ItemCatalog, error) {
	if err := validateCatalogSchema(data); err != nil {
		return nil, err
	}

	var catalog ItemCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse item catalog YAML: %w", err)
	}

	if err := catalog.index(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// NewItemCatalog 由代码构造目录（测试与工具使用）
func NewItemCatalog(defs ...*ItemDefinition) (*ItemCatalog, error) {
	catalog := &ItemCatalog{Items: defs}
	if err := catalog.index(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// index 构建 ID 索引并补齐默认值
func (c *ItemCatalog) index() error {
	if len(c.Items) == 0 {
		return ErrEmptyCatalog
	}

	c.byID = make(map[string]*ItemDefinition, len(c.Items))
	for _, def := range c.Items {
		if def == nil {
			continue
		}
		if _, dup := c.byID[def.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, def.ID)
		}
		if def.CooldownSeconds <= 0 {
			def.CooldownSeconds = DefaultCooldownSeconds
		}
		def.shape = buildShape(def.Shape)
		c.byID[def.ID] = def
	}
	return nil
}

// Get 按 ID 查找定义
func (c *ItemCatalog) Get(id string) (*ItemDefinition, bool) {
	def, ok := c.byID[id]
	return def, ok
}

// Len 定义数量
func (c *ItemCatalog) Len() int {
	return len(c.byID)
}

var (
	catalogSchemaOnce sync.Once
	catalogSchema     *jsonschema.Schema
	catalogSchemaErr  error
)

// itemCatalogSchema 编译嵌入的 JSON schema（只编译一次）
func itemCatalogSchema() (*jsonschema.Schema, error) {
	catalogSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(itemCatalogSchemaURL, strings.NewReader(itemCatalogSchemaJSON)); err != nil {
			catalogSchemaErr = fmt.Errorf("failed to add item catalog schema: %w", err)
			return
		}
		catalogSchema, catalogSchemaErr = compiler.Compile(itemCatalogSchemaURL)
	})
	return catalogSchema, catalogSchemaErr
}

// validateCatalogSchema 使用 JSON schema 校验 YAML 文档
// YAML 先转换为 JSON 数据模型，保证数字类型与 schema 校验器一致
func validateCatalogSchema(data []byte) error {
	schema, err := itemCatalogSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse item catalog YAML: %w", err)
	}
	if doc == nil {
		return ErrEmptyCatalog
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to convert item catalog to JSON: %w", err)
	}
	var jsonDoc any
	if err := json.Unmarshal(raw, &jsonDoc); err != nil {
		return fmt.Errorf("failed to convert item catalog to JSON: %w", err)
	}

	if err := schema.Validate(jsonDoc); err != nil {
		return fmt.Errorf("item catalog schema validation failed: %w", err)
	}
	return nil
}
