package systems

import (
	"log"
	"math/rand"
	"time"

	"github.com/decker502/idlegrid/pkg/config"
)

// WeightedPoolSelector 按权重从物品池中随机选择定义
//
// 权重为 0 的定义不参与加权选择；所有权重都为 0 时退化为均匀选择。
type WeightedPoolSelector struct {
	pool []*config.ItemDefinition
	rng  *rand.Rand
}

// NewWeightedPoolSelector 创建选择器
//
// 参数：
//   - pool: 候选物品定义（nil 项会被忽略）
//   - rng: 随机源；nil 时使用以当前时间为种子的随机源
func NewWeightedPoolSelector(pool []*config.ItemDefinition, rng *rand.Rand) *WeightedPoolSelector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	filtered := make([]*config.ItemDefinition, 0, len(pool))
	for _, def := range pool {
		if def != nil {
			filtered = append(filtered, def)
		}
	}
	return &WeightedPoolSelector{pool: filtered, rng: rng}
}

// NewCatalogPoolSelector 使用物品目录中的全部定义作为物品池
func NewCatalogPoolSelector(catalog *config.ItemCatalog, rng *rand.Rand) *WeightedPoolSelector {
	if catalog == nil {
		return NewWeightedPoolSelector(nil, rng)
	}
	return NewWeightedPoolSelector(catalog.Items, rng)
}

// Len 物品池大小
func (s *WeightedPoolSelector) Len() int {
	return len(s.pool)
}

// PickNextDefinition 选择下一个物品定义
// 物品池为空时记录错误并返回 nil
func (s *WeightedPoolSelector) PickNextDefinition() *config.ItemDefinition {
	if len(s.pool) == 0 {
		log.Printf("[WeightedPoolSelector] item pool is empty")
		return nil
	}

	totalWeight := 0
	for _, def := range s.pool {
		if def.Weight > 0 {
			totalWeight += def.Weight
		}
	}

	if totalWeight <= 0 {
		return s.pool[s.rng.Intn(len(s.pool))]
	}

	roll := s.rng.Intn(totalWeight)
	cumulative := 0
	for _, def := range s.pool {
		if def.Weight <= 0 {
			continue
		}
		cumulative += def.Weight
		if roll < cumulative {
			return def
		}
	}

	return s.pool[0] // fallback
}
