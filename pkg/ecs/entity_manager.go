package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符
// 0 保留为无效ID，表示"没有实体"
type EntityID uint64

// entityRecord 单个实体的组件表和删除标记
type entityRecord struct {
	components map[reflect.Type]any
	dying      bool
}

// EntityManager 管理所有实体和组件
//
// 删除是延迟的：DestroyEntity 只打标记，RemoveMarkedEntities 在帧末统一清理，
// 这样系统在遍历过程中销毁实体不会打乱本帧的查询结果。
type EntityManager struct {
	nextID   EntityID
	entities map[EntityID]*entityRecord
	// pending 按标记顺序记录待删除的实体
	pending []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:   1,
		entities: make(map[EntityID]*entityRecord),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := em.nextID
	em.nextID++
	em.entities[id] = &entityRecord{components: make(map[reflect.Type]any)}
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
// 未知实体或重复标记是无操作
func (em *EntityManager) DestroyEntity(id EntityID) {
	rec, ok := em.entities[id]
	if !ok || rec.dying {
		return
	}
	rec.dying = true
	em.pending = append(em.pending, id)
}

// IsAlive 实体存在且未被标记删除
func (em *EntityManager) IsAlive(id EntityID) bool {
	rec, ok := em.entities[id]
	return ok && !rec.dying
}

// EntityCount 当前实体数量（包括已标记但未清理的实体）
func (em *EntityManager) EntityCount() int {
	return len(em.entities)
}

// AddComponent 为实体添加组件，同类型组件会被替换
// 实体不存在时忽略
func (em *EntityManager) AddComponent(id EntityID, component any) {
	if rec, ok := em.entities[id]; ok {
		rec.components[reflect.TypeOf(component)] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if rec, ok := em.entities[id]; ok {
		delete(rec.components, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	rec, ok := em.entities[id]
	if !ok {
		return nil, false
	}
	comp, found := rec.components[componentType]
	return comp, found
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, found := em.GetComponent(id, componentType)
	return found
}

// RemoveMarkedEntities 清理所有标记删除的实体（每帧末尾调用）
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.pending {
		delete(em.entities, id)
	}
	em.pending = em.pending[:0]
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
//
// 参数:
//   - componentTypes: 需要的组件类型列表
//
// 返回:
//   - []EntityID: 满足条件的实体ID，按ID升序，保证每帧遍历顺序稳定
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	var result []EntityID
	for id, rec := range em.entities {
		if rec.hasAll(componentTypes) {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func (rec *entityRecord) hasAll(types []reflect.Type) bool {
	for _, t := range types {
		if _, ok := rec.components[t]; !ok {
			return false
		}
	}
	return true
}
