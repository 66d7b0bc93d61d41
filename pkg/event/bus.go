// Package event 提供同步的观察者总线
//
// 所有通知（放置、踢出、消耗、回队列、就绪、批次生成）都通过 Bus 分发：
//   - 单线程同步分发，Publish 返回时所有监听者都已处理完毕
//   - 同一事件类型的监听者按注册顺序调用
//   - 每个已注册的监听者对每次发布恰好观察一次
package event

import "github.com/decker502/idlegrid/pkg/ecs"

// Type 事件类型
type Type int

const (
	// ItemPlaced 物品被放置到网格上
	ItemPlaced Type = iota + 1
	// ItemEvicted 物品因重叠被踢出网格
	ItemEvicted
	// ItemConsumed 物品离开队列并计入本批次消耗
	ItemConsumed
	// ItemReturned 物品回到队列
	ItemReturned
	// ItemReady 物品冷却完成（每轮循环一次）
	ItemReady
	// BatchSpawned 队列生成了新批次
	BatchSpawned
)

func (t Type) String() string {
	switch t {
	case ItemPlaced:
		return "ItemPlaced"
	case ItemEvicted:
		return "ItemEvicted"
	case ItemConsumed:
		return "ItemConsumed"
	case ItemReturned:
		return "ItemReturned"
	case ItemReady:
		return "ItemReady"
	case BatchSpawned:
		return "BatchSpawned"
	default:
		return "Unknown"
	}
}

// Event 总线上传递的事件
// Payload 的具体类型由 Type 决定（见 payloads.go）
type Event struct {
	Type    Type
	Item    ecs.EntityID
	Payload any
}

// Handler 事件处理函数
type Handler func(Event)

// SubscriptionID 订阅句柄，用于取消订阅
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus 同步事件总线
type Bus struct {
	nextID   SubscriptionID
	handlers map[Type][]subscription
}

// NewBus 创建事件总线
func NewBus() *Bus {
	return &Bus{
		nextID:   1,
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe 注册监听者
//
// 参数:
//   - t: 事件类型
//   - h: 处理函数（nil 会被忽略并返回 0）
//
// 返回:
//   - SubscriptionID: 取消订阅用的句柄
func (b *Bus) Subscribe(t Type, h Handler) SubscriptionID {
	if h == nil {
		return 0
	}
	id := b.nextID
	b.nextID++
	b.handlers[t] = append(b.handlers[t], subscription{id: id, handler: h})
	return id
}

// Unsubscribe 取消订阅，未知句柄是无操作
func (b *Bus) Unsubscribe(id SubscriptionID) {
	for t, subs := range b.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			b.handlers[t] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish 同步分发事件
// 分发期间新增/移除的订阅不影响本次分发
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	subs := b.handlers[ev.Type]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		s.handler(ev)
	}
}

// HandlerCount 返回某事件类型的监听者数量
func (b *Bus) HandlerCount(t Type) int {
	return len(b.handlers[t])
}
