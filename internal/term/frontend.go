// Package term 提供终端前端
//
// 用 tcell 绘制网格和队列，鼠标拖拽物品，键盘快捷操作。
// tcell 的 PollEvent 在独立 goroutine 中阻塞读取，事件经由通道转交主循环，
// 库存的所有调用都发生在主循环 goroutine 上。
package term

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/decker502/idlegrid/internal/audio"
	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/event"
	"github.com/decker502/idlegrid/pkg/game"
	"github.com/decker502/idlegrid/pkg/systems"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/decker502/idlegrid/pkg/utils"
	"github.com/gdamore/tcell/v2"
)

// GridOrigin 网格左上角的虚拟像素坐标（第 2 行开始，前两行是状态栏）
var GridOrigin = types.Vec2{X: 1, Y: 2 * charHeight}

// FrameInterval 主循环刷新间隔
const FrameInterval = 33 * time.Millisecond

var (
	styleCell    = tcell.StyleDefault.Background(tcell.NewRGBColor(50, 55, 66))
	styleValid   = tcell.StyleDefault.Background(tcell.NewRGBColor(70, 150, 90))
	styleInvalid = tcell.StyleDefault.Background(tcell.NewRGBColor(170, 64, 64))
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// Frontend 终端前端
type Frontend struct {
	screen    tcell.Screen
	inventory *game.Inventory
	sink      *systems.FrameSink
	chime     *audio.ChimePlayer

	// colors 按物品 ID 缓存颜色，首次出现的顺序决定调色板下标
	colors map[string]color.RGBA

	// dragging 当前拖拽的物品，0 表示没有
	dragging ecs.EntityID
	// buttonDown 上一个鼠标事件时左键是否按下
	buttonDown bool

	readyCount int
	status     string
}

// New 创建终端前端并把可视化接收器注入库存
//
// 参数:
//   - screen: 已初始化的 tcell 屏幕
//   - inventory: 库存，网格原点应为 GridOrigin，布局应经过 Layout 换算
//   - chime: 就绪提示音（可为 nil）
func New(screen tcell.Screen, inventory *game.Inventory, chime *audio.ChimePlayer) *Frontend {
	f := &Frontend{
		screen:    screen,
		inventory: inventory,
		sink:      systems.NewFrameSink(),
		chime:     chime,
		colors:    make(map[string]color.RGBA),
	}
	inventory.SetVisualSink(f.sink)
	inventory.Bus().Subscribe(event.ItemReady, f.onItemReady)
	screen.EnableMouse()
	return f
}

// onItemReady 就绪提示音；拖拽中的物品不提示
func (f *Frontend) onItemReady(ev event.Event) {
	f.readyCount++
	if f.chime == nil || f.inventory.Drag().IsDragging(ev.Item) {
		return
	}
	loop := 1
	if payload, ok := ev.Payload.(event.ReadyPayload); ok {
		loop = payload.Loop
	}
	f.chime.Play(loop)
}

// Run 主循环，直到用户退出或 ctx 被取消
func (f *Frontend) Run(ctx context.Context) error {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go f.pollEvents(events, done)

	last := time.Now()
	f.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !f.HandleEvent(ev) {
				return nil
			}
			f.Draw()

		case now := <-ticker.C:
			f.inventory.Update(now.Sub(last).Seconds())
			last = now
			f.sink.Forget(f.inventory.EntityManager().IsAlive)
			f.Draw()
		}
	}
}

// pollEvents 把屏幕事件转发到 events，直到屏幕关闭或 done 被关闭
// 屏幕关闭时关闭 events
func (f *Frontend) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// HandleEvent 处理一个 tcell 事件
//
// 返回:
//   - bool: 用户请求退出时返回 false
func (f *Frontend) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return f.handleKey(ev)
	case *tcell.EventMouse:
		f.handleMouse(ev)
	case *tcell.EventResize:
		f.screen.Sync()
	}
	return true
}

func (f *Frontend) handleKey(ev *tcell.EventKey) bool {
	return f.handleInput(ev.Key(), ev.Rune())
}

// handleInput 按键分发
//
// 返回:
//   - bool: q / Ctrl-C / 非拖拽时的 Esc 返回 false
func (f *Frontend) handleInput(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		if f.dragging != 0 {
			f.inventory.CancelDrag(f.dragging)
			f.dragging = 0
			f.buttonDown = false
			return true
		}
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch {
	case r == 'q':
		return false
	case r == 'r':
		f.inventory.Reroll()
		f.status = "rerolled"
	case r == 'm':
		if f.chime != nil {
			f.chime.SetEnabled(!f.chime.Enabled())
		}
	case r >= '1' && r <= '9':
		f.autoPlaceSlot(int(r - '1'))
	}
	return true
}

func (f *Frontend) autoPlaceSlot(n int) {
	id, ok := f.inventory.QueueSlot(n)
	if !ok {
		f.status = fmt.Sprintf("queue slot %d is empty", n+1)
		return
	}
	if f.inventory.AutoPlace(id) {
		f.status = ""
	} else {
		f.status = "no free space"
	}
}

// handleMouse 左键按下开始拖拽，按住移动更新预览，释放时放下
func (f *Frontend) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	p := CharToVirtual(col, row)
	down := ev.Buttons()&tcell.Button1 != 0

	switch {
	case down && !f.buttonDown:
		if id, ok := f.inventory.BeginDragAt(p); ok {
			f.dragging = id
		}
	case down && f.dragging != 0:
		f.inventory.MoveDrag(f.dragging, p)
	case !down && f.buttonDown && f.dragging != 0:
		if !f.inventory.EndDrag(f.dragging, p) {
			log.Printf("[Frontend] Item %d returned to the queue", f.dragging)
		}
		f.dragging = 0
	}
	f.buttonDown = down
}

// Draw 绘制整个画面
func (f *Frontend) Draw() {
	f.screen.Clear()
	f.drawGrid()
	for _, id := range f.inventory.Items() {
		if id != f.dragging {
			f.drawItem(id)
		}
	}
	if f.dragging != 0 {
		f.drawItem(f.dragging)
	}
	f.drawHUD()
	f.screen.Show()
}

func (f *Frontend) drawGrid() {
	layout := f.inventory.Layout()
	resolver := f.inventory.Resolver()
	size := types.Vec2{X: layout.CellSize, Y: layout.CellSize}

	for y := 0; y < layout.Rows; y++ {
		for x := 0; x < layout.Columns; x++ {
			cell := types.Cell{X: x, Y: y}
			style := styleCell
			switch f.sink.Tag(cell) {
			case components.PreviewValid:
				style = styleValid
			case components.PreviewInvalid:
				style = styleInvalid
			}
			f.fillRect(resolver.CellToScreen(cell), size, ' ', style)
		}
	}
}

// drawItem 逐格绘制物品，冷却中的部分用阴影字符覆盖
func (f *Frontend) drawItem(id ecs.EntityID) {
	item, ok := f.inventory.Item(id)
	if !ok {
		return
	}
	topLeft, ok := f.inventory.ItemTopLeft(id)
	if !ok {
		return
	}

	layout := f.inventory.Layout()
	shape := item.ShapeOrDefault()
	bounds := shape.Bounds()
	step := layout.Step()
	itemSize := utils.ItemPixelSize(bounds, layout)

	bg := toTcell(f.itemColor(item))
	style := tcell.StyleDefault.Background(bg).Foreground(tcell.ColorBlack)
	fill, masked := f.sink.Overlay(id)
	maskBottom := itemSize.Y * fill

	for _, c := range shape.Cells() {
		lx := float64(c.X-bounds.MinX) * step
		ly := float64(c.Y-bounds.MinY) * step
		cellTopLeft := types.Vec2{X: topLeft.X + lx, Y: topLeft.Y + ly}
		f.fillRect(cellTopLeft, types.Vec2{X: layout.CellSize, Y: layout.CellSize}, ' ', style)

		if masked {
			cover := maskBottom - ly
			if cover > layout.CellSize {
				cover = layout.CellSize
			}
			if cover > 0 {
				f.fillRect(cellTopLeft, types.Vec2{X: layout.CellSize, Y: cover}, '░', style)
			}
		}
	}

	if item.Definition != nil {
		col, row := VirtualToChar(topLeft)
		name := item.Definition.Name()
		if f.inventory.PulseScale(id) > 1 {
			name = "*" + name
		}
		f.drawText(col, row, name, style)
	}
}

func (f *Frontend) itemColor(item *components.ItemComponent) color.RGBA {
	if item.Definition == nil {
		return utils.PaletteColor(0)
	}
	def := item.Definition
	clr, ok := f.colors[def.ID]
	if !ok {
		clr = utils.ItemColor(def.Color, len(f.colors))
		f.colors[def.ID] = clr
	}
	return clr
}

func (f *Frontend) drawHUD() {
	queue := f.inventory.Queue()
	f.drawText(1, 0, fmt.Sprintf("batch %d  placed %d/%d  ready %d  %s",
		queue.Queue().BatchesSpawned, queue.ConsumedSinceLastSpawn(), queue.SpawnCount(), f.readyCount, f.status), styleHUD)

	help := "drag with mouse | r reroll | 1-9 auto place | m mute | q quit"
	if f.chime != nil && !f.chime.Enabled() {
		help += " (muted)"
	}
	_, row := VirtualToChar(f.inventory.QueueOrigin())
	f.drawText(1, row-1, "queue", styleHUD)
	f.drawText(1, 1, help, styleHUD)
}

// fillRect 用字符填充覆盖虚拟像素矩形的所有终端格子
func (f *Frontend) fillRect(topLeft, size types.Vec2, ch rune, style tcell.Style) {
	c0, r0, c1, r1 := charRect(topLeft, size)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			f.screen.SetContent(col, row, ch, nil, style)
		}
	}
}

func (f *Frontend) drawText(col, row int, text string, style tcell.Style) {
	for _, r := range text {
		f.screen.SetContent(col, row, r, nil, style)
		col++
	}
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
