package app

import (
	"fmt"
	"image/color"

	"github.com/decker502/idlegrid/pkg/components"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/decker502/idlegrid/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	backgroundColor   = color.RGBA{28, 30, 36, 255}
	gridPanelColor    = color.RGBA{40, 44, 52, 255}
	cellColor         = color.RGBA{58, 64, 76, 255}
	cellValidColor    = color.RGBA{70, 150, 90, 255}
	cellInvalidColor  = color.RGBA{170, 64, 64, 255}
	cooldownMaskColor = color.RGBA{0, 0, 0, 140}
	itemBorderColor   = color.RGBA{20, 20, 24, 255}
)

// Draw 绘制网格、物品和 HUD
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	a.drawGrid(screen)

	// 拖拽中的物品最后绘制，始终在最上层
	for _, id := range a.inventory.Items() {
		if id != a.dragging {
			a.drawItem(screen, id)
		}
	}
	if a.dragging != 0 {
		a.drawItem(screen, a.dragging)
	}

	a.drawHUD(screen)
}

func (a *App) drawGrid(screen *ebiten.Image) {
	layout := a.inventory.Layout()
	resolver := a.inventory.Resolver()
	size := utils.GridPixelSize(layout)

	vector.DrawFilledRect(screen,
		float32(resolver.Origin.X), float32(resolver.Origin.Y),
		float32(size.X), float32(size.Y),
		gridPanelColor, false)

	showGuides := a.settings.GetSettings().ShowGuides
	for y := 0; y < layout.Rows; y++ {
		for x := 0; x < layout.Columns; x++ {
			cell := types.Cell{X: x, Y: y}
			p := resolver.CellToScreen(cell)

			clr := cellColor
			switch a.sink.Tag(cell) {
			case components.PreviewValid:
				clr = cellValidColor
			case components.PreviewInvalid:
				clr = cellInvalidColor
			}
			vector.DrawFilledRect(screen, float32(p.X), float32(p.Y),
				float32(layout.CellSize), float32(layout.CellSize), clr, false)

			if showGuides {
				ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d,%d", x, y), int(p.X)+2, int(p.Y)+int(layout.CellSize)-16)
			}
		}
	}
}

// drawItem 按形状逐格绘制物品
// 就绪脉冲以包围盒中心缩放；冷却遮罩自上而下覆盖未完成的比例
func (a *App) drawItem(screen *ebiten.Image, id ecs.EntityID) {
	item, ok := a.inventory.Item(id)
	if !ok {
		return
	}
	topLeft, ok := a.inventory.ItemTopLeft(id)
	if !ok {
		return
	}

	layout := a.inventory.Layout()
	shape := item.ShapeOrDefault()
	bounds := shape.Bounds()
	size := utils.ItemPixelSize(bounds, layout)
	step := layout.Step()

	scale := a.inventory.PulseScale(id)
	cx := topLeft.X + size.X/2
	cy := topLeft.Y + size.Y/2
	project := func(lx, ly float64) (float32, float32) {
		return float32(cx + (topLeft.X+lx-cx)*scale), float32(cy + (topLeft.Y+ly-cy)*scale)
	}

	clr := a.itemColor(item)
	if item.Location == components.LocationDragging {
		clr.A = 200
	}
	fill, masked := a.sink.Overlay(id)
	maskBottom := size.Y * fill
	cellSize := float32(layout.CellSize * scale)

	for _, c := range shape.Cells() {
		lx := float64(c.X-bounds.MinX) * step
		ly := float64(c.Y-bounds.MinY) * step
		x, y := project(lx, ly)

		vector.DrawFilledRect(screen, x, y, cellSize, cellSize, clr, false)
		vector.StrokeRect(screen, x, y, cellSize, cellSize, 2, itemBorderColor, false)

		if masked {
			cover := maskBottom - ly
			if cover > layout.CellSize {
				cover = layout.CellSize
			}
			if cover > 0 {
				vector.DrawFilledRect(screen, x, y, cellSize, float32(cover*scale), cooldownMaskColor, false)
			}
		}
	}

	if a.settings.GetSettings().ShowGuides && item.Definition != nil {
		x, y := project(4, 4)
		ebitenutil.DebugPrintAt(screen, item.Definition.Name(), int(x), int(y))
	}
}

func (a *App) itemColor(item *components.ItemComponent) color.RGBA {
	if item.Definition != nil {
		if clr, ok := a.colors[item.Definition.ID]; ok {
			return clr
		}
	}
	return utils.PaletteColor(0)
}

func (a *App) drawHUD(screen *ebiten.Image) {
	queue := a.inventory.Queue()
	status := fmt.Sprintf("Batch %d   placed %d/%d   ready %d",
		queue.Queue().BatchesSpawned, queue.ConsumedSinceLastSpawn(), queue.SpawnCount(), a.readyCount)
	ebitenutil.DebugPrintAt(screen, status, int(screenMargin), int(screenMargin)-12)
	ebitenutil.DebugPrintAt(screen, "drag items onto the grid | R reroll | 1-9 auto place | G guides | F11 fullscreen",
		int(screenMargin), int(screenMargin)+4)

	q := a.inventory.QueueOrigin()
	ebitenutil.DebugPrintAt(screen, "queue", int(q.X), int(q.Y)-16)
}
