// Package app 提供桌面端的 ebiten 前端
//
// App 实现 ebiten.Game：把鼠标/触摸拖拽转换为库存的拖拽调用，
// 用系统推送的预览标记和冷却遮罩绘制网格与物品。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/ecs"
	"github.com/decker502/idlegrid/pkg/event"
	"github.com/decker502/idlegrid/pkg/game"
	"github.com/decker502/idlegrid/pkg/systems"
	"github.com/decker502/idlegrid/pkg/types"
	"github.com/decker502/idlegrid/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 屏幕布局
const (
	screenMargin   = 24.0
	hudHeight      = 48.0
	minScreenWidth = 640.0
	// queueRows 队列区域预留的格子行数
	queueRows = 3
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// LayoutPath 网格布局文件，为空时使用 config.DefaultLayoutPath
	LayoutPath string
	// CatalogPath 物品目录文件，为空时使用 config.DefaultCatalogPath
	CatalogPath string
	// Seed 物品池随机种子，0 表示使用当前时间
	Seed int64
	// AppName gdata 存储名称，为空时使用 game.DefaultAppName
	AppName string
	// Settings 用户设置；为 nil 时按 AppName 打开
	Settings *game.SettingsManager
}

// App 桌面端应用，实现 ebiten.Game 接口
type App struct {
	inventory *game.Inventory
	settings  *game.SettingsManager
	sink      *systems.FrameSink
	pointer   *DragManager
	colors    map[string]color.RGBA

	// dragging 当前被指针拖拽的物品，0 表示没有
	dragging ecs.EntityID
	// readyCount 就绪事件累计次数（HUD 显示）
	readyCount int

	screenWidth  int
	screenHeight int
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 加载配置并创建应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	layoutPath := cfg.LayoutPath
	if layoutPath == "" {
		layoutPath = config.DefaultLayoutPath
	}
	catalogPath := cfg.CatalogPath
	if catalogPath == "" {
		catalogPath = config.DefaultCatalogPath
	}

	layout, err := config.LoadGridLayout(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("网格布局加载失败: %w", err)
	}
	catalog, err := config.LoadItemCatalog(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("物品目录加载失败: %w", err)
	}
	log.Printf("[App] Loaded %d item definitions from %s", catalog.Len(), catalogPath)

	settings := cfg.Settings
	if settings == nil {
		appName := cfg.AppName
		if appName == "" {
			appName = game.DefaultAppName
		}
		settings = game.OpenSettingsManager(appName)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sink := systems.NewFrameSink()
	inventory, err := game.NewInventory(game.InventoryOptions{
		Layout:     layout,
		Catalog:    catalog,
		Rand:       rand.New(rand.NewSource(seed)),
		GridOrigin: types.Vec2{X: screenMargin, Y: screenMargin + hudHeight},
		Sink:       sink,
		SpawnCount: settings.EffectiveSpawnCount(layout.SpawnCount),
	})
	if err != nil {
		return nil, fmt.Errorf("库存创建失败: %w", err)
	}

	a := &App{
		inventory: inventory,
		settings:  settings,
		sink:      sink,
		pointer:   NewDragManager(),
		colors:    make(map[string]color.RGBA, catalog.Len()),
		verbose:   cfg.Verbose,
	}
	for i, def := range catalog.Items {
		if def != nil {
			a.colors[def.ID] = utils.ItemColor(def.Color, i)
		}
	}
	a.screenWidth, a.screenHeight = screenSize(inventory.Layout())

	inventory.Bus().Subscribe(event.ItemReady, func(event.Event) { a.readyCount++ })

	inventory.Start()
	log.Printf("[App] Started with seed %d, screen %dx%d", seed, a.screenWidth, a.screenHeight)
	return a, nil
}

// screenSize 逻辑屏幕尺寸：HUD + 网格 + 队列区域
func screenSize(layout config.GridLayout) (int, int) {
	grid := utils.GridPixelSize(layout)
	w := grid.X + 2*screenMargin
	if w < minScreenWidth {
		w = minScreenWidth
	}
	h := screenMargin + hudHeight + grid.Y + layout.QueueGap + queueRows*layout.Step() + screenMargin
	return int(w), int(h)
}

// Update 更新输入与库存
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.screenWidth, a.screenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	a.handleKeys()

	a.pointer.Update()
	x, y := a.pointer.Position()
	a.applyPointer(a.pointer.GetState(), types.Vec2{X: float64(x), Y: float64(y)})

	a.inventory.Update(1.0 / float64(ebiten.TPS()))
	a.sink.Forget(a.inventory.EntityManager().IsAlive)
	return nil
}

// handleKeys 键盘快捷键
func (a *App) handleKeys() {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.inventory.Reroll()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		a.settings.SetShowGuides(!a.settings.GetSettings().ShowGuides)
		a.saveSettings()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && a.dragging != 0 {
		a.inventory.CancelDrag(a.dragging)
		a.dragging = 0
		a.pointer.Reset()
	}

	for n, key := range []ebiten.Key{
		ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
		ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
		ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	} {
		if inpututil.IsKeyJustPressed(key) {
			a.autoPlaceSlot(n)
		}
	}
}

// autoPlaceSlot 把队列中第 n 个物品放到第一个空位
func (a *App) autoPlaceSlot(n int) bool {
	id, ok := a.inventory.QueueSlot(n)
	if !ok {
		return false
	}
	placed := a.inventory.AutoPlace(id)
	if !placed {
		log.Printf("[App] No free space for queue slot %d", n+1)
	}
	return placed
}

// applyPointer 把指针状态转换为拖拽调用
func (a *App) applyPointer(state DragState, p types.Vec2) {
	switch state {
	case DragStateStarted:
		if id, ok := a.inventory.BeginDragAt(p); ok {
			a.dragging = id
		}
	case DragStateDragging:
		if a.dragging != 0 {
			a.inventory.MoveDrag(a.dragging, p)
		}
	case DragStateEnded:
		if a.dragging != 0 {
			a.inventory.EndDrag(a.dragging, p)
			a.dragging = 0
		}
	}
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
	} else {
		ebiten.SetFullscreen(true)
		a.settings.SetFullscreen(true)
	}
	a.saveSettings()
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.screenWidth, a.screenHeight
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// WindowSize 初始窗口尺寸
func (a *App) WindowSize() (int, int) {
	return a.screenWidth, a.screenHeight
}

// Inventory 返回库存
func (a *App) Inventory() *game.Inventory {
	return a.inventory
}

// Settings 返回用户设置
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
