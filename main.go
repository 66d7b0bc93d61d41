package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decker502/idlegrid/pkg/app"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息")
	layoutPath  = flag.String("layout", config.DefaultLayoutPath, "网格布局文件")
	catalogPath = flag.String("items", config.DefaultCatalogPath, "物品目录文件")
	seed        = flag.Int64("seed", 0, "物品池随机种子（0 表示使用当前时间）")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		LayoutPath:  *layoutPath,
		CatalogPath: *catalogPath,
		Seed:        *seed,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "启动失败: %v\n", err)
		os.Exit(1)
	}

	w, h := a.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Idle Grid Inventory")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(a.Settings().GetSettings().Fullscreen)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
