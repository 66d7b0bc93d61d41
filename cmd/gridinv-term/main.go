// gridinv-term 在终端中运行网格库存
//
// 用法:
//
//	go run ./cmd/gridinv-term [--layout data/layout.yaml] [--items data/items.yaml] [--mute]
//
// 终端接管了标准输出，--verbose 的日志写入 --log 指定的文件。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decker502/idlegrid/internal/audio"
	"github.com/decker502/idlegrid/internal/term"
	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/game"
	"github.com/gdamore/tcell/v2"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试信息（写入 --log 文件）")
	logPath     = flag.String("log", "gridinv-term.log", "详细日志文件")
	layoutPath  = flag.String("layout", config.DefaultLayoutPath, "网格布局文件")
	catalogPath = flag.String("items", config.DefaultCatalogPath, "物品目录文件")
	seed        = flag.Int64("seed", 0, "物品池随机种子（0 表示使用当前时间）")
	mute        = flag.Bool("mute", false, "关闭就绪提示音")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *verbose {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("日志文件打开失败: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	layout, err := config.LoadGridLayout(*layoutPath)
	if err != nil {
		return fmt.Errorf("网格布局加载失败: %w", err)
	}
	catalog, err := config.LoadItemCatalog(*catalogPath)
	if err != nil {
		return fmt.Errorf("物品目录加载失败: %w", err)
	}

	settings := game.OpenSettingsManager(game.DefaultAppName)
	s := settings.GetSettings()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	inventory, err := game.NewInventory(game.InventoryOptions{
		Layout:     term.Layout(layout),
		Catalog:    catalog,
		Rand:       rand.New(rand.NewSource(*seed)),
		GridOrigin: term.GridOrigin,
		SpawnCount: settings.EffectiveSpawnCount(layout.SpawnCount),
	})
	if err != nil {
		return fmt.Errorf("库存创建失败: %w", err)
	}

	var chime *audio.ChimePlayer
	if !*mute {
		chime = audio.NewChimePlayer(s.ChimeVolume, s.ChimeEnabled)
		if err := chime.Init(); err != nil {
			// 没有音频设备时继续运行，只是没有提示音
			log.Printf("[Main] Warning: audio disabled: %v", err)
			chime = nil
		} else {
			defer chime.Close()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("终端初始化失败: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("终端初始化失败: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	frontend := term.New(screen, inventory, chime)
	inventory.Start()
	log.Printf("[Main] Started with seed %d", *seed)

	if err := frontend.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	if chime != nil {
		settings.SetChimeEnabled(chime.Enabled())
		if err := settings.Save(); err != nil {
			log.Printf("[Main] Warning: %v", err)
		}
	}
	return nil
}
