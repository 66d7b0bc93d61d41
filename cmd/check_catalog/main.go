// check_catalog 校验物品目录与网格布局，并打印每个物品的形状
//
// 用法:
//
//	go run ./cmd/check_catalog [--layout data/layout.yaml] [--items data/items.yaml]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/decker502/idlegrid/pkg/config"
	"github.com/decker502/idlegrid/pkg/types"
)

var (
	layoutPath  = flag.String("layout", config.DefaultLayoutPath, "网格布局文件")
	catalogPath = flag.String("items", config.DefaultCatalogPath, "物品目录文件")
)

func main() {
	flag.Parse()

	layout, err := config.LoadGridLayout(*layoutPath)
	if err != nil {
		fmt.Printf("❌ 网格布局无效: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 网格 %dx%d，格子 %.0f 像素，每批 %d 个物品\n",
		layout.Columns, layout.Rows, layout.CellSize, layout.SpawnCount)

	catalog, err := config.LoadItemCatalog(*catalogPath)
	if err != nil {
		fmt.Printf("❌ 物品目录无效: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ 物品数量: %d\n\n", catalog.Len())

	totalWeight := 0
	for _, def := range catalog.Items {
		totalWeight += def.Weight
	}

	oversized := 0
	for _, def := range catalog.Items {
		shape := def.ShapeMask()
		b := shape.Bounds()

		fmt.Printf("%s (%s)  冷却 %.2fs  概率 %s\n", def.Name(), def.ID, def.CooldownSeconds, chance(def.Weight, totalWeight, catalog.Len()))
		fmt.Print(renderShape(shape))

		if b.Width > layout.Columns || b.Height > layout.Rows {
			fmt.Printf("❌ %s 的包围盒 %dx%d 超出网格\n", def.ID, b.Width, b.Height)
			oversized++
		}
		fmt.Println()
	}

	if oversized > 0 {
		fmt.Printf("❌ 有 %d 个物品无法放入网格\n", oversized)
		os.Exit(1)
	}
	fmt.Printf("✅ 所有物品都能放入网格\n")
}

// chance 物品被选中的概率；权重全部为 0 时均匀选择
func chance(weight, total, count int) string {
	switch {
	case total == 0:
		return fmt.Sprintf("%.1f%%", 100/float64(count))
	case weight <= 0:
		return "不参与"
	default:
		return fmt.Sprintf("%.1f%%", 100*float64(weight)/float64(total))
	}
}

// renderShape 用 # 表示占用的格子
func renderShape(shape *types.ShapeMask) string {
	b := shape.Bounds()
	var sb strings.Builder
	for y := 0; y < b.Height; y++ {
		sb.WriteString("  ")
		for x := 0; x < b.Width; x++ {
			if shape.Contains(types.Cell{X: x + b.MinX, Y: y + b.MinY}) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
