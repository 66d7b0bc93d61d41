package utils

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// 物品调色板参数（HSV）
const (
	paletteSaturation = 0.55
	paletteValue      = 0.85
	// goldenAngle 相邻索引的色相间隔，保证相邻物品颜色区分明显
	goldenAngle = 137.508
)

// ItemColor 解析物品的显示颜色
//
// 参数:
//   - hex: "#rrggbb" 格式的颜色；为空或无法解析时使用调色板
//   - index: 调色板索引（通常是物品在目录中的序号）
//
// 返回:
//   - color.RGBA: 不透明颜色
func ItemColor(hex string, index int) color.RGBA {
	if hex != "" {
		if c, err := colorful.Hex(hex); err == nil {
			return toRGBA(c)
		}
	}
	return PaletteColor(index)
}

// PaletteColor 第 index 个调色板颜色
func PaletteColor(index int) color.RGBA {
	hue := math.Mod(float64(index)*goldenAngle, 360)
	if hue < 0 {
		hue += 360
	}
	return toRGBA(colorful.Hsv(hue, paletteSaturation, paletteValue))
}

// Shade 按比例调暗（factor < 1）或提亮（factor > 1）颜色，保持透明度
func Shade(c color.RGBA, factor float64) color.RGBA {
	src := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, v := src.Hsv()
	out := toRGBA(colorful.Hsv(h, s, math.Min(1, v*factor)))
	out.A = c.A
	return out
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
