package bubble

import (
	"errors"
	"image"
)

// ErrAssetNotDrawable 资源无法被绘制（nil、未解码或类型不支持）
var ErrAssetNotDrawable = errors.New("asset is not drawable")

// Asset 可被绘制的图片资源
// *ebiten.Image 与 image.Image 都满足该接口
type Asset interface {
	Bounds() image.Rectangle
}

// Canvas 2D 绘制表面
//
// 语义与浏览器 canvas 2D 上下文一致：Translate/Scale 作用于当前局部坐标系，
// Save/Restore 成对保存和恢复变换与透明度。
type Canvas interface {
	// Size 返回表面的像素尺寸
	Size() (width, height int)

	// ClearRect 清除矩形区域
	ClearRect(x, y, w, h float64)

	Save()
	Restore()

	Translate(x, y float64)
	Scale(sx, sy float64)

	// SetGlobalAlpha 设置后续绘制的全局透明度 [0, 1]
	SetGlobalAlpha(alpha float64)

	// DrawImage 在当前变换下把资源绘制到 (x, y, w, h)
	DrawImage(asset Asset, x, y, w, h float64) error
}

// assetSize 返回资源尺寸，nil 或损坏的资源返回 0
func assetSize(asset Asset) (w, h float64) {
	if asset == nil {
		return 0, 0
	}
	defer func() {
		// typed nil pointer
		if recover() != nil {
			w, h = 0, 0
		}
	}()
	b := asset.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}
