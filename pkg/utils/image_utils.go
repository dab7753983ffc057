package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"github.com/decker502/bubblehearts/pkg/embedded"
)

// heartSupersample 每个像素的子采样边长（用于抗锯齿）
const heartSupersample = 4

// NewHeartImage rasterizes a heart icon of the given size into a new NRGBA image.
// The shape is the implicit curve (x²+y²-1)³ - x²y³ <= 0 sampled on a
// supersampled grid, so edges are antialiased through the alpha channel.
//
// Parameters:
//   - size: Width and height of the resulting square image in pixels (must be > 0).
//   - c: Fill color; its alpha is multiplied by per-pixel coverage.
//
// Returns:
//   - A new *image.NRGBA, or nil if size <= 0.
func NewHeartImage(size int, c color.NRGBA) *image.NRGBA {
	if size <= 0 {
		return nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	samples := heartSupersample * heartSupersample

	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			inside := 0
			for sy := 0; sy < heartSupersample; sy++ {
				for sx := 0; sx < heartSupersample; sx++ {
					fx := (float64(px) + (float64(sx)+0.5)/heartSupersample) / float64(size)
					fy := (float64(py) + (float64(sy)+0.5)/heartSupersample) / float64(size)
					if insideHeart(fx*2.6-1.3, 1.4-fy*2.6) {
						inside++
					}
				}
			}
			if inside == 0 {
				continue
			}

			coverage := float64(inside) / float64(samples)
			img.SetNRGBA(px, py, color.NRGBA{
				R: c.R,
				G: c.G,
				B: c.B,
				A: uint8(math.Round(float64(c.A) * coverage)),
			})
		}
	}

	return img
}

func insideHeart(x, y float64) bool {
	a := x*x + y*y - 1
	return a*a*a-x*x*y*y*y <= 0
}

// LoadImage 加载并解码图片文件
//
// 以 "data/" 或 "assets/" 开头且内嵌资源已初始化时从内嵌文件系统读取，
// 否则从磁盘读取。
//
// 参数:
//   - path: 图片路径（PNG 或 JPEG）
//
// 返回:
//   - image.Image: 解码后的图片
//   - error: 读取或解码失败
func LoadImage(path string) (image.Image, error) {
	var (
		data []byte
		err  error
	)

	if embedded.IsInitialized() && embedded.Exists(path) {
		data, err = embedded.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image file %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return img, nil
}
