package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/bubblehearts/pkg/app"
	"github.com/decker502/bubblehearts/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	configPath := flag.String("config", "", "动画配置文件路径（默认使用内嵌的 data/bubble_config.yaml）")
	assetPath := flag.String("asset", "", "自定义粒子图片（PNG/JPEG），默认使用内置爱心")
	seed := flag.Uint64("seed", 0, "随机种子，0 表示随机")
	noPersist := flag.Bool("no-persist", false, "不读写偏好设置")
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{
		Verbose:            *verbose,
		ConfigPath:         *configPath,
		AssetPath:          *assetPath,
		Seed:               *seed,
		DisablePersistence: *noPersist,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer a.Close()

	w, h := a.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Bubble Hearts")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(a.Settings().GetSettings().Fullscreen)

	if err := ebiten.RunGame(a); err != nil {
		log.Printf("RunGame: %v", err)
	}
}
