// Command validateconfig 检查动画配置文件是否合法
//
// 用法：
//
//	go run ./cmd/validateconfig [path ...]
//
// 未指定路径时检查 data/bubble_config.yaml。
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/decker502/bubblehearts/pkg/config"
)

// validate 校验单个文件并输出摘要，返回是否通过
func validate(w io.Writer, path string) bool {
	cfg, err := config.LoadBubbleConfig(path)
	if err != nil {
		fmt.Fprintf(w, "❌ %s: %v\n", path, err)
		return false
	}

	t := cfg.Trajectory
	fmt.Fprintf(w, "✅ %s\n", path)
	fmt.Fprintf(w, "   表面尺寸: %dx%d, 帧间隔: %dms\n", cfg.Surface.Width, cfg.Surface.Height, cfg.FrameIntervalMs)
	fmt.Fprintf(w, "   寿命: %d ~ %dms\n", cfg.Duration.Min, cfg.Duration.Max)
	fmt.Fprintf(w, "   频率: %d ~ %d, 淡出: %d%% ~ %d%%, 摆动下限: %d%%, 水平偏移: %d\n",
		t.Frequency.Min, t.Frequency.Max,
		t.FadeOutStagePercent.Min, t.FadeOutStagePercent.Max,
		t.WaveMinPercent, t.HorizontalOffset)
	return true
}

func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		paths = []string{config.BubbleConfigPath}
	}

	failed := 0
	for _, p := range paths {
		if !validate(os.Stdout, p) {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("❌ %d 个文件未通过检查\n", failed)
		os.Exit(1)
	}
}
