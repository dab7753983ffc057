package utils

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
)

// StorageAppName 偏好设置在 gdata 中使用的应用名
const StorageAppName = "bubblehearts"

// OpenStorage 打开跨平台持久化存储
//
// 返回的 Manager 用于保存查看器偏好设置；失败时调用方应降级为内存模式。
func OpenStorage(appName string) (*gdata.Manager, error) {
	if err := EnsureStorageDir(); err != nil {
		return nil, fmt.Errorf("failed to prepare storage dir: %w", err)
	}

	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage %q: %w", appName, err)
	}
	return m, nil
}
