//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 存储目录存在并可写
// gdata 在 Android 上使用 /data/data/{package}/ 作为存储路径，
// 但不会预先创建子目录。
func EnsureStorageDir() error {
	pkg, err := androidPackage()
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join("/data/data", pkg, "saves")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return nil
}

// androidPackage 从 /proc/self/cmdline 读取包名
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}

	name := strings.Map(func(r rune) rune {
		if r == 0 || r == '\n' {
			return -1
		}
		return r
	}, string(data))
	if name == "" {
		return "", fmt.Errorf("got empty output from /proc/self/cmdline")
	}
	return name, nil
}
