//go:build !android

package utils

// EnsureStorageDir 非 Android 平台无需预建目录，gdata 会自动创建
func EnsureStorageDir() error {
	return nil
}
