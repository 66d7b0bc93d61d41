// Package embedded 提供嵌入数据文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量声明在项目根目录（embed.go），启动时通过 Init() 注入。
//
// 未初始化时（命令行工具、单元测试）所有读取回退到本地文件系统，
// 因此同一个配置加载函数既能读嵌入资源，也能读任意路径的文件。
package embedded

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// dataPrefix 嵌入数据文件的路径前缀
const dataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 注入嵌入的数据文件系统
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// Reset 清除注入的文件系统（测试使用）
func Reset() {
	dataFS = nil
	initialized = false
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符并去掉 "./" 前缀（embed.FS 使用正斜杠）
func normalize(path string) string {
	path = filepath.ToSlash(path)
	return strings.TrimPrefix(path, "./")
}

// ReadFile 读取文件内容
//
// 已初始化且路径以 "data/" 开头时从嵌入资源读取，
// 嵌入资源中不存在或未初始化时回退到本地文件系统。
func ReadFile(path string) ([]byte, error) {
	p := normalize(path)
	if initialized && strings.HasPrefix(p, dataPrefix) {
		data, err := fs.ReadFile(dataFS, p)
		if err == nil {
			return data, nil
		}
	}
	return os.ReadFile(path)
}

// Exists 检查文件是否存在（嵌入资源或本地文件系统）
func Exists(path string) bool {
	p := normalize(path)
	if initialized && strings.HasPrefix(p, dataPrefix) {
		if _, err := fs.Stat(dataFS, p); err == nil {
			return true
		}
	}
	_, err := os.Stat(path)
	return err == nil
}

// Glob 匹配嵌入资源中的文件，未初始化时匹配本地文件系统
func Glob(pattern string) ([]string, error) {
	p := normalize(pattern)
	if initialized && strings.HasPrefix(p, dataPrefix) {
		return fs.Glob(dataFS, p)
	}
	return filepath.Glob(pattern)
}
