package http

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// fallbackIndex 首页文件不可读时使用
var fallbackIndex = []byte(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Asteroid Hazard Prediction</title></head>
<body>
<h1>Asteroid Hazard Prediction</h1>
<ul>
<li><a href="/line-graph">Asteroid Frequency by Size Category</a></li>
<li><a href="/time-series">Hazardous vs Non-Hazardous Asteroids Over Time</a></li>
<li><a href="/trajectory">Asteroid Trajectory</a></li>
</ul>
</body>
</html>
`)

// PageLoader 缓存首页内容，文件变化时重新加载
type PageLoader struct {
	path string

	mu      sync.RWMutex
	content []byte
}

// NewPageLoader 读取首页文件；文件不可读时使用内置页面
func NewPageLoader(path string) *PageLoader {
	p := &PageLoader{path: filepath.Clean(path), content: fallbackIndex}
	if err := p.reload(); err != nil {
		zap.L().Warn("index page unavailable, serving built-in page", zap.String("path", path), zap.Error(err))
	}
	return p
}

// Index 返回当前首页内容
func (p *PageLoader) Index() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.content
}

func (p *PageLoader) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.content = data
	p.mu.Unlock()
	return nil
}

// Watch 监听首页文件所在目录，直到 ctx 结束。
// 监听目录而不是文件本身，编辑器以重命名方式保存时也能收到事件。
func (p *PageLoader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", p.path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != p.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if err := p.reload(); err != nil {
					zap.L().Warn("reload index page", zap.String("path", p.path), zap.Error(err))
					continue
				}
				zap.L().Info("index page reloaded", zap.String("path", p.path))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				zap.L().Warn("index page watcher", zap.Error(err))
			}
		}
	}()
	return nil
}
