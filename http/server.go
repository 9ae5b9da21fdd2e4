// Package http 提供HTTP服务器功能
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server HTTP服务器
type Server struct {
	server *http.Server
	config ServerConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// DefaultServerConfig 默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           5000,
		Timeout:        30 * time.Second,
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"*"},
	}
}

// NewHandler 构建注册了所有路由和中间件的处理器
func NewHandler(config ServerConfig) http.Handler {
	mux := http.NewServeMux()

	// 注册所有处理器
	RegisterHandlers(mux)
	RegisterPredictHandlers(mux)
	RegisterChartHandlers(mux)

	// 创建中间件链
	chain := Chain(
		RecoveryMiddleware,                            // 1. 恢复中间件（最先执行，捕获panic）
		LoggerMiddleware,                              // 2. 日志中间件
		SecurityHeadersMiddleware,                     // 3. 安全头中间件
		CORSMiddleware(config.AllowedOrigins),         // 4. CORS中间件
		RequestSizeMiddleware(config.MaxBodyBytes),    // 5. 请求大小限制
		TimeoutMiddleware(config.Timeout, "/predict"), // 6. 超时中间件（/predict 除外，始终返回200）
		GzipMiddleware,                                // 7. Gzip压缩中间件
	)

	return chain(mux)
}

// NewServer 创建HTTP服务器
func NewServer(config ServerConfig) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      NewHandler(config),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout + 5*time.Second,
			IdleTimeout:  120 * time.Second,
		},
		config: config,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	zap.L().Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown 优雅关闭服务器，等待进行中的请求直到 ctx 结束
func (s *Server) Shutdown(ctx context.Context) error {
	zap.L().Info("shutting down HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// Config 返回服务器配置
func (s *Server) Config() ServerConfig {
	return s.config
}
