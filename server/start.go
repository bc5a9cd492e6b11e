package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Open-MBEE/mcf-sub004/config"
)

// ListenAndServe starts the HTTP listener and blocks until it fails.
func (h *AppServer) ListenAndServe() error {
	srv := &http.Server{
		Addr:              h.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	config.RootLogger.Info("listening", zap.String("addr", h.Addr), zap.String("prefix", h.ServicePrefix))
	return srv.ListenAndServe()
}
