package cron

import (
	"context"
	"fmt"
	log "log/slog"
)

// Run 注册并启动定时任务，阻塞到 ctx 结束后等待正在执行的任务退出
func Run(ctx context.Context, mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	if len(mgr.engine.Entries()) == 0 {
		log.Info("No cron jobs registered, scheduler idle")
		<-ctx.Done()
		return nil
	}
	mgr.Start()
	<-ctx.Done()
	mgr.Stop()
	return nil
}
