package router

import (
	"context"
	"gdtv/internal/app/generator"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Schedule 按cron表达式定时重新生成直播源和节目单，上一次未执行完时跳过
func Schedule(ctx context.Context, gen *generator.Generator, cronSpec string) error {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	c := cron.New(cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger)))

	_, err := c.AddFunc(cronSpec, func() {
		logger.Info("Start executing the scheduling task.")

		if _, err := gen.Run(ctx); err != nil {
			logger.Error("Failed to regenerate playlists and EPG.", zap.Error(err))
			return
		}

		logger.Info("The scheduling task has been completed.")
	})
	if err != nil {
		return err
	}

	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		logger.Info("The scheduling task has been stopped.")
	}()
	return nil
}
