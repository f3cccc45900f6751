package main

import (
	"context"
	"gdtv/cmd/gdtv/cmds"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	// 收到退出信号时取消context，停止下载和定时任务
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmds.NewRootCLI().ExecuteContext(ctx)
	stop()
	cobra.CheckErr(err)
}
