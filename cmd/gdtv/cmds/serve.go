package cmds

import (
	"context"
	"errors"
	"fmt"
	"gdtv/internal/app/router"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var httpConfig HttpConfig

type HttpConfig struct {
	Port     int    `json:"port"`
	UdpxyURL string `json:"udpxyURL"`
	Cron     string `json:"cron"`
}

func NewServeCLI() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务，定时生成并提供直播源、EPG等文件的下载。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("udpxy") {
				conf.ProxyBaseURL = httpConfig.UdpxyURL
			}

			gen, err := newGenerator(conf)
			if err != nil {
				return err
			}

			// 创建并启动HTTP服务
			r, err := router.NewEngine(cmd.Context(), conf, gen, httpConfig.Cron)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", httpConfig.Port),
				Handler: r,
			}
			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					zap.L().Error("Failed to shut down the HTTP server.", zap.Error(err))
				}
			}()

			zap.L().Info("The HTTP server is listening.", zap.String("addr", srv.Addr))
			if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			zap.L().Info("The HTTP server has been stopped.")
			return nil
		},
	}

	serveCmd.Flags().IntVarP(&httpConfig.Port, "port", "p", 8080, "HTTP服务的监听端口。")
	serveCmd.Flags().StringVarP(&httpConfig.UdpxyURL, "udpxy", "u", "", "UDPXY组播转单播地址，替换rtp://前缀，e.g `http://192.168.1.1:4022/rtp/`。")
	serveCmd.Flags().StringVarP(&httpConfig.Cron, "cron", "c", "@every 24h", "自动重新生成直播源和节目单的cron表达式，e.g `0 4 * * *`。")

	return serveCmd
}
