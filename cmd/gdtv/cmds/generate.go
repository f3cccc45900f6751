package cmds

import (
	"gdtv/internal/app/config"
	"gdtv/internal/app/generator"
	"gdtv/internal/app/iptv/gdepg"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var udpxyURL string

func NewGenerateCLI() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "获取频道列表和节目单，生成组播、单播两个直播源文件以及xml节目单。",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 命令参数优先于配置文件
			if cmd.Flags().Changed("udpxy") {
				conf.ProxyBaseURL = udpxyURL
			}

			gen, err := newGenerator(conf)
			if err != nil {
				return err
			}

			result, err := gen.Run(cmd.Context())
			if err != nil {
				return err
			}

			zap.L().Sugar().Infof("Done! Channels: %d, program lists succeeded: %d, failed: %d.",
				result.Channels, result.Stats.Succeeded, result.Stats.Failed)
			return nil
		},
	}

	generateCmd.Flags().StringVarP(&udpxyURL, "udpxy", "u", "", "UDPXY组播转单播地址，替换rtp://前缀，e.g `http://192.168.1.1:4022/rtp/`。")

	return generateCmd
}

// newGenerator 校验配置并创建生成器
func newGenerator(conf *config.Config) (*generator.Generator, error) {
	// 校验配置文件
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	// 节目单请求限速
	limit := rate.Inf
	if conf.RequestsPerSecond > 0 {
		limit = rate.Limit(conf.RequestsPerSecond)
	}

	// 创建IPTV客户端
	client, err := gdepg.NewClient(&http.Client{
		Timeout: conf.Timeout,
	}, conf.CatalogURL, conf.ScheduleBaseURL, conf.Headers, rate.NewLimiter(limit, 1))
	if err != nil {
		return nil, err
	}

	return generator.New(client, conf), nil
}
