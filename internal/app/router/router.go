package router

import (
	"context"
	"fmt"
	"gdtv/internal/app/config"
	"gdtv/internal/app/generator"
	"gdtv/internal/app/metrics"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var logger *zap.Logger

// NewEngine 生成一次直播源和节目单，启动定时任务，并创建HTTP路由
func NewEngine(ctx context.Context, conf *config.Config, gen *generator.Generator, cronSpec string) (*gin.Engine, error) {
	// L()：获取全局logger
	logger = zap.L()

	gin.SetMode(gin.ReleaseMode)

	// 先校验cron表达式，避免写入文件后才发现参数错误
	if _, err := cron.ParseStandard(cronSpec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
	}

	// 执行初始化操作，频道列表获取失败时直接退出
	if _, err := gen.Run(ctx); err != nil {
		return nil, err
	}

	// 执行定时任务
	if err := Schedule(ctx, gen, cronSpec); err != nil {
		return nil, err
	}

	return newRouter(conf), nil
}

func newRouter(conf *config.Config) *gin.Engine {
	if logger == nil {
		logger = zap.L()
	}

	// 创建 Gin 路由引擎
	r := gin.New()

	// 日志记录
	r.Use(ginzap.Ginzap(logger, "", false))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	files := artifactFiles{
		playlistDirect:  conf.Output.PlaylistDirect,
		playlistProxied: conf.Output.PlaylistProxied,
		xmltv:           conf.Output.XMLTV,
		xmltvGzip:       conf.XMLTVGzipPath(),
	}

	// 查询直播源-组播地址
	r.GET("/channel/m3u", files.GetM3U)
	// 查询直播源-udpxy转单播地址
	r.GET("/channel/m3u/unicast", files.GetUnicastM3U)

	// 查询EPG-xml格式
	r.GET("/epg/xml", files.GetXmlEPG)
	r.GET("/epg/xml.gz", files.GetXmlEPGWithGzip)

	// 监控指标
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
