package generator

import (
	"context"
	"fmt"
	"gdtv/internal/app/config"
	"gdtv/internal/app/iptv"
	"gdtv/internal/app/metrics"
	"gdtv/internal/app/xmltv"
	"gdtv/internal/pkg/util"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result 一次生成的结果
type Result struct {
	RunID    string
	Channels int             // 写入直播源的频道数
	EPG      int             // 写入节目单的频道数
	Stats    iptv.FetchStats // 节目单下载统计
}

type Generator struct {
	client iptv.Client
	conf   *config.Config
	now    func() time.Time

	mu sync.Mutex // 同一时间只执行一次生成

	logger *zap.Logger
}

func New(client iptv.Client, conf *config.Config) *Generator {
	return &Generator{
		client: client,
		conf:   conf,
		now:    time.Now,
		logger: zap.L(),
	}
}

// Run 获取频道列表，生成组播和单播两个直播源文件，然后下载节目单生成xml及其压缩文件。
// 频道列表获取失败时不写入任何文件。
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	result, err := g.run(ctx)
	if err != nil {
		metrics.ObserveFailure()
		return nil, err
	}
	return result, nil
}

func (g *Generator) run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := g.logger.With(zap.String("runID", runID))
	logger.Info("Start generating playlists and EPG.", zap.String("proxyBaseURL", g.conf.ProxyBaseURL))

	// 获取频道列表
	channels, err := g.client.GetAllChannelList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel list: %w", err)
	}

	// 分组并排序
	groups := iptv.GroupChannels(channels)

	// 生成直播源文件
	for _, playlist := range []struct {
		path    string
		proxied bool
	}{
		{g.conf.Output.PlaylistDirect, false},
		{g.conf.Output.PlaylistProxied, true},
	} {
		content := iptv.ToM3UFormat(groups, g.conf.ProxyBaseURL, playlist.proxied)
		if err = util.WriteFile(playlist.path, []byte(content)); err != nil {
			logger.Error("Failed to write the playlist.", zap.String("path", playlist.path), zap.Error(err))
			return nil, err
		}
	}
	logger.Info("The playlists have been generated.",
		zap.Int("channels", groups.Len()),
		zap.String("multicast", absPath(g.conf.Output.PlaylistDirect)),
		zap.String("unicast", absPath(g.conf.Output.PlaylistProxied)))

	// 下载节目单，按频道列表原始顺序请求
	schedules, stats := g.client.GetAllChannelSchedule(ctx, channels, g.now())

	// 生成xml节目单及压缩文件
	epg := xmltv.BuildXmlEPG(groups, schedules, g.conf.GeneratorName)
	if err = xmltv.WriteFiles(epg, g.conf.Output.XMLTV, g.conf.XMLTVGzipPath()); err != nil {
		logger.Error("Failed to write the EPG.", zap.String("path", g.conf.Output.XMLTV), zap.Error(err))
		return nil, err
	}

	result := &Result{
		RunID:    runID,
		Channels: groups.Len(),
		EPG:      countEPGChannels(groups, schedules),
		Stats:    stats,
	}
	metrics.ObserveSuccess(result.Channels, stats, g.now())

	logger.Info("The EPG has been generated.",
		zap.String("xml", absPath(g.conf.Output.XMLTV)),
		zap.String("gzip", absPath(g.conf.XMLTVGzipPath())),
		zap.Int("channels", result.EPG),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed))
	return result, nil
}

func countEPGChannels(groups iptv.ChannelGroups, schedules iptv.ScheduleMap) int {
	n := 0
	for _, channel := range groups.Ordered() {
		if _, ok := schedules[channel.Code]; ok {
			n++
		}
	}
	return n
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
