package iptv

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNetwork = errors.New("network error")
	ErrParse   = errors.New("parse error")
)

// Client 频道目录与节目单数据源
type Client interface {
	// GetAllChannelList 获取全部频道列表，失败时整个流程需要终止
	GetAllChannelList(ctx context.Context) ([]Channel, error)
	// GetAllChannelSchedule 按顺序下载所有频道今明两天的节目单，单个请求失败不影响整体
	GetAllChannelSchedule(ctx context.Context, channels []Channel, now time.Time) (ScheduleMap, FetchStats)
}
