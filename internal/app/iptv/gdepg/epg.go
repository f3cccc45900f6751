package gdepg

import (
	"context"
	"encoding/json"
	"fmt"
	"gdtv/internal/app/iptv"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	dateLayout = "20060102"

	progressInterval = 50
)

// ScheduleTarget 单个节目单请求
type ScheduleTarget struct {
	Code string // 频道编码
	Date string // 日期，格式：20060102
	URL  string // 请求地址
}

// ScheduleTargets 为每个频道生成今天和明天两个节目单请求，按频道顺序排列
func (c *Client) ScheduleTargets(channels []iptv.Channel, now time.Time) []ScheduleTarget {
	today := now.Format(dateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(dateLayout)

	targets := make([]ScheduleTarget, 0, len(channels)*2)
	for _, channel := range channels {
		for _, date := range []string{today, tomorrow} {
			targets = append(targets, ScheduleTarget{
				Code: channel.Code,
				Date: date,
				URL:  c.scheduleURL(channel.Code, date),
			})
		}
	}
	return targets
}

func (c *Client) scheduleURL(code, date string) string {
	params := url.Values{}
	params.Set("begintime", date)
	// 频道编码原样拼接，不做转义
	return fmt.Sprintf("%s/%s.json?%s", c.scheduleBaseURL, code, params.Encode())
}

// GetChannelSchedule 获取单个频道某一天的节目单
func (c *Client) GetChannelSchedule(ctx context.Context, target ScheduleTarget) (*iptv.SchedulePage, error) {
	result, err := c.getBody(ctx, target.URL)
	if err != nil {
		return nil, err
	}
	return parseSchedulePage(result)
}

// parseSchedulePage 解析节目单
func parseSchedulePage(rawData []byte) (*iptv.SchedulePage, error) {
	var page iptv.SchedulePage
	if err := json.Unmarshal(rawData, &page); err != nil {
		return nil, fmt.Errorf("%w: %w", iptv.ErrParse, err)
	}
	return &page, nil
}

// GetAllChannelSchedule 依次下载所有频道的节目单并按频道编码合并，单个请求失败时跳过
func (c *Client) GetAllChannelSchedule(ctx context.Context, channels []iptv.Channel, now time.Time) (iptv.ScheduleMap, iptv.FetchStats) {
	targets := c.ScheduleTargets(channels, now)
	stats := iptv.FetchStats{Total: len(targets)}
	schedules := make(iptv.ScheduleMap)

	c.logger.Info("Start downloading the program lists.", zap.Int("total", stats.Total))
	for i, target := range targets {
		// 请求限速，context被取消时剩余的请求全部记为失败
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Warn("The download of program lists was interrupted.", zap.Int("remaining", len(targets)-i), zap.Error(err))
			stats.Failed += len(targets) - i
			break
		}

		page, err := c.GetChannelSchedule(ctx, target)
		if err != nil {
			stats.Failed++
			c.logger.Warn("Failed to get the program list.", zap.String("url", target.URL), zap.Error(err))
			continue
		}

		schedules = iptv.MergeSchedulePage(schedules, target.Code, page)
		stats.Succeeded++

		if stats.Succeeded%progressInterval == 0 {
			c.logger.Sugar().Infof("Successfully downloaded %d/%d program lists.", stats.Succeeded, stats.Total)
		}
	}

	c.logger.Info("The program lists have been downloaded.",
		zap.Int("total", stats.Total), zap.Int("succeeded", stats.Succeeded), zap.Int("failed", stats.Failed))
	return schedules, stats
}
