package gdepg

import (
	"context"
	"encoding/json"
	"fmt"
	"gdtv/internal/app/iptv"

	"go.uber.org/zap"
)

type channelListResult struct {
	Channels *[]channelItem `json:"channels"` // 为nil时说明响应中没有频道列表
}

type channelItem struct {
	Title  string `json:"title"`
	Code   string `json:"code"`
	Icon   string `json:"icon"`
	Params struct {
		HWURL string `json:"hwurl"`
	} `json:"params"`
}

// GetAllChannelList 获取所有频道列表
func (c *Client) GetAllChannelList(ctx context.Context) ([]iptv.Channel, error) {
	result, err := c.getBody(ctx, c.catalogURL)
	if err != nil {
		return nil, err
	}

	channels, err := parseChannelList(result)
	if err != nil {
		return nil, err
	}

	c.logger.Info("The channel list has been downloaded.", zap.String("url", c.catalogURL), zap.Int("rows", len(channels)))
	return channels, nil
}

// parseChannelList 解析频道列表，并自动识别频道的分组
func parseChannelList(rawData []byte) ([]iptv.Channel, error) {
	var resp channelListResult
	if err := json.Unmarshal(rawData, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", iptv.ErrParse, err)
	} else if resp.Channels == nil {
		return nil, fmt.Errorf("%w: channels not found in response", iptv.ErrParse)
	}

	channels := make([]iptv.Channel, 0, len(*resp.Channels))
	for _, item := range *resp.Channels {
		channels = append(channels, iptv.NewChannel(item.Title, item.Code, item.Icon, item.Params.HWURL))
	}
	return channels, nil
}
