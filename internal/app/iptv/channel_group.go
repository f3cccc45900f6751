package iptv

import (
	"cmp"
	"slices"
	"strings"
)

type Category string

const (
	CategoryCCTV      Category = "央视"
	CategoryRegional  Category = "广东"
	CategorySatellite Category = "卫视"
	CategoryOther     Category = "其他"
)

// CategoryOrder 分组的输出顺序，直播源和节目单都按该顺序输出
var CategoryOrder = []Category{CategoryCCTV, CategoryRegional, CategorySatellite, CategoryOther}

// regionalKeywords 广东本地频道的名称关键字
var regionalKeywords = []string{"广东", "大湾区", "嘉佳", "南方", "岭南"}

// ClassifyChannel 根据频道名称获取分组，按顺序匹配，先匹配先生效
func ClassifyChannel(title string) Category {
	if strings.Contains(title, "CCTV") {
		return CategoryCCTV
	}
	for _, keyword := range regionalKeywords {
		if strings.Contains(title, keyword) {
			return CategoryRegional
		}
	}
	if strings.Contains(title, "卫视") {
		return CategorySatellite
	}
	return CategoryOther
}

// ChannelGroups 按分组归类并排序后的频道
type ChannelGroups map[Category][]Channel

// GroupChannels 将频道归入各自的分组，组内按排序数字、名称升序排序
func GroupChannels(channels []Channel) ChannelGroups {
	groups := make(ChannelGroups, len(CategoryOrder))
	for _, category := range CategoryOrder {
		groups[category] = []Channel{}
	}
	for _, channel := range channels {
		groups[channel.Category] = append(groups[channel.Category], channel)
	}
	for category := range groups {
		slices.SortStableFunc(groups[category], compareChannel)
	}
	return groups
}

func compareChannel(a, b Channel) int {
	if c := cmp.Compare(a.SortNumber, b.SortNumber); c != 0 {
		return c
	}
	return strings.Compare(a.Title, b.Title)
}

// Ordered 按分组顺序展开所有频道
func (g ChannelGroups) Ordered() []Channel {
	var channels []Channel
	for _, category := range CategoryOrder {
		channels = append(channels, g[category]...)
	}
	return channels
}

// Len 频道总数
func (g ChannelGroups) Len() int {
	n := 0
	for _, category := range CategoryOrder {
		n += len(g[category])
	}
	return n
}
