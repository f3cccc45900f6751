package iptv

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// MulticastScheme 组播地址的协议前缀
const MulticastScheme = "rtp://"

var numberRegex = regexp.MustCompile(`\p{Nd}+`)

type Channel struct {
	Title      string   `json:"title"`      // 频道名称
	Code       string   `json:"code"`       // 频道唯一编码，关联节目单
	Icon       string   `json:"icon"`       // 台标地址
	StreamURL  string   `json:"streamURL"`  // 直播地址，一般为rtp://组播地址
	Category   Category `json:"category"`   // 频道分组
	SortNumber int      `json:"sortNumber"` // 从频道名称中提取的排序数字
}

// NewChannel 创建频道，并根据名称自动识别分组和排序数字
func NewChannel(title, code, icon, streamURL string) Channel {
	return Channel{
		Title:      title,
		Code:       code,
		Icon:       icon,
		StreamURL:  streamURL,
		Category:   ClassifyChannel(title),
		SortNumber: ExtractNumber(title),
	}
}

// ExtractNumber 提取频道名称中第一段连续的数字，没有则返回0。
// 全角等Unicode十进制数字同样识别，超出int范围时取math.MaxInt。
func ExtractNumber(title string) int {
	digits := numberRegex.FindString(title)
	if digits == "" {
		return 0
	}

	n := 0
	for _, r := range digits {
		d := digitValue(r)
		if n > (math.MaxInt-d)/10 {
			return math.MaxInt
		}
		n = n*10 + d
	}
	return n
}

// digitValue 十进制数字字符的值。
// Nd类字符按0-9连续成组排列，每个区间都从0开始。
func digitValue(r rune) int {
	for _, r16 := range unicode.Nd.R16 {
		if lo, hi := rune(r16.Lo), rune(r16.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10
		}
	}
	for _, r32 := range unicode.Nd.R32 {
		if lo, hi := rune(r32.Lo), rune(r32.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10
		}
	}
	return 0
}

// RewriteStreamURL 将组播地址的rtp://前缀替换为udpxy地址，其他地址保持不变
func RewriteStreamURL(streamURL, proxyBaseURL string) string {
	if !strings.HasPrefix(streamURL, MulticastScheme) {
		return streamURL
	}
	return proxyBaseURL + strings.TrimPrefix(streamURL, MulticastScheme)
}

// ToM3UFormat 转换为M3U格式内容，proxied为true时使用udpxy转单播地址
func ToM3UFormat(groups ChannelGroups, proxyBaseURL string, proxied bool) string {
	lines := []string{"#EXTM3U"}
	for _, channel := range groups.Ordered() {
		channelURL := channel.StreamURL
		if proxied {
			channelURL = RewriteStreamURL(channelURL, proxyBaseURL)
		}
		// 字段值不做任何转义，保持与播放器的兼容
		lines = append(lines, fmt.Sprintf("#EXTINF:-1 tvg-id=\"%s\" tvg-name=\"%s\" tvg-logo=\"%s\" group-title=\"%s\",%s\n%s",
			channel.Code, channel.Title, channel.Icon, channel.Category, channel.Title, channelURL))
	}
	return strings.Join(lines, "\n")
}
