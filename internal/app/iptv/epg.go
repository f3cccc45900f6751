package iptv

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

const (
	xmltvTimeOffset = " +0800"

	UnknownChannel   = "Unknown Channel"
	UnknownProgramme = "Unknown Programme"
)

// OptString 接口返回的可选字段，字段缺失或为null时视为未设置。
// 数字类型的值按原文保留。
type OptString struct {
	value string
	set   bool
}

// Some 创建已设置的可选字段
func Some(s string) OptString {
	return OptString{value: s, set: true}
}

func (o *OptString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*o = OptString{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = Some(s)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*o = Some(string(data))
	default:
		// 其他类型的值无法作为文本使用，按缺失处理
		*o = OptString{}
	}
	return nil
}

func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// IsSet 字段是否存在
func (o OptString) IsSet() bool {
	return o.set
}

// String 返回字段值，缺失时为空字符串
func (o OptString) String() string {
	return o.value
}

// Or 返回字段值，缺失时使用缺省值
func (o OptString) Or(def string) string {
	if !o.set {
		return def
	}
	return o.value
}

// ChannelMeta 节目单接口中返回的频道信息
type ChannelMeta struct {
	Title OptString `json:"title"`
	Icon  OptString `json:"icon"`
}

// Program 节目
type Program struct {
	ChannelCode string    `json:"-"`         // 所属频道编码
	StartTime   OptString `json:"starttime"` // 开始时间，原样使用，例如：20241122205700
	EndTime     OptString `json:"endtime"`   // 结束时间
	Title       OptString `json:"title"`     // 节目名称
}

// SchedulePage 单个频道某一天的节目单接口响应
type SchedulePage struct {
	Channel   ChannelMeta `json:"channel"`
	Schedules []Program   `json:"schedules"`
}

// ChannelSchedule 频道的节目单，按下载顺序追加
type ChannelSchedule struct {
	Channel  ChannelMeta
	Programs []Program
}

// ScheduleMap 频道编码到节目单的映射
type ScheduleMap map[string]ChannelSchedule

// MergeSchedulePage 将一页节目单合并进已有结果，返回新的映射，不修改acc。
// 频道第一次合并时记录频道信息，之后只追加节目。
func MergeSchedulePage(acc ScheduleMap, code string, page *SchedulePage) ScheduleMap {
	merged := maps.Clone(acc)
	if merged == nil {
		merged = make(ScheduleMap)
	}

	programs := make([]Program, 0, len(page.Schedules))
	for _, program := range page.Schedules {
		program.ChannelCode = code
		programs = append(programs, program)
	}

	existing, ok := merged[code]
	if !ok {
		merged[code] = ChannelSchedule{
			Channel:  page.Channel,
			Programs: programs,
		}
		return merged
	}

	merged[code] = ChannelSchedule{
		Channel:  existing.Channel,
		Programs: slices.Concat(existing.Programs, programs),
	}
	return merged
}

// FormatXMLTVTime 在时间后追加固定的东八区时区，不做任何解析
func FormatXMLTVTime(timeStr string) string {
	return timeStr + xmltvTimeOffset
}

// FetchStats 节目单下载的统计
type FetchStats struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
