package xmltv

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"gdtv/internal/app/iptv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGroups() iptv.ChannelGroups {
	return iptv.GroupChannels([]iptv.Channel{
		iptv.NewChannel("湖南卫视", "hunan", "", ""),
		iptv.NewChannel("CCTV-5+", "cctv5", "", ""),
		iptv.NewChannel("广东珠江", "gdzj", "", ""),
		iptv.NewChannel("CGTN", "cgtn", "", ""),
	})
}

func TestBuildXmlEPG(t *testing.T) {
	schedules := iptv.ScheduleMap{}
	schedules = iptv.MergeSchedulePage(schedules, "hunan", &iptv.SchedulePage{
		Channel: iptv.ChannelMeta{Title: iptv.Some("湖南卫视")},
		Schedules: []iptv.Program{
			{StartTime: iptv.Some("20241019080000"), EndTime: iptv.Some("20241019090000"), Title: iptv.Some("新闻")},
		},
	})
	schedules = iptv.MergeSchedulePage(schedules, "cctv5", &iptv.SchedulePage{
		Channel: iptv.ChannelMeta{Icon: iptv.Some("http://x/i.png")},
		Schedules: []iptv.Program{
			{StartTime: iptv.Some("20241019080000"), EndTime: iptv.Some("20241019090000")},
			{StartTime: iptv.Some("20241019090000"), Title: iptv.Some("no stop")},
		},
	})
	schedules = iptv.MergeSchedulePage(schedules, "gdzj", &iptv.SchedulePage{
		Channel: iptv.ChannelMeta{Title: iptv.Some("珠江"), Icon: iptv.Some("")},
	})

	epg := BuildXmlEPG(testGroups(), schedules, "Custom EPG Generator")

	assert.Equal(t, "Custom EPG Generator", epg.GeneratorInfoName)
	require.Len(t, epg.Nodes, 6)

	t.Run("category order with programmes after their channel", func(t *testing.T) {
		var order []string
		for _, node := range epg.Nodes {
			switch n := node.(type) {
			case XmlEPGChannel:
				order = append(order, "channel:"+n.Id)
			case XmlEPGProgramme:
				order = append(order, "programme:"+n.Channel)
			}
		}
		assert.Equal(t, []string{
			"channel:cctv5", "programme:cctv5", "programme:cctv5",
			"channel:gdzj",
			"channel:hunan", "programme:hunan",
		}, order)
	})

	t.Run("channel fallbacks", func(t *testing.T) {
		cctv5 := epg.Nodes[0].(XmlEPGChannel)
		assert.Equal(t, iptv.UnknownChannel, cctv5.DisplayName)
		require.NotNil(t, cctv5.Icon)
		assert.Equal(t, "http://x/i.png", cctv5.Icon.Src)

		gdzj := epg.Nodes[3].(XmlEPGChannel)
		assert.Equal(t, "珠江", gdzj.DisplayName)
		assert.Nil(t, gdzj.Icon)
	})

	t.Run("programme fallbacks", func(t *testing.T) {
		first := epg.Nodes[1].(XmlEPGProgramme)
		assert.Equal(t, "20241019080000 +0800", first.Start)
		assert.Equal(t, "20241019090000 +0800", first.Stop)
		assert.Equal(t, iptv.UnknownProgramme, first.Title.Value)
		assert.Equal(t, "zh", first.Title.Lang)

		second := epg.Nodes[2].(XmlEPGProgramme)
		assert.Empty(t, second.Start)
		assert.Empty(t, second.Stop)
		assert.Equal(t, "no stop", second.Title.Value)
	})

	t.Run("channels without schedules are omitted", func(t *testing.T) {
		for _, node := range epg.Nodes {
			if ch, ok := node.(XmlEPGChannel); ok {
				assert.NotEqual(t, "cgtn", ch.Id)
			}
		}
	})
}

func TestMarshal(t *testing.T) {
	schedules := iptv.MergeSchedulePage(nil, "cctv5", &iptv.SchedulePage{
		Channel: iptv.ChannelMeta{Title: iptv.Some("CCTV-5+ 体育赛事"), Icon: iptv.Some("http://x/i.png?a=1&b=2")},
		Schedules: []iptv.Program{
			{StartTime: iptv.Some("20241019080000"), EndTime: iptv.Some("20241019090000"), Title: iptv.Some("足球 <直播>")},
			{Title: iptv.Some("待定")},
		},
	})
	groups := iptv.GroupChannels([]iptv.Channel{iptv.NewChannel("CCTV-5+", "cctv5", "", "")})

	data, err := Marshal(BuildXmlEPG(groups, schedules, "Custom EPG Generator"))
	require.NoError(t, err)

	want := strings.Join([]string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<tv generator-info-name="Custom EPG Generator">`,
		`  <channel id="cctv5">`,
		`    <display-name>CCTV-5+ 体育赛事</display-name>`,
		`    <icon src="http://x/i.png?a=1&amp;b=2"></icon>`,
		`  </channel>`,
		`  <programme channel="cctv5" start="20241019080000 +0800" stop="20241019090000 +0800">`,
		`    <title lang="zh">足球 &lt;直播&gt;</title>`,
		`  </programme>`,
		`  <programme channel="cctv5">`,
		`    <title lang="zh">待定</title>`,
		`  </programme>`,
		`</tv>`,
		``,
	}, "\n")
	assert.Equal(t, want, string(data))
}

func TestMarshal_Empty(t *testing.T) {
	data, err := Marshal(BuildXmlEPG(iptv.GroupChannels(nil), nil, "gen"))
	require.NoError(t, err)
	assert.Equal(t, xml.Header+`<tv generator-info-name="gen"></tv>`+"\n", string(data))
}

func TestMarshal_Parsable(t *testing.T) {
	schedules := iptv.MergeSchedulePage(nil, "hunan", &iptv.SchedulePage{
		Channel:   iptv.ChannelMeta{Title: iptv.Some("湖南卫视")},
		Schedules: []iptv.Program{{StartTime: iptv.Some("1"), EndTime: iptv.Some("2"), Title: iptv.Some("x")}},
	})
	data, err := Marshal(BuildXmlEPG(testGroups(), schedules, "gen"))
	require.NoError(t, err)

	var parsed struct {
		Generator string `xml:"generator-info-name,attr"`
		Channels  []struct {
			ID          string `xml:"id,attr"`
			DisplayName string `xml:"display-name"`
		} `xml:"channel"`
		Programmes []struct {
			Channel string `xml:"channel,attr"`
			Start   string `xml:"start,attr"`
			Title   string `xml:"title"`
		} `xml:"programme"`
	}
	require.NoError(t, xml.Unmarshal(data, &parsed))

	assert.Equal(t, "gen", parsed.Generator)
	require.Len(t, parsed.Channels, 1)
	assert.Equal(t, "hunan", parsed.Channels[0].ID)
	require.Len(t, parsed.Programmes, 1)
	assert.Equal(t, "1 +0800", parsed.Programmes[0].Start)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "out", "t.xml")
	gzPath := xmlPath + ".gz"

	schedules := iptv.MergeSchedulePage(nil, "hunan", &iptv.SchedulePage{
		Channel:   iptv.ChannelMeta{Title: iptv.Some("湖南卫视")},
		Schedules: []iptv.Program{{StartTime: iptv.Some("1"), EndTime: iptv.Some("2"), Title: iptv.Some("x")}},
	})
	require.NoError(t, WriteFiles(BuildXmlEPG(testGroups(), schedules, "gen"), xmlPath, gzPath))

	xmlData, err := os.ReadFile(xmlPath)
	require.NoError(t, err)

	gzData, err := os.ReadFile(gzPath)
	require.NoError(t, err)
	gzReader, err := gzip.NewReader(bytes.NewReader(gzData))
	require.NoError(t, err)
	unzipped, err := io.ReadAll(gzReader)
	require.NoError(t, err)

	assert.Equal(t, xmlData, unzipped)

	_, err = os.Stat(xmlPath + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
