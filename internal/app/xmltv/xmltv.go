package xmltv

import (
	"bytes"
	"compress/gzip"
	"encoding/xml"
	"gdtv/internal/app/iptv"
	"gdtv/internal/pkg/util"
)

const programmeLang = "zh"

// XmlEPG XMLTV格式的EPG。
// 频道和节目都是根节点的子节点，按频道、该频道的节目、下一个频道的顺序输出。
type XmlEPG struct {
	GeneratorInfoName string
	Nodes             []any // XmlEPGChannel或XmlEPGProgramme
}

type XmlEPGChannel struct {
	XMLName     xml.Name    `xml:"channel"`
	Id          string      `xml:"id,attr"`
	DisplayName string      `xml:"display-name"`
	Icon        *XmlEPGIcon `xml:"icon,omitempty"`
}

type XmlEPGIcon struct {
	Src string `xml:"src,attr"`
}

type XmlEPGProgramme struct {
	XMLName xml.Name       `xml:"programme"`
	Channel string         `xml:"channel,attr"`
	Start   string         `xml:"start,attr,omitempty"`
	Stop    string         `xml:"stop,attr,omitempty"`
	Title   *XmlEPGDisplay `xml:"title"`
}

type XmlEPGDisplay struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

func (x *XmlEPG) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "tv"}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "generator-info-name"}, Value: x.GeneratorInfoName}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, node := range x.Nodes {
		if err := e.Encode(node); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// BuildXmlEPG 将频道节目单转为xmltv格式，没有节目单数据的频道不输出
func BuildXmlEPG(groups iptv.ChannelGroups, schedules iptv.ScheduleMap, generatorName string) *XmlEPG {
	epg := &XmlEPG{GeneratorInfoName: generatorName}
	for _, channel := range groups.Ordered() {
		chSchedule, ok := schedules[channel.Code]
		if !ok {
			continue
		}

		// 频道信息
		xmlChannel := XmlEPGChannel{
			Id:          channel.Code,
			DisplayName: chSchedule.Channel.Title.Or(iptv.UnknownChannel),
		}
		if icon := chSchedule.Channel.Icon.String(); icon != "" {
			xmlChannel.Icon = &XmlEPGIcon{Src: icon}
		}
		epg.Nodes = append(epg.Nodes, xmlChannel)

		// 节目信息
		for _, program := range chSchedule.Programs {
			epg.Nodes = append(epg.Nodes, toXmlProgramme(channel.Code, program))
		}
	}
	return epg
}

func toXmlProgramme(code string, program iptv.Program) XmlEPGProgramme {
	programme := XmlEPGProgramme{
		Channel: code,
		Title: &XmlEPGDisplay{
			Lang:  programmeLang,
			Value: program.Title.Or(iptv.UnknownProgramme),
		},
	}
	// 开始或结束时间缺失时两者都不输出
	start, stop := program.StartTime.String(), program.EndTime.String()
	if start != "" && stop != "" {
		programme.Start = iptv.FormatXMLTVTime(start)
		programme.Stop = iptv.FormatXMLTVTime(stop)
	}
	return programme
}

// Marshal 格式化输出带xml头的内容
func Marshal(epg *XmlEPG) ([]byte, error) {
	xmlData, err := xml.MarshalIndent(epg, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(xmlData) + 1)
	buf.WriteString(xml.Header)
	buf.Write(xmlData)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Gzip 压缩xml内容
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	if _, err := gzipWriter.Write(data); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFiles 写入xml文件，并将相同的内容压缩写入gzPath
func WriteFiles(epg *XmlEPG, xmlPath, gzPath string) error {
	data, err := Marshal(epg)
	if err != nil {
		return err
	}
	if err = util.WriteFile(xmlPath, data); err != nil {
		return err
	}

	gzData, err := Gzip(data)
	if err != nil {
		return err
	}
	return util.WriteFile(gzPath, gzData)
}
