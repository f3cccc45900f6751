package config

import (
	"errors"
	"fmt"
	"gdtv/internal/pkg/logging"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCatalogURL      = "http://183.235.16.92:8082/epg/api/custom/getAllChannel.json"
	DefaultScheduleBaseURL = "http://183.235.16.92:8082/epg/api/channel"
	DefaultProxyBaseURL    = "http://10.10.10.253:3333/rtp/"
	DefaultGeneratorName   = "Custom EPG Generator"

	gzipSuffix = ".gz"
)

type OutputConfig struct {
	PlaylistDirect  string `json:"playlistDirect" yaml:"playlistDirect"`   // 组播地址列表文件
	PlaylistProxied string `json:"playlistProxied" yaml:"playlistProxied"` // 转单播地址列表文件
	XMLTV           string `json:"xmltv" yaml:"xmltv"`                     // XML节目单文件，压缩文件为同名加.gz
}

type Config struct {
	CatalogURL        string            `json:"catalogURL" yaml:"catalogURL"`               // 频道列表接口地址
	ScheduleBaseURL   string            `json:"scheduleBaseURL" yaml:"scheduleBaseURL"`     // 节目单接口的基础地址，后接/<频道编码>.json
	ProxyBaseURL      string            `json:"proxyBaseURL" yaml:"proxyBaseURL"`           // UDPXY地址，替换rtp://前缀
	Output            OutputConfig      `json:"output" yaml:"output"`                       // 输出文件
	GeneratorName     string            `json:"generatorName" yaml:"generatorName"`         // xmltv的generator-info-name
	Timeout           time.Duration     `json:"timeout" yaml:"timeout"`                     // 单个HTTP请求的超时时间
	RequestsPerSecond float64           `json:"requestsPerSecond" yaml:"requestsPerSecond"` // 节目单请求的限速，0为不限速
	Headers           map[string]string `json:"headers" yaml:"headers"`                     // 自定义HTTP请求头

	Log logging.LogConfig `json:"log" yaml:"log"` // 日志配置
}

// Default 缺省配置
func Default() *Config {
	return &Config{
		CatalogURL:      DefaultCatalogURL,
		ScheduleBaseURL: DefaultScheduleBaseURL,
		ProxyBaseURL:    DefaultProxyBaseURL,
		Output: OutputConfig{
			PlaylistDirect:  "tv.m3u",
			PlaylistProxied: "tv2.m3u",
			XMLTV:           "t.xml",
		},
		GeneratorName: DefaultGeneratorName,
		Timeout:       10 * time.Second,
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (X11; Linux x86_64) gdtv/1.0",
		},
		Log: logging.LogConfig{
			Level:    zapcore.InfoLevel,
			MaxSize:  10,
			MaxAge:   7,
			IsStdout: true,
		},
	}
}

// XMLTVGzipPath 压缩节目单文件的路径
func (c *Config) XMLTVGzipPath() string {
	return c.Output.XMLTV + gzipSuffix
}

func (c *Config) Validate() error {
	// 校验config配置
	if c.CatalogURL == "" ||
		c.ScheduleBaseURL == "" ||
		c.Output.PlaylistDirect == "" ||
		c.Output.PlaylistProxied == "" ||
		c.Output.XMLTV == "" {
		return errors.New("invalid gdtv config")
	}

	for name, rawURL := range map[string]string{
		"catalogURL":      c.CatalogURL,
		"scheduleBaseURL": c.ScheduleBaseURL,
	} {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		} else if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid %s: unsupported scheme %q", name, u.Scheme)
		}
	}

	if c.Timeout <= 0 {
		return errors.New("timeout must be greater than 0")
	} else if c.RequestsPerSecond < 0 {
		return errors.New("requestsPerSecond cannot be negative")
	}

	// L()：获取全局logger
	logger := zap.L()

	if c.ProxyBaseURL == "" {
		logger.Warn("The proxyBaseURL is empty, the multicast prefix will be removed in the unicast playlist.")
	}
	if c.GeneratorName == "" {
		logger.Warn("The generatorName is empty. Use the default value.", zap.String("generatorName", DefaultGeneratorName))
		c.GeneratorName = DefaultGeneratorName
	}

	return nil
}

func Load(fPath string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(fPath)
	if err != nil {
		return nil, err
	}

	// 未配置的字段使用缺省值
	config := Default()
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

func CreateDefaultCfg(fPath string) error {
	// 写入默认配置
	f, err := os.Create(fPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// 创建编码器
	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)

	if err = encoder.Encode(Default()); err != nil {
		return err
	}
	return encoder.Close()
}
