package cmds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/epg/api/custom/getAllChannel.json" {
			w.Write([]byte(`{"channels":[{"title":"CCTV-1","code":"cctv1","icon":"","params":{"hwurl":"rtp://239.1.1.1:1234"}}]}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

// writeTestConfig 写入指向测试服务的配置文件，返回配置文件和输出目录
func writeTestConfig(t *testing.T, serverURL string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	content := strings.Join([]string{
		"catalogURL: " + serverURL + "/epg/api/custom/getAllChannel.json",
		"scheduleBaseURL: " + serverURL + "/epg/api/channel",
		"proxyBaseURL: http://config-proxy/",
		"output:",
		"  playlistDirect: " + filepath.Join(dir, "tv.m3u"),
		"  playlistProxied: " + filepath.Join(dir, "tv2.m3u"),
		"  xmltv: " + filepath.Join(dir, "t.xml"),
		"log:",
		"  level: error",
		"",
	}, "\n")

	cfgPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))
	return cfgPath, dir
}

func execute(args ...string) error {
	rootCmd := NewRootCLI()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func readUnicastURL(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "tv2.m3u"))
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 3)
	return lines[2]
}

func TestGenerateCLI_Udpxy(t *testing.T) {
	server := newTestServer(t)

	t.Run("flag overrides config", func(t *testing.T) {
		cfgPath, dir := writeTestConfig(t, server.URL)
		require.NoError(t, execute("generate", "--config", cfgPath, "--udpxy", "http://192.168.1.1:4022/rtp/"))
		assert.Equal(t, "http://192.168.1.1:4022/rtp/239.1.1.1:1234", readUnicastURL(t, dir))
	})

	t.Run("config value without flag", func(t *testing.T) {
		cfgPath, dir := writeTestConfig(t, server.URL)
		require.NoError(t, execute("generate", "--config", cfgPath))
		assert.Equal(t, "http://config-proxy/239.1.1.1:1234", readUnicastURL(t, dir))
	})
}

func TestServeCLI_Udpxy(t *testing.T) {
	server := newTestServer(t)
	cfgPath, dir := writeTestConfig(t, server.URL)

	// cron表达式错误时在生成文件之前退出
	err := execute("serve", "--config", cfgPath, "-u", "http://serve-proxy/", "--cron", "not a cron")
	require.Error(t, err)
	assert.Equal(t, "http://serve-proxy/", conf.ProxyBaseURL)

	_, err = os.Stat(filepath.Join(dir, "tv2.m3u"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
