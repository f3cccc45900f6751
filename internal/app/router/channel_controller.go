package router

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const m3uContentType = "audio/x-mpegurl; charset=utf-8"

// artifactFiles 已生成的文件路径
type artifactFiles struct {
	playlistDirect  string
	playlistProxied string
	xmltv           string
	xmltvGzip       string
}

// GetM3U 查询组播地址的直播源
func (f artifactFiles) GetM3U(c *gin.Context) {
	serveFile(c, f.playlistDirect, m3uContentType)
}

// GetUnicastM3U 查询udpxy转单播地址的直播源
func (f artifactFiles) GetUnicastM3U(c *gin.Context) {
	serveFile(c, f.playlistProxied, m3uContentType)
}

// serveFile 返回文件内容，文件不存在时返回404
func serveFile(c *gin.Context, fPath, contentType string) {
	content, err := os.ReadFile(fPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.Status(http.StatusNotFound)
			return
		}
		logger.Error("Failed to read the file.", zap.String("path", fPath), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Disposition", "inline; filename="+filepath.Base(fPath))
	c.Data(http.StatusOK, contentType, content)
}
