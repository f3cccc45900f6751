package router

import (
	"github.com/gin-gonic/gin"
)

const (
	xmlContentType  = "application/xml; charset=utf-8"
	gzipContentType = "application/gzip"
)

// GetXmlEPG 返回XMLTV格式的EPG
func (f artifactFiles) GetXmlEPG(c *gin.Context) {
	serveFile(c, f.xmltv, xmlContentType)
}

// GetXmlEPGWithGzip 返回gzip压缩的XMLTV格式EPG
func (f artifactFiles) GetXmlEPGWithGzip(c *gin.Context) {
	serveFile(c, f.xmltvGzip, gzipContentType)
}
