package api

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 抓包下来的资源带内容哈希前缀，如 "a1b2c3_main.js"
var hashedName = regexp.MustCompile(`^[a-f0-9]+_(.+)$`)

var numberedName = regexp.MustCompile(`^(\d+)\.`)

// AssetIndex 单个资源目录的文件索引，支持按裸文件名找回带哈希前缀的文件
type AssetIndex struct {
	dir   string
	files map[string]string
}

// NewAssetIndex 扫描目录建立索引
func NewAssetIndex(dir string, logger *zap.Logger) *AssetIndex {
	idx := &AssetIndex{dir: dir, files: make(map[string]string)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return idx
	}
	for _, e := range entries {
		name := e.Name()
		if m := hashedName.FindStringSubmatch(name); m != nil {
			idx.files[m[1]] = name
		}
		idx.files[name] = name
	}

	logger.Info("静态资源目录已索引",
		zap.String("dir", dir),
		zap.Int("files", len(idx.files)))
	return idx
}

// Resolve 按文件名找到磁盘路径，找不到返回空串
func (a *AssetIndex) Resolve(name string) string {
	direct := filepath.Join(a.dir, name)
	if fileExists(direct) {
		return direct
	}
	if f, ok := a.files[name]; ok {
		return filepath.Join(a.dir, f)
	}
	// "1.chunk.js" 在磁盘上可能存成 "1-chunk.js"
	if hyphen := numberedName.ReplaceAllString(name, "$1-"); hyphen != name {
		if f, ok := a.files[hyphen]; ok {
			return filepath.Join(a.dir, f)
		}
	}
	// 方括号在抓包时被转义过
	enc := strings.NewReplacer("[", "%5B", "]", "%5D").Replace(name)
	if f, ok := a.files[enc]; ok {
		return filepath.Join(a.dir, f)
	}
	if dec, err := url.QueryUnescape(name); err == nil {
		if f, ok := a.files[dec]; ok {
			return filepath.Join(a.dir, f)
		}
	}
	return ""
}

// Assets 三个游戏的前端资源
type Assets struct {
	publicDir string
	indexes   map[string]*AssetIndex
	logger    *zap.Logger
}

// NewAssets 建立全部资源索引
func NewAssets(publicDir string, logger *zap.Logger) *Assets {
	indexes := make(map[string]*AssetIndex)
	for _, game := range []string{"chicken-cross", "blackjack", "plinko"} {
		indexes[game] = NewAssetIndex(filepath.Join(publicDir, game+"_files"), logger)
	}
	return &Assets{
		publicDir: publicDir,
		indexes:   indexes,
		logger:    logger,
	}
}

// ResolveAny 在所有资源目录中按文件名查找，referer里带游戏名的优先查对应目录
func (a *Assets) ResolveAny(name, preferGame string) string {
	if idx, ok := a.indexes[preferGame]; ok {
		if p := idx.Resolve(name); p != "" {
			return p
		}
	}
	for _, idx := range a.indexes {
		if p := idx.Resolve(name); p != "" {
			return p
		}
	}
	return ""
}

// preferredGame 从referer推断正在玩哪个游戏
func preferredGame(c *gin.Context) string {
	ref := c.GetHeader("Referer")
	for _, game := range []string{"blackjack", "chicken-cross", "plinko"} {
		if strings.Contains(ref, game) {
			return game
		}
	}
	return ""
}

// 缺失音频用一段无声MP3顶上，前端不至于报错
var silentMP3 = []byte{
	0xff, 0xf3, 0x90, 0xc4, 0x00, 0x00, 0x00, 0x0d, 0x20, 0x00, 0x00, 0x00,
	0x00, 0x4c, 0x41, 0x4d, 0x45, 0x33, 0x2e, 0x31, 0x30, 0x30, 0x55, 0x55,
	0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55,
	0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55,
}

// 1x1透明GIF，顶替找不到的图片
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x01, 0x44, 0x00, 0x3b,
}

// ServeFallback 兜底的静态请求处理：游戏页面、裸资源名、_next路径
func (a *Assets) ServeFallback(c *gin.Context) {
	pathname := c.Request.URL.Path
	prefer := preferredGame(c)

	// 游戏入口页
	if game, ok := gamePage(pathname); ok {
		page := filepath.Join(a.publicDir, game+".html")
		if fileExists(page) {
			c.File(page)
			return
		}
	}
	if pathname == "/" || pathname == "/index.html" {
		index := filepath.Join(a.publicDir, "index.html")
		if fileExists(index) {
			c.File(index)
			return
		}
	}

	// public下的真实文件
	direct := filepath.Join(a.publicDir, filepath.Clean(pathname))
	if strings.HasPrefix(direct, filepath.Clean(a.publicDir)) && fileExists(direct) {
		c.File(direct)
		return
	}

	// _next/data 会话JSON
	if strings.HasPrefix(pathname, "/_next/data/") {
		c.JSON(http.StatusOK, gin.H{
			"pageProps": gin.H{
				"session": gin.H{
					"user":    gin.H{"access_token": "demo-token", "name": demoUser.Username},
					"expires": "2099-12-31T23:59:59.999Z",
				},
			},
			"__N_SSP": true,
		})
		return
	}

	// 按裸文件名在资源目录里找
	if p := a.ResolveAny(filepath.Base(pathname), prefer); p != "" {
		c.File(p)
		return
	}

	switch {
	case strings.HasSuffix(pathname, ".mp3"), strings.HasSuffix(pathname, ".wav"), strings.HasSuffix(pathname, ".ogg"):
		c.Data(http.StatusOK, "audio/mpeg", silentMP3)
	case strings.HasPrefix(pathname, "/_next/") && strings.HasSuffix(pathname, ".js"):
		c.Data(http.StatusOK, "application/javascript", []byte("// not available"))
	case strings.HasPrefix(pathname, "/_next/") && strings.HasSuffix(pathname, ".css"):
		c.Data(http.StatusOK, "text/css", []byte("/* not available */"))
	case strings.HasPrefix(pathname, "/_next/image"):
		if imgURL := c.Query("url"); imgURL != "" {
			if p := a.ResolveAny(filepath.Base(imgURL), prefer); p != "" {
				c.File(p)
				return
			}
		}
		c.Data(http.StatusOK, "image/gif", pixelGIF)
	default:
		a.logger.Debug("静态资源未找到", zap.String("path", pathname))
		c.String(http.StatusNotFound, "Not Found: %s", pathname)
	}
}

func gamePage(pathname string) (string, bool) {
	for _, game := range []string{"chicken-cross", "blackjack", "plinko"} {
		if pathname == "/casino/originals/"+game || pathname == "/en/casino/originals/"+game {
			return game, true
		}
	}
	return "", false
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
