// Package sweep removes files earlier runs left behind.
package sweep

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mpvbridge/mpvbridge/filesystem"
	"github.com/mpvbridge/mpvbridge/log"
	"github.com/spf13/afero"
)

// LogTTL is how long daily log files are kept.
const LogTTL = 7 * 24 * time.Hour

const dialTimeout = 200 * time.Millisecond

// CollectGarbage prunes expired logs in logsDir and dead IPC sockets in socketsDir.
func CollectGarbage(logsDir, socketsDir string) {
	removeIf(logsDir, func(path string, info os.FileInfo) bool {
		return strings.HasSuffix(path, ".log") && time.Since(info.ModTime()) > LogTTL
	})

	removeIf(socketsDir, func(path string, _ os.FileInfo) bool {
		return strings.HasSuffix(path, ".sock") && !alive(path)
	})
}

// alive reports whether something still accepts connections on the socket.
func alive(path string) bool {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func removeIf(dir string, stale func(path string, info os.FileInfo) bool) {
	fs := filesystem.API()
	_ = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if stale(path, info) {
			if err := fs.Remove(path); err != nil {
				log.Warnf("sweep: remove %s: %v", path, err)
				return nil
			}
			log.Debugf("sweep: removed %s", filepath.Base(path))
		}
		return nil
	})
}
