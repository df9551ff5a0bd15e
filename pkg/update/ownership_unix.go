//go:build unix

package update

import (
	"os"
	"syscall"
)

// getFileOwnership returns the uid and gid recorded in info.
func getFileOwnership(info os.FileInfo) (uid, gid int) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(stat.Uid), int(stat.Gid)
	}
	return -1, -1
}

// chownFile gives a rewritten manifest the owner of the file it replaces.
// Unknown ids (-1) and an unchanged owner are left alone.
func chownFile(path string, uid, gid int) error {
	if uid < 0 || gid < 0 {
		return nil
	}
	if uid == os.Getuid() && gid == os.Getgid() {
		return nil
	}
	return os.Chown(path, uid, gid)
}
