package packagekit

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Detect reports whether the package service can be used at all. Two
// best-effort phases collapse into the boolean: first the cache mount is
// checked for writability, because the service cannot modify a read-only
// system and there is no point waking it up; only then is a lightweight
// property read attempted against the service itself.
func (c *Client) Detect(ctx context.Context) bool {
	writable, err := c.mountWritable(c.cacheMount)
	if err != nil {
		logrus.Debugf("checking %s writability: %v", c.cacheMount, err)
	} else if !writable {
		return false
	}

	bus, err := c.conns.Connection(ctx)
	if err != nil {
		logrus.Debugf("package service probe: %v", err)
		return false
	}
	_, err = bus.Object(servicePath).Call(ctx, methodPropertiesGet, serviceInterface, "VersionMajor")
	if err != nil {
		logrus.Debugf("package service probe: %v", err)
		return false
	}
	return true
}

// mountWritable reports whether the filesystem holding path is mounted
// read-write.
func mountWritable(path string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false, err
	}
	return st.Flags&unix.ST_RDONLY == 0, nil
}
