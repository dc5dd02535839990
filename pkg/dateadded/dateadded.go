// Package dateadded reads and writes the macOS "date added" attribute, the
// timestamp recording when a file or directory was added to its containing
// directory (kMDItemDateAdded).
package dateadded

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dateadded/pkg/attrlist"
	"dateadded/pkg/timestamp"
)

// ErrUnsupportedPlatform is returned by every operation on platforms without
// the getattrlist facility.
var ErrUnsupportedPlatform = errors.New("date added attribute requires darwin")

// attrCaller is the narrow boundary to the kernel's attribute-list entry
// points. The rest of the package depends only on this interface, not on the
// native calling convention.
type attrCaller interface {
	getattrlist(path string, req *attrlist.List, buf []byte, opts uint32) error
	setattrlist(path string, req *attrlist.List, payload []byte, opts uint32) error
}

// Client performs date-added operations. It holds no per-call state; a single
// instance is safe to reuse for a whole batch.
type Client struct {
	sys    attrCaller
	logger *slog.Logger
}

// NewClient creates a client bound to the platform's attribute-list facility.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		sys:    platformCaller{},
		logger: logger,
	}
}

// GetDateAdded reads the date-added timestamp of the object at path. The
// second return is false when the attribute is not tracked for the path
// (the kernel did not honor the request); that is a valid result, not an
// error. Symlinks are read themselves, not their targets.
func (c *Client) GetDateAdded(path string) (time.Time, bool, error) {
	if path == "" {
		return time.Time{}, false, fmt.Errorf("path cannot be empty")
	}

	req := attrlist.AddedTimeReadRequest()
	buf := make([]byte, attrlist.AddedTimeResponseSize)

	if err := c.sys.getattrlist(path, &req, buf, attrlist.OptNoFollow); err != nil {
		c.logger.Error("getattrlist failed", "path", path, "error", err)
		return time.Time{}, false, err
	}

	sec, ok, err := attrlist.DecodeAddedTime(buf, req)
	if err != nil {
		c.logger.Error("failed to decode attribute response", "path", path, "error", err)
		return time.Time{}, false, fmt.Errorf("decode attribute response for %s: %w", path, err)
	}
	if !ok {
		c.logger.Debug("date added not tracked", "path", path)
		return time.Time{}, false, nil
	}

	c.logger.Debug("date added read", "path", path, "sec", sec)
	return timestamp.FromSeconds(sec), true, nil
}

// SetDateAdded writes the date-added timestamp of the object at path. The
// value may be ISO-8601 text, epoch seconds, or a calendar timestamp; it is
// resolved before any native call, so a malformed value never reaches the
// kernel. Symlinks are written themselves, not their targets.
func (c *Client) SetDateAdded(path string, v timestamp.Value) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	ts, err := timestamp.ToTimeSpec(v)
	if err != nil {
		return err
	}

	req := attrlist.AddedTimeWriteRequest()
	if err := c.sys.setattrlist(path, &req, ts.Marshal(), attrlist.OptNoFollow); err != nil {
		c.logger.Error("setattrlist failed", "path", path, "error", err)
		return err
	}

	c.logger.Debug("date added written", "path", path, "sec", ts.Sec)
	return nil
}
