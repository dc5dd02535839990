//go:build !darwin

package dateadded

import (
	"io/fs"

	"dateadded/pkg/attrlist"
)

// platformCaller on non-darwin platforms: the attribute-list facility does
// not exist, so every call fails with ErrUnsupportedPlatform.
type platformCaller struct{}

func (platformCaller) getattrlist(path string, _ *attrlist.List, _ []byte, _ uint32) error {
	return &fs.PathError{Op: "getattrlist", Path: path, Err: ErrUnsupportedPlatform}
}

func (platformCaller) setattrlist(path string, _ *attrlist.List, _ []byte, _ uint32) error {
	return &fs.PathError{Op: "setattrlist", Path: path, Err: ErrUnsupportedPlatform}
}
