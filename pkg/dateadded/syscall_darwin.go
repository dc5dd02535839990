package dateadded

import (
	"io/fs"
	"unsafe"

	"golang.org/x/sys/unix"

	"dateadded/pkg/attrlist"
)

// platformCaller invokes the darwin attribute-list entry points. Failures
// carry the errno and the offending path as a *fs.PathError.
//
// x/sys has no getattrlist wrapper, only the raw syscall number, so the get
// side goes through Syscall6 directly.
type platformCaller struct{}

func (platformCaller) getattrlist(path string, req *attrlist.List, buf []byte, opts uint32) error {
	pathBytes, err := unix.BytePtrFromString(path)
	if err != nil {
		return &fs.PathError{Op: "getattrlist", Path: path, Err: err}
	}

	var bufPtr unsafe.Pointer
	if len(buf) > 0 {
		bufPtr = unsafe.Pointer(&buf[0])
	}

	list := sysList(req)
	_, _, errno := unix.Syscall6(unix.SYS_GETATTRLIST,
		uintptr(unsafe.Pointer(pathBytes)),
		uintptr(unsafe.Pointer(list)),
		uintptr(bufPtr),
		uintptr(len(buf)),
		uintptr(opts),
		0)
	if errno != 0 {
		return &fs.PathError{Op: "getattrlist", Path: path, Err: errno}
	}
	return nil
}

func (platformCaller) setattrlist(path string, req *attrlist.List, payload []byte, opts uint32) error {
	if err := unix.Setattrlist(path, sysList(req), payload, int(opts)); err != nil {
		return &fs.PathError{Op: "setattrlist", Path: path, Err: err}
	}
	return nil
}

// sysList translates the descriptor into the x/sys representation.
func sysList(req *attrlist.List) *unix.Attrlist {
	return &unix.Attrlist{
		Bitmapcount: req.Bitmapcount,
		Reserved:    req.Reserved,
		Commonattr:  req.Commonattr,
		Volattr:     req.Volattr,
		Dirattr:     req.Dirattr,
		Fileattr:    req.Fileattr,
		Forkattr:    req.Forkattr,
	}
}
