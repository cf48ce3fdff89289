// Package ioctl binds ioctl request codes to Go types, following the
// _IO/_IOR/_IOW/_IOWR conventions of C headers closely enough that a header
// can be ported line by line.
//
// From linux/videodev2.h:
//
//	#define VIDIOC_QUERYCAP		 _IOR('V',  0, struct v4l2_capability)
//
// becomes
//
//	var VIDIOC_QUERYCAP = ioctl.IOR[Capability]('V', 0)
//
//	var c Capability
//	_, err := VIDIOC_QUERYCAP.Ioctl(f, &c)
//
// The size of Capability is part of the request code, and the handle only
// accepts a *Capability, so a mismatched argument does not compile.
//
// Nothing here can check that Capability has the memory layout the driver
// expects. Several drivers share group letters, and a request built for one
// may be accepted by another whose argument happens to have the same size.
// Callers should only hand these requests to files they know belong to the
// intended driver.
package ioctl
