//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import "github.com/go-edgebit/ioctl/ioc"

var defaultLayout = ioc.Native().Name()
