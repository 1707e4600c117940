package main

import "github.com/golang/glog"

// lg is a convenient alias for printing verbose output.
func lg(format string, args ...interface{}) {
	glog.V(1).Infof(format, args...)
}
