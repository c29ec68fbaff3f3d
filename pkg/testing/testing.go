package testing

import (
	"os"
	"path"
	"runtime"
)

// Importing this package for side effects moves the test process to the
// project root, so relative paths like logs/ land in one place:
//
//	import _ "liyu1981.xyz/safekids-geofence-service/pkg/testing"
func init() {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}
