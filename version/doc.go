// Package version exposes the build version of the newsfeed binary.
//
// Version, git commit, branch and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/newsfeed/version.Version=1.0.0"
//
// Values left empty fall back to the VCS stamps embedded by the Go toolchain.
package version
