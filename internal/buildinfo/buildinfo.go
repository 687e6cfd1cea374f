// Package buildinfo holds values stamped at link time.
//
//	go build -ldflags "-X github.com/docbreaker-games/docbreaker/internal/buildinfo.Version=v1.2.0"
package buildinfo

var (
	Name    = "docbreaker"
	Version = "dev"
	Commit  = "unknown"
)
