package opts

import (
	"github.com/walteh/fileq/pkg/log"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	UserLogger *log.Logger
}
