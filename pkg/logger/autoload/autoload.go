// Package autoload initializes the global logger from the environment on
// import.
package autoload

import (
	configx "github.com/rohanmehta-dev/fintalk/pkg/config"
	logx "github.com/rohanmehta-dev/fintalk/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
