package main

import (
	"context"
	"io"

	"github.com/bundlekit/bundlekit/awscfg"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/containerize"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/delete"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/deploy"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/info"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/list"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/logs"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/provision"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/pull"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/push"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/scaffold"
	"github.com/bundlekit/bundlekit/cmd/bundlekit/teardown"
)

var dispatchMap = map[string]func(context.Context, *awscfg.Config, io.Writer){
	"containerize": containerize.Main,
	"delete":       delete.Main,
	"deploy":       deploy.Main,
	"info":         info.Main,
	"list":         list.Main,
	"logs":         logs.Main,
	"provision":    provision.Main,
	"pull":         pull.Main,
	"push":         push.Main,
	"scaffold":     scaffold.Main,
	"teardown":     teardown.Main,
}
