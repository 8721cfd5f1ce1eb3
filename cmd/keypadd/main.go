package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/mikeyg123/pi-alarm/pkg/env"
	fx "github.com/mikeyg123/pi-alarm/pkg/framework"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := env.NewConfig()
	u := conf.MustOpenUart()
	defer u.Close()

	e := conf.MustNewEnv(u)
	loop := fx.NewLoop().Add(e)
	if err := fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil {
		glog.Errorf("keypadd: %v", err)
	}
}
