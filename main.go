package main

import (
	"os"

	"github.com/sirupsen/logrus"

	_ "github.com/denysvitali/plusfind/cmd/chargetime"
	_ "github.com/denysvitali/plusfind/cmd/configcmd"
	_ "github.com/denysvitali/plusfind/cmd/plan"
	"github.com/denysvitali/plusfind/cmd/root"
	_ "github.com/denysvitali/plusfind/cmd/stations"
	_ "github.com/denysvitali/plusfind/cmd/vehicles"
	_ "github.com/denysvitali/plusfind/cmd/version"
	_ "github.com/denysvitali/plusfind/cmd/watch"
)

func main() {
	if err := root.RootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
