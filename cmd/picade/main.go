package main

import (
	"PicadeBackend/internal/bootstrap"
	pkg "PicadeBackend/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()

	app := fx.New(
		pkg.EchoModules,
	)

	app.Run()
}
