package main

import (
	"github.com/corray333/backend-labs/vendororders/internal/app"
	"github.com/corray333/backend-labs/vendororders/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
