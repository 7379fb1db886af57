package main

import (
	_ "github.com/wagerly/bridge-backend/docs"
	"github.com/wagerly/bridge-backend/internal/server"
)

func main() {
	server.Init()
}
