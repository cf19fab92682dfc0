// Package main is the entry point of the blog server.
// It sets up and starts the server by calling initialization functions from the internal package.
package main

import (
	"blog-server/internal"
)

func main() {
	internal.Init()
}
