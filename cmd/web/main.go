// /cmd/web/main.go
package main

import "github.com/ericoliveiras/artkey-store/internal/cmd"

func main() {
	cmd.Execute()
}
