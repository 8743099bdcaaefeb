package main

import "storefront-backend/internal/cmd"

func main() {
	cmd.Execute()
}
