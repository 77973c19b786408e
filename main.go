package main

import "github.com/merchantops/paytm-gateway/cmd"

func main() {
	cmd.Execute()
}
